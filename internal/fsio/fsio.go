// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fsio holds the file-boundary helpers every stage shares: opening
// static inputs so that I/O failures are distinguishable from bad data, and
// writing outputs through a temporary file that is renamed into place.
package fsio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// InputUnavailableError reports that an input file could not be read at
// all (missing, permission denied, a directory). It is never used for
// content problems.
type InputUnavailableError struct {
	Path string
	Err  error
}

func (e *InputUnavailableError) Error() string {
	return fmt.Sprintf("input unavailable: %s: %v", e.Path, e.Err)
}

func (e *InputUnavailableError) Unwrap() error { return e.Err }

// Open opens path for reading. Failures are returned as
// *InputUnavailableError.
func Open(path string) (*os.File, error) {
	if path == "" {
		return nil, &InputUnavailableError{Path: path, Err: fmt.Errorf("no path configured")}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputUnavailableError{Path: path, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &InputUnavailableError{Path: path, Err: err}
	}
	if info.IsDir() {
		f.Close()
		return nil, &InputUnavailableError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	return f, nil
}

// ReadFile reads the whole of path. Failures are returned as
// *InputUnavailableError.
func ReadFile(path string) ([]byte, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &InputUnavailableError{Path: path, Err: err}
	}
	return data, nil
}

// ReadGeneSet reads a gene list: one symbol per line, the first
// tab-separated field of each line. Blank lines and lines starting with '#'
// are skipped. Symbols are trimmed and upper-cased.
func ReadGeneSet(path string) (map[string]struct{}, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	genes := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.IndexByte(line, '\t'); i >= 0 {
			line = line[:i]
		}
		if sym := strings.ToUpper(strings.TrimSpace(line)); sym != "" {
			genes[sym] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &InputUnavailableError{Path: path, Err: err}
	}
	return genes, nil
}

// WriteAtomic creates destPath by running write against a temporary file in
// the same directory and renaming it into place once write and close both
// succeed. On any failure the temporary file is removed and destPath is
// left untouched.
func WriteAtomic(destPath string, write func(w io.Writer) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".rivet-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	bw := bufio.NewWriter(tmpFile)
	writeErr := write(bw)
	if writeErr == nil {
		writeErr = bw.Flush()
	}
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", filepath.Base(destPath), writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
