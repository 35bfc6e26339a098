// Package safefile opens log and rules files while refusing anything that is
// not a plain regular file.
package safefile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotRegularFile is returned for symlinks, FIFOs, devices, sockets and directories.
var ErrNotRegularFile = errors.New("not a regular file")

// ErrTooLarge is returned by ReadLimited when the file exceeds its size limit.
var ErrTooLarge = errors.New("file too large")

// CheckRegular lstats path without following symlinks and reports
// ErrNotRegularFile unless it names a regular file.
func CheckRegular(path string) (os.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotRegularFile
	}
	return info, nil
}

// OpenRegular opens a file and verifies it is a regular file both before and
// after the open, so a path swapped for a symlink or FIFO in between is caught.
//
// The caller must close the returned file.
func OpenRegular(path string) (*os.File, os.FileInfo, error) {
	if _, err := CheckRegular(path); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}

	return f, info, nil
}

// ReadLimited reads a whole regular file, failing with ErrTooLarge when it
// holds more than max bytes. The limit is enforced during the read as well,
// in case the file grows after the stat.
func ReadLimited(path string, max int64) ([]byte, error) {
	f, info, err := OpenRegular(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if info.Size() > max {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), max)
	}

	data, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, max)
	}
	return data, nil
}
