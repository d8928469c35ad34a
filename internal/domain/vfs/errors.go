package vfs

import (
	"errors"
	"io/fs"
)

// Errors surfaced by tree operations. They are always wrapped in an
// *fs.PathError naming the operation and path; match with errors.Is.
var (
	ErrNotFound      = errors.New("no such file or directory")
	ErrNotADirectory = errors.New("not a directory")
	ErrNotAFile      = errors.New("is a directory")
	ErrInvalidPath   = errors.New("invalid path")
	ErrInvalidMove   = errors.New("cannot move a directory into itself")
)

func pathErr(op, path string, err error) error {
	return &fs.PathError{Op: op, Path: path, Err: err}
}
