// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

// Package jfile reads and writes JSON documents as files and streams.
//
// Writes render compact single-line output. WriteFileAtomic stages the
// output in a temporary file and renames it over the target, so a crash or
// write failure never leaves the target partially written. Reads cover whole
// seekable streams (ParseStream), whole files (ParseFile, ValidFile), and
// files of back-to-back documents in fixed-size chunks (Reader).
package jfile

import (
	"bufio"
	"io"
	"os"

	"github.com/fernwood/jvalue"
	"github.com/fernwood/jvalue/format"
	"github.com/fernwood/jvalue/tree"
)

// WriteStream writes v to w in compact single-line form with no trailing
// line terminator. A short write is reported as an error.
func WriteStream(w io.Writer, v tree.Value) error {
	return format.Format(w, v, format.Compact)
}

// WriteFile writes v to the file at path in compact form, creating the file
// if necessary and truncating it otherwise. The write is done in place; a
// failure part-way leaves the file truncated. Use WriteFileAtomic when the
// previous contents must survive a failed write.
func WriteFile(path string, v tree.Value) error {
	f, err := os.Create(path)
	if err != nil {
		return jvalue.WrapIO("create", err)
	}
	if err := WriteStream(f, v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return jvalue.WrapIO("close", err)
	}
	return nil
}

// Default settings for WriteFileAtomic.
const (
	DefaultBufferSize = 8192
	DefaultTempSuffix = ".tmp"
)

// A WriteConfig carries optional settings for WriteFileAtomic. A nil
// *WriteConfig is ready to use and provides default values as described.
type WriteConfig struct {
	// Size in bytes of the output buffer. If zero or negative, use
	// DefaultBufferSize.
	BufferSize int

	// Suffix appended to the target path to name the temporary file. If
	// empty, use DefaultTempSuffix.
	TempSuffix string

	// If true, sync the temporary file to storage before renaming it over
	// the target.
	SyncOnClose bool
}

func (c *WriteConfig) bufferSize() int {
	if c == nil || c.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return c.BufferSize
}

func (c *WriteConfig) tempSuffix() string {
	if c == nil || c.TempSuffix == "" {
		return DefaultTempSuffix
	}
	return c.TempSuffix
}

func (c *WriteConfig) syncOnClose() bool { return c != nil && c.SyncOnClose }

// WriteFileAtomic writes v to the file at path in compact form, staging the
// output in a temporary file beside the target and renaming it over the
// target once the write has fully succeeded. On any failure the temporary
// file is removed and the target keeps its previous contents.
func WriteFileAtomic(path string, v tree.Value, cfg *WriteConfig) error {
	tmp := path + cfg.tempSuffix()
	f, err := os.Create(tmp)
	if err != nil {
		return jvalue.WrapIO("create", err)
	}
	if err := writeBuffered(f, v, cfg); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return jvalue.WrapIO("close", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return jvalue.WrapIO("rename", err)
	}
	return nil
}

func writeBuffered(f *os.File, v tree.Value, cfg *WriteConfig) error {
	bw := bufio.NewWriterSize(f, cfg.bufferSize())
	if err := WriteStream(bw, v); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return jvalue.WrapIO("flush", err)
	}
	if cfg.syncOnClose() {
		if err := f.Sync(); err != nil {
			return jvalue.WrapIO("sync", err)
		}
	}
	return nil
}

// ParseStream parses a single complete JSON document from rs. The stream is
// read in full, from its current position to its end; seeking is used to
// discover how much input remains, and the stream is left positioned at its
// end.
func ParseStream(rs io.ReadSeeker) (tree.Value, error) {
	data, err := readRemainder(rs)
	if err != nil {
		return nil, err
	}
	return tree.ParseBytes(data)
}

// readRemainder reads rs from its current position through its end,
// pre-sizing the result from the seek offsets.
func readRemainder(rs io.ReadSeeker) ([]byte, error) {
	cur, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, jvalue.WrapIO("seek", err)
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, jvalue.WrapIO("seek", err)
	}
	if _, err := rs.Seek(cur, io.SeekStart); err != nil {
		return nil, jvalue.WrapIO("seek", err)
	}
	data := make([]byte, end-cur)
	if _, err := io.ReadFull(rs, data); err != nil {
		return nil, jvalue.WrapIO("read", err)
	}
	return data, nil
}

// ParseFile parses the file at path as a single complete JSON document.
func ParseFile(path string) (tree.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, jvalue.WrapIO("open", err)
	}
	defer f.Close()
	return ParseStream(f)
}

// ValidFile reports whether the file at path holds a single well-formed JSON
// document. It reads the file incrementally and retains no result data.
func ValidFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return jvalue.WrapIO("open", err)
	}
	defer f.Close()
	return jvalue.Valid(f)
}
