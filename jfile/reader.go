// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

package jfile

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/fernwood/jvalue"
	"github.com/fernwood/jvalue/tree"
)

// A Reader reads a file of back-to-back JSON documents in fixed-size chunks.
// Each call to Next reads one chunk and parses it as a single complete
// document; the writer of the file must have laid the documents out on the
// same chunk size. A Reader is not an incremental tokenizer: a document that
// straddles a chunk boundary is a parse error.
//
// A path ending in ".gz" is decompressed transparently; the chunk size then
// applies to the uncompressed stream.
type Reader struct {
	f   *os.File
	z   *gzip.Reader // non-nil when the input is compressed
	src io.Reader
	buf []byte
}

// DefaultChunkSize is the chunk size used by Open when none is given.
const DefaultChunkSize = 8192

// Open opens the file at path for chunked reading. Each chunk holds at most
// bufSize-1 bytes of document text. If bufSize is zero or negative,
// DefaultChunkSize is used; otherwise it must be at least 2.
func Open(path string, bufSize int) (*Reader, error) {
	if bufSize <= 0 {
		bufSize = DefaultChunkSize
	}
	if bufSize < 2 {
		return nil, &jvalue.Error{Code: jvalue.CodeInvalidConfig, Message: "chunk buffer size must be at least 2"}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, jvalue.WrapIO("open", err)
	}
	r := &Reader{f: f, src: f, buf: make([]byte, bufSize-1)}
	if strings.HasSuffix(path, ".gz") {
		z, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, jvalue.WrapIO("gzip", err)
		}
		r.z = z
		r.src = z
	}
	return r, nil
}

// Next reads the next chunk and parses it as one complete document. It
// returns io.EOF when the input is exhausted. A short final chunk is
// permitted; an empty one is end of input.
func (r *Reader) Next() (tree.Value, error) {
	n, err := io.ReadFull(r.src, r.buf)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, jvalue.WrapIO("read", err)
	}
	return tree.ParseBytes(r.buf[:n])
}

// Close releases the resources held by r.
func (r *Reader) Close() error {
	var zerr error
	if r.z != nil {
		zerr = r.z.Close()
	}
	if err := r.f.Close(); err != nil {
		return jvalue.WrapIO("close", err)
	}
	if zerr != nil {
		return jvalue.WrapIO("close", zerr)
	}
	return nil
}
