// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

package jfile_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fernwood/jvalue"
	"github.com/fernwood/jvalue/jfile"
	"github.com/fernwood/jvalue/tree"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chunkSize = 16

// chunk pads doc with spaces to exactly chunkSize-1 bytes.
func chunk(t *testing.T, doc string) string {
	t.Helper()
	require.LessOrEqual(t, len(doc), chunkSize-1, "document too long for chunk")
	return doc + strings.Repeat(" ", chunkSize-1-len(doc))
}

func TestReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.log")
	data := chunk(t, `{"seq":1}`) + chunk(t, `{"seq":2}`) + `{"seq":3}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	r, err := jfile.Open(path, chunkSize)
	require.NoError(t, err)
	defer r.Close()

	for i := 1; i <= 3; i++ {
		v, err := r.Next()
		require.NoError(t, err, "document %d", i)
		assert.Equal(t, tree.Number(i), v.(*tree.Object).Get("seq"))
	}
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, r.Close())
}

func TestReaderGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.log.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = io.WriteString(zw, chunk(t, `{"seq":1}`)+`{"seq":2}`)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	r, err := jfile.Open(path, chunkSize)
	require.NoError(t, err)
	defer r.Close()

	for i := 1; i <= 2; i++ {
		v, err := r.Next()
		require.NoError(t, err, "document %d", i)
		assert.Equal(t, tree.Number(i), v.(*tree.Object).Get("seq"))
	}
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderDefaultChunkSize(t *testing.T) {
	// A zero size selects DefaultChunkSize, so a document well past 16 bytes
	// but under one default chunk reads back whole.
	path := filepath.Join(t.TempDir(), "chunks.log")
	doc := `{"name":"` + strings.Repeat("a", 100) + `"}`
	data := doc + strings.Repeat(" ", jfile.DefaultChunkSize-1-len(doc)) + `{"seq":2}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	r, err := jfile.Open(path, 0)
	require.NoError(t, err)
	defer r.Close()

	v, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, tree.String(strings.Repeat("a", 100)), v.(*tree.Object).Get("name"))

	v, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, tree.Number(2), v.(*tree.Object).Get("seq"))

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderStraddle(t *testing.T) {
	// A document longer than one chunk cannot be read back: the reader is
	// not an incremental tokenizer.
	path := filepath.Join(t.TempDir(), "chunks.log")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"abcdefghijklmnop"}`), 0o644))

	r, err := jfile.Open(path, chunkSize)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	var e *jvalue.Error
	require.ErrorAs(t, err, &e)
}

func TestReaderOpenErrors(t *testing.T) {
	_, err := jfile.Open(filepath.Join(t.TempDir(), "absent.log"), chunkSize)
	var e *jvalue.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, jvalue.CodeIO, e.Code)

	_, err = jfile.Open("whatever.log", 1)
	require.ErrorAs(t, err, &e)
	assert.Equal(t, jvalue.CodeInvalidConfig, e.Code)
}
