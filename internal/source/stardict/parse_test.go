package stardict

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeIfo(t *testing.T, path string) {
	t.Helper()
	content := "StarDict's dict ifo file\nversion=3.0.0\nbookname=Test Dict\nwordcount=2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeIndex(t *testing.T, path string, entries []IndexEntry, gz bool) {
	t.Helper()
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(e.Word)
		buf.WriteByte(0)
		var offsetSize [8]byte
		binary.BigEndian.PutUint32(offsetSize[0:4], e.Offset)
		binary.BigEndian.PutUint32(offsetSize[4:8], e.Size)
		buf.Write(offsetSize[:])
	}

	if gz {
		var gzBuf bytes.Buffer
		w := gzip.NewWriter(&gzBuf)
		w.Write(buf.Bytes())
		require.NoError(t, w.Close())
		require.NoError(t, os.WriteFile(path, gzBuf.Bytes(), 0o644))
		return
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestParseIfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ifo")
	writeIfo(t, path)

	meta, err := ParseIfo(path)
	require.NoError(t, err)
	require.Equal(t, "3.0.0", meta["version"])
	require.Equal(t, "Test Dict", meta["bookname"])
}

func TestParseIndexPlainAndGz(t *testing.T) {
	entries := []IndexEntry{
		{Word: "cat", Offset: 0, Size: 10},
		{Word: "dog", Offset: 10, Size: 5},
	}

	dir := t.TempDir()
	plainPath := filepath.Join(dir, "test.idx")
	writeIndex(t, plainPath, entries, false)

	got, err := ParseIndex(plainPath)
	require.NoError(t, err)
	require.Equal(t, entries, got)

	gzPath := filepath.Join(dir, "test.idx.gz")
	writeIndex(t, gzPath, entries, true)

	got, err = ParseIndex(gzPath)
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestReadDictBlobPlainAndDz(t *testing.T) {
	dir := t.TempDir()
	blob := []byte("a small feline\na domestic canine")

	plainPath := filepath.Join(dir, "test.dict")
	require.NoError(t, os.WriteFile(plainPath, blob, 0o644))

	got, err := ReadDictBlob(plainPath)
	require.NoError(t, err)
	require.Equal(t, blob, got)

	dzPath := filepath.Join(dir, "test.dict.dz")
	var gzBuf bytes.Buffer
	w := gzip.NewWriter(&gzBuf)
	w.Write(blob)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(dzPath, gzBuf.Bytes(), 0o644))

	got, err = ReadDictBlob(dzPath)
	require.NoError(t, err)
	require.Equal(t, blob, got)
}

func TestExtractGlossesSplitsAndStripsHTML(t *testing.T) {
	got := ExtractGlosses("<b>a small feline</b>; a big cat|another sense")
	require.Equal(t, []string{"a small feline", "a big cat", "another sense"}, got)
}

func TestExtractGlossesFallsBackToWholeText(t *testing.T) {
	got := ExtractGlosses("   ")
	require.Empty(t, got)

	got = ExtractGlosses("just one continuous gloss with no delimiters")
	require.Equal(t, []string{"just one continuous gloss with no delimiters"}, got)
}

func TestBundleDefinition(t *testing.T) {
	b := Bundle{Blob: []byte("a small feline|a domestic canine")}
	got := b.Definition(IndexEntry{Offset: 0, Size: 14})
	require.Equal(t, "a small feline", got)

	got = b.Definition(IndexEntry{Offset: 1000, Size: 5})
	require.Equal(t, "", got)
}
