package stardict

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heartmarshall/dictforge/internal/cache"
	"github.com/heartmarshall/dictforge/internal/fetch"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// buildArchive packs a single-word StarDict bundle (.ifo/.idx/.dict) into a
// tar.xz archive's bytes.
func buildArchive(t *testing.T, word, definition string) []byte {
	t.Helper()

	var idxBuf bytes.Buffer
	idxBuf.WriteString(word)
	idxBuf.WriteByte(0)
	var offsetSize [8]byte
	binary.BigEndian.PutUint32(offsetSize[0:4], 0)
	binary.BigEndian.PutUint32(offsetSize[4:8], uint32(len(definition)))
	idxBuf.Write(offsetSize[:])

	files := map[string]string{
		"dict/bundle.ifo":  "StarDict's dict ifo file\nversion=3.0.0\n",
		"dict/bundle.idx":  idxBuf.String(),
		"dict/bundle.dict": definition,
	}

	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())

	var xzBuf bytes.Buffer
	xw, err := xz.NewWriter(&xzBuf)
	require.NoError(t, err)
	_, err = xw.Write(tarBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, xw.Close())

	return xzBuf.Bytes()
}

// servePair registers the directory-index and archive handlers for one
// direct language pair on mux.
func servePair(t *testing.T, mux *http.ServeMux, pair, word, definition string) {
	t.Helper()
	filename := "freedict-" + pair + "-2023.10.10-stardict.tar.xz"
	archive := buildArchive(t, word, definition)

	mux.HandleFunc("/"+pair+"/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a href="2023.10.10/">2023.10.10/</a>`))
	})
	mux.HandleFunc("/"+pair+"/2023.10.10/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a href="` + filename + `">stardict</a>`))
	})
	mux.HandleFunc("/"+pair+"/2023.10.10/"+filename, func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	})
}

// TestGetEntriesChainsThroughPivot covers the case where no direct
// Serbian-Russian StarDict pair exists: srp-eng has кућа -> house, and
// eng-rus has house -> дом, so the chained corpus should contain
// кућа -> [дом].
func TestGetEntriesChainsThroughPivot(t *testing.T) {
	mux := http.NewServeMux()
	servePair(t, mux, "srp-eng", "кућа", "house")
	servePair(t, mux, "eng-rus", "house", "дом")
	mux.HandleFunc("/srp-rus/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	old := stardictRoot
	stardictRoot = srv.URL
	defer func() { stardictRoot = old }()

	dir := t.TempDir()
	layout := cache.New(dir)
	src := New(layout, fetch.New("stardict", srv.Client(), nil), srv.Client(), nil)

	entries, err := src.GetEntries(context.Background(), "Serbian", "Russian")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "кућа", entries[0].Word)
	require.Equal(t, []string{"дом"}, entries[0].Senses[0].Glosses)
}

// TestGetEntriesDirectPair covers the direct-pair path with no chaining.
func TestGetEntriesDirectPair(t *testing.T) {
	mux := http.NewServeMux()
	servePair(t, mux, "eng-srp", "house", "кућа")

	srv := httptest.NewServer(mux)
	defer srv.Close()

	old := stardictRoot
	stardictRoot = srv.URL
	defer func() { stardictRoot = old }()

	dir := t.TempDir()
	layout := cache.New(dir)
	src := New(layout, fetch.New("stardict", srv.Client(), nil), srv.Client(), nil)

	entries, err := src.GetEntries(context.Background(), "English", "Serbian")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "house", entries[0].Word)
	require.Equal(t, []string{"кућа"}, entries[0].Senses[0].Glosses)
}
