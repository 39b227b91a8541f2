package stardict

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPairCode(t *testing.T) {
	pair, err := PairCode("English", "Serbian")
	require.NoError(t, err)
	require.Equal(t, "eng-srp", pair)

	_, err = PairCode("Klingon", "English")
	require.Error(t, err)
}

func TestDiscoverLatestVersionParsesIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="2021.07.04/">2021.07.04/</a>
			<a href="2023.10.10/">2023.10.10/</a>
			<a href="2022.10.10/">2022.10.10/</a>
		</body></html>`))
	}))
	defer srv.Close()

	old := stardictRoot
	stardictRoot = srv.URL
	defer func() { stardictRoot = old }()

	version, err := DiscoverLatestVersion(context.Background(), srv.Client(), "eng-srp")
	require.NoError(t, err)
	require.Equal(t, "2023.10.10", version)
}

func TestDiscoverLatestVersionFallsBackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	old := stardictRoot
	stardictRoot = srv.URL
	defer func() { stardictRoot = old }()

	version, err := DiscoverLatestVersion(context.Background(), srv.Client(), "eng-srp")
	require.NoError(t, err)
	require.Equal(t, fallbackVersions[0], version)
}

func TestResolveArchiveFilenamePrefersStardictName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="freedict-eng-srp-2023.10.10.src.tar.xz">src</a>
			<a href="freedict-eng-srp-2023.10.10-stardict.tar.xz">stardict</a>
		</body></html>`))
	}))
	defer srv.Close()

	old := stardictRoot
	stardictRoot = srv.URL
	defer func() { stardictRoot = old }()

	name, err := ResolveArchiveFilename(context.Background(), srv.Client(), "eng-srp", "2023.10.10")
	require.NoError(t, err)
	require.Equal(t, "freedict-eng-srp-2023.10.10-stardict.tar.xz", name)
}

func TestResolveArchiveFilenameProbesTemplatesInOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/eng-srp/2023.10.10/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	// First template (freedict-%s-%s.tar.xz) 404s; second template
	// (%s-%s.tar.xz) is the one that actually exists.
	mux.HandleFunc("/eng-srp/2023.10.10/eng-srp-2023.10.10.tar.xz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	old := stardictRoot
	stardictRoot = srv.URL
	defer func() { stardictRoot = old }()

	name, err := ResolveArchiveFilename(context.Background(), srv.Client(), "eng-srp", "2023.10.10")
	require.NoError(t, err)
	require.Equal(t, "eng-srp-2023.10.10.tar.xz", name)
}

func TestResolveArchiveFilenameErrorsWhenNoTemplateExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	old := stardictRoot
	stardictRoot = srv.URL
	defer func() { stardictRoot = old }()

	_, err := ResolveArchiveFilename(context.Background(), srv.Client(), "eng-srp", "2023.10.10")
	require.Error(t, err)
}
