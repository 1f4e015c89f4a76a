package dataset

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

func newABIDEServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/"+phenotypicName, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, phenoCSV)
	})
	mux.HandleFunc("/Outputs/cpac/filt_noglobal/rois_cc200/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if filepath.Base(r.URL.Path) == "NYU_0050952_rois_cc200.1D" {
			fmt.Fprint(w, "# header\n4 5 6\n7 8 9\n1 2 3\n")
			return
		}
		fmt.Fprint(w, "# header\n1 2 3\n4 5 6\n")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetch(t *testing.T) {
	var hits atomic.Int64
	server := newABIDEServer(t, &hits)

	opts := DefaultOptions(t.TempDir())
	opts.BaseURL = server.URL
	opts.Client = server.Client()

	ds, err := Fetch(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, ds.Subjects, 2)

	// subjects keep their phenotype and get a parsed time series
	first := ds.Subjects[0]
	assert.Equal(t, "NYU_0050951", first.FileID)
	r, c := first.TimeSeries.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)

	labels := ds.Labels()
	assert.Equal(t, 2, labels.Len())
	assert.Equal(t, 1.0, labels.AtVec(0))
	assert.Equal(t, -1.0, labels.AtVec(1))

	summary, err := ds.Summary()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.NAutism)
	assert.Equal(t, 1, summary.NControl)
}

func TestFetchUsesCache(t *testing.T) {
	var hits atomic.Int64
	server := newABIDEServer(t, &hits)

	opts := DefaultOptions(t.TempDir())
	opts.BaseURL = server.URL
	opts.Client = server.Client()

	_, err := Fetch(context.Background(), opts)
	require.NoError(t, err)
	firstRun := hits.Load()

	_, err = Fetch(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, firstRun, hits.Load(), "second fetch must be served from cache")
}

func TestFetchUnknownSite(t *testing.T) {
	var hits atomic.Int64
	server := newABIDEServer(t, &hits)

	opts := DefaultOptions(t.TempDir())
	opts.BaseURL = server.URL
	opts.Client = server.Client()
	opts.Site = "CALTECH"

	_, err := Fetch(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	opts := DefaultOptions(t.TempDir())
	opts.BaseURL = server.URL
	opts.Client = server.Client()

	_, err := Fetch(context.Background(), opts)
	require.Error(t, err)

	var fetchErr *errors.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestFetchEmptyDataDir(t *testing.T) {
	_, err := Fetch(context.Background(), Options{})
	require.Error(t, err)
}

func TestDownloadDoesNotPoisonCacheOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	path := filepath.Join(dir, "x.1D")
	err := download(context.Background(), server.Client(), server.URL+"/x.1D", path)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "failed download must not create a cache file")
}
