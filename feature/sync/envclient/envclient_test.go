package envclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mtrifilo/psychic-homily-web-sub009/feature/canonical"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/importer"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/sync/envclient"
	"github.com/mtrifilo/psychic-homily-web-sub009/feature/syncapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportBatchOrderAndAuth(t *testing.T) {
	var paths []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		paths = append(paths, r.URL.Path)

		var req syncapi.ImportShowsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.DryRun)

		json.NewEncoder(w).Encode(syncapi.ImportResponse{
			Result: &importer.BatchResult{
				Venues:  importer.Outcome{Total: 1, Imported: 1},
				Artists: importer.Outcome{Total: 1, Imported: 1},
				Shows:   importer.Outcome{Total: 1, Imported: 1},
			},
		})
	}))
	defer srv.Close()

	client := envclient.New(srv.URL, "secret")
	batch := importer.Batch{
		Venues:  []canonical.VenueCandidate{{Name: "Valley Bar", City: "Phoenix", State: "AZ"}},
		Artists: []canonical.ArtistCandidate{{Name: "The National"}},
		Shows:   []canonical.Candidate{{LocalDate: "2026-01-30"}},
	}

	result, err := client.ImportBatch(context.Background(), batch, true)
	require.NoError(t, err)

	// Venues and artists land before the shows that reference them.
	assert.Equal(t, []string{"/import/venues", "/import/artists", "/import/shows"}, paths)
	assert.Equal(t, 1, result.Shows.Imported)
}

func TestImportBatchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := envclient.New(srv.URL, "secret")
	_, err := client.ImportBatch(context.Background(), importer.Batch{
		Shows: []canonical.Candidate{{LocalDate: "2026-01-30"}},
	}, false)
	assert.Error(t, err)
}

func TestExportShowSlugs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/export/show-slugs", r.URL.Path)
		assert.Equal(t, "approved", r.URL.Query().Get("status"))
		json.NewEncoder(w).Encode(syncapi.ExportSlugsResponse{
			Slugs: []string{"a-show-2026-01-01"},
		})
	}))
	defer srv.Close()

	client := envclient.New(srv.URL, "secret")
	slugs, err := client.ExportShowSlugs(context.Background(), "approved")
	require.NoError(t, err)
	assert.Equal(t, []string{"a-show-2026-01-01"}, slugs)
}

func TestExportShowsPagination(t *testing.T) {
	pagesServed := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		page := r.URL.Query().Get("page")

		resp := syncapi.ExportShowsResponse{Total: 3, PerPage: 2}
		if page == "1" {
			resp.Shows = []syncapi.ExportedShow{
				{ID: 1, Slug: "a", Candidate: canonical.Candidate{LocalDate: "2026-01-01"}},
				{ID: 2, Slug: "b", Candidate: canonical.Candidate{LocalDate: "2026-01-02"}},
			}
		} else {
			resp.Shows = []syncapi.ExportedShow{
				{ID: 3, Slug: "c", Candidate: canonical.Candidate{LocalDate: "2026-01-03"}},
			}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := envclient.New(srv.URL, "secret")
	shows, err := client.ExportShows(context.Background(), "approved")
	require.NoError(t, err)

	assert.Len(t, shows, 3)
	assert.Equal(t, 2, pagesServed)
}
