package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

var fixture = []models.SearchIndexEntry{
	{ID: "1", Title: "Getting Started", URL: "/docs/start", Content: "Install the CLI and log in."},
	{ID: "2", Title: "Patreon tiers", URL: "/members/tiers", Content: "Gold and Silver perks.", Description: "Membership levels"},
	{ID: "3", Title: "Discord", URL: "/community", Content: "Join the server.", Tags: []string{"Community", "Chat"}},
}

func TestIndex_Search(t *testing.T) {
	idx := NewIndex(fixture)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "title match is case insensitive", query: "getting", wantIDs: []string{"1"}},
		{name: "content match", query: "SILVER", wantIDs: []string{"2"}},
		{name: "description match", query: "membership", wantIDs: []string{"2"}},
		{name: "tag match", query: "chat", wantIDs: []string{"3"}},
		{name: "several matches keep index order", query: "in", wantIDs: []string{"1", "3"}},
		{name: "surrounding whitespace ignored", query: "  discord ", wantIDs: []string{"3"}},
		{name: "no match", query: "kubernetes", wantIDs: nil},
		{name: "empty query", query: "", wantIDs: nil},
		{name: "blank query", query: "   ", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, e := range idx.Search(tt.query) {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestIndex_SearchLimit(t *testing.T) {
	var entries []models.SearchIndexEntry
	for i := 0; i < 25; i++ {
		entries = append(entries, models.SearchIndexEntry{ID: fmt.Sprint(i), Title: "Guide", URL: "/g"})
	}
	idx := NewIndex(entries)

	got := idx.Search("guide")
	require.Len(t, got, MaxResults)
	assert.Equal(t, "0", got[0].ID)
	assert.Equal(t, "9", got[9].ID)
	assert.Equal(t, 25, idx.Len())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search-index.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"a","title":"Blog","url":"/blog","content":"posts"}]`), 0o600))

	idx, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, "Blog", idx.Entries()[0].Title)
}

func TestLoad_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"a","title":"Wiki","url":"/wiki","content":"docs"}]`))
	}))
	defer srv.Close()

	idx, err := Load(context.Background(), srv.URL+"/search-index.json")
	require.NoError(t, err)
	assert.Len(t, idx.Search("wiki"), 1)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptySource)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"}`), 0o600))
	_, err = Load(context.Background(), path)
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	_, err = Load(context.Background(), srv.URL)
	assert.Error(t, err)
}
