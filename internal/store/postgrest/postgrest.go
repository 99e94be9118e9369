// Package postgrest implements store.CollectionStore over a PostgREST API,
// such as the REST endpoint of a Supabase project.
//
// Rows are read and written as JSON with the columns of model.Album. Every
// request carries the project key as both the apikey header and a bearer
// token.
package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apphttp "github.com/handiism/album-ratings/internal/http"
	"github.com/handiism/album-ratings/internal/model"
	"github.com/handiism/album-ratings/internal/store"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "albums"

// Store talks to the /rest/v1/<table> resource of a PostgREST server.
type Store struct {
	client   *apphttp.Client
	endpoint string
}

var _ store.CollectionStore = (*Store)(nil)

// New returns a Store for the project at baseURL authenticated with key.
//
// The client gets the apikey and Authorization headers added to it.
func New(baseURL, key, table string, client *apphttp.Client) (*Store, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("postgrest: base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("postgrest: invalid base URL: %w", err)
	}
	if table == "" {
		table = DefaultTable
	}

	client.WithHeader("apikey", key).
		WithHeader("Authorization", "Bearer "+key)

	return &Store{
		client:   client,
		endpoint: baseURL + "/rest/v1/" + url.PathEscape(table),
	}, nil
}

// List fetches every row ordered by id.
func (s *Store) List(ctx context.Context) ([]model.Album, error) {
	var albums []model.Album
	err := s.client.DoJSON(ctx, http.MethodGet, s.endpoint+"?select=*&order=id.asc", nil, nil, &albums)
	if err != nil {
		return nil, err
	}
	if albums == nil {
		albums = []model.Album{}
	}
	return albums, nil
}

// Insert posts the candidate. The server assigns the id.
func (s *Store) Insert(ctx context.Context, candidate model.Fields) error {
	header := http.Header{"Prefer": {"return=minimal"}}
	return s.client.DoJSON(ctx, http.MethodPost, s.endpoint, header, candidate, nil)
}

// Update patches every editable column of the row with id.
func (s *Store) Update(ctx context.Context, id int64, fields model.Fields) error {
	return s.mutate(ctx, http.MethodPatch, id, fields)
}

// Delete removes the row with id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, http.MethodDelete, id, nil)
}

// mutate asks for the affected rows back so a filter that matched nothing
// can be reported as store.ErrNotFound.
func (s *Store) mutate(ctx context.Context, method string, id int64, body any) error {
	header := http.Header{"Prefer": {"return=representation"}}

	var rows []model.Album
	if err := s.client.DoJSON(ctx, method, s.rowURL(id), header, body, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) rowURL(id int64) string {
	return fmt.Sprintf("%s?id=eq.%d", s.endpoint, id)
}
