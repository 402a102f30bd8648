package client

import (
	"context"
	"net/http"
	"net/url"
	"slices"

	"github.com/iliyamo/movie-catalog/internal/watchlist"
)

// RemoteStore is a watchlist.Store backed by the server's /me/lists
// endpoints.  The server keys lists by the bearer, so the userID argument
// is ignored.
type RemoteStore struct {
	c *Client
}

var _ watchlist.Store = (*RemoteStore)(nil)

func NewRemoteStore(c *Client) *RemoteStore { return &RemoteStore{c: c} }

type listResp struct {
	Kind watchlist.Kind `json:"kind"`
	IDs  []string       `json:"ids"`
}

func listPath(kind watchlist.Kind, movieID string) string {
	p := "/me/lists/" + url.PathEscape(string(kind))
	if movieID != "" {
		p += "/" + url.PathEscape(movieID)
	}
	return p
}

func (r *RemoteStore) List(ctx context.Context, _ string, kind watchlist.Kind) ([]string, error) {
	if _, err := watchlist.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	var resp listResp
	if err := r.c.do(ctx, http.MethodGet, listPath(kind, ""), nil, &resp); err != nil {
		return nil, err
	}
	if resp.IDs == nil {
		return []string{}, nil
	}
	return resp.IDs, nil
}

func (r *RemoteStore) Add(ctx context.Context, _ string, kind watchlist.Kind, movieID string) error {
	return r.send(ctx, http.MethodPost, kind, movieID)
}

func (r *RemoteStore) Remove(ctx context.Context, _ string, kind watchlist.Kind, movieID string) error {
	return r.send(ctx, http.MethodDelete, kind, movieID)
}

func (r *RemoteStore) Contains(ctx context.Context, userID string, kind watchlist.Kind, movieID string) (bool, error) {
	ids, err := r.List(ctx, userID, kind)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, movieID), nil
}

func (r *RemoteStore) send(ctx context.Context, method string, kind watchlist.Kind, movieID string) error {
	if _, err := watchlist.ParseKind(string(kind)); err != nil {
		return err
	}
	return r.c.do(ctx, method, listPath(kind, movieID), nil, nil)
}
