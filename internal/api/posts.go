// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wavyblog/wavy-go/internal/model"
)

// ListPostsParams filters the post feed. Zero values are omitted from the
// request entirely, they never travel as empty strings.
type ListPostsParams struct {
	Status    string
	Category  string
	PageIndex int
	PageSize  int
}

// postFeed is the backend's post list envelope. The endpoint predates
// total counts and only reports whether more posts exist.
type postFeed struct {
	Posts       []model.Post `json:"posts"`
	PageIndex   int          `json:"pageIndex"`
	PageSize    int          `json:"pageSize"`
	HasNextPage bool         `json:"hasNextPage"`
}

// ListPosts returns a page of the post feed.
func (c *Client) ListPosts(ctx context.Context, token string, params ListPostsParams) (*model.Feed[model.Post], error) {
	q := listQuery(map[string]string{
		"status":   params.Status,
		"category": params.Category,
	}, params.PageIndex, params.PageSize, model.FeedPageSize)

	resp, err := c.doRead(ctx, request{
		method: http.MethodGet,
		path:   "/posts",
		query:  q,
		token:  token,
	})
	if err != nil {
		return nil, err
	}

	feed, err := decode[postFeed](resp)
	if err != nil {
		return nil, err
	}
	return &model.Feed[model.Post]{
		Items:       feed.Posts,
		PageIndex:   feed.PageIndex,
		PageSize:    feed.PageSize,
		HasNextPage: feed.HasNextPage,
	}, nil
}

// GetPost fetches a single post by slug.
func (c *Client) GetPost(ctx context.Context, slug string) (*model.Post, error) {
	resp, err := c.doRead(ctx, request{
		method: http.MethodGet,
		path:   "/posts/" + url.PathEscape(slug),
	})
	if err != nil {
		return nil, err
	}
	return decode[model.Post](resp)
}

// CreatePost creates a post and returns it as stored, including the slug
// the backend issued.
func (c *Client) CreatePost(ctx context.Context, token string, input model.PostInput) (*model.Post, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/posts",
		token:  token,
		body:   input,
	})
	if err != nil {
		return nil, err
	}
	return decode[model.Post](resp)
}

// UpdatePost updates a post. The returned post may carry a different slug
// than the one addressed; callers must follow it.
func (c *Client) UpdatePost(ctx context.Context, token, slug string, input model.PostInput) (*model.Post, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/posts/" + url.PathEscape(slug),
		token:  token,
		body:   input,
	})
	if err != nil {
		return nil, err
	}
	return decode[model.Post](resp)
}

// DeletePost deletes a single post.
func (c *Client) DeletePost(ctx context.Context, token, slug string) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/posts/" + url.PathEscape(slug),
		token:  token,
	})
	return err
}

// DeletePosts deletes posts one by one and stops at the first failure.
// Already-deleted posts stay deleted; the caller invalidates caches either way.
func (c *Client) DeletePosts(ctx context.Context, token string, slugs []string) error {
	for _, slug := range slugs {
		if err := c.DeletePost(ctx, token, slug); err != nil {
			return err
		}
	}
	return nil
}

// ListPostsByCategory returns the published posts in a category.
func (c *Client) ListPostsByCategory(ctx context.Context, category string) ([]model.Post, error) {
	resp, err := c.doRead(ctx, request{
		method: http.MethodGet,
		path:   "/categories/" + url.PathEscape(category) + "/posts",
	})
	if err != nil {
		return nil, err
	}
	posts, err := decode[[]model.Post](resp)
	if err != nil {
		return nil, err
	}
	return *posts, nil
}
