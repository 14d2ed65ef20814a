// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wavyblog/wavy-go/internal/model"
)

// ListCategories returns all categories. The set is small enough that the
// backend does not paginate it.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	resp, err := c.doRead(ctx, request{
		method: http.MethodGet,
		path:   "/categories",
	})
	if err != nil {
		return nil, err
	}
	cats, err := decode[[]model.Category](resp)
	if err != nil {
		return nil, err
	}
	return *cats, nil
}

// GetCategory fetches a single category by slug.
func (c *Client) GetCategory(ctx context.Context, slug string) (*model.Category, error) {
	resp, err := c.doRead(ctx, request{
		method: http.MethodGet,
		path:   "/categories/" + url.PathEscape(slug),
	})
	if err != nil {
		return nil, err
	}
	return decode[model.Category](resp)
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, token string, input model.CategoryInput) (*model.Category, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/categories",
		token:  token,
		body:   input,
	})
	if err != nil {
		return nil, err
	}
	return decode[model.Category](resp)
}

// UpdateCategory updates a category by slug.
func (c *Client) UpdateCategory(ctx context.Context, token, slug string, input model.CategoryInput) (*model.Category, error) {
	resp, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/categories/" + url.PathEscape(slug),
		token:  token,
		body:   input,
	})
	if err != nil {
		return nil, err
	}
	return decode[model.Category](resp)
}

// DeleteCategory deletes a single category.
func (c *Client) DeleteCategory(ctx context.Context, token, slug string) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/categories/" + url.PathEscape(slug),
		token:  token,
	})
	return err
}

// DeleteCategories deletes categories one by one, stopping at the first
// failure.
func (c *Client) DeleteCategories(ctx context.Context, token string, slugs []string) error {
	for _, slug := range slugs {
		if err := c.DeleteCategory(ctx, token, slug); err != nil {
			return err
		}
	}
	return nil
}
