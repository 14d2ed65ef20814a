// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"io"
	"net/http"

	"github.com/wavyblog/wavy-go/internal/model"
)

// imagePage is the backend's image list envelope.
type imagePage struct {
	Images    []model.Image `json:"images"`
	PageIndex int           `json:"pageIndex"`
	PageSize  int           `json:"pageSize"`
	Total     int           `json:"total"`
}

// ListImages returns a page of uploaded images.
func (c *Client) ListImages(ctx context.Context, token string, pageIndex, pageSize int) (*model.Page[model.Image], error) {
	q := listQuery(nil, pageIndex, pageSize, model.DefaultPageSize)

	resp, err := c.doRead(ctx, request{
		method: http.MethodGet,
		path:   "/images",
		query:  q,
		token:  token,
	})
	if err != nil {
		return nil, err
	}

	page, err := decode[imagePage](resp)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.Image]{
		Items:     page.Images,
		PageIndex: page.PageIndex,
		PageSize:  page.PageSize,
		Total:     page.Total,
	}, nil
}

// uploadResponse wraps the uploaded image metadata.
type uploadResponse struct {
	Image model.Image `json:"image"`
}

// UploadImage streams a multipart body through to the backend unchanged.
// contentType must be the original multipart/form-data value including the
// boundary parameter.
func (c *Client) UploadImage(ctx context.Context, token string, body io.Reader, contentType string) (*model.Image, error) {
	resp, err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/images",
		token:   token,
		rawBody: body,
		rawType: contentType,
	})
	if err != nil {
		return nil, err
	}

	up, err := decode[uploadResponse](resp)
	if err != nil {
		return nil, err
	}
	return &up.Image, nil
}

// deleteImageInput addresses an image by its storage path.
type deleteImageInput struct {
	ImagePath string `json:"imagePath"`
}

// DeleteImage deletes an uploaded image.
func (c *Client) DeleteImage(ctx context.Context, token, imagePath string) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/images",
		token:  token,
		body:   deleteImageInput{ImagePath: imagePath},
	})
	return err
}
