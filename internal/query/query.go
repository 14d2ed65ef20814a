// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package query is the read/write layer between handlers and the backend.
// Reads go through the cache; every successful mutation drops the whole
// cache namespace for its resource type, so the next read is fresh.
package query

import (
	"context"
	"fmt"
	"io"

	"github.com/wavyblog/wavy-go/internal/api"
	"github.com/wavyblog/wavy-go/internal/cache"
	"github.com/wavyblog/wavy-go/internal/model"
)

// Service wraps the API client with read-through caching and coarse
// invalidation. Authenticated reads are keyed on the query only, never the
// token: two admins looking at the same list share a cache entry.
type Service struct {
	client *api.Client
	cache  *cache.Manager

	postFeed   *cache.TypedCache[model.Feed[model.Post]]
	post       *cache.TypedCache[model.Post]
	postList   *cache.TypedCache[[]model.Post]
	categories *cache.TypedCache[[]model.Category]
	category   *cache.TypedCache[model.Category]
	users      *cache.TypedCache[model.Page[model.User]]
	user       *cache.TypedCache[model.User]
	images     *cache.TypedCache[model.Page[model.Image]]
}

// New creates the query service.
func New(client *api.Client, manager *cache.Manager) *Service {
	c, ttl := manager.Cache(), manager.TTL()
	return &Service{
		client:     client,
		cache:      manager,
		postFeed:   cache.NewTypedCache[model.Feed[model.Post]](c, ttl),
		post:       cache.NewTypedCache[model.Post](c, ttl),
		postList:   cache.NewTypedCache[[]model.Post](c, ttl),
		categories: cache.NewTypedCache[[]model.Category](c, ttl),
		category:   cache.NewTypedCache[model.Category](c, ttl),
		users:      cache.NewTypedCache[model.Page[model.User]](c, ttl),
		user:       cache.NewTypedCache[model.User](c, ttl),
		images:     cache.NewTypedCache[model.Page[model.Image]](c, ttl),
	}
}

// Client exposes the underlying API client for calls that must bypass the
// cache, like the auth endpoints.
func (s *Service) Client() *api.Client {
	return s.client
}

// InvalidateAll wipes every cached resource.
func (s *Service) InvalidateAll(ctx context.Context) {
	s.cache.InvalidateAll(ctx)
}

// Posts

// ListPosts returns a cached page of the post feed.
func (s *Service) ListPosts(ctx context.Context, token string, params api.ListPostsParams) (*model.Feed[model.Post], error) {
	key := cache.Key(cache.ResourcePosts, "list",
		params.Status, params.Category,
		fmt.Sprintf("%d:%d", params.PageIndex, params.PageSize))
	return s.postFeed.GetOrSet(ctx, key, func() (*model.Feed[model.Post], error) {
		return s.client.ListPosts(ctx, token, params)
	})
}

// GetPost returns a cached post by slug.
func (s *Service) GetPost(ctx context.Context, slug string) (*model.Post, error) {
	key := cache.Key(cache.ResourcePosts, "detail", slug)
	return s.post.GetOrSet(ctx, key, func() (*model.Post, error) {
		return s.client.GetPost(ctx, slug)
	})
}

// ListPostsByCategory returns the cached posts of one category.
func (s *Service) ListPostsByCategory(ctx context.Context, category string) ([]model.Post, error) {
	key := cache.Key(cache.ResourcePosts, "by-category", category)
	posts, err := s.postList.GetOrSet(ctx, key, func() (*[]model.Post, error) {
		list, err := s.client.ListPostsByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *posts, nil
}

// CreatePost creates a post and invalidates the posts namespace.
func (s *Service) CreatePost(ctx context.Context, token string, input model.PostInput) (*model.Post, error) {
	post, err := s.client.CreatePost(ctx, token, input)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ResourcePosts)
	return post, nil
}

// UpdatePost updates a post and invalidates the posts namespace.
func (s *Service) UpdatePost(ctx context.Context, token, slug string, input model.PostInput) (*model.Post, error) {
	post, err := s.client.UpdatePost(ctx, token, slug, input)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ResourcePosts)
	return post, nil
}

// DeletePost deletes a post and invalidates the posts namespace.
func (s *Service) DeletePost(ctx context.Context, token, slug string) error {
	if err := s.client.DeletePost(ctx, token, slug); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.ResourcePosts)
	return nil
}

// DeletePosts deletes posts one by one, stopping at the first failure.
// The namespace is invalidated even on failure: earlier slugs may have
// been deleted, and a spurious invalidation is only a cold cache.
func (s *Service) DeletePosts(ctx context.Context, token string, slugs []string) error {
	err := s.client.DeletePosts(ctx, token, slugs)
	if len(slugs) > 0 {
		s.cache.Invalidate(ctx, cache.ResourcePosts)
	}
	return err
}

// Categories

// ListCategories returns the cached category list.
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	key := cache.Key(cache.ResourceCategories, "list")
	cats, err := s.categories.GetOrSet(ctx, key, func() (*[]model.Category, error) {
		list, err := s.client.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	return *cats, nil
}

// GetCategory returns a cached category by slug.
func (s *Service) GetCategory(ctx context.Context, slug string) (*model.Category, error) {
	key := cache.Key(cache.ResourceCategories, "detail", slug)
	return s.category.GetOrSet(ctx, key, func() (*model.Category, error) {
		return s.client.GetCategory(ctx, slug)
	})
}

// CreateCategory creates a category and invalidates the namespace.
func (s *Service) CreateCategory(ctx context.Context, token string, input model.CategoryInput) (*model.Category, error) {
	cat, err := s.client.CreateCategory(ctx, token, input)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ResourceCategories)
	return cat, nil
}

// UpdateCategory updates a category and invalidates the namespace. Posts
// are invalidated too: they denormalize the category name.
func (s *Service) UpdateCategory(ctx context.Context, token, slug string, input model.CategoryInput) (*model.Category, error) {
	cat, err := s.client.UpdateCategory(ctx, token, slug, input)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ResourceCategories)
	s.cache.Invalidate(ctx, cache.ResourcePosts)
	return cat, nil
}

// DeleteCategory deletes a category and invalidates the namespace.
func (s *Service) DeleteCategory(ctx context.Context, token, slug string) error {
	if err := s.client.DeleteCategory(ctx, token, slug); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.ResourceCategories)
	s.cache.Invalidate(ctx, cache.ResourcePosts)
	return nil
}

// DeleteCategories deletes categories one by one, stopping at the first
// failure.
func (s *Service) DeleteCategories(ctx context.Context, token string, slugs []string) error {
	err := s.client.DeleteCategories(ctx, token, slugs)
	if len(slugs) > 0 {
		s.cache.Invalidate(ctx, cache.ResourceCategories)
		s.cache.Invalidate(ctx, cache.ResourcePosts)
	}
	return err
}

// Users

// ListUsers returns a cached page of users.
func (s *Service) ListUsers(ctx context.Context, token string, params api.ListUsersParams) (*model.Page[model.User], error) {
	key := cache.Key(cache.ResourceUsers, "list",
		params.Username, params.Role,
		fmt.Sprintf("%d:%d", params.PageIndex, params.PageSize))
	return s.users.GetOrSet(ctx, key, func() (*model.Page[model.User], error) {
		return s.client.ListUsers(ctx, token, params)
	})
}

// GetUser returns a cached user by username.
func (s *Service) GetUser(ctx context.Context, token, username string) (*model.User, error) {
	key := cache.Key(cache.ResourceUsers, "detail", username)
	return s.user.GetOrSet(ctx, key, func() (*model.User, error) {
		return s.client.GetUser(ctx, token, username)
	})
}

// UpdateUser updates a user and invalidates the namespace. Posts are
// invalidated too: they denormalize the author name.
func (s *Service) UpdateUser(ctx context.Context, token, username string, input api.UserInput) error {
	if err := s.client.UpdateUser(ctx, token, username, input); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.ResourceUsers)
	s.cache.Invalidate(ctx, cache.ResourcePosts)
	return nil
}

// DeleteUser deletes a user and invalidates users and posts.
func (s *Service) DeleteUser(ctx context.Context, token, username string) error {
	if err := s.client.DeleteUser(ctx, token, username); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.ResourceUsers)
	s.cache.Invalidate(ctx, cache.ResourcePosts)
	return nil
}

// Images

// ListImages returns a cached page of uploaded images.
func (s *Service) ListImages(ctx context.Context, token string, pageIndex, pageSize int) (*model.Page[model.Image], error) {
	key := cache.Key(cache.ResourceImages, "list", fmt.Sprintf("%d:%d", pageIndex, pageSize))
	return s.images.GetOrSet(ctx, key, func() (*model.Page[model.Image], error) {
		return s.client.ListImages(ctx, token, pageIndex, pageSize)
	})
}

// UploadImage uploads an image and invalidates the images namespace.
func (s *Service) UploadImage(ctx context.Context, token string, body io.Reader, contentType string) (*model.Image, error) {
	img, err := s.client.UploadImage(ctx, token, body, contentType)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ResourceImages)
	return img, nil
}

// DeleteImage deletes an image and invalidates the images namespace.
func (s *Service) DeleteImage(ctx context.Context, token, imagePath string) error {
	if err := s.client.DeleteImage(ctx, token, imagePath); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.ResourceImages)
	return nil
}
