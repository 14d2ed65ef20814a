// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteBlogSlug is the public post detail route pattern.
	RouteBlogSlug = "/blog/{slug}"
	// RouteCategorySlug is the public category feed route pattern.
	RouteCategorySlug = "/category/{slug}"

	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixDelete is the suffix for bulk delete routes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixUpload is the suffix for upload routes.
	RouteSuffixUpload = "/upload"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"
	// RouteParamUsername is the username parameter pattern.
	RouteParamUsername = "/{username}"

	// RoutePosts is the posts admin route.
	RoutePosts = "/posts"
	// RouteCategories is the categories admin route.
	RouteCategories = "/categories"
	// RouteUsers is the users admin route.
	RouteUsers = "/users"
	// RouteImages is the images admin route.
	RouteImages = "/images"

	// RoutePostsSlug is the posts slug route pattern.
	RoutePostsSlug = RoutePosts + RouteParamSlug
	// RouteCategoriesSlug is the categories slug route pattern.
	RouteCategoriesSlug = RouteCategories + RouteParamSlug
	// RouteUsersUsername is the users username route pattern.
	RouteUsersUsername = RouteUsers + RouteParamUsername
)

// maxPageSize caps the pageSize query parameter on admin lists.
const maxPageSize = 100

// Redirect targets. Handlers always redirect with 303 after a mutation.
const (
	redirectHome               = RouteRoot
	redirectLogin              = RouteLogin
	redirectAdmin              = "/admin"
	redirectAdminPosts         = redirectAdmin + RoutePosts
	redirectAdminPostsNew      = redirectAdminPosts + RouteSuffixNew
	redirectAdminCategories    = redirectAdmin + RouteCategories
	redirectAdminCategoriesNew = redirectAdminCategories + RouteSuffixNew
	redirectAdminUsers         = redirectAdmin + RouteUsers
	redirectAdminImages        = redirectAdmin + RouteImages

	redirectAdminPostsEdit      = redirectAdminPosts + "/%s"
	redirectAdminCategoriesEdit = redirectAdminCategories + "/%s"
	redirectAdminUsersEdit      = redirectAdminUsers + "/%s"
)
