// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteCategorySlug is the category slug route pattern.
	RouteCategorySlug = "/category/{slug}"
	// RouteProfileUsername is the profile route pattern.
	RouteProfileUsername = "/profile/{username}"

	// RoutePosts is the posts route prefix.
	RoutePosts = "/posts"
	// RouteComments is the comments route prefix.
	RouteComments = "/comments"

	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixEdit is the suffix for edit routes.
	RouteSuffixEdit = "/edit"
	// RouteSuffixDelete is the suffix for delete routes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixComments is the suffix for a post's comment collection.
	RouteSuffixComments = "/comments"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteProfileEdit is the own-profile edit route.
	RouteProfileEdit = "/profile/edit"
)

// Redirect targets.
const (
	redirectHome     = "/"
	redirectLogin    = "/login"
	redirectRegister = "/register"
)

// postURL returns the canonical detail URL for a post.
func postURL(id int64) string {
	return "/posts/" + formatID(id)
}

// profileURL returns the profile URL for a username.
func profileURL(username string) string {
	return "/profile/" + username
}
