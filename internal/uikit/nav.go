// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import "slices"

// Section is a single admin navigation entry. Roles is the allow-list of
// roles that may see it.
type Section struct {
	Title string
	Path  string
	Icon  string
	Roles []string
}

// AdminSections is the full admin navigation in display order.
var AdminSections = []Section{
	{Title: "Dashboard", Path: "/admin", Icon: "home", Roles: []string{"admin", "author"}},
	{Title: "Users", Path: "/admin/users", Icon: "users", Roles: []string{"admin"}},
	{Title: "Posts", Path: "/admin/posts", Icon: "file-text", Roles: []string{"admin", "author"}},
	{Title: "Categories", Path: "/admin/categories", Icon: "tag", Roles: []string{"admin"}},
}

// FilterNav returns the sections visible to the given role, preserving
// order. An unknown or empty role sees nothing.
func FilterNav(sections []Section, role string) []Section {
	if role == "" {
		return nil
	}
	var visible []Section
	for _, s := range sections {
		if slices.Contains(s.Roles, role) {
			visible = append(visible, s)
		}
	}
	return visible
}

// NavItem is a rendered navigation entry.
type NavItem struct {
	Title    string
	Path     string
	Icon     string
	IsActive bool
}

// BuildNav filters AdminSections by role and marks the entry matching the
// current path as active. The longest matching prefix wins, so /admin/posts
// activates Posts rather than Dashboard.
func BuildNav(role, currentPath string) []NavItem {
	sections := FilterNav(AdminSections, role)
	if len(sections) == 0 {
		return nil
	}

	activeIdx := -1
	activeLen := 0
	for i, s := range sections {
		if matchesPath(currentPath, s.Path) && len(s.Path) > activeLen {
			activeIdx = i
			activeLen = len(s.Path)
		}
	}

	items := make([]NavItem, len(sections))
	for i, s := range sections {
		items[i] = NavItem{Title: s.Title, Path: s.Path, Icon: s.Icon, IsActive: i == activeIdx}
	}
	return items
}

func matchesPath(currentPath, sectionPath string) bool {
	if currentPath == sectionPath {
		return true
	}
	return len(currentPath) > len(sectionPath) &&
		currentPath[:len(sectionPath)] == sectionPath &&
		currentPath[len(sectionPath)] == '/'
}
