// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/olegiv/oblog-go/internal/service"
)

// Pagination holds pagination data for templates.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int64
	PerPage     int
	HasPrev     bool
	HasNext     bool
	PrevURL     string
	NextURL     string
	Pages       []PaginationPage
}

// PaginationPage represents a single page link in pagination.
type PaginationPage struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// ParsePage reads the 1-based "page" query parameter. Missing or
// malformed values fall back to page 1; out-of-range values are clamped
// later, against the actual item count.
func ParsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// BuildPagination creates pagination data for templates from a served
// feed page. baseURL is the path without query string; queryParams are
// the current query parameters to preserve.
func BuildPagination(page service.Page, baseURL string, queryParams url.Values) Pagination {
	pagination := Pagination{
		CurrentPage: page.Number,
		TotalPages:  page.TotalPages,
		TotalItems:  page.TotalItems,
		PerPage:     page.PerPage,
		HasPrev:     page.HasPrev(),
		HasNext:     page.HasNext(),
	}

	// Build query string without the page parameter
	var queryString string
	if queryParams != nil {
		params := make(url.Values)
		for k, v := range queryParams {
			if k != "page" && len(v) > 0 && v[0] != "" {
				params[k] = v
			}
		}
		if len(params) > 0 {
			queryString = params.Encode()
		}
	}

	buildURL := func(p int) string {
		if queryString != "" {
			return fmt.Sprintf("%s?%s&page=%d", baseURL, queryString, p)
		}
		return fmt.Sprintf("%s?page=%d", baseURL, p)
	}

	if pagination.HasPrev {
		pagination.PrevURL = buildURL(page.Number - 1)
	}
	if pagination.HasNext {
		pagination.NextURL = buildURL(page.Number + 1)
	}

	// Show max 5 pages around current with ellipsis
	start := page.Number - 2
	end := page.Number + 2
	if start < 1 {
		start = 1
		end = 5
	}
	if end > page.TotalPages {
		end = page.TotalPages
		start = end - 4
		if start < 1 {
			start = 1
		}
	}

	if start > 1 {
		pagination.Pages = append(pagination.Pages, PaginationPage{
			Number: 1,
			URL:    buildURL(1),
		})
		if start > 2 {
			pagination.Pages = append(pagination.Pages, PaginationPage{
				IsEllipsis: true,
			})
		}
	}

	for i := start; i <= end; i++ {
		pagination.Pages = append(pagination.Pages, PaginationPage{
			Number:    i,
			URL:       buildURL(i),
			IsCurrent: i == page.Number,
		})
	}

	if end < page.TotalPages {
		if end < page.TotalPages-1 {
			pagination.Pages = append(pagination.Pages, PaginationPage{
				IsEllipsis: true,
			})
		}
		pagination.Pages = append(pagination.Pages, PaginationPage{
			Number: page.TotalPages,
			URL:    buildURL(page.TotalPages),
		})
	}

	return pagination
}
