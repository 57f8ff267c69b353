// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/olegiv/oblog-go/internal/service"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want int
	}{
		{"missing", "/", 1},
		{"valid", "/?page=3", 3},
		{"malformed", "/?page=abc", 1},
		{"zero", "/?page=0", 1},
		{"negative", "/?page=-2", 1},
		{"large", "/?page=999", 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			if got := ParsePage(r); got != tt.want {
				t.Errorf("ParsePage(%q) = %d, want %d", tt.url, got, tt.want)
			}
		})
	}
}

func TestBuildPagination_SmallFeed(t *testing.T) {
	page := service.Page{Number: 2, PerPage: 10, TotalItems: 25, TotalPages: 3}

	p := BuildPagination(page, "/", nil)

	if !p.HasPrev || !p.HasNext {
		t.Errorf("middle page should have both neighbors: HasPrev=%v HasNext=%v", p.HasPrev, p.HasNext)
	}
	if p.PrevURL != "/?page=1" {
		t.Errorf("PrevURL = %q", p.PrevURL)
	}
	if p.NextURL != "/?page=3" {
		t.Errorf("NextURL = %q", p.NextURL)
	}

	if len(p.Pages) != 3 {
		t.Fatalf("got %d page links, want 3", len(p.Pages))
	}
	if !p.Pages[1].IsCurrent || p.Pages[1].Number != 2 {
		t.Errorf("page 2 should be current: %+v", p.Pages[1])
	}
	for _, link := range p.Pages {
		if link.IsEllipsis {
			t.Error("a three page feed should not have ellipsis")
		}
	}
}

func TestBuildPagination_EllipsisWindow(t *testing.T) {
	page := service.Page{Number: 10, PerPage: 10, TotalItems: 200, TotalPages: 20}

	p := BuildPagination(page, "/category/travel", nil)

	// First link, leading ellipsis, 5-page window, trailing ellipsis, last link
	if len(p.Pages) != 9 {
		t.Fatalf("got %d page links, want 9", len(p.Pages))
	}
	if p.Pages[0].Number != 1 {
		t.Errorf("first link = %+v, want page 1", p.Pages[0])
	}
	if !p.Pages[1].IsEllipsis {
		t.Errorf("second link should be ellipsis: %+v", p.Pages[1])
	}
	if p.Pages[2].Number != 8 || p.Pages[6].Number != 12 {
		t.Errorf("window should span 8..12, got %d..%d", p.Pages[2].Number, p.Pages[6].Number)
	}
	if !p.Pages[4].IsCurrent {
		t.Errorf("center of window should be current: %+v", p.Pages[4])
	}
	if !p.Pages[7].IsEllipsis {
		t.Errorf("eighth link should be ellipsis: %+v", p.Pages[7])
	}
	if p.Pages[8].Number != 20 {
		t.Errorf("last link = %+v, want page 20", p.Pages[8])
	}
}

func TestBuildPagination_SinglePage(t *testing.T) {
	page := service.Page{Number: 1, PerPage: 10, TotalItems: 4, TotalPages: 1}

	p := BuildPagination(page, "/", nil)

	if p.HasPrev || p.HasNext {
		t.Errorf("single page should have no neighbors: HasPrev=%v HasNext=%v", p.HasPrev, p.HasNext)
	}
	if p.PrevURL != "" || p.NextURL != "" {
		t.Errorf("no neighbor URLs expected: prev=%q next=%q", p.PrevURL, p.NextURL)
	}
}

func TestBuildPagination_PreservesQueryParams(t *testing.T) {
	page := service.Page{Number: 1, PerPage: 10, TotalItems: 30, TotalPages: 3}
	params := url.Values{"q": {"iceland"}, "page": {"1"}}

	p := BuildPagination(page, "/", params)

	if p.NextURL != "/?q=iceland&page=2" {
		t.Errorf("NextURL = %q, want query preserved without old page", p.NextURL)
	}
}
