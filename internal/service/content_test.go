// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"strings"
	"testing"
)

func TestRenderBody_Markdown(t *testing.T) {
	html := string(RenderBody("# Heading\n\nSome *text*."))

	if !strings.Contains(html, "<h1>Heading</h1>") {
		t.Errorf("heading not rendered: %s", html)
	}
	if !strings.Contains(html, "<em>text</em>") {
		t.Errorf("emphasis not rendered: %s", html)
	}
}

func TestRenderBody_StripsScripts(t *testing.T) {
	html := string(RenderBody(`hello <script>alert("x")</script> world`))

	if strings.Contains(html, "<script") {
		t.Errorf("script tag survived sanitization: %s", html)
	}
	if !strings.Contains(html, "hello") {
		t.Errorf("text content lost: %s", html)
	}
}

func TestRenderBody_StripsJavascriptURLs(t *testing.T) {
	html := string(RenderBody("[click](javascript:doevil) stays **bold**"))

	if strings.Contains(html, "javascript:") {
		t.Errorf("javascript URL survived sanitization: %s", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("safe markup removed: %s", html)
	}
}
