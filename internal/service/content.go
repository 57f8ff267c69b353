// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// bodySanitizer strips dangerous markup from rendered bodies.
// UGCPolicy allows the safe subset of HTML suitable for user content.
var bodySanitizer = bluemonday.UGCPolicy()

// RenderBody converts a Markdown post or comment body to sanitized HTML.
// On conversion failure the raw text is escaped and returned as-is.
func RenderBody(body string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		slog.Error("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(body)) // #nosec G203 -- escaped above
	}

	return template.HTML(bodySanitizer.SanitizeBytes(buf.Bytes())) // #nosec G203 -- sanitized above
}
