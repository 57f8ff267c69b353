// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestParseNullInt64Positive(t *testing.T) {
	tests := []struct {
		input     string
		wantValid bool
		wantValue int64
	}{
		{"", false, 0},
		{"0", false, 0},
		{"-5", false, 0},
		{"abc", false, 0},
		{"7", true, 7},
		{"123456789", true, 123456789},
	}

	for _, tt := range tests {
		got := ParseNullInt64Positive(tt.input)
		if got.Valid != tt.wantValid {
			t.Errorf("ParseNullInt64Positive(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
		}
		if got.Valid && got.Int64 != tt.wantValue {
			t.Errorf("ParseNullInt64Positive(%q).Int64 = %d, want %d", tt.input, got.Int64, tt.wantValue)
		}
	}
}

func TestNullStringFromValue(t *testing.T) {
	if got := NullStringFromValue(""); got.Valid {
		t.Error("empty string should produce invalid NullString")
	}
	if got := NullStringFromValue("x"); !got.Valid || got.String != "x" {
		t.Errorf("NullStringFromValue(\"x\") = %+v", got)
	}
}

func TestNullInt64FromValue(t *testing.T) {
	got := NullInt64FromValue(42)
	if !got.Valid || got.Int64 != 42 {
		t.Errorf("NullInt64FromValue(42) = %+v", got)
	}
}
