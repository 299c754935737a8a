// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewThemePreferences(t *testing.T) {
	tests := []struct {
		name       string
		preference string
		wantDark   bool
		checkDark  bool
	}{
		{"explicit dark", "dark", true, true},
		{"explicit light", "light", false, true},
		{"auto detects", "auto", false, false},
		{"unknown falls back to auto", "solarized", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme := NewTheme(tt.preference)
			if theme == nil {
				t.Fatal("NewTheme returned nil")
			}
			if tt.checkDark && theme.IsDark != tt.wantDark {
				t.Errorf("IsDark = %v, want %v", theme.IsDark, tt.wantDark)
			}
		})
	}
}

func TestThemeStylesInitialized(t *testing.T) {
	theme := NewTheme("dark")

	// Rendering through an initialized style must keep content intact.
	out := theme.HeaderTitle.Render("skiff")
	if !strings.Contains(out, "skiff") {
		t.Errorf("rendered header lost its content: %q", out)
	}
}

func TestRenderMarkers(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
		marker string
	}{
		{"success", RenderSuccess, MarkOK},
		{"error", RenderError, MarkError},
		{"warning", RenderWarning, MarkWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.render("message")
			if !strings.Contains(out, tt.marker) {
				t.Errorf("output %q missing marker %q", out, tt.marker)
			}
			if !strings.Contains(out, "message") {
				t.Errorf("output %q missing message text", out)
			}
		})
	}
}
