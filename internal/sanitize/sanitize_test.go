// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package sanitize

import (
	"strings"
	"testing"
)

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "script removed",
			input:    `<p>Hallo</p><script>alert(1)</script>`,
			contains: []string{"<p>Hallo</p>"},
			excludes: []string{"<script>", "alert"},
		},
		{
			name:     "event handler removed",
			input:    `<img src="https://example.org/a.jpg" alt="Bild" onerror="steal()">`,
			contains: []string{`src="https://example.org/a.jpg"`, `alt="Bild"`},
			excludes: []string{"onerror", "steal"},
		},
		{
			name:     "figure with class survives",
			input:    `<figure class="alignright"><img src="https://example.org/b.jpg" width="300" height="200"><figcaption>Unterschrift</figcaption></figure>`,
			contains: []string{`<figure class="alignright">`, `width="300"`, "<figcaption>Unterschrift</figcaption>"},
		},
		{
			name:     "iframe removed",
			input:    `<p>Text</p><iframe src="https://evil.example"></iframe>`,
			contains: []string{"<p>Text</p>"},
			excludes: []string{"iframe", "evil.example"},
		},
		{
			name:     "javascript url neutralized",
			input:    `<a href="javascript:alert(1)">klick</a>`,
			excludes: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanHTML(tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("CleanHTML(%q) = %q, missing %q", tt.input, got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("CleanHTML(%q) = %q, still contains %q", tt.input, got, bad)
				}
			}
		})
	}
}

func TestStripShortcodes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "caption wrapper",
			input:    `[caption id="attachment_42" width="300"]Ein Bild[/caption]`,
			expected: "Ein Bild",
		},
		{
			name:     "self closing",
			input:    "vorher [gallery ids=\"1,2,3\"] nachher",
			expected: "vorher  nachher",
		},
		{
			name:     "bracketed phrase is treated as shortcode",
			input:    "plain text with [brackets and words inside]",
			expected: "plain text with ",
		},
		{
			name:     "numeric brackets kept",
			input:    "siehe [1] und [2]",
			expected: "siehe [1] und [2]",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripShortcodes(tt.input); got != tt.expected {
				t.Errorf("StripShortcodes(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "simple filename",
			input: "image.jpg",
			want:  "image.jpg",
		},
		{
			name:  "path traversal stripped",
			input: "../../etc/passwd",
			want:  "passwd",
		},
		{
			name:  "unsafe characters replaced",
			input: `ein:bild*mit?zeichen.jpg`,
			want:  "ein-bild-mit-zeichen.jpg",
		},
		{
			name:    "dot only",
			input:   ".",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:  "umlauts kept",
			input: "gemüse-übersicht.webp",
			want:  "gemüse-übersicht.webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Filename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
