// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package download

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/wp2astro/internal/testutil"
)

func TestLocalFilename(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"plain", "https://example.com/uploads/foto.jpg", "foto.jpg", false},
		{"dimension suffix stripped", "https://example.com/foto-300x200.jpg", "foto.jpg", false},
		{"stacked suffixes", "https://example.com/foto-300x200-150x100.jpg", "foto.jpg", false},
		{"query string dropped", "https://example.com/foto.png?v=3", "foto.png", false},
		{"unknown extension falls back", "https://example.com/bild.bmp", "bild.bmp.jpg", false},
		{"no usable name", "https://example.com/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocalFilename(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPDownloaderFetch(t *testing.T) {
	payload := []byte("fake image bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	d := NewHTTP(&http.Client{Timeout: 5 * time.Second}, 0, testutil.TestLoggerSilent())
	dir := t.TempDir()

	res, err := d.Fetch(context.Background(), srv.URL+"/uploads/foto-768x512.jpg", dir, "")
	require.NoError(t, err)
	assert.Equal(t, "foto.jpg", res.Filename)
	assert.False(t, res.Skipped)
	assert.Equal(t, int64(len(payload)), res.Bytes)

	data, err := os.ReadFile(filepath.Join(dir, "foto.jpg"))
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// A second size variant of the same source collapses to a skip.
	res2, err := d.Fetch(context.Background(), srv.URL+"/uploads/foto-300x200.jpg", dir, "")
	require.NoError(t, err)
	assert.True(t, res2.Skipped)
	assert.Equal(t, "foto.jpg", res2.Filename)

	// Failures are counted and reported.
	_, err = d.Fetch(context.Background(), srv.URL+"/missing.jpg", dir, "")
	require.Error(t, err)

	stats := d.Stats()
	assert.Equal(t, 1, stats.Downloaded)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)
}

func TestMockDownloaderNoIO(t *testing.T) {
	m := NewMock()
	dir := t.TempDir()

	res, err := m.Fetch(context.Background(), "https://example.com/foto-300x200.jpg", dir, "")
	require.NoError(t, err)
	assert.Equal(t, "foto.jpg", res.Filename)
	assert.Equal(t, filepath.Join(dir, "foto.jpg"), res.Path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "dry run must not write files")

	// Same deterministic path on a repeat, counted as a skip.
	res2, err := m.Fetch(context.Background(), "https://example.com/foto.jpg", dir, "")
	require.NoError(t, err)
	assert.True(t, res2.Skipped)
	assert.Equal(t, res.Path, res2.Path)

	stats := m.Stats()
	assert.Equal(t, 1, stats.Downloaded)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, int64(0), stats.TotalBytes)
}

func TestFetchReturnsProbedDimensions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 640, 480))))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	d := NewHTTP(&http.Client{Timeout: 5 * time.Second}, 0, testutil.TestLoggerSilent())
	dir := t.TempDir()

	res, err := d.Fetch(context.Background(), srv.URL+"/bild.png", dir, "")
	require.NoError(t, err)
	assert.Equal(t, 640, res.Width)
	assert.Equal(t, 480, res.Height)

	// The skip path probes the existing file too.
	res2, err := d.Fetch(context.Background(), srv.URL+"/bild-300x200.png", dir, "")
	require.NoError(t, err)
	assert.True(t, res2.Skipped)
	assert.Equal(t, 640, res2.Width)
	assert.Equal(t, 480, res2.Height)

	// Undecodable content yields zero dimensions, not an error.
	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<svg/>"))
	}))
	defer srv2.Close()

	res3, err := d.Fetch(context.Background(), srv2.URL+"/grafik.svg", dir, "")
	require.NoError(t, err)
	assert.Zero(t, res3.Width)
	assert.Zero(t, res3.Height)
}

func TestProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 320, 200))))
	require.NoError(t, f.Close())

	w, h, err := Probe(path)
	require.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)

	_, _, err = Probe(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
