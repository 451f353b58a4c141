package ncm

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okonenko/ncm-grabber/internal/config"
)

// testDescriptor returns a descriptor used across template tests.
func testDescriptor() *TrackDescriptor {
	return &TrackDescriptor{
		ID:      42,
		Title:   "Test: Song?",
		Artists: []string{"Artist/A", "Artist*B"},
		Album:   "Album<X>",
	}
}

// TestRenderTrackFilename tests template rendering with every placeholder.
func TestRenderTrackFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		ext      string
		expected string
	}{
		{
			name:     "default template",
			template: "{title} - {artist}",
			ext:      "mp3",
			expected: "Test Song - ArtistA, ArtistB.mp3",
		},
		{
			name:     "all placeholders",
			template: "{id} {title} {artists} {album}",
			ext:      "flac",
			expected: "42 Test Song ArtistA, ArtistB AlbumX.flac",
		},
		{
			name:     "track renders the title",
			template: "{track}",
			ext:      "mp3",
			expected: "Test Song.mp3",
		},
		{
			name:     "unknown placeholder falls back",
			template: "{title} - {genre}",
			ext:      "mp3",
			expected: "Test Song - ArtistA, ArtistB.mp3",
		},
		{
			name:     "unterminated placeholder falls back",
			template: "{title - {artist}",
			ext:      "mp3",
			expected: "Test Song - ArtistA, ArtistB.mp3",
		},
		{
			name:     "literal text survives",
			template: "prefix {title} suffix",
			ext:      "mp3",
			expected: "prefix Test Song suffix.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			manager := NewTemplateManager(&config.Config{NamingTemplate: tt.template})

			result := manager.RenderTrackFilename(context.Background(), testDescriptor(), tt.ext)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestRenderTrackFilename_SingleExtension tests that exactly one extension is appended.
func TestRenderTrackFilename_SingleExtension(t *testing.T) {
	t.Parallel()

	manager := NewTemplateManager(&config.Config{NamingTemplate: "{title}"})

	result := manager.RenderTrackFilename(context.Background(), testDescriptor(), "flac")
	assert.Equal(t, "Test Song.flac", result)
	assert.Equal(t, 1, strings.Count(result, ".flac"))
}

// TestRenderTrackFilename_EmptyTemplateUsesDefault tests the empty template path.
func TestRenderTrackFilename_EmptyTemplateUsesDefault(t *testing.T) {
	t.Parallel()

	manager := NewTemplateManager(&config.Config{})

	result := manager.RenderTrackFilename(context.Background(), testDescriptor(), "mp3")
	assert.Equal(t, "Test Song - ArtistA, ArtistB.mp3", result)
}
