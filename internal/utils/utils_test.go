package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSanitizeFilename tests the SanitizeFilename function.
func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean name unchanged",
			input:    "Song - Artist",
			expected: "Song - Artist",
		},
		{
			name:     "invalid characters stripped",
			input:    `So<ng>: "A/B\C|D?E*F"`,
			expected: "Song ABCDEF",
		},
		{
			name:     "path traversal neutralized",
			input:    "../../etc/passwd",
			expected: "....etcpasswd",
		},
		{
			name:     "windows reserved name",
			input:    "CON",
			expected: "_CON",
		},
		{
			name:     "trailing dots removed",
			input:    "track...",
			expected: "track",
		},
		{
			name:     "only invalid characters",
			input:    `<>:"/\|?*`,
			expected: "_",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

// TestSanitizeFilename_Idempotent verifies that sanitizing twice equals sanitizing once.
func TestSanitizeFilename_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Song - Artist",
		`So<ng>: "A/B\C|D?E*F"`,
		"../../etc/passwd",
		"CON",
		"track...",
		`<>:"/\|?*`,
		"日本語のタイトル",
	}

	for _, input := range inputs {
		once := SanitizeFilename(input)
		twice := SanitizeFilename(once)
		assert.Equal(t, once, twice, "input: %q", input)
	}
}

// TestSetFileExtension tests the SetFileExtension function.
func TestSetFileExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		filename            string
		extension           string
		isExtensionReplaced bool
		expected            string
	}{
		{
			name:      "append missing extension",
			filename:  "track",
			extension: ".mp3",
			expected:  "track.mp3",
		},
		{
			name:      "extension without dot",
			filename:  "track",
			extension: "flac",
			expected:  "track.flac",
		},
		{
			name:      "same extension unchanged",
			filename:  "track.mp3",
			extension: ".mp3",
			expected:  "track.mp3",
		},
		{
			name:                "replace different extension",
			filename:            "track.mp3",
			extension:           ".lrc",
			isExtensionReplaced: true,
			expected:            "track.lrc",
		},
		{
			name:      "keep different extension",
			filename:  "track.v2",
			extension: ".mp3",
			expected:  "track.v2.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, SetFileExtension(tt.filename, tt.extension, tt.isExtensionReplaced))
		})
	}
}

// TestIsFileExist tests the IsFileExist function.
func TestIsFileExist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	existing := filepath.Join(dir, "present.mp3")
	require.NoError(t, os.WriteFile(existing, []byte("data"), 0o644))

	exists, err := IsFileExist(existing)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = IsFileExist(filepath.Join(dir, "absent.mp3"))
	require.NoError(t, err)
	assert.False(t, exists)

	// Directories are not files.
	exists, err = IsFileExist(dir)
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestIsTextContentType tests the IsTextContentType function.
func TestIsTextContentType(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTextContentType("application/json"))
	assert.True(t, IsTextContentType("text/plain; charset=utf-8"))
	assert.False(t, IsTextContentType("audio/mpeg"))
	assert.False(t, IsTextContentType("text/plain; charset=koi8-r"))
	assert.False(t, IsTextContentType(""))
}

// TestMap tests the Map function.
func TestMap(t *testing.T) {
	t.Parallel()

	result := Map([]int{1, 2, 3}, func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4, 6}, result)

	assert.Empty(t, Map(nil, func(v int) int { return v }))
}
