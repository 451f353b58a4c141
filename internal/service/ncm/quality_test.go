package ncm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNegotiateQuality tests the quality clamping rules for every combination.
func TestNegotiateQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		quality  AudioQuality
		format   PreferredFormat
		expected AudioQuality
	}{
		{"auto keeps standard", AudioQualityStandard, PreferredFormatAuto, AudioQualityStandard},
		{"auto keeps exhigh", AudioQualityHigh, PreferredFormatAuto, AudioQualityHigh},
		{"auto keeps lossless", AudioQualityLossless, PreferredFormatAuto, AudioQualityLossless},
		{"auto keeps hires", AudioQualityHiRes, PreferredFormatAuto, AudioQualityHiRes},
		{"mp3 keeps standard", AudioQualityStandard, PreferredFormatMP3, AudioQualityStandard},
		{"mp3 keeps exhigh", AudioQualityHigh, PreferredFormatMP3, AudioQualityHigh},
		{"mp3 clamps lossless", AudioQualityLossless, PreferredFormatMP3, AudioQualityHigh},
		{"mp3 clamps hires", AudioQualityHiRes, PreferredFormatMP3, AudioQualityHigh},
		{"flac raises standard", AudioQualityStandard, PreferredFormatFLAC, AudioQualityLossless},
		{"flac raises exhigh", AudioQualityHigh, PreferredFormatFLAC, AudioQualityLossless},
		{"flac keeps lossless", AudioQualityLossless, PreferredFormatFLAC, AudioQualityLossless},
		{"flac keeps hires", AudioQualityHiRes, PreferredFormatFLAC, AudioQualityHiRes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, NegotiateQuality(tt.quality, tt.format))
		})
	}
}

// TestNegotiateQuality_Pure tests that negotiation does not depend on call order.
func TestNegotiateQuality_Pure(t *testing.T) {
	t.Parallel()

	first := NegotiateQuality(AudioQualityHiRes, PreferredFormatMP3)
	_ = NegotiateQuality(AudioQualityStandard, PreferredFormatFLAC)
	second := NegotiateQuality(AudioQualityHiRes, PreferredFormatMP3)

	assert.Equal(t, first, second)
}

// TestParseAudioQuality tests quality name parsing.
func TestParseAudioQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected AudioQuality
		ok       bool
	}{
		{"standard", AudioQualityStandard, true},
		{"exhigh", AudioQualityHigh, true},
		{"lossless", AudioQualityLossless, true},
		{"hires", AudioQualityHiRes, true},
		{" LossLess ", AudioQualityLossless, true},
		{"ultra", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			quality, ok := ParseAudioQuality(tt.input)
			assert.Equal(t, tt.ok, ok)

			if tt.ok {
				assert.Equal(t, tt.expected, quality)
			}
		})
	}
}
