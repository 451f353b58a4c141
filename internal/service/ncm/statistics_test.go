package ncm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonenko/ncm-grabber/internal/config"
)

// TestFormatDuration tests duration formatting.
func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"milliseconds", 250 * time.Millisecond, "250ms"},
		{"seconds", 42 * time.Second, "42s"},
		{"minutes and seconds", 3*time.Minute + 5*time.Second, "3m 5s"},
		{"hours", 2*time.Hour + 30*time.Minute + 1*time.Second, "2h 30m 1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}

// TestStatisticsCounters tests that outcome counters accumulate correctly.
func TestStatisticsCounters(t *testing.T) {
	t.Parallel()

	service, ok := NewService(&config.Config{}, nil, nil, nil, nil, nil).(*ServiceImpl)
	require.True(t, ok)

	service.incrementTrackDownloaded(1000)
	service.incrementTrackDownloaded(500)
	service.incrementTrackSkipped(SkipReasonExists)
	service.incrementTrackSkipped(SkipReasonUnplayable)
	service.incrementTrackFailed()
	service.incrementLyricsDownloaded()
	service.incrementLyricsSkipped()

	assert.Equal(t, int64(5), service.stats.TotalTracksProcessed)
	assert.Equal(t, int64(2), service.stats.TracksDownloaded)
	assert.Equal(t, int64(1500), service.stats.TotalBytesDownloaded)
	assert.Equal(t, int64(2), service.stats.TracksSkipped)
	assert.Equal(t, int64(1), service.stats.TracksSkippedExists)
	assert.Equal(t, int64(1), service.stats.TracksSkippedUnplayable)
	assert.Equal(t, int64(1), service.stats.TracksFailed)
	assert.Equal(t, int64(1), service.stats.LyricsDownloaded)
	assert.Equal(t, int64(1), service.stats.LyricsSkipped)
}
