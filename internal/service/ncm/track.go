package ncm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/okonenko/ncm-grabber/internal/client/ncm"
	"github.com/okonenko/ncm-grabber/internal/constants"
	"github.com/okonenko/ncm-grabber/internal/logger"
	"github.com/okonenko/ncm-grabber/internal/utils"
)

const (
	// File options for overwriting an existing file.
	overwriteFileOptions = os.O_CREATE | os.O_TRUNC | os.O_WRONLY

	// defaultContainerExtension is assumed when the audio endpoint omits the container type.
	defaultContainerExtension = "mp3"
)

// DownloadTrack runs the download pipeline for a single track:
// quality negotiation, metadata resolution, audio resolution with fallback,
// transfer to a temporary file, tagging, atomic rename, and lyrics.
func (s *ServiceImpl) DownloadTrack(ctx context.Context, req *DownloadRequest) DownloadOutcome {
	quality := s.negotiatedQuality(ctx)

	// Metadata failures degrade the descriptor instead of aborting the download.
	descriptor := s.resolveDescriptor(ctx, req)

	streamRef, earlyOutcome := s.resolveAudio(ctx, req.TrackID, quality)
	if earlyOutcome != nil {
		return *earlyOutcome
	}

	ext := strings.ToLower(strings.TrimPrefix(streamRef.ContainerExt, "."))
	if ext == "" {
		ext = defaultContainerExtension
	}

	trackFilename := s.templateManager.RenderTrackFilename(ctx, descriptor, ext)
	trackPath := filepath.Join(s.cfg.OutputDir, trackFilename)

	err := os.MkdirAll(filepath.Dir(trackPath), constants.DefaultFolderPermissions)
	if err != nil {
		return Failed(FailureDirectoryCreate, err)
	}

	// Lyrics are fetched before tagging so they can be embedded as well.
	lyrics := s.fetchLyrics(ctx, req.TrackID)

	downloadResult, err := s.downloadAndSaveTrack(ctx, streamRef, trackPath)
	if err != nil {
		return Failed(FailureTransfer, err)
	}

	if downloadResult.IsExist {
		return Skipped(SkipReasonExists)
	}

	// Tags are written to the temporary file so the final name only ever
	// holds a fully downloaded, fully tagged track.
	s.writeTrackTags(ctx, descriptor, downloadResult.TempPath, lyrics)

	if err = os.Rename(downloadResult.TempPath, trackPath); err != nil {
		// Best-effort cleanup, the .part file is useless without the rename.
		_ = os.Remove(downloadResult.TempPath)

		return Failed(FailureTransfer, err)
	}

	s.saveLyrics(ctx, trackPath, lyrics)

	return Saved(trackPath, downloadResult.BytesDownloaded)
}

// negotiatedQuality parses the configured quality and format and applies the clamping rules.
func (s *ServiceImpl) negotiatedQuality(ctx context.Context) AudioQuality {
	quality, ok := ParseAudioQuality(s.cfg.Quality)
	if !ok {
		logger.Warnf(ctx, "Unknown quality '%s', using '%s'", s.cfg.Quality, AudioQualityHigh)

		quality = AudioQualityHigh
	}

	format, _ := ParsePreferredFormat(s.cfg.PreferredFormat)

	return NegotiateQuality(quality, format)
}

// resolveDescriptor builds the track descriptor from the detail endpoint,
// degrading to the request's display fields when resolution fails.
func (s *ServiceImpl) resolveDescriptor(ctx context.Context, req *DownloadRequest) *TrackDescriptor {
	track, err := s.ncmClient.GetTrackDetail(ctx, req.TrackID)
	if err == nil {
		return &TrackDescriptor{
			ID:       track.ID,
			Title:    track.Name,
			Artists:  track.ArtistNames(),
			Album:    track.AlbumName(),
			CoverURL: track.CoverURL(),
			Source:   DescriptorResolved,
		}
	}

	logger.Warnf(ctx, "Failed to resolve metadata for track %d, proceeding without tags: %v", req.TrackID, err)

	title := req.DisplayTitle
	if title == "" {
		title = fmt.Sprintf("track-%d", req.TrackID)
	}

	// A descriptor always carries at least one artist: filename rendering
	// and display rely on it.
	artists := []string{"Unknown Artist"}
	if req.DisplayArtist != "" {
		artists = []string{req.DisplayArtist}
	}

	return &TrackDescriptor{
		ID:      req.TrackID,
		Title:   title,
		Artists: artists,
		Album:   "Unknown",
		Source:  DescriptorDegraded,
	}
}

// resolveAudio resolves a playable stream URL, falling back to the standard
// audio endpoint when the player endpoint yields nothing.
// A non-nil outcome terminates the pipeline without touching the filesystem.
func (s *ServiceImpl) resolveAudio(
	ctx context.Context,
	trackID int64,
	quality AudioQuality,
) (*ncm.AudioStreamRef, *DownloadOutcome) {
	if s.cfg.UseDownloadAPI {
		streamRef, err := s.ncmClient.ResolveAudioStandardAPI(ctx, trackID)
		if err != nil {
			outcome := Failed(FailureNoPlayablePath, err)
			return nil, &outcome
		}

		if streamRef.URL == "" {
			outcome := Skipped(SkipReasonUnplayable)
			return nil, &outcome
		}

		return streamRef, nil
	}

	streamRef, legacyErr := s.ncmClient.ResolveAudioLegacy(ctx, trackID, quality.StreamParam())
	if legacyErr == nil && streamRef.URL != "" {
		return streamRef, nil
	}

	if legacyErr != nil {
		logger.Warnf(ctx, "Player endpoint failed for track %d, trying standard endpoint: %v", trackID, legacyErr)
	} else {
		logger.Debugf(ctx, "Player endpoint returned no URL for track %d, trying standard endpoint", trackID)
	}

	fallbackRef, fallbackErr := s.ncmClient.ResolveAudioStandardAPI(ctx, trackID)
	if fallbackErr != nil {
		outcome := Failed(FailureNoPlayablePath, errors.Join(legacyErr, fallbackErr))
		return nil, &outcome
	}

	if fallbackRef.URL == "" {
		outcome := Skipped(SkipReasonUnplayable)
		return nil, &outcome
	}

	return fallbackRef, nil
}

// fetchLyrics retrieves LRC lyrics when the feature is enabled.
// Absence and fetch errors both yield an empty string.
func (s *ServiceImpl) fetchLyrics(ctx context.Context, trackID int64) string {
	if !s.cfg.DownloadLyrics {
		return ""
	}

	lyrics, err := s.ncmClient.GetLyrics(ctx, trackID)
	if err != nil {
		logger.Warnf(ctx, "Failed to fetch lyrics for track %d: %v", trackID, err)
		return ""
	}

	return lyrics
}

// writeTrackTags embeds metadata, cover art, and lyrics into the downloaded file.
// Degraded descriptors are never tagged and tagging failures never fail the download.
func (s *ServiceImpl) writeTrackTags(ctx context.Context, descriptor *TrackDescriptor, trackPath, lyrics string) {
	if descriptor.Source != DescriptorResolved {
		logger.Debugf(ctx, "Skipping tags for track %d: metadata was not resolved", descriptor.ID)
		return
	}

	var coverData []byte

	if descriptor.CoverURL != "" {
		var err error

		coverData, err = s.ncmClient.FetchBytes(ctx, descriptor.CoverURL)
		if err != nil {
			logger.Warnf(ctx, "Failed to fetch cover for track %d: %v", descriptor.ID, err)

			coverData = nil
		}
	}

	err := s.tagProcessor.WriteTags(ctx, &WriteTagsRequest{
		TrackPath:  trackPath,
		Descriptor: descriptor,
		CoverData:  coverData,
		Lyrics:     lyrics,
	})
	if err != nil {
		logger.Warnf(ctx, "Failed to write tags for track %d: %v", descriptor.ID, err)
	}
}

// saveLyrics writes the LRC sidecar file next to the downloaded track.
func (s *ServiceImpl) saveLyrics(ctx context.Context, trackPath, lyrics string) {
	if !s.cfg.DownloadLyrics {
		return
	}

	if strings.TrimSpace(lyrics) == "" {
		s.incrementLyricsSkipped()
		return
	}

	lyricsPath := utils.SetFileExtension(trackPath, constants.ExtensionLRC, true)

	err := os.WriteFile(lyricsPath, []byte(lyrics), constants.DefaultFilePermissions)
	if err != nil {
		logger.Warnf(ctx, "Failed to save lyrics to '%s': %v", lyricsPath, err)
		return
	}

	s.incrementLyricsDownloaded()
}

//nolint:cyclop,funlen,gocognit,nolintlint // Function orchestrates complex download workflow with multiple sequential steps.
func (s *ServiceImpl) downloadAndSaveTrack(
	ctx context.Context,
	streamRef *ncm.AudioStreamRef,
	trackPath string,
) (*DownloadTrackResult, error) {
	// Check if final file already exists.
	if !s.cfg.Overwrite {
		if _, err := os.Stat(trackPath); err == nil {
			logger.Infof(ctx, "Track '%s' already exists, skipping download", trackPath)

			return &DownloadTrackResult{
				IsExist:         true,
				TempPath:        "",
				BytesDownloaded: 0,
			}, nil
		}
	}

	// Bound the whole transfer so a stalled stream cannot hang the session.
	if s.cfg.ParsedDownloadTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.cfg.ParsedDownloadTimeout)
		defer cancel()
	}

	// Fetch the track.
	fetchResult, fetchErr := s.ncmClient.FetchAudio(ctx, streamRef.URL)
	if fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch track: %w", fetchErr)
	}

	defer fetchResult.Body.Close() //nolint:errcheck // Error on close is not critical here.

	// Download to temporary .part file first for atomic operation.
	tempFilePath := trackPath + ".part"

	// Always overwrite .part files (they indicate incomplete downloads).
	f, openErr := os.OpenFile(filepath.Clean(tempFilePath), overwriteFileOptions, constants.DefaultFilePermissions)
	if openErr != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", openErr)
	}

	// Track whether download succeeded.
	// If not, we'll clean up the .part file on function exit.
	var downloadSucceeded bool

	defer func() {
		// Ensure file is closed before cleanup.
		closeErr := f.Close()

		// Clean up .part file if download failed.
		if !downloadSucceeded {
			// Small delay to ensure file handle is released (Windows needs this).
			time.Sleep(10 * time.Millisecond)

			if removeErr := os.Remove(tempFilePath); removeErr != nil && !os.IsNotExist(removeErr) {
				// Log warning but don't fail - this is best-effort cleanup.
				logger.Warnf(ctx, "Failed to clean up temporary file '%s': %v (close error: %v)",
					tempFilePath, removeErr, closeErr)
			}
		}
	}()

	// Initialize progress tracker.
	// Progress bars are disabled when downloading concurrently to avoid terminal output conflicts.
	var writer io.Writer

	if logger.Level() <= zap.InfoLevel && s.cfg.MaxConcurrentDownloads == 1 {
		bar := progressbar.DefaultBytes(
			fetchResult.TotalBytes,
			"Downloading",
		)

		writer = io.MultiWriter(f, bar)
	} else {
		writer = f
	}

	// Download logic.
	var (
		bytesWritten int64
		err          error
	)

	if s.cfg.ParsedDownloadSpeedLimit == 0 {
		bytesWritten, err = io.Copy(writer, fetchResult.Body)
	} else {
		for {
			var n int64

			n, err = io.CopyN(writer, fetchResult.Body, s.cfg.ParsedDownloadSpeedLimit)
			bytesWritten += n

			if errors.Is(err, io.EOF) {
				err = nil

				break
			}

			if err != nil {
				break
			}

			// Throttle to respect speed limit.
			time.Sleep(time.Second)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	// Verify that we downloaded the expected number of bytes.
	// Servers that omit Content-Length report zero total bytes.
	if fetchResult.TotalBytes > 0 && bytesWritten != fetchResult.TotalBytes {
		return nil, fmt.Errorf(
			"%w: wrote %d bytes, expected %d bytes",
			ErrIncompleteDownload,
			bytesWritten,
			fetchResult.TotalBytes,
		)
	}

	// Mark download as successful to prevent cleanup by defer.
	// The .part file will be renamed to final name by the caller after tags are written.
	downloadSucceeded = true

	return &DownloadTrackResult{
		IsExist:         false,
		TempPath:        tempFilePath,
		BytesDownloaded: bytesWritten,
	}, nil
}
