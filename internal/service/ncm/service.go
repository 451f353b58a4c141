package ncm

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/okonenko/ncm-grabber/internal/client/ncm"
	"github.com/okonenko/ncm-grabber/internal/config"
	"github.com/okonenko/ncm-grabber/internal/constants"
	"github.com/okonenko/ncm-grabber/internal/logger"
)

// defaultSearchLimit is the number of search results requested per keyword.
const defaultSearchLimit = 20

// TrackPicker chooses one track from keyword search results.
// A nil picker selects the first result.
type TrackPicker func(ctx context.Context, keyword string, tracks []*ncm.Track) (*ncm.Track, error)

// Service provides methods for downloading audio content from NetEase Cloud Music.
type Service interface {
	// DownloadArguments orchestrates the full download pipeline,
	// from argument classification to file creation.
	DownloadArguments(ctx context.Context, args []string)
	// DownloadTrack runs the download pipeline for a single track.
	DownloadTrack(ctx context.Context, req *DownloadRequest) DownloadOutcome
	// PrintDownloadSummary prints a formatted summary of download statistics.
	PrintDownloadSummary(ctx context.Context)
}

// ServiceImpl implements the audio download service with deduplication and metadata handling.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// ncmClient is the client for interacting with the NetEase Cloud Music API.
	ncmClient ncm.Client
	// urlProcessor handles argument parsing and categorization.
	urlProcessor URLProcessor
	// templateManager generates track filenames.
	templateManager TemplateManager
	// tagProcessor writes metadata tags to audio files.
	tagProcessor TagProcessor
	// trackPicker chooses a track from keyword search results.
	trackPicker TrackPicker
	// stats tracks download statistics for the current session.
	stats *DownloadStatistics
	// statsMutex protects concurrent access to statistics.
	statsMutex *sync.Mutex
}

// NewService creates a download service instance with dependency-injected components.
func NewService(
	cfg *config.Config,
	ncmClient ncm.Client,
	urlProcessor URLProcessor,
	templateManager TemplateManager,
	tagProcessor TagProcessor,
	trackPicker TrackPicker,
) Service {
	return &ServiceImpl{
		cfg:             cfg,
		ncmClient:       ncmClient,
		urlProcessor:    urlProcessor,
		templateManager: templateManager,
		tagProcessor:    tagProcessor,
		trackPicker:     trackPicker,
		stats:           new(DownloadStatistics),
		statsMutex:      new(sync.Mutex),
	}
}

// DownloadArguments orchestrates the full download pipeline, from argument classification to file creation.
func (s *ServiceImpl) DownloadArguments(ctx context.Context, args []string) {
	// Record start time for statistics.
	s.statsMutex.Lock()
	s.stats.StartTime = time.Now()
	s.statsMutex.Unlock()

	// Ensure the output directory exists.
	err := os.MkdirAll(s.cfg.OutputDir, constants.DefaultFolderPermissions)
	if err != nil {
		logger.Errorf(ctx, "Failed to create output directory: %v", err)
		return
	}

	// Classify the arguments into songs, playlists, and keywords.
	downloadItemsByCategories, err := s.urlProcessor.ExtractDownloadItems(ctx, args)
	if err != nil {
		logger.Errorf(ctx, "Failed to extract items to download: %v", err)
		return
	}

	logger.Info(ctx, "Starting download process")

	// Process playlists first so their tracks land before individual requests.
	playlists := s.urlProcessor.DeduplicateDownloadItems(downloadItemsByCategories.Playlists)
	for _, item := range playlists {
		if ctx.Err() != nil {
			break
		}

		s.downloadPlaylist(ctx, item)
	}

	// Process individual songs.
	songs := s.urlProcessor.DeduplicateDownloadItems(downloadItemsByCategories.Songs)
	s.downloadSongItems(ctx, songs)

	// Resolve keywords through search last.
	keywords := s.urlProcessor.DeduplicateDownloadItems(downloadItemsByCategories.Keywords)
	s.downloadKeywordItems(ctx, keywords)

	logger.Info(ctx, "Download process completed")

	// Record end time for statistics.
	s.statsMutex.Lock()
	s.stats.EndTime = time.Now()
	s.statsMutex.Unlock()
}

// downloadSongItems downloads individual songs sequentially.
func (s *ServiceImpl) downloadSongItems(ctx context.Context, items []*DownloadItem) {
	for _, item := range items {
		// Check if context was canceled (CTRL+C pressed) - stop immediately.
		if ctx.Err() != nil {
			return
		}

		req := &DownloadRequest{TrackID: item.ItemID}
		outcome := s.DownloadTrack(ctx, req)
		s.recordOutcome(ctx, req, outcome)
	}
}

// downloadKeywordItems resolves keywords through search and downloads the chosen tracks.
func (s *ServiceImpl) downloadKeywordItems(ctx context.Context, items []*DownloadItem) {
	for _, item := range items {
		if ctx.Err() != nil {
			return
		}

		track, err := s.resolveKeyword(ctx, item.Keyword)
		if err != nil {
			logger.Errorf(ctx, "Failed to resolve keyword '%s': %v", item.Keyword, err)
			s.incrementTrackFailed()

			continue
		}

		if track == nil {
			logger.Warnf(ctx, "No results for keyword '%s'", item.Keyword)
			continue
		}

		req := &DownloadRequest{
			TrackID:       track.ID,
			DisplayTitle:  track.Name,
			DisplayArtist: strings.Join(track.ArtistNames(), ", "),
		}

		outcome := s.DownloadTrack(ctx, req)
		s.recordOutcome(ctx, req, outcome)
	}
}

// resolveKeyword searches for a keyword and picks one track from the results.
// A nil track with a nil error means the search returned nothing.
func (s *ServiceImpl) resolveKeyword(ctx context.Context, keyword string) (*ncm.Track, error) {
	tracks, err := s.ncmClient.Search(ctx, keyword, defaultSearchLimit)
	if err != nil {
		return nil, err
	}

	if len(tracks) == 0 {
		return nil, nil
	}

	if s.trackPicker == nil {
		return tracks[0], nil
	}

	return s.trackPicker(ctx, keyword, tracks)
}

// recordOutcome logs a download outcome and folds it into the session statistics.
func (s *ServiceImpl) recordOutcome(ctx context.Context, req *DownloadRequest, outcome DownloadOutcome) {
	switch outcome.Status {
	case OutcomeSaved:
		logger.Infof(ctx, "Saved track %d to '%s'", req.TrackID, outcome.Path)
		s.incrementTrackDownloaded(outcome.Bytes)
	case OutcomeSkipped:
		logger.Infof(ctx, "Skipped track %d: %s", req.TrackID, outcome.Reason)
		s.incrementTrackSkipped(outcome.Reason)
	case OutcomeFailed:
		logger.Errorf(ctx, "Failed to download track %d (%s): %v", req.TrackID, outcome.Kind, outcome.Err)
		s.incrementTrackFailed()
	}
}
