package ncm

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/okonenko/ncm-grabber/internal/logger"
)

// downloadPlaylist downloads every track of a playlist.
// Tracks are downloaded concurrently up to the configured limit, and a
// failed track never aborts the rest of the playlist.
func (s *ServiceImpl) downloadPlaylist(ctx context.Context, item *DownloadItem) {
	tracks, err := s.ncmClient.GetPlaylistTracks(ctx, item.ItemID)
	if err != nil {
		logger.Errorf(ctx, "Failed to fetch playlist %d: %v", item.ItemID, err)
		return
	}

	if len(tracks) == 0 {
		logger.Warnf(ctx, "Playlist %d is empty", item.ItemID)
		return
	}

	logger.Infof(ctx, "Downloading playlist %d (%d tracks)", item.ItemID, len(tracks))

	concurrency := int(s.cfg.MaxConcurrentDownloads)
	if concurrency < 1 {
		concurrency = 1
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, track := range tracks {
		if groupCtx.Err() != nil {
			break
		}

		g.Go(func() error {
			req := &DownloadRequest{
				TrackID:       track.ID,
				DisplayTitle:  track.Name,
				DisplayArtist: strings.Join(track.ArtistNames(), ", "),
			}

			outcome := s.DownloadTrack(groupCtx, req)
			s.recordOutcome(groupCtx, req, outcome)

			// Outcomes are folded into statistics instead of failing the group,
			// so sibling downloads keep running.
			return nil
		})
	}

	// Workers never return errors, so Wait only synchronizes completion.
	_ = g.Wait()
}
