package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	ncm_client "github.com/okonenko/ncm-grabber/internal/client/ncm"
	"github.com/okonenko/ncm-grabber/internal/config"
	"github.com/okonenko/ncm-grabber/internal/logger"
	ncm_service "github.com/okonenko/ncm-grabber/internal/service/ncm"
	"github.com/okonenko/ncm-grabber/internal/session"
)

// millisecondsPerSecond converts API track durations to seconds.
const millisecondsPerSecond = 1000

// ExecuteRootCommand is the entry point for the application.
// It restores the session, sets up the necessary service components,
// and starts the download process for the provided arguments.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, args []string, firstResult bool) {
	store, err := session.NewStore(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize session store: %v", err)
	}

	// A guest session is enough for standard quality downloads.
	if !store.HasSession() {
		logger.Info(ctx, "No session found, registering a guest session")

		if err = store.LoginAnonymous(ctx); err != nil {
			logger.Warnf(ctx, "Guest registration failed, continuing without a session: %v", err)
		}
	}

	ncmClient, err := ncm_client.NewClient(cfg, store.HTTPClient())
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize API client: %v", err)
	}

	urlProcessor := ncm_service.NewURLProcessor()
	templateManager := ncm_service.NewTemplateManager(cfg)
	tagProcessor := ncm_service.NewTagProcessor()

	s := ncm_service.NewService(cfg, ncmClient, urlProcessor, templateManager, tagProcessor,
		buildTrackPicker(firstResult))

	// Ensure statistics are ALWAYS printed, even on panic.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		s.PrintDownloadSummary(ctx)
	}()

	s.DownloadArguments(ctx, args)
}

// buildTrackPicker returns the search result picker.
// A nil picker makes the service take the first result without asking.
func buildTrackPicker(firstResult bool) ncm_service.TrackPicker {
	if firstResult {
		return nil
	}

	return pickTrackInteractively
}

// pickTrackInteractively shows the search results and asks the user to choose one.
// An empty answer picks the first result, zero skips the keyword.
func pickTrackInteractively(
	_ context.Context,
	keyword string,
	tracks []*ncm_client.Track,
) (*ncm_client.Track, error) {
	fmt.Printf("Search results for '%s':\n", keyword)

	for i, track := range tracks {
		fmt.Printf("  %2d. %s - %s [%s] (%s)\n",
			i+1,
			track.Name,
			strings.Join(track.ArtistNames(), ", "),
			track.AlbumName(),
			formatTrackDuration(track.Duration))
	}

	fmt.Printf("Select a track [1-%d], or 0 to skip (default 1): ", len(tracks))

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		// A closed stdin falls back to the first result.
		return tracks[0], nil
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return tracks[0], nil
	}

	choice, err := strconv.Atoi(answer)
	if err != nil || choice < 0 || choice > len(tracks) {
		fmt.Printf("Invalid selection '%s', taking the first result.\n", answer)

		return tracks[0], nil
	}

	if choice == 0 {
		return nil, nil
	}

	return tracks[choice-1], nil
}

// formatTrackDuration renders a millisecond duration as m:ss.
func formatTrackDuration(milliseconds int64) string {
	totalSeconds := milliseconds / millisecondsPerSecond

	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
