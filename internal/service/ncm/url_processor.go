package ncm

//go:generate $MOCKGEN -source=url_processor.go -destination=mocks/url_processor_mock.go

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/okonenko/ncm-grabber/internal/logger"
	"github.com/okonenko/ncm-grabber/internal/utils"
)

// URLProcessor defines the interface for classifying command-line arguments
// into downloadable items.
type URLProcessor interface {
	// ExtractDownloadItems classifies arguments into songs, playlists, and search keywords.
	ExtractDownloadItems(ctx context.Context, args []string) (*ExtractDownloadItemsResponse, error)
	// DeduplicateDownloadItems removes duplicate DownloadItems based on their category, ItemID, and Keyword.
	DeduplicateDownloadItems(items []*DownloadItem) []*DownloadItem
}

// ExtractDownloadItemsResponse represents the result of classifying arguments.
type ExtractDownloadItemsResponse struct {
	// Songs contains single song download items.
	Songs []*DownloadItem
	// Playlists contains playlist download items.
	Playlists []*DownloadItem
	// Keywords contains free-text search items.
	Keywords []*DownloadItem
}

// URLProcessorImpl implements the URLProcessor interface.
type URLProcessorImpl struct{}

const (
	// defaultTextExtension is the default file extension for text files.
	defaultTextExtension = ".txt"

	// serviceHost identifies URLs that belong to the music service.
	// Share links put the path behind a "#" fragment, so matching is done
	// on the raw string rather than on a parsed URL.
	serviceHost = "music.163.com"
)

// categoriesByPatterns maps URL patterns to download categories.
// The patterns match both plain paths ("/song?id=1") and fragment
// paths ("/#/song?id=1") that the web player produces.
//
//nolint:gochecknoglobals,lll // This is a justified global variable: immutable data, performance optimization, and reusability.
var categoriesByPatterns = []struct {
	// Pattern is the regex pattern to match URLs.
	Pattern *regexp.Regexp
	// Category is the download category for matched URLs.
	Category DownloadCategory
}{
	{regexp.MustCompile(`/song\?id=(?<ID>\d+)`), DownloadCategorySong},
	{regexp.MustCompile(`/playlist\?id=(?<ID>\d+)`), DownloadCategoryPlaylist},
}

// NewURLProcessor creates and returns a new instance of URLProcessorImpl.
func NewURLProcessor() URLProcessor {
	return &URLProcessorImpl{}
}

// ExtractDownloadItems classifies arguments into songs, playlists, and search keywords.
// Arguments ending in ".txt" are treated as files containing one argument per line.
// Service URLs without a recognizable song or playlist shape are reported and skipped.
func (up *URLProcessorImpl) ExtractDownloadItems(
	ctx context.Context,
	args []string,
) (*ExtractDownloadItemsResponse, error) {
	// Process and flatten arguments to handle text files containing multiple entries.
	args, err := up.processAndFlattenArguments(args)
	if err != nil {
		return nil, err
	}

	var (
		songs      []*DownloadItem
		playlists  []*DownloadItem
		keywords   = make([]*DownloadItem, 0, len(args))
		parsedArgs = make(map[string]struct{}, len(args))
	)

	for _, arg := range args {
		// Skip already parsed arguments to avoid duplicates.
		if _, ok := parsedArgs[arg]; ok {
			continue
		}

		item := up.parseDownloadItem(arg)
		parsedArgs[arg] = struct{}{}

		switch item.Category {
		case DownloadCategorySong:
			songs = append(songs, item)
		case DownloadCategoryPlaylist:
			playlists = append(playlists, item)
		case DownloadCategoryKeyword:
			keywords = append(keywords, item)
		case DownloadCategoryUnknown:
			logger.Warnf(ctx, "Unknown URL: %s", arg)
		}
	}

	return &ExtractDownloadItemsResponse{
		Songs:     songs,
		Playlists: playlists,
		Keywords:  keywords,
	}, nil
}

// DeduplicateDownloadItems removes duplicate DownloadItems based on their category, ItemID, and Keyword.
func (up *URLProcessorImpl) DeduplicateDownloadItems(items []*DownloadItem) []*DownloadItem {
	// Use a map to track unique items.
	uniqueItems := make(map[ShortDownloadItem]struct{}, len(items))
	result := make([]*DownloadItem, 0, len(items))

	for _, item := range items {
		key := ShortDownloadItem{Category: item.Category, ItemID: item.ItemID, Keyword: item.Keyword}
		if _, ok := uniqueItems[key]; ok {
			continue
		}

		uniqueItems[key] = struct{}{}

		result = append(result, item)
	}

	return result
}

func (up *URLProcessorImpl) parseDownloadItem(arg string) *DownloadItem {
	// Only service URLs carry song or playlist identifiers.
	if strings.Contains(arg, serviceHost) {
		// Match the URL against each pattern to determine its category.
		for _, p := range categoriesByPatterns {
			rawID := utils.ExtractNamedGroup(p.Pattern, "ID", arg)
			if rawID == "" {
				continue
			}

			itemID, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				continue
			}

			return &DownloadItem{Category: p.Category, Argument: arg, ItemID: itemID}
		}

		// A service URL without a recognizable shape cannot be downloaded.
		return &DownloadItem{
			Category: DownloadCategoryUnknown,
			Argument: arg,
		}
	}

	// Foreign URLs are not search keywords either.
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return &DownloadItem{
			Category: DownloadCategoryUnknown,
			Argument: arg,
		}
	}

	// Anything else is a search keyword.
	return &DownloadItem{
		Category: DownloadCategoryKeyword,
		Argument: arg,
		Keyword:  arg,
	}
}

func (up *URLProcessorImpl) processAndFlattenArguments(args []string) ([]string, error) {
	var (
		// Track processed arguments.
		processedSet = make(map[string]struct{})
		// Track processed text files.
		processedTextFiles = make(map[string]struct{})
		// Store the final list of arguments.
		processedArgs []string
	)

	for _, arg := range args {
		// If the argument is not a text file, add it directly to the processed list.
		if !strings.HasSuffix(arg, defaultTextExtension) {
			if _, ok := processedSet[arg]; ok {
				continue
			}

			processedSet[arg] = struct{}{}

			processedArgs = append(processedArgs, arg)

			continue
		}

		// Skip already processed text files.
		if _, exists := processedTextFiles[arg]; exists {
			continue
		}

		// Read unique lines from the text file.
		lines, err := utils.ReadUniqueLinesFromFile(arg)
		if err != nil {
			return nil, err
		}

		for _, line := range lines {
			if _, ok := processedSet[line]; ok {
				continue
			}

			processedSet[line] = struct{}{}

			processedArgs = append(processedArgs, line)
		}

		// Mark the text file as processed.
		processedTextFiles[arg] = struct{}{}
	}

	return processedArgs, nil
}
