package ncm

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okonenko/ncm-grabber/internal/config"
	"github.com/okonenko/ncm-grabber/internal/logger"
)

// Client defines the interface for interacting with the NetEase Cloud Music API.
type Client interface {
	// Search finds tracks matching the keyword.
	Search(ctx context.Context, keyword string, limit int) ([]*Track, error)
	// GetTrackDetail retrieves metadata for a single track.
	GetTrackDetail(ctx context.Context, trackID int64) (*Track, error)
	// GetPlaylistTracks retrieves metadata for every track in a playlist.
	GetPlaylistTracks(ctx context.Context, playlistID int64) ([]*Track, error)
	// ResolveAudioLegacy resolves a stream URL at the requested quality level.
	ResolveAudioLegacy(ctx context.Context, trackID int64, quality string) (*AudioStreamRef, error)
	// ResolveAudioStandardAPI resolves a stream URL through the standard audio endpoint.
	ResolveAudioStandardAPI(ctx context.Context, trackID int64) (*AudioStreamRef, error)
	// GetLyrics retrieves LRC lyrics for a track. An empty string means none exist.
	GetLyrics(ctx context.Context, trackID int64) (string, error)
	// FetchBytes downloads small content (cover art) fully into memory.
	FetchBytes(ctx context.Context, url string) ([]byte, error)
	// FetchAudio opens a streaming download of an audio URL.
	FetchAudio(ctx context.Context, url string) (*FetchAudioResult, error)
}

// ClientImpl implements the Client interface for interacting with the NetEase Cloud Music API.
type ClientImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// baseURL is the base URL for API requests.
	baseURL string
	// httpClient is the HTTP client for making requests.
	// It is shared with the session store so requests ride the session cookie jar.
	httpClient *http.Client
	// streamClient handles audio transfers. It shares the transport and cookie
	// jar with httpClient but carries no client-wide timeout: Client.Timeout
	// caps the entire body read, which would cut off large lossless transfers.
	// Per-request context deadlines bound streaming instead.
	streamClient *http.Client
	// tracksCache caches track metadata to reduce duplicate API calls for the same tracks.
	tracksCache *lru.Cache[int64, *Track]
	// playlistsCache caches playlist track ID lists to reduce duplicate API calls.
	playlistsCache *lru.Cache[int64, []int64]
}

const (
	// tracksCacheSize defines the maximum number of track entries to cache.
	// Sized to hold recently accessed tracks.
	tracksCacheSize = 10000
	// playlistsCacheSize defines the maximum number of playlist entries to cache.
	// Playlists don't change frequently, so we cache their track ID lists.
	playlistsCacheSize = 2000
)

// NewClient creates and returns a new instance of ClientImpl.
// The HTTP client is supplied by the caller so catalog requests share
// the authenticated session cookie jar.
func NewClient(cfg *config.Config, httpClient *http.Client) (Client, error) {
	baseURL, err := url.Parse(cfg.NCMBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid host URL: %w", err)
	}

	tracksCache, err := lru.New[int64, *Track](tracksCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracks cache: %w", err)
	}

	playlistsCache, err := lru.New[int64, []int64](playlistsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlists cache: %w", err)
	}

	streamClient := &http.Client{
		Transport: httpClient.Transport,
		Jar:       httpClient.Jar,
	}

	return &ClientImpl{
		cfg:            cfg,
		baseURL:        baseURL.String(),
		httpClient:     httpClient,
		streamClient:   streamClient,
		tracksCache:    tracksCache,
		playlistsCache: playlistsCache,
	}, nil
}

// Search finds tracks matching the keyword.
func (c *ClientImpl) Search(ctx context.Context, keyword string, limit int) ([]*Track, error) {
	const op = "search"

	form := url.Values{}
	form.Set("s", keyword)
	form.Set("type", strconv.Itoa(searchTypeSong))
	form.Set("limit", strconv.Itoa(limit))
	form.Set("offset", "0")

	response, err := postForm[searchResponse](c, ctx, ncmAPISearchURI, form)
	if err != nil {
		return nil, wrapTransportError(op, err)
	}

	if err = checkAPICode(op, response.Code); err != nil {
		return nil, err
	}

	if response.Result == nil {
		return nil, nil
	}

	return response.Result.Songs, nil
}

// GetTrackDetail retrieves metadata for a single track.
// Uses an LRU cache to avoid redundant API calls for the same tracks.
func (c *ClientImpl) GetTrackDetail(ctx context.Context, trackID int64) (*Track, error) {
	if cached, ok := c.tracksCache.Get(trackID); ok {
		logger.Debugf(ctx, "Track cache hit for ID: %d", trackID)

		return cached, nil
	}

	tracks, err := c.getTracksDetail(ctx, []int64{trackID})
	if err != nil {
		return nil, err
	}

	track, ok := tracks[trackID]
	if !ok {
		return nil, newCatalogError("track detail", CatalogErrorNotFound, ErrTrackNotFound)
	}

	return track, nil
}

// GetPlaylistTracks retrieves metadata for every track in a playlist.
// The playlist detail endpoint returns full track ID lists but only partial
// track objects, so metadata is fetched separately in batches.
func (c *ClientImpl) GetPlaylistTracks(ctx context.Context, playlistID int64) ([]*Track, error) {
	trackIDs, err := c.getPlaylistTrackIDs(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	result := make([]*Track, 0, len(trackIDs))
	uncachedIDs := make([]int64, 0, len(trackIDs))

	// Check cache first for each track ID.
	for _, id := range trackIDs {
		if _, ok := c.tracksCache.Get(id); !ok {
			uncachedIDs = append(uncachedIDs, id)
		}
	}

	if len(uncachedIDs) > 0 {
		logger.Debugf(ctx, "Fetching %d uncached tracks from API", len(uncachedIDs))

		for start := 0; start < len(uncachedIDs); start += trackDetailBatchSize {
			end := min(start+trackDetailBatchSize, len(uncachedIDs))

			if _, err = c.getTracksDetail(ctx, uncachedIDs[start:end]); err != nil {
				return nil, err
			}
		}
	}

	// Preserve playlist order, skipping tracks the API did not return.
	for _, id := range trackIDs {
		if track, ok := c.tracksCache.Get(id); ok {
			result = append(result, track)
		}
	}

	return result, nil
}

// ResolveAudioLegacy resolves a stream URL at the requested quality level.
func (c *ClientImpl) ResolveAudioLegacy(ctx context.Context, trackID int64, quality string) (*AudioStreamRef, error) {
	form := url.Values{}
	form.Set("ids", fmt.Sprintf("[%d]", trackID))
	form.Set("level", quality)
	form.Set("encodeType", "flac")

	return c.resolveAudio(ctx, "resolve audio", ncmAPIPlayerURLV1URI, form)
}

// ResolveAudioStandardAPI resolves a stream URL through the standard audio endpoint.
func (c *ClientImpl) ResolveAudioStandardAPI(ctx context.Context, trackID int64) (*AudioStreamRef, error) {
	form := url.Values{}
	form.Set("ids", fmt.Sprintf("[%d]", trackID))
	form.Set("br", strconv.Itoa(standardAPIBitrate))

	return c.resolveAudio(ctx, "resolve audio (standard)", ncmAPIPlayerURLURI, form)
}

// GetLyrics retrieves LRC lyrics for a track. An empty string means none exist.
func (c *ClientImpl) GetLyrics(ctx context.Context, trackID int64) (string, error) {
	const op = "lyrics"

	form := url.Values{}
	form.Set("id", strconv.FormatInt(trackID, 10))
	form.Set("lv", "-1")
	form.Set("tv", "-1")

	response, err := postForm[lyricsResponse](c, ctx, ncmAPILyricsURI, form)
	if err != nil {
		return "", wrapTransportError(op, err)
	}

	if err = checkAPICode(op, response.Code); err != nil {
		return "", err
	}

	if response.LRC == nil {
		return "", nil
	}

	return response.LRC.Lyric, nil
}

// FetchBytes downloads small content (cover art) fully into memory.
func (c *ClientImpl) FetchBytes(ctx context.Context, contentURL string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, contentURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return io.ReadAll(response.Body)
}

// FetchAudio opens a streaming download of an audio URL.
func (c *ClientImpl) FetchAudio(ctx context.Context, audioURL string) (*FetchAudioResult, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	// Add a Range header to request partial content.
	request.Header.Add("Range", "bytes=0-")

	response, err := c.streamClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusPartialContent {
		response.Body.Close() //nolint:gosec,errcheck // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return &FetchAudioResult{
		Body:       response.Body,
		TotalBytes: response.ContentLength,
	}, nil
}

// getPlaylistTrackIDs retrieves the ordered track ID list of a playlist.
// Uses an LRU cache to avoid redundant API calls for the same playlists.
func (c *ClientImpl) getPlaylistTrackIDs(ctx context.Context, playlistID int64) ([]int64, error) {
	const op = "playlist detail"

	if cached, ok := c.playlistsCache.Get(playlistID); ok {
		logger.Debugf(ctx, "Playlist cache hit for ID: %d", playlistID)

		return cached, nil
	}

	form := url.Values{}
	form.Set("id", strconv.FormatInt(playlistID, 10))
	form.Set("n", "100000")

	response, err := postForm[playlistDetailResponse](c, ctx, ncmAPIPlaylistDetailURI, form)
	if err != nil {
		return nil, wrapTransportError(op, err)
	}

	if err = checkAPICode(op, response.Code); err != nil {
		return nil, err
	}

	if response.Playlist == nil {
		return nil, newCatalogError(op, CatalogErrorNotFound, ErrPlaylistNotFound)
	}

	trackIDs := make([]int64, 0, len(response.Playlist.TrackIDs))

	for _, entry := range response.Playlist.TrackIDs {
		if entry != nil {
			trackIDs = append(trackIDs, entry.ID)
		}
	}

	c.playlistsCache.Add(playlistID, trackIDs)

	return trackIDs, nil
}

// getTracksDetail fetches metadata for the given track IDs and stores it in the cache.
func (c *ClientImpl) getTracksDetail(ctx context.Context, trackIDs []int64) (map[int64]*Track, error) {
	const op = "track detail"

	ids := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		ids = append(ids, fmt.Sprintf(`{"id":%d}`, id))
	}

	form := url.Values{}
	form.Set("c", "["+strings.Join(ids, ",")+"]")

	response, err := postForm[trackDetailResponse](c, ctx, ncmAPITrackDetailURI, form)
	if err != nil {
		return nil, wrapTransportError(op, err)
	}

	if err = checkAPICode(op, response.Code); err != nil {
		return nil, err
	}

	result := make(map[int64]*Track, len(response.Songs))

	for _, track := range response.Songs {
		if track == nil {
			continue
		}

		c.tracksCache.Add(track.ID, track)
		result[track.ID] = track
	}

	return result, nil
}

// resolveAudio calls an audio resolution endpoint and returns the first stream entry.
// A present-but-empty stream URL is returned as-is: it means "unplayable", not an error.
func (c *ClientImpl) resolveAudio(
	ctx context.Context,
	op, uri string,
	form url.Values,
) (*AudioStreamRef, error) {
	response, err := postForm[audioResolutionResponse](c, ctx, uri, form)
	if err != nil {
		return nil, wrapTransportError(op, err)
	}

	if err = checkAPICode(op, response.Code); err != nil {
		return nil, err
	}

	if len(response.Data) == 0 || response.Data[0] == nil {
		return nil, newCatalogError(op, CatalogErrorMalformed, ErrEmptyResponse)
	}

	return response.Data[0], nil
}

// checkAPICode validates the envelope code of an API response.
func checkAPICode(op string, code int64) error {
	switch code {
	case apiCodeOK:
		return nil
	case apiCodeNotFound:
		return newCatalogError(op, CatalogErrorNotFound, fmt.Errorf("%w: %d", ErrUnexpectedAPICode, code))
	case http.StatusTooManyRequests:
		return newCatalogError(op, CatalogErrorRateLimited, fmt.Errorf("%w: %d", ErrUnexpectedAPICode, code))
	default:
		return newCatalogError(op, CatalogErrorMalformed, fmt.Errorf("%w: %d", ErrUnexpectedAPICode, code))
	}
}

// wrapTransportError classifies low-level failures into the error taxonomy.
// Failures already classified are passed through unchanged.
func wrapTransportError(op string, err error) error {
	var catalogErr *CatalogError
	if errors.As(err, &catalogErr) {
		return err
	}

	return newCatalogError(op, CatalogErrorTransport, err)
}

//nolint:revive // Has no sense, it's cause Go doesn't allow struct methods to be generic.
func postForm[T any](c *ClientImpl, ctx context.Context, uri string, form url.Values) (*T, error) {
	route, err := url.JoinPath(c.baseURL, uri)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(
		ctx, http.MethodPost, route, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	switch {
	case response.StatusCode == http.StatusTooManyRequests:
		return nil, newCatalogError(uri, CatalogErrorRateLimited,
			fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode))
	case response.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	var result T
	if err = json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, newCatalogError(uri, CatalogErrorMalformed, err)
	}

	return &result, nil
}
