package ncm

import "io"

// Artist represents an artist credited on a track.
type Artist struct {
	// ID is the unique artist identifier.
	ID int64 `json:"id"`
	// Name is the artist name.
	Name string `json:"name"`
}

// Album represents the album a track belongs to.
type Album struct {
	// ID is the unique album identifier.
	ID int64 `json:"id"`
	// Name is the album name.
	Name string `json:"name"`
	// PicURL is the URL of the album cover image.
	PicURL string `json:"picUrl"`
}

// Track represents metadata for a music track.
// The same wire shape is returned by search, track detail, and playlists.
type Track struct {
	// ID is the unique track identifier.
	ID int64 `json:"id"`
	// Name is the track title.
	Name string `json:"name"`
	// Artists is the ordered list of credited artists.
	Artists []*Artist `json:"ar"`
	// Album is the album the track belongs to.
	Album *Album `json:"al"`
	// TrackNumber is the track's position on the album.
	TrackNumber int64 `json:"no"`
	// Duration is the track length in milliseconds.
	Duration int64 `json:"dt"`
}

// ArtistNames returns the names of the credited artists in order.
func (t *Track) ArtistNames() []string {
	names := make([]string, 0, len(t.Artists))
	for _, artist := range t.Artists {
		if artist != nil {
			names = append(names, artist.Name)
		}
	}

	return names
}

// AlbumName returns the album name or an empty string when absent.
func (t *Track) AlbumName() string {
	if t.Album == nil {
		return ""
	}

	return t.Album.Name
}

// CoverURL returns the album cover URL or an empty string when absent.
func (t *Track) CoverURL() string {
	if t.Album == nil {
		return ""
	}

	return t.Album.PicURL
}

// AudioStreamRef describes a resolved audio stream.
// An empty URL means the track is not playable for the current session.
type AudioStreamRef struct {
	// TrackID is the track the stream belongs to.
	TrackID int64 `json:"id"`
	// URL is the direct stream URL. Empty means unplayable.
	URL string `json:"url"`
	// ContainerExt is the container extension reported by the API (mp3, flac).
	ContainerExt string `json:"type"`
	// Bitrate is the stream bitrate in bits per second.
	Bitrate int64 `json:"br"`
	// Size is the stream size in bytes.
	Size int64 `json:"size"`
	// Level is the quality level the stream was resolved at.
	Level string `json:"level"`
}

// FetchAudioResult contains a streaming audio body and its total size.
type FetchAudioResult struct {
	// Body is the audio stream. The caller must close it.
	Body io.ReadCloser
	// TotalBytes is the total size of the stream, or -1 when unknown.
	TotalBytes int64
}

// searchResponse represents the envelope returned by the search endpoint.
type searchResponse struct {
	// Code is the API status code (200 = success).
	Code int64 `json:"code"`
	// Result contains the search hits.
	Result *searchResult `json:"result"`
}

// searchResult holds the songs matched by a search.
type searchResult struct {
	// Songs is the list of matched tracks.
	Songs []*Track `json:"songs"`
	// SongCount is the total number of matches on the server.
	SongCount int64 `json:"songCount"`
}

// trackDetailResponse represents the envelope returned by the track detail endpoint.
type trackDetailResponse struct {
	// Code is the API status code (200 = success).
	Code int64 `json:"code"`
	// Songs is the list of requested tracks.
	Songs []*Track `json:"songs"`
}

// playlistDetailResponse represents the envelope returned by the playlist detail endpoint.
type playlistDetailResponse struct {
	// Code is the API status code (200 = success).
	Code int64 `json:"code"`
	// Playlist contains the playlist metadata.
	Playlist *playlistDetail `json:"playlist"`
}

// playlistDetail holds the identifiers of every track in a playlist.
type playlistDetail struct {
	// ID is the unique playlist identifier.
	ID int64 `json:"id"`
	// Name is the playlist name.
	Name string `json:"name"`
	// TrackIDs is the full ordered list of track identifiers.
	TrackIDs []*playlistTrackID `json:"trackIds"`
}

// playlistTrackID wraps a single track identifier entry.
type playlistTrackID struct {
	// ID is the track identifier.
	ID int64 `json:"id"`
}

// audioResolutionResponse represents the envelope returned by both audio resolution endpoints.
type audioResolutionResponse struct {
	// Code is the API status code (200 = success).
	Code int64 `json:"code"`
	// Data is the list of resolved streams, one per requested track.
	Data []*AudioStreamRef `json:"data"`
}

// lyricsResponse represents the envelope returned by the lyrics endpoint.
type lyricsResponse struct {
	// Code is the API status code (200 = success).
	Code int64 `json:"code"`
	// LRC contains the timestamped lyrics.
	LRC *lyricsBody `json:"lrc"`
}

// lyricsBody holds the lyrics text.
type lyricsBody struct {
	// Lyric is the LRC-formatted lyrics content.
	Lyric string `json:"lyric"`
}
