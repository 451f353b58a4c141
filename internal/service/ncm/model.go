package ncm

import (
	"strings"
	"time"
)

// AudioQuality represents an audio quality level, ordered from lowest to highest.
type AudioQuality int

const (
	// AudioQualityStandard is the lowest quality tier (128 kbps MP3).
	AudioQualityStandard AudioQuality = iota + 1
	// AudioQualityHigh is the high quality tier (320 kbps MP3).
	AudioQualityHigh
	// AudioQualityLossless is the lossless tier (FLAC).
	AudioQualityLossless
	// AudioQualityHiRes is the highest tier (Hi-Res FLAC).
	AudioQualityHiRes
)

// audioQualityNames maps quality levels to the names the API understands.
var audioQualityNames = map[AudioQuality]string{
	AudioQualityStandard: "standard",
	AudioQualityHigh:     "exhigh",
	AudioQualityLossless: "lossless",
	AudioQualityHiRes:    "hires",
}

// ParseAudioQuality parses an API quality name into an AudioQuality.
func ParseAudioQuality(value string) (AudioQuality, bool) {
	for quality, name := range audioQualityNames {
		if name == strings.ToLower(strings.TrimSpace(value)) {
			return quality, true
		}
	}

	return 0, false
}

// String returns the API name of the quality level.
func (q AudioQuality) String() string {
	if name, ok := audioQualityNames[q]; ok {
		return name
	}

	return "unknown"
}

// StreamParam returns the value sent to the audio resolution endpoint.
func (q AudioQuality) StreamParam() string {
	return q.String()
}

// PreferredFormat represents the user's container format preference.
type PreferredFormat int

const (
	// PreferredFormatAuto accepts whatever container the API serves.
	PreferredFormatAuto PreferredFormat = iota
	// PreferredFormatMP3 prefers MP3 containers.
	PreferredFormatMP3
	// PreferredFormatFLAC prefers FLAC containers.
	PreferredFormatFLAC
)

// ParsePreferredFormat parses a configuration value into a PreferredFormat.
func ParsePreferredFormat(value string) (PreferredFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "auto":
		return PreferredFormatAuto, true
	case "mp3":
		return PreferredFormatMP3, true
	case "flac":
		return PreferredFormatFLAC, true
	default:
		return PreferredFormatAuto, false
	}
}

// String returns the configuration name of the format preference.
func (f PreferredFormat) String() string {
	switch f {
	case PreferredFormatMP3:
		return "mp3"
	case PreferredFormatFLAC:
		return "flac"
	case PreferredFormatAuto:
		return "auto"
	default:
		return "auto"
	}
}

// DownloadCategory represents the type of a command-line argument.
type DownloadCategory int

const (
	// DownloadCategoryUnknown - unrecognized URL.
	DownloadCategoryUnknown DownloadCategory = iota
	// DownloadCategorySong - single song URL.
	DownloadCategorySong
	// DownloadCategoryPlaylist - playlist URL.
	DownloadCategoryPlaylist
	// DownloadCategoryKeyword - free-text search keyword.
	DownloadCategoryKeyword
)

// DownloadItem represents a downloadable item parsed from a command-line argument.
type DownloadItem struct {
	// Category is the type of content (song, playlist, keyword).
	Category DownloadCategory
	// Argument is the raw command-line argument the item was parsed from.
	Argument string
	// ItemID is the numeric identifier of the item, zero for keywords.
	ItemID int64
	// Keyword is the search text, set only for keyword items.
	Keyword string
}

// ShortDownloadItem is a lightweight version of DownloadItem without the raw argument.
// It is used as a map key when deduplicating items.
type ShortDownloadItem struct {
	// Category is the type of content.
	Category DownloadCategory
	// ItemID is the numeric identifier of the item.
	ItemID int64
	// Keyword is the search text for keyword items.
	Keyword string
}

// DescriptorSource indicates how a track descriptor was built.
type DescriptorSource int

const (
	// DescriptorResolved means the descriptor came from the track detail endpoint.
	DescriptorResolved DescriptorSource = iota
	// DescriptorDegraded means detail resolution failed and the descriptor was
	// built from the request's display fields. Degraded tracks are never tagged.
	DescriptorDegraded
)

// TrackDescriptor carries the display metadata of a track through the pipeline.
type TrackDescriptor struct {
	// ID is the track identifier.
	ID int64
	// Title is the track title.
	Title string
	// Artists is the ordered list of credited artist names.
	Artists []string
	// Album is the album name.
	Album string
	// CoverURL is the album cover URL, empty when unknown.
	CoverURL string
	// Source indicates whether the descriptor is resolved or degraded.
	Source DescriptorSource
}

// ArtistLine returns the comma-joined artist names.
func (d *TrackDescriptor) ArtistLine() string {
	return strings.Join(d.Artists, ", ")
}

// DownloadRequest identifies a track to download.
type DownloadRequest struct {
	// TrackID is the track identifier.
	TrackID int64
	// DisplayTitle is a human-readable title used in logs and degraded descriptors.
	DisplayTitle string
	// DisplayArtist is a human-readable artist line used in logs and degraded descriptors.
	DisplayArtist string
}

// OutcomeStatus classifies the terminal result of a track download.
type OutcomeStatus int

const (
	// OutcomeSaved means the track was written to its final path.
	OutcomeSaved OutcomeStatus = iota
	// OutcomeSkipped means the track was intentionally not downloaded.
	OutcomeSkipped
	// OutcomeFailed means the download terminated with an error.
	OutcomeFailed
)

// SkipReason explains an OutcomeSkipped result.
type SkipReason int

const (
	// SkipReasonExists means the target file already exists and overwrite is disabled.
	SkipReasonExists SkipReason = iota
	// SkipReasonUnplayable means no resolution path yielded a stream URL.
	SkipReasonUnplayable
)

// String returns a human-readable name for the skip reason.
func (r SkipReason) String() string {
	switch r {
	case SkipReasonExists:
		return "already exists"
	case SkipReasonUnplayable:
		return "unplayable"
	default:
		return "unknown"
	}
}

// FailureKind classifies an OutcomeFailed result.
type FailureKind int

const (
	// FailureDirectoryCreate means the output directory could not be created.
	FailureDirectoryCreate FailureKind = iota
	// FailureTransfer means the audio transfer died mid-stream.
	FailureTransfer
	// FailureNoPlayablePath means every resolution path returned an error.
	FailureNoPlayablePath
	// FailureUnexpectedTransport means an unclassified transport failure occurred.
	FailureUnexpectedTransport
)

// String returns a human-readable name for the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureDirectoryCreate:
		return "directory create"
	case FailureTransfer:
		return "transfer"
	case FailureNoPlayablePath:
		return "no playable path"
	case FailureUnexpectedTransport:
		return "unexpected transport"
	default:
		return "unknown"
	}
}

// DownloadOutcome is the terminal result of a single track download.
type DownloadOutcome struct {
	// Status classifies the result.
	Status OutcomeStatus
	// Path is the final file path, set only when Status is OutcomeSaved.
	Path string
	// Bytes is the number of audio bytes written, set only when Status is OutcomeSaved.
	Bytes int64
	// Reason explains the skip, set only when Status is OutcomeSkipped.
	Reason SkipReason
	// Kind classifies the failure, set only when Status is OutcomeFailed.
	Kind FailureKind
	// Err is the underlying error, set only when Status is OutcomeFailed.
	Err error
}

// DownloadTrackResult contains the result of a track transfer.
type DownloadTrackResult struct {
	// IsExist indicates the final file already existed and the transfer was skipped.
	IsExist bool
	// TempPath is the temporary file path holding the downloaded audio.
	TempPath string
	// BytesDownloaded is the number of audio bytes written.
	BytesDownloaded int64
}

// DownloadStatistics tracks metrics for a download session.
type DownloadStatistics struct {
	// StartTime is when the download session began.
	StartTime time.Time
	// EndTime is when the download session completed.
	EndTime time.Time
	// TotalTracksProcessed is the total number of tracks handled.
	TotalTracksProcessed int64
	// TracksDownloaded is the number of tracks saved to disk.
	TracksDownloaded int64
	// TracksSkipped is the total number of skipped tracks.
	TracksSkipped int64
	// TracksSkippedExists is the number of tracks skipped because the file already existed.
	TracksSkippedExists int64
	// TracksSkippedUnplayable is the number of tracks skipped because no stream URL was available.
	TracksSkippedUnplayable int64
	// TracksFailed is the number of tracks that terminated with an error.
	TracksFailed int64
	// TotalBytesDownloaded is the total number of audio bytes written.
	TotalBytesDownloaded int64
	// LyricsDownloaded is the number of lyrics files saved.
	LyricsDownloaded int64
	// LyricsSkipped is the number of tracks without lyrics.
	LyricsSkipped int64
}

// Saved builds a successful outcome.
func Saved(path string, bytes int64) DownloadOutcome {
	return DownloadOutcome{Status: OutcomeSaved, Path: path, Bytes: bytes}
}

// Skipped builds an intentionally-not-downloaded outcome.
func Skipped(reason SkipReason) DownloadOutcome {
	return DownloadOutcome{Status: OutcomeSkipped, Reason: reason}
}

// Failed builds an error outcome.
func Failed(kind FailureKind, err error) DownloadOutcome {
	return DownloadOutcome{Status: OutcomeFailed, Kind: kind, Err: err}
}
