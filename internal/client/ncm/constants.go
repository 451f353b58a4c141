package ncm

const (
	// ncmAPISearchURI is the URI path for the keyword search endpoint.
	ncmAPISearchURI = "api/cloudsearch/pc"
	// ncmAPITrackDetailURI is the URI path for the track detail endpoint.
	ncmAPITrackDetailURI = "api/v3/song/detail"
	// ncmAPIPlaylistDetailURI is the URI path for the playlist detail endpoint.
	ncmAPIPlaylistDetailURI = "api/v6/playlist/detail"
	// ncmAPIPlayerURLV1URI is the URI path for the quality-aware audio resolution endpoint.
	ncmAPIPlayerURLV1URI = "api/song/enhance/player/url/v1"
	// ncmAPIPlayerURLURI is the URI path for the standard audio resolution endpoint.
	ncmAPIPlayerURLURI = "api/song/enhance/player/url"
	// ncmAPILyricsURI is the URI path for the lyrics endpoint.
	ncmAPILyricsURI = "api/song/lyric"
)

const (
	// apiCodeOK is the envelope code reported on success.
	apiCodeOK = 200
	// apiCodeNotFound is the envelope code reported for missing resources.
	apiCodeNotFound = 404

	// standardAPIBitrate is the bitrate requested from the standard audio endpoint.
	standardAPIBitrate = 320000

	// searchTypeSong restricts search results to songs.
	searchTypeSong = 1

	// trackDetailBatchSize bounds a single track detail request.
	trackDetailBatchSize = 500
)
