// Package ncm provides a Go client for the NetEase Cloud Music API,
// offering access to track metadata, search, playlists, and audio streams.
// It speaks the documented JSON envelopes over an authenticated HTTP
// transport with retry logic and user-agent management.
// Key features include keyword search, track/playlist metadata retrieval,
// audio URL resolution over two API paths, lyrics fetching, and streaming
// downloads. Responses are defensively validated and failures are mapped
// to a structured error taxonomy.
package ncm
