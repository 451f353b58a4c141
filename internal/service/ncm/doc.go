// Package ncm implements the download pipeline for NetEase Cloud Music tracks.
package ncm
