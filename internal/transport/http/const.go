package http

import "time"

const (
	// APIRequestTimeout bounds metadata and auth calls.
	// Audio transfers use a separate client without a client-wide timeout,
	// since Client.Timeout caps the entire body read.
	APIRequestTimeout = 60 * time.Second

	// DesktopBrowserUserAgent is the User-Agent sent with every request.
	// The API and its CDN expect a browser agent string.
	DesktopBrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36" //nolint: lll
)
