// Package app provides the main application logic for downloading audio
// from NetEase Cloud Music. It initializes the necessary components, such as
// the session store, API client, URL processor, template manager, and tag
// processor, and orchestrates the download process.
package app
