// Package session manages the authenticated NetEase Cloud Music session.
// It owns the cookie-backed HTTP client shared by all API calls and
// supports credential, anonymous, and QR code login flows.
// Sessions are persisted to a file after every successful state change
// and restored on startup, so authentication survives restarts.
package session
