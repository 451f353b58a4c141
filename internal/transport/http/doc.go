// Package http provides custom HTTP transport utilities,
// including request/response logging, User-Agent header injection,
// and bounded retry with exponential backoff for transient server failures.
// It is designed to enhance HTTP client functionality
// with debugging capabilities and request customization.
package http
