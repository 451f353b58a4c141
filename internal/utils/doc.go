// Package utils provides small shared helpers: filename sanitization,
// file extension handling, safe numeric conversions, retry pauses,
// and User-Agent providers for HTTP clients.
package utils
