package ncm

//go:generate $MOCKGEN -source=template_manager.go -destination=mocks/template_manager_mock.go

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/okonenko/ncm-grabber/internal/config"
	"github.com/okonenko/ncm-grabber/internal/logger"
	"github.com/okonenko/ncm-grabber/internal/utils"
)

// TemplateManager defines the interface for rendering track filenames.
type TemplateManager interface {
	// RenderTrackFilename generates a filename for a track from the naming template.
	// A malformed template or unknown placeholder falls back to "<title> - <artists>".
	RenderTrackFilename(ctx context.Context, descriptor *TrackDescriptor, containerExt string) string
}

// TemplateManagerImpl implements the TemplateManager interface.
type TemplateManagerImpl struct {
	// template is the naming template with {placeholder} markers.
	template string
}

// NewTemplateManager creates and returns a new instance of TemplateManagerImpl.
func NewTemplateManager(cfg *config.Config) TemplateManager {
	tmpl := cfg.NamingTemplate
	if tmpl == "" {
		tmpl = config.DefaultNamingTemplate
	}

	return &TemplateManagerImpl{template: tmpl}
}

// RenderTrackFilename generates a filename for a track from the naming template.
// Title, artists, and album are sanitized before substitution so the result is
// always a valid filename. The container extension is appended exactly once.
func (s *TemplateManagerImpl) RenderTrackFilename(
	ctx context.Context,
	descriptor *TrackDescriptor,
	containerExt string,
) string {
	var (
		title   = utils.SanitizeFilename(descriptor.Title)
		artists = utils.SanitizeFilename(descriptor.ArtistLine())
		album   = utils.SanitizeFilename(descriptor.Album)
	)

	values := map[string]string{
		"title":   title,
		"artist":  artists,
		"artists": artists,
		"album":   album,
		// Kept for compatibility with existing templates: {track} renders
		// the sanitized title, not the track number.
		"track": title,
		"id":    strconv.FormatInt(descriptor.ID, 10),
	}

	rendered, err := renderTemplate(s.template, values)
	if err != nil {
		logger.Warnf(ctx, "Failed to render naming template, using fallback name: %v", err)

		rendered = title + " - " + artists
	}

	return rendered + "." + containerExt
}

// renderTemplate substitutes {placeholder} markers in the template.
// Unknown placeholders and unterminated markers are errors so the caller
// can fail closed to a predictable name.
func renderTemplate(tmpl string, values map[string]string) (string, error) {
	var builder strings.Builder

	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '{' {
			builder.WriteByte(tmpl[i])
			continue
		}

		end := strings.IndexByte(tmpl[i:], '}')
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated placeholder", ErrMalformedTemplate)
		}

		name := tmpl[i+1 : i+end]

		value, ok := values[name]
		if !ok {
			return "", fmt.Errorf("%w: {%s}", ErrUnknownPlaceholder, name)
		}

		builder.WriteString(value)

		i += end
	}

	return builder.String(), nil
}
