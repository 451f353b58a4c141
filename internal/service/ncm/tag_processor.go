package ncm

//go:generate $MOCKGEN -source=tag_processor.go -destination=mocks/tag_processor_mock.go

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/oshokin/id3v2/v2"
)

// TagProcessor defines the interface for writing metadata tags to audio files.
type TagProcessor interface {
	WriteTags(ctx context.Context, req *WriteTagsRequest) error
}

// WriteTagsRequest contains parameters for writing metadata to audio files.
type WriteTagsRequest struct {
	// TrackPath is the file path of the audio track.
	TrackPath string
	// Descriptor carries the metadata to embed.
	Descriptor *TrackDescriptor
	// CoverData contains the raw cover image bytes, nil when absent.
	CoverData []byte
	// Lyrics contains the LRC lyrics text, empty when absent.
	Lyrics string
}

// TagProcessorImpl provides the default implementation of TagProcessor.
type TagProcessorImpl struct{}

// imageMetadata contains image data and its MIME type.
type imageMetadata struct {
	// data contains the raw image bytes.
	data []byte
	// mimeType specifies the image format (e.g., "image/jpeg").
	mimeType string
}

// defaultCoverMIMEType is assumed when sniffing cannot identify the image format.
const defaultCoverMIMEType = "image/jpeg"

// tagWriters dispatches embedding by container extension.
var tagWriters = map[string]func(*TagProcessorImpl, context.Context, *WriteTagsRequest, *imageMetadata) error{
	".mp3":  (*TagProcessorImpl).writeMP3Tags,
	".flac": (*TagProcessorImpl).writeFLACTags,
}

// NewTagProcessor creates a new TagProcessor instance.
func NewTagProcessor() TagProcessor {
	return new(TagProcessorImpl)
}

// WriteTags writes metadata to audio files based on the provided request.
// Prior values are replaced, so re-tagging a file is idempotent.
// On failure the audio payload on disk is left untouched.
func (tp *TagProcessorImpl) WriteTags(ctx context.Context, req *WriteTagsRequest) error {
	if req.TrackPath == "" {
		return &EmbedError{Path: req.TrackPath, Err: ErrEmptyTrackPath}
	}

	ext := strings.ToLower(filepath.Ext(req.TrackPath))

	writer, ok := tagWriters[ext]
	if !ok {
		return &EmbedError{Path: req.TrackPath, Err: ErrUnsupportedContainer}
	}

	var image *imageMetadata
	if len(req.CoverData) > 0 {
		image = &imageMetadata{
			data:     req.CoverData,
			mimeType: sniffImageMIMEType(req.CoverData),
		}
	}

	if err := writer(tp, ctx, req, image); err != nil {
		return &EmbedError{Path: req.TrackPath, Err: err}
	}

	return nil
}

// sniffImageMIMEType determines the cover MIME type from its bytes,
// assuming JPEG when the content is not a recognizable image.
func sniffImageMIMEType(data []byte) string {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return defaultCoverMIMEType
	}

	return mimeType
}

func (tp *TagProcessorImpl) writeFLACTags(_ context.Context, req *WriteTagsRequest, image *imageMetadata) error {
	// Parse the FLAC file.
	f, err := flac.ParseFile(filepath.Clean(req.TrackPath))
	if err != nil {
		return err
	}

	// Locate an existing Vorbis comment block so values are replaced, not duplicated.
	commentIndex := -1

	for idx, meta := range f.Meta {
		if meta.Type == flac.VorbisComment {
			commentIndex = idx
			break
		}
	}

	// A fresh comment block discards prior values.
	tag := flacvorbis.New()

	if err = tp.addFLACTags(tag, req); err != nil {
		return err
	}

	tagMeta := tag.Marshal()
	if commentIndex >= 0 {
		f.Meta[commentIndex] = &tagMeta
	} else {
		f.Meta = append(f.Meta, &tagMeta)
	}

	// Drop prior pictures so exactly one front cover remains.
	if image != nil {
		tp.embedFLACCover(f, image)
	}

	// Save the updated FLAC file.
	return f.Save(req.TrackPath)
}

func (tp *TagProcessorImpl) addFLACTags(tag *flacvorbis.MetaDataBlockVorbisComment, req *WriteTagsRequest) error {
	if req.Descriptor.Title != "" {
		if err := tag.Add(flacvorbis.FIELD_TITLE, req.Descriptor.Title); err != nil {
			return err
		}
	}

	// One ARTIST field per credited artist, in order.
	for _, artist := range req.Descriptor.Artists {
		if artist == "" {
			continue
		}

		if err := tag.Add(flacvorbis.FIELD_ARTIST, artist); err != nil {
			return err
		}
	}

	if req.Descriptor.Album != "" {
		if err := tag.Add(flacvorbis.FIELD_ALBUM, req.Descriptor.Album); err != nil {
			return err
		}
	}

	if lyrics := strings.TrimSpace(req.Lyrics); lyrics != "" {
		if err := tag.Add("LYRICS", lyrics); err != nil {
			return err
		}
	}

	return nil
}

func (tp *TagProcessorImpl) embedFLACCover(f *flac.File, image *imageMetadata) {
	// Remove existing picture blocks so the new cover is the only one.
	kept := f.Meta[:0]

	for _, meta := range f.Meta {
		if meta.Type != flac.Picture {
			kept = append(kept, meta)
		}
	}

	f.Meta = kept

	picture, err := flacpicture.NewFromImageData(
		flacpicture.PictureTypeFrontCover, "", image.data, image.mimeType)
	if err != nil {
		return
	}

	pictureMeta := picture.Marshal()
	f.Meta = append(f.Meta, &pictureMeta)
}

func (tp *TagProcessorImpl) writeMP3Tags(ctx context.Context, req *WriteTagsRequest, image *imageMetadata) error {
	// Open without parsing: the fresh tag replaces any prior frames on save,
	// which keeps re-tagging idempotent.
	//nolint:exhaustruct // ParseFrames intentionally omitted when Parse=false (parsing disabled).
	tag, err := id3v2.Open(req.TrackPath, id3v2.Options{Parse: false})
	if err != nil {
		return err
	}

	defer tag.Close() //nolint:errcheck // Save below reports the meaningful error.

	tp.addMP3Tags(ctx, tag, req)

	if image != nil {
		//nolint:exhaustruct // Description field intentionally empty for cover images.
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    image.mimeType,
			PictureType: id3v2.PTFrontCover,
			Picture:     image.data,
		})
	}

	// Save the updated MP3 file.
	return tag.Save()
}

func (tp *TagProcessorImpl) addMP3Tags(_ context.Context, tag *id3v2.Tag, req *WriteTagsRequest) {
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	tag.SetTitle(req.Descriptor.Title)
	tag.SetArtist(req.Descriptor.ArtistLine())
	tag.SetAlbum(req.Descriptor.Album)

	lyrics := strings.TrimSpace(req.Lyrics)
	if lyrics == "" {
		return
	}

	// LRC text is stored as an unsynchronised lyrics frame: players that
	// understand timestamps parse them out of the text themselves.
	tag.AddUnsynchronisedLyricsFrame(
		//nolint:exhaustruct // ContentDescriptor not available in source data.
		id3v2.UnsynchronisedLyricsFrame{
			Encoding: id3v2.EncodingUTF8,
			Lyrics:   lyrics,
			// Field is required, so we just use lingua franca.
			Language: id3v2.EnglishISO6392Code,
		})
}
