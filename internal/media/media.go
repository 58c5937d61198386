package media

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

type Kind string

const (
	KindNone  Kind = ""
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// KindOf guesses the media kind of rawURL from its file extension. Anything
// that is not a known video extension is treated as an image.
func KindOf(rawURL string) Kind {
	if strings.TrimSpace(rawURL) == "" {
		return KindNone
	}
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if ext == "" {
		return KindImage
	}
	if filetype.GetType(ext).MIME.Type == "video" {
		return KindVideo
	}
	return KindImage
}

// KindOfBytes sniffs the magic bytes of data.
func KindOfBytes(data []byte) Kind {
	switch {
	case filetype.IsVideo(data):
		return KindVideo
	case filetype.IsImage(data):
		return KindImage
	default:
		return KindNone
	}
}

// Object is a fetched media file.
type Object struct {
	Data        []byte
	ContentType string
	Kind        Kind
}

// Fetcher loads media bytes for platforms that need a binary upload.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Object, error)
}

var allowedTypes = map[string]struct{}{
	"mp4": {}, "mov": {}, "jpeg": {}, "png": {}, "jpg": {}, "gif": {}, "webp": {},
}

func newObject(data []byte, contentType, rawURL string) *Object {
	obj := &Object{Data: data, ContentType: contentType, Kind: KindOfBytes(data)}
	if t, err := filetype.Match(data); err == nil && t != types.Unknown {
		obj.ContentType = t.MIME.Value
	}
	if obj.Kind == KindNone {
		obj.Kind = KindOf(rawURL)
	}
	return obj
}
