package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize caps the decoded size of an uploaded image.
const MaxImageSize = 10 * 1024 * 1024

// Errors returned by DecodeDataURI. All are client errors.
var (
	ErrInvalidDataURI  = errors.New("image must be a base64 data URI")
	ErrUnsupportedType = errors.New("image must be jpeg, png, gif or webp")
	ErrTooLarge        = errors.New("image exceeds 10 MB")
	ErrEmptyImage      = errors.New("image is empty")
)

// allowedTypes maps sniffed MIME types to stored file extensions.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload is a decoded image payload.
type Upload struct {
	Data      []byte
	MIME      string
	Extension string
}

// DecodeDataURI decodes "data:image/<type>;base64,<payload>". The declared
// type is ignored in favour of the sniffed content type.
func DecodeDataURI(uri string) (*Upload, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return nil, ErrInvalidDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(header, ";base64") || !strings.HasPrefix(header, "image/") {
		return nil, ErrInvalidDataURI
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return nil, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
		}
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > MaxImageSize {
		return nil, ErrTooLarge
	}

	mtype := mimetype.Detect(data)
	ext, ok := allowedTypes[mtype.String()]
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedType, mtype.String())
	}
	return &Upload{Data: data, MIME: mtype.String(), Extension: ext}, nil
}

// IsClientError reports whether err was caused by the uploaded payload.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDataURI) ||
		errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrTooLarge) ||
		errors.Is(err, ErrEmptyImage)
}
