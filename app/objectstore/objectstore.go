package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// Image is an uploaded file as received from the client.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, img Image) (string, error)
}

// Deleter is implemented by uploaders that can remove what they stored.
type Deleter interface {
	Delete(ctx context.Context, url string) error
}

// Policy decides what happens to an image that is replaced or whose post
// is deleted.
type Policy string

const (
	PolicyKeep   Policy = "keep"
	PolicyDelete Policy = "delete"
)

// ParsePolicy accepts "keep" or "delete"; anything else means keep.
func ParsePolicy(s string) Policy {
	if Policy(strings.ToLower(strings.TrimSpace(s))) == PolicyDelete {
		return PolicyDelete
	}
	return PolicyKeep
}

// Discard removes url when the policy asks for it and the uploader can.
func Discard(ctx context.Context, policy Policy, up Uploader, url string) error {
	if policy != PolicyDelete || url == "" {
		return nil
	}
	d, ok := up.(Deleter)
	if !ok {
		return nil
	}
	return d.Delete(ctx, url)
}

var ErrNotImage = errors.New("Please select a valid image file")

// Rules limit which images are accepted.
type Rules struct {
	MaxBytes int64
	// AllowedTypes restricts the sniffed media type. Empty accepts any
	// image/* type.
	AllowedTypes []string
}

var (
	// AuthoringRules apply to images attached to a new post.
	AuthoringRules = Rules{MaxBytes: 5 << 20}
	// EditRules apply to replacement images.
	EditRules = Rules{
		MaxBytes:     10 << 20,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
	}
)

// Check sniffs img and enforces r. The detected type replaces whatever
// the client declared.
func (r Rules) Check(img *Image) error {
	if len(img.Data) == 0 {
		return ErrNotImage
	}
	mt := mimetype.Detect(img.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return ErrNotImage
	}
	if !r.allows(mt) {
		return errors.New("Please select a valid image file (JPEG, PNG, GIF, WebP)")
	}
	if r.MaxBytes > 0 && int64(len(img.Data)) > r.MaxBytes {
		return fmt.Errorf("Image must be less than %s", humanize.IBytes(uint64(r.MaxBytes)))
	}
	img.ContentType = mt.String()
	return nil
}

func (r Rules) allows(mt *mimetype.MIME) bool {
	if len(r.AllowedTypes) == 0 {
		return true
	}
	for _, t := range r.AllowedTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}
