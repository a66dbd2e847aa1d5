package media

import (
	"fmt"
	"image"
)

// Kind identifies the variant stored in an Item.
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

// Item is a selected photo or video. The set of implementations is closed:
// only Photo and Video satisfy it.
type Item interface {
	Kind() Kind
	IsFromCamera() bool
	isItem()
}

// AssetRef points back at the library asset a pick was resolved from.
type AssetRef struct {
	ID          string
	Path        string
	ContentType string
}

// Photo is a still image selection. Values are replaced, never mutated in
// place; use WithModified to derive an edited copy.
type Photo struct {
	Image         image.Image
	ModifiedImage image.Image
	FromCamera    bool
	Asset         *AssetRef
}

func (Photo) Kind() Kind           { return KindPhoto }
func (p Photo) IsFromCamera() bool { return p.FromCamera }
func (Photo) isItem()              {}

// IsModified reports whether the photo carries an edit.
func (p Photo) IsModified() bool { return p.ModifiedImage != nil }

func (p Photo) String() string { return describePhoto(p) }

// WithModified returns a copy of p carrying img as its single live
// modification. A nil img clears the modification.
func (p Photo) WithModified(img image.Image) Photo {
	p.ModifiedImage = img
	return p
}

// Finalized returns the pixels that represent the photo after editing.
func (p Photo) Finalized() image.Image {
	if p.ModifiedImage != nil {
		return p.ModifiedImage
	}
	return p.Image
}

// Video is a movie selection backed by a file on disk.
type Video struct {
	URL        string
	Thumbnail  image.Image
	FromCamera bool
}

func (Video) Kind() Kind           { return KindVideo }
func (v Video) IsFromCamera() bool { return v.FromCamera }
func (Video) isItem()              {}

func (v Video) String() string { return fmt.Sprintf("video(%s)", v.URL) }

func describePhoto(p Photo) string {
	source := "library"
	if p.FromCamera {
		source = "camera"
	}
	size := "empty"
	if img := p.Finalized(); img != nil {
		b := img.Bounds()
		size = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
	}
	if p.Asset != nil && p.Asset.Path != "" {
		return fmt.Sprintf("photo(%s %s %s)", source, size, p.Asset.Path)
	}
	return fmt.Sprintf("photo(%s %s)", source, size)
}

var (
	_ Item = Photo{}
	_ Item = Video{}
)
