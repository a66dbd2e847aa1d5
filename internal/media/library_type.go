package media

import (
	"fmt"
	"strings"
)

// LibraryType restricts which item kinds the library may return.
type LibraryType string

const (
	LibraryPhotos         LibraryType = "photo"
	LibraryVideos         LibraryType = "video"
	LibraryPhotosAndVideo LibraryType = "photo_and_video"
)

// ParseLibraryType resolves a configured library media type. An empty
// value allows both kinds.
func ParseLibraryType(value string) (LibraryType, error) {
	switch t := LibraryType(strings.ToLower(strings.TrimSpace(value))); t {
	case "":
		return LibraryPhotosAndVideo, nil
	case LibraryPhotos, LibraryVideos, LibraryPhotosAndVideo:
		return t, nil
	default:
		return LibraryPhotosAndVideo, fmt.Errorf("unknown library media type %q (want photo, video or photo_and_video)", value)
	}
}

// Allows reports whether items of kind k may be returned.
func (t LibraryType) Allows(k Kind) bool {
	switch t {
	case LibraryPhotos:
		return k == KindPhoto
	case LibraryVideos:
		return k == KindVideo
	default:
		return true
	}
}
