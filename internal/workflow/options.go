package workflow

import (
	"mediapick/internal/config"
	"mediapick/internal/media"
)

// Options are the per-picker switches that shape a pipeline run.
type Options struct {
	SkipReviewWhenMultiple bool
	CropPolicy             media.CropPolicy
	SaveNewPicturesToAlbum bool
	AlbumName              string
	ShowsFilters           bool
}

// OptionsFromConfig maps the [picker] section onto pipeline options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}
	}
	return Options{
		SkipReviewWhenMultiple: cfg.Picker.SkipReviewWhenMultiple,
		CropPolicy:             cfg.CropPolicy(),
		SaveNewPicturesToAlbum: cfg.Picker.SaveNewPicturesToAlbum,
		AlbumName:              cfg.Picker.AlbumName,
		ShowsFilters:           cfg.Picker.ShowsFilters,
	}
}

// shouldPersist reports whether a photo leaving the chain is saved: fresh
// captures and edited photos only.
func (o Options) shouldPersist(photo media.Photo) bool {
	return o.SaveNewPicturesToAlbum && (photo.FromCamera || photo.IsModified())
}
