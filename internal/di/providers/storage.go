package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/foodgram/foodgram-server/internal/config"
	"github.com/foodgram/foodgram-server/internal/logger"
	"github.com/foodgram/foodgram-server/internal/media/images"
)

// recipeImageDir is the media subdirectory holding recipe images.
const recipeImageDir = "recipes"

// ProvideRecipeImageStorage provides storage for uploaded recipe images.
func ProvideRecipeImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.Data.MediaPath(), recipeImageDir)
	if err != nil {
		return nil, fmt.Errorf("recipe image storage: %w", err)
	}

	log.Info("Image storage initialized", "path", cfg.Data.MediaPath())
	return storage, nil
}

// ProvideImageProcessor provides the image processor for recipe uploads.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(storage, log.Component("images")), nil
}
