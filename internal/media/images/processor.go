package images

import (
	"fmt"
	"log/slog"
)

// Stored describes a saved image.
type Stored struct {
	Name     string
	BlurHash string
}

// Processor turns uploaded data URIs into stored images.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{storage: storage, logger: logger}
}

// Storage returns the backing storage.
func (p *Processor) Storage() *Storage { return p.storage }

// SaveDataURI decodes and stores the image. Client errors (see
// IsClientError) are returned unwrapped; a failed BlurHash only logs.
func (p *Processor) SaveDataURI(uri string) (*Stored, error) {
	upload, err := DecodeDataURI(uri)
	if err != nil {
		return nil, err
	}

	name, err := p.storage.Save(upload.Data, upload.Extension)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	hash, err := ComputeBlurHash(upload.Data)
	if err != nil {
		p.logger.Warn("failed to compute blurhash", "image", name, "mime", upload.MIME, "error", err)
	}

	p.logger.Debug("stored image", "image", name, "mime", upload.MIME, "size", len(upload.Data))
	return &Stored{Name: name, BlurHash: hash}, nil
}

// Remove deletes a stored image, logging failures.
func (p *Processor) Remove(name string) {
	if name == "" {
		return
	}
	if err := p.storage.Delete(name); err != nil {
		p.logger.Warn("failed to delete image", "image", name, "error", err)
	}
}
