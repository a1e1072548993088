package nb2docx

import (
	"context"
	"fmt"

	"github.com/alnah/go-nb2docx/internal/raster"
)

// Producer turns cell content into a stored image.
// For RoleImage content is the decoded output PNG; for RoleCode it is the
// code text to render.
type Producer interface {
	Produce(ctx context.Context, index int, role Role, content []byte) (string, error)
}

// Compile-time interface check.
var _ Producer = (*storeProducer)(nil)

// storeProducer validates or renders images and writes them to an ArtifactStore.
type storeProducer struct {
	store     *ArtifactStore
	renderer  CodeRenderer
	maxPixels int
}

func newStoreProducer(store *ArtifactStore, renderer CodeRenderer, maxPixels int) *storeProducer {
	return &storeProducer{store: store, renderer: renderer, maxPixels: maxPixels}
}

// Produce writes {index}{role}.png and returns its path.
func (p *storeProducer) Produce(ctx context.Context, index int, role Role, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var data []byte
	switch role {
	case RoleImage:
		img, _, err := raster.Normalize(content, p.maxPixels)
		if err != nil {
			return "", fmt.Errorf("%w: cell %d: %v", ErrImageDecode, index, err)
		}
		data = img
	case RoleCode:
		shot, err := p.renderer.Render(ctx, string(content))
		if err != nil {
			return "", fmt.Errorf("cell %d: %w", index, err)
		}
		img, _, err := raster.Normalize(shot, 0)
		if err != nil {
			return "", fmt.Errorf("%w: cell %d: rendered image: %v", ErrCodeRender, index, err)
		}
		data = img
	default:
		return "", fmt.Errorf("unknown artifact role %q", role)
	}

	return p.store.Write(index, role, data)
}
