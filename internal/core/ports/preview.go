package ports

import (
	"context"
	"time"

	"github.com/curationlink/board-api/internal/core/domain"
)

// BoardRenderer synthesizes the 1200x630 social-preview PNG for a board.
// Rendering is a pure function of the record: the same board always produces
// the same bytes.
type BoardRenderer interface {
	RenderBoard(b *domain.Board) ([]byte, error)
	// RenderFallback produces the generic branded image used when no board
	// can be resolved.
	RenderFallback() ([]byte, error)
}

// ImageCache stores rendered preview bytes. Get returns (nil, nil) on a miss.
type ImageCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, png []byte, ttl time.Duration) error
}

// PreviewService resolves a board ID to preview-image bytes. It never fails:
// absent boards and rendering errors degrade to the fallback image.
type PreviewService interface {
	// Image returns the PNG for the board, or the fallback when the board
	// cannot be resolved. boardSpecific distinguishes the two so the
	// transport layer can choose cache headers.
	Image(ctx context.Context, boardID string) (png []byte, boardSpecific bool)
	// Warm renders the board's image into the cache ahead of demand.
	Warm(ctx context.Context, boardID string) error
}

// RenderQueue accepts board IDs whose preview images should be re-rendered
// after a write.
type RenderQueue interface {
	Enqueue(boardID string)
}
