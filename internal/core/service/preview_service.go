package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/curationlink/board-api/internal/api/metrics"
	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
)

// cacheTTL matches the board image's HTTP cache lifetime: board content can
// change, so one hour.
const cacheTTL = time.Hour

// PreviewService resolves board IDs to social-preview PNG bytes. Every
// failure path (absent board, store failure, render failure) degrades to the
// generic fallback image; the caller never sees an error.
type PreviewService struct {
	boards   ports.BoardRepository
	renderer ports.BoardRenderer
	cache    ports.ImageCache
	logger   zerolog.Logger
}

func NewPreviewService(boards ports.BoardRepository, renderer ports.BoardRenderer, cache ports.ImageCache, logger zerolog.Logger) *PreviewService {
	return &PreviewService{boards: boards, renderer: renderer, cache: cache, logger: logger}
}

// Image returns the preview PNG for boardID and whether it is
// board-specific. The second return drives cache headers: fallback images
// are immutable, board images are short-lived.
func (s *PreviewService) Image(ctx context.Context, boardID string) ([]byte, bool) {
	if boardID == "" {
		return s.fallback(), false
	}

	board, err := s.boards.FindByID(ctx, boardID)
	if err != nil {
		// Absence is routine (stale links after deletion); anything else is
		// worth a log line but still degrades.
		if !errors.Is(err, domain.ErrBoardNotFound) {
			s.logger.Warn().Err(err).Str("board_id", boardID).Msg("preview board lookup failed")
		}
		return s.fallback(), false
	}

	key := previewCacheKey(board)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		metrics.PreviewCacheTotal.WithLabelValues("hit").Inc()
		return cached, true
	}
	metrics.PreviewCacheTotal.WithLabelValues("miss").Inc()

	png, err := s.renderBoard(board)
	if err != nil {
		s.logger.Error().Err(err).Str("board_id", boardID).Msg("preview render failed")
		return s.fallback(), false
	}

	if err := s.cache.Set(ctx, key, png, cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("board_id", boardID).Msg("preview cache write failed")
	}
	return png, true
}

// Warm renders the board's preview into the cache ahead of demand. Called by
// the render queue workers after every board write.
func (s *PreviewService) Warm(ctx context.Context, boardID string) error {
	board, err := s.boards.FindByID(ctx, boardID)
	if err != nil {
		return err
	}

	png, err := s.renderBoard(board)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, previewCacheKey(board), png, cacheTTL)
}

// renderBoard invokes the renderer with panic containment: a rendering bug
// must never take down the request, it degrades to the fallback instead.
func (s *PreviewService) renderBoard(board *domain.Board) (png []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()

	timer := time.Now()
	png, err = s.renderer.RenderBoard(board)
	if err != nil {
		return nil, err
	}
	metrics.PreviewRenderDuration.WithLabelValues("board").Observe(time.Since(timer).Seconds())
	metrics.PreviewRenderedTotal.WithLabelValues("board").Inc()
	return png, nil
}

func (s *PreviewService) fallback() []byte {
	timer := time.Now()
	png, err := s.renderer.RenderFallback()
	if err != nil {
		// The fallback renderer draws fixed content; failure here means the
		// renderer itself is broken. Serve an empty body rather than erroring.
		s.logger.Error().Err(err).Msg("fallback render failed")
		return nil
	}
	metrics.PreviewRenderDuration.WithLabelValues("fallback").Observe(time.Since(timer).Seconds())
	metrics.PreviewRenderedTotal.WithLabelValues("fallback").Inc()
	return png
}

func previewCacheKey(b *domain.Board) string {
	return fmt.Sprintf("og:board:%s:%d", b.ID, b.UpdatedAt.Unix())
}
