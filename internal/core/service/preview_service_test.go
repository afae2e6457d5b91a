package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/curationlink/board-api/internal/core/domain"
)

// stubRenderer produces recognizable marker bytes instead of real PNGs.
type stubRenderer struct {
	renders  int
	boardErr error
	panics   bool
}

func (r *stubRenderer) RenderBoard(b *domain.Board) ([]byte, error) {
	if r.panics {
		panic("font face corrupted")
	}
	if r.boardErr != nil {
		return nil, r.boardErr
	}
	r.renders++
	return []byte("board:" + b.ID), nil
}

func (r *stubRenderer) RenderFallback() ([]byte, error) {
	return []byte("fallback"), nil
}

type stubImageCache struct {
	data   map[string][]byte
	getErr error
}

func newStubImageCache() *stubImageCache {
	return &stubImageCache{data: make(map[string][]byte)}
}

func (c *stubImageCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.data[key], nil
}

func (c *stubImageCache) Set(_ context.Context, key string, png []byte, _ time.Duration) error {
	c.data[key] = png
	return nil
}

func seedBoard(t *testing.T, repo *stubBoardRepo, id string) *domain.Board {
	t.Helper()
	board := &domain.Board{
		Title:     "preview",
		Items:     make([]domain.BoardItem, domain.ItemCount),
		UserID:    "user_1",
		UpdatedAt: time.Now().UTC(),
	}
	repo.byID[id] = board
	board.ID = id
	return board
}

func TestPreviewService_Image_BoardSpecific(t *testing.T) {
	repo := newStubBoardRepo()
	seedBoard(t, repo, "board_1")
	svc := NewPreviewService(repo, &stubRenderer{}, newStubImageCache(), discardLogger)

	png, boardSpecific := svc.Image(context.Background(), "board_1")
	if !boardSpecific {
		t.Error("expected a board-specific image")
	}
	if !bytes.Equal(png, []byte("board:board_1")) {
		t.Errorf("wrong bytes: %q", png)
	}
}

func TestPreviewService_Image_MissingBoardFallsBack(t *testing.T) {
	svc := NewPreviewService(newStubBoardRepo(), &stubRenderer{}, newStubImageCache(), discardLogger)

	png, boardSpecific := svc.Image(context.Background(), "missing")
	if boardSpecific {
		t.Error("fallback must not be reported board-specific")
	}
	if !bytes.Equal(png, []byte("fallback")) {
		t.Errorf("wrong bytes: %q", png)
	}
}

func TestPreviewService_Image_EmptyIDFallsBack(t *testing.T) {
	svc := NewPreviewService(newStubBoardRepo(), &stubRenderer{}, newStubImageCache(), discardLogger)

	if _, boardSpecific := svc.Image(context.Background(), ""); boardSpecific {
		t.Error("empty id must serve the fallback")
	}
}

func TestPreviewService_Image_SecondReadHitsCache(t *testing.T) {
	repo := newStubBoardRepo()
	seedBoard(t, repo, "board_1")
	renderer := &stubRenderer{}
	svc := NewPreviewService(repo, renderer, newStubImageCache(), discardLogger)

	svc.Image(context.Background(), "board_1")
	svc.Image(context.Background(), "board_1")

	if renderer.renders != 1 {
		t.Errorf("expected a single render, got %d", renderer.renders)
	}
}

func TestPreviewService_Image_UpdateInvalidatesCacheKey(t *testing.T) {
	repo := newStubBoardRepo()
	board := seedBoard(t, repo, "board_1")
	renderer := &stubRenderer{}
	svc := NewPreviewService(repo, renderer, newStubImageCache(), discardLogger)

	svc.Image(context.Background(), "board_1")

	// A board write moves updated_at, which moves the cache key.
	repo.mu.Lock()
	board.UpdatedAt = board.UpdatedAt.Add(time.Minute)
	repo.mu.Unlock()

	svc.Image(context.Background(), "board_1")
	if renderer.renders != 2 {
		t.Errorf("expected a re-render after update, got %d", renderer.renders)
	}
}

func TestPreviewService_Image_RenderErrorFallsBack(t *testing.T) {
	repo := newStubBoardRepo()
	seedBoard(t, repo, "board_1")
	renderer := &stubRenderer{boardErr: errors.New("encode failed")}
	svc := NewPreviewService(repo, renderer, newStubImageCache(), discardLogger)

	png, boardSpecific := svc.Image(context.Background(), "board_1")
	if boardSpecific {
		t.Error("render failure must degrade to the fallback")
	}
	if !bytes.Equal(png, []byte("fallback")) {
		t.Errorf("wrong bytes: %q", png)
	}
}

func TestPreviewService_Image_RenderPanicContained(t *testing.T) {
	repo := newStubBoardRepo()
	seedBoard(t, repo, "board_1")
	svc := NewPreviewService(repo, &stubRenderer{panics: true}, newStubImageCache(), discardLogger)

	png, boardSpecific := svc.Image(context.Background(), "board_1")
	if boardSpecific {
		t.Error("a render panic must degrade to the fallback")
	}
	if !bytes.Equal(png, []byte("fallback")) {
		t.Errorf("wrong bytes: %q", png)
	}
}

func TestPreviewService_Warm_PopulatesCache(t *testing.T) {
	repo := newStubBoardRepo()
	board := seedBoard(t, repo, "board_1")
	cache := newStubImageCache()
	renderer := &stubRenderer{}
	svc := NewPreviewService(repo, renderer, cache, discardLogger)

	if err := svc.Warm(context.Background(), "board_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := fmt.Sprintf("og:board:%s:%d", board.ID, board.UpdatedAt.Unix())
	if _, ok := cache.data[key]; !ok {
		t.Errorf("cache not populated under %q, keys: %v", key, cache.data)
	}

	// A subsequent read is served from the cache.
	svc.Image(context.Background(), "board_1")
	if renderer.renders != 1 {
		t.Errorf("expected no re-render after warm, got %d", renderer.renders)
	}
}

func TestPreviewService_Warm_MissingBoardErrors(t *testing.T) {
	svc := NewPreviewService(newStubBoardRepo(), &stubRenderer{}, newStubImageCache(), discardLogger)

	if err := svc.Warm(context.Background(), "missing"); !errors.Is(err, domain.ErrBoardNotFound) {
		t.Errorf("expected ErrBoardNotFound, got %v", err)
	}
}
