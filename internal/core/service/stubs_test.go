package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/curationlink/board-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubBoardRepo struct {
	mu          sync.Mutex
	byID        map[string]*domain.Board
	nextID      int
	watches     map[string][]func(*domain.Board)   // board id → subscribers
	listWatches map[string][]func([]*domain.Board) // user id → list subscribers

	createErr error // if set, Create returns this error
	findErr   error // if set, FindByID returns this error
}

func newStubBoardRepo() *stubBoardRepo {
	return &stubBoardRepo{
		byID:        make(map[string]*domain.Board),
		watches:     make(map[string][]func(*domain.Board)),
		listWatches: make(map[string][]func([]*domain.Board)),
	}
}

// boardsOfLocked builds the user's sorted list; callers hold r.mu.
func (r *stubBoardRepo) boardsOfLocked(userID string) []*domain.Board {
	var out []*domain.Board
	for _, b := range r.byID {
		if b.UserID == userID {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func (r *stubBoardRepo) notifyListLocked(userID string) {
	for _, fn := range r.listWatches[userID] {
		fn(r.boardsOfLocked(userID))
	}
}

func (r *stubBoardRepo) Create(_ context.Context, b *domain.Board) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := fmt.Sprintf("board_%d", r.nextID)
	clone := *b
	clone.ID = id
	r.byID[id] = &clone
	r.notifyListLocked(clone.UserID)
	return id, nil
}

func (r *stubBoardRepo) FindByID(_ context.Context, id string) (*domain.Board, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBoardNotFound
	}
	clone := *b
	return &clone, nil
}

// ListByUserID sorts by updated_at descending, mirroring the real Mongo query.
func (r *stubBoardRepo) ListByUserID(_ context.Context, userID string) ([]*domain.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.boardsOfLocked(userID), nil
}

func (r *stubBoardRepo) Update(_ context.Context, id string, patch domain.BoardPatch, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return domain.ErrBoardNotFound
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Items != nil {
		b.Items = *patch.Items
	}
	if patch.StyleBackgroundColor != nil {
		b.StyleBackgroundColor = *patch.StyleBackgroundColor
	}
	if patch.StyleTextColor != nil {
		b.StyleTextColor = *patch.StyleTextColor
	}
	if patch.BackgroundImageURL != nil {
		b.BackgroundImageURL = *patch.BackgroundImageURL
	}
	b.UpdatedAt = updatedAt
	for _, fn := range r.watches[id] {
		clone := *b
		fn(&clone)
	}
	r.notifyListLocked(b.UserID)
	return nil
}

func (r *stubBoardRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner := ""
	if b, ok := r.byID[id]; ok {
		owner = b.UserID
	}
	delete(r.byID, id)
	for _, fn := range r.watches[id] {
		fn(nil)
	}
	if owner != "" {
		r.notifyListLocked(owner)
	}
	return nil
}

func (r *stubBoardRepo) WatchByID(_ context.Context, id string, fn func(*domain.Board)) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.byID[id]; ok {
		clone := *b
		fn(&clone)
	} else {
		fn(nil)
	}
	r.watches[id] = append(r.watches[id], fn)
	return func() {}, nil
}

func (r *stubBoardRepo) WatchByUserID(_ context.Context, userID string, fn func([]*domain.Board)) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.boardsOfLocked(userID))
	r.listWatches[userID] = append(r.listWatches[userID], fn)
	return func() {}, nil
}

type stubUserRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.User

	findErr    error // if set, FindByID returns this error
	findMisses int   // while positive, FindByID reports not-found and decrements
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; ok {
		return domain.ErrUserExists
	}
	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return domain.ErrUserExists
		}
	}
	clone := *u
	r.byID[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.findMisses > 0 {
		r.findMisses--
		return nil, domain.ErrUserNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch domain.UserPatch, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if patch.DisplayName != nil {
		u.DisplayName = *patch.DisplayName
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.ProfileImageURL != nil {
		u.ProfileImageURL = *patch.ProfileImageURL
	}
	u.UpdatedAt = updatedAt
	return nil
}

func (r *stubUserRepo) WatchByID(_ context.Context, id string, fn func(*domain.User)) (func(), error) {
	u, err := r.FindByID(context.Background(), id)
	if err != nil {
		fn(nil)
	} else {
		fn(u)
	}
	return func() {}, nil
}

type stubTemplateRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Template
	nextID int
}

func newStubTemplateRepo() *stubTemplateRepo {
	return &stubTemplateRepo{byID: make(map[string]*domain.Template)}
}

func (r *stubTemplateRepo) Create(_ context.Context, t *domain.Template) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := fmt.Sprintf("template_%d", r.nextID)
	clone := *t
	clone.ID = id
	r.byID[id] = &clone
	return id, nil
}

func (r *stubTemplateRepo) FindByID(_ context.Context, id string) (*domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTemplateRepo) ListByType(_ context.Context, tt domain.TemplateType) ([]*domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Template
	for _, t := range r.byID {
		if t.Type == tt {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubTemplateRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

// stubRenderQueue records every enqueued board for assertion.
type stubRenderQueue struct {
	mu       sync.Mutex
	enqueued []string
}

func (q *stubRenderQueue) Enqueue(boardID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueued = append(q.enqueued, boardID)
}

func (q *stubRenderQueue) ids() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.enqueued...)
}

// stubDraftStore keeps drafts in a map, ignoring expiry.
type stubDraftStore struct {
	mu   sync.Mutex
	byID map[string]*domain.BoardDraft
}

func newStubDraftStore() *stubDraftStore {
	return &stubDraftStore{byID: make(map[string]*domain.BoardDraft)}
}

func (s *stubDraftStore) Put(_ context.Context, d *domain.BoardDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *d
	clone.Items = append([]domain.BoardItem(nil), d.Items...)
	s.byID[d.ID] = &clone
	return nil
}

func (s *stubDraftStore) Get(_ context.Context, id string) (*domain.BoardDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	clone := *d
	clone.Items = append([]domain.BoardItem(nil), d.Items...)
	return &clone, nil
}

func (s *stubDraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func filledItems(prefix string) []domain.BoardItem {
	items := make([]domain.BoardItem, domain.ItemCount)
	for i := range items {
		items[i] = domain.BoardItem{
			Label: fmt.Sprintf("%s label %d", prefix, i+1),
			Value: fmt.Sprintf("%s value %d", prefix, i+1),
		}
	}
	return items
}

func officialLabels() []string {
	labels := make([]string, domain.ItemCount)
	for i := range labels {
		labels[i] = fmt.Sprintf("質問%d", i+1)
	}
	return labels
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
