package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
)

// stubBoardService routes each call to an optional function field, so tests
// only wire the operations they exercise.
type stubBoardService struct {
	createFn     func(ctx context.Context, input ports.SaveBoardInput) (*domain.Board, error)
	getFn        func(ctx context.Context, id string) (*ports.BoardDetail, error)
	updateFn     func(ctx context.Context, id string, input ports.UpdateBoardInput) (*domain.Board, error)
	deleteFn     func(ctx context.Context, id, actorID string) error
	watchListsFn func(ctx context.Context, userID string, fn func([]*domain.Board)) (func(), error)
}

func (s *stubBoardService) CreateBoard(ctx context.Context, input ports.SaveBoardInput) (*domain.Board, error) {
	return s.createFn(ctx, input)
}

func (s *stubBoardService) GetBoard(ctx context.Context, id string) (*ports.BoardDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubBoardService) ListBoardsByUser(context.Context, string) ([]*domain.Board, error) {
	return nil, nil
}

func (s *stubBoardService) UpdateBoard(ctx context.Context, id string, input ports.UpdateBoardInput) (*domain.Board, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubBoardService) DeleteBoard(ctx context.Context, id, actorID string) error {
	return s.deleteFn(ctx, id, actorID)
}

func (s *stubBoardService) ShareBoard(context.Context, string) (*ports.ShareLink, error) {
	return nil, nil
}

func (s *stubBoardService) WatchBoard(context.Context, string, func(*domain.Board)) (func(), error) {
	return func() {}, nil
}

func (s *stubBoardService) WatchBoards(ctx context.Context, userID string, fn func([]*domain.Board)) (func(), error) {
	if s.watchListsFn != nil {
		return s.watchListsFn(ctx, userID, fn)
	}
	return func() {}, nil
}

type stubUserService struct {
	byUsername map[string]*domain.User
}

func (s *stubUserService) EnsureUser(context.Context, string, string) (*domain.User, bool, error) {
	return nil, false, nil
}

func (s *stubUserService) GetUser(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := s.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserService) UpdateProfile(context.Context, string, ports.ProfileInput) (*domain.User, error) {
	return nil, nil
}

func (s *stubUserService) WatchUser(_ context.Context, id string, fn func(*domain.User)) (func(), error) {
	for _, u := range s.byUsername {
		if u.ID == id {
			fn(u)
			break
		}
	}
	return func() {}, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func saveBoardBody() string {
	items := make([]string, domain.ItemCount)
	for i := range items {
		items[i] = fmt.Sprintf(`{"label":"l%d","value":"v%d"}`, i, i)
	}
	return fmt.Sprintf(`{"title":"推しボード","items":[%s]}`, strings.Join(items, ","))
}

func TestBoardHandler_Get_Success(t *testing.T) {
	e := newEcho()
	stub := &stubBoardService{
		getFn: func(_ context.Context, id string) (*ports.BoardDetail, error) {
			return &ports.BoardDetail{
				Board: &domain.Board{ID: id, Title: "公開ボード", UserID: "user_1", Items: domain.NewBlankItems()},
				Owner: &domain.User{ID: "user_1", Username: "oshi_fan_01", DisplayName: "推し活"},
			}, nil
		},
	}
	h := NewBoardHandler(stub, &stubUserService{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("board_1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["title"] != "公開ボード" {
		t.Errorf("unexpected payload: %+v", resp)
	}
	owner, ok := resp["owner"].(map[string]any)
	if !ok || owner["username"] != "oshi_fan_01" {
		t.Errorf("owner missing or wrong: %+v", resp["owner"])
	}
}

func TestBoardHandler_Get_NilOwnerRendersNull(t *testing.T) {
	e := newEcho()
	stub := &stubBoardService{
		getFn: func(_ context.Context, id string) (*ports.BoardDetail, error) {
			return &ports.BoardDetail{
				Board: &domain.Board{ID: id, Title: "孤児", Items: domain.NewBlankItems()},
			}, nil
		},
	}
	h := NewBoardHandler(stub, &stubUserService{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("board_1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if owner, present := resp["owner"]; !present || owner != nil {
		t.Errorf("expected explicit null owner, got %v (present=%v)", owner, present)
	}
}

func TestBoardHandler_Create_Success(t *testing.T) {
	e := newEcho()
	stub := &stubBoardService{
		createFn: func(_ context.Context, input ports.SaveBoardInput) (*domain.Board, error) {
			if input.UserID != "user_1" {
				t.Fatalf("owner not taken from session: %q", input.UserID)
			}
			if len(input.Items) != domain.ItemCount {
				t.Fatalf("expected %d items, got %d", domain.ItemCount, len(input.Items))
			}
			return &domain.Board{ID: "board_1", Title: input.Title, Items: input.Items, UserID: input.UserID}, nil
		},
	}
	h := NewBoardHandler(stub, &stubUserService{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(saveBoardBody()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_1")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestBoardHandler_Create_RejectsWrongItemCount(t *testing.T) {
	e := newEcho()
	h := NewBoardHandler(&stubBoardService{}, &stubUserService{})

	body := `{"title":"short","items":[{"label":"a","value":"b"}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_1")

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 validation error, got %v", err)
	}
}

func TestBoardHandler_Create_Unauthenticated(t *testing.T) {
	e := newEcho()
	h := NewBoardHandler(&stubBoardService{}, &stubUserService{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(saveBoardBody()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestBoardHandler_Update_PropagatesForbidden(t *testing.T) {
	e := newEcho()
	stub := &stubBoardService{
		updateFn: func(context.Context, string, ports.UpdateBoardInput) (*domain.Board, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewBoardHandler(stub, &stubUserService{})

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"title":"new"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("user_id", "user_2")
	c.SetParamNames("id")
	c.SetParamValues("board_1")

	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden to propagate, got %v", err)
	}
}

func TestBoardHandler_Delete_Success(t *testing.T) {
	e := newEcho()
	stub := &stubBoardService{
		deleteFn: func(_ context.Context, id, actorID string) error {
			if id != "board_1" || actorID != "user_1" {
				t.Fatalf("wrong args: %s %s", id, actorID)
			}
			return nil
		},
	}
	h := NewBoardHandler(stub, &stubUserService{})

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_1")
	c.SetParamNames("id")
	c.SetParamValues("board_1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestBoardHandler_ListByUsername_UnknownUser(t *testing.T) {
	e := newEcho()
	h := NewBoardHandler(&stubBoardService{}, &stubUserService{byUsername: map[string]*domain.User{}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("username")
	c.SetParamValues("nobody_here")

	if err := h.ListByUsername(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound to propagate, got %v", err)
	}
}

func TestBoardHandler_EventsByUsername_StreamsListAndOwner(t *testing.T) {
	e := newEcho()
	owner := &domain.User{ID: "user_1", DisplayName: "Alice", Username: "alice_underscore"}
	stub := &stubBoardService{
		watchListsFn: func(_ context.Context, userID string, fn func([]*domain.Board)) (func(), error) {
			if userID != "user_1" {
				t.Fatalf("expected resolved owner id, got %q", userID)
			}
			fn([]*domain.Board{{ID: "board_1", Title: "live list", UserID: userID}})
			return func() {}, nil
		},
	}
	h := NewBoardHandler(stub, &stubUserService{byUsername: map[string]*domain.User{
		"alice_underscore": owner,
	}})

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(100*time.Millisecond, cancel)
	defer timer.Stop()

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("username")
	c.SetParamValues("alice_underscore")

	if err := h.EventsByUsername(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "event: boards") || !strings.Contains(body, "live list") {
		t.Fatalf("expected a boards event with the list, got %q", body)
	}
	if !strings.Contains(body, "event: owner") || !strings.Contains(body, "Alice") {
		t.Fatalf("expected an owner event with the profile, got %q", body)
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %q", got)
	}
}

func TestBoardHandler_EventsByUsername_UnknownUser(t *testing.T) {
	e := newEcho()
	h := NewBoardHandler(&stubBoardService{}, &stubUserService{byUsername: map[string]*domain.User{}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("username")
	c.SetParamValues("nobody_here")

	if err := h.EventsByUsername(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound to propagate, got %v", err)
	}
}
