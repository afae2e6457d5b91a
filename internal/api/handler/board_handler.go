package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
)

// BoardHandler handles HTTP requests for board operations.
type BoardHandler struct {
	boards ports.BoardService
	users  ports.UserService
}

func NewBoardHandler(boards ports.BoardService, users ports.UserService) *BoardHandler {
	return &BoardHandler{boards: boards, users: users}
}

// Get handles GET /v1/boards/:id. The board detail page is public.
//
// @Summary      Get a board by id
// @Tags         boards
// @Produce      json
// @Param        id   path      string  true  "Board id"
// @Success      200  {object}  boardDetailResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /v1/boards/{id} [get]
func (h *BoardHandler) Get(c echo.Context) error {
	detail, err := h.boards.GetBoard(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBoardDetailResponse(detail))
}

// Create handles POST /v1/boards.
//
// @Summary      Create a board
// @Tags         boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveBoardRequest  true  "Board contents (exactly 21 items)"
// @Success      201   {object}  boardResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/boards [post]
func (h *BoardHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req saveBoardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	board, err := h.boards.CreateBoard(c.Request().Context(), ports.SaveBoardInput{
		UserID:               userID,
		Title:                req.Title,
		Items:                toItems(req.Items),
		StyleBackgroundColor: req.StyleBackgroundColor,
		StyleTextColor:       req.StyleTextColor,
		BackgroundImageURL:   req.BackgroundImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toBoardResponse(board))
}

// Update handles PATCH /v1/boards/:id. Only the owner may update, and only
// the fields present in the payload change.
//
// @Summary      Update a board
// @Tags         boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Board id"
// @Param        body  body      updateBoardRequest  true  "Fields to change"
// @Success      200   {object}  boardResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/boards/{id} [patch]
func (h *BoardHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateBoardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := ports.UpdateBoardInput{
		ActorID:              userID,
		Title:                req.Title,
		StyleBackgroundColor: req.StyleBackgroundColor,
		StyleTextColor:       req.StyleTextColor,
		BackgroundImageURL:   req.BackgroundImageURL,
	}
	if req.Items != nil {
		items := toItems(*req.Items)
		input.Items = &items
	}

	board, err := h.boards.UpdateBoard(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBoardResponse(board))
}

// Delete handles DELETE /v1/boards/:id.
//
// @Summary      Delete a board
// @Tags         boards
// @Security     BearerAuth
// @Param        id  path  string  true  "Board id"
// @Success      204  "deleted"
// @Failure      403  {object}  map[string]string
// @Router       /v1/boards/{id} [delete]
func (h *BoardHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.boards.DeleteBoard(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/me/boards, newest first.
//
// @Summary      List the caller's boards
// @Tags         boards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   boardResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/me/boards [get]
func (h *BoardHandler) ListMine(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	boards, err := h.boards.ListBoardsByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBoardListResponse(boards))
}

// ListByUsername handles GET /v1/users/:username/boards, the public profile
// page listing.
//
// @Summary      List a user's boards by username
// @Tags         boards
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {array}   boardResponse
// @Failure      404       {object}  map[string]string
// @Router       /v1/users/{username}/boards [get]
func (h *BoardHandler) ListByUsername(c echo.Context) error {
	user, err := h.users.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	boards, err := h.boards.ListBoardsByUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBoardListResponse(boards))
}

// Share handles GET /v1/boards/:id/share.
//
// @Summary      Build share links for a board
// @Tags         boards
// @Produce      json
// @Param        id   path      string  true  "Board id"
// @Success      200  {object}  shareResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/boards/{id}/share [get]
func (h *BoardHandler) Share(c echo.Context) error {
	link, err := h.boards.ShareBoard(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, shareResponse{
		URL:       link.URL,
		Text:      link.Text,
		IntentURL: link.IntentURL,
		ImageURL:  link.ImageURL,
	})
}

// Events handles GET /v1/boards/:id/events as a server-sent event stream.
// The current state is sent immediately, then every change as it lands.
// A deletion is sent as a "deleted" event and the stream keeps running so
// the client decides when to disconnect.
//
// @Summary      Stream board changes
// @Tags         boards
// @Produce      text/event-stream
// @Param        id  path  string  true  "Board id"
// @Success      200  "event stream"
// @Router       /v1/boards/{id}/events [get]
func (h *BoardHandler) Events(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ctx := c.Request().Context()

	// The watcher callback runs on the stream goroutine; writes stay on the
	// handler goroutine via this channel. A full buffer drops intermediate
	// states, the next delivery carries the latest one anyway.
	updates := make(chan *domain.Board, 8)
	stop, err := h.boards.WatchBoard(ctx, c.Param("id"), func(b *domain.Board) {
		select {
		case updates <- b:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case b := <-updates:
			if b == nil {
				fmt.Fprint(res, "event: deleted\ndata: {}\n\n")
				res.Flush()
				continue
			}
			payload, err := json.Marshal(toBoardResponse(b))
			if err != nil {
				continue
			}
			fmt.Fprintf(res, "event: board\ndata: %s\n\n", payload)
			res.Flush()
		}
	}
}

// EventsByUsername handles GET /v1/users/:username/boards/events as a
// server-sent event stream of the user's board list. The list arrives as
// "boards" events; the owner profile arrives as "owner" events so the public
// list page stays current when the profile changes. An owner event with a
// null body means the profile vanished mid-stream; the list keeps flowing.
//
// @Summary      Stream a user's board list
// @Tags         boards
// @Produce      text/event-stream
// @Param        username  path  string  true  "Username"
// @Success      200  "event stream"
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{username}/boards/events [get]
func (h *BoardHandler) EventsByUsername(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.users.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	lists := make(chan []*domain.Board, 8)
	stopBoards, err := h.boards.WatchBoards(ctx, user.ID, func(boards []*domain.Board) {
		select {
		case lists <- boards:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer stopBoards()

	owners := make(chan *domain.User, 8)
	stopOwner, err := h.users.WatchUser(ctx, user.ID, func(u *domain.User) {
		select {
		case owners <- u:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer stopOwner()

	for {
		select {
		case <-ctx.Done():
			return nil
		case boards := <-lists:
			payload, err := json.Marshal(toBoardListResponse(boards))
			if err != nil {
				continue
			}
			fmt.Fprintf(res, "event: boards\ndata: %s\n\n", payload)
			res.Flush()
		case u := <-owners:
			payload, err := json.Marshal(toOwnerResponse(u))
			if err != nil {
				continue
			}
			fmt.Fprintf(res, "event: owner\ndata: %s\n\n", payload)
			res.Flush()
		}
	}
}
