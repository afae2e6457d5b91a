package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
)

// DraftHandler exposes the board editing workflow. Every route requires a
// session and operates on the caller's own drafts.
type DraftHandler struct {
	drafts ports.DraftService
}

func NewDraftHandler(drafts ports.DraftService) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

type startDraftRequest struct {
	// BoardID loads an existing board into the editor; empty starts fresh.
	BoardID string `json:"board_id"`
}

type setTitleRequest struct {
	Title string `json:"title" validate:"required"`
}

type setItemRequest struct {
	Index int     `json:"index" validate:"min=0,max=20"`
	Label *string `json:"label"`
	Value *string `json:"value"`
}

type setStyleRequest struct {
	StyleBackgroundColor *string `json:"style_background_color" validate:"omitempty,hexcolor"`
	StyleTextColor       *string `json:"style_text_color"       validate:"omitempty,hexcolor"`
	BackgroundImageURL   *string `json:"background_image_url"   validate:"omitempty,url"`
}

type applyTemplateRequest struct {
	TemplateID string `json:"template_id" validate:"required"`
}

type draftResponse struct {
	Draft *domain.BoardDraft `json:"draft"`
}

type chooseTemplateResponse struct {
	Draft     *domain.BoardDraft `json:"draft"`
	Templates []templateResponse `json:"templates"`
}

// Start handles POST /v1/drafts.
//
// @Summary      Start an editing session
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      startDraftRequest  true  "Optional board to edit"
// @Success      201   {object}  draftResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/drafts [post]
func (h *DraftHandler) Start(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req startDraftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	draft, err := h.drafts.Start(c.Request().Context(), userID, req.BoardID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, draftResponse{Draft: draft})
}

// Get handles GET /v1/drafts/:id.
//
// @Summary      Get an editing session
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Draft id"
// @Success      200  {object}  draftResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/drafts/{id} [get]
func (h *DraftHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	draft, err := h.drafts.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: draft})
}

// ChooseTemplate handles POST /v1/drafts/:id/template. It moves the draft to
// the template step and returns the official templates for the picker.
//
// @Summary      Open the template picker
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Draft id"
// @Success      200  {object}  chooseTemplateResponse
// @Failure      422  {object}  map[string]string
// @Router       /v1/drafts/{id}/template [post]
func (h *DraftHandler) ChooseTemplate(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	draft, templates, err := h.drafts.ChooseTemplate(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	out := make([]templateResponse, len(templates))
	for i, t := range templates {
		out[i] = toTemplateResponse(t)
	}
	return c.JSON(http.StatusOK, chooseTemplateResponse{Draft: draft, Templates: out})
}

// ApplyTemplate handles POST /v1/drafts/:id/template/apply.
//
// @Summary      Apply a template to the draft
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Draft id"
// @Param        body  body      applyTemplateRequest  true  "Template to apply"
// @Success      200   {object}  draftResponse
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/drafts/{id}/template/apply [post]
func (h *DraftHandler) ApplyTemplate(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req applyTemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	draft, err := h.drafts.ApplyTemplate(c.Request().Context(), c.Param("id"), userID, req.TemplateID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: draft})
}

// StartBlank handles POST /v1/drafts/:id/blank, skipping the template step.
//
// @Summary      Start editing from a blank board
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Draft id"
// @Success      200  {object}  draftResponse
// @Failure      422  {object}  map[string]string
// @Router       /v1/drafts/{id}/blank [post]
func (h *DraftHandler) StartBlank(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	draft, err := h.drafts.StartBlank(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: draft})
}

// SetTitle handles PUT /v1/drafts/:id/title.
//
// @Summary      Set the draft title
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Draft id"
// @Param        body  body      setTitleRequest  true  "New title"
// @Success      200   {object}  draftResponse
// @Failure      422   {object}  map[string]string
// @Router       /v1/drafts/{id}/title [put]
func (h *DraftHandler) SetTitle(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req setTitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	draft, err := h.drafts.SetTitle(c.Request().Context(), c.Param("id"), userID, req.Title)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: draft})
}

// SetItem handles PUT /v1/drafts/:id/items. Label and value change
// independently; an absent field keeps its current content.
//
// @Summary      Edit one item of the draft
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Draft id"
// @Param        body  body      setItemRequest  true  "Item position and fields to change"
// @Success      200   {object}  draftResponse
// @Failure      422   {object}  map[string]string
// @Router       /v1/drafts/{id}/items [put]
func (h *DraftHandler) SetItem(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req setItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	draft, err := h.drafts.SetItem(c.Request().Context(), c.Param("id"), userID, req.Index, req.Label, req.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: draft})
}

// SetStyle handles PUT /v1/drafts/:id/style.
//
// @Summary      Customize draft colors and background
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Draft id"
// @Param        body  body      setStyleRequest  true  "Style fields to change"
// @Success      200   {object}  draftResponse
// @Failure      422   {object}  map[string]string
// @Router       /v1/drafts/{id}/style [put]
func (h *DraftHandler) SetStyle(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req setStyleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	draft, err := h.drafts.SetStyle(c.Request().Context(), c.Param("id"), userID, ports.StyleInput{
		StyleBackgroundColor: req.StyleBackgroundColor,
		StyleTextColor:       req.StyleTextColor,
		BackgroundImageURL:   req.BackgroundImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: draft})
}

// Back handles POST /v1/drafts/:id/back. In-progress edits are discarded
// without confirmation and the draft returns to the start screen.
//
// @Summary      Return to the start screen
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Draft id"
// @Success      200  {object}  draftResponse
// @Failure      422  {object}  map[string]string
// @Router       /v1/drafts/{id}/back [post]
func (h *DraftHandler) Back(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	draft, err := h.drafts.Back(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draftResponse{Draft: draft})
}

// Save handles POST /v1/drafts/:id/save. The draft becomes a board (created
// or updated) and the editing session is disposed of.
//
// @Summary      Save the draft as a board
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Draft id"
// @Success      200  {object}  boardResponse
// @Failure      422  {object}  map[string]string
// @Router       /v1/drafts/{id}/save [post]
func (h *DraftHandler) Save(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	board, err := h.drafts.Save(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBoardResponse(board))
}
