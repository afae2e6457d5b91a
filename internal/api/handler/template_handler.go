package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
)

// TemplateHandler handles HTTP requests for board templates.
type TemplateHandler struct {
	templates ports.TemplateService
}

func NewTemplateHandler(templates ports.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// createTemplateRequest carries a new template. Every label must be present
// and non-blank; labels are what a template contributes, values stay empty
// until a board is edited.
type createTemplateRequest struct {
	Title      string   `json:"title"       validate:"required"`
	ItemLabels []string `json:"item_labels" validate:"len=21,dive,notblank"`
	Type       string   `json:"type"        validate:"omitempty,oneof=official custom"`
}

type templateResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	ItemLabels []string  `json:"item_labels"`
	Type       string    `json:"type"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toTemplateResponse(t *domain.Template) templateResponse {
	return templateResponse{
		ID:         t.ID,
		Title:      t.Title,
		ItemLabels: t.ItemLabels,
		Type:       string(t.Type),
		CreatedBy:  t.CreatedBy,
		CreatedAt:  t.CreatedAt.UTC(),
	}
}

// ListOfficial handles GET /v1/templates, the public template picker.
//
// @Summary      List official templates
// @Tags         templates
// @Produce      json
// @Success      200  {array}  templateResponse
// @Router       /v1/templates [get]
func (h *TemplateHandler) ListOfficial(c echo.Context) error {
	templates, err := h.templates.ListOfficialTemplates(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]templateResponse, len(templates))
	for i, t := range templates {
		out[i] = toTemplateResponse(t)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/templates/:id.
//
// @Summary      Get a template by id
// @Tags         templates
// @Produce      json
// @Param        id   path      string  true  "Template id"
// @Success      200  {object}  templateResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/templates/{id} [get]
func (h *TemplateHandler) Get(c echo.Context) error {
	template, err := h.templates.GetTemplate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTemplateResponse(template))
}

// Create handles POST /v1/templates. Official templates require the admin
// role; everyone else creates custom ones.
//
// @Summary      Create a template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTemplateRequest  true  "Template (21 non-blank labels)"
// @Success      201   {object}  templateResponse
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/templates [post]
func (h *TemplateHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	template, err := h.templates.CreateTemplate(c.Request().Context(), ports.CreateTemplateInput{
		Title:      req.Title,
		ItemLabels: req.ItemLabels,
		Type:       domain.TemplateType(req.Type),
		CreatedBy:  userID,
		ActorRole:  ctxRole(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTemplateResponse(template))
}

// Delete handles DELETE /v1/templates/:id. Official seed templates have no
// creator and cannot be deleted this way.
//
// @Summary      Delete a template
// @Tags         templates
// @Security     BearerAuth
// @Param        id  path  string  true  "Template id"
// @Success      204  "deleted"
// @Failure      403  {object}  map[string]string
// @Router       /v1/templates/{id} [delete]
func (h *TemplateHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.templates.DeleteTemplate(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
