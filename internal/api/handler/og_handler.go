package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curationlink/board-api/internal/core/ports"
)

// Cache lifetimes differ on purpose: the fallback never changes, a board
// image changes whenever its board does.
const (
	cacheControlFallback = "public, max-age=31536000, immutable"
	cacheControlBoard    = "public, max-age=3600, s-maxage=3600"
)

// OGHandler serves social preview images. It always answers 200 with a PNG;
// link unfurlers treat error statuses as "no image".
type OGHandler struct {
	preview ports.PreviewService
}

func NewOGHandler(preview ports.PreviewService) *OGHandler {
	return &OGHandler{preview: preview}
}

// BoardImage handles GET /api/og/board/:id.
//
// @Summary      Social preview image for a board
// @Tags         og
// @Produce      png
// @Param        id   path  string  true  "Board id"
// @Success      200  {file}  binary
// @Router       /api/og/board/{id} [get]
func (h *OGHandler) BoardImage(c echo.Context) error {
	png, boardSpecific := h.preview.Image(c.Request().Context(), c.Param("id"))

	cacheControl := cacheControlFallback
	if boardSpecific {
		cacheControl = cacheControlBoard
	}
	c.Response().Header().Set("Cache-Control", cacheControl)
	return c.Blob(http.StatusOK, "image/png", png)
}
