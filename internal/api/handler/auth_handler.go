package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curationlink/board-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type loginResponse struct {
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
	NewUser bool         `json:"new_user"`
}

// Login exchanges an identity-provider token for a session token,
// provisioning the profile on first login.
//
// @Summary      Login with an identity-provider token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Identity-provider token"
// @Success      200   {object}  loginResponse
// @Success      201   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if session.NewUser {
		status = http.StatusCreated
	}
	return c.JSON(status, loginResponse{
		Token:   session.Token,
		User:    toUserResponse(session.User),
		NewUser: session.NewUser,
	})
}
