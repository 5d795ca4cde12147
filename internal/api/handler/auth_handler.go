package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/librarydesk/librarydesk/internal/api/metrics"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

// AuthHandler serves the JSON authentication endpoints. Every request works
// on its own session opened from the factory.
type AuthHandler struct {
	sessions ports.SessionFactory
}

func NewAuthHandler(sessions ports.SessionFactory) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Register creates an identity and its member profile.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	store := h.sessions.Open("")
	err := store.SignUp(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	metrics.ObserveAuth("sign_up", err)
	if err != nil {
		status, msg := failureStatus(err)
		return c.JSON(status, errorResponse{Error: msg})
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "account created"})
}

// Login authenticates with email and password and returns the access token
// together with the signed-in user.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	ctx := c.Request().Context()
	store := h.sessions.Open("")
	err := store.SignIn(ctx, req.Email, req.Password)
	metrics.ObserveAuth("sign_in", err)
	if err != nil {
		status, msg := failureStatus(err)
		return c.JSON(status, errorResponse{Error: msg})
	}

	st := store.LoadCurrentUser(ctx)
	metrics.ObserveSession(st)
	return c.JSON(http.StatusOK, authResponse{
		Token:   store.Token(),
		User:    st.Identity,
		Profile: st.Profile,
	})
}

// Logout revokes the bearer token.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	store, _, err := ctxSession(c)
	if err != nil {
		return err
	}

	err = store.SignOut(c.Request().Context())
	metrics.ObserveAuth("sign_out", err)
	if err != nil {
		status, msg := failureStatus(err)
		return c.JSON(status, errorResponse{Error: msg})
	}
	return c.NoContent(http.StatusNoContent)
}
