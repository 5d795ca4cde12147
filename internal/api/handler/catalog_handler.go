package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/librarydesk/librarydesk/internal/api/metrics"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

// CatalogHandler exposes the session and dashboard reads as JSON for bearer
// clients. Unlike the pages, failures surface as error responses.
type CatalogHandler struct {
	dashboard ports.DashboardService
	sink      ports.ErrorSink
}

func NewCatalogHandler(dashboard ports.DashboardService, sink ports.ErrorSink) *CatalogHandler {
	return &CatalogHandler{dashboard: dashboard, sink: sink}
}

// Session returns the state of the caller's session.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/session [get]
func (h *CatalogHandler) Session(c echo.Context) error {
	store, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(store.State()))
}

// Profile returns the profile row of the signed-in identity.
//
// @Summary      Own profile
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/v1/profile [get]
func (h *CatalogHandler) Profile(c echo.Context) error {
	_, identity, err := ctxSession(c)
	if err != nil {
		return err
	}

	panel := h.dashboard.ProfilePanel(c.Request().Context(), identity, h.sink)
	if panel.Failure != nil {
		status, msg := failureStatus(panel.Failure)
		return c.JSON(status, errorResponse{Error: msg})
	}
	return c.JSON(http.StatusOK, profileResponse{Profile: panel.Profile})
}

// Books returns every book in storage order.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  booksResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/v1/books [get]
func (h *CatalogHandler) Books(c echo.Context) error {
	panel := h.dashboard.BookList(c.Request().Context(), h.sink)
	if panel.Failure != nil {
		status, msg := failureStatus(panel.Failure)
		return c.JSON(status, errorResponse{Error: msg})
	}
	metrics.BooksListed.Observe(float64(len(panel.Books)))
	return c.JSON(http.StatusOK, booksResponse{Books: panel.Books, Count: len(panel.Books)})
}

// Users returns every profile row. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/v1/users [get]
func (h *CatalogHandler) Users(c echo.Context) error {
	panel := h.dashboard.Members(c.Request().Context(), h.sink)
	if panel.Failure != nil {
		status, msg := failureStatus(panel.Failure)
		return c.JSON(status, errorResponse{Error: msg})
	}
	return c.JSON(http.StatusOK, usersResponse{Users: panel.Members, Count: len(panel.Members)})
}
