package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/librarydesk/librarydesk/internal/api/metrics"
	"github.com/librarydesk/librarydesk/internal/api/view"
	"github.com/librarydesk/librarydesk/internal/core/domain"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

type menuItem struct {
	Label string
	Path  string
}

// sidebar is the fixed navigation of the dashboard shell.
var sidebar = []menuItem{
	{Label: "Books", Path: "/dashboard/books"},
	{Label: "Users", Path: "/dashboard/users"},
	{Label: "Fines", Path: "/dashboard/fines"},
	{Label: "Reports", Path: "/dashboard/reports"},
}

type shellPage struct {
	Title  string
	Active string
	User   *domain.Profile
	Menu   []menuItem
	CSRF   string
	Notice string

	ProfileCard ports.ProfilePanel
	BookList    ports.BookPanel
	Members     ports.MemberPanel
}

// DashboardHandler renders the pages behind the Shell middleware. Read
// failures are reported to the sink and rendered as a notice.
type DashboardHandler struct {
	dashboard ports.DashboardService
	sink      ports.ErrorSink
}

func NewDashboardHandler(dashboard ports.DashboardService, sink ports.ErrorSink) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, sink: sink}
}

// Home redirects the site root to the dashboard.
func (h *DashboardHandler) Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *DashboardHandler) Dashboard(c echo.Context) error {
	page, identity, err := h.page(c, "Dashboard", "/dashboard")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	page.ProfileCard = h.dashboard.ProfilePanel(ctx, identity, h.sink)
	page.BookList = h.dashboard.BookList(ctx, h.sink)
	metrics.BooksListed.Observe(float64(len(page.BookList.Books)))
	return c.Render(http.StatusOK, view.PageDashboard, page)
}

func (h *DashboardHandler) Books(c echo.Context) error {
	page, _, err := h.page(c, "Books", "/dashboard/books")
	if err != nil {
		return err
	}

	page.BookList = h.dashboard.BookList(c.Request().Context(), h.sink)
	metrics.BooksListed.Observe(float64(len(page.BookList.Books)))
	return c.Render(http.StatusOK, view.PageBooks, page)
}

// Users lists every profile. Other roles get the section page with a 403.
func (h *DashboardHandler) Users(c echo.Context) error {
	page, _, err := h.page(c, "Users", "/dashboard/users")
	if err != nil {
		return err
	}
	if page.User == nil || page.User.Role != domain.RoleAdmin {
		page.Notice = "You do not have access to this section."
		return c.Render(http.StatusForbidden, view.PageSection, page)
	}

	page.Members = h.dashboard.Members(c.Request().Context(), h.sink)
	return c.Render(http.StatusOK, view.PageUsers, page)
}

func (h *DashboardHandler) Fines(c echo.Context) error {
	return h.section(c, "Fines", "/dashboard/fines")
}

func (h *DashboardHandler) Reports(c echo.Context) error {
	return h.section(c, "Reports", "/dashboard/reports")
}

func (h *DashboardHandler) section(c echo.Context, title, path string) error {
	page, _, err := h.page(c, title, path)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, view.PageSection, page)
}

func (h *DashboardHandler) page(c echo.Context, title, active string) (shellPage, *domain.Identity, error) {
	store, identity, err := ctxSession(c)
	if err != nil {
		return shellPage{}, nil, err
	}
	return shellPage{
		Title:  title,
		Active: active,
		User:   store.State().Profile,
		Menu:   sidebar,
		CSRF:   csrfToken(c),
	}, identity, nil
}
