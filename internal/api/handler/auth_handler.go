package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskdeck/todo-webapp/internal/api/metrics"
	"github.com/taskdeck/todo-webapp/internal/api/session"
	"github.com/taskdeck/todo-webapp/internal/core/domain"
	"github.com/taskdeck/todo-webapp/internal/core/ports"
)

// AuthHandler serves the login, logout, and registration flows.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type registerForm struct {
	Username     string `form:"username" validate:"required"`
	Password     string `form:"password" validate:"required"`
	Confirmation string `form:"confirmation" validate:"required"`
}

type authPage struct {
	Error   string
	Success string
}

// LoginPage handles GET /login. Visiting the login page always logs out any
// prior identity; pending flash messages are consumed for this render before
// the session is dropped.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	st := session.FromContext(c)
	page := authPage{Error: st.TakeError(), Success: st.TakeSuccess()}
	st.Clear()
	return c.Render(http.StatusOK, "login.html", page)
}

// Login handles POST /login. Every failure branch returns early with a flash
// and a redirect back to the form; the identity is only ever set from a
// verified credential check.
func (h *AuthHandler) Login(c echo.Context) error {
	st := session.FromContext(c)
	st.Clear()

	var form loginForm
	if err := c.Bind(&form); err != nil {
		st.SetError("Invalid form submission")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	if err := c.Validate(&form); err != nil {
		st.SetError(err.Error())
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	user, err := h.authService.Login(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		if msg, ok := flashMessage(err); ok {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			st.SetError(msg)
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	st.Authenticate(user.ID, user.Username)
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	session.FromContext(c).Clear()
	return c.Redirect(http.StatusSeeOther, "/")
}

// RegisterPage handles GET /register, rendering the form with the consumed
// error flash, if any.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", authPage{
		Error: session.FromContext(c).TakeError(),
	})
}

// Register handles POST /register. Errors surface one at a time, in field
// order; on success the new identity is bound and the user is sent to the
// login page with a success flash.
func (h *AuthHandler) Register(c echo.Context) error {
	st := session.FromContext(c)

	var form registerForm
	if err := c.Bind(&form); err != nil {
		st.SetError("Invalid form submission")
		return c.Redirect(http.StatusSeeOther, "/register")
	}
	if err := c.Validate(&form); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		st.SetError(err.Error())
		return c.Redirect(http.StatusSeeOther, "/register")
	}

	user, err := h.authService.Register(c.Request().Context(), form.Username, form.Password, form.Confirmation)
	if err != nil {
		if msg, ok := flashMessage(err); ok {
			result := "invalid"
			if errors.Is(err, domain.ErrUserExists) {
				result = "duplicate"
			}
			metrics.RegistrationsTotal.WithLabelValues(result).Inc()
			st.SetError(msg)
			return c.Redirect(http.StatusSeeOther, "/register")
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	st.Authenticate(user.ID, user.Username)
	st.SetSuccess("Account created successfully! You can now log in!")
	return c.Redirect(http.StatusSeeOther, "/login")
}

// flashMessage maps domain errors to the message flashed to the user. The
// second return is false for unexpected errors, which propagate to the
// central error handler instead.
func flashMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrUsernameRequired):
		return "Must provide username", true
	case errors.Is(err, domain.ErrPasswordRequired):
		return "Must provide password", true
	case errors.Is(err, domain.ErrConfirmationRequired):
		return "Must confirm password", true
	case errors.Is(err, domain.ErrPasswordMismatch):
		return "Passwords do not match", true
	case errors.Is(err, domain.ErrUserExists):
		return "Username already exists", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid username/password", true
	}
	return "", false
}
