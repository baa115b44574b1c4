package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskdeck/todo-webapp/internal/api/session"
	"github.com/taskdeck/todo-webapp/internal/core/domain"
	"github.com/taskdeck/todo-webapp/internal/infrastructure/sessionstore"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password, confirmation string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, confirmation)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	return s.loginFn(ctx, username, password)
}

// captureRenderer records the last template render instead of producing HTML.
type captureRenderer struct {
	name string
	data any
}

func (r *captureRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	r.name = name
	r.data = data
	return nil
}

type testApp struct {
	e        *echo.Echo
	mgr      *session.Manager
	rendered *captureRenderer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	e := echo.New()
	e.Validator = NewValidator()
	rendered := &captureRenderer{}
	e.Renderer = rendered

	mgr := session.NewManager(sessionstore.NewMemory(), "test-secret", time.Hour, zerolog.Nop())
	return &testApp{e: e, mgr: mgr, rendered: rendered}
}

// do runs one handler through the session middleware with an optional form
// body and session cookie, and returns the recorder.
func (a *testApp) do(t *testing.T, method, target string, form url.Values, cookie *http.Cookie, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := a.e.NewContext(req, rec)

	if err := a.mgr.Middleware()(h)(c); err != nil {
		// Let the test inspect HTTP errors through the recorder.
		a.e.HTTPErrorHandler(err, c)
	}
	return rec
}

func (a *testApp) cookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

// login runs a successful login and returns the session cookie.
func (a *testApp) login(t *testing.T, userID int64, username string) *http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodGet, "/", nil, nil, func(c echo.Context) error {
		session.FromContext(c).Authenticate(userID, username)
		return c.NoContent(http.StatusOK)
	})
	return a.cookie(t, rec)
}

// probe inspects session state reachable with the given cookie.
func (a *testApp) probe(t *testing.T, cookie *http.Cookie, inspect func(st *session.State)) {
	t.Helper()
	a.do(t, http.MethodGet, "/", nil, cookie, func(c echo.Context) error {
		inspect(session.FromContext(c))
		return c.NoContent(http.StatusOK)
	})
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %s, got %s", location, got)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	app := newTestApp(t)
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			if username != "alice" || password != "pw1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.User{ID: 3, Username: "alice"}, nil
		},
	})

	form := url.Values{"username": {"alice"}, "password": {"pw1"}}
	rec := app.do(t, http.MethodPost, "/login", form, nil, h.Login)
	assertRedirect(t, rec, "/")

	app.probe(t, app.cookie(t, rec), func(st *session.State) {
		id, ok := st.UserID()
		if !ok || id != 3 || st.Username() != "alice" {
			t.Fatalf("identity not bound: id=%d ok=%v", id, ok)
		}
	})
}

func TestAuthHandler_Login_InvalidCredentialsReturnsEarly(t *testing.T) {
	app := newTestApp(t)
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	})

	form := url.Values{"username": {"alice"}, "password": {"wrong"}}
	rec := app.do(t, http.MethodPost, "/login", form, nil, h.Login)
	assertRedirect(t, rec, "/login")

	app.probe(t, app.cookie(t, rec), func(st *session.State) {
		// The failure branch must never fall through to setting an identity.
		if _, ok := st.UserID(); ok {
			t.Fatal("identity set on failed login")
		}
		if st.TakeError() != "Invalid username/password" {
			t.Fatal("missing error flash")
		}
	})
}

func TestAuthHandler_Login_MissingFieldsFlashInOrder(t *testing.T) {
	app := newTestApp(t)
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	})

	cases := []struct {
		name string
		form url.Values
		want string
	}{
		{"no username", url.Values{"password": {"pw"}}, "Must provide username"},
		{"no password", url.Values{"username": {"alice"}}, "Must provide password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/login", tc.form, nil, h.Login)
			assertRedirect(t, rec, "/login")
			app.probe(t, app.cookie(t, rec), func(st *session.State) {
				if got := st.TakeError(); got != tc.want {
					t.Fatalf("flash = %q, want %q", got, tc.want)
				}
			})
		})
	}
}

func TestAuthHandler_Login_ClearsPriorIdentity(t *testing.T) {
	app := newTestApp(t)
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	})

	prior := app.login(t, 9, "bob")

	form := url.Values{"username": {"alice"}, "password": {"bad"}}
	app.do(t, http.MethodPost, "/login", form, prior, h.Login)

	// The pre-existing session must be dead regardless of the login outcome.
	app.probe(t, prior, func(st *session.State) {
		if _, ok := st.UserID(); ok {
			t.Fatal("prior identity survived the login flow")
		}
	})
}

func TestAuthHandler_LoginPage_LogsOutButShowsFlash(t *testing.T) {
	app := newTestApp(t)
	h := NewAuthHandler(&stubAuthService{})

	cookie := app.login(t, 9, "bob")
	app.do(t, http.MethodGet, "/", nil, cookie, func(c echo.Context) error {
		session.FromContext(c).SetSuccess("Account created successfully! You can now log in!")
		return c.NoContent(http.StatusOK)
	})

	rec := app.do(t, http.MethodGet, "/login", nil, cookie, h.LoginPage)
	if rec.Code != http.StatusOK || app.rendered.name != "login.html" {
		t.Fatalf("expected login.html render, got %d %s", rec.Code, app.rendered.name)
	}
	page, ok := app.rendered.data.(authPage)
	if !ok || page.Success == "" {
		t.Fatalf("flash lost on login page render: %+v", app.rendered.data)
	}

	app.probe(t, cookie, func(st *session.State) {
		if _, ok := st.UserID(); ok {
			t.Fatal("visiting /login must log the user out")
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	app := newTestApp(t)
	h := NewAuthHandler(&stubAuthService{})

	cookie := app.login(t, 9, "bob")
	rec := app.do(t, http.MethodGet, "/logout", nil, cookie, h.Logout)
	assertRedirect(t, rec, "/")

	app.probe(t, cookie, func(st *session.State) {
		if _, ok := st.UserID(); ok {
			t.Fatal("identity survived logout")
		}
	})
}

func TestAuthHandler_Register_Success(t *testing.T) {
	app := newTestApp(t)
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
			if username != "alice" || password != "pw1" || confirmation != "pw1" {
				t.Fatalf("unexpected args: %s %s %s", username, password, confirmation)
			}
			return &domain.User{ID: 5, Username: "alice"}, nil
		},
	})

	form := url.Values{"username": {"alice"}, "password": {"pw1"}, "confirmation": {"pw1"}}
	rec := app.do(t, http.MethodPost, "/register", form, nil, h.Register)
	assertRedirect(t, rec, "/login")

	app.probe(t, app.cookie(t, rec), func(st *session.State) {
		if id, ok := st.UserID(); !ok || id != 5 {
			t.Fatal("identity not bound after registration")
		}
		if st.TakeSuccess() == "" {
			t.Fatal("missing success flash")
		}
	})
}

func TestAuthHandler_Register_Failures(t *testing.T) {
	cases := []struct {
		name    string
		form    url.Values
		svcErr  error
		want    string
		svcUsed bool
	}{
		{"missing username", url.Values{"password": {"a"}, "confirmation": {"a"}}, nil, "Must provide username", false},
		{"missing password", url.Values{"username": {"alice"}, "confirmation": {"a"}}, nil, "Must provide password", false},
		{"missing confirmation", url.Values{"username": {"alice"}, "password": {"a"}}, nil, "Must confirm password", false},
		{"mismatch", url.Values{"username": {"alice"}, "password": {"a"}, "confirmation": {"b"}}, domain.ErrPasswordMismatch, "Passwords do not match", true},
		{"duplicate", url.Values{"username": {"alice"}, "password": {"a"}, "confirmation": {"a"}}, domain.ErrUserExists, "Username already exists", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)
			h := NewAuthHandler(&stubAuthService{
				registerFn: func(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
					if !tc.svcUsed {
						t.Fatal("service should not be called")
					}
					return nil, tc.svcErr
				},
			})

			rec := app.do(t, http.MethodPost, "/register", tc.form, nil, h.Register)
			assertRedirect(t, rec, "/register")

			app.probe(t, app.cookie(t, rec), func(st *session.State) {
				if _, ok := st.UserID(); ok {
					t.Fatal("identity set on failed registration")
				}
				if got := st.TakeError(); got != tc.want {
					t.Fatalf("flash = %q, want %q", got, tc.want)
				}
			})
		})
	}
}

func TestAuthHandler_RegisterPage_ConsumesErrorFlash(t *testing.T) {
	app := newTestApp(t)
	h := NewAuthHandler(&stubAuthService{})

	rec := app.do(t, http.MethodGet, "/", nil, nil, func(c echo.Context) error {
		session.FromContext(c).SetError("Username already exists")
		return c.NoContent(http.StatusOK)
	})
	cookie := app.cookie(t, rec)

	rec = app.do(t, http.MethodGet, "/register", nil, cookie, h.RegisterPage)
	if rec.Code != http.StatusOK || app.rendered.name != "register.html" {
		t.Fatalf("expected register.html render, got %d %s", rec.Code, app.rendered.name)
	}
	page, _ := app.rendered.data.(authPage)
	if page.Error != "Username already exists" {
		t.Fatalf("expected error on page, got %+v", app.rendered.data)
	}

	// One-shot: a second render must not repeat the error.
	app.do(t, http.MethodGet, "/register", nil, cookie, h.RegisterPage)
	page, _ = app.rendered.data.(authPage)
	if page.Error != "" {
		t.Fatal("error flash rendered twice")
	}
}
