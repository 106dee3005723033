package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/session"
)

// --- Mock Gateway ---

type mockGateway struct {
	obtainFn   func(ctx context.Context, username, password string) (*backend.TokenPair, error)
	registerFn func(ctx context.Context, input backend.RegisterInput) error
	meFn       func(ctx context.Context, access string) (*backend.User, error)
}

func (m *mockGateway) ObtainToken(ctx context.Context, username, password string) (*backend.TokenPair, error) {
	if m.obtainFn != nil {
		return m.obtainFn(ctx, username, password)
	}
	return &backend.TokenPair{Access: "access", Refresh: "refresh"}, nil
}

func (m *mockGateway) Register(ctx context.Context, input backend.RegisterInput) error {
	if m.registerFn != nil {
		return m.registerFn(ctx, input)
	}
	return nil
}

func (m *mockGateway) Me(ctx context.Context, access string) (*backend.User, error) {
	if m.meFn != nil {
		return m.meFn(ctx, access)
	}
	return &backend.User{ID: 7, Username: "olga", Email: "olga@example.com", Credits: 12}, nil
}

func (m *mockGateway) Authorized(creds backend.Credentials) backend.Requester {
	return nil
}

type recordingDropper struct{ dropped []string }

func (d *recordingDropper) DropSession(id string) { d.dropped = append(d.dropped, id) }

func newTestService(t *testing.T, gw Gateway) (AuthService, *session.Manager, *recordingDropper) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := session.NewManager(session.NewRedisStore(rdb), time.Hour)
	dropper := &recordingDropper{}
	return NewAuthService(gw, sessions, dropper), sessions, dropper
}

func assertAppError(t *testing.T, err error, code int, msg string) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	if msg != "" {
		assert.Equal(t, msg, appErr.Message)
	}
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	level := 2
	gw := &mockGateway{
		meFn: func(_ context.Context, access string) (*backend.User, error) {
			assert.Equal(t, "access", access)
			return &backend.User{ID: 7, Username: "olga", AdminLevel: &level}, nil
		},
	}
	svc, sessions, _ := newTestService(t, gw)

	sess, err := svc.Login(context.Background(), LoginRequest{Username: " olga ", Password: "secret123"})
	require.NoError(t, err)

	opened, err := sessions.Open(context.Background(), sess.ID)
	require.NoError(t, err)
	data := opened.Data()
	assert.Equal(t, "olga", data.Username)
	assert.Equal(t, 2, data.Level())
	access, refresh := opened.Tokens()
	assert.Equal(t, "access", access)
	assert.Equal(t, "refresh", refresh)
}

func TestLogin_BadCredentials(t *testing.T) {
	gw := &mockGateway{
		obtainFn: func(context.Context, string, string) (*backend.TokenPair, error) {
			return nil, &backend.StatusError{Code: http.StatusUnauthorized}
		},
	}
	svc, _, _ := newTestService(t, gw)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "olga", Password: "wrong"})
	assertAppError(t, err, http.StatusUnprocessableEntity, msgBadCredentials)
}

func TestLogin_EmptyFields(t *testing.T) {
	called := false
	gw := &mockGateway{
		obtainFn: func(context.Context, string, string) (*backend.TokenPair, error) {
			called = true
			return nil, nil
		},
	}
	svc, _, _ := newTestService(t, gw)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "  "})
	assertAppError(t, err, http.StatusUnprocessableEntity, msgBadCredentials)
	assert.False(t, called)
}

func TestLogin_BackendDown(t *testing.T) {
	gw := &mockGateway{
		obtainFn: func(context.Context, string, string) (*backend.TokenPair, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc, _, _ := newTestService(t, gw)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "olga", Password: "secret123"})
	assertAppError(t, err, http.StatusBadGateway, "")
}

// --- Register ---

func TestValidateRegisterRequest(t *testing.T) {
	valid := RegisterRequest{Username: "olga", Email: "o@x.ru", Password: "12345678", Password2: "12345678"}

	tests := []struct {
		name string
		mod  func(*RegisterRequest)
		want string
	}{
		{"valid", func(*RegisterRequest) {}, ""},
		{"no username", func(r *RegisterRequest) { r.Username = " " }, msgUsernameMissing},
		{"bad email", func(r *RegisterRequest) { r.Email = "olga" }, msgEmailInvalid},
		{"short password", func(r *RegisterRequest) { r.Password, r.Password2 = "1234567", "1234567" }, msgPasswordLength},
		{"long password", func(r *RegisterRequest) { r.Password = strings.Repeat("x", 25); r.Password2 = r.Password }, msgPasswordLength},
		{"cyrillic counts runes", func(r *RegisterRequest) { r.Password = strings.Repeat("ж", 24); r.Password2 = r.Password }, ""},
		{"mismatch", func(r *RegisterRequest) { r.Password2 = "87654321" }, msgPasswordsDiffer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mod(&req)
			assert.Equal(t, tt.want, validateRegisterRequest(req))
		})
	}
}

func TestRegister_SignsIn(t *testing.T) {
	var got backend.RegisterInput
	gw := &mockGateway{
		registerFn: func(_ context.Context, input backend.RegisterInput) error {
			got = input
			return nil
		},
	}
	svc, _, _ := newTestService(t, gw)

	sess, err := svc.Register(context.Background(), RegisterRequest{
		Username: "olga", Email: " o@x.ru ", Password: "12345678", Password2: "12345678",
	})
	require.NoError(t, err)
	assert.Equal(t, "olga", sess.Data().Username)
	assert.Equal(t, "o@x.ru", got.Email)
	assert.Equal(t, "12345678", got.Password2)
}

func TestRegister_BackendFieldError(t *testing.T) {
	gw := &mockGateway{
		registerFn: func(context.Context, backend.RegisterInput) error {
			return &backend.StatusError{Code: http.StatusBadRequest, Body: []byte(`{"username":["Пользователь уже существует."]}`)}
		},
	}
	svc, _, _ := newTestService(t, gw)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "olga", Email: "o@x.ru", Password: "12345678", Password2: "12345678",
	})
	assertAppError(t, err, http.StatusUnprocessableEntity, "Пользователь уже существует.")
}

func TestRegister_BackendBadRequestWithoutDetail(t *testing.T) {
	gw := &mockGateway{
		registerFn: func(context.Context, backend.RegisterInput) error {
			return &backend.StatusError{Code: http.StatusBadRequest}
		},
	}
	svc, _, _ := newTestService(t, gw)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "olga", Email: "o@x.ru", Password: "12345678", Password2: "12345678",
	})
	assertAppError(t, err, http.StatusUnprocessableEntity, msgRegisterFailed)
}

// --- Sessions ---

func TestOpenAndLogout(t *testing.T) {
	svc, _, dropper := newTestService(t, &mockGateway{})
	ctx := context.Background()

	sess, err := svc.Login(ctx, LoginRequest{Username: "olga", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Open(ctx, sess.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.ID))
	assert.Equal(t, []string{sess.ID}, dropper.dropped)

	_, err = svc.Open(ctx, sess.ID)
	assertAppError(t, err, http.StatusUnauthorized, "")
}

// --- Middleware ---

func TestRequireAuth(t *testing.T) {
	svc, _, _ := newTestService(t, &mockGateway{})
	sess, err := svc.Login(context.Background(), LoginRequest{Username: "olga", Password: "secret123"})
	require.NoError(t, err)

	e := echo.New()
	e.GET("/adventures", func(c echo.Context) error {
		return c.String(http.StatusOK, GetSession(c).Data().Username)
	}, RequireAuth(svc))

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/adventures", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("htmx without cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/adventures", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
	})

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/adventures", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sess.ID})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "olga", rec.Body.String())
	})
}

func TestRequireLevel(t *testing.T) {
	level := 1
	gw := &mockGateway{
		meFn: func(context.Context, string) (*backend.User, error) {
			return &backend.User{ID: 1, Username: "mod", AdminLevel: &level}, nil
		},
	}
	svc, _, _ := newTestService(t, gw)
	sess, err := svc.Login(context.Background(), LoginRequest{Username: "mod", Password: "secret123"})
	require.NoError(t, err)

	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/moderation", ok, RequireAuth(svc), RequireLevel(1, "moderators only"))
	e.GET("/admins", ok, RequireAuth(svc), RequireLevel(2, "admins only"))

	serve := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sess.ID})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, serve("/moderation").Code)
	assert.Equal(t, http.StatusForbidden, serve("/admins").Code)
}

func TestLogoutHandler_ClearsCookie(t *testing.T) {
	svc, _, dropper := newTestService(t, &mockGateway{})
	sess, err := svc.Login(context.Background(), LoginRequest{Username: "olga", Password: "secret123"})
	require.NoError(t, err)

	e := echo.New()
	h := NewHandler(svc, time.Hour)
	RegisterRoutes(e, h)

	req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(url.Values{}.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Equal(t, []string{sess.ID}, dropper.dropped)
}

func TestLoginHandler_SetsCookie(t *testing.T) {
	svc, _, _ := newTestService(t, &mockGateway{})

	e := echo.New()
	RegisterRoutes(e, NewHandler(svc, time.Hour))

	form := url.Values{"username": {"olga"}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, homePath, rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}
