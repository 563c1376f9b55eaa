package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/loginbox/auth-api/internal/api"
	"github.com/loginbox/auth-api/internal/api/handler"
	"github.com/loginbox/auth-api/internal/api/middleware"
	"github.com/loginbox/auth-api/internal/core/domain"
	"github.com/loginbox/auth-api/internal/core/token"
)

type stubAuthService struct {
	registerFn      func(ctx context.Context, name, lastName, email, password string) (*domain.User, error)
	loginFn         func(ctx context.Context, email, password string) (string, *domain.User, error)
	profileFn       func(ctx context.Context, userID int64) (*domain.User, error)
	updateProfileFn func(ctx context.Context, userID int64, name, lastName string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, lastName, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, name, lastName, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID int64, name, lastName string) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, name, lastName)
}

var testTokens = token.NewManager("test-secret", time.Hour)

// newTestServer wires the handlers exactly as the router does, minus the
// infrastructure: stub service, real validator, real error handler, real
// auth middleware.
func newTestServer(svc *stubAuthService) *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())

	authHandler := handler.NewAuthHandler(svc)
	profileHandler := handler.NewProfileHandler(svc)
	authMiddleware := middleware.Auth(testTokens)

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/verify", authHandler.Verify, authMiddleware)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)
	e.GET("/auth/profile", profileHandler.Get, authMiddleware)
	e.PUT("/auth/profile", profileHandler.Update, authMiddleware)

	return e
}

func doJSON(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRegister_Success(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(ctx context.Context, name, lastName, email, password string) (*domain.User, error) {
			if name != "Ana" || lastName != "Diaz" || email != "ana@x.com" || password != "longenough1" {
				t.Fatalf("unexpected args: %s %s %s", name, lastName, email)
			}
			return &domain.User{ID: 1, Name: name, LastName: lastName, Email: email}, nil
		},
	}
	e := newTestServer(svc)

	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Ana","last_name":"Diaz","email":"ana@x.com","password":"longenough1"}`, "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["userId"] != float64(1) {
		t.Fatalf("expected userId 1, got %v", body["userId"])
	}
	if body["message"] == "" {
		t.Fatalf("expected a message")
	}
}

func TestRegister_ValidationRejectedBeforeService(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(ctx context.Context, name, lastName, email, password string) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	e := newTestServer(svc)

	cases := []struct {
		name string
		body string
	}{
		{"missing fields", `{"name":"Ana"}`},
		{"bad email", `{"name":"Ana","last_name":"Diaz","email":"nope","password":"longenough1"}`},
		{"short password", `{"name":"Ana","last_name":"Diaz","email":"ana@x.com","password":"short"}`},
		{"not json", `not-json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/auth/register", tc.body, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(ctx context.Context, name, lastName, email, password string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	e := newTestServer(svc)

	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Ana","last_name":"Diaz","email":"ana@x.com","password":"longenough1"}`, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "user already exists" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestLogin_Success(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "token123", &domain.User{ID: 1, Name: "Ana", LastName: "Diaz", Email: email}, nil
		},
	}
	e := newTestServer(svc)

	rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"ana@x.com","password":"longenough1"}`, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["token"] != "token123" {
		t.Fatalf("expected token, got %v", body["token"])
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	// The session payload uses lastName, not last_name.
	if user["lastName"] != "Diaz" || user["email"] != "ana@x.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	e := newTestServer(svc)

	rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"ghost@x.com","password":"whatever123"}`, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "invalid credentials" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestVerify_ReturnsClaims(t *testing.T) {
	e := newTestServer(&stubAuthService{})

	signed, err := testTokens.Issue(9, "ana@x.com", "Ana", "Diaz")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := doJSON(e, http.MethodGet, "/auth/verify", "", signed)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	user, _ := body["user"].(map[string]any)
	if user["id"] != float64(9) || user["email"] != "ana@x.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestProtectedEndpoints_RejectBadTokens(t *testing.T) {
	e := newTestServer(&stubAuthService{})

	otherSigned, err := token.NewManager("wrong-secret", time.Hour).Issue(9, "a@b.co", "", "")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	endpoints := []struct{ method, path string }{
		{http.MethodGet, "/auth/verify"},
		{http.MethodPost, "/auth/logout"},
		{http.MethodGet, "/auth/profile"},
		{http.MethodPut, "/auth/profile"},
	}
	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			// No Authorization header at all → 401.
			rec := doJSON(e, ep.method, ep.path, "", "")
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("no header: expected 401, got %d", rec.Code)
			}

			// A token signed with the wrong secret → 403.
			rec = doJSON(e, ep.method, ep.path, "", otherSigned)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("bad signature: expected 403, got %d", rec.Code)
			}
		})
	}
}

func TestLogout_Acknowledges(t *testing.T) {
	e := newTestServer(&stubAuthService{})

	signed, err := testTokens.Issue(9, "ana@x.com", "Ana", "Diaz")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := doJSON(e, http.MethodPost, "/auth/logout", "", signed)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] == "" {
		t.Fatalf("expected acknowledgement message")
	}
}
