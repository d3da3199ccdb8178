package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taxpadi/internal/domain"
	"taxpadi/internal/service"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	if user.Email != "" {
		m.usersByEmail[user.Email] = user.ID
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) GetByGoogleID(_ context.Context, googleID string) (domain.User, error) {
	for _, user := range m.usersByID {
		if user.GoogleID == googleID {
			return user, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUserRepo) LinkGoogleID(_ context.Context, userID, googleID string) error {
	user, ok := m.usersByID[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.GoogleID = googleID
	m.usersByID[userID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.usersByID))
	for _, user := range m.usersByID {
		out = append(out, user)
	}
	return out, nil
}

func setupAuthRouter() (*gin.Engine, *mockUserRepo) {
	gin.SetMode(gin.TestMode)
	repo := newMockUserRepo()
	userSvc := service.NewUserService(zap.NewNop(), repo, nil)
	jwtSvc := service.NewJWTService("secret", 15*time.Minute, time.Hour)
	h := NewAuthHandler(zap.NewNop(), userSvc, jwtSvc)

	r := gin.New()
	auth := r.Group("/auth")
	auth.POST("/signup", h.Signup)
	auth.POST("/login", h.Login)
	auth.POST("/google", h.GoogleLogin)
	auth.POST("/refresh", h.RefreshToken)
	auth.POST("/logout", h.Logout)
	return r, repo
}

func TestAuthHandlerSignup_Success(t *testing.T) {
	r, _ := setupAuthRouter()

	rec := performAuthedRequest(r, http.MethodPost, "/auth/signup", "", map[string]string{
		"email":    "user@example.com",
		"name":     "Test",
		"password": "secreta123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User   domain.User       `json:"user"`
		Tokens service.TokenPair `json:"tokens"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User.Email != "user@example.com" || resp.Tokens.AccessToken == "" {
		t.Fatalf("expected user and tokens, got %+v", resp)
	}
}

func TestAuthHandlerSignup_DuplicateEmail(t *testing.T) {
	r, _ := setupAuthRouter()

	body := map[string]string{
		"email":    "user@example.com",
		"password": "secreta123",
	}
	if rec := performAuthedRequest(r, http.MethodPost, "/auth/signup", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec := performAuthedRequest(r, http.MethodPost, "/auth/signup", "", body); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandlerSignup_ShortPassword(t *testing.T) {
	r, _ := setupAuthRouter()

	rec := performAuthedRequest(r, http.MethodPost, "/auth/signup", "", map[string]string{
		"email":    "user@example.com",
		"password": "corta",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandlerLogin_RoundTrip(t *testing.T) {
	r, _ := setupAuthRouter()

	signup := performAuthedRequest(r, http.MethodPost, "/auth/signup", "", map[string]string{
		"email":    "user@example.com",
		"password": "secreta123",
	})
	if signup.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", signup.Code)
	}

	rec := performAuthedRequest(r, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "User@Example.com",
		"password": "secreta123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = performAuthedRequest(r, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "user@example.com",
		"password": "incorrecta",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandlerGoogleLogin_Success(t *testing.T) {
	r, repo := setupAuthRouter()

	rec := performAuthedRequest(r, http.MethodPost, "/auth/google", "", map[string]string{
		"google_id": "g-1",
		"email":     "user@example.com",
		"name":      "Test",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.usersByID) != 1 {
		t.Fatalf("expected one created user, got %d", len(repo.usersByID))
	}
}

func TestAuthHandlerRefresh_RotatesAndRevokes(t *testing.T) {
	r, _ := setupAuthRouter()

	signup := performAuthedRequest(r, http.MethodPost, "/auth/signup", "", map[string]string{
		"email":    "user@example.com",
		"password": "secreta123",
	})
	var created struct {
		Tokens service.TokenPair `json:"tokens"`
	}
	if err := json.Unmarshal(signup.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode signup: %v", err)
	}

	rec := performAuthedRequest(r, http.MethodPost, "/auth/refresh", "", map[string]string{
		"refresh_token": created.Tokens.RefreshToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// El refresh ya rotado no puede reutilizarse.
	rec = performAuthedRequest(r, http.MethodPost, "/auth/refresh", "", map[string]string{
		"refresh_token": created.Tokens.RefreshToken,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 reusing refresh, got %d", rec.Code)
	}
}

func TestAuthHandlerLogout(t *testing.T) {
	r, _ := setupAuthRouter()

	signup := performAuthedRequest(r, http.MethodPost, "/auth/signup", "", map[string]string{
		"email":    "user@example.com",
		"password": "secreta123",
	})
	var created struct {
		Tokens service.TokenPair `json:"tokens"`
	}
	if err := json.Unmarshal(signup.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode signup: %v", err)
	}

	rec := performAuthedRequest(r, http.MethodPost, "/auth/logout", "", map[string]string{
		"refresh_token": created.Tokens.RefreshToken,
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = performAuthedRequest(r, http.MethodPost, "/auth/refresh", "", map[string]string{
		"refresh_token": created.Tokens.RefreshToken,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}
