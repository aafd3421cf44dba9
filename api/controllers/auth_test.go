package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/joonseokim/peerlink-backend/internal/auth"
	"github.com/joonseokim/peerlink-backend/internal/users"
	"github.com/joonseokim/peerlink-backend/pkg/db/models"
	pkgerrors "github.com/joonseokim/peerlink-backend/pkg/errors"
)

type stubAuthService struct {
	resp *auth.LoginResponse
	err  error
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.resp, s.err
}

func (s stubAuthService) FacebookLogin(ctx context.Context, req auth.FacebookLoginRequest) (*auth.LoginResponse, error) {
	return s.resp, s.err
}

type stubUserFactory struct {
	user *models.User
	err  error
}

func (s stubUserFactory) CreateUser(ctx context.Context, params users.CreateUserParams) (*models.User, error) {
	return s.user, s.err
}

func (s stubUserFactory) CreateSuperuser(ctx context.Context, params users.CreateSuperuserParams) (*models.User, error) {
	return s.user, s.err
}

func TestAuthSignupSuccess(t *testing.T) {
	username := "alice"
	user := &models.User{ID: uuid.New(), Username: &username, IsActive: true}

	handler := AuthSignup(
		stubUserFactory{user: user},
		stubAuthService{resp: &auth.LoginResponse{
			AccessToken: "access-token",
			User:        users.FromModel(user),
		}},
		nil,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader([]byte(`{"username":"alice","password":"Secret#123"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			AccessToken string        `json:"access_token"`
			User        users.UserDTO `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access-token" {
		t.Fatalf("expected access token in payload got %+v", envelope.Data)
	}
	if envelope.Data.User.Username == nil || *envelope.Data.User.Username != "alice" {
		t.Fatalf("expected user in payload got %+v", envelope.Data.User)
	}
}

func TestAuthSignupMissingPassword(t *testing.T) {
	handler := AuthSignup(stubUserFactory{}, stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader([]byte(`{"username":"alice"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthSignupDuplicateUsername(t *testing.T) {
	handler := AuthSignup(
		stubUserFactory{err: pkgerrors.New(pkgerrors.CodeConflict, "username is already taken")},
		stubAuthService{},
		nil,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader([]byte(`{"username":"alice","password":"Secret#123"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestAuthFacebookSignupSuccess(t *testing.T) {
	user := &models.User{ID: uuid.New(), IsFacebookUser: true, IsActive: true}

	handler := AuthFacebookSignup(
		stubUserFactory{user: user},
		stubAuthService{resp: &auth.LoginResponse{
			AccessToken: "access-token",
			User:        users.FromModel(user),
		}},
		nil,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/facebook-signup", bytes.NewReader([]byte(`{"facebook_user_id":"fb-123"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	handler := AuthLogin(
		stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")},
		nil,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"username":"alice","password":"wrong"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "invalid credentials" {
		t.Fatalf("expected uniform credentials message got %q", envelope.Error.Message)
	}
}

func TestAuthLoginRejectsUnknownFields(t *testing.T) {
	handler := AuthLogin(stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"username":"alice","password":"pw","extra":true}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
