package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/device-compare/internal/upstream"
)

// Authenticator proxies account operations to upstream.
type Authenticator interface {
	Login(ctx context.Context, creds upstream.Credentials) (*upstream.AuthResponse, error)
	Signup(ctx context.Context, creds upstream.Credentials) (*upstream.AuthResponse, error)
	Profile(ctx context.Context) (*upstream.UserProfile, error)
}

// AuthHandler proxies login, signup and profile lookups.
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(a Authenticator) *AuthHandler {
	return &AuthHandler{auth: a}
}

// LoginInput is the login request body.
type LoginInput struct {
	Body struct {
		Email    string `json:"email"    format:"email" doc:"Account email"`
		Password string `json:"password" minLength:"1"  doc:"Account password"`
	}
}

// SignupInput is the signup request body.
type SignupInput struct {
	Body struct {
		Name     string `json:"name"     minLength:"1"  doc:"Display name"`
		Email    string `json:"email"    format:"email" doc:"Account email"`
		Password string `json:"password" minLength:"6"  doc:"Account password"`
	}
}

// TokenOutput carries the bearer token issued upstream.
type TokenOutput struct {
	Body struct {
		Token string `json:"token" doc:"Bearer token for subsequent requests"`
	}
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(ctx context.Context, input *LoginInput) (*TokenOutput, error) {
	resp, err := h.auth.Login(ctx, upstream.Credentials{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, apiError("login", err)
	}
	return tokenOutput(resp)
}

// Signup registers an account and returns its bearer token.
func (h *AuthHandler) Signup(ctx context.Context, input *SignupInput) (*TokenOutput, error) {
	resp, err := h.auth.Signup(ctx, upstream.Credentials{
		Name:     input.Body.Name,
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, apiError("signup", err)
	}
	return tokenOutput(resp)
}

func tokenOutput(resp *upstream.AuthResponse) (*TokenOutput, error) {
	token := resp.BearerToken()
	if token == "" {
		return nil, huma.Error502BadGateway("upstream returned no token")
	}
	out := &TokenOutput{}
	out.Body.Token = token
	return out, nil
}

// ProfileInput carries the caller's token.
type ProfileInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
}

// ProfileOutput is the caller's profile.
type ProfileOutput struct {
	Body struct {
		upstream.UserProfile
		Admin bool `json:"admin" doc:"Whether the account may manage affiliate links"`
	}
}

// Profile returns the profile for the caller's token.
func (h *AuthHandler) Profile(ctx context.Context, input *ProfileInput) (*ProfileOutput, error) {
	token := bearer(ctx, input.Authorization)
	if token == "" {
		return nil, huma.Error401Unauthorized("bearer token required")
	}

	profile, err := h.auth.Profile(upstream.WithBearer(ctx, token))
	if err != nil {
		return nil, apiError("fetching profile", err)
	}

	out := &ProfileOutput{}
	out.Body.UserProfile = *profile
	out.Body.Admin = profile.IsAdmin()
	return out, nil
}

// RegisterAuthRoutes registers the account proxy endpoints with the Huma
// API.
func RegisterAuthRoutes(api huma.API, h *AuthHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusUnauthorized, http.StatusBadGateway},
	}, h.Login)

	huma.Register(api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/signup",
		Summary:       "Create an account",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusBadGateway},
	}, h.Signup)

	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/profile",
		Summary:     "Get the caller's profile",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusUnauthorized, http.StatusBadGateway},
	}, h.Profile)
}
