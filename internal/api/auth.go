package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/domain"
)

type AuthService struct {
	c *Client
}

// Signup registers an account; the backend then emails an OTP.
func (s *AuthService) Signup(ctx context.Context, in domain.SignupInput) (*domain.User, error) {
	var out domain.User
	if err := s.c.doJSON(ctx, http.MethodPost, "/auth/signup", "", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signin uses the OAuth2 password form: username carries the email.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*domain.Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var out domain.Token
	req := request{
		method:      http.MethodPost,
		path:        "/auth/signin",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}
	if err := s.c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.Token, error) {
	q := url.Values{}
	q.Set("refresh_token", refreshToken)
	var out domain.Token
	if err := s.c.doJSON(ctx, http.MethodPost, "/auth/refresh-token", "", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) Me(ctx context.Context, token string) (*domain.User, error) {
	var out domain.User
	if err := s.c.doJSON(ctx, http.MethodGet, "/auth/me", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type otpRequest struct {
	Email   string `json:"email"`
	OTPCode string `json:"otp_code"`
}

func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	return s.c.doJSON(ctx, http.MethodPost, "/auth/verify-otp", "", nil, otpRequest{Email: email, OTPCode: code}, nil)
}

func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	q := url.Values{}
	q.Set("email", email)
	return s.c.doJSON(ctx, http.MethodPost, "/auth/resend-otp", "", q, nil, nil)
}
