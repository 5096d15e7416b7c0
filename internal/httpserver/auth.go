package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"storefront/internal/api"
	"storefront/internal/domain"
)

func (h *handlers) signinPage(c *gin.Context) {
	if currentSession(c).SignedIn() {
		h.redirect(c, "/")
		return
	}
	h.render(c, http.StatusOK, "signin", gin.H{
		"Email": c.Query("email"),
		"Next":  safeNext(c.Query("next")),
	})
}

func (h *handlers) signin(c *gin.Context) {
	s := currentSession(c)
	ctx := c.Request.Context()
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	next := safeNext(c.PostForm("next"))

	again := func(msg string) {
		s.Error(msg)
		h.render(c, http.StatusOK, "signin", gin.H{"Email": email, "Next": next})
	}
	if email == "" || password == "" {
		again("Please enter your email and password")
		return
	}

	tok, err := h.deps.Auth.Signin(ctx, email, password)
	if err != nil {
		h.logger.Info().Err(err).Str("email", email).Msg("sign in failed")
		again(api.DetailOr(err, "Invalid email or password"))
		return
	}
	me, err := h.deps.Auth.Me(ctx, tok.AccessToken)
	if err == nil && me == nil {
		err = errors.New("empty profile")
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("load profile after sign in")
		again(api.DetailOr(err, "Failed to load your profile"))
		return
	}

	h.deps.Sessions.Renew(ctx, c.Writer, s)
	s.SetTokens(*tok)
	s.SetUser(me)
	s.SetPendingEmail("")
	h.refreshCartCount(c, tok.AccessToken)

	name := me.FirstName
	if name == "" {
		name = me.Email
	}
	s.Success("Welcome back, " + name + "!")

	switch {
	case next != "":
		h.redirect(c, next)
	case me.IsAdmin():
		h.redirect(c, "/admin")
	default:
		h.redirect(c, "/")
	}
}

func (h *handlers) signupPage(c *gin.Context) {
	h.render(c, http.StatusOK, "signup", gin.H{"Form": domain.SignupInput{}})
}

func (h *handlers) signup(c *gin.Context) {
	s := currentSession(c)
	in := domain.SignupInput{
		Email:     strings.TrimSpace(c.PostForm("email")),
		Password:  c.PostForm("password"),
		FirstName: strings.TrimSpace(c.PostForm("first_name")),
		LastName:  strings.TrimSpace(c.PostForm("last_name")),
		Phone:     strings.TrimSpace(c.PostForm("phone")),
	}
	again := func(msg string) {
		s.Error(msg)
		in.Password = ""
		h.render(c, http.StatusOK, "signup", gin.H{"Form": in})
	}
	if in.Password != c.PostForm("confirm_password") {
		again("Passwords do not match")
		return
	}

	u, err := h.deps.Auth.Signup(c.Request.Context(), in)
	if err != nil {
		h.logger.Info().Err(err).Str("email", in.Email).Msg("sign up failed")
		again(api.DetailOr(err, "An unexpected error occurred"))
		return
	}
	if u == nil || u.ID == 0 {
		again("Failed to create account")
		return
	}
	s.SetPendingEmail(in.Email)
	s.Success("Account created! Please check your email for the verification code.")
	h.redirect(c, "/verify-email")
}

func (h *handlers) pendingEmail(c *gin.Context) string {
	if e := strings.TrimSpace(c.PostForm("email")); e != "" {
		return e
	}
	if e := strings.TrimSpace(c.Query("email")); e != "" {
		return e
	}
	return currentSession(c).PendingEmail
}

func (h *handlers) verifyPage(c *gin.Context) {
	email := h.pendingEmail(c)
	if email == "" {
		h.redirect(c, "/signup")
		return
	}
	h.render(c, http.StatusOK, "verify", gin.H{"Email": email})
}

func validOTP(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (h *handlers) verify(c *gin.Context) {
	s := currentSession(c)
	email := h.pendingEmail(c)
	code := strings.TrimSpace(c.PostForm("code"))
	if !validOTP(code) {
		s.Error("Please enter the complete 6-digit code")
		h.render(c, http.StatusOK, "verify", gin.H{"Email": email})
		return
	}
	if err := h.deps.Auth.VerifyOTP(c.Request.Context(), email, code); err != nil {
		h.logger.Info().Err(err).Str("email", email).Msg("otp verification failed")
		s.Error(api.DetailOr(err, "Verification failed"))
		h.render(c, http.StatusOK, "verify", gin.H{"Email": email})
		return
	}
	s.SetPendingEmail("")
	s.Success("Email verified successfully! You can now sign in.")
	h.redirect(c, "/signin?email="+url.QueryEscape(email))
}

func (h *handlers) resendOTP(c *gin.Context) {
	s := currentSession(c)
	email := h.pendingEmail(c)
	if err := h.deps.Auth.ResendOTP(c.Request.Context(), email); err != nil {
		h.logger.Info().Err(err).Str("email", email).Msg("resend otp failed")
		s.Error(api.DetailOr(err, "Failed to resend OTP"))
	} else {
		s.Success("Verification code resent to your email.")
	}
	h.redirect(c, "/verify-email?email="+url.QueryEscape(email))
}

func (h *handlers) signout(c *gin.Context) {
	h.deps.Sessions.Destroy(c.Request.Context(), c.Writer, currentSession(c))
	h.redirect(c, "/")
}
