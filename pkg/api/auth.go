package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"tableflip.dev/dumpdash/pkg/dump"
)

type loginRequest struct {
	PhoneNumber      string `json:"phone_number"`
	VerificationCode string `json:"verification_code"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	User         *dump.User `json:"user,omitempty"`
}

// Login exchanges a phone number and verification code for a session and
// saves it to the session store.
func (c *Client) Login(ctx context.Context, phone, code string) (*dump.Session, error) {
	phone, code = strings.TrimSpace(phone), strings.TrimSpace(code)
	if phone == "" {
		return nil, &dump.ValidationError{Field: "phone", Message: "required"}
	}
	if code == "" {
		return nil, &dump.ValidationError{Field: "code", Message: "required"}
	}
	var out tokenResponse
	if err := c.do(withoutAuth(ctx), "login", http.MethodPost, "/auth/login", loginRequest{PhoneNumber: phone, VerificationCode: code}, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, &Error{Kind: KindAuth, Op: "login", Message: "no access token in response"}
	}
	s := dump.Session{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
	if out.User != nil {
		s.User = *out.User
	}
	if c.sessions != nil {
		if err := c.sessions.SaveSession(s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// Logout forgets the stored session.
func (c *Client) Logout() error {
	if c.sessions == nil {
		return nil
	}
	return c.sessions.ClearSession()
}

// refresh trades the stored refresh token for a new access token. Concurrent
// callers that failed with the same token share a single refresh.
func (c *Client) refresh(ctx context.Context, failedToken string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	s, err := c.sessions.Session()
	if err != nil {
		return err
	}
	if !s.Valid() || s.RefreshToken == "" {
		return errors.New("no refresh token")
	}
	if failedToken != "" && s.AccessToken != failedToken {
		// Someone else refreshed while we waited.
		return nil
	}

	var out tokenResponse
	if err := c.do(withoutAuth(ctx), "refresh", http.MethodPost, "/auth/refresh", refreshRequest{RefreshToken: s.RefreshToken}, &out); err != nil {
		return err
	}
	if out.AccessToken == "" {
		return errors.New("refresh returned no access token")
	}
	next := *s
	next.AccessToken = out.AccessToken
	if out.RefreshToken != "" {
		next.RefreshToken = out.RefreshToken
	}
	if out.User != nil {
		next.User = *out.User
	}
	log.Debug().Str("user", next.User.ID).Msg("api: session refreshed")
	return c.sessions.SaveSession(next)
}
