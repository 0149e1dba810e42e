// File: internal/email/xoauth2.go
package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"referme_backend/internal/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// xoauth2Auth implements smtp.Auth using the XOAUTH2 SASL mechanism backed by
// a Google OAuth refresh token, so the relay works without an app password.
type xoauth2Auth struct {
	username    string
	tokenSource oauth2.TokenSource
}

func newXOAuth2Auth(cfg *config.Config) smtp.Auth {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleOAuthClientID,
		ClientSecret: cfg.GoogleOAuthClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"https://mail.google.com/"},
	}
	src := oauthCfg.TokenSource(context.Background(), &oauth2.Token{
		RefreshToken: cfg.GoogleOAuthRefreshToken,
	})

	return &xoauth2Auth{
		username:    cfg.SMTPUsername,
		tokenSource: oauth2.ReuseTokenSource(nil, src),
	}
}

func (a *xoauth2Auth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS {
		return "", nil, errors.New("XOAUTH2 requires a TLS connection")
	}
	token, err := a.tokenSource.Token()
	if err != nil {
		return "", nil, fmt.Errorf("failed to obtain OAuth token: %w", err)
	}
	resp := fmt.Sprintf("user=%s\x01auth=Bearer %s\x01\x01", a.username, token.AccessToken)
	return "XOAUTH2", []byte(resp), nil
}

func (a *xoauth2Auth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		// The server sends a base64 error payload on failure. An empty
		// response tells it to finish the exchange with a proper error.
		return []byte(""), nil
	}
	return nil, nil
}
