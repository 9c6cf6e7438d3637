package session

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid session token")

// Service issues the opaque tokens that namespace cart and ledger storage.
// Tokens live long enough to behave like the browser-local storage they
// replace.
type Service struct {
	tokens *tokenManager
	ttl    time.Duration
}

func New() *Service {
	return &Service{
		tokens: newTokenManager(),
		ttl:    30 * 24 * time.Hour,
	}
}

// Issue creates a fresh session and returns its token and stable session ID.
func (s *Service) Issue(_ context.Context) (token, sessionID string, err error) {
	sessionID = newSessionID()
	token, err = s.tokens.Issue(sessionID, s.ttl)
	if err != nil {
		return "", "", err
	}
	return token, sessionID, nil
}

// Lookup resolves a token to its session ID.
func (s *Service) Lookup(_ context.Context, token string) (string, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.SessionID, nil
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
