package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nvoss/strongbox/internal/logger"
	"github.com/nvoss/strongbox/internal/model"
)

// tokenBytes is the entropy of a session token. 32 bytes is double the
// 128-bit floor the threat model asks for.
const tokenBytes = 32

// CredentialVerifier checks a web login attempt.
type CredentialVerifier interface {
	VerifyWeb(ctx context.Context, username, candidate string) bool
}

// Sessions issues and validates web login sessions. The table has a fixed
// capacity appropriate for constrained memory: when it is full, an expired
// entry is evicted first, otherwise the least recently seen one. Multiple
// concurrent sessions are permitted; RevokeAll clears them in bulk after a
// credential change.
type Sessions struct {
	mu       sync.Mutex
	verifier CredentialVerifier
	idleTTL  time.Duration
	capacity int
	table    []model.Session
	logger   *logger.Logger
	now      func() time.Time
}

// NewSessions creates the session manager.
func NewSessions(verifier CredentialVerifier, idleTTL time.Duration, capacity int, l *logger.Logger) *Sessions {
	if capacity < 1 {
		capacity = 1
	}
	return &Sessions{
		verifier: verifier,
		idleTTL:  idleTTL,
		capacity: capacity,
		table:    make([]model.Session, 0, capacity),
		logger:   l,
		now:      time.Now,
	}
}

// Login verifies the web credential and issues a new session token.
func (s *Sessions) Login(ctx context.Context, username, password string) (string, error) {
	if !s.verifier.VerifyWeb(ctx, username, password) {
		s.logger.Info("login rejected", "username", username)
		return "", model.ErrBadCredentials
	}

	token, err := mintToken()
	if err != nil {
		return "", err
	}

	now := s.now()
	sess := model.Session{ID: uuid.New(), Token: token, CreatedAt: now, LastSeen: now}

	s.mu.Lock()
	s.insert(sess)
	s.mu.Unlock()

	s.logger.Info("login accepted", "username", username, "session_id", sess.ID)
	return token, nil
}

// Validate checks the token and refreshes its idle expiry. It is called on
// every authenticated request before dispatch.
func (s *Sessions) Validate(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(token)
	if i < 0 {
		return model.ErrNotLoggedIn
	}

	now := s.now()
	if now.Sub(s.table[i].LastSeen) > s.idleTTL {
		s.remove(i)
		return model.ErrSessionExpired
	}

	s.table[i].LastSeen = now
	return nil
}

// Logout drops the session for the given token, if any.
func (s *Sessions) Logout(_ context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.find(token); i >= 0 {
		s.logger.Info("logout", "session_id", s.table[i].ID)
		s.remove(i)
	}
}

// RevokeAll invalidates every issued session.
func (s *Sessions) RevokeAll(_ context.Context) {
	s.mu.Lock()
	n := len(s.table)
	s.table = s.table[:0]
	s.mu.Unlock()

	s.logger.Info("all sessions revoked", "count", n)
}

// insert places sess in the table, evicting if full. Caller holds s.mu.
func (s *Sessions) insert(sess model.Session) {
	if len(s.table) < s.capacity {
		s.table = append(s.table, sess)
		return
	}

	now := s.now()
	victim := 0
	for i := range s.table {
		if now.Sub(s.table[i].LastSeen) > s.idleTTL {
			victim = i
			break
		}
		if s.table[i].LastSeen.Before(s.table[victim].LastSeen) {
			victim = i
		}
	}
	s.logger.Info("session table full, evicting", "session_id", s.table[victim].ID)
	s.table[victim] = sess
}

// find returns the index of the session with the given token, comparing in
// constant time, or -1. Caller holds s.mu.
func (s *Sessions) find(token string) int {
	found := -1
	for i := range s.table {
		if subtle.ConstantTimeCompare([]byte(s.table[i].Token), []byte(token)) == 1 {
			found = i
		}
	}
	return found
}

// remove drops the entry at index i. Caller holds s.mu.
func (s *Sessions) remove(i int) {
	s.table[i] = s.table[len(s.table)-1]
	s.table = s.table[:len(s.table)-1]
}

func mintToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("mint session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
