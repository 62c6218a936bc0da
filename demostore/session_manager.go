package demostore

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

// Session is the server side state of a logged in user.
type Session struct {
	ID       uuid.UUID
	Username string
	// Cart holds product slugs in the order they were added.
	Cart []string
	// Checkout is set once the information form was submitted.
	Checkout *CheckoutInfo
	// PopupPending shows the password change popup on the next products page.
	PopupPending bool

	lastActive time.Time
}

// InCart reports whether the product with slug is in the cart.
func (s Session) InCart(slug string) bool {
	return slices.Contains(s.Cart, slug)
}

func (s Session) clone() Session {
	s.Cart = slices.Clone(s.Cart)
	if s.Checkout != nil {
		info := *s.Checkout
		s.Checkout = &info
	}
	return s
}

// SessionManager manages login sessions of the demo store.
// It handles session lifecycle, activity tracking, and cleanup.
type SessionManager struct {
	sessions   map[uuid.UUID]*Session
	sessionsMu sync.RWMutex

	idleTimeout time.Duration
	logger      *slog.Logger

	cleanupCtx       context.Context
	cleanupCtxCancel context.CancelFunc
}

// SessionManagerOptions configures a SessionManager
type SessionManagerOptions struct {
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

// NewSessionManager creates a new SessionManager and starts the cleanup goroutine
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	idleTimeout := opts.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = DefaultSessionIdleTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cleanupCtx, cleanupCtxCancel := context.WithCancel(context.Background())

	sm := &SessionManager{
		sessions:         make(map[uuid.UUID]*Session),
		idleTimeout:      idleTimeout,
		logger:           logger,
		cleanupCtx:       cleanupCtx,
		cleanupCtxCancel: cleanupCtxCancel,
	}

	go sm.cleanupLoop()

	return sm
}

// Create starts a new session for username
func (sm *SessionManager) Create(username string, showPopup bool) Session {
	session := &Session{
		ID:           uuid.Must(uuid.NewV4()),
		Username:     username,
		PopupPending: showPopup,
		lastActive:   time.Now(),
	}

	sm.sessionsMu.Lock()
	sm.sessions[session.ID] = session
	sm.sessionsMu.Unlock()

	return session.clone()
}

// Get returns a copy of the session and marks it as active
func (sm *SessionManager) Get(sessionID uuid.UUID) (Session, bool) {
	return sm.Update(sessionID, func(*Session) {})
}

// Update applies fn to the session under lock and returns a copy of the result
func (sm *SessionManager) Update(sessionID uuid.UUID, fn func(s *Session)) (Session, bool) {
	sm.sessionsMu.Lock()
	defer sm.sessionsMu.Unlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return Session{}, false
	}
	fn(session)
	session.lastActive = time.Now()

	return session.clone(), true
}

// Delete removes a session
func (sm *SessionManager) Delete(sessionID uuid.UUID) {
	sm.sessionsMu.Lock()
	defer sm.sessionsMu.Unlock()

	delete(sm.sessions, sessionID)
}

// Len returns the number of live sessions
func (sm *SessionManager) Len() int {
	sm.sessionsMu.RLock()
	defer sm.sessionsMu.RUnlock()

	return len(sm.sessions)
}

// IdleTimeout returns the configured idle timeout duration
func (sm *SessionManager) IdleTimeout() time.Duration {
	return sm.idleTimeout
}

// Close shuts down the session manager and drops all sessions
func (sm *SessionManager) Close() {
	sm.cleanupCtxCancel()

	sm.sessionsMu.Lock()
	defer sm.sessionsMu.Unlock()

	clear(sm.sessions)
}

// cleanupLoop periodically checks for idle sessions and cleans them up
func (sm *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(sm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-sm.cleanupCtx.Done():
			return
		case <-ticker.C:
			sm.cleanupIdleSessions()
		}
	}
}

func (sm *SessionManager) cleanupIdleSessions() {
	now := time.Now()

	sm.sessionsMu.Lock()
	defer sm.sessionsMu.Unlock()

	for sessionID, session := range sm.sessions {
		if idle := now.Sub(session.lastActive); idle > sm.idleTimeout {
			sm.logger.Debug("Cleaning up idle session",
				slog.String("session", sessionID.String()),
				slog.String("username", session.Username),
				slog.Duration("idle", idle),
			)
			delete(sm.sessions, sessionID)
		}
	}
}
