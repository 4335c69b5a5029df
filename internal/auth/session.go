package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"monkeybets/internal/cache"
	"monkeybets/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNoSession means the request carries no usable session.
	ErrNoSession = errors.New("no active session")
	// ErrIdentityGone is wrapped by IdentityChecker errors when the monkey
	// no longer exists. Any other checker error is treated as transient.
	ErrIdentityGone = errors.New("identity no longer exists")
)

const sessionKeyPrefix = "session:"

// IdentityChecker re-reads an identity so a session never outlives its monkey.
// A missing identity is reported as an error wrapping ErrIdentityGone.
type IdentityChecker interface {
	CheckAuth(ctx context.Context, monkeyID uuid.UUID) (*models.Monkey, error)
}

// Session is the signed-in state attached to a request.
type Session struct {
	ID        string    `json:"-"`
	MonkeyID  uuid.UUID `json:"monkey_id"`
	Phone     string    `json:"phone"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Manager owns the session lifecycle: Set on sign-in, Init on every request
// and Clear on sign-out. Session ids are persisted in the cache store so a
// signed-out token stops working before it expires.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	store      cache.Store
	identities IdentityChecker
	now        func() time.Time
}

func NewManager(secret string, ttl time.Duration, store cache.Store, identities IdentityChecker) *Manager {
	return &Manager{
		secret:     []byte(secret),
		ttl:        ttl,
		store:      store,
		identities: identities,
		now:        time.Now,
	}
}

// TTL is the lifetime of new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Set starts a session for a verified monkey and returns it with its token.
func (m *Manager) Set(ctx context.Context, monkey *models.Monkey) (*Session, error) {
	issuedAt := m.now()
	session := &Session{
		ID:        uuid.NewString(),
		MonkeyID:  monkey.ID,
		Phone:     monkey.Phone,
		ExpiresAt: issuedAt.Add(m.ttl),
	}

	token, err := m.generateToken(monkey.ID, monkey.Phone, session.ID, issuedAt, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	session.Token = token

	if err := m.store.Set(ctx, sessionKeyPrefix+session.ID, monkey.ID.String(), m.ttl); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return session, nil
}

// Init restores the session behind a token. The token must verify, its
// session id must still be persisted and the identity must still exist.
// A session whose identity is gone is cleared. When the identity cannot be
// checked the session is kept and the error is returned unwrapped from
// ErrNoSession.
func (m *Manager) Init(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	claims, err := m.validateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	monkeyID, err := uuid.Parse(claims.MonkeyID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad monkey id", ErrNoSession)
	}

	stored, err := m.store.Get(ctx, sessionKeyPrefix+claims.ID)
	if errors.Is(err, cache.ErrMiss) {
		return nil, fmt.Errorf("%w: session revoked", ErrNoSession)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if stored != monkeyID.String() {
		return nil, fmt.Errorf("%w: session mismatch", ErrNoSession)
	}

	session := &Session{
		ID:       claims.ID,
		MonkeyID: monkeyID,
		Phone:    claims.Phone,
		Token:    token,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	if m.identities != nil {
		monkey, err := m.identities.CheckAuth(ctx, monkeyID)
		if errors.Is(err, ErrIdentityGone) || (err == nil && monkey == nil) {
			log.Printf("[Auth] Clearing session %s: identity gone", session.ID)
			_ = m.Clear(ctx, session)
			return nil, fmt.Errorf("%w: identity gone", ErrNoSession)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check identity: %w", err)
		}
		session.Phone = monkey.Phone
	}

	return session, nil
}

// Clear ends a session. Clearing a nil session is a no-op.
func (m *Manager) Clear(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return nil
	}
	if err := m.store.Delete(ctx, sessionKeyPrefix+session.ID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
