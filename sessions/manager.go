// Package sessions implements the session manager: it issues tokens on login,
// resolves the current session from either of two persistence channels, and
// clears sessions on logout.
package sessions

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sessionauth/go-session-core/credentials"
	"github.com/sessionauth/go-session-core/internal/autherrors"
	"github.com/sessionauth/go-session-core/kv"
	"github.com/sessionauth/go-session-core/token"
	"github.com/sessionauth/go-session-core/users"
)

// TokenKey is the agreed key under which the raw token string is persisted in
// both channels. The token transport (cookie or otherwise) uses the same name.
const TokenKey = "session_token"

// DefaultTTL is the baseline session lifetime.
const DefaultTTL = 7 * 24 * time.Hour

// Session is the runtime view of an authenticated session: the resolved user
// plus the token's expiry. It is derived on every Resolve, never persisted as
// its own record.
type Session struct {
	User      *users.User
	ExpiresAt time.Time
}

// Channels bundles the two independent persistence channels a token is
// written to. Reads follow a fixed priority: primary first, then fallback.
// The channels are only kept consistent by the write-through on Issue and
// Logout; callers must not assume more.
type Channels struct {
	Primary  kv.Store
	Fallback kv.Store
}

// Manager owns session resolution. It depends on the token codec, the user
// directory, and the two persistence channels.
type Manager struct {
	directory *users.Directory
	codec     *token.Codec
	channels  Channels
	hasher    credentials.Hasher
	ttl       time.Duration
	logger    zerolog.Logger
}

// Option modifies a Manager.
type Option func(*Manager)

// WithTTL overrides the session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithLogger sets the logger used for channel-degradation warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(directory *users.Directory, codec *token.Codec, channels Channels, options ...Option) (*Manager, error) {
	if directory == nil {
		return nil, errors.New("[NewManager] directory is required")
	}
	if codec == nil {
		return nil, errors.New("[NewManager] codec is required")
	}
	if channels.Primary == nil {
		return nil, errors.New("[NewManager] primary channel is required")
	}
	if channels.Fallback == nil {
		return nil, errors.New("[NewManager] fallback channel is required")
	}

	manager := &Manager{
		directory: directory,
		codec:     codec,
		channels:  channels,
		hasher:    credentials.NewHasher(),
		ttl:       DefaultTTL,
		logger:    log.Logger,
	}
	for _, opt := range options {
		opt(manager)
	}
	return manager, nil
}

// Login verifies the credentials and issues a token. Unknown email and wrong
// password both fail with ErrInvalidCredentials; collapsing the two causes is
// a user-enumeration hardening contract, not a convenience.
func (m *Manager) Login(ctx context.Context, email, password string) (string, error) {
	user, err := m.directory.FindByEmail(ctx, email)
	if err != nil {
		return "", autherrors.ErrInvalidCredentials
	}

	if !m.hasher.Verify(password, user.PasswordDigest) {
		return "", autherrors.ErrInvalidCredentials
	}

	return m.Issue(ctx, user.ID)
}

// Issue encodes a token for subject, writes it to the primary channel and
// mirrors it to the fallback channel. A failing fallback write degrades the
// mirror, not the login.
func (m *Manager) Issue(ctx context.Context, subject string) (string, error) {
	tok, err := m.codec.Encode(subject, m.ttl)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.Issue] codec.Encode")
	}

	if err := m.channels.Primary.Set(ctx, TokenKey, []byte(tok)); err != nil {
		return "", errors.Wrap(err, "[Manager.Issue] primary.Set")
	}
	if err := m.channels.Fallback.Set(ctx, TokenKey, []byte(tok)); err != nil {
		m.logger.Warn().Err(err).Msg("session token not mirrored to fallback channel")
	}
	return tok, nil
}

// Resolve returns the current session, or nil if there is none. A missing or
// unreadable primary channel falls through to the fallback. An invalid or
// expired token, and a token whose user no longer exists, all resolve to nil;
// the caller never learns which case occurred.
func (m *Manager) Resolve(ctx context.Context) (*Session, error) {
	tok, ok := m.readToken(ctx)
	if !ok {
		return nil, nil
	}

	claims, err := m.codec.Decode(tok)
	if err != nil {
		return nil, nil
	}

	user, err := m.directory.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, nil
	}

	return &Session{User: user, ExpiresAt: claims.Expiry()}, nil
}

// Logout clears the token from both channels unconditionally. Safe to call
// with no active session.
func (m *Manager) Logout(ctx context.Context) error {
	perr := m.channels.Primary.Delete(ctx, TokenKey)
	ferr := m.channels.Fallback.Delete(ctx, TokenKey)
	if perr != nil {
		return errors.Wrap(perr, "[Manager.Logout] primary.Delete")
	}
	if ferr != nil {
		return errors.Wrap(ferr, "[Manager.Logout] fallback.Delete")
	}
	return nil
}

func (m *Manager) readToken(ctx context.Context) (string, bool) {
	value, err := m.channels.Primary.Get(ctx, TokenKey)
	if err == nil {
		return string(value), true
	}
	if !errors.Is(err, kv.ErrKeyNotFound) {
		m.logger.Warn().Err(err).Msg("primary session channel unreadable, trying fallback")
	}

	value, err = m.channels.Fallback.Get(ctx, TokenKey)
	if err == nil {
		return string(value), true
	}
	if !errors.Is(err, kv.ErrKeyNotFound) {
		m.logger.Warn().Err(err).Msg("fallback session channel unreadable")
	}
	return "", false
}
