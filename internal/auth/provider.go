package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"trade-journal/config"
	"trade-journal/internal/model"
	"trade-journal/internal/repository"
	"trade-journal/pkg/cache"
	"trade-journal/pkg/common"
	"trade-journal/pkg/logger"
	"trade-journal/pkg/ratelimit"
	"trade-journal/pkg/utils"

	goValidator "github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

// Provider signs users up and in, keeps their sessions in the in-memory cache
// and tells subscribers about every login and logout.
type Provider struct {
	cfg       config.Auth
	log       *logger.Logger
	users     repository.UserRepository
	sessions  cache.Cache
	validator *goValidator.Validate
	attempts  *ratelimit.LimiterStore
	now       func() time.Time

	mu          sync.Mutex
	subscribers map[int]func(Event)
	nextSubID   int
}

func NewProvider(
	cfg config.Auth,
	log *logger.Logger,
	users repository.UserRepository,
	sessions cache.Cache,
	validator *goValidator.Validate,
) *Provider {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.SignInAttemptsPerMinute == 0 {
		cfg.SignInAttemptsPerMinute = 10
	}
	return &Provider{
		cfg:         cfg,
		log:         log,
		users:       users,
		sessions:    sessions,
		validator:   validator,
		attempts:    ratelimit.PerMinute(cfg.SignInAttemptsPerMinute),
		now:         time.Now,
		subscribers: make(map[int]func(Event)),
	}
}

// SignUp registers a new user and opens a session for them.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = utils.NormalizeEmail(email)
	if err := p.validator.Struct(credentials{Email: email, Password: password}); err != nil {
		return nil, &ValidationError{Err: err}
	}

	existing, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Email: email, PasswordHash: string(hash)}
	if err := p.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	p.log.InfoContext(ctx, "User signed up", logger.StringField("user_id", user.ID))
	return p.openSession(EventSignUp, user)
}

// SignIn checks the credentials and opens a session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = utils.NormalizeEmail(email)
	if !p.attempts.Allow(email) {
		p.log.WarnContext(ctx, "Sign-in throttled", logger.StringField("email", email))
		return nil, ErrTooManyAttempts
	}

	user, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	p.attempts.Forget(email)
	p.log.InfoContext(ctx, "User signed in", logger.StringField("user_id", user.ID))
	return p.openSession(EventSignIn, user)
}

// SignOut ends the session behind token. Unknown tokens are ignored.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	key := fmt.Sprintf(common.KEY_SESSION, token)
	session, ok := cache.GetFromCache[*Session](p.sessions, key)
	if !ok {
		return nil
	}
	p.sessions.Delete(key)

	p.log.InfoContext(ctx, "User signed out", logger.StringField("user_id", session.User.ID))
	p.publish(Event{Kind: EventSignOut, User: session.User, At: p.now()})
	return nil
}

// Authenticate resolves a session token to its identity.
func (p *Provider) Authenticate(token string) (*Identity, bool) {
	if token == "" {
		return nil, false
	}
	session, ok := cache.GetFromCache[*Session](p.sessions, fmt.Sprintf(common.KEY_SESSION, token))
	if !ok {
		return nil, false
	}
	id := session.User
	return &id, true
}

// CurrentUser returns the identity the auth middleware attached to ctx.
func (p *Provider) CurrentUser(ctx context.Context) (*Identity, bool) {
	return FromContext(ctx)
}

// Subscribe registers fn for auth events and returns a function that removes it.
func (p *Provider) Subscribe(fn func(Event)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subscribers, id)
			p.mu.Unlock()
		})
	}
}

func (p *Provider) publish(ev Event) {
	p.mu.Lock()
	fns := make([]func(Event), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (p *Provider) openSession(kind EventKind, user *model.User) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := p.now()
	session := &Session{
		Token:     token,
		User:      Identity{ID: user.ID, Email: user.Email},
		ExpiresAt: now.Add(p.cfg.SessionTTL),
	}
	p.sessions.Set(fmt.Sprintf(common.KEY_SESSION, token), session, p.cfg.SessionTTL)

	p.publish(Event{Kind: kind, User: session.User, At: now})
	return session, nil
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
