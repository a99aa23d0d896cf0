package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/netra/internal/events"
	"github.com/Skotchmaster/netra/internal/logging"
	"github.com/Skotchmaster/netra/internal/models"
	"github.com/Skotchmaster/netra/internal/repo"
	"github.com/Skotchmaster/netra/internal/tokens"
)

var (
	ErrValidation         = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUnavailable        = errors.New("service temporarily unavailable")
)

type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// PasswordChecker is satisfied by *hash.Hasher.
type PasswordChecker interface {
	CheckPassword(hash, password string) bool
	CheckDummy(password string)
}

type AuthService struct {
	Users  UserStore
	Hasher PasswordChecker
	Tokens *tokens.Issuer
	Audit  events.Publisher
	Now    func() time.Time
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *AuthService) audit(ctx context.Context, e events.LoginEvent) {
	if s.Audit == nil {
		return
	}
	e.At = s.now().UTC()
	if err := s.Audit.PublishLogin(ctx, e); err != nil {
		logging.FromContext(ctx).Error("audit_publish_failed", "type", e.Type, "error", err)
	}
}

// Login always runs one bcrypt comparison, against a dummy hash when the
// username is unknown, so the response time does not reveal which usernames
// exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		l.Warn("login_failed", "status", 400, "reason", "missing credentials")
		return nil, ErrValidation
	}

	user, err := s.Users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			s.Hasher.CheckDummy(password)
			l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
			s.audit(ctx, events.LoginEvent{Type: events.TypeLoginFailed, Username: username, Reason: "invalid_credentials"})
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 503, "reason", "credential store unavailable", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if !s.Hasher.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		s.audit(ctx, events.LoginEvent{Type: events.TypeLoginFailed, Username: username, Reason: "invalid_credentials"})
		return nil, ErrInvalidCredentials
	}

	if !user.Role.Valid() {
		l.Error("login_failed", "status", 401, "reason", "stored role outside allowed set", "role", string(user.Role))
		s.audit(ctx, events.LoginEvent{Type: events.TypeLoginFailed, Username: username, Reason: "invalid_role"})
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.Tokens.Issue(tokens.Identity{
		Username:      user.Username,
		Role:          string(user.Role),
		FullName:      user.FullName,
		Department:    user.Department,
		AssignedClass: user.AssignedClass,
	})
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	l.Info("login_successful", "role", string(user.Role))
	s.audit(ctx, events.LoginEvent{Type: events.TypeLoginSucceeded, Username: username, Role: string(user.Role)})

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   exp,
		User:        user,
	}, nil
}
