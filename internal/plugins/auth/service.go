package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/session"
)

// Gateway is the part of the backend client the auth service uses.
type Gateway interface {
	ObtainToken(ctx context.Context, username, password string) (*backend.TokenPair, error)
	Register(ctx context.Context, input backend.RegisterInput) error
	Me(ctx context.Context, access string) (*backend.User, error)
	Authorized(creds backend.Credentials) backend.Requester
}

// clientGateway adapts *backend.Client to Gateway.
type clientGateway struct {
	*backend.Client
}

func (g clientGateway) Authorized(creds backend.Credentials) backend.Requester {
	return g.Client.Authorized(creds)
}

// GatewayFor wraps a backend client.
func GatewayFor(client *backend.Client) Gateway {
	return clientGateway{client}
}

// SessionDropper forgets per-session state held outside Redis, such as the
// live editing controllers.
type SessionDropper interface {
	DropSession(sessionID string)
}

// AuthService defines the business logic contract for authentication.
type AuthService interface {
	// Login exchanges credentials for tokens and opens a session.
	Login(ctx context.Context, req LoginRequest) (*session.Session, error)

	// Register creates the account and signs the new user in.
	Register(ctx context.Context, req RegisterRequest) (*session.Session, error)

	// Open resolves a session cookie value.
	Open(ctx context.Context, sessionID string) (*session.Session, error)

	// Logout destroys the session and everything kept for it.
	Logout(ctx context.Context, sessionID string) error

	// Requester returns the authorized backend requester of a session.
	Requester(sess *session.Session) backend.Requester
}

type authService struct {
	gw       Gateway
	sessions *session.Manager
	dropper  SessionDropper
}

// NewAuthService creates an auth service. dropper may be nil.
func NewAuthService(gw Gateway, sessions *session.Manager, dropper SessionDropper) AuthService {
	return &authService{gw: gw, sessions: sessions, dropper: dropper}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*session.Session, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperror.NewValidation(msgBadCredentials)
	}

	pair, err := s.gw.ObtainToken(ctx, username, req.Password)
	if err != nil {
		if backend.IsStatus(err, http.StatusUnauthorized) || backend.IsStatus(err, http.StatusBadRequest) {
			return nil, apperror.NewValidation(msgBadCredentials).WithInternal(err)
		}
		return nil, apperror.FromBackend(err, msgBadCredentials)
	}

	user, err := s.gw.Me(ctx, pair.Access)
	if err != nil {
		return nil, apperror.FromBackend(err, msgBadCredentials)
	}

	sess, err := s.sessions.Create(ctx, session.Data{
		Access:     pair.Access,
		Refresh:    pair.Refresh,
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Credits:    user.Credits,
		AdminLevel: user.AdminLevel,
	})
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	slog.Info("user logged in", slog.Int("user_id", user.ID), slog.String("username", user.Username))
	return sess, nil
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*session.Session, error) {
	if msg := validateRegisterRequest(req); msg != "" {
		return nil, apperror.NewValidation(msg)
	}

	err := s.gw.Register(ctx, backend.RegisterInput{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		Password2: req.Password2,
	})
	if err != nil {
		var se *backend.StatusError
		if errors.As(err, &se) && se.Code == http.StatusBadRequest {
			msg := se.Detail()
			if msg == "" {
				msg = msgRegisterFailed
			}
			return nil, apperror.NewValidation(msg).WithInternal(err)
		}
		return nil, apperror.FromBackend(err, msgRegisterFailed)
	}

	slog.Info("user registered", slog.String("username", req.Username))
	return s.Login(ctx, LoginRequest{Username: req.Username, Password: req.Password})
}

func (s *authService) Open(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Open(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, apperror.NewUnauthorized("Войдите, чтобы продолжить.")
		}
		return nil, apperror.NewInternal(fmt.Errorf("opening session: %w", err))
	}
	return sess, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if s.dropper != nil {
		s.dropper.DropSession(sessionID)
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

func (s *authService) Requester(sess *session.Session) backend.Requester {
	return s.gw.Authorized(sess)
}

// validateRegisterRequest mirrors the backend's rules so that common
// mistakes are reported without a round trip.
func validateRegisterRequest(req RegisterRequest) string {
	if strings.TrimSpace(req.Username) == "" {
		return msgUsernameMissing
	}
	if !strings.Contains(req.Email, "@") {
		return msgEmailInvalid
	}
	if n := utf8.RuneCountInString(req.Password); n < minPasswordLen || n > maxPasswordLen {
		return msgPasswordLength
	}
	if req.Password != req.Password2 {
		return msgPasswordsDiffer
	}
	return ""
}
