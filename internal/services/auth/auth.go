// Package auth реализует шлюз аутентификации: проверку email и пароля,
// выпуск и продление токенов сессии, регистрацию клиентов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/barbershop-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/password"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/metrics"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
	"github.com/magabrotheeeer/barbershop-booking/internal/storage"
)

var (
	// ErrNotFound пользователь с таким email не зарегистрирован.
	ErrNotFound = errors.New("identity not found")
	// ErrInvalidCredential пароль не совпал с сохранённым хэшем.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrUnauthenticated нет действительной сессии.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrEmailTaken email уже используется.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPasswordTooLong пароль не помещается в bcrypt.
	ErrPasswordTooLong = errors.New("password too long")
)

// UserRepository хранилище пользователей.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Session выпущенный токен и данные, зашитые в него.
type Session struct {
	Token     string          `json:"token"`
	Identity  models.Identity `json:"identity"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Service шлюз аутентификации.
type Service struct {
	log     *slog.Logger
	users   UserRepository
	tokens  jwt.Maker
	ttl     time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService создаёт шлюз аутентификации. m может быть nil.
func NewService(log *slog.Logger, users UserRepository, tokens jwt.Maker, ttl time.Duration, m *metrics.Metrics) *Service {
	return &Service{
		log:     log,
		users:   users,
		tokens:  tokens,
		ttl:     ttl,
		metrics: m,
		now:     time.Now,
	}
}

// Authenticate проверяет email и пароль.
//
// Для неизвестного email выполняется холостое сравнение bcrypt, чтобы по времени ответа
// нельзя было понять, существует ли аккаунт. Хэш пароля наружу не возвращается.
func (s *Service) Authenticate(ctx context.Context, email, rawPassword string) (models.Identity, error) {
	const op = "auth.Authenticate"
	log := s.log.With(slog.String("op", op), slog.String("email", sl.MaskEmail(email)))

	user, err := s.users.GetUserByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		_ = password.CompareDummy(rawPassword)
		s.metrics.Login(metrics.OutcomeBadPassword)
		log.Info("unknown email")
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		s.metrics.Login(metrics.OutcomeError)
		log.Error("failed to load user", sl.Err(err))
		return models.Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			log.Error("stored password hash is unusable", slog.String("user_id", user.UUID), sl.Err(err))
		}
		s.metrics.Login(metrics.OutcomeBadPassword)
		log.Info("password mismatch", slog.String("user_id", user.UUID))
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrInvalidCredential)
	}

	s.metrics.Login(metrics.OutcomeSuccess)
	return user.Identity(), nil
}

// IssueSession выпускает подписанный токен с id и ролью.
func (s *Service) IssueSession(identity models.Identity) (Session, error) {
	const op = "auth.IssueSession"
	token, err := s.tokens.GenerateToken(identity.ID, identity.Role)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return Session{
		Token:     token,
		Identity:  identity,
		ExpiresAt: s.now().Add(s.ttl),
	}, nil
}

// Login объединяет Authenticate и IssueSession.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (Session, error) {
	identity, err := s.Authenticate(ctx, email, rawPassword)
	if err != nil {
		return Session{}, err
	}
	return s.IssueSession(identity)
}

// Register создаёт клиента и сразу открывает для него сессию.
func (s *Service) Register(ctx context.Context, email, name, rawPassword string) (Session, error) {
	const op = "auth.Register"
	log := s.log.With(slog.String("op", op), slog.String("email", sl.MaskEmail(email)))

	hashed, err := password.GetHash(rawPassword)
	if errors.Is(err, password.ErrTooLong) {
		return Session{}, fmt.Errorf("%s: %w", op, ErrPasswordTooLong)
	}
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		UUID:         uuid.NewString(),
		Email:        models.NormalizeEmail(email),
		PasswordHash: hashed,
		Name:         strings.TrimSpace(name),
		Role:         models.RoleClient,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			log.Info("email already registered")
			return Session{}, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		log.Error("failed to create user", sl.Err(err))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("client registered", slog.String("user_id", user.UUID))
	return s.IssueSession(user.Identity())
}

// Verify проверяет токен и возвращает владельца сессии.
func (s *Service) Verify(token string) (models.Identity, error) {
	const op = "auth.Verify"
	if token == "" {
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s: %w: %w", op, ErrUnauthenticated, err)
	}
	return models.Identity{ID: claims.UserID, Role: claims.Role}, nil
}

// Renew перевыпускает токен, если он достаточно стар. false означает, что продлевать рано.
func (s *Service) Renew(claims *jwt.CustomClaims) (Session, bool, error) {
	if claims == nil || !s.tokens.NeedsRenewal(claims) {
		return Session{}, false, nil
	}
	session, err := s.IssueSession(models.Identity{ID: claims.UserID, Role: claims.Role})
	if err != nil {
		return Session{}, false, err
	}
	return session, true, nil
}
