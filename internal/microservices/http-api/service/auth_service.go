package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookrental/internal/config"
	"bookrental/internal/middleware/auth"
	"bookrental/internal/microservices/http-api/models"
	"bookrental/internal/microservices/http-api/repository"
	"bookrental/internal/validation"
)

// dummySalt is hashed against when the email is unknown so that a miss
// costs the same single derivation as a hit.
var dummySalt = bytes.Repeat([]byte{0x5a}, auth.SaltSize)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=1024"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*Principal, error)
	IssueToken(ctx context.Context, p Principal) (string, error)
	ValidateToken(ctx context.Context, token string) (*Principal, error)
	Login(ctx context.Context, email, password string) (string, *Principal, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	userRepo   repository.UserRepository
	sessions   repository.SessionRepository
	hasher     *auth.Hasher
	validator  *validation.Validator
	logger     *slog.Logger
	jwtSecret  []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessions repository.SessionRepository,
	hasher *auth.Hasher,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		sessions:   sessions,
		hasher:     hasher,
		validator:  validation.New(),
		logger:     logger,
		jwtSecret:  []byte(cfg.JWTSecret),
		sessionTTL: cfg.SessionTTL,
		now:        time.Now,
	}
}

// sessionClaims is the token payload: the principal plus the session id
// (jti) used for revocation.
type sessionClaims struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Register creates a user with a fresh salt. The email pre-check gives a
// clean error in the common case; the unique index settles races.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	salt, err := auth.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Derive(in.Password, salt)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Salt:         salt,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	s.logger.Info("user_registered", "user_id", user.ID)
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*Principal, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		// User not found: burn one derivation so timing does not reveal it.
		if hash, derr := s.hasher.Derive(password, dummySalt); derr == nil {
			auth.Verify(hash, make([]byte, len(hash)))
		}
		return nil, ErrInvalidCredentials
	}

	candidate, err := s.hasher.Derive(password, user.Salt)
	if err != nil {
		return nil, err
	}
	if !auth.Verify(candidate, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &Principal{ID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin}, nil
}

// IssueToken signs a session token for p and records its id.
func (s *authService) IssueToken(ctx context.Context, p Principal) (string, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.sessionTTL)
	sessionID := uuid.NewString()

	claims := sessionClaims{
		UserID:  p.ID,
		Email:   p.Email,
		IsAdmin: p.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	if err := s.sessions.Create(ctx, &models.Session{
		ID:        sessionID,
		UserID:    p.ID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateToken rebuilds the principal from the token claims. The user row
// is not consulted, so an admin flag change shows up only after re-login.
func (s *authService) ValidateToken(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	active, err := s.sessions.IsActive(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrInvalidToken
	}

	return &Principal{ID: claims.UserID, Email: claims.Email, IsAdmin: claims.IsAdmin}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *Principal, error) {
	p, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.IssueToken(ctx, *p)
	if err != nil {
		return "", nil, err
	}
	return token, p, nil
}

// Logout revokes the session behind token. Unparseable or unknown tokens
// are ignored so logout always succeeds from the caller's point of view.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		s.logger.Warn("session_revoke_failed", "error", err)
	}
	return nil
}

func (s *authService) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
