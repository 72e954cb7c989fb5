package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweetshop/sweet-shop/internal/api/metrics"
	"github.com/sweetshop/sweet-shop/internal/core/domain"
	"github.com/sweetshop/sweet-shop/internal/core/ports"
)

// ErrInvalidToken is returned by Verify for tokens that fail parsing or signature checks.
var ErrInvalidToken = errors.New("invalid token")

// accessClaims is the JWT payload: sub carries the email.
type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo      ports.AuthRepository
	revoker   ports.TokenRevoker
	jwtSecret string
	adminKey  string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// AuthOptions configures an AuthService.
type AuthOptions struct {
	JWTSecret string
	AdminKey  string
	TokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, revoker ports.TokenRevoker, opts AuthOptions, log zerolog.Logger) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		revoker:   revoker,
		jwtSecret: opts.JWTSecret,
		adminKey:  opts.AdminKey,
		tokenTTL:  opts.TokenTTL,
		log:       log,
	}
}

// Register creates an account. An already registered email is returned as-is
// with Created=false; its password and role are not changed.
func (s *AuthService) Register(ctx context.Context, email, password, adminKey string) (*ports.RegisterResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return &ports.RegisterResult{User: existing}, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if s.adminKey != "" && adminKey == s.adminKey {
		role = domain.RoleAdmin
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrUserExists) {
		// lost a race with a concurrent registration
		existing, findErr := s.repo.FindByEmail(ctx, email)
		if findErr != nil {
			return nil, fmt.Errorf("register: %w", findErr)
		}
		return &ports.RegisterResult{User: existing}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.UsersRegisteredTotal.WithLabelValues(role).Inc()
	s.log.Info().Str("email", email).Str("role", role).Msg("user registered")
	return &ports.RegisterResult{User: created, Created: true}, nil
}

// Login checks the password and issues a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

// Logout revokes the token identified by claims until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims domain.Claims) error {
	if s.revoker == nil || claims.TokenID == "" {
		return nil
	}
	until := claims.ExpiresAt
	if until.IsZero() {
		until = time.Now().Add(s.tokenTTL)
	}
	if err := s.revoker.Revoke(ctx, claims.TokenID, until); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("email", claims.Email).Msg("token revoked")
	return nil
}

// Verify validates signature, algorithm and expiry, then consults the revocation list.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.Claims, error) {
	var ac accessClaims
	tkn, err := jwt.ParseWithClaims(token, &ac, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid || ac.Subject == "" {
		return nil, ErrInvalidToken
	}

	claims := &domain.Claims{
		Email:   ac.Subject,
		Role:    ac.Role,
		TokenID: ac.ID,
	}
	if ac.ExpiresAt != nil {
		claims.ExpiresAt = ac.ExpiresAt.Time
	}
	if claims.Role == "" {
		claims.Role = domain.RoleUser
	}

	if s.revoker != nil && claims.TokenID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		if revoked {
			return nil, domain.ErrTokenRevoked
		}
	}
	return claims, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := accessClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
