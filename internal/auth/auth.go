// Package auth registers users and issues signed access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcfinanceiro/jcfinanceiro/internal/document"
	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// Roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
// password.
var ErrInvalidCredentials = errors.New("usuário ou senha inválidos")

// ErrInvalidToken is returned by Verify.
var ErrInvalidToken = errors.New("token inválido ou expirado")

// Store is the persistence auth needs.
type Store interface {
	CreateUser(ctx context.Context, u model.User) error
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// Claims are carried in every token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Service registers users and signs tokens.
type Service struct {
	store  Store
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an auth Service signing with secret.
func NewService(st Store, secret []byte, ttl time.Duration, logger *zap.Logger) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is not configured")
	}
	return &Service{store: st, secret: secret, ttl: ttl, logger: logger, now: time.Now}, nil
}

// Register creates a user. The first user ever registered is an admin
// regardless of role.
func (s *Service) Register(ctx context.Context, email, name, password, role string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var errs validation.Errors
	if !document.ValidEmail(email) {
		errs.Add("email", "e-mail inválido")
	}
	if msg := passwordProblem(password); msg != "" {
		errs.Add("password", "%s", msg)
	}
	if role == "" {
		role = RoleUser
	}
	if role != RoleAdmin && role != RoleUser {
		errs.Add("role", "perfil inválido: %s", role)
	}
	if err := errs.Err(); err != nil {
		return model.User{}, err
	}

	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	if n == 0 {
		role = RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}
	u := model.User{
		ID:           id.New(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return model.User{}, err
	}
	s.logger.Info("user registered", zap.String("email", email), zap.String("role", role))
	return u, nil
}

// passwordProblem returns a message describing why password is too weak, or
// "" when it is acceptable.
func passwordProblem(password string) string {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Sprintf("a senha deve ter pelo menos %d caracteres", MinPasswordLength)
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return "a senha deve conter letras maiúsculas, minúsculas e números"
	}
	return ""
}

// Login checks the password and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, model.User, error) {
	u, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, store.ErrNotFound) {
		return "", model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", model.User{}, ErrInvalidCredentials
	}

	now := s.now()
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", model.User{}, fmt.Errorf("signing token: %w", err)
	}
	return token, u, nil
}

// Verify parses token and returns its claims.
func (s *Service) Verify(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.Debug("token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
