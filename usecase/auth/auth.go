package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/repository"
)

// Credentials is the login input.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RequestMeta carries provenance captured at login time.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Token is the issued bearer token handed back to the client.
type Token struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Claims is the JWT payload. The session id ties the token to a revocable
// Redis entry; the embedded user data is everything authorization needs.
type Claims struct {
	SessionID string       `json:"sid"`
	User      domain.Actor `json:"user"`
	IPAddress string       `json:"ip_address,omitempty"`
	UserAgent string       `json:"user_agent,omitempty"`
	jwt.RegisteredClaims
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	secret   []byte
	issuer   string
	ttl      time.Duration
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, secret, issuer string, ttl time.Duration, logger *zap.Logger) *UseCase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		issuer:   issuer,
		ttl:      ttl,
		logger:   logger,
	}
}

// Login validates the credentials, creates a revocable session and signs
// a bearer token carrying the session and the acting user.
func (uc *UseCase) Login(ctx context.Context, creds Credentials, meta RequestMeta) (*Token, error) {
	if err := domain.ValidateCommand(creds); err != nil {
		return nil, err
	}

	user, err := uc.users.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		uc.logger.Warn("failed login attempt", zap.String("username", creds.Username))
		return nil, domain.ErrInvalidCredential
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		User:      user.Data(),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	claims := Claims{
		SessionID: session.ID,
		User:      session.User,
		IPAddress: session.IPAddress,
		UserAgent: session.UserAgent,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    uc.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to sign token", err)
	}

	uc.logger.Info("user authenticated",
		zap.String("user_id", user.ID),
		zap.String("session_id", session.ID))
	return &Token{Type: "bearer", Token: signed}, nil
}

// Verify parses a bearer token and confirms the backing session is still
// alive, returning the acting identity.
func (uc *UseCase) Verify(ctx context.Context, tokenString string) (domain.Actor, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return uc.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Actor{}, domain.ErrUnauthorized
	}

	session, err := uc.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Actor{}, domain.ErrUnauthorized
		}
		return domain.Actor{}, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, session.ID)
		return domain.Actor{}, domain.ErrUnauthorized
	}

	return claims.User, nil
}

// Logout revokes the session referenced by the token, invalidating it
// before its natural expiry.
func (uc *UseCase) Logout(ctx context.Context, tokenString string) error {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return uc.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.ErrUnauthorized
	}
	return uc.sessions.Delete(ctx, claims.SessionID)
}
