package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mediaflowhq/mediaflow-backend/internal/data/repos"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/apierr"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/ctxutil"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/envutil"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/logger"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// SetContextFromToken validates the bearer token and attaches the
	// resolved actor to the returned context.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	Me(ctx context.Context) (*types.User, error)
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *types.User `json:"user"`
}

type jwtClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	log       *logger.Logger
	users     repos.UserRepo
	secretKey string
	accessTTL time.Duration
}

func NewAuthService(log *logger.Logger, users repos.UserRepo) (AuthService, error) {
	secret := envutil.String("JWT_SECRET_KEY", "")
	if secret == "" {
		return nil, fmt.Errorf("missing env var JWT_SECRET_KEY")
	}
	return &authService{
		log:       log.With("service", "AuthService"),
		users:     users,
		secretKey: secret,
		accessTTL: time.Duration(envutil.Int("ACCESS_TOKEN_TTL_HOURS", 240)) * time.Hour,
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apierr.Validation("email and password required")
	}

	user, err := s.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		if apierr.IsKind(err, apierr.KindNotFound) {
			return nil, apierr.Unauthorized("invalid email or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apierr.Unauthorized("invalid email or password")
	}

	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secretKey))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.log.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResult{Token: token, User: user}, nil
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, apierr.Unauthorized("missing bearer token")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !parsed.Valid {
		return ctx, apierr.Unauthorized("invalid or expired token")
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok {
		return ctx, apierr.Unauthorized("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid subject in token")
	}

	// The user record is read fresh on every request so role or org changes
	// take effect without waiting out the token TTL.
	user, err := s.users.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		if apierr.IsKind(err, apierr.KindNotFound) {
			return ctx, apierr.Unauthorized("user no longer exists")
		}
		return ctx, err
	}

	actor := &ctxutil.Actor{
		UserID:   user.ID,
		Name:     user.Name,
		Role:     user.Role,
		ClientID: user.ClientID,
		AgencyID: user.AgencyID,
	}
	return ctxutil.WithActor(ctx, actor), nil
}

func (s *authService) Me(ctx context.Context) (*types.User, error) {
	actor := ctxutil.GetActor(ctx)
	if actor == nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	return s.users.GetByID(dbctx.Context{Ctx: ctx}, actor.UserID)
}
