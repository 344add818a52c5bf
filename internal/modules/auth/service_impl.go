package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/kantin-app/kantin-backend/internal/modules/user"
)

// sessionTTL is the fixed lifetime of an issued token.
const sessionTTL = 24 * time.Hour

// Claims is the token payload: identity plus role and store affiliation.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	StoreID  string `json:"store_id,omitempty"`
	jwt.StandardClaims
}

type service struct {
	userRepo user.Repository
	rdb      *redis.Client
	jwtKey   []byte
	nowFunc  func() time.Time
}

// NewService creates a new auth service. The Redis client backs the token
// revocation list consulted on every Verify.
func NewService(userRepo user.Repository, rdb *redis.Client, jwtKey []byte) Service {
	return &service{
		userRepo: userRepo,
		rdb:      rdb,
		jwtKey:   jwtKey,
		nowFunc:  time.Now,
	}
}

func (s *service) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	var u *user.User
	var err error
	if strings.Contains(identifier, "@") {
		u, err = s.userRepo.GetUserByEmail(ctx, identifier)
	} else {
		u, err = s.userRepo.GetUserByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, ErrUnknownIdentifier
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	now := s.nowFunc()
	claims := &Claims{
		Username: u.Username,
		Role:     string(u.Role),
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			Id:        uuid.New().String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(sessionTTL).Unix(),
		},
	}
	if u.StoreID != nil {
		claims.StoreID = u.StoreID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: tokenString, User: u}, nil
}

func (s *service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.Verify(ctx, tokenString)
	if err != nil {
		// An expired or already-revoked token needs no revocation entry.
		return nil
	}
	remaining := time.Unix(claims.ExpiresAt, 0).Sub(s.nowFunc())
	if remaining <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedKey(claims.Id), "1", remaining).Err()
}

func (s *service) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrSessionExpired
	}
	if claims.ExpiresAt <= s.nowFunc().Unix() {
		return nil, ErrSessionExpired
	}

	revoked, err := s.rdb.Exists(ctx, revokedKey(claims.Id)).Result()
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked > 0 {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}
