package token

// Admin session tokens. The original deployment kept admin sessions in a
// process-global map, which lost every session on restart and could not be
// shared between replicas. Tokens are now JWTs whose jti must still exist
// in redis, so Revoke works and restarts keep sessions alive.

import (
	"context"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
)

const tokenPrefix = "admin:token"

// Session is the identity carried by a validated admin token.
type Session struct {
	Username   string
	Role       string
	Department *int32
}

// Store issues, validates and revokes admin tokens.
type Store interface {
	Issue(ctx context.Context, session Session) (token string, expiresIn int, err error)
	Validate(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, token string) error
}

type redisStore struct {
	client *redislib.Client
	secret []byte
	prefix string
	ttl    time.Duration
}

// NewStore builds a redis-backed Store. keyPrefix namespaces the revocation
// keys, normally redis.Key(tokenPrefix).
func NewStore(client *redislib.Client, secret []byte, keyPrefix string, ttl time.Duration) Store {
	return &redisStore{
		client: client,
		secret: secret,
		prefix: keyPrefix,
		ttl:    ttl,
	}
}

func (s *redisStore) key(jti string) string {
	return s.prefix + ":" + jti
}

func (s *redisStore) Issue(ctx context.Context, session Session) (string, int, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	jti := uuid.NewString()

	claims := jwtv5.MapClaims{
		"sub": session.Username,
		"rol": session.Role,
		"jti": jti,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}
	if session.Department != nil {
		claims["dep"] = *session.Department
	}

	tokenObj := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	token, err := tokenObj.SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign admin token: %w", err)
	}

	if err := s.client.Set(ctx, s.key(jti), session.Username, s.ttl).Err(); err != nil {
		return "", 0, fmt.Errorf("failed to record admin token: %w", err)
	}

	return token, int(time.Until(expiresAt).Seconds()), nil
}

func (s *redisStore) Validate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.parseClaims(token)
	if err != nil {
		return nil, err
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, errors.ErrInvalidTokenClaims
	}

	exists, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin token: %w", err)
	}
	if exists == 0 {
		return nil, errors.ErrTokenRevoked
	}

	session := &Session{}
	session.Username, _ = claims["sub"].(string)
	session.Role, _ = claims["rol"].(string)
	if dep, ok := claims["dep"].(float64); ok {
		v := int32(dep)
		session.Department = &v
	}

	if session.Username == "" || session.Role == "" {
		return nil, errors.ErrInvalidTokenClaims
	}

	return session, nil
}

func (s *redisStore) Revoke(ctx context.Context, token string) error {
	claims, err := s.parseClaims(token)
	if err != nil {
		return err
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return errors.ErrInvalidTokenClaims
	}

	return s.client.Del(ctx, s.key(jti)).Err()
}

func (s *redisStore) parseClaims(token string) (jwtv5.MapClaims, error) {
	parsed, err := jwtv5.ParseWithClaims(token, jwtv5.MapClaims{}, func(t *jwtv5.Token) (interface{}, error) {
		if t.Method != jwtv5.SigningMethodHS256 {
			return nil, fmt.Errorf("%w: %v, expected HS256", errors.ErrUnexpectedSigningAlg, t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, errors.ErrInvalidTokenClaims
	}

	return claims, nil
}

var defaultStore Store

// Init wires the package-level store. The admin middleware validates against
// it, so Init runs before the router is registered in cmd/server.
func Init(client *redislib.Client, secret []byte, keyPrefix string, ttl time.Duration) {
	defaultStore = NewStore(client, secret, keyPrefix, ttl)
}

// Default returns the shared store.
func Default() (Store, error) {
	if defaultStore == nil {
		return nil, errors.ErrTokenStoreUninitial
	}
	return defaultStore, nil
}
