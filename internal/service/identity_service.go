package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"podlab_backend/internal/config"
	"podlab_backend/internal/util"
	"podlab_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// IdentityService 负责把 Bearer token 解析成用户身份。
// 配置了 jwt_secret 时本地验签，否则调用身份提供方的用户端点。
// 解析结果写入 Redis 缓存，避免每个请求都打到远端。
type IdentityService struct {
	cfg    config.IdentityConfig
	rdb    *redis.Client
	client *http.Client
}

func NewIdentityService(cfg config.IdentityConfig, rdb *redis.Client) *IdentityService {
	return &IdentityService{
		cfg:    cfg,
		rdb:    rdb,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Resolve 验证 token 并返回身份信息
func (s *IdentityService) Resolve(ctx context.Context, token string) (*util.Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	cacheKey := s.cacheKey(token)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var identity util.Identity
			if err := json.Unmarshal([]byte(cached), &identity); err == nil {
				return &identity, nil
			}
		}
	}

	var identity *util.Identity
	var err error
	if s.cfg.JWTSecret != "" {
		identity, err = s.resolveLocal(token)
	} else {
		identity, err = s.resolveRemote(ctx, token)
	}
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(identity); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, s.cfg.CacheTTL).Err(); err != nil {
				logger.Log.Warn("缓存身份信息失败", zap.Error(err))
			}
		}
	}
	return identity, nil
}

func (s *IdentityService) resolveLocal(token string) (*util.Identity, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	identity := &util.Identity{UserID: sub}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	return identity, nil
}

func (s *IdentityService) resolveRemote(ctx context.Context, token string) (*util.Identity, error) {
	url := s.cfg.BaseURL + s.cfg.UserEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if s.cfg.APIKey != "" {
		req.Header.Set("apikey", s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Error("请求身份提供方失败", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var body struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.ID == "" {
		return nil, ErrInvalidToken
	}
	return &util.Identity{UserID: body.ID, Email: body.Email}, nil
}

// cacheKey 用 token 摘要做缓存键，避免原始 token 落到 Redis
func (s *IdentityService) cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "identity:" + hex.EncodeToString(sum[:])
}
