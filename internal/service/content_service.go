package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"podlab_backend/internal/config"
	"podlab_backend/internal/util"
	"podlab_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const contentCacheTTL = 5 * time.Minute

// ContentService 读取 Pod 关联的 Markdown 内容文件。
// 支持本地目录和 MinIO 两种后端，读取结果写入 Redis 缓存。
type ContentService struct {
	cfg   config.ContentConfig
	rdb   *redis.Client
	minio *minio.Client
}

func NewContentService(cfg config.ContentConfig, rdb *redis.Client) (*ContentService, error) {
	s := &ContentService{cfg: cfg, rdb: rdb}
	if cfg.Type == "minio" {
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		s.minio = client
	}
	return s, nil
}

// Fetch 按相对路径读取内容文件
func (s *ContentService) Fetch(ctx context.Context, path string) (string, error) {
	cleaned, err := sanitizeContentPath(path)
	if err != nil {
		return "", err
	}

	cacheKey := "content:" + cleaned
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			return cached, nil
		}
	}

	var content string
	if s.minio != nil {
		content, err = s.fetchMinio(ctx, cleaned)
	} else {
		content, err = s.fetchLocal(cleaned)
	}
	if err != nil {
		return "", err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, cacheKey, content, contentCacheTTL).Err(); err != nil {
			logger.Log.Warn("缓存内容文件失败", zap.String("path", cleaned), zap.Error(err))
		}
	}
	return content, nil
}

// Invalidate 内容更新后清理缓存
func (s *ContentService) Invalidate(ctx context.Context, path string) {
	if s.rdb == nil {
		return
	}
	cleaned, err := sanitizeContentPath(path)
	if err != nil {
		return
	}
	s.rdb.Del(ctx, "content:"+cleaned)
}

func (s *ContentService) fetchLocal(path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.cfg.LocalPath, filepath.FromSlash(path)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", util.ErrContentNotFound
		}
		return "", err
	}
	return string(data), nil
}

func (s *ContentService) fetchMinio(ctx context.Context, path string) (string, error) {
	obj, err := s.minio.GetObject(ctx, s.cfg.MinioBucket, path, minio.GetObjectOptions{})
	if err != nil {
		return "", err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		var respErr minio.ErrorResponse
		if errors.As(err, &respErr) && respErr.Code == "NoSuchKey" {
			return "", util.ErrContentNotFound
		}
		return "", err
	}
	return string(data), nil
}

// sanitizeContentPath 拒绝跳出存储根目录的路径
func sanitizeContentPath(path string) (string, error) {
	if path == "" {
		return "", util.ErrContentNotFound
	}
	cleaned := filepath.ToSlash(filepath.Clean("/" + path))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", util.ErrContentNotFound
	}
	return cleaned, nil
}
