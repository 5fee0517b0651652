package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"podlab_backend/internal/config"
	"podlab_backend/internal/util"
	"podlab_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLocalContentService(t *testing.T) (*ContentService, string) {
	t.Helper()
	logger.Log = zap.NewNop()

	dir := t.TempDir()
	svc, err := NewContentService(config.ContentConfig{Type: "local", LocalPath: dir}, nil)
	require.NoError(t, err)
	return svc, dir
}

func TestContentFetchLocal(t *testing.T) {
	svc, dir := newLocalContentService(t)

	path := filepath.Join(dir, "content", "stages")
	require.NoError(t, os.MkdirAll(path, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "intro.md"), []byte("# Intro\n"), 0644))

	content, err := svc.Fetch(context.Background(), "content/stages/intro.md")
	require.NoError(t, err)
	assert.Equal(t, "# Intro\n", content)
}

func TestContentFetchMissing(t *testing.T) {
	svc, _ := newLocalContentService(t)

	_, err := svc.Fetch(context.Background(), "content/stages/missing.md")
	assert.ErrorIs(t, err, util.ErrContentNotFound)
}

func TestContentFetchRejectsTraversal(t *testing.T) {
	svc, dir := newLocalContentService(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "inside.md"), []byte("ok"), 0644))

	// 路径净化后 ../ 被剥掉，查找只会落在存储根目录内
	content, err := svc.Fetch(context.Background(), "../inside.md")
	require.NoError(t, err)
	assert.Equal(t, "ok", content)

	_, err = svc.Fetch(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, util.ErrContentNotFound)
}

func TestContentFetchEmptyPath(t *testing.T) {
	svc, _ := newLocalContentService(t)

	_, err := svc.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, util.ErrContentNotFound)
}
