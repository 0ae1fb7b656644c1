package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yeisme/docvault/pkg/configs"
	nlog "github.com/yeisme/docvault/pkg/log"
)

// LocalStore 基于本地文件系统的存储实现.
// 活动区与归档区是两个目录，归档即跨目录移动文件.
type LocalStore struct {
	storageDir string
	archiveDir string
}

// NewLocalStore 创建本地存储实例，确保目录存在.
func NewLocalStore(ctx context.Context, cfg *configs.StorageConfig) (Store, error) {
	for _, dir := range []string{cfg.StorageDir, cfg.ArchiveDir, cfg.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}

	nlog.Logger().Info().
		Str("storage_dir", cfg.StorageDir).
		Str("archive_dir", cfg.ArchiveDir).
		Msg("local blob store ready")

	return &LocalStore{
		storageDir: cfg.StorageDir,
		archiveDir: cfg.ArchiveDir,
	}, nil
}

// Put 写入内容到活动区.
func (l *LocalStore) Put(ctx context.Context, name string, src io.Reader) (string, int64, error) {
	path := filepath.Join(l.storageDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create blob file: %w", err)
	}

	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		// 写入失败时清掉半成品
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write blob file: %w", err)
	}

	return path, n, nil
}

// Open 打开存储路径对应的文件.
func (l *LocalStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open blob file: %w", err)
	}

	return f, nil
}

// Remove 删除文件，不存在时视为成功.
func (l *LocalStore) Remove(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob file: %w", err)
	}

	return nil
}

// Archive 将文件移动到归档目录.
func (l *LocalStore) Archive(ctx context.Context, path string) (string, bool, error) {
	return l.move(path, l.archiveDir)
}

// Restore 将文件移回活动目录.
func (l *LocalStore) Restore(ctx context.Context, path string) (string, bool, error) {
	return l.move(path, l.storageDir)
}

// move 跨目录移动文件，源缺失时原路径原样返回且 moved=false.
func (l *LocalStore) move(path, destDir string) (string, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, false, nil
	}

	newPath := filepath.Join(destDir, filepath.Base(path))

	if err := os.Rename(path, newPath); err != nil {
		return "", false, fmt.Errorf("move blob file: %w", err)
	}

	return newPath, true, nil
}

// Exists 检查文件是否存在.
func (l *LocalStore) Exists(ctx context.Context, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("stat blob file: %w", err)
	}

	return true, nil
}

// Close 关闭存储（本地实现无需操作）.
func (l *LocalStore) Close() error {
	return nil
}

func init() {
	RegisterStoreFactory(configs.BlobBackendLocal, NewLocalStore)
}
