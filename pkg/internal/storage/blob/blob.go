// Package blob 处理文档内容的二进制存储操作.
// 支持本地文件系统与 S3 两种后端，统一以存储路径（本地路径或对象键）寻址.
package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/yeisme/docvault/pkg/configs"
)

// hashChunkSize 哈希计算的分块大小.
const hashChunkSize = 4096

// Store 定义二进制内容存储接口.
type Store interface {
	// Put 以给定名称写入内容到活动区，返回存储路径与写入字节数.
	Put(ctx context.Context, name string, src io.Reader) (string, int64, error)
	// Open 打开存储路径对应的内容.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Remove 删除存储路径对应的内容，路径不存在时不报错.
	Remove(ctx context.Context, path string) error
	// Archive 将内容从活动区移动到归档区.
	// 内容缺失时返回 moved=false 且 err 为 nil，由调用方决定如何记录.
	Archive(ctx context.Context, path string) (newPath string, moved bool, err error)
	// Restore 将内容从归档区移回活动区.
	Restore(ctx context.Context, path string) (newPath string, moved bool, err error)
	// Exists 检查存储路径是否存在.
	Exists(ctx context.Context, path string) (bool, error)
	// Close 关闭存储连接.
	Close() error
}

// Client 包装 Store 实现.
type Client struct {
	Store
}

// Factory 定义创建 Store 的工厂函数类型.
type Factory func(ctx context.Context, cfg *configs.StorageConfig) (Store, error)

// storeFactories 存储后端类型到工厂的映射.
var storeFactories = map[configs.BlobBackend]Factory{}

// RegisterStoreFactory 注册存储后端工厂函数.
func RegisterStoreFactory(backend configs.BlobBackend, factory Factory) {
	storeFactories[backend] = factory
}

// GetRegisteredBackends 返回已注册的后端列表.
func GetRegisteredBackends() []configs.BlobBackend {
	backends := make([]configs.BlobBackend, 0, len(storeFactories))
	for backend := range storeFactories {
		backends = append(backends, backend)
	}

	return backends
}

// New 按配置创建存储客户端.
func New(ctx context.Context, cfg *configs.StorageConfig) (*Client, error) {
	factory, exists := storeFactories[cfg.Backend]
	if !exists {
		return nil, fmt.Errorf("unsupported blob backend: %s", cfg.Backend)
	}

	store, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init blob backend (%s): %w", cfg.Backend, err)
	}

	return &Client{Store: store}, nil
}

// HashReader 以固定分块计算内容的 SHA-256 摘要，返回十六进制串.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, hashChunkSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return "", fmt.Errorf("read content for hash: %w", err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// FileHash 计算本地文件的 SHA-256 摘要.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hash: %w", err)
	}
	defer f.Close()

	return HashReader(f)
}

// FileSize 返回本地文件的字节大小.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat file: %w", err)
	}

	return info.Size(), nil
}
