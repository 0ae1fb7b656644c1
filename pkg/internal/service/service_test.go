package service_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/yeisme/docvault/pkg/configs"
	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/storage"
)

var configOnce sync.Once

// newTestEnv 构建隔离的测试环境：临时目录下的 SQLite 库、本地 Blob 存储、
// 内存 KV 与进程内 channel MQ，返回携带存储管理器的 context.
func newTestEnv(t *testing.T) context.Context {
	t.Helper()

	configOnce.Do(func() {
		dir := os.TempDir()

		cfgFile := filepath.Join(dir, "docvault-test-config.yaml")
		if err := os.WriteFile(cfgFile, []byte("reload: false\n"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		if err := configs.InitConfig(cfgFile); err != nil {
			t.Fatalf("init config: %v", err)
		}
	})

	tmp := t.TempDir()

	cfg := *configs.GetConfig()
	cfg.DB.Type = configs.SQLite
	cfg.DB.Database = filepath.Join(tmp, "docvault-test")
	cfg.Storage.Backend = configs.BlobBackendLocal
	cfg.Storage.StorageDir = filepath.Join(tmp, "storage")
	cfg.Storage.ArchiveDir = filepath.Join(tmp, "archive")
	cfg.Storage.TempDir = filepath.Join(tmp, "temp")
	cfg.KV.Type = "memory"
	cfg.MQ.Type = configs.MQTypeChannel

	mgr, err := storage.NewManager(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("new storage manager: %v", err)
	}

	t.Cleanup(func() {
		_ = mgr.Close()
	})

	return ctxPkg.WithStorageManager(context.Background(), mgr)
}

// writeTestFile 在临时目录写一个源文件并返回其路径.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	return path
}

// 时间戳布局小数位定宽，同一秒内不同写入的字典序必须与时间序一致.
func TestTimestampLayoutLexicalOrder(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	earlier := base.Add(500 * time.Millisecond)
	later := base.Add(510 * time.Millisecond)

	a := earlier.Format(service.ISOLayout)
	b := later.Format(service.ISOLayout)

	if len(a) != len(b) {
		t.Fatalf("layout not fixed width: %q vs %q", a, b)
	}

	if !(a < b) {
		t.Fatalf("lexical order diverges from temporal order: %q >= %q", a, b)
	}

	parsed, err := time.Parse(service.ISOLayout, a)
	if err != nil {
		t.Fatalf("parse %q: %v", a, err)
	}

	if !parsed.Equal(earlier) {
		t.Fatalf("round trip lost precision: %v != %v", parsed, earlier)
	}
}
