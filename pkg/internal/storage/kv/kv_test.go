package kv_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yeisme/docvault/pkg/internal/storage/kv"
)

// TestMemoryKVBasic 测试内存 KV 的基本 Set/Get/Delete/Exists 行为.
func TestMemoryKVBasic(t *testing.T) {
	ctx := context.Background()

	store, err := kv.NewKVStore(ctx, kv.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("create memory kv: %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, "doc-1", []byte("hello"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := store.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(got) != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}

	exists, err := store.Exists(ctx, "doc-1")
	if err != nil || !exists {
		t.Errorf("expected key to exist, got exists=%v err=%v", exists, err)
	}

	if err := store.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := store.Get(ctx, "doc-1"); err == nil {
		t.Error("expected error for deleted key, got nil")
	}
}

// TestMemoryKVTTL 测试带 TTL 的键过期后不可见.
func TestMemoryKVTTL(t *testing.T) {
	ctx := context.Background()

	store, err := kv.NewKVStore(ctx, kv.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("create memory kv: %v", err)
	}
	defer store.Close()

	// TTL 包装以秒为粒度，1ns 的 TTL 在下一秒边界前就会过期
	if err := store.Set(ctx, "expired", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)

	if _, err := store.Get(ctx, "expired"); err == nil {
		t.Error("expected expired key to be gone, got nil error")
	}

	if exists, _ := store.Exists(ctx, "expired"); exists {
		t.Error("expected expired key to not exist")
	}
}

// TestNewKVClientUnsupportedType 测试未注册类型返回错误.
func TestNewKVClientUnsupportedType(t *testing.T) {
	_, err := kv.NewKVStore(context.Background(), kv.KVType("bolt"), nil)
	if err == nil {
		t.Error("expected error for unsupported KV type, got nil")
	}
}

func BenchmarkMemoryKV(b *testing.B) {
	ctx := context.Background()

	store, err := kv.NewKVStore(ctx, kv.KVTypeMemory, nil)
	if err != nil {
		b.Fatalf("create memory kv: %v", err)
	}
	defer store.Close()

	payload := make([]byte, 1024)

	b.ReportAllocs()

	for i := 0; b.Loop(); i++ {
		key := fmt.Sprintf("bench-%d", i)
		if err := store.Set(ctx, key, payload, 0); err != nil {
			b.Fatalf("set failed: %v", err)
		}

		if _, err := store.Get(ctx, key); err != nil {
			b.Fatalf("get failed: %v", err)
		}

		if err := store.Delete(ctx, key); err != nil {
			b.Fatalf("delete failed: %v", err)
		}
	}
}
