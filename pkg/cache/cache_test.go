package cache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yeisme/docvault/pkg/cache"
)

// TestDoc 测试用的文档结构体.
type TestDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// mockKVStore 模拟KV存储实现.
type mockKVStore struct {
	data map[string][]byte
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{
		data: make(map[string][]byte),
	}
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if value, exists := m.data[key]; exists {
		return value, nil
	}

	return nil, fmt.Errorf("key not found")
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockKVStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockKVStore) Exists(ctx context.Context, key string) (bool, error) {
	_, exists := m.data[key]
	return exists, nil
}

func (m *mockKVStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}

	return keys, nil
}

func (m *mockKVStore) Close() error {
	return nil
}

// TestCacheSetGet 测试 Set/Get 往返.
func TestCacheSetGet(t *testing.T) {
	c := cache.NewCache(newMockKVStore())
	ctx := context.Background()

	// 获取不存在的键
	if _, err := cache.Get[TestDoc](ctx, c, "missing"); err == nil {
		t.Error("expected error for nonexistent key")
	}

	doc := TestDoc{ID: "abc", Name: "report.txt", Size: 42}

	if err := cache.Set(ctx, c, "doc:abc", doc, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := cache.Get[TestDoc](ctx, c, "doc:abc")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if got != doc {
		t.Errorf("expected %+v, got %+v", doc, got)
	}
}

// TestCacheGetOrSet 测试未命中时回源，命中时不回源.
func TestCacheGetOrSet(t *testing.T) {
	c := cache.NewCache(newMockKVStore())
	ctx := context.Background()

	calls := 0
	getter := func() (TestDoc, error) {
		calls++
		return TestDoc{ID: "x", Name: "generated"}, nil
	}

	doc, err := cache.GetOrSet(ctx, c, "doc:x", getter, time.Minute)
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}

	if doc.Name != "generated" || calls != 1 {
		t.Errorf("expected one getter call, got %d", calls)
	}

	// 第二次命中缓存，不再回源
	if _, err := cache.GetOrSet(ctx, c, "doc:x", getter, time.Minute); err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected getter not called again, got %d calls", calls)
	}

	// getter 报错时透传错误
	wantErr := errors.New("db down")
	_, err = cache.GetOrSet(ctx, c, "doc:y", func() (TestDoc, error) {
		return TestDoc{}, wantErr
	}, time.Minute)

	if !errors.Is(err, wantErr) {
		t.Errorf("expected getter error, got %v", err)
	}
}

// TestCacheKey 测试键折叠的稳定性与前缀保留.
func TestCacheKey(t *testing.T) {
	k1 := cache.Key("search", "alice", `{"query":"report"}`)
	k2 := cache.Key("search", "alice", `{"query":"report"}`)
	k3 := cache.Key("search", "bob", `{"query":"report"}`)

	if k1 != k2 {
		t.Errorf("expected stable key, got %s vs %s", k1, k2)
	}

	if k1 == k3 {
		t.Error("expected different keys for different inputs")
	}

	if len(k1) == 0 || k1[:7] != "search:" {
		t.Errorf("expected 'search:' prefix, got %s", k1)
	}
}
