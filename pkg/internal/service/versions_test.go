package service_test

import (
	"errors"
	"testing"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
)

func TestCreateDocumentVersionMonotonic(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	id, err := svc.AddDocument(ctx, writeTestFile(t, "v.txt", "first"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	v2, err := svc.CreateDocumentVersion(ctx, id, writeTestFile(t, "v.txt", "second"), "bob", "second draft")
	if err != nil {
		t.Fatalf("CreateDocumentVersion: %v", err)
	}

	if _, err := svc.CreateDocumentVersion(ctx, id, writeTestFile(t, "v.txt", "third"), "bob", "third draft"); err != nil {
		t.Fatalf("CreateDocumentVersion: %v", err)
	}

	versions, err := svc.GetDocumentVersions(ctx, id)
	if err != nil {
		t.Fatalf("GetDocumentVersions: %v", err)
	}

	if len(versions) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(versions))
	}

	// 版本号严格递增，列表按版本号倒序
	for i, want := range []int{3, 2, 1} {
		if versions[i].VersionNumber != want {
			t.Errorf("versions[%d].VersionNumber = %d, want %d", i, versions[i].VersionNumber, want)
		}
	}

	if versions[1].ID != v2 || versions[1].ChangeDescription != "second draft" {
		t.Errorf("version row mismatch: %+v", versions[1])
	}

	// 父文档的版本指针始终等于最大版本号，内容跟随最新版本
	doc, err := svc.GetDocument(ctx, id)
	if err != nil || doc == nil {
		t.Fatalf("GetDocument: %v", err)
	}

	if doc.Version != 3 {
		t.Errorf("document version pointer = %d, want 3", doc.Version)
	}

	if doc.Content != "third" {
		t.Errorf("content = %q, want latest version content", doc.Content)
	}

	// 每个版本的内容各自独立存储
	paths := map[string]struct{}{}
	for _, v := range versions {
		paths[v.StoredPath] = struct{}{}
	}

	if len(paths) != 3 {
		t.Errorf("expected 3 distinct stored paths, got %d", len(paths))
	}
}

func TestCreateDocumentVersionMissingDocument(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	_, err := svc.CreateDocumentVersion(ctx, "no-such-id", writeTestFile(t, "v.txt", "x"), "bob", "")
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateDocumentVersionMissingFile(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	id, err := svc.AddDocument(ctx, writeTestFile(t, "v.txt", "x"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	_, err = svc.CreateDocumentVersion(ctx, id, "/nonexistent/new.txt", "bob", "")
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
