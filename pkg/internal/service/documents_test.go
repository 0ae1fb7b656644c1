package service_test

import (
	"errors"
	"testing"

	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
)

// sha256("abc")
const abcSHA256 = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func TestAddAndGetDocument(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	path := writeTestFile(t, "report.txt", "hello world")
	meta := types.DocumentMetadata{
		Department: "engineering",
		Tags:       []string{"weekly", "draft"},
		Status:     "pending",
		UploadedBy: "alice",
		Extra:      map[string]any{"project": "apollo"},
	}

	id, err := svc.AddDocument(ctx, path, meta, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	doc, err := svc.GetDocument(ctx, id)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}

	if doc == nil {
		t.Fatal("expected document, got nil")
	}

	if doc.OriginalName != "report.txt" {
		t.Errorf("original name = %q", doc.OriginalName)
	}

	if doc.Version != 1 {
		t.Errorf("version = %d, want 1", doc.Version)
	}

	if doc.FileSize != int64(len("hello world")) {
		t.Errorf("file size = %d, want %d", doc.FileSize, len("hello world"))
	}

	if doc.FileType != types.FileTypeText {
		t.Errorf("file type = %q, want text", doc.FileType)
	}

	if doc.Content != "hello world" {
		t.Errorf("content = %q, want inline text", doc.Content)
	}

	if doc.Metadata.Department != "engineering" || doc.Metadata.Status != "pending" {
		t.Errorf("metadata round-trip failed: %+v", doc.Metadata)
	}

	if len(doc.Metadata.Tags) != 2 || doc.Metadata.Tags[0] != "weekly" {
		t.Errorf("tags round-trip failed: %v", doc.Metadata.Tags)
	}

	if doc.Metadata.Extra["project"] != "apollo" {
		t.Errorf("extra metadata round-trip failed: %v", doc.Metadata.Extra)
	}

	// 初始版本行随文档一起建立
	versions, err := svc.GetDocumentVersions(ctx, id)
	if err != nil {
		t.Fatalf("GetDocumentVersions: %v", err)
	}

	if len(versions) != 1 || versions[0].VersionNumber != 1 {
		t.Fatalf("expected single initial version, got %+v", versions)
	}
}

func TestAddDocumentHashMatchesContent(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	id, err := svc.AddDocument(ctx, writeTestFile(t, "abc.txt", "abc"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	doc, err := svc.GetDocument(ctx, id)
	if err != nil || doc == nil {
		t.Fatalf("GetDocument: %v", err)
	}

	if doc.FileHash != abcSHA256 {
		t.Errorf("hash = %q, want sha256 of content", doc.FileHash)
	}
}

func TestAddDocumentMissingSource(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	_, err := svc.AddDocument(ctx, "/nonexistent/file.txt", types.DocumentMetadata{}, "alice")
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetDocumentAbsent(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	doc, err := svc.GetDocument(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}

	if doc != nil {
		t.Fatalf("expected nil for absent id, got %+v", doc)
	}
}

func TestGetDocumentEmptyFile(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	id, err := svc.AddDocument(ctx, writeTestFile(t, "empty.txt", ""), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	doc, err := svc.GetDocument(ctx, id)
	if err != nil || doc == nil {
		t.Fatalf("GetDocument: %v", err)
	}

	if doc.Content != service.EmptyFileMarker {
		t.Errorf("content = %q, want empty-file marker", doc.Content)
	}
}

func TestSoftDeleteRestoreGuards(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	id, err := svc.AddDocument(ctx, writeTestFile(t, "a.txt", "x"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	if ok, err := svc.SoftDelete(ctx, id); err != nil || !ok {
		t.Fatalf("first soft delete: ok=%v err=%v", ok, err)
	}

	// 重复删除不得报告为成功
	if ok, err := svc.SoftDelete(ctx, id); err != nil || ok {
		t.Fatalf("second soft delete: ok=%v err=%v, want false", ok, err)
	}

	if ok, err := svc.Restore(ctx, id); err != nil || !ok {
		t.Fatalf("restore: ok=%v err=%v", ok, err)
	}

	if ok, err := svc.Restore(ctx, id); err != nil || ok {
		t.Fatalf("second restore: ok=%v err=%v, want false", ok, err)
	}
}

func TestListDocumentsExcludesDeleted(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	keep, err := svc.AddDocument(ctx, writeTestFile(t, "keep.txt", "keep"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	gone, err := svc.AddDocument(ctx, writeTestFile(t, "gone.txt", "gone"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	if _, err := svc.SoftDelete(ctx, gone); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	docs, err := svc.ListDocuments(ctx, false)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}

	if len(docs) != 1 || docs[0].ID != keep {
		t.Fatalf("expected only the live document, got %+v", docs)
	}

	all, err := svc.ListDocuments(ctx, true)
	if err != nil {
		t.Fatalf("ListDocuments(include): %v", err)
	}

	if len(all) != 2 {
		t.Fatalf("expected both documents, got %d", len(all))
	}
}

func TestUpdateMetadataFullReplace(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	id, err := svc.AddDocument(ctx, writeTestFile(t, "m.txt", "m"),
		types.DocumentMetadata{Department: "sales", Status: "pending"}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	ok, err := svc.UpdateMetadata(ctx, id, types.DocumentMetadata{Status: "approved"})
	if err != nil || !ok {
		t.Fatalf("UpdateMetadata: ok=%v err=%v", ok, err)
	}

	doc, err := svc.GetDocument(ctx, id)
	if err != nil || doc == nil {
		t.Fatalf("GetDocument: %v", err)
	}

	if doc.Metadata.Status != "approved" {
		t.Errorf("status = %q, want approved", doc.Metadata.Status)
	}

	// 整体替换，旧字段不保留
	if doc.Metadata.Department != "" {
		t.Errorf("department = %q, want cleared by full replace", doc.Metadata.Department)
	}

	if ok, err := svc.UpdateMetadata(ctx, "no-such-id", types.DocumentMetadata{}); err != nil || ok {
		t.Fatalf("UpdateMetadata on absent id: ok=%v err=%v, want false", ok, err)
	}
}

func TestRemoveDocumentPermanently(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	id, err := svc.AddDocument(ctx, writeTestFile(t, "purge.txt", "purge me"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	doc, err := svc.GetDocument(ctx, id)
	if err != nil || doc == nil {
		t.Fatalf("GetDocument: %v", err)
	}

	ok, err := svc.RemoveDocumentPermanently(ctx, id)
	if err != nil || !ok {
		t.Fatalf("RemoveDocumentPermanently: ok=%v err=%v", ok, err)
	}

	if got, err := svc.GetDocument(ctx, id); err != nil || got != nil {
		t.Fatalf("document still present after purge: %+v err=%v", got, err)
	}

	exists, err := ctxPkg.GetBlobClient(ctx).Exists(ctx, doc.StoredPath)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}

	if exists {
		t.Error("blob still present after purge")
	}

	if ok, err := svc.RemoveDocumentPermanently(ctx, id); err != nil || ok {
		t.Fatalf("second purge: ok=%v err=%v, want false", ok, err)
	}
}
