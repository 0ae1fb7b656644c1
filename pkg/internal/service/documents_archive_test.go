package service_test

import (
	"os"
	"testing"

	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
)

func TestArchiveDocument(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	id, err := svc.AddDocument(ctx, writeTestFile(t, "arch.txt", "archive me"),
		types.DocumentMetadata{Department: "legal"}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	before, err := svc.GetDocument(ctx, id)
	if err != nil || before == nil {
		t.Fatalf("GetDocument: %v", err)
	}

	ok, err := svc.ArchiveDocument(ctx, id, "admin")
	if err != nil || !ok {
		t.Fatalf("ArchiveDocument: ok=%v err=%v", ok, err)
	}

	// 活跃区内容已搬走
	blobClient := ctxPkg.GetBlobClient(ctx)
	if exists, _ := blobClient.Exists(ctx, before.StoredPath); exists {
		t.Error("blob still in primary storage after archive")
	}

	archived, err := svc.GetArchivedDocument(ctx, id)
	if err != nil {
		t.Fatalf("GetArchivedDocument: %v", err)
	}

	if archived == nil {
		t.Fatal("expected archived row")
	}

	if archived.DeletedBy != "admin" || archived.DeletedAt == "" {
		t.Errorf("archive provenance missing: %+v", archived)
	}

	if archived.Metadata.Department != "legal" {
		t.Errorf("archived metadata lost: %+v", archived.Metadata)
	}

	if exists, _ := blobClient.Exists(ctx, archived.StoredPath); !exists {
		t.Error("blob missing from archive storage")
	}

	// 活跃行仍可按 ID 找到且标记已删除
	after, err := svc.GetDocument(ctx, id)
	if err != nil || after == nil {
		t.Fatalf("GetDocument after archive: %v", err)
	}

	if !after.Deleted {
		t.Error("live row not flagged deleted after archive")
	}
}

func TestArchiveDocumentMissingBlob(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	id, err := svc.AddDocument(ctx, writeTestFile(t, "lost.txt", "gone"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	doc, err := svc.GetDocument(ctx, id)
	if err != nil || doc == nil {
		t.Fatalf("GetDocument: %v", err)
	}

	// 内容先于归档意外丢失
	if err := os.Remove(doc.StoredPath); err != nil {
		t.Fatalf("remove blob: %v", err)
	}

	ok, err := svc.ArchiveDocument(ctx, id, "admin")
	if err != nil || !ok {
		t.Fatalf("ArchiveDocument with missing blob: ok=%v err=%v", ok, err)
	}

	archived, err := svc.GetArchivedDocument(ctx, id)
	if err != nil || archived == nil {
		t.Fatalf("metadata not archived despite missing blob: %v", err)
	}

	// 内容没搬成时归档行保留原路径
	if archived.StoredPath != doc.StoredPath {
		t.Errorf("archived path = %q, want original %q", archived.StoredPath, doc.StoredPath)
	}

	// 第二份内容同样缺失的文档也要能归档，路径各异互不冲突
	id2, err := svc.AddDocument(ctx, writeTestFile(t, "lost2.txt", "also gone"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	doc2, err := svc.GetDocument(ctx, id2)
	if err != nil || doc2 == nil {
		t.Fatalf("GetDocument: %v", err)
	}

	if err := os.Remove(doc2.StoredPath); err != nil {
		t.Fatalf("remove blob: %v", err)
	}

	if ok, err := svc.ArchiveDocument(ctx, id2, "admin"); err != nil || !ok {
		t.Fatalf("second missing-blob archive: ok=%v err=%v", ok, err)
	}

	// 缺失情况单独留痕
	activity := service.NewActivityService(ctx)

	entries, err := activity.GetDocumentActivity(ctx, id)
	if err != nil {
		t.Fatalf("GetDocumentActivity: %v", err)
	}

	found := false

	for _, e := range entries {
		if e.ActivityData != nil && e.ActivityData["blob_missing"] == true {
			found = true
		}
	}

	if !found {
		t.Error("missing-blob archive not recorded in activity log")
	}
}

func TestArchiveMany(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	a, err := svc.AddDocument(ctx, writeTestFile(t, "a.txt", "a"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	b, err := svc.AddDocument(ctx, writeTestFile(t, "b.txt", "b"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	resp := svc.ArchiveMany(ctx, []string{a, "bogus-id", b}, "admin")

	if resp.Total != 3 || resp.Successful != 2 || resp.Failed != 1 {
		t.Fatalf("tally = %d/%d/%d, want 3/2/1", resp.Total, resp.Successful, resp.Failed)
	}

	if resp.Results[1].Success || resp.Results[1].Error == "" {
		t.Errorf("bogus id should fail with reason: %+v", resp.Results[1])
	}
}

func TestArchiveExpiredTrash(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	old, err := svc.AddDocument(ctx, writeTestFile(t, "old.txt", "old"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	fresh, err := svc.AddDocument(ctx, writeTestFile(t, "fresh.txt", "fresh"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	for _, id := range []string{old, fresh} {
		if _, err := svc.SoftDelete(ctx, id); err != nil {
			t.Fatalf("SoftDelete: %v", err)
		}
	}

	// 截止点设在两次删除之间不可行（同秒），直接用未来时刻验证全量、过去时刻验证空扫
	archived, err := svc.ArchiveExpiredTrash(ctx, "1970-01-01T00:00:00Z", "system")
	if err != nil {
		t.Fatalf("ArchiveExpiredTrash: %v", err)
	}

	if archived != 0 {
		t.Fatalf("nothing should pass an epoch cutoff, archived %d", archived)
	}

	archived, err = svc.ArchiveExpiredTrash(ctx, "2999-01-01T00:00:00Z", "system")
	if err != nil {
		t.Fatalf("ArchiveExpiredTrash: %v", err)
	}

	if archived != 2 {
		t.Fatalf("expected both trashed documents archived, got %d", archived)
	}

	// 已归档的不再重复入扫
	archived, err = svc.ArchiveExpiredTrash(ctx, "2999-01-01T00:00:00Z", "system")
	if err != nil {
		t.Fatalf("ArchiveExpiredTrash: %v", err)
	}

	if archived != 0 {
		t.Fatalf("re-sweep should be empty, archived %d", archived)
	}

	if row, err := svc.GetArchivedDocument(ctx, old); err != nil || row == nil {
		t.Fatalf("old document not archived: %v", err)
	}
}

func TestRestoreArchivedDocument(t *testing.T) {
	ctx := newTestEnv(t)
	svc := service.NewDocumentService(ctx)

	id, err := svc.AddDocument(ctx, writeTestFile(t, "back.txt", "round trip"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	if ok, err := svc.ArchiveDocument(ctx, id, "admin"); err != nil || !ok {
		t.Fatalf("ArchiveDocument: ok=%v err=%v", ok, err)
	}

	ok, err := svc.RestoreArchivedDocument(ctx, id)
	if err != nil || !ok {
		t.Fatalf("RestoreArchivedDocument: ok=%v err=%v", ok, err)
	}

	if archived, err := svc.GetArchivedDocument(ctx, id); err != nil || archived != nil {
		t.Fatalf("archived row should be gone after restore: %+v err=%v", archived, err)
	}

	doc, err := svc.GetDocument(ctx, id)
	if err != nil || doc == nil {
		t.Fatalf("GetDocument after restore: %v", err)
	}

	if doc.Deleted {
		t.Error("restored document still flagged deleted")
	}

	if doc.Content != "round trip" {
		t.Errorf("content = %q after restore", doc.Content)
	}
}
