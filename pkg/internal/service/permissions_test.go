package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
)

func TestPermissionRanking(t *testing.T) {
	ctx := newTestEnv(t)
	docs := service.NewDocumentService(ctx)
	perms := service.NewPermissionService(ctx)

	docID, err := docs.AddDocument(ctx, writeTestFile(t, "x.txt", "x"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	if _, err := perms.SetPermission(ctx, docID, "bob", types.PermissionWrite, "admin", ""); err != nil {
		t.Fatalf("SetPermission: %v", err)
	}

	// write 等级覆盖 read
	if ok, err := perms.CheckPermission(ctx, docID, "bob", types.PermissionRead); err != nil || !ok {
		t.Fatalf("read check under write grant: ok=%v err=%v", ok, err)
	}

	if ok, err := perms.CheckPermission(ctx, docID, "bob", types.PermissionWrite); err != nil || !ok {
		t.Fatalf("write check under write grant: ok=%v err=%v", ok, err)
	}

	// 但不及 delete
	if ok, err := perms.CheckPermission(ctx, docID, "bob", types.PermissionDelete); err != nil || ok {
		t.Fatalf("delete check under write grant: ok=%v err=%v, want false", ok, err)
	}

	// 没有任何授权的用户
	if ok, err := perms.CheckPermission(ctx, docID, "carol", types.PermissionRead); err != nil || ok {
		t.Fatalf("check without grant: ok=%v err=%v, want false", ok, err)
	}
}

func TestSetPermissionUpsert(t *testing.T) {
	ctx := newTestEnv(t)
	docs := service.NewDocumentService(ctx)
	perms := service.NewPermissionService(ctx)

	docID, err := docs.AddDocument(ctx, writeTestFile(t, "u.txt", "u"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	if _, err := perms.SetPermission(ctx, docID, "bob", types.PermissionDelete, "admin", ""); err != nil {
		t.Fatalf("SetPermission: %v", err)
	}

	// 后授的覆盖先授的
	if _, err := perms.SetPermission(ctx, docID, "bob", types.PermissionRead, "admin", ""); err != nil {
		t.Fatalf("SetPermission(replace): %v", err)
	}

	grants, err := perms.GetDocumentPermissions(ctx, docID)
	if err != nil {
		t.Fatalf("GetDocumentPermissions: %v", err)
	}

	if len(grants) != 1 {
		t.Fatalf("upsert left %d rows, want 1", len(grants))
	}

	if grants[0].PermissionType != types.PermissionRead {
		t.Errorf("grant = %q, want the replacement", grants[0].PermissionType)
	}

	if ok, err := perms.CheckPermission(ctx, docID, "bob", types.PermissionWrite); err != nil || ok {
		t.Fatalf("downgraded grant still passes write: ok=%v err=%v", ok, err)
	}
}

func TestExpiredGrantDoesNotCount(t *testing.T) {
	ctx := newTestEnv(t)
	docs := service.NewDocumentService(ctx)
	perms := service.NewPermissionService(ctx)

	docID, err := docs.AddDocument(ctx, writeTestFile(t, "e.txt", "e"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	past := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)

	if _, err := perms.SetPermission(ctx, docID, "bob", types.PermissionAdmin, "admin", past); err != nil {
		t.Fatalf("SetPermission: %v", err)
	}

	if ok, err := perms.CheckPermission(ctx, docID, "bob", types.PermissionRead); err != nil || ok {
		t.Fatalf("expired grant counted: ok=%v err=%v", ok, err)
	}

	removed, err := perms.CleanupExpiredGrants(ctx)
	if err != nil {
		t.Fatalf("CleanupExpiredGrants: %v", err)
	}

	if removed != 1 {
		t.Errorf("cleanup removed %d, want 1", removed)
	}

	grants, err := perms.GetDocumentPermissions(ctx, docID)
	if err != nil {
		t.Fatalf("GetDocumentPermissions: %v", err)
	}

	if len(grants) != 0 {
		t.Errorf("expired grant not removed: %+v", grants)
	}
}

func TestRevokePermission(t *testing.T) {
	ctx := newTestEnv(t)
	docs := service.NewDocumentService(ctx)
	perms := service.NewPermissionService(ctx)

	docID, err := docs.AddDocument(ctx, writeTestFile(t, "r.txt", "r"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	if _, err := perms.SetPermission(ctx, docID, "bob", types.PermissionRead, "admin", ""); err != nil {
		t.Fatalf("SetPermission: %v", err)
	}

	if ok, err := perms.RevokePermission(ctx, docID, "bob"); err != nil || !ok {
		t.Fatalf("RevokePermission: ok=%v err=%v", ok, err)
	}

	if ok, err := perms.RevokePermission(ctx, docID, "bob"); err != nil || ok {
		t.Fatalf("second revoke: ok=%v err=%v, want false", ok, err)
	}

	if ok, err := perms.CheckPermission(ctx, docID, "bob", types.PermissionRead); err != nil || ok {
		t.Fatalf("revoked grant still passes: ok=%v err=%v", ok, err)
	}
}

func TestSetPermissionInvalidType(t *testing.T) {
	ctx := newTestEnv(t)
	perms := service.NewPermissionService(ctx)

	_, err := perms.SetPermission(ctx, "doc", "bob", types.PermissionType("owner"), "admin", "")
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
