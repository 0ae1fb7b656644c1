package service_test

import (
	"context"
	"testing"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
)

func seedSearchDocs(t *testing.T, ctx context.Context) *service.DocumentService {
	t.Helper()

	svc := service.NewDocumentService(ctx)

	docs := []struct {
		name, content, status string
	}{
		{"hello-report.txt", "quarterly numbers", "approved"},
		{"notes.txt", "say hello to the team", "pending"},
		{"unrelated.pdf", "", "approved"},
	}
	for _, d := range docs {
		if _, err := svc.AddDocument(ctx, writeTestFile(t, d.name, d.content),
			types.DocumentMetadata{Status: d.status}, "alice"); err != nil {
			t.Fatalf("AddDocument(%s): %v", d.name, err)
		}
	}

	return svc
}

func TestAdvancedSearchTokens(t *testing.T) {
	ctx := newTestEnv(t)
	seedSearchDocs(t, ctx)

	search := service.NewSearchService(ctx)

	// "hello" 命中文件名与正文索引两条
	results, err := search.AdvancedSearch(ctx, "hello", types.SearchFilters{}, "admin", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results for %q, got %d", "hello", len(results))
	}

	// 词元之间是 AND：没有同时命中两个词元的行
	results, err = search.AdvancedSearch(ctx, "hello zebra", types.SearchFilters{}, "admin", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	if len(results) != 0 {
		t.Fatalf("expected no results for AND of unmatched tokens, got %d", len(results))
	}

	// 大小写不敏感
	results, err = search.AdvancedSearch(ctx, "HELLO quarterly", types.SearchFilters{}, "admin", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	if len(results) != 1 || results[0].Document.OriginalName != "hello-report.txt" {
		t.Fatalf("expected single case-insensitive match, got %+v", results)
	}
}

func TestAdvancedSearchFilters(t *testing.T) {
	ctx := newTestEnv(t)
	seedSearchDocs(t, ctx)

	search := service.NewSearchService(ctx)

	results, err := search.AdvancedSearch(ctx, "", types.SearchFilters{Status: "approved"}, "admin", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("status filter: expected 2, got %d", len(results))
	}

	results, err = search.AdvancedSearch(ctx, "", types.SearchFilters{FileType: "pdf"}, "admin", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	if len(results) != 1 || results[0].Document.OriginalName != "unrelated.pdf" {
		t.Fatalf("file type filter: %+v", results)
	}

	results, err = search.AdvancedSearch(ctx, "",
		types.SearchFilters{SizeMin: 1, SizeMax: int64(len("quarterly numbers"))}, "admin", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	for _, r := range results {
		if r.Document.FileSize < 1 || r.Document.FileSize > int64(len("quarterly numbers")) {
			t.Errorf("size filter leaked %+v", r.Document)
		}
	}
}

func TestAdvancedSearchPermissionGate(t *testing.T) {
	ctx := newTestEnv(t)
	svc := seedSearchDocs(t, ctx)

	docs, err := svc.ListDocuments(ctx, false)
	if err != nil || len(docs) == 0 {
		t.Fatalf("ListDocuments: %v", err)
	}

	search := service.NewSearchService(ctx)

	// 非管理员没有任何授权时一无所见
	results, err := search.AdvancedSearch(ctx, "hello", types.SearchFilters{}, "bob", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	if len(results) != 0 {
		t.Fatalf("ungranted user saw %d results", len(results))
	}

	perms := service.NewPermissionService(ctx)

	var target string

	for _, d := range docs {
		if d.OriginalName == "hello-report.txt" {
			target = d.ID
		}
	}

	if _, err := perms.SetPermission(ctx, target, "bob", types.PermissionRead, "admin", ""); err != nil {
		t.Fatalf("SetPermission: %v", err)
	}

	results, err = search.AdvancedSearch(ctx, "hello", types.SearchFilters{}, "bob", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	if len(results) != 1 || results[0].Document.ID != target {
		t.Fatalf("granted user should see exactly the granted document, got %+v", results)
	}

	// 管理员不受闸门限制
	results, err = search.AdvancedSearch(ctx, "hello", types.SearchFilters{}, "admin", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("admin should see all matches, got %d", len(results))
	}
}

func TestAdvancedSearchMergesImageGroups(t *testing.T) {
	ctx := newTestEnv(t)
	seedSearchDocs(t, ctx)

	groups := service.NewImageGroupService(ctx)

	if _, err := groups.AddImageGroup(ctx, []types.ImageInput{
		{Path: writeTestFile(t, "site.jpg", "jpg")},
	}, types.DocumentMetadata{Tags: []string{"hello-site"}}, "alice"); err != nil {
		t.Fatalf("AddImageGroup: %v", err)
	}

	search := service.NewSearchService(ctx)

	results, err := search.AdvancedSearch(ctx, "hello", types.SearchFilters{}, "admin", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	var sources []types.SearchSource
	for _, r := range results {
		sources = append(sources, r.Source)
	}

	if len(results) != 3 {
		t.Fatalf("expected merged doc+group results, got %d (%v)", len(results), sources)
	}

	// 统一按创建时间倒序
	for i := 1; i < len(results); i++ {
		if results[i-1].CreatedAt < results[i].CreatedAt {
			t.Errorf("results out of order at %d", i)
		}
	}

	// limit 截断合并后的结果
	capped, err := search.AdvancedSearch(ctx, "hello", types.SearchFilters{}, "admin", 2)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	if len(capped) != 2 {
		t.Fatalf("limit not applied, got %d", len(capped))
	}
}

func TestAdvancedSearchGeneralReadGrant(t *testing.T) {
	ctx := newTestEnv(t)
	svc := seedSearchDocs(t, ctx)

	docs, err := svc.ListDocuments(ctx, false)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}

	var notes, report string

	for _, d := range docs {
		switch d.OriginalName {
		case "notes.txt":
			notes = d.ID
		case "hello-report.txt":
			report = d.ID
		}
	}

	perms := service.NewPermissionService(ctx)

	// carol 的 read 授权让文档对所有人可检索，write 授权不放行他人
	if _, err := perms.SetPermission(ctx, notes, "carol", types.PermissionRead, "admin", ""); err != nil {
		t.Fatalf("SetPermission: %v", err)
	}

	if _, err := perms.SetPermission(ctx, report, "carol", types.PermissionWrite, "admin", ""); err != nil {
		t.Fatalf("SetPermission: %v", err)
	}

	search := service.NewSearchService(ctx)

	results, err := search.AdvancedSearch(ctx, "hello", types.SearchFilters{}, "bob", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	if len(results) != 1 || results[0].Document.ID != notes {
		t.Fatalf("general read grant should expose exactly notes.txt, got %+v", results)
	}
}

func TestAdvancedSearchSizeFilterKeepsGroups(t *testing.T) {
	ctx := newTestEnv(t)
	seedSearchDocs(t, ctx)

	groups := service.NewImageGroupService(ctx)

	if _, err := groups.AddImageGroup(ctx, []types.ImageInput{
		{Path: writeTestFile(t, "site.jpg", "jpg")},
	}, types.DocumentMetadata{Tags: []string{"hello-site"}}, "alice"); err != nil {
		t.Fatalf("AddImageGroup: %v", err)
	}

	search := service.NewSearchService(ctx)

	// 大小过滤只筛文档，图片组照常返回
	results, err := search.AdvancedSearch(ctx, "hello", types.SearchFilters{SizeMin: 1}, "admin", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	groupHits := 0

	for _, r := range results {
		if r.Source == types.SearchSourceImageGroup {
			groupHits++
		}
	}

	if groupHits != 1 {
		t.Fatalf("size filter dropped image groups: %+v", results)
	}

	// 文件类型过滤同理
	results, err = search.AdvancedSearch(ctx, "hello", types.SearchFilters{FileType: "txt"}, "admin", 10)
	if err != nil {
		t.Fatalf("AdvancedSearch: %v", err)
	}

	groupHits = 0

	for _, r := range results {
		if r.Source == types.SearchSourceImageGroup {
			groupHits++
		}
	}

	if groupHits != 1 {
		t.Fatalf("file type filter dropped image groups: %+v", results)
	}
}
