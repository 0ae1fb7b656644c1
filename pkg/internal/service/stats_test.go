package service_test

import (
	"testing"
	"time"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
)

func TestGetStats(t *testing.T) {
	ctx := newTestEnv(t)
	docs := service.NewDocumentService(ctx)
	groups := service.NewImageGroupService(ctx)

	a, err := docs.AddDocument(ctx, writeTestFile(t, "a.txt", "aaaa"),
		types.DocumentMetadata{Status: "approved"}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	if _, err := docs.AddDocument(ctx, writeTestFile(t, "b.pdf", "bb"),
		types.DocumentMetadata{Status: "pending"}, "alice"); err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	deleted, err := docs.AddDocument(ctx, writeTestFile(t, "c.txt", "c"),
		types.DocumentMetadata{Status: "rejected"}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	if _, err := docs.SoftDelete(ctx, deleted); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	if _, err := docs.CreateDocumentVersion(ctx, a, writeTestFile(t, "a.txt", "aaaa2"), "alice", ""); err != nil {
		t.Fatalf("CreateDocumentVersion: %v", err)
	}

	if _, err := groups.AddImageGroup(ctx, []types.ImageInput{
		{Path: writeTestFile(t, "g.jpg", "g")},
	}, types.DocumentMetadata{Status: "approved"}, "alice"); err != nil {
		t.Fatalf("AddImageGroup: %v", err)
	}

	stats := service.NewStatsService(ctx)

	resp, err := stats.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	sum := resp.Summary

	if sum.TotalDocuments != 3 || sum.ActiveDocuments != 2 || sum.DeletedDocuments != 1 {
		t.Errorf("document counts: %+v", sum)
	}

	if sum.TotalImageGroups != 1 {
		t.Errorf("image group count = %d", sum.TotalImageGroups)
	}

	// 初始版本 3 条 + 追加 1 条
	if sum.TotalVersions != 4 {
		t.Errorf("version count = %d, want 4", sum.TotalVersions)
	}

	// 文档与图片组合并的状态分布
	if resp.StatusCounts.Approved != 2 || resp.StatusCounts.Pending != 1 || resp.StatusCounts.Rejected != 1 {
		t.Errorf("status counts: %+v", resp.StatusCounts)
	}

	typeCounts := map[string]int{}
	for _, item := range resp.ByType {
		typeCounts[item.Type] = item.Count
	}

	if typeCounts["text"] != 2 || typeCounts["pdf"] != 1 {
		t.Errorf("type distribution: %v", typeCounts)
	}

	month := time.Now().UTC().Format("2006-01")

	if len(resp.MonthlyTrend) != 1 || resp.MonthlyTrend[0].Month != month || resp.MonthlyTrend[0].Count != 3 {
		t.Errorf("monthly trend: %+v", resp.MonthlyTrend)
	}

	if resp.UploadsLatest != 3 {
		t.Errorf("uploads this month = %d, want 3", resp.UploadsLatest)
	}
}
