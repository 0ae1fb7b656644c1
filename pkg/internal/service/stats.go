package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/types"
	"github.com/yeisme/docvault/pkg/tracing"
)

// StatsService 仓库统计服务.
type StatsService struct{ *Service }

// NewStatsService 创建统计服务.
func NewStatsService(c context.Context) *StatsService {
	return &StatsService{newService(c)}
}

// GetStats 汇总仓库统计：总量、审核状态分布、文件类型分布与按月上传趋势.
// 状态与类型的聚合需要解析元数据与文件名，在应用层完成而非数据库内.
func (s *StatsService) GetStats(ctx context.Context) (*types.StatsResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "stats.get")
	defer span.End()

	dbx := s.dbClient.GetDB().WithContext(ctx)

	var docs []model.Document
	if err := dbx.Find(&docs).Error; err != nil {
		return nil, err
	}

	var groups []model.ImageGroup
	if err := dbx.Find(&groups).Error; err != nil {
		return nil, err
	}

	var archivedCount int64
	if err := dbx.Model(&model.ArchivedDocument{}).Count(&archivedCount).Error; err != nil {
		return nil, err
	}

	var versionCount int64
	if err := dbx.Model(&model.DocumentVersion{}).Count(&versionCount).Error; err != nil {
		return nil, err
	}

	resp := &types.StatsResponse{
		Summary: types.StatsSummary{
			TotalDocuments:    len(docs),
			ArchivedDocuments: int(archivedCount),
			TotalImageGroups:  len(groups),
			TotalVersions:     int(versionCount),
		},
	}

	byType := map[types.FileType]*types.StatsTypeItem{}
	monthly := map[string]int{}
	currentMonth := time.Now().UTC().Format("2006-01")

	for i := range docs {
		doc := &docs[i]

		if doc.Deleted != 0 {
			resp.Summary.DeletedDocuments++
		} else {
			resp.Summary.ActiveDocuments++
		}

		resp.Summary.TotalSize += doc.FileSize

		ft := DeriveFileType(doc.OriginalName)

		item, ok := byType[ft]
		if !ok {
			item = &types.StatsTypeItem{Type: string(ft)}
			byType[ft] = item
		}

		item.Count++
		item.Size += doc.FileSize

		metadata, err := types.DecodeMetadata(doc.MetadataJSON)
		if err != nil {
			return nil, err
		}

		tallyStatus(&resp.StatusCounts, metadata.Status)

		month := uploadMonth(metadata.UploadDate, doc.CreatedAt)
		if month != "" {
			monthly[month]++

			if month == currentMonth {
				resp.UploadsLatest++
			}
		}
	}

	for i := range groups {
		metadata, err := types.DecodeMetadata(groups[i].MetadataJSON)
		if err != nil {
			return nil, err
		}

		tallyStatus(&resp.StatusCounts, metadata.Status)
	}

	resp.ByType = make([]types.StatsTypeItem, 0, len(byType))
	for _, item := range byType {
		resp.ByType = append(resp.ByType, *item)
	}

	sort.Slice(resp.ByType, func(i, j int) bool {
		return resp.ByType[i].Type < resp.ByType[j].Type
	})

	resp.MonthlyTrend = make([]types.StatsMonthlyPoint, 0, len(monthly))
	for month, count := range monthly {
		resp.MonthlyTrend = append(resp.MonthlyTrend, types.StatsMonthlyPoint{Month: month, Count: count})
	}

	sort.Slice(resp.MonthlyTrend, func(i, j int) bool {
		return resp.MonthlyTrend[i].Month < resp.MonthlyTrend[j].Month
	})

	return resp, nil
}

func tallyStatus(counts *types.StatsStatusCounts, status string) {
	switch strings.ToLower(status) {
	case "pending":
		counts.Pending++
	case "approved":
		counts.Approved++
	case "rejected":
		counts.Rejected++
	}
}

// uploadMonth 取上传月份 YYYY-MM，优先元数据中的上传日期，缺失时退回行创建时间.
func uploadMonth(uploadDate, createdAt string) string {
	src := uploadDate
	if src == "" {
		src = createdAt
	}

	if len(src) < len("2006-01") {
		return ""
	}

	return src[:len("2006-01")]
}
