package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yeisme/docvault/pkg/cache"
	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/types"
	nlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/metrics"
	"github.com/yeisme/docvault/pkg/tracing"
)

const (
	defaultSearchLimit = 50
	searchCacheTTL     = 30 * time.Second
)

// SearchService 跨文档与图片组的搜索服务.
type SearchService struct{ *Service }

// NewSearchService 创建搜索服务.
func NewSearchService(c context.Context) *SearchService {
	return &SearchService{newService(c)}
}

// AdvancedSearch 组合文本查询与过滤条件的搜索.
// 文本按空白切分为词元，每个词元须命中 original_name、content_index、
// 序列化元数据三者之一（词元之间 AND，字段之间 OR），大小写不敏感.
// 过滤条件同时给出时按 AND 组合；日期界限是 ISO-8601 文本的字典序比较.
// userID 非空且非管理员时只返回该用户持有未过期授权、
// 或存在未过期通用 read/admin 授权的文档.
// 文档与图片组分别检索后合并，按创建时间倒序截断到 limit.
func (s *SearchService) AdvancedSearch(ctx context.Context, query string, filters types.SearchFilters, userID string, limit int) ([]types.SearchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "search.advanced")
	defer span.End()

	if limit <= 0 {
		limit = defaultSearchLimit
	}

	// 带权限闸门的结果随授权变化，不缓存
	cacheable := s.cache != nil && userID == ""
	cacheKey := cache.Key("search", query, fmt.Sprintf("%+v", filters), strconv.Itoa(limit))

	if cacheable {
		if cached, err := cache.Get[[]types.SearchResult](ctx, s.cache, cacheKey); err == nil {
			return cached, nil
		}
	}

	start := time.Now()

	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	tokens := strings.Fields(strings.ToLower(query))

	docResults, err := s.searchDocuments(ctx, tokens, filters, userID)
	if err != nil {
		return nil, err
	}

	groupResults, err := s.searchImageGroups(ctx, tokens, filters)
	if err != nil {
		return nil, err
	}

	results := append(docResults, groupResults...)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt > results[j].CreatedAt
	})

	if len(results) > limit {
		results = results[:limit]
	}

	if cacheable {
		if err := cache.Set(ctx, s.cache, cacheKey, results, searchCacheTTL); err != nil {
			nlog.Logger().Debug().Err(err).Msg("search cache write failed")
		}
	}

	return results, nil
}

func (s *SearchService) searchDocuments(ctx context.Context, tokens []string, filters types.SearchFilters, userID string) ([]types.SearchResult, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx).Model(&model.Document{}).
		Where("deleted = ?", 0)

	for _, tok := range tokens {
		pat := "%" + tok + "%"
		dbx = dbx.Where(
			"(LOWER(original_name) LIKE ? OR LOWER(COALESCE(content_index, '')) LIKE ? OR LOWER(metadata) LIKE ?)",
			pat, pat, pat,
		)
	}

	if filters.DateFrom != "" {
		dbx = dbx.Where("created_at >= ?", filters.DateFrom)
	}

	if filters.DateTo != "" {
		dbx = dbx.Where("created_at <= ?", upperDateBound(filters.DateTo))
	}

	if filters.FileType != "" {
		dbx = dbx.Where("LOWER(original_name) LIKE ?", "%"+strings.ToLower(filters.FileType))
	}

	if filters.SizeMin > 0 {
		dbx = dbx.Where("file_size >= ?", filters.SizeMin)
	}

	if filters.SizeMax > 0 {
		dbx = dbx.Where("file_size <= ?", filters.SizeMax)
	}

	if filters.Status != "" {
		dbx = dbx.Where("metadata LIKE ?", statusPattern(filters.Status))
	}

	if userID != "" && !s.idp.IsAdmin(userID) {
		// 非管理员可见两类文档：本人持有未过期授权的，
		// 以及存在未过期通用 read/admin 授权行的
		dbx = dbx.Where(
			"id IN (SELECT document_id FROM user_permissions WHERE (user_id = ? OR permission_type IN ('read', 'admin')) AND (expires_at IS NULL OR expires_at = '' OR expires_at > ?))",
			userID, nowISO(),
		)
	}

	var rows []model.Document
	if err := dbx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(rows))

	for i := range rows {
		docs := &DocumentService{s.Service}

		info, err := docs.toDocumentInfo(&rows[i])
		if err != nil {
			return nil, err
		}

		results = append(results, types.SearchResult{
			Source:    types.SearchSourceDocument,
			CreatedAt: rows[i].CreatedAt,
			Document:  info,
		})
	}

	return results, nil
}

// searchImageGroups 对图片组做等价的文本+过滤检索.
// 词元匹配序列化元数据（含标签）.
// 组没有单一扩展名和大小，文件类型与大小过滤对组跳过而非把组整体排除.
func (s *SearchService) searchImageGroups(ctx context.Context, tokens []string, filters types.SearchFilters) ([]types.SearchResult, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx).Model(&model.ImageGroup{}).
		Where("deleted = ?", 0)

	for _, tok := range tokens {
		dbx = dbx.Where("LOWER(metadata) LIKE ?", "%"+tok+"%")
	}

	if filters.DateFrom != "" {
		dbx = dbx.Where("created_at >= ?", filters.DateFrom)
	}

	if filters.DateTo != "" {
		dbx = dbx.Where("created_at <= ?", upperDateBound(filters.DateTo))
	}

	if filters.Status != "" {
		dbx = dbx.Where("metadata LIKE ?", statusPattern(filters.Status))
	}

	var rows []model.ImageGroup
	if err := dbx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(rows))

	for i := range rows {
		info, err := toImageGroupInfo(&rows[i])
		if err != nil {
			return nil, err
		}

		results = append(results, types.SearchResult{
			Source:     types.SearchSourceImageGroup,
			CreatedAt:  rows[i].CreatedAt,
			ImageGroup: info,
		})
	}

	return results, nil
}

// upperDateBound 把纯日期的上界扩成当日最后一刻，保证字典序比较含当日.
func upperDateBound(dateTo string) string {
	if len(dateTo) == len("2006-01-02") {
		return dateTo + "T23:59:59Z"
	}

	return dateTo
}

// statusPattern 构造元数据 JSON 中 status 字段的精确匹配模式.
func statusPattern(status string) string {
	return `%"status":"` + status + `"%`
}
