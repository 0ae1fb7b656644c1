package service

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/types"
)

// SaveSearch 保存一条命名搜索，返回其 ID.
func (s *SearchService) SaveSearch(ctx context.Context, userID, name, query string, filters types.SearchFilters) (string, error) {
	if userID == "" || name == "" {
		return "", fmt.Errorf("%w: user id and search name are required", ErrInvalidInput)
	}

	filtersJSON, err := sonic.MarshalString(filters)
	if err != nil {
		return "", fmt.Errorf("marshal search filters: %w", err)
	}

	now := nowISO()
	saved := model.SavedSearch{
		ID:            uuid.NewString(),
		UserID:        userID,
		SearchName:    name,
		SearchQuery:   query,
		SearchFilters: filtersJSON,
		CreatedAt:     now,
		LastUsed:      now,
	}

	if err := s.dbClient.GetDB().WithContext(ctx).Create(&saved).Error; err != nil {
		return "", mapDBError(err)
	}

	return saved.ID, nil
}

// ListSavedSearches 列出某用户保存的搜索，最近使用的排在前面.
func (s *SearchService) ListSavedSearches(ctx context.Context, userID string) ([]types.SavedSearchInfo, error) {
	var rows []model.SavedSearch
	if err := s.dbClient.GetDB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_used DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	searches := make([]types.SavedSearchInfo, 0, len(rows))

	for _, row := range rows {
		var filters types.SearchFilters

		if row.SearchFilters != "" {
			if err := sonic.UnmarshalString(row.SearchFilters, &filters); err != nil {
				return nil, fmt.Errorf("saved search %s: %w", row.ID, err)
			}
		}

		searches = append(searches, types.SavedSearchInfo{
			ID:          row.ID,
			UserID:      row.UserID,
			SearchName:  row.SearchName,
			SearchQuery: row.SearchQuery,
			Filters:     filters,
			CreatedAt:   row.CreatedAt,
			LastUsed:    row.LastUsed,
		})
	}

	return searches, nil
}

// TouchSavedSearch 更新保存搜索的最近使用时间，记录不存在时返回 false.
func (s *SearchService) TouchSavedSearch(ctx context.Context, id string) (bool, error) {
	tx := s.dbClient.GetDB().WithContext(ctx).Model(&model.SavedSearch{}).
		Where("id = ?", id).
		Update("last_used", nowISO())
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

// DeleteSavedSearch 删除保存的搜索，记录不存在时返回 false.
func (s *SearchService) DeleteSavedSearch(ctx context.Context, id string) (bool, error) {
	tx := s.dbClient.GetDB().WithContext(ctx).
		Delete(&model.SavedSearch{}, "id = ?", id)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}
