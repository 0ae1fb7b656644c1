package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/types"
	nlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/queue"
)

// PermissionService 文档授权服务.
type PermissionService struct{ *Service }

// NewPermissionService 创建授权服务.
func NewPermissionService(c context.Context) *PermissionService {
	return &PermissionService{newService(c)}
}

// SetPermission 授予或更新用户对文档的授权.
// (user, document) 对上已有授权时整体替换，后授的覆盖先授的.
// expiresAt 为空表示永不过期.
func (s *PermissionService) SetPermission(ctx context.Context, documentID, userID string, permType types.PermissionType, grantedBy, expiresAt string) (string, error) {
	if !types.IsValidPermissionType(permType) {
		return "", fmt.Errorf("%w: unknown permission type %q", ErrInvalidInput, permType)
	}

	if documentID == "" || userID == "" {
		return "", fmt.Errorf("%w: document id and user id are required", ErrInvalidInput)
	}

	grant := model.Permission{
		ID:             uuid.NewString(),
		UserID:         userID,
		DocumentID:     documentID,
		PermissionType: string(permType),
		GrantedBy:      grantedBy,
		GrantedAt:      nowISO(),
	}
	if expiresAt != "" {
		grant.ExpiresAt = &expiresAt
	}

	err := s.dbClient.GetDB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "document_id"}},
		UpdateAll: true,
	}).Create(&grant).Error
	if err != nil {
		return "", mapDBError(err)
	}

	publishEvent(s.Service, queue.TopicPermissionGranted, queue.PermissionPayload{
		DocumentID:     documentID,
		UserID:         userID,
		PermissionType: string(permType),
		GrantedBy:      grantedBy,
		ExpiresAt:      expiresAt,
	})

	nlog.Logger().Info().
		Str("document_id", documentID).
		Str("user_id", userID).
		Str("type", string(permType)).
		Msg("permission set")

	return grant.ID, nil
}

// CheckPermission 判断用户对文档是否持有不低于 required 等级的授权.
// 等级全序 read(1) < write(2) < admin(3) < delete(4)，已过期的授权不算数，
// 没有任何授权时返回 false.
func (s *PermissionService) CheckPermission(ctx context.Context, documentID, userID string, required types.PermissionType) (bool, error) {
	if !types.IsValidPermissionType(required) {
		return false, fmt.Errorf("%w: unknown permission type %q", ErrInvalidInput, required)
	}

	var grant model.Permission

	err := s.dbClient.GetDB().WithContext(ctx).
		Where("document_id = ? AND user_id = ?", documentID, userID).
		First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	if grant.ExpiresAt != nil && *grant.ExpiresAt != "" && *grant.ExpiresAt < nowISO() {
		return false, nil
	}

	return types.PermissionRank(types.PermissionType(grant.PermissionType)) >= types.PermissionRank(required), nil
}

// RevokePermission 撤销用户对文档的授权，没有授权可撤时返回 false.
func (s *PermissionService) RevokePermission(ctx context.Context, documentID, userID string) (bool, error) {
	tx := s.dbClient.GetDB().WithContext(ctx).
		Where("document_id = ? AND user_id = ?", documentID, userID).
		Delete(&model.Permission{})
	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected == 0 {
		return false, nil
	}

	publishEvent(s.Service, queue.TopicPermissionRevoked, queue.PermissionPayload{
		DocumentID: documentID,
		UserID:     userID,
	})

	return true, nil
}

// GetDocumentPermissions 列出文档上的全部授权，含已过期的.
func (s *PermissionService) GetDocumentPermissions(ctx context.Context, documentID string) ([]types.PermissionInfo, error) {
	var rows []model.Permission
	if err := s.dbClient.GetDB().WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("granted_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	grants := make([]types.PermissionInfo, 0, len(rows))

	for _, row := range rows {
		info := types.PermissionInfo{
			ID:             row.ID,
			UserID:         row.UserID,
			DocumentID:     row.DocumentID,
			PermissionType: types.PermissionType(row.PermissionType),
			GrantedBy:      row.GrantedBy,
			GrantedAt:      row.GrantedAt,
		}
		if row.ExpiresAt != nil {
			info.ExpiresAt = *row.ExpiresAt
		}

		grants = append(grants, info)
	}

	return grants, nil
}

// CleanupExpiredGrants 删除所有已过期的授权，返回删除条数，供定时任务调用.
func (s *PermissionService) CleanupExpiredGrants(ctx context.Context) (int, error) {
	tx := s.dbClient.GetDB().WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at != '' AND expires_at < ?", nowISO()).
		Delete(&model.Permission{})
	if tx.Error != nil {
		return 0, tx.Error
	}

	if tx.RowsAffected > 0 {
		nlog.Logger().Info().Int64("count", tx.RowsAffected).Msg("expired permission grants removed")
	}

	return int(tx.RowsAffected), nil
}
