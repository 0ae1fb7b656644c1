package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/types"
	nlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/metrics"
	"github.com/yeisme/docvault/pkg/queue"
	"github.com/yeisme/docvault/pkg/rule"
	"github.com/yeisme/docvault/pkg/tracing"
)

// ImageGroupService 图片组服务.
// 一组图片作为单个条目管理，归档/恢复对整组生效.
type ImageGroupService struct{ *Service }

// NewImageGroupService 创建图片组服务.
func NewImageGroupService(c context.Context) *ImageGroupService {
	return &ImageGroupService{newService(c)}
}

// AddImageGroup 从一组本地文件创建图片组.
// 每张图片逐一复制入存储区，任一复制失败即整组失败并清理已复制的内容，
// 组条目要么带全部图片落库要么完全不存在.
func (s *ImageGroupService) AddImageGroup(ctx context.Context, images []types.ImageInput, metadata types.DocumentMetadata, createdBy string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "imagegroups.add")
	defer span.End()

	if len(images) == 0 {
		return "", fmt.Errorf("%w: image group needs at least one image", ErrInvalidInput)
	}

	for i := range images {
		if err := rule.ValidateStruct(&images[i]); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	groupID := uuid.NewString()
	entries := make([]model.ImageEntry, 0, len(images))
	stored := make([]string, 0, len(images))

	cleanup := func() {
		for _, p := range stored {
			if err := s.blobClient.Remove(ctx, p); err != nil {
				nlog.Logger().Error().Err(err).Str("path", p).Msg("compensating blob cleanup failed")
			}
		}
	}

	for _, img := range images {
		originalName := img.OriginalName
		if originalName == "" {
			originalName = filepath.Base(img.Path)
		}

		src, err := os.Open(img.Path)
		if err != nil {
			cleanup()

			if os.IsNotExist(err) {
				return "", fmt.Errorf("source file %s: %w", img.Path, ErrNotFound)
			}

			return "", fmt.Errorf("open source file: %w", err)
		}

		storedPath, size, err := s.blobClient.Put(ctx, groupID+"_"+originalName, src)
		src.Close()

		if err != nil {
			cleanup()
			return "", err
		}

		stored = append(stored, storedPath)
		entries = append(entries, model.ImageEntry{OriginalName: originalName, StoredPath: storedPath})

		metrics.BlobBytesMoved.WithLabelValues("in").Add(float64(size))
	}

	metaJSON, err := metadata.Encode()
	if err != nil {
		cleanup()
		return "", err
	}

	group := model.ImageGroup{
		ID:           groupID,
		CreatedAt:    nowISO(),
		MetadataJSON: metaJSON,
	}
	if err := group.SetImages(entries); err != nil {
		cleanup()
		return "", err
	}

	if err := s.dbClient.GetDB().WithContext(ctx).Create(&group).Error; err != nil {
		cleanup()
		return "", mapDBError(err)
	}

	metrics.DocumentOps.WithLabelValues("add_group").Inc()

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.StoredPath)
	}

	publishEvent(s.Service, queue.TopicImageGroupStored, queue.ImageGroupPayload{
		Group: queue.ImageGroupRef{ID: groupID, Images: paths},
		Actor: createdBy,
	})

	nlog.Logger().Info().Str("id", groupID).Int("images", len(entries)).Msg("image group added")

	return groupID, nil
}

// GetImageGroup 按 ID 查询图片组，不存在时返回 nil.
func (s *ImageGroupService) GetImageGroup(ctx context.Context, id string) (*types.ImageGroupInfo, error) {
	var group model.ImageGroup

	err := s.dbClient.GetDB().WithContext(ctx).First(&group, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return toImageGroupInfo(&group)
}

// ListImageGroups 按创建时间倒序列出图片组，默认排除软删除的组.
func (s *ImageGroupService) ListImageGroups(ctx context.Context, includeDeleted bool) ([]types.ImageGroupInfo, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx).Model(&model.ImageGroup{})
	if !includeDeleted {
		dbx = dbx.Where("deleted = ?", 0)
	}

	var rows []model.ImageGroup
	if err := dbx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	groups := make([]types.ImageGroupInfo, 0, len(rows))

	for i := range rows {
		info, err := toImageGroupInfo(&rows[i])
		if err != nil {
			return nil, err
		}

		groups = append(groups, *info)
	}

	return groups, nil
}

// SoftDeleteImageGroup 软删除图片组，仅对当前未删除的组生效.
func (s *ImageGroupService) SoftDeleteImageGroup(ctx context.Context, id string) (bool, error) {
	tx := s.dbClient.GetDB().WithContext(ctx).Model(&model.ImageGroup{}).
		Where("id = ? AND deleted = ?", id, 0).
		Update("deleted", 1)
	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected == 0 {
		return false, nil
	}

	publishEvent(s.Service, queue.TopicImageGroupRemoved, queue.ImageGroupPayload{Group: queue.ImageGroupRef{ID: id}})

	return true, nil
}

// RestoreImageGroup 恢复软删除的图片组，仅对当前已删除的组生效.
func (s *ImageGroupService) RestoreImageGroup(ctx context.Context, id string) (bool, error) {
	tx := s.dbClient.GetDB().WithContext(ctx).Model(&model.ImageGroup{}).
		Where("id = ? AND deleted = ?", id, 1).
		Update("deleted", 0)
	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected == 0 {
		return false, nil
	}

	publishEvent(s.Service, queue.TopicImageGroupRestored, queue.ImageGroupPayload{Group: queue.ImageGroupRef{ID: id}})

	return true, nil
}

// ArchiveImageGroup 将图片组整体迁入归档区.
// 组内每张图片的内容搬入归档存储，整组写为一条归档行，原组标记软删除.
// 单张图片内容缺失不阻断：该图片保留原路径继续归档其余图片.
func (s *ImageGroupService) ArchiveImageGroup(ctx context.Context, id, deletedBy string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "imagegroups.archive", tracing.WithDocumentID(id), tracing.WithActor(deletedBy))
	defer span.End()

	var group model.ImageGroup

	err := s.dbClient.GetDB().WithContext(ctx).First(&group, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	entries, err := group.Images()
	if err != nil {
		return false, err
	}

	archivedEntries := make([]model.ImageEntry, 0, len(entries))
	missing := 0

	for _, e := range entries {
		newPath, moved, err := s.blobClient.Archive(ctx, e.StoredPath)
		if err != nil {
			return false, fmt.Errorf("archive image %s: %w", e.OriginalName, err)
		}

		if !moved {
			missing++
		}

		archivedEntries = append(archivedEntries, model.ImageEntry{
			OriginalName: e.OriginalName,
			StoredPath:   newPath,
		})
	}

	archived := model.ArchivedImageGroup{
		ID:           group.ID,
		CreatedAt:    group.CreatedAt,
		MetadataJSON: group.MetadataJSON,
		DeletedAt:    nowISO(),
		DeletedBy:    deletedBy,
	}
	if err := archived.SetImages(archivedEntries); err != nil {
		return false, err
	}

	err = s.dbClient.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&archived).Error; err != nil {
			return err
		}

		return tx.Model(&model.ImageGroup{}).
			Where("id = ?", id).
			Update("deleted", 1).Error
	})
	if err != nil {
		return false, mapDBError(err)
	}

	metrics.DocumentOps.WithLabelValues("archive_group").Inc()

	publishEvent(s.Service, queue.TopicImageGroupArchived, queue.ImageGroupPayload{
		Group: queue.ImageGroupRef{ID: id},
		Actor: deletedBy,
	})

	nlog.Logger().Info().Str("id", id).Int("images", len(entries)).Int("missing", missing).Msg("image group archived")

	return true, nil
}

// ListArchivedImageGroups 按删除时间倒序列出归档图片组.
func (s *ImageGroupService) ListArchivedImageGroups(ctx context.Context) ([]types.ArchivedImageGroupInfo, error) {
	var rows []model.ArchivedImageGroup
	if err := s.dbClient.GetDB().WithContext(ctx).
		Order("deleted_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	groups := make([]types.ArchivedImageGroupInfo, 0, len(rows))

	for i := range rows {
		entries, err := rows[i].Images()
		if err != nil {
			return nil, err
		}

		metadata, err := types.DecodeMetadata(rows[i].MetadataJSON)
		if err != nil {
			return nil, fmt.Errorf("archived image group %s: %w", rows[i].ID, err)
		}

		groups = append(groups, types.ArchivedImageGroupInfo{
			ID:        rows[i].ID,
			CreatedAt: rows[i].CreatedAt,
			Metadata:  metadata,
			Images:    toImageRefs(entries),
			DeletedAt: rows[i].DeletedAt,
			DeletedBy: rows[i].DeletedBy,
		})
	}

	return groups, nil
}

func toImageGroupInfo(group *model.ImageGroup) (*types.ImageGroupInfo, error) {
	entries, err := group.Images()
	if err != nil {
		return nil, err
	}

	metadata, err := types.DecodeMetadata(group.MetadataJSON)
	if err != nil {
		return nil, fmt.Errorf("image group %s: %w", group.ID, err)
	}

	return &types.ImageGroupInfo{
		ID:        group.ID,
		CreatedAt: group.CreatedAt,
		Metadata:  metadata,
		Images:    toImageRefs(entries),
		Deleted:   group.Deleted != 0,
	}, nil
}

func toImageRefs(entries []model.ImageEntry) []types.ImageRef {
	refs := make([]types.ImageRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, types.ImageRef{OriginalName: e.OriginalName, StoredPath: e.StoredPath})
	}

	return refs
}
