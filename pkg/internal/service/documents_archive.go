package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/types"
	nlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/metrics"
	"github.com/yeisme/docvault/pkg/queue"
	"github.com/yeisme/docvault/pkg/tracing"
)

// ArchiveDocument 将文档迁入归档区.
// 内容搬入归档存储，元数据复制为归档行并记录删除人与时间，原行标记软删除.
// 内容缺失不阻断归档：元数据照常迁移，缺失情况单独记入活动日志.
// 文档不存在时返回 false.
func (s *DocumentService) ArchiveDocument(ctx context.Context, id, deletedBy string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "documents.archive", tracing.WithDocumentID(id), tracing.WithActor(deletedBy))
	defer span.End()

	var doc model.Document

	err := s.dbClient.GetDB().WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	archivedPath, moved, err := s.blobClient.Archive(ctx, doc.StoredPath)
	if err != nil {
		return false, fmt.Errorf("archive blob: %w", err)
	}

	archived := model.ArchivedDocument{
		ID:           doc.ID,
		OriginalName: doc.OriginalName,
		StoredPath:   archivedPath,
		CreatedAt:    doc.CreatedAt,
		DeletedAt:    nowISO(),
		DeletedBy:    deletedBy,
		Version:      doc.Version,
		MetadataJSON: doc.MetadataJSON,
		FileSize:     doc.FileSize,
		FileHash:     doc.FileHash,
	}

	err = s.dbClient.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 重复归档时覆盖旧归档行
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&archived).Error; err != nil {
			return err
		}

		return tx.Model(&model.Document{}).
			Where("id = ?", id).
			Updates(map[string]any{"deleted": 1, "deleted_at": archived.DeletedAt}).Error
	})
	if err != nil {
		return false, mapDBError(err)
	}

	if !moved {
		// 元数据已归档但内容早已丢失，留痕以便审计
		s.recordBlobMissing(ctx, id, deletedBy, doc.StoredPath)
	} else {
		metrics.BlobBytesMoved.WithLabelValues("archive").Add(float64(doc.FileSize))
	}

	metrics.DocumentOps.WithLabelValues("archive").Inc()

	s.publishDocumentEvent(queue.TopicDocumentArchived, queue.DocumentArchivedPayload{
		Document: queue.DocumentRef{
			ID:   doc.ID,
			Name: doc.OriginalName,
			Path: archivedPath,
			Size: doc.FileSize,
			Hash: doc.FileHash,
		},
		BlobMissing: !moved,
		Actor:       deletedBy,
	})

	nlog.Logger().Info().Str("id", id).Bool("blob_moved", moved).Msg("document archived")

	return true, nil
}

// ArchiveMany 批量归档，逐项执行并汇总成功/失败计数，单项失败不阻断其余项.
func (s *DocumentService) ArchiveMany(ctx context.Context, ids []string, deletedBy string) types.ArchiveManyResponse {
	resp := types.ArchiveManyResponse{
		Results: make([]types.ArchiveItemResult, 0, len(ids)),
		Total:   len(ids),
	}

	for _, id := range ids {
		item := types.ArchiveItemResult{ID: id}

		ok, err := s.ArchiveDocument(ctx, id, deletedBy)

		switch {
		case err != nil:
			item.Error = err.Error()
			resp.Failed++
		case !ok:
			item.Error = "document not found"
			resp.Failed++
		default:
			item.Success = true
			resp.Successful++
		}

		resp.Results = append(resp.Results, item)
	}

	return resp
}

// ListArchivedDocuments 按删除时间倒序列出归档文档.
func (s *DocumentService) ListArchivedDocuments(ctx context.Context) ([]types.ArchivedDocumentInfo, error) {
	var rows []model.ArchivedDocument
	if err := s.dbClient.GetDB().WithContext(ctx).
		Order("deleted_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]types.ArchivedDocumentInfo, 0, len(rows))

	for i := range rows {
		info, err := toArchivedDocumentInfo(&rows[i])
		if err != nil {
			return nil, err
		}

		docs = append(docs, *info)
	}

	return docs, nil
}

// GetArchivedDocument 按 ID 查询归档文档，不存在时返回 nil.
func (s *DocumentService) GetArchivedDocument(ctx context.Context, id string) (*types.ArchivedDocumentInfo, error) {
	var row model.ArchivedDocument

	err := s.dbClient.GetDB().WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return toArchivedDocumentInfo(&row)
}

// RestoreArchivedDocument 从归档区恢复文档.
// 内容搬回活跃存储，归档行删除，原行 deleted 复位；归档内容缺失时同样继续.
func (s *DocumentService) RestoreArchivedDocument(ctx context.Context, id string) (bool, error) {
	var row model.ArchivedDocument

	err := s.dbClient.GetDB().WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	restoredPath, moved, err := s.blobClient.Restore(ctx, row.StoredPath)
	if err != nil {
		return false, fmt.Errorf("restore blob: %w", err)
	}

	err = s.dbClient.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Document{}).
			Where("id = ?", id).
			Updates(map[string]any{"deleted": 0, "deleted_at": nil, "stored_path": restoredPath}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.ArchivedDocument{}, "id = ?", id).Error
	})
	if err != nil {
		return false, mapDBError(err)
	}

	if moved {
		metrics.BlobBytesMoved.WithLabelValues("restore").Add(float64(row.FileSize))
	}

	metrics.DocumentOps.WithLabelValues("restore").Inc()

	s.publishDocumentEvent(queue.TopicDocumentRestored, queue.DocumentRestoredPayload{
		Document: queue.DocumentRef{ID: id, Name: row.OriginalName, Path: restoredPath},
		From:     "archive",
	})

	return true, nil
}

// ArchiveExpiredTrash 将回收站里滞留超过保留期的文档迁入归档区.
// cutoff 为 ISO-8601 时间文本，删除时间早于它且尚未归档的软删除文档全部归档.
// 返回成功归档的条数，供定时维护任务调用.
func (s *DocumentService) ArchiveExpiredTrash(ctx context.Context, cutoff, deletedBy string) (int, error) {
	var ids []string
	if err := s.dbClient.GetDB().WithContext(ctx).Model(&model.Document{}).
		Where("deleted = ? AND deleted_at IS NOT NULL AND deleted_at < ?", 1, cutoff).
		Where("id NOT IN (SELECT id FROM archived_documents)").
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		return 0, nil
	}

	resp := s.ArchiveMany(ctx, ids, deletedBy)
	if resp.Failed > 0 {
		nlog.Logger().Warn().Int("failed", resp.Failed).Msg("trash retention sweep had failures")
	}

	return resp.Successful, nil
}

// recordBlobMissing 归档时内容缺失的审计记录，写入失败仅告警.
func (s *DocumentService) recordBlobMissing(ctx context.Context, docID, userID, storedPath string) {
	activity := &ActivityService{s.Service}

	_, err := activity.LogActivity(ctx, docID, userID, types.ActivityEdit, map[string]any{
		"action":       "archive",
		"blob_missing": true,
		"stored_path":  storedPath,
	}, "", "")
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("id", docID).Msg("record blob-missing activity failed")
	}
}

func toArchivedDocumentInfo(row *model.ArchivedDocument) (*types.ArchivedDocumentInfo, error) {
	metadata, err := types.DecodeMetadata(row.MetadataJSON)
	if err != nil {
		return nil, fmt.Errorf("archived document %s: %w", row.ID, err)
	}

	return &types.ArchivedDocumentInfo{
		ID:           row.ID,
		OriginalName: row.OriginalName,
		StoredPath:   row.StoredPath,
		CreatedAt:    row.CreatedAt,
		DeletedAt:    row.DeletedAt,
		DeletedBy:    row.DeletedBy,
		Version:      row.Version,
		Metadata:     metadata,
		FileSize:     row.FileSize,
		FileHash:     row.FileHash,
		FileType:     DeriveFileType(row.OriginalName),
	}, nil
}
