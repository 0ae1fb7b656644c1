package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/storage/blob"
	"github.com/yeisme/docvault/pkg/internal/types"
	nlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/metrics"
	"github.com/yeisme/docvault/pkg/queue"
	"github.com/yeisme/docvault/pkg/tracing"
)

// DocumentService 文档生命周期服务.
type DocumentService struct{ *Service }

// NewDocumentService 创建文档服务.
func NewDocumentService(c context.Context) *DocumentService {
	return &DocumentService{newService(c)}
}

// AddDocument 从本地文件创建文档.
// 计算大小/哈希/内容索引，复制内容到存储区，再在一个事务内写入文档行
// 与首个版本行（版本号 1）；元数据写入失败时删除已复制的内容作为补偿，
// 绝不留下没有元数据行的孤儿内容.
func (s *DocumentService) AddDocument(ctx context.Context, path string, metadata types.DocumentMetadata, createdBy string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "documents.add")
	defer span.End()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("source file %s: %w", path, ErrNotFound)
		}

		return "", fmt.Errorf("stat source file: %w", err)
	}

	fileHash, err := blob.FileHash(path)
	if err != nil {
		return "", err
	}

	fileSize, err := blob.FileSize(path)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	originalName := filepath.Base(path)

	var contentIndex *string

	if DeriveFileType(originalName) == types.FileTypeText {
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return "", fmt.Errorf("read source file: %w", readErr)
		}

		contentIndex = buildContentIndex(originalName, raw)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source file: %w", err)
	}

	storedPath, _, err := s.blobClient.Put(ctx, id+"_"+originalName, src)
	src.Close()

	if err != nil {
		return "", err
	}

	metaJSON, err := metadata.Encode()
	if err != nil {
		_ = s.blobClient.Remove(ctx, storedPath)
		return "", err
	}

	now := nowISO()
	doc := model.Document{
		ID:           id,
		OriginalName: originalName,
		StoredPath:   storedPath,
		CreatedAt:    now,
		Version:      1,
		MetadataJSON: metaJSON,
		FileSize:     fileSize,
		FileHash:     fileHash,
		ContentIndex: contentIndex,
	}
	initialVersion := model.DocumentVersion{
		ID:            uuid.NewString(),
		DocumentID:    id,
		VersionNumber: 1,
		OriginalName:  originalName,
		StoredPath:    storedPath,
		CreatedAt:     now,
		CreatedBy:     createdBy,
		FileSize:      fileSize,
		FileHash:      fileHash,
	}

	err = s.dbClient.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}

		return tx.Create(&initialVersion).Error
	})
	if err != nil {
		// 补偿：元数据未落库，不留孤儿内容
		if cleanupErr := s.blobClient.Remove(ctx, storedPath); cleanupErr != nil {
			nlog.Logger().Error().Err(cleanupErr).Str("path", storedPath).Msg("compensating blob cleanup failed")
		}

		return "", mapDBError(err)
	}

	metrics.DocumentOps.WithLabelValues("add").Inc()
	metrics.BlobBytesMoved.WithLabelValues("in").Add(float64(fileSize))

	s.publishDocumentStored(doc, createdBy)

	nlog.Logger().Info().Str("id", id).Str("name", originalName).Int64("size", fileSize).Msg("document added")

	return id, nil
}

// GetDocument 按 ID 查询文档，不存在时返回 nil.
// 查询不过滤软删除标记，归档后的行依然可以按 ID 找到.
// 结果附带派生文件类型；文本文件内联内容，空文件与不可读内容用标记串.
func (s *DocumentService) GetDocument(ctx context.Context, id string) (*types.DocumentInfo, error) {
	ctx, span := tracing.StartSpan(ctx, "documents.get", tracing.WithDocumentID(id))
	defer span.End()

	var doc model.Document

	err := s.dbClient.GetDB().WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	info, err := s.toDocumentInfo(&doc)
	if err != nil {
		return nil, err
	}

	if info.FileType == types.FileTypeText {
		info.Content = s.inlineTextContent(ctx, doc.StoredPath)
	}

	return info, nil
}

// ListDocuments 按创建时间倒序列出文档，默认排除软删除的行.
func (s *DocumentService) ListDocuments(ctx context.Context, includeDeleted bool) ([]types.DocumentInfo, error) {
	dbx := s.dbClient.GetDB().WithContext(ctx).Model(&model.Document{})
	if !includeDeleted {
		dbx = dbx.Where("deleted = ?", 0)
	}

	var rows []model.Document
	if err := dbx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]types.DocumentInfo, 0, len(rows))

	for i := range rows {
		info, err := s.toDocumentInfo(&rows[i])
		if err != nil {
			return nil, err
		}

		docs = append(docs, *info)
	}

	return docs, nil
}

// UpdateMetadata 整体替换文档元数据（本层不做合并，调用方先合并再传入）.
// 文档不存在时返回 false.
func (s *DocumentService) UpdateMetadata(ctx context.Context, id string, metadata types.DocumentMetadata) (bool, error) {
	metaJSON, err := metadata.Encode()
	if err != nil {
		return false, err
	}

	tx := s.dbClient.GetDB().WithContext(ctx).Model(&model.Document{}).
		Where("id = ?", id).
		Update("metadata", metaJSON)
	if tx.Error != nil {
		return false, mapDBError(tx.Error)
	}

	if tx.RowsAffected == 0 {
		return false, nil
	}

	metrics.DocumentOps.WithLabelValues("update").Inc()

	return true, nil
}

// SoftDelete 软删除：deleted 0→1，仅对当前未删除的行生效.
// 已删除的行再次删除返回 false，避免把重复操作报告为成功.
func (s *DocumentService) SoftDelete(ctx context.Context, id string) (bool, error) {
	now := nowISO()

	tx := s.dbClient.GetDB().WithContext(ctx).Model(&model.Document{}).
		Where("id = ? AND deleted = ?", id, 0).
		Updates(map[string]any{"deleted": 1, "deleted_at": now})
	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected == 0 {
		return false, nil
	}

	metrics.DocumentOps.WithLabelValues("remove").Inc()

	s.publishDocumentEvent(queue.TopicDocumentRemoved, queue.DocumentRemovedPayload{
		Document: queue.DocumentRef{ID: id},
	})

	nlog.Logger().Info().Str("id", id).Str("at", now).Msg("document soft deleted")

	return true, nil
}

// Restore 恢复软删除：deleted 1→0，仅对当前已删除的行生效.
func (s *DocumentService) Restore(ctx context.Context, id string) (bool, error) {
	tx := s.dbClient.GetDB().WithContext(ctx).Model(&model.Document{}).
		Where("id = ? AND deleted = ?", id, 1).
		Updates(map[string]any{"deleted": 0, "deleted_at": nil})
	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected == 0 {
		return false, nil
	}

	metrics.DocumentOps.WithLabelValues("restore").Inc()

	s.publishDocumentEvent(queue.TopicDocumentRestored, queue.DocumentRestoredPayload{
		Document: queue.DocumentRef{ID: id},
		From:     "trash",
	})

	return true, nil
}

// RemoveDocumentPermanently 永久删除：先删内容（含全部版本内容），再删行.
// 版本、评论、授权与活动记录随之清除；文档不存在时返回 false.
func (s *DocumentService) RemoveDocumentPermanently(ctx context.Context, id string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "documents.purge", tracing.WithDocumentID(id))
	defer span.End()

	var doc model.Document

	err := s.dbClient.GetDB().WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	var versions []model.DocumentVersion
	if err := s.dbClient.GetDB().WithContext(ctx).
		Where("document_id = ?", id).Find(&versions).Error; err != nil {
		return false, err
	}

	// 内容删除在前；行删除失败留下"内容已失、行还在"的已知风险
	if err := s.blobClient.Remove(ctx, doc.StoredPath); err != nil {
		return false, err
	}

	for _, v := range versions {
		if v.StoredPath == doc.StoredPath {
			continue
		}

		if err := s.blobClient.Remove(ctx, v.StoredPath); err != nil {
			nlog.Logger().Warn().Err(err).Str("path", v.StoredPath).Msg("version blob removal failed")
		}
	}

	err = s.dbClient.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 显式删除子表，不依赖方言的级联行为
		for _, child := range []any{
			&model.DocumentVersion{}, &model.Comment{},
			&model.Permission{}, &model.ActivityLog{},
		} {
			if err := tx.Where("document_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&model.Document{}, "id = ?", id).Error
	})
	if err != nil {
		return false, err
	}

	metrics.DocumentOps.WithLabelValues("purge").Inc()

	s.publishDocumentEvent(queue.TopicDocumentPurged, queue.DocumentPurgedPayload{
		Document:        queue.DocumentRef{ID: id, Name: doc.OriginalName},
		VersionsRemoved: len(versions),
	})

	nlog.Logger().Info().Str("id", id).Int("versions", len(versions)).Msg("document permanently removed")

	return true, nil
}

// toDocumentInfo 将数据库行转换为查询结果，解析元数据并派生文件类型.
func (s *DocumentService) toDocumentInfo(doc *model.Document) (*types.DocumentInfo, error) {
	metadata, err := types.DecodeMetadata(doc.MetadataJSON)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.ID, err)
	}

	return &types.DocumentInfo{
		ID:           doc.ID,
		OriginalName: doc.OriginalName,
		StoredPath:   doc.StoredPath,
		CreatedAt:    doc.CreatedAt,
		Version:      doc.Version,
		Metadata:     metadata,
		Deleted:      doc.Deleted != 0,
		FileSize:     doc.FileSize,
		FileHash:     doc.FileHash,
		FileType:     DeriveFileType(doc.OriginalName),
	}, nil
}

// inlineTextContent 读出文本文件内容，读取失败以标记串表示而不报错.
func (s *DocumentService) inlineTextContent(ctx context.Context, storedPath string) string {
	rc, err := s.blobClient.Open(ctx, storedPath)
	if err != nil {
		return unreadableFileContent
	}
	defer rc.Close()

	return readTextContent(rc)
}

// publishDocumentStored 发布文档入库事件，MQ 未配置时静默跳过.
func (s *DocumentService) publishDocumentStored(doc model.Document, actor string) {
	if s.mqClient == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(queue.TopicDocumentStored, queue.DocumentStoredPayload{
		Document: queue.DocumentRef{
			ID:       doc.ID,
			Name:     doc.OriginalName,
			Path:     doc.StoredPath,
			FileType: string(DeriveFileType(doc.OriginalName)),
			Size:     doc.FileSize,
			Hash:     doc.FileHash,
		},
		Actor: actor,
	}, queue.WithProducer("docvault"))
	if err != nil {
		nlog.Logger().Warn().Err(err).Msg("build document stored event failed")
		return
	}

	if err := s.mqClient.Publish(context.Background(), queue.TopicDocumentStored, msg); err != nil {
		nlog.Logger().Warn().Err(err).Msg("publish document stored event failed")
	}
}

// publishDocumentEvent 发布泛化文档事件，MQ 未配置时静默跳过.
func publishEvent[T any](s *Service, topic string, payload T) {
	if s.mqClient == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(topic, payload, queue.WithProducer("docvault"))
	if err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("build event failed")
		return
	}

	if err := s.mqClient.Publish(context.Background(), topic, msg); err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish event failed")
	}
}

func (s *DocumentService) publishDocumentEvent(topic string, payload any) {
	publishEvent(s.Service, topic, payload)
}

// mapDBError 将驱动层错误映射为服务层错误类别.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint") ||
		strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "duplicate key") {
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	}

	return err
}
