package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

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

// CreateDocumentVersion 从新文件创建文档的下一个版本.
// 版本号取该文档现有最大版本号加一，严格单调；版本行与父文档的版本指针、
// 当前内容路径、大小、哈希、内容索引在同一事务内更新.
// 元数据写入失败时删除已复制的版本内容作为补偿.
func (s *DocumentService) CreateDocumentVersion(ctx context.Context, documentID, newFilePath, createdBy, changeDescription string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "documents.version", tracing.WithDocumentID(documentID), tracing.WithActor(createdBy))
	defer span.End()

	var doc model.Document

	err := s.dbClient.GetDB().WithContext(ctx).First(&doc, "id = ?", documentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("document %s: %w", documentID, ErrNotFound)
	}

	if err != nil {
		return "", err
	}

	if _, err := os.Stat(newFilePath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("source file %s: %w", newFilePath, ErrNotFound)
		}

		return "", fmt.Errorf("stat source file: %w", err)
	}

	fileHash, err := blob.FileHash(newFilePath)
	if err != nil {
		return "", err
	}

	fileSize, err := blob.FileSize(newFilePath)
	if err != nil {
		return "", err
	}

	var maxVersion int
	if err := s.dbClient.GetDB().WithContext(ctx).Model(&model.DocumentVersion{}).
		Where("document_id = ?", documentID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&maxVersion).Error; err != nil {
		return "", err
	}

	versionID := uuid.NewString()
	versionNumber := maxVersion + 1
	originalName := filepath.Base(newFilePath)

	var contentIndex *string

	if DeriveFileType(originalName) == types.FileTypeText {
		raw, readErr := os.ReadFile(newFilePath)
		if readErr != nil {
			return "", fmt.Errorf("read source file: %w", readErr)
		}

		contentIndex = buildContentIndex(originalName, raw)
	}

	src, err := os.Open(newFilePath)
	if err != nil {
		return "", fmt.Errorf("open source file: %w", err)
	}

	storedPath, _, err := s.blobClient.Put(ctx, versionID+"_"+originalName, src)
	src.Close()

	if err != nil {
		return "", err
	}

	version := model.DocumentVersion{
		ID:                versionID,
		DocumentID:        documentID,
		VersionNumber:     versionNumber,
		OriginalName:      originalName,
		StoredPath:        storedPath,
		CreatedAt:         nowISO(),
		CreatedBy:         createdBy,
		ChangeDescription: changeDescription,
		FileSize:          fileSize,
		FileHash:          fileHash,
	}

	err = s.dbClient.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&version).Error; err != nil {
			return err
		}

		// 父文档始终指向最大版本号与最新内容
		return tx.Model(&model.Document{}).
			Where("id = ?", documentID).
			Updates(map[string]any{
				"version":       versionNumber,
				"original_name": originalName,
				"stored_path":   storedPath,
				"file_size":     fileSize,
				"file_hash":     fileHash,
				"content_index": contentIndex,
			}).Error
	})
	if err != nil {
		if cleanupErr := s.blobClient.Remove(ctx, storedPath); cleanupErr != nil {
			nlog.Logger().Error().Err(cleanupErr).Str("path", storedPath).Msg("compensating blob cleanup failed")
		}

		return "", mapDBError(err)
	}

	metrics.VersionsCreated.Inc()
	metrics.BlobBytesMoved.WithLabelValues("in").Add(float64(fileSize))

	s.publishDocumentEvent(queue.TopicDocumentVersioned, queue.DocumentVersionedPayload{
		Document: queue.DocumentRef{
			ID:   documentID,
			Name: originalName,
			Path: storedPath,
			Size: fileSize,
			Hash: fileHash,
		},
		VersionID:     versionID,
		VersionNumber: versionNumber,
		Comment:       changeDescription,
		Actor:         createdBy,
	})

	nlog.Logger().Info().
		Str("document_id", documentID).
		Int("version", versionNumber).
		Msg("document version created")

	return versionID, nil
}

// GetDocumentVersions 按版本号倒序列出文档历史版本.
func (s *DocumentService) GetDocumentVersions(ctx context.Context, documentID string) ([]types.VersionInfo, error) {
	var rows []model.DocumentVersion
	if err := s.dbClient.GetDB().WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("version_number DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	versions := make([]types.VersionInfo, 0, len(rows))
	for _, row := range rows {
		versions = append(versions, types.VersionInfo{
			ID:                row.ID,
			DocumentID:        row.DocumentID,
			VersionNumber:     row.VersionNumber,
			OriginalName:      row.OriginalName,
			StoredPath:        row.StoredPath,
			CreatedAt:         row.CreatedAt,
			CreatedBy:         row.CreatedBy,
			ChangeDescription: row.ChangeDescription,
			FileSize:          row.FileSize,
			FileHash:          row.FileHash,
		})
	}

	return versions, nil
}
