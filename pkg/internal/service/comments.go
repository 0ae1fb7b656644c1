package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yeisme/docvault/pkg/internal/model"
	"github.com/yeisme/docvault/pkg/internal/types"
)

// CommentService 文档评论服务.
type CommentService struct{ *Service }

// NewCommentService 创建评论服务.
func NewCommentService(c context.Context) *CommentService {
	return &CommentService{newService(c)}
}

// AddComment 在文档上追加一条评论，parentID 非空时作为该评论的回复.
func (s *CommentService) AddComment(ctx context.Context, documentID, userID, text, parentID string) (string, error) {
	if documentID == "" || userID == "" || text == "" {
		return "", fmt.Errorf("%w: document id, user id and text are required", ErrInvalidInput)
	}

	comment := model.Comment{
		ID:          uuid.NewString(),
		DocumentID:  documentID,
		UserID:      userID,
		CommentText: text,
		CreatedAt:   nowISO(),
	}
	if parentID != "" {
		comment.ParentCommentID = &parentID
	}

	if err := s.dbClient.GetDB().WithContext(ctx).Create(&comment).Error; err != nil {
		return "", mapDBError(err)
	}

	return comment.ID, nil
}

// GetComments 列出文档的评论树.
// 顶层评论按时间倒序，每条评论的直接回复按时间升序挂在 Replies 下.
func (s *CommentService) GetComments(ctx context.Context, documentID string) ([]types.CommentInfo, error) {
	var rows []model.Comment
	if err := s.dbClient.GetDB().WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byParent := make(map[string][]types.CommentInfo, len(rows))
	roots := make([]types.CommentInfo, 0, len(rows))

	for _, row := range rows {
		info := types.CommentInfo{
			ID:          row.ID,
			DocumentID:  row.DocumentID,
			UserID:      row.UserID,
			CommentText: row.CommentText,
			CreatedAt:   row.CreatedAt,
		}
		if row.ParentCommentID != nil {
			info.ParentCommentID = *row.ParentCommentID
		}

		if info.ParentCommentID == "" {
			roots = append(roots, info)
		} else {
			byParent[info.ParentCommentID] = append(byParent[info.ParentCommentID], info)
		}
	}

	// 只挂一层直接回复，更深层级的回复依然按父 ID 可寻
	for i := range roots {
		roots[i].Replies = byParent[roots[i].ID]
	}

	// 顶层倒序
	for i, j := 0, len(roots)-1; i < j; i, j = i+1, j-1 {
		roots[i], roots[j] = roots[j], roots[i]
	}

	return roots, nil
}
