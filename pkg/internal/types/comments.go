package types

// CommentInfo 评论查询结果，Replies 为按时间升序的直接回复.
type CommentInfo struct {
	ID              string        `json:"id"`
	DocumentID      string        `json:"document_id"`
	UserID          string        `json:"user_id"`
	CommentText     string        `json:"comment_text"`
	CreatedAt       string        `json:"created_at"`
	ParentCommentID string        `json:"parent_comment_id,omitempty"`
	Replies         []CommentInfo `json:"replies,omitempty"`
}
