package model

// Comment 文档评论模型，ParentCommentID 指向同表父评论以支持层级回复，只追加不修改.
type Comment struct {
	ID              string  `gorm:"primaryKey;size:64" json:"id"`
	DocumentID      string  `gorm:"size:64;index"      json:"document_id"`
	UserID          string  `gorm:"size:255;index"     json:"user_id"`
	CommentText     string  `gorm:"type:text"          json:"comment_text"`
	CreatedAt       string  `gorm:"size:64"            json:"created_at"`
	ParentCommentID *string `gorm:"size:64;index"      json:"parent_comment_id,omitempty"`

	Replies []Comment `gorm:"foreignKey:ParentCommentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名.
func (Comment) TableName() string {
	return "document_comments"
}

// Permission 用户对文档的授权模型.
// 同一 (user_id, document_id) 只保留一条记录，重复授权按更新处理.
type Permission struct {
	ID             string  `gorm:"primaryKey;size:64"                 json:"id"`
	UserID         string  `gorm:"size:255;index:idx_user_doc,unique" json:"user_id"`
	DocumentID     string  `gorm:"size:64;index:idx_user_doc,unique"  json:"document_id"`
	PermissionType string  `gorm:"size:32"                            json:"permission_type"`
	GrantedBy      string  `gorm:"size:255"                           json:"granted_by"`
	GrantedAt      string  `gorm:"size:64"                            json:"granted_at"`
	ExpiresAt      *string `gorm:"size:64;index"                      json:"expires_at,omitempty"`
}

// TableName 指定表名.
func (Permission) TableName() string {
	return "user_permissions"
}

// ActivityLog 文档活动记录模型，只追加的审计轨迹.
// ActivityDataJSON 为任意附加数据的 JSON 文本.
type ActivityLog struct {
	ID               string `gorm:"primaryKey;size:64"             json:"id"`
	DocumentID       string `gorm:"size:64;index"                  json:"document_id"`
	UserID           string `gorm:"size:255;index"                 json:"user_id"`
	ActivityType     string `gorm:"size:32;index"                  json:"activity_type"`
	ActivityDataJSON string `gorm:"column:activity_data;type:text" json:"-"`
	CreatedAt        string `gorm:"size:64;index"                  json:"created_at"`
	IPAddress        string `gorm:"size:64"                        json:"ip_address,omitempty"`
	UserAgent        string `gorm:"size:512"                       json:"user_agent,omitempty"`
}

// TableName 指定表名.
func (ActivityLog) TableName() string {
	return "document_activity"
}

// SavedSearch 保存的搜索模型，过滤条件以 JSON 文本存储.
type SavedSearch struct {
	ID            string `gorm:"primaryKey;size:64"              json:"id"`
	UserID        string `gorm:"size:255;index"                  json:"user_id"`
	SearchName    string `gorm:"size:255"                        json:"search_name"`
	SearchQuery   string `gorm:"type:text"                       json:"search_query"`
	SearchFilters string `gorm:"column:search_filters;type:text" json:"-"`
	CreatedAt     string `gorm:"size:64"                         json:"created_at"`
	LastUsed      string `gorm:"size:64"                         json:"last_used"`
}

// TableName 指定表名.
func (SavedSearch) TableName() string {
	return "saved_searches"
}
