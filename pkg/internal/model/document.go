// Package model 定义数据库模型，以 DB 为真源，自由格式字段以 JSON 文本存储.
package model

// 时间戳列统一存定宽纳秒精度的 ISO-8601 文本，
// 使日期范围过滤可以按字典序比较，跨方言行为一致.

// Document 文档模型.
// Version 指向当前版本号，必须等于该文档全部版本行中最大的 VersionNumber.
type Document struct {
	ID           string  `gorm:"primaryKey;size:64"        json:"id"`
	OriginalName string  `gorm:"size:512;index"            json:"original_name"`
	StoredPath   string  `gorm:"size:1024;uniqueIndex"     json:"stored_path"`
	CreatedAt    string  `gorm:"size:64;index"             json:"created_at"`
	Version      int     `gorm:"default:1"                 json:"version"`
	MetadataJSON string  `gorm:"column:metadata;type:text" json:"-"`
	Deleted      int     `gorm:"default:0;index"           json:"deleted"`
	DeletedAt    *string `gorm:"size:64"                   json:"deleted_at,omitempty"`
	FileSize     int64   `gorm:"index"                     json:"file_size"`
	FileHash     string  `gorm:"size:64"                   json:"file_hash"`
	ContentIndex *string `gorm:"type:text"                 json:"-"`

	Versions []DocumentVersion `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment         `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名.
func (Document) TableName() string {
	return "documents"
}

// ArchivedDocument 归档文档模型，写入后不再修改.
// 携带归档前的完整字段，另带归档时间与操作者.
type ArchivedDocument struct {
	ID           string  `gorm:"primaryKey;size:64"        json:"id"`
	OriginalName string  `gorm:"size:512"                  json:"original_name"`
	StoredPath   string  `gorm:"size:1024;uniqueIndex"     json:"stored_path"`
	CreatedAt    string  `gorm:"size:64"                   json:"created_at"`
	Version      int     `gorm:"default:1"                 json:"version"`
	MetadataJSON string  `gorm:"column:metadata;type:text" json:"-"`
	FileSize     int64   `json:"file_size"`
	FileHash     string  `gorm:"size:64"                   json:"file_hash"`
	ContentIndex *string `gorm:"type:text"                 json:"-"`
	DeletedAt    string  `gorm:"size:64;index"             json:"deleted_at"`
	DeletedBy    string  `gorm:"size:255"                  json:"deleted_by"`
}

// TableName 指定表名.
func (ArchivedDocument) TableName() string {
	return "archived_documents"
}

// DocumentVersion 文档历史版本模型，版本号从 1 起随保存递增，行创建后不可变.
type DocumentVersion struct {
	ID                string `gorm:"primaryKey;size:64"                   json:"id"`
	DocumentID        string `gorm:"size:64;index:idx_doc_version,unique" json:"document_id"`
	VersionNumber     int    `gorm:"index:idx_doc_version,unique"         json:"version_number"`
	OriginalName      string `gorm:"size:512"                             json:"original_name"`
	StoredPath        string `gorm:"size:1024"                            json:"stored_path"`
	CreatedAt         string `gorm:"size:64"                              json:"created_at"`
	CreatedBy         string `gorm:"size:255"                             json:"created_by"`
	ChangeDescription string `gorm:"type:text"                            json:"change_description"`
	FileSize          int64  `json:"file_size"`
	FileHash          string `gorm:"size:64"                              json:"file_hash"`
}

// TableName 指定表名.
func (DocumentVersion) TableName() string {
	return "document_versions"
}
