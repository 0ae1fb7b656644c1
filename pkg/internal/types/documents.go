package types

// FileType 按扩展名派生的文件分类.
type FileType string

const (
	FileTypeText  FileType = "text"
	FileTypeImage FileType = "image"
	FileTypePDF   FileType = "pdf"
	FileTypeOther FileType = "other"
)

// DocumentInfo 文档查询结果.
// FileType 由扩展名派生，文本文件另带内联内容.
type DocumentInfo struct {
	ID           string           `json:"id"`
	OriginalName string           `json:"original_name"`
	StoredPath   string           `json:"stored_path"`
	CreatedAt    string           `json:"created_at"`
	Version      int              `json:"version"`
	Metadata     DocumentMetadata `json:"metadata"`
	Deleted      bool             `json:"deleted"`
	FileSize     int64            `json:"file_size"`
	FileHash     string           `json:"file_hash"`
	FileType     FileType         `json:"file_type"`
	// Content 文本文件的内联内容；空文件与不可读内容以标记串表示.
	Content string `json:"content,omitempty"`
}

// ArchivedDocumentInfo 归档文档查询结果.
type ArchivedDocumentInfo struct {
	ID           string           `json:"id"`
	OriginalName string           `json:"original_name"`
	StoredPath   string           `json:"stored_path"`
	CreatedAt    string           `json:"created_at"`
	Version      int              `json:"version"`
	Metadata     DocumentMetadata `json:"metadata"`
	FileSize     int64            `json:"file_size"`
	FileHash     string           `json:"file_hash"`
	DeletedAt    string           `json:"deleted_at"`
	DeletedBy    string           `json:"deleted_by"`
	FileType     FileType         `json:"file_type"`
}

// ArchiveItemResult 批量归档中单个条目的结果.
type ArchiveItemResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ArchiveManyResponse 批量归档结果汇总.
type ArchiveManyResponse struct {
	Results    []ArchiveItemResult `json:"results"`
	Total      int                 `json:"total"`
	Successful int                 `json:"successful"`
	Failed     int                 `json:"failed"`
}
