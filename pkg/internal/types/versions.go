package types

// VersionInfo 文档历史版本查询结果.
type VersionInfo struct {
	ID                string `json:"id"`
	DocumentID        string `json:"document_id"`
	VersionNumber     int    `json:"version_number"`
	OriginalName      string `json:"original_name"`
	StoredPath        string `json:"stored_path"`
	CreatedAt         string `json:"created_at"`
	CreatedBy         string `json:"created_by"`
	ChangeDescription string `json:"change_description,omitempty"`
	FileSize          int64  `json:"file_size"`
	FileHash          string `json:"file_hash"`
}
