package types

// ImageRef 图片组内单张图片的引用.
type ImageRef struct {
	OriginalName string `json:"original_name"`
	StoredPath   string `json:"stored_path"`
}

// ImageInput 创建图片组时的单张图片输入.
type ImageInput struct {
	Path         string `json:"path"          rule:"required"`
	OriginalName string `json:"original_name"`
}

// ImageGroupInfo 图片组查询结果.
type ImageGroupInfo struct {
	ID        string           `json:"id"`
	CreatedAt string           `json:"created_at"`
	Metadata  DocumentMetadata `json:"metadata"`
	Images    []ImageRef       `json:"images"`
	Deleted   bool             `json:"deleted"`
}

// ArchivedImageGroupInfo 归档图片组查询结果.
type ArchivedImageGroupInfo struct {
	ID        string           `json:"id"`
	CreatedAt string           `json:"created_at"`
	Metadata  DocumentMetadata `json:"metadata"`
	Images    []ImageRef       `json:"images"`
	DeletedAt string           `json:"deleted_at"`
	DeletedBy string           `json:"deleted_by"`
}
