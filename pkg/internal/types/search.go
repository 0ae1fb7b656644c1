package types

// SearchFilters 搜索过滤条件，各字段可选，同时给出时按 AND 组合.
// 日期界限是 ISO-8601 文本的字典序比较，大小以字节计.
type SearchFilters struct {
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
	FileType string `json:"file_type,omitempty"`
	SizeMin  int64  `json:"size_min,omitempty"`
	SizeMax  int64  `json:"size_max,omitempty"`
	Status   string `json:"status,omitempty"`
}

// IsZero 判断是否没有任何过滤条件.
func (f SearchFilters) IsZero() bool {
	return f == SearchFilters{}
}

// SearchSource 搜索结果来源.
type SearchSource string

const (
	SearchSourceDocument   SearchSource = "document"
	SearchSourceImageGroup SearchSource = "image_group"
)

// SearchResult 单条搜索结果，按来源携带对应实体.
type SearchResult struct {
	Source    SearchSource `json:"source"`
	CreatedAt string       `json:"created_at"`

	Document   *DocumentInfo   `json:"document,omitempty"`
	ImageGroup *ImageGroupInfo `json:"image_group,omitempty"`
}

// SavedSearchInfo 保存的搜索查询结果.
type SavedSearchInfo struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	SearchName  string        `json:"search_name"`
	SearchQuery string        `json:"search_query"`
	Filters     SearchFilters `json:"filters"`
	CreatedAt   string        `json:"created_at"`
	LastUsed    string        `json:"last_used"`
}
