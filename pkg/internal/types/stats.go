package types

// StatsSummary 仓库总体统计.
type StatsSummary struct {
	TotalDocuments    int   `json:"total_documents"`
	ActiveDocuments   int   `json:"active_documents"`
	DeletedDocuments  int   `json:"deleted_documents"`
	ArchivedDocuments int   `json:"archived_documents"`
	TotalImageGroups  int   `json:"total_image_groups"`
	TotalVersions     int   `json:"total_versions"`
	TotalSize         int64 `json:"total_size"`
}

// StatsStatusCounts 按审核状态聚合（文档与图片组合并）.
type StatsStatusCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// StatsTypeItem 按派生文件类型聚合.
type StatsTypeItem struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Size  int64  `json:"size"`
}

// StatsMonthlyPoint 按月上传量趋势点.
type StatsMonthlyPoint struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// StatsResponse 仓库统计汇总响应.
type StatsResponse struct {
	Summary       StatsSummary        `json:"summary"`
	StatusCounts  StatsStatusCounts   `json:"status_counts"`
	ByType        []StatsTypeItem     `json:"by_type"`
	MonthlyTrend  []StatsMonthlyPoint `json:"monthly_trend"`
	UploadsLatest int                 `json:"uploads_this_month"`
}
