package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 文档领域 --------------------------

// DocumentRef 标识文档及其存储位置.
type DocumentRef struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Path     string `json:"path,omitempty"`
	FileType string `json:"file_type,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Hash     string `json:"hash,omitempty"`
}

// DocumentStoredPayload 新文档已写入存储与数据库.
type DocumentStoredPayload struct {
	Document DocumentRef `json:"document"`
	// Actor 触发操作的用户标识.
	Actor string `json:"actor,omitempty"`
}

// DocumentUpdatedPayload 文档内容或元数据更新.
type DocumentUpdatedPayload struct {
	Document DocumentRef `json:"document"`
	Actor    string      `json:"actor,omitempty"`
}

// DocumentVersionedPayload 文档产生新历史版本.
type DocumentVersionedPayload struct {
	Document      DocumentRef `json:"document"`
	VersionID     string      `json:"version_id"`
	VersionNumber int         `json:"version_number"`
	Comment       string      `json:"comment,omitempty"`
	Actor         string      `json:"actor,omitempty"`
}

// DocumentArchivedPayload 文档移入归档区.
type DocumentArchivedPayload struct {
	Document DocumentRef `json:"document"`
	// BlobMissing 归档时内容文件缺失，仅数据库记录被迁移.
	BlobMissing bool   `json:"blob_missing,omitempty"`
	Actor       string `json:"actor,omitempty"`
}

// DocumentRemovedPayload 文档移入回收站（软删除）.
type DocumentRemovedPayload struct {
	Document DocumentRef `json:"document"`
	Actor    string      `json:"actor,omitempty"`
}

// DocumentRestoredPayload 文档从回收站或归档恢复.
type DocumentRestoredPayload struct {
	Document DocumentRef `json:"document"`
	// From 恢复来源：trash 或 archive.
	From  string `json:"from,omitempty"`
	Actor string `json:"actor,omitempty"`
}

// DocumentPurgedPayload 文档被永久删除，含级联删除的版本数.
type DocumentPurgedPayload struct {
	Document        DocumentRef `json:"document"`
	VersionsRemoved int         `json:"versions_removed,omitempty"`
	Actor           string      `json:"actor,omitempty"`
}

// -------------------------- 图片组领域 --------------------------

// ImageGroupRef 标识图片组.
type ImageGroupRef struct {
	ID     string   `json:"id"`
	Name   string   `json:"name,omitempty"`
	Images []string `json:"images,omitempty"`
}

// ImageGroupPayload 图片组事件通用负载.
type ImageGroupPayload struct {
	Group ImageGroupRef `json:"group"`
	Actor string        `json:"actor,omitempty"`
}

// -------------------------- 授权领域 --------------------------

// PermissionPayload 授权变更负载.
type PermissionPayload struct {
	DocumentID     string `json:"document_id"`
	UserID         string `json:"user_id"`
	PermissionType string `json:"permission_type,omitempty"`
	GrantedBy      string `json:"granted_by,omitempty"`
	ExpiresAt      string `json:"expires_at,omitempty"`
}

// -------------------------- 维护领域 --------------------------

// MaintenanceSweptPayload 定时清理任务完成的统计.
type MaintenanceSweptPayload struct {
	Job     string `json:"job"`
	Swept   int    `json:"swept"`
	Elapsed string `json:"elapsed,omitempty"`
}
