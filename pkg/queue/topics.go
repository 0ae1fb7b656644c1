// Package queue 定义消息主题常量与分组，供发布/订阅使用.
package queue

// 主题命名规范：dv.<域>.<动作>，尽量稳定且向后兼容.
// 域：document(文档)、imagegroup(图片组)、permission(授权)、maintenance(维护)
// 动作：stored/updated/versioned/archived/restored/removed/purged 等

const (
	// 文档领域.
	TopicDocumentStored    = "dv.document.stored"    // 新文档已写入存储与数据库
	TopicDocumentUpdated   = "dv.document.updated"   // 文档内容或元数据更新
	TopicDocumentVersioned = "dv.document.versioned" // 文档产生新历史版本
	TopicDocumentArchived  = "dv.document.archived"  // 文档移入归档区
	TopicDocumentRestored  = "dv.document.restored"  // 文档从回收站或归档恢复
	TopicDocumentRemoved   = "dv.document.removed"   // 文档移入回收站（软删除）
	TopicDocumentPurged    = "dv.document.purged"    // 文档被永久删除

	// 图片组领域.
	TopicImageGroupStored   = "dv.imagegroup.stored"   // 新图片组已写入
	TopicImageGroupArchived = "dv.imagegroup.archived" // 图片组移入归档区
	TopicImageGroupRemoved  = "dv.imagegroup.removed"  // 图片组移入回收站
	TopicImageGroupRestored = "dv.imagegroup.restored" // 图片组恢复

	// 授权领域.
	TopicPermissionGranted = "dv.permission.granted" // 授权被创建或更新
	TopicPermissionRevoked = "dv.permission.revoked" // 授权被撤销

	// 维护领域.
	TopicMaintenanceSwept = "dv.maintenance.swept" // 定时清理任务完成
)

// 主题分组，用于批量订阅或权限控制.
var (
	// 文档相关主题集合.
	DocumentTopics = []string{
		TopicDocumentStored, TopicDocumentUpdated, TopicDocumentVersioned,
		TopicDocumentArchived, TopicDocumentRestored, TopicDocumentRemoved,
		TopicDocumentPurged,
	}

	// 图片组相关主题集合.
	ImageGroupTopics = []string{
		TopicImageGroupStored, TopicImageGroupArchived,
		TopicImageGroupRemoved, TopicImageGroupRestored,
	}

	// 授权相关主题集合.
	PermissionTopics = []string{
		TopicPermissionGranted, TopicPermissionRevoked,
	}
)
