package types

// EntryKind 统一查找结果的类别标签.
type EntryKind string

const (
	EntryKindDocument   EntryKind = "document"
	EntryKindImageGroup EntryKind = "image_group"
	EntryKindNotFound   EntryKind = "not_found"
)

// ResolvedEntry 统一查找的带标签结果：文档、图片组或不存在.
// 取代"先查文档表、再回落图片组表"在各调用点的重复写法.
type ResolvedEntry struct {
	Kind       EntryKind       `json:"kind"`
	Document   *DocumentInfo   `json:"document,omitempty"`
	ImageGroup *ImageGroupInfo `json:"image_group,omitempty"`
}

// Found 判断是否命中任一实体.
func (e ResolvedEntry) Found() bool {
	return e.Kind == EntryKindDocument || e.Kind == EntryKindImageGroup
}
