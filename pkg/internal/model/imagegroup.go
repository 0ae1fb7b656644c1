package model

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// ImageEntry 图片组内单张图片的引用.
type ImageEntry struct {
	OriginalName string `json:"original_name"`
	StoredPath   string `json:"stored_path"`
}

// ImageGroup 图片组模型，一组图片作为单个条目管理.
// 归档/恢复对整组生效，从不单独处理组内某张图片.
// 图片引用列表以 JSON 数组文本存储，顺序即展示顺序.
type ImageGroup struct {
	ID           string `gorm:"primaryKey;size:64"        json:"id"`
	CreatedAt    string `gorm:"size:64;index"             json:"created_at"`
	MetadataJSON string `gorm:"column:metadata;type:text" json:"-"`
	ImagesJSON   string `gorm:"column:images;type:text"   json:"-"`
	Deleted      int    `gorm:"default:0;index"           json:"deleted"`
}

// TableName 指定表名.
func (ImageGroup) TableName() string {
	return "image_groups"
}

// Images 反序列化图片引用列表.
func (g *ImageGroup) Images() ([]ImageEntry, error) {
	return decodeImages(g.ImagesJSON)
}

// SetImages 序列化图片引用列表.
func (g *ImageGroup) SetImages(entries []ImageEntry) error {
	s, err := encodeImages(entries)
	if err != nil {
		return err
	}

	g.ImagesJSON = s

	return nil
}

// ArchivedImageGroup 归档图片组模型，写入后不再修改.
type ArchivedImageGroup struct {
	ID           string `gorm:"primaryKey;size:64"        json:"id"`
	CreatedAt    string `gorm:"size:64"                   json:"created_at"`
	MetadataJSON string `gorm:"column:metadata;type:text" json:"-"`
	ImagesJSON   string `gorm:"column:images;type:text"   json:"-"`
	DeletedAt    string `gorm:"size:64;index"             json:"deleted_at"`
	DeletedBy    string `gorm:"size:255"                  json:"deleted_by"`
}

// TableName 指定表名.
func (ArchivedImageGroup) TableName() string {
	return "archived_image_groups"
}

// Images 反序列化图片引用列表.
func (g *ArchivedImageGroup) Images() ([]ImageEntry, error) {
	return decodeImages(g.ImagesJSON)
}

// SetImages 序列化图片引用列表.
func (g *ArchivedImageGroup) SetImages(entries []ImageEntry) error {
	s, err := encodeImages(entries)
	if err != nil {
		return err
	}

	g.ImagesJSON = s

	return nil
}

func decodeImages(raw string) ([]ImageEntry, error) {
	if raw == "" {
		return nil, nil
	}

	var entries []ImageEntry
	if err := sonic.UnmarshalString(raw, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}

	return entries, nil
}

func encodeImages(entries []ImageEntry) (string, error) {
	if entries == nil {
		entries = []ImageEntry{}
	}

	s, err := sonic.MarshalString(entries)
	if err != nil {
		return "", fmt.Errorf("marshal images: %w", err)
	}

	return s, nil
}
