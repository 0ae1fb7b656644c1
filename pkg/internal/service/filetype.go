package service

import (
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yeisme/docvault/pkg/internal/types"
)

// 文本文件内联内容的标记串.
const (
	emptyFileMarker       = "Empty file"
	unreadableFileContent = "Error reading file content"
)

// maxContentIndexBytes 内容索引的截断上限，避免超大文本撑爆元数据行.
const maxContentIndexBytes = 1 << 20 // 1MB

// fileTypeByExt 扩展名到派生文件类型的映射.
var fileTypeByExt = map[string]types.FileType{
	".txt":  types.FileTypeText,
	".md":   types.FileTypeText,
	".py":   types.FileTypeText,
	".json": types.FileTypeText,
	".csv":  types.FileTypeText,
	".log":  types.FileTypeText,
	".jpg":  types.FileTypeImage,
	".jpeg": types.FileTypeImage,
	".png":  types.FileTypeImage,
	".gif":  types.FileTypeImage,
	".bmp":  types.FileTypeImage,
	".pdf":  types.FileTypePDF,
}

// DeriveFileType 按扩展名派生文件分类.
func DeriveFileType(name string) types.FileType {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := fileTypeByExt[ext]; ok {
		return t
	}

	return types.FileTypeOther
}

// decodeTextContent 将原始字节解码为文本.
// 优先按 UTF-8 处理，非法序列时退回 Latin-1（逐字节映射，保证不失败）.
func decodeTextContent(raw []byte) string {
	if len(raw) == 0 {
		return emptyFileMarker
	}

	if utf8.Valid(raw) {
		return string(raw)
	}

	// Latin-1：每个字节即一个码点
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}

	return string(runes)
}

// readTextContent 读取文本内容，不可读时返回标记串而不是报错.
func readTextContent(r io.Reader) string {
	raw, err := io.ReadAll(r)
	if err != nil {
		return unreadableFileContent
	}

	return decodeTextContent(raw)
}

// buildContentIndex 为文本文件生成内容索引（小写化的简单子串索引），
// 非文本文件返回 nil.
func buildContentIndex(name string, raw []byte) *string {
	if DeriveFileType(name) != types.FileTypeText {
		return nil
	}

	content := decodeTextContent(raw)
	if content == emptyFileMarker {
		empty := ""
		return &empty
	}

	if len(content) > maxContentIndexBytes {
		content = content[:maxContentIndexBytes]
	}

	idx := strings.ToLower(content)

	return &idx
}
