// Package types 定义服务层的请求/响应结构与共享领域类型.
package types

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// DocumentMetadata 文档元数据：一组固定的已知字段加开放扩展表.
// 序列化只发生在存储边界，核心内存表示始终是结构化值.
type DocumentMetadata struct {
	Department   string   `json:"department,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Status       string   `json:"status,omitempty"`
	UploadedBy   string   `json:"uploaded_by,omitempty"`
	UploadDate   string   `json:"upload_date,omitempty"`
	Recipients   []string `json:"recipients,omitempty"`
	Feedback     string   `json:"feedback,omitempty"`
	LastModified string   `json:"last_modified,omitempty"`

	// Extra 承载未知键，保证前向兼容，序列化时与已知字段平铺在同一对象.
	Extra map[string]any `json:"-"`
}

// knownMetadataKeys 已知字段的 JSON 键集合.
var knownMetadataKeys = map[string]struct{}{
	"department":    {},
	"tags":          {},
	"status":        {},
	"uploaded_by":   {},
	"upload_date":   {},
	"recipients":    {},
	"feedback":      {},
	"last_modified": {},
}

// MarshalJSON 将已知字段与扩展表平铺为一个 JSON 对象.
func (m DocumentMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+8)

	for k, v := range m.Extra {
		if _, reserved := knownMetadataKeys[k]; reserved {
			continue
		}

		out[k] = v
	}

	if m.Department != "" {
		out["department"] = m.Department
	}

	if len(m.Tags) > 0 {
		out["tags"] = m.Tags
	}

	if m.Status != "" {
		out["status"] = m.Status
	}

	if m.UploadedBy != "" {
		out["uploaded_by"] = m.UploadedBy
	}

	if m.UploadDate != "" {
		out["upload_date"] = m.UploadDate
	}

	if len(m.Recipients) > 0 {
		out["recipients"] = m.Recipients
	}

	if m.Feedback != "" {
		out["feedback"] = m.Feedback
	}

	if m.LastModified != "" {
		out["last_modified"] = m.LastModified
	}

	return sonic.Marshal(out)
}

// UnmarshalJSON 拆出已知字段，剩余键进入扩展表.
func (m *DocumentMetadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal metadata: %w", err)
	}

	*m = DocumentMetadata{}

	for k, v := range raw {
		switch k {
		case "department":
			m.Department = asString(v)
		case "tags":
			m.Tags = asStringSlice(v)
		case "status":
			m.Status = asString(v)
		case "uploaded_by":
			m.UploadedBy = asString(v)
		case "upload_date":
			m.UploadDate = asString(v)
		case "recipients":
			m.Recipients = asStringSlice(v)
		case "feedback":
			m.Feedback = asString(v)
		case "last_modified":
			m.LastModified = asString(v)
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]any)
			}

			m.Extra[k] = v
		}
	}

	return nil
}

// Encode 序列化为 JSON 文本，供存储层写入.
func (m DocumentMetadata) Encode() (string, error) {
	b, err := m.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	return string(b), nil
}

// DecodeMetadata 从存储层的 JSON 文本解析元数据，空串得到零值.
func DecodeMetadata(raw string) (DocumentMetadata, error) {
	var m DocumentMetadata
	if raw == "" {
		return m, nil
	}

	if err := m.UnmarshalJSON([]byte(raw)); err != nil {
		return DocumentMetadata{}, err
	}

	return m, nil
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	return ""
}

func asStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}

		return out
	case string:
		if vv == "" {
			return nil
		}

		return []string{vv}
	}

	return nil
}
