package service_test

import (
	"strings"
	"testing"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
)

func TestDeriveFileType(t *testing.T) {
	cases := []struct {
		name string
		want types.FileType
	}{
		{"report.txt", types.FileTypeText},
		{"README.MD", types.FileTypeText},
		{"script.py", types.FileTypeText},
		{"photo.jpg", types.FileTypeImage},
		{"photo.JPEG", types.FileTypeImage},
		{"diagram.png", types.FileTypeImage},
		{"contract.pdf", types.FileTypePDF},
		{"archive.zip", types.FileTypeOther},
		{"noextension", types.FileTypeOther},
	}

	for _, tc := range cases {
		if got := service.DeriveFileType(tc.name); got != tc.want {
			t.Errorf("DeriveFileType(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDecodeTextContentLatin1Fallback(t *testing.T) {
	if got := service.DecodeTextContent([]byte("plain ascii")); got != "plain ascii" {
		t.Errorf("ascii decode = %q", got)
	}

	// 无效 UTF-8 按 Latin-1 逐字节转码，不丢数据
	raw := []byte{0x63, 0x61, 0x66, 0xE9} // "café" in Latin-1
	if got := service.DecodeTextContent(raw); got != "café" {
		t.Errorf("latin-1 fallback = %q", got)
	}
}

func TestBuildContentIndex(t *testing.T) {
	if idx := service.BuildContentIndex("photo.jpg", []byte("binary")); idx != nil {
		t.Errorf("non-text file should have nil index, got %q", *idx)
	}

	idx := service.BuildContentIndex("doc.txt", []byte("Hello WORLD"))
	if idx == nil || *idx != "hello world" {
		t.Fatalf("index = %v, want lowercased content", idx)
	}

	empty := service.BuildContentIndex("doc.txt", nil)
	if empty == nil || *empty != "" {
		t.Fatalf("empty file index = %v, want empty string", empty)
	}

	big := strings.Repeat("a", service.MaxContentIndexBytes+100)

	capped := service.BuildContentIndex("doc.txt", []byte(big))
	if capped == nil || len(*capped) != service.MaxContentIndexBytes {
		t.Fatalf("index not capped: %d", len(*capped))
	}
}
