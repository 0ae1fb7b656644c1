package service

import (
	"context"

	"github.com/yeisme/docvault/pkg/internal/types"
)

// ResolverService 跨实体统一查找服务.
type ResolverService struct{ *Service }

// NewResolverService 创建统一查找服务.
func NewResolverService(c context.Context) *ResolverService {
	return &ResolverService{newService(c)}
}

// Resolve 按 ID 在文档与图片组之间做统一查找，返回带类别标签的结果.
// 先查文档表，未命中再查图片组表，都未命中时 Kind 为 not_found.
func (s *ResolverService) Resolve(ctx context.Context, id string) (types.ResolvedEntry, error) {
	docs := &DocumentService{s.Service}

	doc, err := docs.GetDocument(ctx, id)
	if err != nil {
		return types.ResolvedEntry{}, err
	}

	if doc != nil {
		return types.ResolvedEntry{Kind: types.EntryKindDocument, Document: doc}, nil
	}

	groups := &ImageGroupService{s.Service}

	group, err := groups.GetImageGroup(ctx, id)
	if err != nil {
		return types.ResolvedEntry{}, err
	}

	if group != nil {
		return types.ResolvedEntry{Kind: types.EntryKindImageGroup, ImageGroup: group}, nil
	}

	return types.ResolvedEntry{Kind: types.EntryKindNotFound}, nil
}
