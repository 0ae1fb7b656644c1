package service_test

import (
	"testing"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
)

func TestResolveTaggedUnion(t *testing.T) {
	ctx := newTestEnv(t)
	docs := service.NewDocumentService(ctx)
	groups := service.NewImageGroupService(ctx)
	resolver := service.NewResolverService(ctx)

	docID, err := docs.AddDocument(ctx, writeTestFile(t, "d.txt", "d"), types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	groupID, err := groups.AddImageGroup(ctx, []types.ImageInput{
		{Path: writeTestFile(t, "g.jpg", "g")},
	}, types.DocumentMetadata{}, "alice")
	if err != nil {
		t.Fatalf("AddImageGroup: %v", err)
	}

	entry, err := resolver.Resolve(ctx, docID)
	if err != nil {
		t.Fatalf("Resolve(doc): %v", err)
	}

	if entry.Kind != types.EntryKindDocument || entry.Document == nil || entry.Document.ID != docID {
		t.Errorf("document resolution: %+v", entry)
	}

	entry, err = resolver.Resolve(ctx, groupID)
	if err != nil {
		t.Fatalf("Resolve(group): %v", err)
	}

	if entry.Kind != types.EntryKindImageGroup || entry.ImageGroup == nil || entry.ImageGroup.ID != groupID {
		t.Errorf("image group resolution: %+v", entry)
	}

	entry, err = resolver.Resolve(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("Resolve(absent): %v", err)
	}

	if entry.Kind != types.EntryKindNotFound || entry.Found() {
		t.Errorf("absent resolution: %+v", entry)
	}
}
