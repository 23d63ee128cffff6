package inventory

import (
	"context"
	"testing"
)

func seedHierarchy(repo *fakeInventoryRepo) {
	repo.seedTag("t1", "fam-1", "fragile")
	repo.seedTag("t2", "fam-1", "electronics")
	repo.seedTag("t3", "fam-1", "seasonal")
	repo.seedTag("t4", "fam-1", "attic")

	repo.seedLocation("loc-1", "fam-1", "Attic", "t4")
	locationID := "loc-1"
	repo.seedBox("box-1", "fam-1", "Shelf", &locationID, "t3")
	repo.seedItemType("type-1", "fam-1", "Radio", "t2")

	item := repo.seedItem("item-1", "fam-1", "type-1", StatusOwned)
	item.Tags = StringList{"t1"}
	boxID := "box-1"
	item.BoxID = &boxID
}

func TestRelatedTagsFullHierarchy(t *testing.T) {
	repo := newFakeInventoryRepo()
	seedHierarchy(repo)
	svc := NewService(repo)

	related, err := svc.RelatedTags(context.Background(), memberCaller(), "item-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	bySource := make(map[TagSource]string, len(related))
	for _, tag := range related {
		bySource[tag.Source] = tag.ID
	}
	if len(related) != 4 {
		t.Fatalf("expected 4 related tags, got %d: %+v", len(related), related)
	}
	if bySource[TagSourceItem] != "t1" {
		t.Fatalf("expected t1 from item, got %q", bySource[TagSourceItem])
	}
	if bySource[TagSourceItemType] != "t2" {
		t.Fatalf("expected t2 from item type, got %q", bySource[TagSourceItemType])
	}
	if bySource[TagSourceBox] != "t3" {
		t.Fatalf("expected t3 from box, got %q", bySource[TagSourceBox])
	}
	if bySource[TagSourceLocation] != "t4" {
		t.Fatalf("expected t4 from location, got %q", bySource[TagSourceLocation])
	}
}

// The same tag id appearing on two levels stays distinct per source,
// while a repeat within one level collapses.
func TestRelatedTagsDedupPerSource(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.seedTag("t1", "fam-1", "fragile")
	repo.seedItemType("type-1", "fam-1", "Radio", "t1")
	item := repo.seedItem("item-1", "fam-1", "type-1", StatusOwned)
	item.Tags = StringList{"t1", "t1"}
	svc := NewService(repo)

	related, err := svc.RelatedTags(context.Background(), memberCaller(), "item-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(related) != 2 {
		t.Fatalf("expected one entry per source, got %+v", related)
	}

	sources := map[TagSource]bool{}
	for _, tag := range related {
		if tag.ID != "t1" {
			t.Fatalf("unexpected tag %q", tag.ID)
		}
		sources[tag.Source] = true
	}
	if !sources[TagSourceItem] || !sources[TagSourceItemType] {
		t.Fatalf("expected item and item type sources, got %v", sources)
	}
}

func TestRelatedTagsNoBox(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.seedTag("t1", "fam-1", "fragile")
	repo.seedItemType("type-1", "fam-1", "Radio")
	item := repo.seedItem("item-1", "fam-1", "type-1", StatusOwned)
	item.Tags = StringList{"t1"}
	svc := NewService(repo)

	related, err := svc.RelatedTags(context.Background(), memberCaller(), "item-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(related) != 1 || related[0].Source != TagSourceItem {
		t.Fatalf("expected only the item tag, got %+v", related)
	}
}

func TestRelatedTagsDanglingBox(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.seedTag("t1", "fam-1", "fragile")
	repo.seedItemType("type-1", "fam-1", "Radio")
	item := repo.seedItem("item-1", "fam-1", "type-1", StatusOwned)
	item.Tags = StringList{"t1"}
	gone := "box-gone"
	item.BoxID = &gone
	svc := NewService(repo)

	related, err := svc.RelatedTags(context.Background(), memberCaller(), "item-1")
	if err != nil {
		t.Fatalf("dangling box must not fail, got %v", err)
	}
	if len(related) != 1 {
		t.Fatalf("expected only the item tag, got %+v", related)
	}
}

func TestRelatedTagsBoxWithoutLocation(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.seedTag("t3", "fam-1", "seasonal")
	repo.seedItemType("type-1", "fam-1", "Radio")
	repo.seedBox("box-1", "fam-1", "Shelf", nil, "t3")
	item := repo.seedItem("item-1", "fam-1", "type-1", StatusOwned)
	boxID := "box-1"
	item.BoxID = &boxID
	svc := NewService(repo)

	related, err := svc.RelatedTags(context.Background(), memberCaller(), "item-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(related) != 1 || related[0].Source != TagSourceBox {
		t.Fatalf("expected only the box tag, got %+v", related)
	}
}

// Items created from a typeless wishlist entry have no type at all;
// resolution skips the level like it does a deleted type.
func TestRelatedTagsUntypedItem(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.seedTag("t1", "fam-1", "fragile")
	item := repo.seedItem("item-1", "fam-1", "type-1", StatusOwned)
	item.ItemTypeID = nil
	item.Tags = StringList{"t1"}
	svc := NewService(repo)

	related, err := svc.RelatedTags(context.Background(), memberCaller(), "item-1")
	if err != nil {
		t.Fatalf("untyped item must not fail, got %v", err)
	}
	if len(related) != 1 || related[0].Source != TagSourceItem {
		t.Fatalf("expected only the item tag, got %+v", related)
	}
}

// A tag id with no matching Tag record resolves to nothing rather than
// an error or a placeholder.
func TestRelatedTagsUnresolvableID(t *testing.T) {
	repo := newFakeInventoryRepo()
	repo.seedItemType("type-1", "fam-1", "Radio")
	item := repo.seedItem("item-1", "fam-1", "type-1", StatusOwned)
	item.Tags = StringList{"deleted-tag"}
	svc := NewService(repo)

	related, err := svc.RelatedTags(context.Background(), memberCaller(), "item-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(related) != 0 {
		t.Fatalf("expected no related tags, got %+v", related)
	}
}
