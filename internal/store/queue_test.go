package store

import (
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	db := testDB(t)

	for _, text := range []string{"one", "two", "three"} {
		item := &QueueItem{Kind: "early", ProphecyText: text, Captions: Captions{Short: text}}
		if err := db.AddQueueItem(item); err != nil {
			t.Fatalf("AddQueueItem: %v", err)
		}
		if item.ID == "" || item.CreatedAt == 0 {
			t.Errorf("item not stamped: %+v", item)
		}
	}

	head, err := db.PeekQueue()
	if err != nil {
		t.Fatalf("PeekQueue: %v", err)
	}
	if head.ProphecyText != "one" || head.Captions.Short != "one" {
		t.Errorf("head = %+v, want one", head)
	}
	if n, _ := db.QueueLength(); n != 3 {
		t.Errorf("QueueLength after peek = %d, want 3", n)
	}

	removed, err := db.RemoveQueueHead()
	if err != nil {
		t.Fatalf("RemoveQueueHead: %v", err)
	}
	if removed.ProphecyText != "one" {
		t.Errorf("removed = %q, want one", removed.ProphecyText)
	}

	items, _ := db.ListQueue()
	if len(items) != 2 || items[0].ProphecyText != "two" || items[1].ProphecyText != "three" {
		t.Errorf("queue = %+v, want [two three]", items)
	}
}

func TestQueueEmpty(t *testing.T) {
	db := testDB(t)

	head, err := db.PeekQueue()
	if err != nil || head != nil {
		t.Errorf("PeekQueue on empty = %v, %v", head, err)
	}
	removed, err := db.RemoveQueueHead()
	if err != nil || removed != nil {
		t.Errorf("RemoveQueueHead on empty = %v, %v", removed, err)
	}
	items, err := db.ListQueue()
	if err != nil || len(items) != 0 || items == nil {
		t.Errorf("ListQueue on empty = %v, %v", items, err)
	}
}

func TestQueueRemoveByIDAndClear(t *testing.T) {
	db := testDB(t)

	a := &QueueItem{Kind: "deep", ProphecyText: "a"}
	b := &QueueItem{Kind: "1111", ProphecyText: "b"}
	db.AddQueueItem(a)
	db.AddQueueItem(b)

	ok, err := db.RemoveQueueItem(b.ID)
	if err != nil || !ok {
		t.Fatalf("RemoveQueueItem = %v, %v", ok, err)
	}
	if ok, _ := db.RemoveQueueItem(b.ID); ok {
		t.Error("second remove reported success")
	}

	n, err := db.ClearQueue()
	if err != nil || n != 1 {
		t.Errorf("ClearQueue = %d, %v, want 1", n, err)
	}
	if n, _ := db.QueueLength(); n != 0 {
		t.Errorf("QueueLength = %d, want 0", n)
	}
}
