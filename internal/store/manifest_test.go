package store

import (
	"testing"
)

func TestManifestImportAndPost(t *testing.T) {
	db := testDB(t)

	entries := []Prophecy{
		{ID: "p1", Caption: "first", Filename: "p1.png"},
		{ID: "p2", Caption: "second", ImageURL: "https://cdn.example/p2.png"},
	}
	n, err := db.ImportProphecies(entries)
	if err != nil || n != 2 {
		t.Fatalf("ImportProphecies = %d, %v, want 2", n, err)
	}
	if n, _ := db.ImportProphecies(entries); n != 0 {
		t.Errorf("re-import added %d, want 0", n)
	}

	next, err := db.NextUnposted()
	if err != nil || next == nil || next.ID != "p1" {
		t.Fatalf("NextUnposted = %+v, %v, want p1", next, err)
	}

	if err := db.MarkProphecyPosted("p1"); err != nil {
		t.Fatalf("MarkProphecyPosted: %v", err)
	}
	next, _ = db.NextUnposted()
	if next == nil || next.ID != "p2" {
		t.Errorf("NextUnposted after mark = %+v, want p2", next)
	}

	db.MarkProphecyPosted("p2")
	if next, _ := db.NextUnposted(); next != nil {
		t.Errorf("NextUnposted = %+v, want nil", next)
	}
	if err := db.MarkProphecyPosted("missing"); err == nil {
		t.Error("expected error marking unknown prophecy")
	}

	all, _ := db.ListProphecies()
	if len(all) != 2 || !all[0].Posted || !all[1].Posted {
		t.Errorf("ListProphecies = %+v", all)
	}
}

func TestManifestRejectsMissingID(t *testing.T) {
	db := testDB(t)
	if _, err := db.ImportProphecies([]Prophecy{{Caption: "x"}}); err == nil {
		t.Error("expected error for entry without id")
	}
}
