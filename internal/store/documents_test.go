package store

import (
	"errors"
	"sync"
	"testing"
)

type counterDoc struct {
	N    int      `json:"n"`
	Tags []string `json:"tags"`
}

func TestLoadDocumentMissing(t *testing.T) {
	db := testDB(t)

	doc := counterDoc{N: 7}
	found, err := db.LoadDocument("nope", &doc)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if found {
		t.Error("found = true for missing document")
	}
	if doc.N != 7 {
		t.Errorf("N = %d, want untouched 7", doc.N)
	}
}

func TestSaveAndLoadDocument(t *testing.T) {
	db := testDB(t)

	if err := db.SaveDocument("c", counterDoc{N: 3, Tags: []string{"a"}}); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	if err := db.SaveDocument("c", counterDoc{N: 4, Tags: []string{"b"}}); err != nil {
		t.Fatalf("SaveDocument overwrite: %v", err)
	}

	var doc counterDoc
	found, err := db.LoadDocument("c", &doc)
	if err != nil || !found {
		t.Fatalf("LoadDocument = %v, %v", found, err)
	}
	if doc.N != 4 || len(doc.Tags) != 1 || doc.Tags[0] != "b" {
		t.Errorf("doc = %+v, want N=4 Tags=[b]", doc)
	}
}

func TestUpdateDocumentAbortsOnError(t *testing.T) {
	db := testDB(t)
	db.SaveDocument("c", counterDoc{N: 1})

	boom := errors.New("boom")
	var doc counterDoc
	err := db.UpdateDocument("c", &doc, func(bool) error {
		doc.N = 99
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	var got counterDoc
	db.LoadDocument("c", &got)
	if got.N != 1 {
		t.Errorf("N = %d, want 1 (no write on error)", got.N)
	}
}

func TestUpdateDocumentSerialized(t *testing.T) {
	db := testDB(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var doc counterDoc
			if err := db.UpdateDocument("c", &doc, func(bool) error {
				doc.N++
				return nil
			}); err != nil {
				t.Errorf("UpdateDocument: %v", err)
			}
		}()
	}
	wg.Wait()

	var doc counterDoc
	db.LoadDocument("c", &doc)
	if doc.N != 20 {
		t.Errorf("N = %d, want 20", doc.N)
	}
}

func TestPostingFlagDefaultsOff(t *testing.T) {
	db := testDB(t)

	on, err := db.PostingEnabled()
	if err != nil {
		t.Fatalf("PostingEnabled: %v", err)
	}
	if on {
		t.Error("posting enabled on a fresh database")
	}

	db.SetPostingEnabled(true)
	if on, _ := db.PostingEnabled(); !on {
		t.Error("posting flag not persisted")
	}
}
