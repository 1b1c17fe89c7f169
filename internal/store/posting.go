package store

const postingKey = "posting"

type postingDoc struct {
	Enabled bool `json:"enabled"`
}

// PostingEnabled reports whether scheduled posting is switched on.
// A fresh database has posting off.
func (db *DB) PostingEnabled() (bool, error) {
	var doc postingDoc
	if _, err := db.LoadDocument(postingKey, &doc); err != nil {
		return false, err
	}
	return doc.Enabled, nil
}

// SetPostingEnabled persists the posting flag.
func (db *DB) SetPostingEnabled(enabled bool) error {
	return db.SaveDocument(postingKey, postingDoc{Enabled: enabled})
}
