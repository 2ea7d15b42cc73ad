package contact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

type indexFile struct {
	Indexes []struct {
		CollectionGroup string `json:"collectionGroup"`
		QueryScope      string `json:"queryScope"`
		Fields          []struct {
			FieldPath string `json:"fieldPath"`
			Order     string `json:"order"`
		} `json:"fields"`
	} `json:"indexes"`
}

func TestFirestoreIndexesCoverListQueries(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "firestore.indexes.json"))
	if err != nil {
		t.Fatalf("read index definitions: %v", err)
	}
	var f indexFile
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("parse index definitions: %v", err)
	}

	want := map[string][]string{
		personsCollection: {fieldOwnerEmail, fieldCreatedAt, "__name__"},
		phonesCollection:  {fieldPersonID, fieldCreatedAt, "__name__"},
	}
	for collection, fields := range want {
		found := false
		for _, idx := range f.Indexes {
			if idx.CollectionGroup != collection || idx.QueryScope != "COLLECTION" {
				continue
			}
			var got []string
			for _, fld := range idx.Fields {
				if fld.Order != "ASCENDING" {
					break
				}
				got = append(got, fld.FieldPath)
			}
			if slices.Equal(got, fields) {
				found = true
			}
		}
		if !found {
			t.Errorf("no ascending index on %s over %v", collection, fields)
		}
	}
}
