package tplmigrate_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/tplmigrate/pkg/tplmigrate"
)

// ExampleMigrator_Clean reduces a fetch file to the push schema.
func ExampleMigrator_Clean() {
	dir, err := os.MkdirTemp("", "tplmigrate")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "templates.json")
	_ = os.WriteFile(in, []byte(`{
  "meta": {"contract": "0xsrc", "start": 4, "end": 5, "fetchedAt": "2024-01-01T00:00:00Z"},
  "items": [
    {"index": 4, "data": {"imageURL": "ipfs://x", "name": "X", "description": "d", "jsonStorage": "{}", "level": 1, "top": 0, "left": 0, "right": 0, "bottom": 0, "slot": 0}},
    {"index": 5, "data": null}
  ]
}`), 0o644)

	m := tplmigrate.New()
	clean, err := m.Clean(context.Background(), in, filepath.Join(dir, "templates.cleaned.json"))
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, it := range clean.Items {
		fmt.Println(it.Index, it.Data.Name)
	}

	// Output: 4 X
}

// ExampleParseRange shows the inclusive index range used by Fetch.
func ExampleParseRange() {
	r, err := tplmigrate.ParseRange("3", "6")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(r.Indexes())

	_, err = tplmigrate.ParseRange("6", "3")
	fmt.Println(err != nil)

	// Output:
	// [3 4 5 6]
	// true
}
