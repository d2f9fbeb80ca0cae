package main

// Example command that scans an extracted 20 Newsgroups corpus, reads a small
// batch of postings lazily and converts their themes into a gomlx tensor.
//
// Usage:
//
//	go run ./datasets/example data/20news

import (
	"fmt"
	"log"
	"os"

	"github.com/Noofbiz/limelight/datasets"
	"github.com/Noofbiz/limelight/theme"
)

func main() {
	root := "data/20news"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	ds, err := datasets.Create(root, datasets.ReadRawTextTheme(datasets.Lenient))
	if err != nil {
		log.Fatalf("failed to scan corpus: %v", err)
	}
	fmt.Printf("Postings found under %s: %d\n", root, ds.Len())

	n := min(8, ds.Len())
	if n == 0 {
		return
	}
	indices := make([]int, n)
	for i := range n {
		indices[i] = i
	}
	items, err := ds.Batch(indices)
	if err != nil {
		log.Fatalf("failed to read batch: %v", err)
	}

	themes := make(theme.Themes, n)
	for i, it := range items {
		themes[i] = it.Theme
		fmt.Printf("%-26s %6d bytes\n", it.Theme, len(it.Text))
	}
	t := themes.Tensor()
	fmt.Printf("Theme tensor: %s\n", t.Shape())
}
