// Command update-data rebuilds the compact zipcode dataset artifact from a
// raw JSON drop.
//
// Usage:
//
//	go run ./cmd/update-data
//
// This reads from ./zipcodes-data/zipcodes.json and writes the compact
// artifact to ./data/zipcodes.json. After running, compress the artifact:
//
//	bzip2 -f data/zipcodes.json
package main

import (
	"fmt"
	"os"

	"github.com/andreiashu/zipcodes"
)

func main() {
	fmt.Println("Rebuilding zipcode dataset artifact from raw data...")

	if err := zipcodes.RebuildData("./zipcodes-data/zipcodes.json", "./data/zipcodes.json"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Dataset rebuilt successfully.")
	fmt.Println("Run 'bzip2 -f data/zipcodes.json' to compress the artifact.")
}
