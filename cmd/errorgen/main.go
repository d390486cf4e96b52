package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/agencyhq/go-agency-ledger/internal/common/codegen/errorgen"
)

var (
	fileLocation      = "storages/errors-map.csv"
	outputDestination = "internal/models/error_map.go"
)

func main() {
	root := flag.String("root", ".", "repository root")
	flag.Parse()

	csvPath := filepath.Join(*root, fileLocation)
	outputPath := filepath.Join(*root, outputDestination)

	if err := errorgen.GenerateErrorMapFromCSV(csvPath, outputPath); err != nil {
		log.Fatalf("errorgen: %v", err)
	}
	log.Printf("wrote %s", outputPath)
}
