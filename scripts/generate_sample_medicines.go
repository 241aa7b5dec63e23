//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"medicine-catalog/internal/seed"
)

// generateSampleMedicines writes a gzipped CSV for the seed command:
//
//	go run scripts/generate_sample_medicines.go
//	medicine-catalog seed --file data/medicines.csv.gz
func main() {
	dataDir := "data"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	rows := [][]string{
		seed.Columns,
		{"Paracetamol 500mg", "4.50", "", "250", "Acme Pharma"},
		{"Ibuprofen 200mg", "6.20", "5.40", "120", "Globex Health"},
		{"Aspirin 75mg", "3.10", "", "400", "Acme Pharma"},
		{"Amoxicillin 250mg", "12.80", "11.00", "60", "Initech Labs"},
		{"Cetirizine 10mg", "7.25", "", "90", "Globex Health"},
		{"Omeprazole 20mg", "9.99", "8.49", "75", "Initech Labs"},
		{"Loratadine 10mg", "6.75", "", "0", "Umbrella Meds"},
		{"Vitamin C 1000mg", "5.00", "4.00", "300", "Umbrella Meds"},
	}

	filePath := filepath.Join(dataDir, "medicines.csv.gz")
	if err := createMedicineFile(filePath, rows); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d medicines\n", filePath, len(rows)-1)
}

func createMedicineFile(filePath string, rows [][]string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	w := csv.NewWriter(gzipWriter)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write medicines: %w", err)
	}

	return nil
}
