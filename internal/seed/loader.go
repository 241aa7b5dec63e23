// Package seed imports medicines from CSV files.
package seed

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"medicine-catalog/internal/model"
	"medicine-catalog/internal/upload"

	"github.com/rs/zerolog"
)

// Columns is the expected CSV header. Column order is free; name is required.
var Columns = []string{"name", "price", "discount_price", "quantity", "manufacturer"}

// Creator stores one medicine. The catalog service satisfies it, so imported
// rows go through the same validation and cache invalidation as form input.
type Creator interface {
	Create(ctx context.Context, in model.MedicineInput, image *upload.File) (*model.Medicine, error)
}

// Result counts the rows of an import.
type Result struct {
	Imported int
	Skipped  int
}

// LoadFile imports the CSV file at path. Files ending in .gz are gunzipped.
func LoadFile(ctx context.Context, path string, creator Creator, logger zerolog.Logger) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("unable to open medicine file %s: %w", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			return Result{}, fmt.Errorf("unable to create gzip reader for %s: %w", path, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	return Load(ctx, r, creator, logger)
}

// Load imports medicines from CSV read from r. Malformed or invalid rows are
// logged and skipped; a storage failure stops the import.
func Load(ctx context.Context, r io.Reader, creator Creator, logger zerolog.Logger) (Result, error) {
	logger = logger.With().Str("component", "seed").Logger()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("unable to read medicine header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return Result{}, err
	}

	var result Result
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			logger.Warn().Int("line", line).Msg("medicine import cancelled")
			return result, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Warn().Err(err).Int("line", line).Msg("unable to read medicine row")
			result.Skipped++
			continue
		}

		in, err := parseRecord(record, index)
		if err != nil {
			logger.Warn().Err(err).Int("line", line).Msg("skipping medicine row")
			result.Skipped++
			continue
		}

		if _, err := creator.Create(ctx, in, nil); err != nil {
			var domainErr *model.DomainError
			if errors.As(err, &domainErr) {
				logger.Warn().Err(err).Int("line", line).Str("name", in.Name).Msg("skipping invalid medicine")
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("unable to import medicine on line %d: %w", line, err)
		}
		result.Imported++
	}

	logger.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("seeded medicine catalog")

	return result, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("medicine header must contain a name column, got %v", header)
	}
	return index, nil
}

func parseRecord(record []string, index map[string]int) (model.MedicineInput, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	in := model.MedicineInput{
		Name:         field("name"),
		Manufacturer: field("manufacturer"),
	}

	if raw := field("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, fmt.Errorf("invalid price %q", raw)
		}
		in.Price = price
	}

	if raw := field("discount_price"); raw != "" {
		discount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, fmt.Errorf("invalid discount price %q", raw)
		}
		in.DiscountPrice = &discount
	}

	if raw := field("quantity"); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return in, fmt.Errorf("invalid quantity %q", raw)
		}
		in.Quantity = quantity
	}

	return in, nil
}
