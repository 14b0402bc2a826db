// Package seed loads the sneaker catalog and, for local development, demo
// users with some activity.
package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sneakercloset/internal/models"
)

var requiredColumns = []string{"sneaker_name", "brand", "sneaker_image", "retail_price", "url"}

// CleanPrice parses a retail price such as "$1,299.00". An empty value is nil.
func CleanPrice(raw string) (*float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil, nil
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid retail price %q: %w", raw, err)
	}
	return &price, nil
}

// ReadCatalog parses a catalog CSV with a header row naming at least the
// columns sneaker_name, brand, sneaker_image, retail_price and url.
func ReadCatalog(r io.Reader) ([]models.Sneaker, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("catalog is missing column %q", col)
		}
	}

	var sneakers []models.Sneaker
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		field := func(col string) string {
			return strings.TrimSpace(record[index[col]])
		}

		price, err := CleanPrice(field("retail_price"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sneaker := models.Sneaker{
			Name:        field("sneaker_name"),
			Brand:       field("brand"),
			ImageURL:    field("sneaker_image"),
			RetailPrice: price,
			URL:         field("url"),
		}
		if sneaker.Name == "" || sneaker.Brand == "" {
			return nil, fmt.Errorf("line %d: sneaker_name and brand are required", line)
		}
		if sneaker.ImageURL == "" {
			sneaker.ImageURL = models.DefaultImageURL
		}
		sneakers = append(sneakers, sneaker)
	}
	return sneakers, nil
}
