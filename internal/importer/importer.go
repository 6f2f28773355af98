package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"folik-store/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads product exports and inserts/updates products. Expected
// header: title, description, price, discount_price, image_url, stock,
// is_available, is_featured (order is free, extra columns are ignored).
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts one product per row. Rows without a title
// or with an unparseable price are skipped and counted as errors.
func (i *CSVImporter) Run(ctx context.Context) (imported int, skipped int, err error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["title"]; !ok {
		return 0, 0, errors.New("missing title column")
	}
	if _, ok := index["price"]; !ok {
		return 0, 0, errors.New("missing price column")
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("read row: %w", err)
		}

		product, ok := parseRow(record, index)
		if !ok {
			skipped++
			continue
		}

		if _, err := i.productRepo.Upsert(ctx, *product); err != nil {
			return imported, skipped, fmt.Errorf("upsert %q: %w", product.Title, err)
		}
		imported++
	}

	return imported, skipped, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func parseRow(record []string, index map[string]int) (*domain.Product, bool) {
	title := strings.TrimSpace(field(record, index, "title"))
	if title == "" {
		return nil, false
	}

	price, err := decimal.NewFromString(strings.TrimSpace(field(record, index, "price")))
	if err != nil || price.IsNegative() {
		return nil, false
	}

	product := domain.Product{
		Title:       title,
		Description: strings.TrimSpace(field(record, index, "description")),
		Price:       price,
		ImageURL:    strings.TrimSpace(field(record, index, "image_url")),
		IsAvailable: true,
	}

	if raw := strings.TrimSpace(field(record, index, "discount_price")); raw != "" {
		discount, err := decimal.NewFromString(raw)
		if err != nil || discount.IsNegative() {
			return nil, false
		}
		product.DiscountPrice = decimal.NewNullDecimal(discount)
	}

	if raw := strings.TrimSpace(field(record, index, "stock")); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return nil, false
		}
		product.Stock = stock
	}

	if raw := strings.TrimSpace(field(record, index, "is_available")); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, false
		}
		product.IsAvailable = available
	}

	if raw := strings.TrimSpace(field(record, index, "is_featured")); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, false
		}
		product.IsFeatured = featured
	}

	return &product, true
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
