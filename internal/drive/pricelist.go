package drive

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// PriceRow is one line of a supplier price list. Supplier is empty when the
// sheet carries no supplier column; the file name then names the supplier.
type PriceRow struct {
	Supplier   string
	Ingredient string
	Price      float64
}

var (
	supplierColumns   = []string{"supplier", "supplier name", "store"}
	ingredientColumns = []string{"ingredient", "ingredient id", "item", "lib id", "lib_id"}
	priceColumns      = []string{"price", "pack price", "unit price"}
)

// ParsePriceList reads a CSV or XLSX price list. Rows without an ingredient
// or with an unparsable price are skipped and counted.
func ParsePriceList(name string, data []byte) ([]PriceRow, int, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		records, err = readXLSX(data)
	case ".csv":
		records, err = readCSV(data)
	default:
		return nil, 0, fmt.Errorf("unsupported price list %s", name)
	}
	if err != nil {
		return nil, 0, err
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("price list %s is empty", name)
	}

	colMap := make(map[string]int)
	for i, col := range records[0] {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	ingredientIdx, ok := findColumn(colMap, ingredientColumns)
	if !ok {
		return nil, 0, fmt.Errorf("price list %s: missing ingredient column", name)
	}
	priceIdx, ok := findColumn(colMap, priceColumns)
	if !ok {
		return nil, 0, fmt.Errorf("price list %s: missing price column", name)
	}
	supplierIdx, hasSupplier := findColumn(colMap, supplierColumns)

	getValue := func(record []string, idx int) string {
		if idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	rows := make([]PriceRow, 0, len(records)-1)
	skipped := 0
	for _, record := range records[1:] {
		ingredient := getValue(record, ingredientIdx)
		price, err := parsePrice(getValue(record, priceIdx))
		if ingredient == "" || err != nil || price < 0 {
			skipped++
			continue
		}

		row := PriceRow{Ingredient: ingredient, Price: price}
		if hasSupplier {
			row.Supplier = getValue(record, supplierIdx)
		}
		rows = append(rows, row)
	}

	return rows, skipped, nil
}

func findColumn(colMap map[string]int, names []string) (int, bool) {
	for _, n := range names {
		if idx, ok := colMap[n]; ok {
			return idx, true
		}
	}
	return 0, false
}

// parsePrice accepts plain numbers plus thousands separators and a currency
// prefix ("฿1,250.50").
func parsePrice(raw string) (float64, error) {
	cleaned := strings.NewReplacer(",", "", "฿", "", "THB", "", " ", "").Replace(raw)
	if cleaned == "" {
		return 0, fmt.Errorf("empty price")
	}
	return strconv.ParseFloat(cleaned, 64)
}

func readCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return records, nil
}

// readXLSX returns the rows of the first sheet.
func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var records [][]string
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from sheet %s: %w", sheet, err)
		}
		records = append(records, record)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in sheet %s: %w", sheet, err)
	}

	return records, nil
}
