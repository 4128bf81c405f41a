// Package export renders a procurement plan as a shopping list file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ExpiryWindow is how far ahead lots are flagged as expiring in the notes.
const ExpiryWindow = 48 * time.Hour

const sheetName = "Shopping List"

var header = []string{"Supplier", "Item", "Quantity", "Unit", "Packs", "Pack Size", "Unit Price", "Cost", "Reason", "Note"}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) Ext() string {
	return string(f)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Row is one printed line. Money is rounded to two decimals.
type Row struct {
	Supplier  string
	Item      string
	Quantity  decimal.Decimal
	Unit      string
	Packs     int
	PackSize  decimal.Decimal
	UnitPrice decimal.Decimal
	Cost      decimal.Decimal
	Reason    string
	Note      string
}

type ShoppingList struct {
	PlanID      string
	GeneratedAt time.Time
	Rows        []Row
	Total       decimal.Decimal
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Build flattens plan into rows: each route's items in commit order followed
// by its trip line, then the unassigned items.
func Build(plan *domain.Plan, inventory []domain.InventoryItem, now time.Time) *ShoppingList {
	byID := make(map[string]domain.InventoryItem, len(inventory))
	for _, it := range inventory {
		byID[it.ID] = it
	}

	list := &ShoppingList{
		PlanID:      plan.ID,
		GeneratedAt: plan.GeneratedAt,
		Rows:        make([]Row, 0),
		Total:       decimal.Zero,
	}

	for _, g := range plan.Routes() {
		for _, opt := range g.Items {
			cost := money(opt.Analysis.Winner.ProductCost)
			list.Rows = append(list.Rows, Row{
				Supplier:  g.Supplier.Name,
				Item:      opt.Item.Name,
				Quantity:  money(opt.Qty),
				Unit:      opt.Item.Unit,
				Packs:     opt.Packs,
				PackSize:  money(opt.PackSize),
				UnitPrice: money(opt.UnitPrice),
				Cost:      cost,
				Reason:    opt.Reason,
				Note:      itemNote(opt.Analysis.Winner.Note, byID[opt.Item.ID], now),
			})
			list.Total = list.Total.Add(cost)
		}
		if g.LogisticsCost > 0 {
			trip := money(g.LogisticsCost)
			list.Rows = append(list.Rows, Row{
				Supplier: g.Supplier.Name,
				Item:     "(logistics)",
				Cost:     trip,
				Note:     tripNote(g.Supplier),
			})
			list.Total = list.Total.Add(trip)
		}
	}

	for _, n := range plan.Unassigned {
		list.Rows = append(list.Rows, Row{
			Item:     n.Name,
			Quantity: money(n.ToBuy),
			Unit:     n.Unit,
			Note:     "no feasible supplier",
		})
	}
	return list
}

func itemNote(winnerNote string, item domain.InventoryItem, now time.Time) string {
	expiring := item.ExpiringWithin(now, ExpiryWindow)
	if len(expiring) == 0 {
		return winnerNote
	}
	var qty float64
	for _, b := range expiring {
		qty += b.Quantity
	}
	flag := fmt.Sprintf("%s %s on hand expiring soon", money(qty).String(), item.Unit)
	if winnerNote == "" {
		return flag
	}
	return winnerNote + "; " + flag
}

func tripNote(s domain.Supplier) string {
	if !s.IsPhysical() {
		return "shipping"
	}
	return "travel"
}

// Write renders list to w in the requested format.
func Write(w io.Writer, list *ShoppingList, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, list)
	case FormatXLSX:
		return writeXLSX(w, list)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func (r Row) cells() []string {
	return []string{
		r.Supplier,
		r.Item,
		blankZero(r.Quantity),
		r.Unit,
		blankZeroInt(r.Packs),
		blankZero(r.PackSize),
		blankZero(r.UnitPrice),
		r.Cost.StringFixed(2),
		r.Reason,
		r.Note,
	}
}

func blankZero(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func blankZeroInt(v int) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%d", v)
}

func writeCSV(w io.Writer, list *ShoppingList) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range list.Rows {
		if err := cw.Write(r.cells()); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.Item, err)
		}
	}
	total := make([]string, len(header))
	total[0] = "TOTAL"
	total[7] = list.Total.StringFixed(2)
	if err := cw.Write(total); err != nil {
		return fmt.Errorf("failed to write csv total: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, list *ShoppingList) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write xlsx header: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style xlsx header: %w", err)
	}

	for i, r := range list.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, 0, len(header))
		for _, c := range r.cells() {
			values = append(values, c)
		}
		values[7] = r.Cost.InexactFloat64()
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write xlsx row for %s: %w", r.Item, err)
		}
	}

	totalCell, err := excelize.CoordinatesToCellName(1, len(list.Rows)+2)
	if err != nil {
		return err
	}
	totalRow := []interface{}{"TOTAL", "", "", "", "", "", "", list.Total.InexactFloat64()}
	if err := f.SetSheetRow(sheetName, totalCell, &totalRow); err != nil {
		return fmt.Errorf("failed to write xlsx total: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
