package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/xuri/excelize/v2"
)

func samplePlan() *domain.Plan {
	makro := domain.Supplier{ID: "a", Name: "Makro", Type: domain.SupplierPhysical}
	butter := domain.NeededItem{ID: "butter", Name: "Butter", Unit: "block", ToBuy: 2}
	return &domain.Plan{
		ID:          "plan-1",
		GeneratedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		RouteGroups: map[string]*domain.RouteGroup{
			"a": {
				Supplier: makro,
				Items: []domain.PurchaseOption{{
					Item: butter, SupplierID: "a", Qty: 2, Packs: 2, PackSize: 1, UnitPrice: 40,
					TotalCost: 130, Reason: "urgent item",
					Analysis: domain.Analysis{Winner: domain.CostBreakdown{ProductCost: 80, LogisticsCost: 50, Note: "travel"}},
				}},
				TotalCost:     80,
				LogisticsCost: 50,
			},
		},
		RouteOrder: []string{"a"},
		Unassigned: []domain.NeededItem{{ID: "cups", Name: "Cups", Unit: "piece", ToBuy: 12}},
	}
}

func TestBuildShoppingList(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	soon := now.Add(24 * time.Hour)
	inventory := []domain.InventoryItem{{
		ID: "butter", Unit: "block",
		Batches: []domain.Batch{{ID: "l1", Quantity: 1, ExpiresAt: &soon}},
	}}

	list := Build(samplePlan(), inventory, now)

	if len(list.Rows) != 3 {
		t.Fatalf("expected item, logistics and unassigned rows, got %d", len(list.Rows))
	}
	if got := list.Rows[0].Note; got != "travel; 1 block on hand expiring soon" {
		t.Fatalf("unexpected note %q", got)
	}
	if list.Rows[1].Item != "(logistics)" || list.Rows[1].Cost.StringFixed(2) != "50.00" {
		t.Fatalf("unexpected logistics row %+v", list.Rows[1])
	}
	if list.Rows[2].Supplier != "" || list.Rows[2].Note != "no feasible supplier" {
		t.Fatalf("unexpected unassigned row %+v", list.Rows[2])
	}
	if list.Total.StringFixed(2) != "130.00" {
		t.Fatalf("expected total 130.00, got %s", list.Total.StringFixed(2))
	}
}

func TestWriteCSV(t *testing.T) {
	list := Build(samplePlan(), nil, time.Now())

	var buf bytes.Buffer
	if err := Write(&buf, list, FormatCSV); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv back: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected header, 3 rows and total, got %d records", len(records))
	}
	if records[1][0] != "Makro" || records[1][7] != "80.00" {
		t.Fatalf("unexpected first row %v", records[1])
	}
	if records[4][0] != "TOTAL" || records[4][7] != "130.00" {
		t.Fatalf("unexpected total row %v", records[4])
	}
}

func TestWriteXLSX(t *testing.T) {
	list := Build(samplePlan(), nil, time.Now())

	var buf bytes.Buffer
	if err := Write(&buf, list, FormatXLSX); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(header, ",") {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][1] != "Butter" {
		t.Fatalf("unexpected item cell %v", rows[1])
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{" xlsx ", FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
