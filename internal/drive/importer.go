package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/andresuchdata/toastshop/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// ImportReport summarizes one folder import.
type ImportReport struct {
	Files   int      `json:"files"`
	Prices  int      `json:"prices"`
	Skipped int      `json:"skipped"`
	Issues  []string `json:"issues,omitempty"`
}

func (r *ImportReport) issue(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

type priceStore interface {
	repository.SupplierRepository
	repository.CatalogRepository
}

// PriceImporter pulls supplier price lists from a Drive folder into the
// supplier repository.
type PriceImporter struct {
	source FileSource
	store  priceStore
}

func NewPriceImporter(source FileSource, store priceStore) *PriceImporter {
	return &PriceImporter{source: source, store: store}
}

// ImportFolder imports every CSV and XLSX file in folderID. A file that fails
// to parse is reported and skipped; repository errors abort the import.
func (p *PriceImporter) ImportFolder(ctx context.Context, folderID string) (*ImportReport, error) {
	files, err := p.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	catalog, err := p.store.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	resolve := ingredientResolver(catalog)

	report := &ImportReport{}
	for _, f := range files {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		ext := strings.ToLower(filepath.Ext(f.Name))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}

		var buf bytes.Buffer
		if err := p.source.DownloadFile(ctx, f.ID, &buf); err != nil {
			return report, fmt.Errorf("failed to download %s: %w", f.Name, err)
		}

		rows, skipped, err := ParsePriceList(f.Name, buf.Bytes())
		if err != nil {
			report.issue("%s: %v", f.Name, err)
			continue
		}
		report.Files++
		report.Skipped += skipped

		fallbackSupplier := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
		bySupplier := make(map[string][]domain.SupplierProduct)
		var order []string
		for _, row := range rows {
			ingredientID, ok := resolve(row.Ingredient)
			if !ok {
				report.Skipped++
				report.issue("%s: unknown ingredient %q", f.Name, row.Ingredient)
				continue
			}
			name := row.Supplier
			if name == "" {
				name = fallbackSupplier
			}
			if _, seen := bySupplier[name]; !seen {
				order = append(order, name)
			}
			bySupplier[name] = append(bySupplier[name], domain.SupplierProduct{IngredientID: ingredientID, Price: row.Price})
		}

		for _, name := range order {
			supplier, err := p.store.FindSupplierByName(ctx, name)
			if errors.Is(err, repository.ErrNotFound) {
				report.Skipped += len(bySupplier[name])
				report.issue("%s: unknown supplier %q", f.Name, name)
				continue
			}
			if err != nil {
				return report, fmt.Errorf("find supplier %s: %w", name, err)
			}

			if err := p.store.UpsertSupplierPrices(ctx, supplier.ID, bySupplier[name]); err != nil {
				return report, fmt.Errorf("upsert prices for %s: %w", supplier.Name, err)
			}
			report.Prices += len(bySupplier[name])
		}

		log.Info().Str("file", f.Name).Int("rows", len(rows)).Int("skipped", skipped).Msg("price list imported")
	}

	return report, nil
}

// ingredientResolver matches a catalog id first, then a case-insensitive name.
func ingredientResolver(catalog []domain.CatalogIngredient) func(string) (string, bool) {
	byID := make(map[string]string, len(catalog))
	byName := make(map[string]string, len(catalog))
	for _, c := range catalog {
		byID[c.ID] = c.ID
		byName[strings.ToLower(strings.TrimSpace(c.Name))] = c.ID
	}
	return func(ref string) (string, bool) {
		ref = strings.TrimSpace(ref)
		if id, ok := byID[ref]; ok {
			return id, true
		}
		id, ok := byName[strings.ToLower(ref)]
		return id, ok
	}
}
