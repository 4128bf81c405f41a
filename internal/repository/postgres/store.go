package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/andresuchdata/toastshop/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

type store struct {
	db *DB
}

// NewStore returns the Postgres implementation of repository.Store.
func NewStore(db *DB) repository.Store {
	return &store{db: db}
}

func (s *store) GetParameters(ctx context.Context, shopID string) (*domain.BusinessParameters, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM business_parameters WHERE shop_id = $1`, shopID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("business parameters for %s: %w", shopID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error getting business parameters: %w", err)
	}

	var params domain.BusinessParameters
	if err := json.Unmarshal(payload, &params); err != nil {
		return nil, fmt.Errorf("decode business parameters: %w", err)
	}
	return &params, nil
}

func (s *store) SaveParameters(ctx context.Context, shopID string, params *domain.BusinessParameters) error {
	payload, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode business parameters: %w", err)
	}

	query := `
		INSERT INTO business_parameters (shop_id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (shop_id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, shopID, payload); err != nil {
		return fmt.Errorf("failed to save business parameters: %w", err)
	}
	return nil
}

func (s *store) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	query := `
		SELECT id, name, quantity, min_level, unit, cost_per_unit, item_type, category, lib_id
		FROM inventory_items
		ORDER BY name, id
	`
	var items []domain.InventoryItem
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("error listing inventory: %w", err)
	}

	type batchRow struct {
		ItemID string `db:"item_id"`
		domain.Batch
	}
	var batches []batchRow
	batchQuery := `
		SELECT item_id, id, quantity, cost_per_unit, received_at, expires_at
		FROM inventory_batches
		ORDER BY received_at, id
	`
	if err := s.db.SelectContext(ctx, &batches, batchQuery); err != nil {
		return nil, fmt.Errorf("error listing inventory batches: %w", err)
	}

	byItem := make(map[string][]domain.Batch)
	for _, b := range batches {
		byItem[b.ItemID] = append(byItem[b.ItemID], b.Batch)
	}
	for i := range items {
		items[i].Batches = byItem[items[i].ID]
	}
	return items, nil
}

func (s *store) UpsertInventoryItem(ctx context.Context, item *domain.InventoryItem) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO inventory_items (
				id, name, quantity, min_level, unit, cost_per_unit, item_type, category, lib_id, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			ON CONFLICT (id)
			DO UPDATE SET
				name = EXCLUDED.name,
				quantity = EXCLUDED.quantity,
				min_level = EXCLUDED.min_level,
				unit = EXCLUDED.unit,
				cost_per_unit = EXCLUDED.cost_per_unit,
				item_type = EXCLUDED.item_type,
				category = EXCLUDED.category,
				lib_id = EXCLUDED.lib_id,
				updated_at = NOW()
		`
		_, err := tx.ExecContext(ctx, query,
			item.ID, item.Name, item.Quantity, item.MinLevel, item.Unit,
			item.CostPerUnit, item.Type, item.Category, item.LibID,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert inventory item: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_batches WHERE item_id = $1`, item.ID); err != nil {
			return fmt.Errorf("failed to clear inventory batches: %w", err)
		}
		for _, b := range item.Batches {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO inventory_batches (id, item_id, quantity, cost_per_unit, received_at, expires_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, b.ID, item.ID, b.Quantity, b.CostPerUnit, b.ReceivedAt, b.ExpiresAt)
			if err != nil {
				return fmt.Errorf("failed to insert inventory batch %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

const supplierColumns = `id, name, supplier_type, lead_time_days, distance_km, is_home, sort_order`

func (s *store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY sort_order, id`
	if err := s.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, fmt.Errorf("error listing suppliers: %w", err)
	}

	type productRow struct {
		SupplierID string `db:"supplier_id"`
		domain.SupplierProduct
	}
	var products []productRow
	productQuery := `
		SELECT supplier_id, ingredient_id, price
		FROM supplier_products
		ORDER BY supplier_id, ingredient_id
	`
	if err := s.db.SelectContext(ctx, &products, productQuery); err != nil {
		return nil, fmt.Errorf("error listing supplier products: %w", err)
	}

	bySupplier := make(map[string][]domain.SupplierProduct)
	for _, p := range products {
		bySupplier[p.SupplierID] = append(bySupplier[p.SupplierID], p.SupplierProduct)
	}
	for i := range suppliers {
		suppliers[i].Products = bySupplier[suppliers[i].ID]
	}
	return suppliers, nil
}

func (s *store) FindSupplierByName(ctx context.Context, name string) (*domain.Supplier, error) {
	var supplier domain.Supplier
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE LOWER(name) = LOWER($1)`
	err := s.db.GetContext(ctx, &supplier, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("supplier %q: %w", name, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding supplier: %w", err)
	}
	return &supplier, nil
}

func (s *store) UpsertSupplier(ctx context.Context, supplier *domain.Supplier) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO suppliers (` + supplierColumns + `, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (id)
			DO UPDATE SET
				name = EXCLUDED.name,
				supplier_type = EXCLUDED.supplier_type,
				lead_time_days = EXCLUDED.lead_time_days,
				distance_km = EXCLUDED.distance_km,
				is_home = EXCLUDED.is_home,
				sort_order = EXCLUDED.sort_order,
				updated_at = NOW()
		`
		_, err := tx.ExecContext(ctx, query,
			supplier.ID, supplier.Name, supplier.Type, supplier.LeadTimeDays,
			supplier.DistanceKm, supplier.IsHome, supplier.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert supplier: %w", err)
		}
		return upsertPrices(ctx, tx, supplier.ID, supplier.Products)
	})
}

func (s *store) UpsertSupplierPrices(ctx context.Context, supplierID string, prices []domain.SupplierProduct) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return upsertPrices(ctx, tx, supplierID, prices)
	})
}

func upsertPrices(ctx context.Context, tx *sqlx.Tx, supplierID string, prices []domain.SupplierProduct) error {
	if len(prices) == 0 {
		return nil
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO supplier_products (supplier_id, ingredient_id, price, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (supplier_id, ingredient_id)
		DO UPDATE SET price = EXCLUDED.price, updated_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		if _, err := stmt.ExecContext(ctx, supplierID, p.IngredientID, p.Price); err != nil {
			return fmt.Errorf("failed to upsert price for %s: %w", p.IngredientID, err)
		}
	}
	return nil
}

func (s *store) ListCatalog(ctx context.Context) ([]domain.CatalogIngredient, error) {
	var catalog []domain.CatalogIngredient
	query := `SELECT id, name, unit, total_quantity, bulk_price FROM ingredient_catalog ORDER BY name, id`
	if err := s.db.SelectContext(ctx, &catalog, query); err != nil {
		return nil, fmt.Errorf("error listing ingredient catalog: %w", err)
	}
	return catalog, nil
}

func (s *store) UpsertCatalogIngredient(ctx context.Context, ing *domain.CatalogIngredient) error {
	query := `
		INSERT INTO ingredient_catalog (id, name, unit, total_quantity, bulk_price, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			unit = EXCLUDED.unit,
			total_quantity = EXCLUDED.total_quantity,
			bulk_price = EXCLUDED.bulk_price,
			updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, ing.ID, ing.Name, ing.Unit, ing.TotalQuantity, ing.BulkPrice); err != nil {
		return fmt.Errorf("failed to upsert catalog ingredient: %w", err)
	}
	return nil
}

func (s *store) ListOverrides(ctx context.Context) (domain.Overrides, error) {
	var rows []struct {
		ItemID     string `db:"item_id"`
		SupplierID string `db:"supplier_id"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT item_id, supplier_id FROM purchase_overrides`); err != nil {
		return nil, fmt.Errorf("error listing overrides: %w", err)
	}

	overrides := make(domain.Overrides, len(rows))
	for _, r := range rows {
		overrides[r.ItemID] = r.SupplierID
	}
	return overrides, nil
}

func (s *store) SetOverride(ctx context.Context, itemID, supplierID string) error {
	query := `
		INSERT INTO purchase_overrides (item_id, supplier_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (item_id)
		DO UPDATE SET supplier_id = EXCLUDED.supplier_id, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, itemID, supplierID); err != nil {
		return fmt.Errorf("failed to set override: %w", err)
	}
	return nil
}

func (s *store) ClearOverride(ctx context.Context, itemID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM purchase_overrides WHERE item_id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to clear override: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("override for %s: %w", itemID, repository.ErrNotFound)
	}
	return nil
}
