package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/andresuchdata/toastshop/backend-go/internal/config"
	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/andresuchdata/toastshop/backend-go/internal/drive"
	"github.com/andresuchdata/toastshop/backend-go/internal/export"
	"github.com/andresuchdata/toastshop/backend-go/internal/procurement"
	"github.com/andresuchdata/toastshop/backend-go/internal/repository/memory"
	"github.com/andresuchdata/toastshop/backend-go/internal/service"
	"github.com/andresuchdata/toastshop/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func runMigrate(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	if err := db.EnsureSchema(c.Context); err != nil {
		return err
	}
	log.Info().Msg("schema is up to date")
	return nil
}

// runSeedDemo copies the in-memory demo shop into the database.
func runSeedDemo(c *cli.Context) error {
	store, err := storeFrom(c)
	if err != nil {
		return err
	}
	ctx := c.Context
	demo := memory.NewSeeded(time.Now())

	params, err := demo.GetParameters(ctx, memory.DemoShopID)
	if err != nil {
		return err
	}
	if err := store.SaveParameters(ctx, memory.DemoShopID, params); err != nil {
		return fmt.Errorf("seed parameters: %w", err)
	}

	catalog, _ := demo.ListCatalog(ctx)
	for i := range catalog {
		if err := store.UpsertCatalogIngredient(ctx, &catalog[i]); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	suppliers, _ := demo.ListSuppliers(ctx)
	for i := range suppliers {
		if err := store.UpsertSupplier(ctx, &suppliers[i]); err != nil {
			return fmt.Errorf("seed suppliers: %w", err)
		}
	}

	items, _ := demo.ListInventory(ctx)
	for i := range items {
		if err := store.UpsertInventoryItem(ctx, &items[i]); err != nil {
			return fmt.Errorf("seed inventory: %w", err)
		}
	}

	log.Info().
		Int("catalog", len(catalog)).
		Int("suppliers", len(suppliers)).
		Int("inventory", len(items)).
		Msg("demo shop seeded")
	return nil
}

func runSimulate(c *cli.Context) error {
	raw, err := os.ReadFile(c.String("params"))
	if err != nil {
		return fmt.Errorf("read parameters: %w", err)
	}

	var params domain.BusinessParameters
	if err := json.Unmarshal(raw, &params); err != nil {
		return fmt.Errorf("decode parameters: %w", err)
	}
	if c.Bool("worst-case") {
		params.Traffic.WorstCase = true
	}

	result, err := service.NewSimulationService(nil, nil).Simulate(c.Context, &params)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func parseOverrides(values []string) (domain.Overrides, error) {
	out := make(domain.Overrides, len(values))
	for _, v := range values {
		item, supplier, ok := strings.Cut(v, "=")
		item, supplier = strings.TrimSpace(item), strings.TrimSpace(supplier)
		if !ok || item == "" || supplier == "" {
			return nil, fmt.Errorf("invalid override %q, want item_id=supplier_id", v)
		}
		out[item] = supplier
	}
	return out, nil
}

func plannerOptions(cfg *config.Config) procurement.Options {
	return procurement.Options{
		ShippingFee:    cfg.Planner.ShippingFee,
		CostPerKm:      cfg.Planner.CostPerKm,
		OnlineLeadDays: cfg.Planner.OnlineLeadDays,
	}
}

func runPlan(c *cli.Context, cfg *config.Config) error {
	store, err := storeFrom(c)
	if err != nil {
		return err
	}
	overrides, err := parseOverrides(c.StringSlice("override"))
	if err != nil {
		return err
	}

	svc := service.NewProcurementService(store, nil, newTerminalNotifier(c.Bool("yes")), plannerOptions(cfg))
	plan, err := svc.Plan(c.Context, c.String("shop-id"), overrides)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return printJSON(plan)
	}
	printPlan(plan)
	return nil
}

func printPlan(plan *domain.Plan) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Plan %s (%s)\n\n", plan.ID, plan.GeneratedAt.Format(time.RFC3339))
	for _, g := range plan.Routes() {
		fmt.Fprintf(w, "%s\tproducts %.2f\tlogistics %.2f\n", g.Supplier.Name, g.TotalCost, g.LogisticsCost)
		for _, opt := range g.Items {
			fmt.Fprintf(w, "  %s\t%g %s (%d packs)\t%.2f\t%s\n",
				opt.Item.Name, opt.Qty, opt.Item.Unit, opt.Packs, opt.Analysis.Winner.ProductCost, opt.Reason)
		}
	}
	if len(plan.Unassigned) > 0 {
		fmt.Fprintln(w, "\nUnassigned")
		for _, n := range plan.Unassigned {
			fmt.Fprintf(w, "  %s\t%g %s\t%.1f days left\n", n.Name, n.ToBuy, n.Unit, n.DaysLeft)
		}
	}
	fmt.Fprintf(w, "\nTotal\t%.2f\n", plan.Total())
}

func runExport(c *cli.Context, cfg *config.Config) error {
	store, err := storeFrom(c)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	var objects storage.ObjectStorage
	if c.Bool("upload") {
		client, err := storage.NewS3Client(c.Context, cfg.Storage)
		if err != nil {
			return err
		}
		objects = client
	}

	notifier := newTerminalNotifier(c.Bool("yes"))
	procurementSvc := service.NewProcurementService(store, nil, notifier, plannerOptions(cfg))
	res, err := service.NewExportService(procurementSvc, objects, notifier).
		Export(c.Context, c.String("shop-id"), nil, format, c.Bool("upload"))
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = res.Filename
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	log.Info().Str("path", out).Str("plan_id", res.PlanID).Str("storage_key", res.StorageKey).Msg("shopping list written")
	return nil
}

func runImportPrices(c *cli.Context) error {
	store, err := storeFrom(c)
	if err != nil {
		return err
	}
	if c.String("credentials") == "" {
		return fmt.Errorf("drive credentials are required")
	}
	if c.String("folder-id") == "" {
		return fmt.Errorf("drive folder id is required")
	}

	driveService, err := drive.NewService(c.Context, c.String("credentials"))
	if err != nil {
		return err
	}

	report, err := drive.NewPriceImporter(driveService, store).ImportFolder(c.Context, c.String("folder-id"))
	if err != nil {
		return err
	}
	for _, issue := range report.Issues {
		log.Warn().Msg(issue)
	}
	return printJSON(report)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
