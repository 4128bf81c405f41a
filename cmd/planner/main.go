package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/andresuchdata/toastshop/backend-go/internal/config"
	"github.com/andresuchdata/toastshop/backend-go/internal/repository"
	"github.com/andresuchdata/toastshop/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/toastshop/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newShopIDFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "shop-id",
		Usage:   "Shop whose business parameters drive the plan",
		Value:   "main",
		EnvVars: []string{"SHOP_ID"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, postgres.NewDBFromSQL(db, "pgx"))
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database is not initialized")
	}
	return db, nil
}

func storeFrom(c *cli.Context) (repository.Store, error) {
	db, err := dbFrom(c)
	if err != nil {
		return nil, err
	}
	return postgres.NewStore(db), nil
}

func main() {
	cfg := config.Load()
	logger.Configure(cfg.Log.Format, cfg.Log.Level)

	app := &cli.App{
		Name:  "planner",
		Usage: "Toast shop procurement planner and profit simulator",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Answer yes to every confirmation",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create the planner tables",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runMigrate,
			},
			{
				Name:   "seed-demo",
				Usage:  "Load the demo shop into the database",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runSeedDemo,
			},
			{
				Name:  "simulate",
				Usage: "Run the financial model on a parameters file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "params",
						Usage:    "Path to a BusinessParameters JSON file",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "worst-case",
						Usage: "Force the worst-case traffic discount",
					},
				},
				Action: runSimulate,
			},
			{
				Name:  "plan",
				Usage: "Print the current purchase plan",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newShopIDFlag(),
					&cli.StringSliceFlag{
						Name:  "override",
						Usage: "Force a supplier for one run, as item_id=supplier_id (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the plan as JSON",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error { return runPlan(c, cfg) },
			},
			{
				Name:  "export",
				Usage: "Write the shopping list of the current plan",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newShopIDFlag(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "csv or xlsx",
						Value: "xlsx",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output path; defaults to the generated file name",
					},
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Also archive the file to object storage",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error { return runExport(c, cfg) },
			},
			{
				Name:  "import-prices",
				Usage: "Import supplier price lists from a Google Drive folder",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "folder-id",
						Usage:   "Drive folder holding the price lists",
						Value:   cfg.Drive.PriceFolderID,
						EnvVars: []string{"DRIVE_PRICE_FOLDER_ID"},
					},
					&cli.StringFlag{
						Name:    "credentials",
						Usage:   "Service account credentials JSON",
						Value:   cfg.Drive.CredentialsJSON,
						EnvVars: []string{"GOOGLE_DRIVE_CREDENTIALS_JSON"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runImportPrices,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("planner failed")
	}
}
