// cmd/seed/main.go
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/bodegapos/backend/internal/repository/postgres"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Manage the database schema and demo data",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply the relational schema",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runMigrate,
			},
			{
				Name:   "demo",
				Usage:  "Insert demo branches, users, products, customers and stock",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runDemo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runMigrate(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(c.Context, postgres.Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Println("schema applied")
	return nil
}

func runDemo(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := c.Context
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	branchMain := uuid.NewString()
	branchNorth := uuid.NewString()
	for _, b := range []struct{ id, name, address string }{
		{branchMain, "Sucursal Centro", "Av. Juárez 100"},
		{branchNorth, "Sucursal Norte", "Blvd. Industrial 45"},
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO branches (id, name, address) VALUES ($1, $2, $3)`,
			b.id, b.name, b.address); err != nil {
			return fmt.Errorf("failed to insert branch %s: %w", b.name, err)
		}
	}

	admin := uuid.NewString()
	cashier := uuid.NewString()
	for _, u := range []struct{ id, name, username, role, branch string }{
		{admin, "Admin", "admin", "admin", branchMain},
		{cashier, "Cajero Uno", "cajero1", "cashier", branchMain},
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, name, username, role, branch_id) VALUES ($1, $2, $3, $4, $5)`,
			u.id, u.name, u.username, u.role, u.branch); err != nil {
			return fmt.Errorf("failed to insert user %s: %w", u.username, err)
		}
	}

	products := []struct {
		id, name, code string
		cost, retail   string
	}{
		{uuid.NewString(), "Café de grano 1kg", "CAFE-1KG", "120.00", "185.00"},
		{uuid.NewString(), "Azúcar 2kg", "AZU-2KG", "38.00", "55.00"},
		{uuid.NewString(), "Leche entera 1L", "LECHE-1L", "18.50", "26.00"},
	}
	for _, p := range products {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO products (id, name, code, cost, retail_price, wholesale_price, unit)
			 VALUES ($1, $2, $3, $4, $5, $5, 'PZA')`,
			p.id, p.name, p.code, p.cost, p.retail); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.name, err)
		}
		for _, branch := range []string{branchMain, branchNorth} {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO branch_stock (id, product_id, branch_id, quantity) VALUES ($1, $2, $3, 50)`,
				uuid.NewString(), p.id, branch); err != nil {
				return fmt.Errorf("failed to insert stock for %s: %w", p.name, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO customers (id, name, phone, credit_limit, branch_id) VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), "Cliente Mostrador", "555-0100", "5000.00", branchMain); err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit demo data: %w", err)
	}
	log.Println("demo data inserted")
	return nil
}
