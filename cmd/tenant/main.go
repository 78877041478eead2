// Package main provides CLI for tenant management.
// Usage: tenant create --slug acme --name "ACME Corp"
//        tenant list
//        tenant migrate
//        tenant suspend <tenant-id>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"fieldops/internal/core/tenant"
	"fieldops/internal/infrastructure/storage/postgres"
	"fieldops/internal/infrastructure/storage/sqlite"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	ctx := context.Background()

	switch os.Args[1] {
	case "create":
		createTenant(ctx)
	case "list":
		listTenants(ctx)
	case "migrate":
		migrate(ctx)
	case "suspend":
		setStatus(ctx, tenant.StatusSuspended)
	case "activate":
		setStatus(ctx, tenant.StatusActive)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Fieldops Tenant Management CLI

Usage:
  tenant <command> [options]

Commands:
  create    Create a new tenant
  list      List all tenants
  migrate   Create or update the database schema
  suspend   Suspend a tenant
  activate  Activate a suspended tenant
  help      Show this help

Environment Variables:
  STORAGE_DRIVER   postgres (default) or sqlite
  DATABASE_URL     Connection string (postgres driver, required)
  SQLITE_PATH      Database file path (sqlite driver, default fieldops.db)

Examples:
  tenant create --slug acme --name "ACME Corporation"
  tenant list
  tenant suspend <tenant-uuid>
  tenant activate <tenant-uuid>`)
}

// backend bundles the registry with driver-specific schema setup.
type backend struct {
	registry tenant.Registry
	migrate  func(ctx context.Context) error
	close    func()
}

func openBackend(ctx context.Context) *backend {
	driver := os.Getenv("STORAGE_DRIVER")
	if driver == "" {
		driver = "postgres"
	}

	switch driver {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			fmt.Println("Error: DATABASE_URL environment variable is required")
			os.Exit(1)
		}
		pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
		if err != nil {
			fmt.Printf("Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		return &backend{
			registry: postgres.NewTenantRegistry(pool),
			migrate:  func(ctx context.Context) error { return postgres.EnsureSchema(ctx, pool) },
			close:    pool.Close,
		}

	case "sqlite":
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "fieldops.db"
		}
		db, err := sqlite.New(path)
		if err != nil {
			fmt.Printf("Error opening database: %v\n", err)
			os.Exit(1)
		}
		return &backend{
			registry: sqlite.NewTenantRegistry(db),
			migrate:  func(context.Context) error { return db.EnsureSchema() },
			close:    func() { _ = db.Close() },
		}

	default:
		fmt.Printf("Error: unknown storage driver %q\n", driver)
		os.Exit(1)
		return nil
	}
}

func createTenant(ctx context.Context) {
	var slug, name, plan string

	for i := 2; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "--slug":
			if i+1 < len(os.Args) {
				slug = os.Args[i+1]
				i++
			}
		case "--name":
			if i+1 < len(os.Args) {
				name = os.Args[i+1]
				i++
			}
		case "--plan":
			if i+1 < len(os.Args) {
				plan = os.Args[i+1]
				i++
			}
		}
	}

	if slug == "" || name == "" {
		fmt.Println("Error: --slug and --name are required")
		fmt.Println("Usage: tenant create --slug <slug> --name <name> [--plan standard|premium|enterprise]")
		os.Exit(1)
	}

	input := tenant.CreateTenantInput{
		Slug:        slug,
		DisplayName: name,
		Plan:        tenant.Plan(plan),
	}
	if err := input.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	b := openBackend(ctx)
	defer b.close()

	if err := b.migrate(ctx); err != nil {
		fmt.Printf("Error preparing schema: %v\n", err)
		os.Exit(1)
	}

	t := &tenant.Tenant{
		Slug:        input.Slug,
		DisplayName: input.DisplayName,
		Plan:        input.Plan,
	}
	if err := b.registry.Create(ctx, t); err != nil {
		fmt.Printf("Error creating tenant: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Tenant created:\n")
	fmt.Printf("  ID:     %s\n", t.ID)
	fmt.Printf("  Slug:   %s\n", t.Slug)
	fmt.Printf("  Name:   %s\n", t.DisplayName)
	fmt.Printf("  Plan:   %s\n", t.Plan)
	fmt.Printf("  Status: %s\n", t.Status)
}

func listTenants(ctx context.Context) {
	b := openBackend(ctx)
	defer b.close()

	tenants, err := b.registry.ListAll(ctx)
	if err != nil {
		fmt.Printf("Error listing tenants: %v\n", err)
		os.Exit(1)
	}

	if len(tenants) == 0 {
		fmt.Println("No tenants registered")
		return
	}

	fmt.Printf("%-36s  %-20s  %-10s  %-10s  %s\n", "ID", "SLUG", "STATUS", "PLAN", "NAME")
	for _, t := range tenants {
		fmt.Printf("%-36s  %-20s  %-10s  %-10s  %s\n", t.ID, t.Slug, t.Status, t.Plan, t.DisplayName)
	}
}

func migrate(ctx context.Context) {
	b := openBackend(ctx)
	defer b.close()

	if err := b.migrate(ctx); err != nil {
		fmt.Printf("Error migrating schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Schema is up to date")
}

func setStatus(ctx context.Context, status tenant.Status) {
	if len(os.Args) < 3 {
		fmt.Printf("Usage: tenant %s <tenant-id>\n", os.Args[1])
		os.Exit(1)
	}
	tenantID := os.Args[2]

	b := openBackend(ctx)
	defer b.close()

	if err := b.registry.UpdateStatusByID(ctx, tenantID, status); err != nil {
		fmt.Printf("Error updating tenant: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Tenant %s is now %s\n", tenantID, status)
}
