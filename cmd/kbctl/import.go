package main

import (
	"fmt"

	"voiceaikb/internal/config"
	"voiceaikb/internal/database"
	"voiceaikb/internal/store"
)

// Run executes the import command. The connection settings come from the
// same POSTGRES_* variables the server reads.
func (c *ImportCmd) Run(deps *Dependencies) error {
	cats, _, err := loadTaxonomy(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Connect(deps.Ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: check POSTGRES_HOST, POSTGRES_USER and POSTGRES_PASSWORD")
		return err
	}
	defer db.Close()

	version, err := database.Migrate(deps.Ctx, db)
	if err != nil {
		return err
	}

	if err := store.NewCategoryStore(db).ReplaceAll(deps.Ctx, cats); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %d categories from %s (schema version %d).\n", len(cats), deps.TaxonomyPath, version)
	return nil
}
