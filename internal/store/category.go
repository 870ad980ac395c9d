// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store reads and replaces the taxonomy held in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"voiceaikb/internal/models"
)

// CategoryStore manages taxonomy categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, title, slug, description, parent_id, sort_order, tags, icon`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var (
		c        models.Category
		parentID sql.NullString
		tags     []byte
		icon     string
	)
	err := scanner.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &parentID, &c.Order, &tags, &icon)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	if err := json.Unmarshal(tags, &c.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of %q: %w", c.ID, err)
	}
	if c.Icon, err = models.ParseIcon(icon); err != nil {
		return nil, fmt.Errorf("category %q: %w", c.ID, err)
	}
	return &c, nil
}

// Load returns all categories in import order. It satisfies taxonomy.Loader.
func (s *CategoryStore) Load(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	slog.Info("taxonomy loaded from database", "categories", len(items))
	return items, nil
}

// Count returns the number of stored categories.
func (s *CategoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// ReplaceAll swaps the stored taxonomy for cats in one transaction,
// recording each entry's index as its position. Duplicate ids keep the
// last entry, matching how the index resolves them.
func (s *CategoryStore) ReplaceAll(ctx context.Context, cats []models.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO categories (`+categoryColumns+`, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, slug = EXCLUDED.slug, description = EXCLUDED.description,
			parent_id = EXCLUDED.parent_id, sort_order = EXCLUDED.sort_order,
			tags = EXCLUDED.tags, icon = EXCLUDED.icon, position = EXCLUDED.position,
			updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range cats {
		tags := c.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("encode tags of %q: %w", c.ID, err)
		}
		var parentID sql.NullString
		if c.ParentID != nil {
			parentID = sql.NullString{String: *c.ParentID, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Title, c.Slug, c.Description, parentID,
			c.Order, tagsJSON, string(c.Icon), i); err != nil {
			return fmt.Errorf("insert category %q: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit taxonomy: %w", err)
	}
	slog.Info("taxonomy replaced in database", "categories", len(cats))
	return nil
}
