// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const categoryColumns = `id, title, description, slug, is_published, created_at`

func scanCategory(row *sql.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Slug, &c.IsPublished, &c.CreatedAt)
	return c, err
}

// CreateCategoryParams holds the fields for CreateCategory.
type CreateCategoryParams struct {
	Title       string
	Description string
	Slug        string
	IsPublished bool
	CreatedAt   time.Time
}

// CreateCategory inserts a new category and returns the created row.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO categories (title, description, slug, is_published, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+categoryColumns,
		arg.Title, arg.Description, arg.Slug, arg.IsPublished, arg.CreatedAt)
	return scanCategory(row)
}

// GetCategoryByID fetches a category by primary key.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

// GetPublishedCategoryBySlug fetches a published category by its slug.
// Unpublished categories are absent on purpose: their archives 404.
func (q *Queries) GetPublishedCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = ? AND is_published = 1`, slug)
	return scanCategory(row)
}

// ListPublishedCategories returns all published categories ordered by title.
func (q *Queries) ListPublishedCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE is_published = 1 ORDER BY title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Slug, &c.IsPublished, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CountCategoriesBySlug counts categories with the given slug, used for
// uniqueness validation.
func (q *Queries) CountCategoriesBySlug(ctx context.Context, slug string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE slug = ?`, slug).Scan(&count)
	return count, err
}

// DeleteCategory removes a category. The foreign key blocks deletion
// while posts still reference it.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return err
}

const locationColumns = `id, name, is_published, created_at`

func scanLocation(row *sql.Row) (Location, error) {
	var l Location
	err := row.Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt)
	return l, err
}

// CreateLocationParams holds the fields for CreateLocation.
type CreateLocationParams struct {
	Name        string
	IsPublished bool
	CreatedAt   time.Time
}

// CreateLocation inserts a new location and returns the created row.
func (q *Queries) CreateLocation(ctx context.Context, arg CreateLocationParams) (Location, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO locations (name, is_published, created_at)
		VALUES (?, ?, ?)
		RETURNING `+locationColumns,
		arg.Name, arg.IsPublished, arg.CreatedAt)
	return scanLocation(row)
}

// GetLocationByID fetches a location by primary key.
func (q *Queries) GetLocationByID(ctx context.Context, id int64) (Location, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = ?`, id)
	return scanLocation(row)
}

// ListPublishedLocations returns all published locations ordered by name.
func (q *Queries) ListPublishedLocations(ctx context.Context) ([]Location, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE is_published = 1 ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// DeleteLocation removes a location; posts referencing it keep existing
// with their location cleared.
func (q *Queries) DeleteLocation(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	return err
}
