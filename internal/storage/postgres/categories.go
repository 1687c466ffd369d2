package postgres

import (
	"context"

	"github.com/lib/pq"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/models"
)

const categoryColumns = `id, name, icon, color, type, is_system, created_at, updated_at`

func scanCategory(row rowScanner) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.Type, &c.IsSystem, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (p *PostgresStore) CreateCategory(ctx context.Context, c models.Category) error {
	const query = `INSERT INTO categories (` + categoryColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := p.conn(ctx).ExecContext(ctx, query,
		c.ID, c.Name, c.Icon, c.Color, c.Type, c.IsSystem, c.CreatedAt, c.UpdatedAt)
	return err
}

func (p *PostgresStore) GetCategory(ctx context.Context, id string) (models.Category, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(p.conn(ctx).QueryRowContext(ctx, query, id))
	return c, notFound(err)
}

func (p *PostgresStore) ListCategories(ctx context.Context, types ...models.CategoryType) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	var args []any
	if len(types) > 0 {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		query += ` WHERE type = ANY($1)`
		args = append(args, pq.Array(names))
	}
	query += ` ORDER BY name, id`

	rows, err := p.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (p *PostgresStore) UpdateCategory(ctx context.Context, c models.Category) error {
	const query = `UPDATE categories SET name = $2, icon = $3, color = $4, type = $5, updated_at = $6
	WHERE id = $1`

	return expectOne(p.conn(ctx).ExecContext(ctx, query, c.ID, c.Name, c.Icon, c.Color, c.Type, c.UpdatedAt))
}

func (p *PostgresStore) DeleteCategory(ctx context.Context, id string) error {
	const query = `DELETE FROM categories WHERE id = $1`

	return referenced(expectOne(p.conn(ctx).ExecContext(ctx, query, id)))
}

func (p *PostgresStore) CategoryExists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`

	var exists bool
	err := p.conn(ctx).QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}
