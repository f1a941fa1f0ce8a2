package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"itemkeeper/internal/domain/entity"
	"itemkeeper/internal/observability/metrics"
	"itemkeeper/internal/repository"
)

type ItemRepo struct {
	db  *sql.DB
	reg *metrics.Registry
}

func NewItemRepo(db *sql.DB, reg *metrics.Registry) repository.ItemRepository {
	return &ItemRepo{db: db, reg: reg}
}

// timeQuery records the duration of one query into the db-query histogram.
func (repo *ItemRepo) timeQuery(operation string, start time.Time) {
	repo.reg.RecordDBQuery(operation, time.Since(start))
}

func (repo *ItemRepo) Get(ctx context.Context, id int64) (*entity.Item, error) {
	const query = `
SELECT id, name, created_at
FROM items
WHERE id = $1
LIMIT 1`
	defer repo.timeQuery("get_item", time.Now())

	var it entity.Item
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.Name, &it.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &it, nil
}

func (repo *ItemRepo) List(ctx context.Context) ([]*entity.Item, error) {
	const query = `
SELECT id, name, created_at
FROM items
ORDER BY id ASC`
	defer repo.timeQuery("list_items", time.Now())

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*entity.Item, 0, 50)
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (repo *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	const query = `
INSERT INTO items (name)
VALUES ($1)
RETURNING id, created_at`
	defer repo.timeQuery("insert_item", time.Now())

	if err := repo.db.QueryRowContext(ctx, query, item.Name).Scan(&item.ID, &item.CreatedAt); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	const query = `
UPDATE items
SET name = $2
WHERE id = $1`
	defer repo.timeQuery("update_item", time.Now())

	res, err := repo.db.ExecContext(ctx, query, item.ID, item.Name)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (repo *ItemRepo) Delete(ctx context.Context, id int64) error {
	const query = `
DELETE FROM items
WHERE id = $1`
	defer repo.timeQuery("delete_item", time.Now())

	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (repo *ItemRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM items`
	defer repo.timeQuery("count_items", time.Now())

	var n int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}
