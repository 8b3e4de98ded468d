package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/maftown/spitbraai/internal/domain/catalog"
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

const itemColumns = `id, name, description, price, image, category, servings, hidden`

func scanItem(row pgx.Row) (catalog.Item, error) {
	var (
		it       catalog.Item
		category string
	)
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Image, &category, &it.Servings, &it.Hidden); err != nil {
		return catalog.Item{}, err
	}
	it.Category = catalog.Category(category)
	return it, nil
}

// List returns all items in display order.
func (r *CatalogRepository) List(ctx context.Context) ([]catalog.Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM catalog_items ORDER BY position, id`)
	if err != nil {
		return nil, errors.Wrap(err, "query items")
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Item, error) {
		return scanItem(row)
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan items")
	}
	return items, nil
}

// GetByID returns catalog.ErrNotFound when no item has the id.
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*catalog.Item, error) {
	it, err := scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM catalog_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get item %q", id)
	}
	return &it, nil
}

// Tiers returns the service pricing tiers per preparation mode.
func (r *CatalogRepository) Tiers(ctx context.Context) (map[catalog.PrepMode][]catalog.Tier, error) {
	rows, err := r.pool.Query(ctx, `SELECT prep_mode, name, price FROM catalog_tiers ORDER BY prep_mode, position`)
	if err != nil {
		return nil, errors.Wrap(err, "query tiers")
	}
	defer rows.Close()

	tiers := make(map[catalog.PrepMode][]catalog.Tier)
	for rows.Next() {
		var (
			mode, name string
			price      decimal.NullDecimal
		)
		if err := rows.Scan(&mode, &name, &price); err != nil {
			return nil, errors.Wrap(err, "scan tier")
		}
		t := catalog.Tier{Name: name}
		if price.Valid {
			p := price.Decimal
			t.Price = &p
		}
		tiers[catalog.PrepMode(mode)] = append(tiers[catalog.PrepMode(mode)], t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate tiers")
	}
	return tiers, nil
}

// Replace makes the stored catalog match doc in one transaction: items are
// upserted in document order, items missing from doc are deleted and tiers
// are rewritten.
func (r *CatalogRepository) Replace(ctx context.Context, doc *catalog.Document) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		ids := make([]string, 0, len(doc.Items))
		batch := &pgx.Batch{}
		for i, it := range doc.Items {
			ids = append(ids, it.ID)
			batch.Queue(`INSERT INTO catalog_items (id, name, description, price, image, category, servings, hidden, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    image = EXCLUDED.image,
    category = EXCLUDED.category,
    servings = EXCLUDED.servings,
    hidden = EXCLUDED.hidden,
    position = EXCLUDED.position,
    updated_at = now()`,
				it.ID, it.Name, it.Description, it.Price, it.Image, string(it.Category), it.Servings, it.Hidden, i)
		}
		batch.Queue(`DELETE FROM catalog_items WHERE NOT (id = ANY($1))`, ids)
		batch.Queue(`DELETE FROM catalog_tiers`)
		for _, mode := range catalog.PrepModes {
			for i, t := range doc.Tiers[mode] {
				var price decimal.NullDecimal
				if t.Price != nil {
					price = decimal.NullDecimal{Decimal: *t.Price, Valid: true}
				}
				batch.Queue(`INSERT INTO catalog_tiers (prep_mode, position, name, price) VALUES ($1, $2, $3, $4)`,
					string(mode), i, t.Name, price)
			}
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return errors.Wrap(err, "write catalog")
		}
		return nil
	})
}
