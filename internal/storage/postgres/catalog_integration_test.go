//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/maftown/spitbraai/internal/domain/catalog"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "spitbraai",
				"POSTGRES_PASSWORD": "spitbraai",
				"POSTGRES_DB":       "spitbraai",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	url := fmt.Sprintf("postgres://spitbraai:spitbraai@%s:%s/spitbraai?sslmode=disable", host, port.Port())
	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	require.NoError(t, RunMigrations(ctx, pool), "schema is idempotent")
	return pool
}

func TestCatalogRepository(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	repo := NewCatalogRepository(pool)

	doc, err := catalog.Default()
	require.NoError(t, err)
	require.NoError(t, repo.Replace(ctx, doc))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, len(doc.Items))
	for i := range items {
		assert.Equal(t, doc.Items[i].ID, items[i].ID)
		assert.True(t, doc.Items[i].Price.Equal(items[i].Price), items[i].ID)
		assert.Equal(t, doc.Items[i].Hidden, items[i].Hidden)
	}

	lamb, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Whole Lamb Spitbraai", lamb.Name)
	assert.Equal(t, catalog.CategorySpitbraai, lamb.Category)
	assert.Equal(t, "2500", lamb.Price.String())

	_, err = repo.GetByID(ctx, "nope")
	require.ErrorIs(t, err, catalog.ErrNotFound)

	tiers, err := repo.Tiers(ctx)
	require.NoError(t, err)
	require.Len(t, tiers[catalog.PrepCharcoal], 3)
	assert.Equal(t, "800", tiers[catalog.PrepCharcoal][0].Price.String())
	assert.Nil(t, tiers[catalog.PrepGas][2].Price)

	// Replacing with a smaller catalog removes stale rows.
	small := &catalog.Document{Items: []catalog.Item{{
		ID: "9", Name: "Potjiekos", Price: decimal.NewFromInt(300), Category: catalog.CategorySides,
	}}}
	require.NoError(t, repo.Replace(ctx, small))
	items, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "9", items[0].ID)
	tiers, err = repo.Tiers(ctx)
	require.NoError(t, err)
	assert.Empty(t, tiers)
}
