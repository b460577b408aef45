// Package registry provides the Config phase's "registry provider" —
// spec.md section 6 treats it as an external static provider yielding
// [{registry_id, registry_entries}] shipped verbatim as CRegistryData. This
// module gives that boundary a concrete, still-opaque shape: a Postgres-backed
// store when a DSN is configured, or an in-memory fallback otherwise.
package registry

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one registry's opaque content, shipped verbatim as a
// CRegistryData packet during Config.
type Entry struct {
	ID      string
	Payload []byte
}

// Provider yields the registry entries the Config handler ships to every
// client during the KnownPacks exchange.
type Provider interface {
	Entries(ctx context.Context) ([]Entry, error)
}

// staticEntries is the built-in placeholder content used when no database
// is configured: each carries an opaque byte blob exactly as spec.md
// requires ("shipped verbatim"), standing in for the real NBT registry
// payloads a full server would load.
var staticEntries = []Entry{
	{ID: "minecraft:chat_type", Payload: []byte{0x0A, 0x00}},
	{ID: "minecraft:dimension_type", Payload: []byte{0x0A, 0x00}},
	{ID: "minecraft:worldgen/biome", Payload: []byte{0x0A, 0x00}},
}

// StaticProvider serves the built-in placeholder table. It is the default
// when ServerConfig carries no database DSN.
type StaticProvider struct{}

// NewStaticProvider returns a Provider backed by the built-in placeholder
// table.
func NewStaticProvider() StaticProvider { return StaticProvider{} }

// Entries returns the built-in placeholder registry entries.
func (StaticProvider) Entries(_ context.Context) ([]Entry, error) {
	out := make([]Entry, len(staticEntries))
	copy(out, staticEntries)
	return out, nil
}

// PostgresProvider serves registry entries from the registry_entries table
// created by internal/db's goose migrations.
type PostgresProvider struct {
	pool *pgxpool.Pool
}

// NewPostgresProvider returns a Provider backed by pool.
func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{pool: pool}
}

// Entries loads every row of registry_entries, ordered by id for a stable
// CRegistryData send order.
func (p *PostgresProvider) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := p.pool.Query(ctx, "SELECT id, payload FROM registry_entries ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying registry_entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Payload); err != nil {
			return nil, fmt.Errorf("scanning registry_entries row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registry_entries: %w", err)
	}
	return out, nil
}

// Seed inserts the built-in placeholder entries into the database,
// idempotently, for deployments that want the Postgres-backed provider
// without hand-loading real registry content.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, e := range staticEntries {
		_, err := pool.Exec(ctx,
			`INSERT INTO registry_entries (id, payload) VALUES ($1, $2)
			 ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`,
			e.ID, e.Payload,
		)
		if err != nil {
			return fmt.Errorf("seeding registry entry %s: %w", e.ID, err)
		}
	}
	return nil
}
