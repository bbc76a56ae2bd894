package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/store"
	"github.com/MKhiriev/go-table-keeper/models"
)

func newTestRegistry(t *testing.T) (RegistryService, string) {
	t.Helper()

	dir := t.TempDir()
	snapshots, err := store.NewSnapshotFileStore(dir, logger.Nop())
	require.NoError(t, err)

	return NewRegistryService(snapshots, logger.Nop()), dir
}

func peopleSchema() []models.Column {
	return []models.Column{
		{Name: "id", Type: models.TypeInteger},
		{Name: "name", Type: models.TypeString},
	}
}

func TestRegistryCreate(t *testing.T) {
	ctx := context.Background()
	registry, dir := newTestRegistry(t)

	database, err := registry.Create(ctx, "crm")
	require.NoError(t, err)
	assert.Equal(t, "crm", database.Name)
	assert.Equal(t, "crm", registry.Active(ctx))

	// snapshot file exists as soon as the database does
	_, err = os.Stat(filepath.Join(dir, "crm.json"))
	assert.NoError(t, err)

	_, err = registry.Create(ctx, "crm")
	assert.ErrorIs(t, err, ErrDatabaseExists)
}

func TestRegistryRejectsUnsafeNames(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)

	_, err := registry.Create(ctx, "crm")
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../evil", "a/b", `a\b`} {
		_, err = registry.Create(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, "create %q", name)

		_, err = registry.Switch(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, "switch %q", name)

		assert.ErrorIs(t, registry.Rename(ctx, "crm", name), ErrInvalidName, "rename to %q", name)
	}

	// a rejected name leaves no registry entry behind
	assert.Equal(t, []string{"crm"}, registry.Names(ctx))
	_, err = registry.Get(ctx, "../evil")
	assert.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestRegistrySwitchCreatesMissing(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)

	_, err := registry.Create(ctx, "first")
	require.NoError(t, err)

	database, err := registry.Switch(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, "second", database.Name)
	assert.Equal(t, "second", registry.Active(ctx))
	assert.Equal(t, []string{"first", "second"}, registry.Names(ctx))
}

func TestRegistryRename(t *testing.T) {
	ctx := context.Background()
	registry, dir := newTestRegistry(t)

	_, err := registry.Create(ctx, "old")
	require.NoError(t, err)

	require.NoError(t, registry.Rename(ctx, "old", "new"))

	assert.Equal(t, "new", registry.Active(ctx))
	_, err = registry.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrDatabaseNotFound)

	_, err = os.Stat(filepath.Join(dir, "old.json"))
	assert.True(t, os.IsNotExist(err))

	// the moved file carries the new name inside
	raw, err := os.ReadFile(filepath.Join(dir, "new.json"))
	require.NoError(t, err)
	var onDisk struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, "new", onDisk.Name)
}

func TestRegistryRenameConflicts(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)

	_, err := registry.Create(ctx, "a")
	require.NoError(t, err)
	_, err = registry.Create(ctx, "b")
	require.NoError(t, err)

	assert.ErrorIs(t, registry.Rename(ctx, "missing", "c"), ErrDatabaseNotFound)
	assert.ErrorIs(t, registry.Rename(ctx, "a", "b"), ErrNameConflict)
}

func TestRegistryRemove(t *testing.T) {
	ctx := context.Background()
	registry, dir := newTestRegistry(t)

	_, err := registry.Create(ctx, "keep")
	require.NoError(t, err)
	_, err = registry.Create(ctx, "drop")
	require.NoError(t, err)
	_, err = registry.Switch(ctx, "drop")
	require.NoError(t, err)

	require.NoError(t, registry.Remove(ctx, "drop"))
	assert.Equal(t, "keep", registry.Active(ctx))
	_, err = os.Stat(filepath.Join(dir, "drop.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRegistryRemoveLastRefused(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)

	_, err := registry.Create(ctx, "only")
	require.NoError(t, err)

	assert.ErrorIs(t, registry.Remove(ctx, "only"), ErrLastDatabase)
	_, err = registry.Get(ctx, "only")
	assert.NoError(t, err)
}

func TestRegistryTables(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)

	_, err := registry.Create(ctx, "crm")
	require.NoError(t, err)

	table, err := registry.CreateTable(ctx, "crm", "people", peopleSchema())
	require.NoError(t, err)
	assert.Equal(t, "people", table.Name)

	_, err = registry.CreateTable(ctx, "crm", "people", peopleSchema())
	assert.ErrorIs(t, err, ErrTableExists)

	tables, err := registry.Tables(ctx, "crm")
	require.NoError(t, err)
	require.Len(t, tables, 1)

	require.NoError(t, registry.DropTable(ctx, "crm", "people"))
	_, err = registry.GetTable(ctx, "crm", "people")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestRegistryInsertRowValidates(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)

	_, err := registry.Create(ctx, "crm")
	require.NoError(t, err)
	_, err = registry.CreateTable(ctx, "crm", "people", peopleSchema())
	require.NoError(t, err)

	table, err := registry.InsertRow(ctx, "crm", "people", map[string]any{"id": 1, "name": "Ada"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	_, err = registry.InsertRow(ctx, "crm", "people", map[string]any{"id": "not-a-number", "name": "Bob"})
	assert.Error(t, err)

	got, err := registry.GetTable(ctx, "crm", "people")
	require.NoError(t, err)
	assert.Len(t, got.Rows, 1, "rejected row must not be stored")
}

func TestRegistryUnion(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)

	_, err := registry.Create(ctx, "crm")
	require.NoError(t, err)
	_, err = registry.CreateTable(ctx, "crm", "left", peopleSchema())
	require.NoError(t, err)
	_, err = registry.CreateTable(ctx, "crm", "right", peopleSchema())
	require.NoError(t, err)

	_, err = registry.InsertRow(ctx, "crm", "left", map[string]any{"id": 1, "name": "Ada"})
	require.NoError(t, err)
	_, err = registry.InsertRow(ctx, "crm", "right", map[string]any{"id": 1, "name": "Ada"})
	require.NoError(t, err)
	_, err = registry.InsertRow(ctx, "crm", "right", map[string]any{"id": 2, "name": "Bob"})
	require.NoError(t, err)

	union, err := registry.Union(ctx, "crm", "left", "right", "")
	require.NoError(t, err)
	assert.Equal(t, "left_UNION_right", union.Name)
	assert.Len(t, union.Rows, 3, "duplicates are kept")

	// second union of the same operands gets a deduplicated name
	second, err := registry.Union(ctx, "crm", "left", "right", "")
	require.NoError(t, err)
	assert.Equal(t, "left_UNION_right_2", second.Name)
}

func TestRegistryUnionSchemaMismatch(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)

	_, err := registry.Create(ctx, "crm")
	require.NoError(t, err)
	_, err = registry.CreateTable(ctx, "crm", "people", peopleSchema())
	require.NoError(t, err)
	_, err = registry.CreateTable(ctx, "crm", "prices", []models.Column{
		{Name: "id", Type: models.TypeInteger},
		{Name: "amount", Type: models.TypeReal},
	})
	require.NoError(t, err)

	_, err = registry.Union(ctx, "crm", "people", "prices", "")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestRegistryUnionNameCapped(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)

	_, err := registry.Create(ctx, "crm")
	require.NoError(t, err)

	longLeft := strings.Repeat("l", 40)
	longRight := strings.Repeat("r", 40)
	_, err = registry.CreateTable(ctx, "crm", longLeft, peopleSchema())
	require.NoError(t, err)
	_, err = registry.CreateTable(ctx, "crm", longRight, peopleSchema())
	require.NoError(t, err)

	union, err := registry.Union(ctx, "crm", longLeft, longRight, "")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(union.Name), maxUnionNameLen)

	second, err := registry.Union(ctx, "crm", longLeft, longRight, "")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(second.Name), maxUnionNameLen)
	assert.NotEqual(t, union.Name, second.Name)
}

func TestRegistryLoadAllCreatesDefault(t *testing.T) {
	ctx := context.Background()
	registry, dir := newTestRegistry(t)

	require.NoError(t, registry.LoadAll(ctx))
	assert.Equal(t, []string{"default"}, registry.Names(ctx))
	assert.Equal(t, "default", registry.Active(ctx))

	_, err := os.Stat(filepath.Join(dir, "default.json"))
	assert.NoError(t, err)
}

func TestRegistryLoadAllRestoresSaved(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	snapshots, err := store.NewSnapshotFileStore(dir, logger.Nop())
	require.NoError(t, err)

	first := NewRegistryService(snapshots, logger.Nop())
	_, err = first.Create(ctx, "crm")
	require.NoError(t, err)
	_, err = first.CreateTable(ctx, "crm", "people", peopleSchema())
	require.NoError(t, err)
	_, err = first.InsertRow(ctx, "crm", "people", map[string]any{"id": 7, "name": "Ada"})
	require.NoError(t, err)
	require.NoError(t, first.SaveAll(ctx))

	second := NewRegistryService(snapshots, logger.Nop())
	require.NoError(t, second.LoadAll(ctx))

	table, err := second.GetTable(ctx, "crm", "people")
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestRegistrySerializeSnapshot(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)

	_, err := registry.Create(ctx, "crm")
	require.NoError(t, err)

	payload, err := registry.SerializeSnapshot(ctx, "crm")
	require.NoError(t, err)

	var decoded struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "crm", decoded.Name)

	_, err = registry.SerializeSnapshot(ctx, "missing")
	assert.ErrorIs(t, err, ErrDatabaseNotFound)
}
