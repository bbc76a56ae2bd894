// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/store"
	"github.com/MKhiriev/go-table-keeper/internal/validators"
	"github.com/MKhiriev/go-table-keeper/models"
)

// defaultDatabaseName is created on first start and protected from deletion
// when it is the only database left.
const defaultDatabaseName = "default"

// maxUnionNameLen caps auto-generated union table names.
const maxUnionNameLen = 60

type registryService struct {
	logger    *logger.Logger
	snapshots store.SnapshotStore
	validator *validators.RowValidator

	mu        sync.RWMutex
	databases map[string]*models.Database
	active    string
}

// NewRegistryService constructs a [RegistryService] backed by the snapshot
// store. Call LoadAll before serving requests.
func NewRegistryService(snapshots store.SnapshotStore, logger *logger.Logger) RegistryService {
	logger.Debug().Msg("creating registry service")
	return &registryService{
		logger:    logger,
		snapshots: snapshots,
		validator: validators.NewRowValidator(),
		databases: make(map[string]*models.Database),
	}
}

// validateDatabaseName guards every name that becomes a snapshot filename
// and a coordination key suffix. Path separators and relative-path elements
// would escape the snapshot directory.
func validateDatabaseName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Create implements [RegistryService]. The new database is persisted
// immediately so its snapshot file exists from the moment it is visible;
// the registry entry is committed only after the snapshot write succeeds.
func (s *registryService) Create(ctx context.Context, name string) (*models.Database, error) {
	if err := validateDatabaseName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.databases[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDatabaseExists, name)
	}

	database := models.NewDatabase(name)
	if err := s.snapshots.Save(ctx, database); err != nil {
		return nil, err
	}

	s.databases[name] = database
	if s.active == "" {
		s.active = name
	}

	return database, nil
}

// Switch implements [RegistryService]. Switching to a database that does not
// exist creates it, matching the load-or-create semantics of opening a file.
func (s *registryService) Switch(ctx context.Context, name string) (*models.Database, error) {
	if err := validateDatabaseName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	database, exists := s.databases[name]
	if !exists {
		database = models.NewDatabase(name)
		if err := s.snapshots.Save(ctx, database); err != nil {
			return nil, err
		}
		s.databases[name] = database
	}
	s.active = name

	return database, nil
}

func (s *registryService) Get(ctx context.Context, name string) (*models.Database, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lookup(name)
}

func (s *registryService) Names(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.databases))
	for name := range s.databases {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (s *registryService) Active(ctx context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.active
}

// Rename implements [RegistryService]. Registry-level only: enrolled
// databases are renamed through [SyncService], which calls this under the
// database lease.
func (s *registryService) Rename(ctx context.Context, oldName string, newName string) error {
	log := logger.FromContext(ctx)

	if err := validateDatabaseName(newName); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	database, exists := s.databases[oldName]
	if !exists {
		return fmt.Errorf("%w: %q", ErrDatabaseNotFound, oldName)
	}
	if _, taken := s.databases[newName]; taken {
		return fmt.Errorf("%w: %q", ErrNameConflict, newName)
	}

	database.Name = newName
	s.databases[newName] = database
	delete(s.databases, oldName)
	if s.active == oldName {
		s.active = newName
	}

	if err := s.snapshots.Rename(ctx, oldName, newName); err != nil && !errors.Is(err, store.ErrSnapshotNotFound) {
		return err
	}
	// rewrite so the file content carries the new name
	if err := s.snapshots.Save(ctx, database); err != nil {
		log.Err(err).Str("func", "*registryService.Rename").Msg("error rewriting renamed snapshot")
		return err
	}

	return nil
}

// Remove implements [RegistryService]. The last remaining database cannot be
// removed; there is always something to work in.
func (s *registryService) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.databases[name]; !exists {
		return fmt.Errorf("%w: %q", ErrDatabaseNotFound, name)
	}
	if len(s.databases) == 1 {
		return fmt.Errorf("%w: %q", ErrLastDatabase, name)
	}

	delete(s.databases, name)
	if s.active == name {
		names := make([]string, 0, len(s.databases))
		for n := range s.databases {
			names = append(names, n)
		}
		sort.Strings(names)
		s.active = names[0]
	}

	return s.snapshots.Delete(ctx, name)
}

func (s *registryService) CreateTable(ctx context.Context, databaseName string, tableName string, schema []models.Column) (*models.Table, error) {
	if err := s.validator.ValidateSchema(schema); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	database, err := s.lookup(databaseName)
	if err != nil {
		return nil, err
	}
	if _, exists := database.Tables[tableName]; exists {
		return nil, fmt.Errorf("%w: %q", ErrTableExists, tableName)
	}

	table := &models.Table{Name: tableName, Columns: schema}
	database.Tables[tableName] = table

	return table, nil
}

func (s *registryService) Tables(ctx context.Context, databaseName string) ([]*models.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	database, err := s.lookup(databaseName)
	if err != nil {
		return nil, err
	}

	tables := make([]*models.Table, 0, len(database.Tables))
	for _, table := range database.Tables {
		tables = append(tables, table)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })

	return tables, nil
}

func (s *registryService) GetTable(ctx context.Context, databaseName string, tableName string) (*models.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	database, err := s.lookup(databaseName)
	if err != nil {
		return nil, err
	}
	table, exists := database.Tables[tableName]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, tableName)
	}

	return table, nil
}

func (s *registryService) DropTable(ctx context.Context, databaseName string, tableName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	database, err := s.lookup(databaseName)
	if err != nil {
		return err
	}
	if _, exists := database.Tables[tableName]; !exists {
		return fmt.Errorf("%w: %q", ErrTableNotFound, tableName)
	}

	delete(database.Tables, tableName)
	return nil
}

func (s *registryService) InsertRow(ctx context.Context, databaseName string, tableName string, values map[string]any) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	database, err := s.lookup(databaseName)
	if err != nil {
		return nil, err
	}
	table, exists := database.Tables[tableName]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, tableName)
	}

	normalized, err := s.validator.ValidateRow(table.Columns, values)
	if err != nil {
		return nil, err
	}
	table.AppendRow(normalized)

	return table, nil
}

// Union implements [RegistryService]. Both tables must share an identical
// ordered (name, type) schema signature; the result keeps every row of both
// operands, duplicates included.
func (s *registryService) Union(ctx context.Context, databaseName string, left string, right string, name string) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	database, err := s.lookup(databaseName)
	if err != nil {
		return nil, err
	}

	leftTable, exists := database.Tables[left]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, left)
	}
	rightTable, exists := database.Tables[right]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, right)
	}
	if !leftTable.SchemaEquals(rightTable) {
		return nil, fmt.Errorf("%w: %q and %q", ErrSchemaMismatch, left, right)
	}

	if name == "" {
		name = left + "_UNION_" + right
	}
	name = s.dedupTableName(database, name)

	columns := make([]models.Column, len(leftTable.Columns))
	copy(columns, leftTable.Columns)
	result := &models.Table{Name: name, Columns: columns}
	result.Rows = append(result.Rows, leftTable.Rows...)
	result.Rows = append(result.Rows, rightTable.Rows...)

	database.Tables[name] = result

	return result, nil
}

// dedupTableName makes name unique within database by appending a numeric
// suffix, keeping the total length within maxUnionNameLen. Caller holds mu.
func (s *registryService) dedupTableName(database *models.Database, name string) string {
	if len(name) > maxUnionNameLen {
		name = name[:maxUnionNameLen]
	}
	if _, taken := database.Tables[name]; !taken {
		return name
	}

	for i := 2; ; i++ {
		suffix := "_" + strconv.Itoa(i)
		base := name
		if len(base)+len(suffix) > maxUnionNameLen {
			base = base[:maxUnionNameLen-len(suffix)]
		}
		candidate := base + suffix
		if _, taken := database.Tables[candidate]; !taken {
			return candidate
		}
	}
}

// SerializeSnapshot implements [RegistryService].
func (s *registryService) SerializeSnapshot(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	database, err := s.lookup(name)
	if err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(database, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error serializing database %q: %w", name, err)
	}

	return payload, nil
}

// Restore implements [RegistryService]. The snapshot's embedded name is
// ignored in favor of the caller-chosen one, matching the registry-level
// rename a restore under a new name implies.
func (s *registryService) Restore(ctx context.Context, name string, data []byte) (*models.Database, error) {
	if err := validateDatabaseName(name); err != nil {
		return nil, err
	}

	database := new(models.Database)
	if err := json.Unmarshal(data, database); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	database.Name = name
	if database.Tables == nil {
		database.Tables = make(map[string]*models.Table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.snapshots.Save(ctx, database); err != nil {
		return nil, err
	}

	s.databases[name] = database
	s.active = name

	return database, nil
}

// LoadAll implements [RegistryService]. A fresh installation gets one empty
// default database.
func (s *registryService) LoadAll(ctx context.Context) error {
	databases, err := s.snapshots.LoadAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, database := range databases {
		s.databases[database.Name] = database
	}

	if len(s.databases) == 0 {
		database := models.NewDatabase(defaultDatabaseName)
		s.databases[defaultDatabaseName] = database
		if err = s.snapshots.Save(ctx, database); err != nil {
			return err
		}
	}

	if _, ok := s.databases[s.active]; !ok || s.active == "" {
		names := make([]string, 0, len(s.databases))
		for n := range s.databases {
			names = append(names, n)
		}
		sort.Strings(names)
		s.active = names[0]
	}

	return nil
}

// SaveAll implements [RegistryService]. Runs on graceful shutdown, before
// the credential purge.
func (s *registryService) SaveAll(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, database := range s.databases {
		if err := s.snapshots.Save(ctx, database); err != nil {
			log.Err(err).Str("database", database.Name).Msg("error saving snapshot on shutdown")
			return err
		}
	}

	return nil
}

// lookup returns the database for name. Caller holds mu.
func (s *registryService) lookup(name string) (*models.Database, error) {
	database, exists := s.databases[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrDatabaseNotFound, name)
	}
	return database, nil
}
