package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-table-keeper/models"
)

func createDatabase(t *testing.T, env *testEnv, name string) {
	t.Helper()

	recorder := env.do(t, http.MethodPost, "/api/databases", models.CreateDatabaseRequest{Name: name})
	require.Equal(t, http.StatusCreated, recorder.Code)
}

func createPeopleTable(t *testing.T, env *testEnv, database string, table string) {
	t.Helper()

	recorder := env.do(t, http.MethodPost, "/api/databases/"+database+"/tables", models.CreateTableRequest{
		Name: table,
		Schema: []models.Column{
			{Name: "id", Type: models.TypeInteger},
			{Name: "name", Type: models.TypeString},
		},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
}

func TestCreateAndListDatabases(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "crm")
	createDatabase(t, env, "billing")

	recorder := env.do(t, http.MethodGet, "/api/databases", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	list := decodeBody[models.DatabaseListResponse](t, recorder)
	assert.Equal(t, "crm", list.Active)
	assert.Equal(t, []string{"billing", "crm"}, list.Databases)
}

func TestCreateDatabaseConflict(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "crm")
	recorder := env.do(t, http.MethodPost, "/api/databases", models.CreateDatabaseRequest{Name: "crm"})
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestCreateDatabaseRejectsBadBody(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/databases", models.CreateDatabaseRequest{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreateDatabaseRejectsPathName(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/databases", models.CreateDatabaseRequest{Name: "../evil"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = env.do(t, http.MethodGet, "/api/databases", nil)
	list := decodeBody[models.DatabaseListResponse](t, recorder)
	assert.NotContains(t, list.Databases, "../evil")
}

func TestSwitchDatabase(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "crm")

	// switching to a missing database creates it
	recorder := env.do(t, http.MethodPost, "/api/databases/scratch/switch", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(t, http.MethodGet, "/api/databases", nil)
	list := decodeBody[models.DatabaseListResponse](t, recorder)
	assert.Equal(t, "scratch", list.Active)
}

func TestRenameDatabase(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "old")

	recorder := env.do(t, http.MethodPost, "/api/databases/old/rename/new", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(t, http.MethodGet, "/api/databases", nil)
	list := decodeBody[models.DatabaseListResponse](t, recorder)
	assert.Equal(t, []string{"new"}, list.Databases)
}

func TestRenameDatabaseConflict(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "a")
	createDatabase(t, env, "b")

	recorder := env.do(t, http.MethodPost, "/api/databases/a/rename/b", nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestDeleteDatabase(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "keep")
	createDatabase(t, env, "drop")

	recorder := env.do(t, http.MethodDelete, "/api/databases/drop", nil)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = env.do(t, http.MethodDelete, "/api/databases/drop", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDeleteLastDatabaseRefused(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "only")

	recorder := env.do(t, http.MethodDelete, "/api/databases/only", nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestTableLifecycle(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "crm")
	createPeopleTable(t, env, "crm", "people")

	recorder := env.do(t, http.MethodGet, "/api/databases/crm/tables", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	list := decodeBody[models.TableListResponse](t, recorder)
	require.Len(t, list.Tables, 1)
	assert.Equal(t, "people", list.Tables[0].Name)

	recorder = env.do(t, http.MethodGet, "/api/databases/crm/tables/people", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(t, http.MethodDelete, "/api/databases/crm/tables/people", nil)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = env.do(t, http.MethodGet, "/api/databases/crm/tables/people", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCreateTableRejectsUnsupportedType(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "crm")

	recorder := env.do(t, http.MethodPost, "/api/databases/crm/tables", models.CreateTableRequest{
		Name:   "broken",
		Schema: []models.Column{{Name: "id", Type: "uuid"}},
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestInsertRow(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "crm")
	createPeopleTable(t, env, "crm", "people")

	recorder := env.do(t, http.MethodPost, "/api/databases/crm/tables/people/rows", models.InsertRowRequest{
		Values: map[string]any{"id": 1, "name": "Ada"},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	table := decodeBody[models.Table](t, recorder)
	assert.Len(t, table.Rows, 1)
}

func TestInsertRowRejectsBadValue(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "crm")
	createPeopleTable(t, env, "crm", "people")

	recorder := env.do(t, http.MethodPost, "/api/databases/crm/tables/people/rows", models.InsertRowRequest{
		Values: map[string]any{"id": "seven", "name": "Ada"},
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUnionTables(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "crm")
	createPeopleTable(t, env, "crm", "left")
	createPeopleTable(t, env, "crm", "right")

	recorder := env.do(t, http.MethodPost, "/api/databases/crm/tables/left/rows", models.InsertRowRequest{
		Values: map[string]any{"id": 1, "name": "Ada"},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = env.do(t, http.MethodPost, "/api/databases/crm/union", models.UnionRequest{
		Left:  "left",
		Right: "right",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	union := decodeBody[models.Table](t, recorder)
	assert.Equal(t, "left_UNION_right", union.Name)
	assert.Len(t, union.Rows, 1)
}

func TestUnionSchemaMismatch(t *testing.T) {
	env := newTestEnv(t)

	createDatabase(t, env, "crm")
	createPeopleTable(t, env, "crm", "people")

	recorder := env.do(t, http.MethodPost, "/api/databases/crm/tables", models.CreateTableRequest{
		Name:   "prices",
		Schema: []models.Column{{Name: "amount", Type: models.TypeReal}},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = env.do(t, http.MethodPost, "/api/databases/crm/union", models.UnionRequest{
		Left:  "people",
		Right: "prices",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
