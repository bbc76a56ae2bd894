// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-table-keeper/internal/app"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/utils"
	"github.com/MKhiriev/go-table-keeper/models"
)

func (h *Handler) listDatabases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := models.DatabaseListResponse{
		Active:    h.services.Registry.Active(ctx),
		Databases: h.services.Registry.Names(ctx),
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) createDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.CreateDatabaseRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.createDatabase").Msg(app.MsgInvalidDataProvided)
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	if request.Name == "" {
		http.Error(w, app.MsgDatabaseNameRequired, http.StatusBadRequest)
		return
	}

	database, err := h.services.Registry.Create(ctx, request.Name)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createDatabase").Msg("error creating database")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, database, http.StatusCreated)
}

// deleteDatabase goes through the sync coordinator: an enrolled database
// must shed its sync state under the lease before the registry lets go.
func (h *Handler) deleteDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	if err := h.services.Sync.DeleteDatabase(ctx, name); err != nil {
		log.Err(err).Str("func", "*Handler.deleteDatabase").Msg("error deleting database")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) switchDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	database, err := h.services.Registry.Switch(ctx, name)
	if err != nil {
		log.Err(err).Str("func", "*Handler.switchDatabase").Msg("error switching database")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, database, http.StatusOK)
}

func (h *Handler) renameDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	oldName := chi.URLParam(r, "name")
	newName := chi.URLParam(r, "newName")

	if err := h.services.Sync.RenameDatabase(ctx, oldName, newName); err != nil {
		log.Err(err).Str("func", "*Handler.renameDatabase").Msg("error renaming database")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.StatusResponse{Status: "renamed"}, http.StatusOK)
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	tables, err := h.services.Registry.Tables(ctx, name)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listTables").Msg("error listing tables")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.TableListResponse{Tables: tables}, http.StatusOK)
}

func (h *Handler) createTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	var request models.CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.createTable").Msg(app.MsgInvalidDataProvided)
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	if request.Name == "" {
		http.Error(w, app.MsgTableNameRequired, http.StatusBadRequest)
		return
	}

	table, err := h.services.Registry.CreateTable(ctx, name, request.Name, request.Schema)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createTable").Msg("error creating table")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, table, http.StatusCreated)
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	table, err := h.services.Registry.GetTable(ctx, chi.URLParam(r, "name"), chi.URLParam(r, "table"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.getTable").Msg("error getting table")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, table, http.StatusOK)
}

func (h *Handler) dropTable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if err := h.services.Registry.DropTable(ctx, chi.URLParam(r, "name"), chi.URLParam(r, "table")); err != nil {
		log.Err(err).Str("func", "*Handler.dropTable").Msg("error dropping table")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) insertRow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.InsertRowRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.insertRow").Msg(app.MsgInvalidDataProvided)
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	table, err := h.services.Registry.InsertRow(ctx, chi.URLParam(r, "name"), chi.URLParam(r, "table"), request.Values)
	if err != nil {
		log.Err(err).Str("func", "*Handler.insertRow").Msg("error inserting row")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, table, http.StatusCreated)
}

func (h *Handler) unionTables(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	var request models.UnionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.unionTables").Msg(app.MsgInvalidDataProvided)
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	if request.Left == "" || request.Right == "" {
		http.Error(w, app.MsgUnionOperandsRequired, http.StatusBadRequest)
		return
	}

	table, err := h.services.Registry.Union(ctx, name, request.Left, request.Right, request.Name)
	if err != nil {
		log.Err(err).Str("func", "*Handler.unionTables").Msg("error computing union")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, table, http.StatusCreated)
}
