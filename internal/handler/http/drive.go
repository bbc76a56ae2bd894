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

// saveToDrive uploads the named database's snapshot immediately, without
// waiting for the background sync schedule.
func (h *Handler) saveToDrive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	object, err := h.services.Sync.SaveRemote(ctx, name)
	if err != nil {
		log.Err(err).Str("func", "*Handler.saveToDrive").Msg("error saving database to remote storage")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, object, http.StatusOK)
}

// loadFromDrive downloads a stored object and installs it as the named
// database, making it the active one.
func (h *Handler) loadFromDrive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	var request models.LoadFromDriveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.loadFromDrive").Msg(app.MsgInvalidDataProvided)
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	if request.ObjectID == "" {
		http.Error(w, app.MsgFileIDRequired, http.StatusBadRequest)
		return
	}

	if err := h.services.Sync.LoadRemote(ctx, name, request.ObjectID); err != nil {
		log.Err(err).Str("func", "*Handler.loadFromDrive").Msg("error loading database from remote storage")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.StatusResponse{Status: "loaded"}, http.StatusOK)
}

func (h *Handler) listDriveFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	files, err := h.services.Sync.RemoteFiles(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listDriveFiles").Msg("error listing remote files")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.DriveFilesResponse{Files: files}, http.StatusOK)
}
