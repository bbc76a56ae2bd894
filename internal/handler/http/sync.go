// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/utils"
	"github.com/MKhiriev/go-table-keeper/models"
)

func (h *Handler) startSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	if err := h.services.Sync.Enroll(ctx, name); err != nil {
		log.Err(err).Str("func", "*Handler.startSync").Msg("error enrolling database for sync")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.StatusResponse{Status: "enrolled"}, http.StatusOK)
}

func (h *Handler) stopSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	if err := h.services.Sync.Unenroll(ctx, name); err != nil {
		log.Err(err).Str("func", "*Handler.stopSync").Msg("error unenrolling database from sync")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.StatusResponse{Status: "unenrolled"}, http.StatusOK)
}

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	name := chi.URLParam(r, "name")

	status, err := h.services.Sync.Status(ctx, name)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncStatus").Msg("error reading sync status")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, status, http.StatusOK)
}
