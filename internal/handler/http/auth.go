// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-table-keeper/internal/app"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/service"
	"github.com/MKhiriev/go-table-keeper/internal/utils"
	"github.com/MKhiriev/go-table-keeper/models"
)

func (h *Handler) authStatus(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.Credentials.Status(r.Context()), http.StatusOK)
}

func (h *Handler) startDeviceAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	authorization, err := h.services.DeviceAuth.Start(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.startDeviceAuth").Msg("error starting device authorization")
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, authorization, http.StatusOK)
}

func (h *Handler) pollDeviceAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.PollDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.pollDeviceAuth").Msg(app.MsgInvalidDataProvided)
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	if request.DeviceCode == "" {
		http.Error(w, app.MsgDeviceCodeRequired, http.StatusBadRequest)
		return
	}

	status, err := h.services.DeviceAuth.Poll(ctx, request.DeviceCode)
	if err != nil && !errors.Is(err, service.ErrAuthorizationDenied) && !errors.Is(err, service.ErrAuthorizationExpired) {
		log.Err(err).Str("func", "*Handler.pollDeviceAuth").Msg("error polling device authorization")
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	// denied and expired are flow outcomes, not transport failures: the
	// client reads them from the status field of a 200 response
	utils.WriteJSON(w, models.PollDeviceResponse{Status: status}, http.StatusOK)
}

func (h *Handler) startLoopbackAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	started, err := h.services.LoopbackAuth.Start(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.startLoopbackAuth").Msg("error starting loopback authorization")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, started, http.StatusOK)
}

func (h *Handler) pollLoopbackAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	state := chi.URLParam(r, "state")

	response, err := h.services.LoopbackAuth.Poll(ctx, state)
	if err != nil {
		log.Err(err).Str("func", "*Handler.pollLoopbackAuth").Msg("error polling loopback authorization")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

// completeLoopbackAuth exchanges a code picked up from a ready poll for the
// provider's tokens and saves the resulting credential.
func (h *Handler) completeLoopbackAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.CompleteLoopbackRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.completeLoopbackAuth").Msg(app.MsgInvalidDataProvided)
		http.Error(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	if request.Code == "" || request.Verifier == "" {
		http.Error(w, app.MsgCodeAndVerifierRequired, http.StatusBadRequest)
		return
	}

	credential, err := h.services.LoopbackAuth.Complete(ctx, request.Code, request.Verifier)
	if err != nil {
		log.Err(err).Str("func", "*Handler.completeLoopbackAuth").Msg("error exchanging authorization code")
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, models.AuthStatusResponse{
		Authenticated: true,
		Account:       credential.Account,
	}, http.StatusOK)
}

// oauthCallback receives the provider's browser redirect. The response is a
// plain page for the human in the browser; the actual code pickup happens
// over the poll endpoint.
func (h *Handler) oauthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	query := r.URL.Query()
	if providerError := query.Get("error"); providerError != "" {
		log.Warn().Str("error", providerError).Msg("authorization callback reported an error")
		http.Error(w, app.MsgAuthorizationFailed+": "+providerError, http.StatusBadRequest)
		return
	}

	err := h.services.LoopbackAuth.HandleCallback(ctx, query.Get("state"), query.Get("code"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.oauthCallback").Msg("error handling authorization callback")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("<!DOCTYPE html><html><head><title>Authorization Complete</title></head>" +
		"<body><h1>Authorization Complete</h1><p>You can close this window and return to the application.</p></body></html>"))
}
