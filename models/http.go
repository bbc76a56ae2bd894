// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Request and response bodies of the HTTP API.

type CreateDatabaseRequest struct {
	Name string `json:"name"`
}

type DatabaseListResponse struct {
	Active    string   `json:"active"`
	Databases []string `json:"databases"`
}

type CreateTableRequest struct {
	Name   string   `json:"name"`
	Schema []Column `json:"schema"`
}

type InsertRowRequest struct {
	Values map[string]any `json:"values"`
}

type UnionRequest struct {
	Left  string `json:"left"`
	Right string `json:"right"`
	Name  string `json:"name,omitempty"`
}

type TableListResponse struct {
	Tables []*Table `json:"tables"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type AuthStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	Account       string `json:"account,omitempty"`
}

type StartLoopbackResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
	// Verifier is the PKCE code verifier for the started attempt. The
	// loopback flow runs entirely on the user's machine, so handing the
	// verifier to the originating client is what lets it exchange the code
	// directly with the provider.
	Verifier string `json:"verifier"`
}

type PollLoopbackResponse struct {
	Status string `json:"status"` // pending | ready | expired
	Code   string `json:"code,omitempty"`
}

// CompleteLoopbackRequest carries the code picked up from a ready poll plus
// the verifier that [StartLoopbackResponse] handed to the same client.
type CompleteLoopbackRequest struct {
	Code     string `json:"code"`
	Verifier string `json:"verifier"`
}

type LoadFromDriveRequest struct {
	ObjectID string `json:"file_id"`
}

type DriveFilesResponse struct {
	Files []RemoteObject `json:"files"`
}

type PollDeviceRequest struct {
	DeviceCode string `json:"device_code"`
}

type PollDeviceResponse struct {
	Status string `json:"status"` // pending | granted | denied | expired
}
