// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Credential is the single remote-storage identity the application holds at
// any time. The access token lives in the shared coordination store and is
// purged on orderly shutdown; the refresh token, when present, is held only
// client-side (encrypted on disk) and never reaches the server.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry"`
	// Account is a display label for the authenticated identity, extracted
	// from the provider's id_token when one was issued. Informational only.
	Account string `json:"account,omitempty"`
}

// Expired reports whether the access token is past its expiry.
// A zero Expiry means the provider reported no lifetime; such a token is
// treated as usable until explicitly replaced or purged.
func (c Credential) Expired(now time.Time) bool {
	return !c.Expiry.IsZero() && now.After(c.Expiry)
}

// TokenResponse is the identity provider's token endpoint payload, shared by
// the device-authorization, code-exchange and refresh grants.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	IDToken      string `json:"id_token,omitempty"`

	// Error fields populated instead of the token on a non-success response.
	ErrorCode        string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// DeviceAuthorization is the provider's response to a device-authorization
// request: the user-facing code and URL plus polling instructions.
type DeviceAuthorization struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	ExpiresIn       int64  `json:"expires_in"`
	Interval        int64  `json:"interval"`
}

// Device flow poll outcomes.
const (
	DeviceFlowPending = "pending"
	DeviceFlowGranted = "granted"
	DeviceFlowDenied  = "denied"
	DeviceFlowExpired = "expired"
)

// Loopback flow poll outcomes.
const (
	LoopbackPending = "pending"
	LoopbackReady   = "ready"
	LoopbackExpired = "expired"
)

// PendingAuthorization is the persisted state of one in-flight loopback
// redirect attempt, keyed by the random state nonce. The record is mutated
// exactly once (the callback storing the authorization code) and deleted when
// the originating client collects the code; a state value is single-use.
type PendingAuthorization struct {
	State     string
	Code      string // empty until the provider callback arrives
	CreatedAt time.Time
}
