// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/MKhiriev/go-table-keeper/internal/config"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/utils"
	"github.com/MKhiriev/go-table-keeper/models"
)

const deviceGrantType = "urn:ietf:params:oauth:grant-type:device_code"

type oauthClient struct {
	client *utils.HTTPClient
	cfg    config.Provider
	logger *logger.Logger
}

// NewOAuthClient constructs an HTTP implementation of [OAuthClient] bound to
// the endpoints and client registration in cfg. All token endpoint calls are
// form-encoded per RFC 6749 and bounded by cfg.RequestTimeout.
func NewOAuthClient(cfg config.Provider, logger *logger.Logger) OAuthClient {
	client := utils.NewHTTPClient()
	client.SetTimeout(cfg.RequestTimeout)

	return &oauthClient{client: client, cfg: cfg, logger: logger}
}

// StartDeviceAuthorization implements [OAuthClient]. It POSTs the client
// registration and scope to the device-authorization endpoint and returns
// the user code, verification URL and polling instructions.
func (o *oauthClient) StartDeviceAuthorization(ctx context.Context) (models.DeviceAuthorization, error) {
	resp, err := o.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id": o.cfg.ClientID,
			"scope":     o.cfg.Scope,
		}).
		Post(o.cfg.DeviceAuthURL)
	if err != nil {
		return models.DeviceAuthorization{}, fmt.Errorf("device authorization request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DeviceAuthorization{}, err
	}

	var authorization models.DeviceAuthorization
	if err = json.Unmarshal(resp.Body(), &authorization); err != nil {
		return models.DeviceAuthorization{}, fmt.Errorf("device authorization decode: %w", err)
	}

	return authorization, nil
}

// PollDeviceToken implements [OAuthClient]. A provider "error" field takes
// precedence over the HTTP status: pending and slow_down responses arrive
// with non-2xx statuses but are part of the normal polling protocol.
func (o *oauthClient) PollDeviceToken(ctx context.Context, deviceCode string) (models.TokenResponse, error) {
	return o.token(ctx, map[string]string{
		"client_id":     o.cfg.ClientID,
		"client_secret": o.cfg.ClientSecret,
		"device_code":   deviceCode,
		"grant_type":    deviceGrantType,
	})
}

// AuthorizationURL implements [OAuthClient]. The offline access type and
// consent prompt ask the provider for a refresh token alongside the access
// token.
func (o *oauthClient) AuthorizationURL(state string, codeChallenge string) string {
	query := url.Values{}
	query.Set("client_id", o.cfg.ClientID)
	query.Set("redirect_uri", o.cfg.RedirectURL)
	query.Set("response_type", "code")
	query.Set("scope", o.cfg.Scope)
	query.Set("state", state)
	query.Set("code_challenge", codeChallenge)
	query.Set("code_challenge_method", "S256")
	query.Set("access_type", "offline")
	query.Set("prompt", "consent")

	return o.cfg.AuthURL + "?" + query.Encode()
}

// ExchangeCode implements [OAuthClient].
func (o *oauthClient) ExchangeCode(ctx context.Context, code string, verifier string) (models.TokenResponse, error) {
	return o.token(ctx, map[string]string{
		"client_id":     o.cfg.ClientID,
		"client_secret": o.cfg.ClientSecret,
		"code":          code,
		"code_verifier": verifier,
		"redirect_uri":  o.cfg.RedirectURL,
		"grant_type":    "authorization_code",
	})
}

// Refresh implements [OAuthClient].
func (o *oauthClient) Refresh(ctx context.Context, refreshToken string) (models.TokenResponse, error) {
	return o.token(ctx, map[string]string{
		"client_id":     o.cfg.ClientID,
		"client_secret": o.cfg.ClientSecret,
		"refresh_token": refreshToken,
		"grant_type":    "refresh_token",
	})
}

func (o *oauthClient) token(ctx context.Context, form map[string]string) (models.TokenResponse, error) {
	resp, err := o.client.R().
		SetContext(ctx).
		SetFormData(form).
		Post(o.cfg.TokenURL)
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("token request: %w", err)
	}

	var token models.TokenResponse
	if err = json.Unmarshal(resp.Body(), &token); err != nil {
		if err = mapHTTPError(resp); err != nil {
			return models.TokenResponse{}, err
		}
		return models.TokenResponse{}, fmt.Errorf("token response decode failed")
	}

	if token.ErrorCode != "" {
		return models.TokenResponse{}, mapGrantError(token.ErrorCode, token.ErrorDescription)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenResponse{}, err
	}

	return token, nil
}
