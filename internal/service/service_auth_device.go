// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-table-keeper/internal/adapter"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/models"
)

type deviceAuthService struct {
	logger      *logger.Logger
	oauth       adapter.OAuthClient
	credentials CredentialService
}

// NewDeviceAuthService constructs a [DeviceAuthService].
func NewDeviceAuthService(oauth adapter.OAuthClient, credentials CredentialService, logger *logger.Logger) DeviceAuthService {
	logger.Debug().Msg("creating device auth service")
	return &deviceAuthService{
		logger:      logger,
		oauth:       oauth,
		credentials: credentials,
	}
}

// Start implements [DeviceAuthService].
func (s *deviceAuthService) Start(ctx context.Context) (models.DeviceAuthorization, error) {
	authorization, err := s.oauth.StartDeviceAuthorization(ctx)
	if err != nil {
		return models.DeviceAuthorization{}, fmt.Errorf("error starting device authorization: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("user_code", authorization.UserCode).
		Msg("device authorization started")

	return authorization, nil
}

// Poll implements [DeviceAuthService]. One provider poll per call; the
// caller owns the polling cadence the provider prescribed at Start.
func (s *deviceAuthService) Poll(ctx context.Context, deviceCode string) (string, error) {
	token, err := s.oauth.PollDeviceToken(ctx, deviceCode)
	switch {
	case err == nil:
		if _, saveErr := s.credentials.Save(ctx, token); saveErr != nil {
			return "", saveErr
		}
		return models.DeviceFlowGranted, nil

	case errors.Is(err, adapter.ErrAuthorizationPending), errors.Is(err, adapter.ErrSlowDown):
		return models.DeviceFlowPending, nil

	case errors.Is(err, adapter.ErrAccessDenied):
		return models.DeviceFlowDenied, ErrAuthorizationDenied

	case errors.Is(err, adapter.ErrTokenExpired):
		return models.DeviceFlowExpired, ErrAuthorizationExpired

	default:
		return "", fmt.Errorf("error polling device authorization: %w", err)
	}
}
