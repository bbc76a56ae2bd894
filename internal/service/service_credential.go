// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/store"
	"github.com/MKhiriev/go-table-keeper/internal/utils"
	"github.com/MKhiriev/go-table-keeper/models"
)

// Coordination keys of the single global credential. These two keys, and
// only these two, are purged on graceful shutdown.
const (
	accessTokenKey       = "auth:access_token"
	accessTokenExpiryKey = "auth:access_token_expiry"
)

// expirySafetyMargin is subtracted from the provider-reported token lifetime
// so a token is never used in its final moments.
const expirySafetyMargin = 30 * time.Second

type credentialService struct {
	logger       *logger.Logger
	coordination store.CoordinationRepository
	now          func() time.Time

	// account and refreshToken are held in memory only: the refresh token
	// must never reach the shared coordination store, and keeping the
	// account label here keeps the shutdown purge down to the two access
	// token keys.
	mu           sync.RWMutex
	account      string
	refreshToken string
}

// NewCredentialService constructs a [CredentialService] persisting the
// access token in the shared coordination store.
func NewCredentialService(coordination store.CoordinationRepository, logger *logger.Logger) CredentialService {
	logger.Debug().Msg("creating credential service")
	return &credentialService{
		logger:       logger,
		coordination: coordination,
		now:          time.Now,
	}
}

// Save implements [CredentialService]. A provider lifetime of zero is stored
// as a zero expiry, meaning the token has no known lifetime.
func (s *credentialService) Save(ctx context.Context, token models.TokenResponse) (models.Credential, error) {
	log := logger.FromContext(ctx)

	credential := models.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if token.ExpiresIn > 0 {
		credential.Expiry = s.now().UTC().Add(time.Duration(token.ExpiresIn)*time.Second - expirySafetyMargin)
	}

	if token.IDToken != "" {
		account, err := utils.ParseIDTokenAccount(token.IDToken)
		if err != nil {
			log.Warn().Err(err).Msg("could not extract account label from id_token")
		} else {
			credential.Account = account
		}
	}

	if err := s.coordination.Set(ctx, accessTokenKey, credential.AccessToken); err != nil {
		return models.Credential{}, err
	}

	expiry := ""
	if !credential.Expiry.IsZero() {
		expiry = credential.Expiry.Format(time.RFC3339)
	}
	if err := s.coordination.Set(ctx, accessTokenExpiryKey, expiry); err != nil {
		return models.Credential{}, err
	}

	s.mu.Lock()
	s.account = credential.Account
	if credential.RefreshToken != "" {
		s.refreshToken = credential.RefreshToken
	}
	s.mu.Unlock()

	log.Info().Str("account", credential.Account).Msg("credential saved")
	return credential, nil
}

// Get implements [CredentialService].
func (s *credentialService) Get(ctx context.Context) (models.Credential, error) {
	accessToken, err := s.coordination.Get(ctx, accessTokenKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return models.Credential{}, ErrAuthenticationRequired
		}
		return models.Credential{}, err
	}
	if accessToken == "" {
		return models.Credential{}, ErrAuthenticationRequired
	}

	credential := models.Credential{AccessToken: accessToken}

	rawExpiry, err := s.coordination.Get(ctx, accessTokenExpiryKey)
	if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return models.Credential{}, err
	}
	if rawExpiry != "" {
		expiry, parseErr := time.Parse(time.RFC3339, rawExpiry)
		if parseErr != nil {
			return models.Credential{}, fmt.Errorf("malformed stored expiry: %w", parseErr)
		}
		credential.Expiry = expiry
	}

	if credential.Expired(s.now().UTC()) {
		return models.Credential{}, ErrAuthenticationRequired
	}

	s.mu.RLock()
	credential.Account = s.account
	credential.RefreshToken = s.refreshToken
	s.mu.RUnlock()

	return credential, nil
}

// PurgeAccessToken implements [CredentialService]. Sync enrollment keys and
// snapshot files are deliberately untouched: enrollment and data survive a
// restart, the credential does not.
func (s *credentialService) PurgeAccessToken(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if err := s.coordination.Delete(ctx, accessTokenKey, accessTokenExpiryKey); err != nil {
		return err
	}

	s.mu.Lock()
	s.account = ""
	s.refreshToken = ""
	s.mu.Unlock()

	log.Info().Msg("access token purged")
	return nil
}

// RefreshToken implements [CredentialService].
func (s *credentialService) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Status implements [CredentialService].
func (s *credentialService) Status(ctx context.Context) models.AuthStatusResponse {
	credential, err := s.Get(ctx)
	if err != nil {
		return models.AuthStatusResponse{Authenticated: false}
	}

	return models.AuthStatusResponse{
		Authenticated: true,
		Account:       credential.Account,
	}
}
