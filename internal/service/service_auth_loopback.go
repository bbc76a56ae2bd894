// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-table-keeper/internal/adapter"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/store"
	"github.com/MKhiriev/go-table-keeper/internal/utils"
	"github.com/MKhiriev/go-table-keeper/models"
)

// verifierLen is the number of random source bytes in a PKCE code verifier.
const verifierLen = 32

type loopbackAuthService struct {
	logger      *logger.Logger
	pending     store.PendingAuthRepository
	oauth       adapter.OAuthClient
	credentials CredentialService
	uuid        *utils.UUIDGenerator
	authWindow  time.Duration
	now         func() time.Time
}

// NewLoopbackAuthService constructs a [LoopbackAuthService]. authWindow is
// how long a started attempt stays pollable before it is reaped.
func NewLoopbackAuthService(
	pending store.PendingAuthRepository,
	oauth adapter.OAuthClient,
	credentials CredentialService,
	authWindow time.Duration,
	logger *logger.Logger,
) LoopbackAuthService {
	logger.Debug().Msg("creating loopback auth service")
	return &loopbackAuthService{
		logger:      logger,
		pending:     pending,
		oauth:       oauth,
		credentials: credentials,
		uuid:        utils.NewUUIDGenerator(),
		authWindow:  authWindow,
		now:         time.Now,
	}
}

// Start implements [LoopbackAuthService]. The verifier is returned to the
// originating client and never persisted; only the client that started the
// attempt can complete the exchange.
func (s *loopbackAuthService) Start(ctx context.Context) (models.StartLoopbackResponse, error) {
	state := s.uuid.Generate()
	verifier, err := utils.GenerateRandomToken(verifierLen)
	if err != nil {
		return models.StartLoopbackResponse{}, err
	}

	if err = s.pending.Create(ctx, state); err != nil {
		return models.StartLoopbackResponse{}, err
	}

	logger.FromContext(ctx).Info().Str("state", state).Msg("loopback authorization started")

	return models.StartLoopbackResponse{
		AuthorizationURL: s.oauth.AuthorizationURL(state, utils.CodeChallengeS256(verifier)),
		State:            state,
		Verifier:         verifier,
	}, nil
}

// HandleCallback implements [LoopbackAuthService]. Unknown states and
// replayed deliveries are rejected without mutating anything.
func (s *loopbackAuthService) HandleCallback(ctx context.Context, state string, code string) error {
	if state == "" || code == "" {
		return ErrInvalidCallbackState
	}

	if err := s.pending.AttachCode(ctx, state, code); err != nil {
		if errors.Is(err, store.ErrPendingAuthNotFound) {
			return ErrInvalidCallbackState
		}
		return err
	}

	logger.FromContext(ctx).Info().Str("state", state).Msg("authorization code received")
	return nil
}

// Poll implements [LoopbackAuthService]. Attempts older than the auth window
// are reaped on sight; a delivered code is handed out exactly once.
func (s *loopbackAuthService) Poll(ctx context.Context, state string) (models.PollLoopbackResponse, error) {
	pending, err := s.pending.Get(ctx, state)
	if err != nil {
		if errors.Is(err, store.ErrPendingAuthNotFound) {
			return models.PollLoopbackResponse{Status: models.LoopbackExpired}, nil
		}
		return models.PollLoopbackResponse{}, err
	}

	if pending.Code == "" {
		if s.now().UTC().Sub(pending.CreatedAt) > s.authWindow {
			if err = s.pending.Delete(ctx, state); err != nil {
				return models.PollLoopbackResponse{}, err
			}
			return models.PollLoopbackResponse{Status: models.LoopbackExpired}, nil
		}
		return models.PollLoopbackResponse{Status: models.LoopbackPending}, nil
	}

	taken, err := s.pending.Take(ctx, state)
	if err != nil {
		if errors.Is(err, store.ErrPendingAuthNotFound) {
			// consumed by a concurrent poll
			return models.PollLoopbackResponse{Status: models.LoopbackExpired}, nil
		}
		return models.PollLoopbackResponse{}, err
	}

	return models.PollLoopbackResponse{Status: models.LoopbackReady, Code: taken.Code}, nil
}

// Complete implements [LoopbackAuthService].
func (s *loopbackAuthService) Complete(ctx context.Context, code string, verifier string) (models.Credential, error) {
	token, err := s.oauth.ExchangeCode(ctx, code, verifier)
	if err != nil {
		return models.Credential{}, fmt.Errorf("error exchanging authorization code: %w", err)
	}

	return s.credentials.Save(ctx, token)
}
