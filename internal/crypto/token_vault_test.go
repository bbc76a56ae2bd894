// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-table-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenVault_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.enc")
	vault := NewTokenVault("correct horse battery staple")

	credential := models.Credential{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		Expiry:       time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
		Account:      "ada@example.com",
	}
	require.NoError(t, vault.Save(path, credential))

	loaded, err := vault.Load(path)
	require.NoError(t, err)
	assert.Equal(t, credential.RefreshToken, loaded.RefreshToken)
	assert.Equal(t, credential.Account, loaded.Account)
	assert.True(t, credential.Expiry.Equal(loaded.Expiry))
}

func TestTokenVault_FileIsNotPlaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.enc")
	vault := NewTokenVault("passphrase")

	require.NoError(t, vault.Save(path, models.Credential{RefreshToken: "rt-secret"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "rt-secret")
}

func TestTokenVault_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.enc")
	require.NoError(t, NewTokenVault("right").Save(path, models.Credential{RefreshToken: "rt-1"}))

	_, err := NewTokenVault("wrong").Load(path)
	assert.True(t, errors.Is(err, ErrVaultCorrupted))
}

func TestTokenVault_MissingFile(t *testing.T) {
	vault := NewTokenVault("passphrase")

	_, err := vault.Load(filepath.Join(t.TempDir(), "absent.enc"))
	assert.True(t, errors.Is(err, ErrNoStoredCredential))
}

func TestTokenVault_TruncatedBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.enc")
	require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))

	_, err := NewTokenVault("passphrase").Load(path)
	assert.True(t, errors.Is(err, ErrVaultCorrupted))
}
