// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "github.com/MKhiriev/go-table-keeper/models"

// TokenVault persists the provider credential between client restarts in an
// encrypted file. The vault exists so the long-lived refresh token never
// touches disk in the clear; the shared server side never uses it.
type TokenVault interface {
	// Save encrypts credential and writes it to path, replacing any
	// previous content.
	Save(path string, credential models.Credential) error

	// Load reads and decrypts the credential stored at path.
	// Returns [ErrNoStoredCredential] when the file does not exist and
	// [ErrVaultCorrupted] when the passphrase is wrong or the blob is
	// damaged.
	Load(path string) (models.Credential, error)
}
