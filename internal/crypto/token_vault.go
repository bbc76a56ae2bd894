// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MKhiriev/go-table-keeper/models"
	"golang.org/x/crypto/argon2"
)

var (
	// ErrNoStoredCredential is returned by Load when no vault file exists.
	ErrNoStoredCredential = errors.New("no stored credential")

	// ErrVaultCorrupted is returned when the vault file cannot be decrypted,
	// either because the passphrase is wrong or the blob was damaged.
	ErrVaultCorrupted = errors.New("credential vault corrupted or wrong passphrase")
)

const saltSize = 16

// tokenVault is the private implementation of [TokenVault]. The file layout
// is salt ‖ nonce ‖ AES-256-GCM ciphertext of the JSON-encoded credential.
type tokenVault struct {
	passphrase string

	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewTokenVault constructs a [TokenVault] keyed by passphrase, with the
// Argon2id parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewTokenVault(passphrase string) TokenVault {
	return &tokenVault{
		passphrase:   passphrase,
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// Save implements [TokenVault]. A fresh salt and nonce are drawn for every
// write, so saving the same credential twice produces different files.
func (v *tokenVault) Save(path string, credential models.Credential) error {
	plaintext, err := json.Marshal(credential)
	if err != nil {
		return fmt.Errorf("error serializing credential: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err = io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("error generating salt: %w", err)
	}

	gcm, err := v.cipher(salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("error generating nonce: %w", err)
	}

	blob := append(salt, nonce...)
	blob = gcm.Seal(blob, nonce, plaintext, nil)

	if err = os.WriteFile(path, blob, 0o600); err != nil {
		return fmt.Errorf("error writing vault file: %w", err)
	}

	return nil
}

// Load implements [TokenVault].
func (v *tokenVault) Load(path string) (models.Credential, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Credential{}, ErrNoStoredCredential
		}
		return models.Credential{}, fmt.Errorf("error reading vault file: %w", err)
	}

	if len(blob) < saltSize {
		return models.Credential{}, ErrVaultCorrupted
	}
	salt, rest := blob[:saltSize], blob[saltSize:]

	gcm, err := v.cipher(salt)
	if err != nil {
		return models.Credential{}, err
	}

	nonceSize := gcm.NonceSize()
	if len(rest) < nonceSize {
		return models.Credential{}, ErrVaultCorrupted
	}

	// Split the blob into nonce and actual ciphertext.
	nonce, ciphertext := rest[:nonceSize], rest[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return models.Credential{}, ErrVaultCorrupted
	}

	var credential models.Credential
	if err = json.Unmarshal(plaintext, &credential); err != nil {
		return models.Credential{}, ErrVaultCorrupted
	}

	return credential, nil
}

// cipher derives the AES-256-GCM AEAD for salt from the vault passphrase
// using Argon2id.
func (v *tokenVault) cipher(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(
		[]byte(v.passphrase),
		salt,
		v.argonTime,
		v.argonMemory,
		v.argonThreads,
		v.argonKeyLen,
	)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("error creating cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("error creating gcm: %w", err)
	}

	return gcm, nil
}
