// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveKey derives a 32-byte subkey from the session secret for the given
// purpose. Distinct purposes yield independent keys, so the CSRF key can
// never double as anything else.
func DeriveKey(secret, purpose string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// CSRFKey derives the key used to authenticate CSRF tokens.
func CSRFKey(secret string) ([]byte, error) {
	return DeriveKey(secret, "wavy/csrf/v1")
}
