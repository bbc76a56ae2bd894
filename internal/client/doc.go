// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It wires the terminal UI, the embedded SQLite coordination store and the
// synchronization services into a single process lifecycle: restore the
// encrypted refresh token, run the shell, and scrub the access token on the
// way out.
package client
