// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// envPostgresDSN must match the variable read by the store tests.
const envPostgresDSN = "AGORA_TEST_DATABASE_URL"

// Test groups test targets (all, unit, postgres).
type Test mg.Namespace

// All runs every test.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Unit runs the tests in short mode.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-short", "./...")
}

// Postgres runs the store tests against the database named by
// AGORA_TEST_DATABASE_URL.
func (Test) Postgres() error {
	if os.Getenv(envPostgresDSN) == "" {
		return fmt.Errorf("%s is not set", envPostgresDSN)
	}
	return sh.RunWithV(map[string]string{envPostgresDSN: os.Getenv(envPostgresDSN)},
		binGo, "test", "-v", "-run", ".*/postgres", "./internal/store/...")
}
