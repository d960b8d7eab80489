// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const defaultDotEnvPath = ".env"

func dotEnvPath() string {
	if path := os.Getenv("ENV_FILE"); path != "" {
		return path
	}
	return defaultDotEnvPath
}

// loadDotEnv loads path into the process environment. Variables that are
// already set win. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading dotenv file %q: %w", path, err)
	}

	return nil
}
