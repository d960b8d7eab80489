// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSignKey = "0123456789abcdef0123456789abcdef"

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// validSources returns a builder holding defaults plus the two values that
// have no default.
func validSources() *configBuilder {
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs, &StructuredConfig{
		App:     App{TokenSignKey: testSignKey},
		Storage: Storage{DB: DB{DSN: "postgres://forum@localhost/forum"}},
	})
	return b
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that a config with nothing set fails
// validation instead of producing a half-usable server.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
	assert.ErrorIs(t, err, ErrInvalidServerConfigs)
	assert.ErrorIs(t, err, ErrInvalidWorkerConfigs)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_DefaultsApplied(t *testing.T) {
	// Arrange
	b := validSources()

	// Act
	cfg, err := b.build()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenIssuer, cfg.App.TokenIssuer)
	assert.Equal(t, DefaultAccessTokenTTL, cfg.App.AccessTokenTTL)
	assert.Equal(t, DefaultRefreshTokenTTL, cfg.App.RefreshTokenTTL)
	assert.Equal(t, DefaultRoleCode, cfg.App.DefaultRole)
	assert.Equal(t, DefaultHTTPAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, DefaultAuthRateLimit, cfg.Server.AuthRateLimit)
	assert.Equal(t, DefaultTokenCleanupInterval, cfg.Workers.TokenCleanupInterval)
	assert.Zero(t, cfg.App.MaxSessionsPerUser)
}

// TestBuild_LaterSourcesOverride verifies the precedence of merged sources.
func TestBuild_LaterSourcesOverride(t *testing.T) {
	// Arrange
	b := validSources()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{TokenIssuer: "env-issuer", Version: "1.0.0"}},
		&StructuredConfig{App: App{TokenIssuer: "flag-issuer"}},
	)

	// Act
	cfg, err := b.build()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "flag-issuer", cfg.App.TokenIssuer)
	assert.Equal(t, "1.0.0", cfg.App.Version)
}

func TestBuild_HashKeyFallsBackToSignKey(t *testing.T) {
	cfg, err := validSources().build()
	require.NoError(t, err)
	assert.Equal(t, testSignKey, cfg.App.HashKey)
}

func TestBuild_ExplicitHashKeyKept(t *testing.T) {
	b := validSources()
	b.configs = append(b.configs, &StructuredConfig{App: App{HashKey: "digest-key"}})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "digest-key", cfg.App.HashKey)
}

func TestBuild_ValidationFailure(t *testing.T) {
	b := validSources()
	b.configs = append(b.configs, &StructuredConfig{App: App{AccessTokenTTL: 1500 * time.Millisecond}})

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
}

// ── withDefaults ──────────────────────────────────────────────────────────────

func TestWithDefaults_AppendsDefaultConfig(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withDefaults())
	require.Len(t, b.configs, 1)
	assert.Equal(t, defaultConfig(), b.configs[0])
}

// ── withDotEnv ────────────────────────────────────────────────────────────────

func TestWithDotEnv_MissingFileIsIgnored(t *testing.T) {
	b := newConfigBuilder()
	b.withDotEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, b.err)
}

func TestWithDotEnv_FeedsWithEnv(t *testing.T) {
	// Arrange
	clearEnvVars(t)
	// godotenv writes through os.Setenv; register restoration first.
	t.Setenv("APP_TOKEN_ISSUER", "")
	require.NoError(t, os.Unsetenv("APP_TOKEN_ISSUER"))
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_TOKEN_ISSUER=dotenv-issuer\n"), 0o600))

	// Act
	b := newConfigBuilder().withDotEnv(path).withEnv()

	// Assert
	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "dotenv-issuer", b.configs[0].App.TokenIssuer)
}

func TestWithDotEnv_SetsError_WhenMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT A VALID LINE WITHOUT EQUALS 'unterminated\n"), 0o600))

	b := newConfigBuilder().withDotEnv(path)
	assert.Error(t, b.err)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

func TestWithEnv_ReturnsBuilder(t *testing.T) {
	clearEnvVars(t)
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())
}

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	setEnvVars(t, map[string]string{
		"APP_VERSION":      "env-version",
		"APP_TOKEN_ISSUER": "env-issuer",
	})

	b := newConfigBuilder()
	b.withEnv()

	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-version", b.configs[0].App.Version)
	assert.Equal(t, "env-issuer", b.configs[0].App.TokenIssuer)
}

func TestWithEnv_SetsError_WhenUnparsable(t *testing.T) {
	setEnvVars(t, map[string]string{"WORKERS_TOKEN_CLEANUP_INTERVAL": "hourly"})

	b := newConfigBuilder()
	b.withEnv()

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

func TestWithFlags_AppendsParsedFlags(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags([]string{"-token-issuer", "flag-issuer"}))
	require.Len(t, b.configs, 1)
	assert.Equal(t, "flag-issuer", b.configs[0].App.TokenIssuer)
}

func TestWithFlags_SetsError_WhenUnknownFlag(t *testing.T) {
	b := newConfigBuilder()
	b.withFlags([]string{"-no-such-flag"})
	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.Version = "json-version"
	payload.App.TokenIssuer = "json-issuer"
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "json-version", b.configs[1].App.Version)
	assert.Equal(t, "json-issuer", b.configs[1].App.TokenIssuer)
}

func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: "/nonexistent/config.json",
	})
	b.withJSON()

	assert.Error(t, b.err)
}

func TestWithJSON_UsesLastPath(t *testing.T) {
	first := StructuredJSONConfig{}
	first.App.Version = "first"
	last := StructuredJSONConfig{}
	last.App.Version = "last-wins"

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, first)},
		&StructuredConfig{JSONFilePath: ""},
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, last)},
	)
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 4)
	assert.Equal(t, "last-wins", b.configs[3].App.Version)
}

func TestWithJSON_Skipped_WhenErrorAlreadySet(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.Version = "should-not-appear"
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.err = assert.AnError
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	assert.ErrorIs(t, b.err, assert.AnError)
	assert.Len(t, b.configs, 1)
}

// ── end to end ────────────────────────────────────────────────────────────────

func TestBuilder_FullChain(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"APP_TOKEN_SIGN_KEY":      testSignKey,
		"STORAGE_DB_DATABASE_URI": "postgres://env@localhost/forum",
		"APP_TOKEN_ISSUER":        "env-issuer",
	})
	payload := StructuredJSONConfig{}
	payload.App.MaxSessionsPerUser = 3
	payload.Server.AuthRateLimit = RateLimitOff
	path := writeTempJSONConfig(t, payload)

	// Act
	cfg, err := newConfigBuilder().
		withDefaults().
		withDotEnv(filepath.Join(t.TempDir(), "absent.env")).
		withEnv().
		withFlags([]string{"-token-issuer", "flag-issuer", "-c", path}).
		withJSON().
		build()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "flag-issuer", cfg.App.TokenIssuer)
	assert.Equal(t, "postgres://env@localhost/forum", cfg.Storage.DB.DSN)
	assert.Equal(t, 3, cfg.App.MaxSessionsPerUser)
	assert.Equal(t, RateLimitOff, cfg.Server.AuthRateLimit)
	assert.Equal(t, testSignKey, cfg.App.HashKey)
}
