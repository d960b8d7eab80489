// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

// build merges the collected sources in order, later non-zero values
// overriding earlier ones, then fills fallbacks and validates.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	config.applyFallbacks()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, defaultConfig())
	return b
}

func (b *configBuilder) withDotEnv(path string) *configBuilder {
	if err := loadDotEnv(path); err != nil {
		b.err = errors.Join(b.err, err)
	}
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flagsCfg, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flagsCfg)
	return b
}

// withJSON loads the JSON file named by the last source that set a path.
func (b *configBuilder) withJSON() *configBuilder {
	if b.err != nil {
		return b
	}

	var jsonPath string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, jsonCfg)

	return b
}

func (cfg *StructuredConfig) applyFallbacks() {
	if cfg.App.HashKey == "" {
		cfg.App.HashKey = cfg.App.TokenSignKey
	}
}
