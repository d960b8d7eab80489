// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the forum server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. Optional dotenv file (ENV_FILE, ".env" by default), loaded into the
//     process environment without overriding variables already set
//  3. Environment variables
//  4. Command-line flags
//  5. JSON config file
//
// The main entry point is [GetStructuredConfig]. An invalid result is a
// configuration fault: the server must not start with it.
package config
