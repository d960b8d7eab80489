// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses command-line arguments into a partial config.
//
// Flags:
//
//	-a                   HTTP server address in format [host]:port
//	-grpc-address        gRPC server address in format [host]:port
//	-d                   database DSN
//	-redis-address       Redis address host:port
//	-c/-config           JSON file path with configs
//	-token-sign-key      access token signing key
//	-token-issuer        access token issuer name
//	-access-token-ttl    access token lifetime (e.g. "15m")
//	-refresh-token-ttl   refresh token lifetime (e.g. "720h")
//	-hash-key            refresh token digest key
//	-request-timeout     request timeout (e.g. "30s")
//	-auth-rate-limit     auth endpoints rate (e.g. "20-M", "off")
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-forum-server", flag.ContinueOnError)

	var serverAddress, grpcServerAddress NetAddress
	var databaseDSN, redisAddress, jsonConfigPath string
	var tokenSignKey, tokenIssuer, hashKey, authRateLimit string
	var accessTokenTTL, refreshTokenTTL, requestTimeout time.Duration

	fs.Var(&serverAddress, "a", "Net address [host]:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address [host]:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&redisAddress, "redis-address", "", "Redis address host:port")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&accessTokenTTL, "access-token-ttl", 0, "Access token TTL (e.g. 15m)")
	fs.DurationVar(&refreshTokenTTL, "refresh-token-ttl", 0, "Refresh token TTL (e.g. 720h)")
	fs.StringVar(&hashKey, "hash-key", "", "Refresh token digest key")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g. 30s)")
	fs.StringVar(&authRateLimit, "auth-rate-limit", "", "Auth endpoints rate limit (e.g. 20-M, off)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:    tokenSignKey,
			TokenIssuer:     tokenIssuer,
			AccessTokenTTL:  accessTokenTTL,
			RefreshTokenTTL: refreshTokenTTL,
			HashKey:         hashKey,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Redis: Redis{
				Address: redisAddress,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
			AuthRateLimit:  authRateLimit,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress, or an
// empty string when nothing was set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form [host]:port and populates the
// NetAddress. An empty host listens on all interfaces; any other host must
// be "localhost" or an IP address.
func (a *NetAddress) Set(s string) error {
	host, portString, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `[host]:port`")
	}

	port, err := strconv.Atoi(portString)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
