// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AppBuildInfo carries build-time metadata injected by linker flags.
type AppBuildInfo struct {
	BuildVersion string `json:"version"`
	BuildDate    string `json:"date"`
	BuildCommit  string `json:"commit"`
}

// NewAppBuildInfo constructs [AppBuildInfo], replacing empty values with "N/A".
func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		BuildVersion: orNA(buildVersion),
		BuildDate:    orNA(buildDate),
		BuildCommit:  orNA(buildCommit),
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
