// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/models"
)

type appInfoService struct {
	info models.AppBuildInfo
}

// NewAppInfoService reports buildInfo. A configured App.Version replaces
// the linker-provided version.
func NewAppInfoService(buildInfo models.AppBuildInfo, cfg config.App) AppInfoService {
	if cfg.Version != "" {
		buildInfo.BuildVersion = cfg.Version
	}

	return &appInfoService{info: buildInfo}
}

func (s *appInfoService) GetAppInfo(ctx context.Context) models.AppBuildInfo {
	return s.info
}
