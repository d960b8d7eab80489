// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-forum/internal/config"
	myHTTP "github.com/MKhiriev/go-forum/internal/handler/http"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/mock"
	"github.com/MKhiriev/go-forum/internal/service"
	"github.com/MKhiriev/go-forum/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// TestAdapterAgainstRouter drives the real router through the adapter with
// the service layer mocked.
func TestAdapterAgainstRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mock.NewMockAuthService(ctrl)
	appInfo := mock.NewMockAppInfoService(ctrl)

	handler, err := myHTTP.NewHandler(
		&service.Services{AuthService: auth, AppInfoService: appInfo},
		config.Server{AuthRateLimit: config.RateLimitOff},
		nil,
		logger.Nop(),
	)
	require.NoError(t, err)
	srv := httptest.NewServer(handler.Init())
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	ctx := context.Background()
	principal := models.Principal{UserID: 5, Username: "alice", Authorities: []string{"ROLE_USER"}, Enabled: true}

	gomock.InOrder(
		auth.EXPECT().Register(gomock.Any(), models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "s3cretpass"}).Return(pair1, nil),
		auth.EXPECT().Authenticate(gomock.Any(), "access-1").Return(models.Principal{}, service.ErrInvalidAccessToken),
		auth.EXPECT().Refresh(gomock.Any(), models.RefreshRequest{RefreshToken: "refresh-1"}).Return(pair2, nil),
		auth.EXPECT().Authenticate(gomock.Any(), "access-2").Return(principal, nil),
		auth.EXPECT().Logout(gomock.Any(), models.RefreshRequest{RefreshToken: "refresh-2"}).Return(nil),
		auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.TokenPair{}, service.ErrInvalidCredentials),
	)
	appInfo.EXPECT().GetAppInfo(gomock.Any()).Return(models.NewAppBuildInfo("1.0.0", "", ""))

	registered, err := a.Register(ctx, models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, pair1, registered)

	me, err := a.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PrincipalResponse{UserID: 5, Username: "alice", Authorities: []string{"ROLE_USER"}}, me)

	require.NoError(t, a.Logout(ctx))

	_, err = a.Login(ctx, models.LoginRequest{Identifier: "alice", Password: "wrong"})
	require.ErrorIs(t, err, ErrUnauthorized)

	info, err := a.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", info.BuildVersion)
}
