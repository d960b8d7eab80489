// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestWithMetrics_LabelsByRoutePattern(t *testing.T) {
	f := newHandlerFixture(t)

	health := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/health", "200")
	unmatched := httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	healthBefore := testutil.ToFloat64(health)
	unmatchedBefore := testutil.ToFloat64(unmatched)

	f.do(http.MethodGet, "/api/health", "", nil)
	f.do(http.MethodGet, "/api/health", "", nil)
	f.do(http.MethodGet, "/no/such/path/42", "", nil)

	assert.Equal(t, healthBefore+2, testutil.ToFloat64(health))
	assert.Equal(t, unmatchedBefore+1, testutil.ToFloat64(unmatched))
}
