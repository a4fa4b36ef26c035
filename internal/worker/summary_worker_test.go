package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/api"
	"github.com/trippal/admin-console/internal/config"
	"github.com/trippal/admin-console/internal/controller"
	"github.com/trippal/admin-console/internal/storage"
)

func TestSummaryWorker_RefreshesOnInterval(t *testing.T) {
	t.Parallel()

	requests := atomic.Int64{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{"results":[],"count":0}`))
	}))
	t.Cleanup(server.Close)

	tokens := storage.NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, tokens.Set(storage.KeyAccess, "test-access"))
	client := api.NewClient(config.APIConfig{BaseURL: server.URL, TimeoutSeconds: 5}, tokens, zap.NewNop())
	dashboard := controller.NewDashboard(controller.DashboardDependencies{API: client, Logger: zap.NewNop()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartSummaryWorker(ctx, 20*time.Millisecond, dashboard, zap.NewNop())

	// Each refresh fans out five requests; two ticks make ten.
	assert.Eventually(t, func() bool {
		return requests.Load() >= 10
	}, 2*time.Second, 10*time.Millisecond)
	assert.NotNil(t, dashboard.Summary())

	cancel()
	settled := requests.Load()
	time.Sleep(60 * time.Millisecond)
	assert.LessOrEqual(t, requests.Load()-settled, int64(5), "at most one refresh may straddle cancellation")
}

func TestSummaryWorker_DisabledWithoutInterval(t *testing.T) {
	t.Parallel()

	// Zero interval and nil dashboard are both no-ops.
	StartSummaryWorker(context.Background(), 0, nil, zap.NewNop())
}
