package controller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/api"
	"github.com/trippal/admin-console/internal/api/dto"
	"github.com/trippal/admin-console/internal/domain"
	"github.com/trippal/admin-console/internal/events"
	"github.com/trippal/admin-console/pkg/util"
)

// Summary is the coarse dashboard snapshot assembled from one fan-out
// batch.
type Summary struct {
	MaterialCount   int
	TicketCount     int
	UnansweredCount int
	RecentTickets   []domain.SupportTicket
	RecentMaterials []domain.Material
	RefreshedAt     time.Time
}

// DashboardDependencies bundles collaborators for the dashboard
// controller.
type DashboardDependencies struct {
	API        *api.Client
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// Dashboard refreshes the summary statistics. A refresh issues five
// requests in parallel and applies them all-or-nothing: if any one
// fails the whole batch is marked failed and the previous snapshot
// stays visible. Concurrent refreshes (periodic timer racing a manual
// trigger) resolve last-response-wins, acceptable for a coarse
// summary.
type Dashboard struct {
	mu      sync.Mutex
	api     *api.Client
	events  events.Dispatcher
	logger  *zap.Logger
	summary *Summary
	lastErr error
	loading bool
}

// NewDashboard constructs the dashboard controller.
func NewDashboard(deps DashboardDependencies) *Dashboard {
	return &Dashboard{
		api:    deps.API,
		events: deps.Dispatcher,
		logger: deps.Logger,
	}
}

// Refresh fetches a new summary snapshot.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.loading = true
	d.mu.Unlock()

	var (
		wg        sync.WaitGroup
		materials dto.ListPage[domain.Material]
		all       dto.ListPage[domain.SupportTicket]
		open      dto.ListPage[domain.SupportTicket]
		recent    dto.ListPage[domain.SupportTicket]
		latest    dto.ListPage[domain.Material]
		errs      [5]error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		materials, errs[0] = d.api.ListMaterials(ctx, dto.MaterialQuery{})
	}()
	go func() {
		defer wg.Done()
		all, errs[1] = d.api.ListTickets(ctx, dto.TicketQuery{Status: "all", PageSize: 1})
	}()
	go func() {
		defer wg.Done()
		open, errs[2] = d.api.ListTickets(ctx, dto.TicketQuery{Status: "unanswered", PageSize: 1})
	}()
	go func() {
		defer wg.Done()
		recent, errs[3] = d.api.ListTickets(ctx, dto.TicketQuery{Status: "all", PageSize: 5})
	}()
	go func() {
		defer wg.Done()
		latest, errs[4] = d.api.ListMaterials(ctx, dto.MaterialQuery{PageSize: 5})
	}()
	wg.Wait()

	for _, err := range errs {
		if err == nil {
			continue
		}
		// All-or-nothing: no partial stats are applied.
		clientErr := util.ToClientError(err)
		d.mu.Lock()
		d.loading = false
		d.lastErr = clientErr
		d.mu.Unlock()
		d.logger.Warn("summary refresh failed", zap.String("kind", string(clientErr.Kind)))
		d.publishUpdated()
		return clientErr
	}

	snapshot := &Summary{
		MaterialCount:   materials.Count,
		TicketCount:     all.Count,
		UnansweredCount: open.Count,
		RecentTickets:   recent.Results,
		RecentMaterials: latest.Results,
		RefreshedAt:     time.Now(),
	}

	d.mu.Lock()
	d.loading = false
	d.lastErr = nil
	d.summary = snapshot
	d.mu.Unlock()

	d.publishUpdated()
	return nil
}

// Summary returns the last successfully fetched snapshot, or nil.
func (d *Dashboard) Summary() *Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summary
}

// Err returns the failure recorded by the most recent refresh.
func (d *Dashboard) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// IsLoading reports whether a refresh is in flight.
func (d *Dashboard) IsLoading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

func (d *Dashboard) publishUpdated() {
	if d.events == nil {
		return
	}
	d.events.Publish(events.Event{
		Type:   events.EventSummaryUpdated,
		Source: "dashboard",
	})
}
