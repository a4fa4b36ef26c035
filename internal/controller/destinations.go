package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/api"
	"github.com/trippal/admin-console/internal/domain"
	"github.com/trippal/admin-console/pkg/util"
)

// Destinations holds the filter options for the material view. The
// list is small and changes rarely; a failed load keeps whatever was
// fetched last.
type Destinations struct {
	mu     sync.Mutex
	api    *api.Client
	logger *zap.Logger
	items  []domain.Destination
}

// NewDestinations constructs the destinations controller.
func NewDestinations(client *api.Client, logger *zap.Logger) *Destinations {
	return &Destinations{api: client, logger: logger}
}

// Load fetches the destination options.
func (d *Destinations) Load(ctx context.Context) error {
	items, err := d.api.ListDestinations(ctx)
	if err != nil {
		clientErr := util.ToClientError(err)
		d.logger.Warn("destinations fetch failed", zap.String("kind", string(clientErr.Kind)))
		return clientErr
	}
	d.mu.Lock()
	d.items = items
	d.mu.Unlock()
	return nil
}

// Items returns a copy of the loaded destinations.
func (d *Destinations) Items() []domain.Destination {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Destination, len(d.items))
	copy(out, d.items)
	return out
}
