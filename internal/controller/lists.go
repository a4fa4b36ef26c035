package controller

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/api"
	"github.com/trippal/admin-console/internal/api/dto"
	"github.com/trippal/admin-console/internal/domain"
	"github.com/trippal/admin-console/internal/events"
)

// Filter keys recognized by the concrete list views. Values equal to
// "" or "all" are dropped before the request is built.
const (
	FilterQuery        = "query"
	FilterCategory     = "category"
	FilterStatus       = "status"
	FilterSearch       = "search"
	FilterMaterialType = "material_type"
	FilterDestination  = "destination__slug"
)

// NewTicketList builds the list controller for the support ticket
// view.
func NewTicketList(client *api.Client, pageSize int, debounce time.Duration, dispatcher events.Dispatcher, logger *zap.Logger) *ListController[domain.SupportTicket] {
	fetch := func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[domain.SupportTicket], error) {
		return client.ListTickets(ctx, dto.TicketQuery{
			Query:    filters[FilterQuery],
			Category: filters[FilterCategory],
			Status:   filters[FilterStatus],
			Page:     page,
			PageSize: pageSize,
		})
	}
	return NewListController(ListConfig[domain.SupportTicket]{
		Name:       "tickets",
		Fetch:      fetch,
		Debounce:   debounce,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
}

// NewMaterialList builds the list controller for the material library
// view.
func NewMaterialList(client *api.Client, pageSize int, debounce time.Duration, dispatcher events.Dispatcher, logger *zap.Logger) *ListController[domain.Material] {
	fetch := func(ctx context.Context, page int, filters map[string]string) (dto.ListPage[domain.Material], error) {
		return client.ListMaterials(ctx, dto.MaterialQuery{
			Search:          filters[FilterSearch],
			MaterialType:    filters[FilterMaterialType],
			DestinationSlug: filters[FilterDestination],
			Page:            page,
			PageSize:        pageSize,
		})
	}
	return NewListController(ListConfig[domain.Material]{
		Name:       "materials",
		Fetch:      fetch,
		Debounce:   debounce,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
}
