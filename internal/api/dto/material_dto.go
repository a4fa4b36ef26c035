package dto

import (
	"net/url"
	"strconv"
	"strings"
)

// MaterialQuery captures list filters for the materials endpoint.
type MaterialQuery struct {
	Search          string
	MaterialType    string
	DestinationSlug string
	Page            int
	PageSize        int
}

// Values encodes the query, dropping unset filters.
func (q MaterialQuery) Values() url.Values {
	values := url.Values{}
	if text := strings.TrimSpace(q.Search); text != "" {
		values.Set("search", text)
	}
	if q.MaterialType != "" && q.MaterialType != "all" {
		values.Set("material_type", q.MaterialType)
	}
	if q.DestinationSlug != "" && q.DestinationSlug != "all" {
		values.Set("destination__slug", q.DestinationSlug)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return values
}
