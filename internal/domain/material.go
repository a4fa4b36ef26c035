package domain

import "time"

// MaterialType enumerates the sellable asset categories.
type MaterialType string

const (
	MaterialTypeHotel     MaterialType = "hotel"
	MaterialTypeTicket    MaterialType = "ticket"
	MaterialTypeRoute     MaterialType = "route"
	MaterialTypeTransport MaterialType = "transport"
)

// MaterialTypes lists the filterable types in display order.
var MaterialTypes = []MaterialType{
	MaterialTypeHotel,
	MaterialTypeTicket,
	MaterialTypeRoute,
	MaterialTypeTransport,
}

// Destination is a travel destination a material can belong to.
type Destination struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// MaterialImage is an ordered gallery image.
type MaterialImage struct {
	ID          int64  `json:"id"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// MaterialVideo is an ordered gallery video.
type MaterialVideo struct {
	ID          int64  `json:"id"`
	Video       string `json:"video"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Order       int    `json:"order"`
	Duration    int    `json:"duration"`
}

// Material is a travel asset from the resource library. Immutable from
// the client's perspective: fetched and filtered only.
type Material struct {
	ID                  int64           `json:"id"`
	MaterialType        MaterialType    `json:"material_type"`
	MaterialTypeDisplay string          `json:"material_type_display"`
	Title               string          `json:"title"`
	Destination         *Destination    `json:"destination"`
	Description         string          `json:"description"`
	Price               string          `json:"price"`
	PDFFile             string          `json:"pdf_file"`
	HeaderImage         string          `json:"header_image"`
	Images              []MaterialImage `json:"images"`
	Videos              []MaterialVideo `json:"videos"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`
}

// DestinationName returns the destination label or a generic fallback.
func (m Material) DestinationName() string {
	if m.Destination == nil || m.Destination.Name == "" {
		return "General"
	}
	return m.Destination.Name
}
