package dto

// ListPage is the paginated envelope the backend wraps list results
// in. Pages are merged client-side by concatenation in request order;
// no de-duplication by id is attempted.
type ListPage[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}
