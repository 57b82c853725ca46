package ops

import (
	"net/url"
	"strconv"
)

// FilterMode selects which order list query the page is scoped to. Paging
// dispatches on the mode alone; prev and next never cross modes.
type FilterMode string

const (
	FilterAll    FilterMode = "all"
	FilterStatus FilterMode = "status"
	FilterUnpaid FilterMode = "unpaid"
)

// ListState is the paging and filter state of the order list, carried
// through query strings so each request is self-contained.
type ListState struct {
	Mode       FilterMode
	Status     string
	Page       int
	TotalPages int
}

// parseListState rebuilds the state from request query parameters. An
// unpaid filter wins over a status filter; an empty status string means the
// unfiltered list.
func parseListState(q url.Values) ListState {
	state := ListState{Mode: FilterAll, Page: 1, TotalPages: 1}

	if q.Get("filter") == string(FilterUnpaid) {
		state.Mode = FilterUnpaid
	} else if status := q.Get("status"); status != "" {
		state.Mode = FilterStatus
		state.Status = status
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		state.Page = page
	}

	return state
}

// Query encodes the state back into query parameters, branching on the mode
// only.
func (s ListState) Query() url.Values {
	q := url.Values{}
	switch s.Mode {
	case FilterUnpaid:
		q.Set("filter", string(FilterUnpaid))
	case FilterStatus:
		q.Set("status", s.Status)
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	return q
}

// WithPage returns a copy of the state on another page, clamped to the
// known page range.
func (s ListState) WithPage(page int) ListState {
	if page < 1 {
		page = 1
	}
	if s.TotalPages > 0 && page > s.TotalPages {
		page = s.TotalPages
	}
	s.Page = page
	return s
}

func (s ListState) HasPrev() bool {
	return s.Page > 1
}

func (s ListState) HasNext() bool {
	return s.Page < s.TotalPages
}

// URL renders the list path with the state's query string.
func (s ListState) URL(path string) string {
	q := s.Query()
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
