package pagination

import (
	"math"
	"net/url"
	"slices"
	"strconv"

	"github.com/kudzaitsapo/fileflow-web/internal/constants"
)

// MaxOffset is the largest record offset sent to the backend. Pages past it
// are unreachable and get clamped once the total is known.
const MaxOffset = math.MaxInt32

// State is the page position a list page fetches data for.
type State struct {
	Page     int
	PageSize int
}

// DefaultState is page 1 at the default page size.
func DefaultState() State {
	return State{Page: 1, PageSize: constants.DefaultPageSize}
}

// IsAllowedPageSize reports whether n is one of the selectable page sizes.
func IsAllowedPageSize(n int) bool {
	return slices.Contains(constants.AllowedPageSizes, n)
}

// ParseState reads "page" and "size" from query values. Missing or invalid
// values fall back to the defaults.
func ParseState(values url.Values) State {
	s := DefaultState()
	if p, err := strconv.Atoi(values.Get("page")); err == nil && p >= 1 {
		s.Page = p
	}
	if size, err := strconv.Atoi(values.Get("size")); err == nil && IsAllowedPageSize(size) {
		s.PageSize = size
	}
	s.Page = min(s.Page, lastAddressablePage(s.PageSize))
	return s
}

// lastAddressablePage is the highest page whose offset stays within MaxOffset.
func lastAddressablePage(size int) int {
	if size <= 0 {
		return 1
	}
	return MaxOffset/size + 1
}

// Clamp keeps Page within [1, max(1, totalPages)] for the given total.
func (s State) Clamp(total int) State {
	last := max(1, TotalPages(total, s.PageSize))
	s.Page = min(max(s.Page, 1), last)
	return s
}

// WithPage returns s at page p.
func (s State) WithPage(p int) State {
	s.Page = p
	return s
}

// WithPageSize returns s at the new page size, back on page 1.
func (s State) WithPageSize(size int) State {
	if !IsAllowedPageSize(size) {
		return s
	}
	s.PageSize = size
	s.Page = 1
	return s
}

// Offset is the number of records before the first one on the page. It
// saturates at MaxOffset rather than overflowing.
func (s State) Offset() int {
	if s.PageSize <= 0 {
		return 0
	}
	return (min(max(s.Page, 1), lastAddressablePage(s.PageSize)) - 1) * s.PageSize
}

// Limit is the number of records requested for the page.
func (s State) Limit() int {
	return s.PageSize
}

// Query encodes the state as "page" and "size" query values.
func (s State) Query() url.Values {
	return url.Values{
		"page": {strconv.Itoa(s.Page)},
		"size": {strconv.Itoa(s.PageSize)},
	}
}
