// Package pagination computes the bounded page window shown under list tables
// and the page/page-size state that list pages re-fetch data for.
package pagination

import (
	"strconv"

	"github.com/kudzaitsapo/fileflow-web/internal/constants"
)

// Marker is one entry of a page window: either a page number or an ellipsis.
type Marker struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// String renders the marker as shown on a pagination button.
func (m Marker) String() string {
	if m.Ellipsis {
		return "..."
	}
	return strconv.Itoa(m.Page)
}

func page(n int) Marker { return Marker{Page: n} }

var ellipsis = Marker{Ellipsis: true}

// TotalPages returns ceil(total/pageSize), or 0 when there is nothing to show.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Window returns the page markers for the given list position. Up to
// MaxVisiblePages pages are listed in full; beyond that the first and last
// pages are always present and the current page is shown with its neighbours.
func Window(total, currentPage, pageSize int) []Marker {
	totalPages := TotalPages(total, pageSize)

	if totalPages <= constants.MaxVisiblePages {
		markers := make([]Marker, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			markers = append(markers, page(i))
		}
		return markers
	}

	markers := []Marker{page(1)}

	start := max(2, currentPage-1)
	end := min(totalPages-1, currentPage+1)

	if currentPage <= 2 {
		end = 4
	} else if currentPage >= totalPages-2 {
		start = totalPages - 3
	}

	if start > 2 {
		markers = append(markers, ellipsis)
	}
	for i := start; i <= end; i++ {
		markers = append(markers, page(i))
	}
	if end < totalPages-1 {
		markers = append(markers, ellipsis)
	}
	if totalPages > 1 {
		markers = append(markers, page(totalPages))
	}
	return markers
}
