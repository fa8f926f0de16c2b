package views

import (
	"github.com/kudzaitsapo/fileflow-web/internal/constants"
	"github.com/kudzaitsapo/fileflow-web/internal/format"
	"github.com/kudzaitsapo/fileflow-web/internal/pagination"
)

// PagerLink is a rendered page control. URL is empty when it is not clickable.
type PagerLink struct {
	Label    string
	URL      string
	Current  bool
	Ellipsis bool
	Disabled bool
}

// SizeOption is one entry of the rows-per-page selector.
type SizeOption struct {
	Value    int
	URL      string
	Selected bool
}

// Pager is the pagination footer of a list page.
type Pager struct {
	Total      int
	TotalLabel string
	From       int
	To         int
	Markers    []PagerLink
	First      PagerLink
	Previous   PagerLink
	Next       PagerLink
	Last       PagerLink
	Sizes      []SizeOption
	RefreshURL string
}

// NewPager lays out the pagination footer for a list at path. Links are
// produced through the controller's callbacks, so a marker the controller
// ignores (ellipsis, current page, loading) is rendered without a link.
func NewPager(path string, state pagination.State, total int, loading bool) Pager {
	link := func(s pagination.State) string {
		return path + "?" + s.Query().Encode()
	}

	var target string
	ctrl := &pagination.Controller{
		Total:       total,
		CurrentPage: state.Page,
		PageSize:    state.PageSize,
		Loading:     loading,
		OnPageChange: func(page int) {
			target = link(state.WithPage(page))
		},
		OnPageSizeChange: func(size int) {
			target = link(state.WithPageSize(size))
		},
	}

	p := Pager{
		Total:      total,
		TotalLabel: format.Count(total),
		RefreshURL: link(state),
	}
	if total > 0 {
		p.From = state.Offset() + 1
		p.To = min(state.Offset()+state.PageSize, total)
	}

	for _, m := range ctrl.Window() {
		target = ""
		ctrl.PageClick(m)
		p.Markers = append(p.Markers, PagerLink{
			Label:    m.String(),
			URL:      target,
			Current:  ctrl.IsCurrent(m),
			Ellipsis: m.Ellipsis,
		})
	}

	nav := ctrl.Nav()
	navLink := func(label string, b pagination.NavButton) PagerLink {
		l := PagerLink{Label: label, Disabled: b.Disabled}
		if !b.Disabled {
			l.URL = link(state.WithPage(b.Page))
		}
		return l
	}
	p.First = navLink("First", nav.First)
	p.Previous = navLink("Previous", nav.Previous)
	p.Next = navLink("Next", nav.Next)
	p.Last = navLink("Last", nav.Last)

	for _, size := range constants.AllowedPageSizes {
		target = ""
		ctrl.PageSizeChange(size)
		p.Sizes = append(p.Sizes, SizeOption{
			Value:    size,
			URL:      target,
			Selected: size == state.PageSize,
		})
	}
	return p
}
