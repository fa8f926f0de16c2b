package pagination

// NavButton is a First/Previous/Next/Last control.
type NavButton struct {
	Page     int  `json:"page"`
	Disabled bool `json:"disabled"`
}

// Nav holds the four navigation controls around the page window.
type Nav struct {
	First    NavButton `json:"first"`
	Previous NavButton `json:"previous"`
	Next     NavButton `json:"next"`
	Last     NavButton `json:"last"`
}

// Controller turns a list position into page controls and forwards page and
// page-size changes to its owner. It never fetches data itself.
type Controller struct {
	Total       int
	CurrentPage int
	PageSize    int
	Loading     bool

	OnPageChange     func(page int)
	OnPageSizeChange func(size int)
}

// TotalPages returns the number of pages for the controller's total.
func (c *Controller) TotalPages() int {
	return TotalPages(c.Total, c.PageSize)
}

// Window returns the page markers to render.
func (c *Controller) Window() []Marker {
	return Window(c.Total, c.CurrentPage, c.PageSize)
}

// PageClick reports a page change unless m is an ellipsis, the current page,
// or a load is in progress.
func (c *Controller) PageClick(m Marker) {
	if m.Ellipsis || m.Page == c.CurrentPage || c.Loading {
		return
	}
	if c.OnPageChange != nil {
		c.OnPageChange(m.Page)
	}
}

// PageSizeChange reports a new page size. Resetting the current page is the
// owner's job.
func (c *Controller) PageSizeChange(size int) {
	if c.OnPageSizeChange != nil {
		c.OnPageSizeChange(size)
	}
}

// Nav returns the navigation controls for the current position.
func (c *Controller) Nav() Nav {
	totalPages := c.TotalPages()
	blocked := c.Loading || totalPages == 0
	atFirst := c.CurrentPage == 1
	atLast := c.CurrentPage == totalPages

	return Nav{
		First:    NavButton{Page: 1, Disabled: atFirst || blocked},
		Previous: NavButton{Page: c.CurrentPage - 1, Disabled: atFirst || blocked},
		Next:     NavButton{Page: c.CurrentPage + 1, Disabled: atLast || blocked},
		Last:     NavButton{Page: totalPages, Disabled: atLast || blocked},
	}
}

// IsCurrent reports whether m marks the current page.
func (c *Controller) IsCurrent(m Marker) bool {
	return !m.Ellipsis && m.Page == c.CurrentPage
}
