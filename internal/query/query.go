// Package query describes list fetches as plain values derived from the active
// project and page state, and coordinates them so only the latest one per
// owner is allowed to finish.
package query

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/kudzaitsapo/fileflow-web/internal/pagination"
)

// Resource is a project-scoped list endpoint of the backend.
type Resource string

const (
	Files Resource = "files"
	Users Resource = "users"
)

// Query is a list request derived from (project, page, page size).
type Query struct {
	Resource  Resource
	ProjectID int64
	State     pagination.State
}

// New builds a query for a project's resource at the given page state.
func New(resource Resource, projectID int64, state pagination.State) Query {
	return Query{Resource: resource, ProjectID: projectID, State: state}
}

// WithState returns the same query at another page position.
func (q Query) WithState(state pagination.State) Query {
	q.State = state
	return q
}

// Path is the backend path, relative to the API base URL.
func (q Query) Path() string {
	return fmt.Sprintf("projects/%d/%s", q.ProjectID, q.Resource)
}

// Params are the backend limit/offset parameters.
func (q Query) Params() url.Values {
	return url.Values{
		"limit":  {strconv.Itoa(q.State.Limit())},
		"offset": {strconv.Itoa(q.State.Offset())},
	}
}

// Endpoint is Path with Params appended.
func (q Query) Endpoint() string {
	return q.Path() + "?" + q.Params().Encode()
}

// Key identifies the query; equal inputs give equal keys.
func (q Query) Key() string {
	return fmt.Sprintf("%s/%d/%d/%d", q.Resource, q.ProjectID, q.State.Page, q.State.PageSize)
}
