package fileflow

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type regenerateKeyRequest struct {
	ID int64 `json:"id"`
}

// ListProjects returns one page of the projects visible to the user.
func (c *Client) ListProjects(ctx context.Context, limit, offset int) (*Page[Project], error) {
	if c.token == "" {
		return nil, ErrNoSession
	}
	params := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	env, err := doGetJSON[[]Project](ctx, c, "projects?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return pageOf(env), nil
}

// GetProject returns a project's details, including its key and allowed file types.
func (c *Client) GetProject(ctx context.Context, id int64) (*Project, error) {
	if c.token == "" {
		return nil, ErrNoSession
	}
	env, err := doGetJSON[Project](ctx, c, fmt.Sprintf("projects/%d/project-info", id))
	if err != nil {
		return nil, err
	}
	return &env.Result, nil
}

// CreateProject creates a project and returns it as stored by the backend.
func (c *Client) CreateProject(ctx context.Context, input ProjectInput) (*Project, error) {
	if c.token == "" {
		return nil, ErrNoSession
	}
	env, err := doPostJSON[Project](ctx, c, "projects", input)
	if err != nil {
		return nil, err
	}
	return &env.Result, nil
}

// UpdateProject saves a project's editable settings.
func (c *Client) UpdateProject(ctx context.Context, p Project) (*Project, error) {
	if c.token == "" {
		return nil, ErrNoSession
	}
	env, err := doPutJSON[Project](ctx, c, "projects", p)
	if err != nil {
		return nil, err
	}
	return &env.Result, nil
}

// RegenerateProjectKey issues a new project key and returns the updated project.
func (c *Client) RegenerateProjectKey(ctx context.Context, id int64) (*Project, error) {
	if c.token == "" {
		return nil, ErrNoSession
	}
	env, err := doPostJSON[Project](ctx, c, "projects/re-generate-key", regenerateKeyRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return &env.Result, nil
}

func pageOf[T any](env *Envelope[[]T]) *Page[T] {
	page := &Page[T]{Items: env.Result}
	if page.Items == nil {
		page.Items = []T{}
	}
	if env.Meta != nil {
		page.Meta = *env.Meta
	} else {
		page.Meta.TotalRecords = int64(len(page.Items))
	}
	return page
}
