package fileflow

import (
	"context"
	"fmt"

	"github.com/kudzaitsapo/fileflow-web/internal/query"
)

// ListFiles returns the page of a project's files described by q.
func (c *Client) ListFiles(ctx context.Context, q query.Query) (*Page[StoredFile], error) {
	if c.token == "" {
		return nil, ErrNoSession
	}
	if q.Resource != query.Files {
		return nil, fmt.Errorf("query for %q is not a file listing", q.Resource)
	}
	env, err := doGetJSON[[]StoredFile](ctx, c, q.Endpoint())
	if err != nil {
		return nil, err
	}
	return pageOf(env), nil
}

// ListProjectUsers returns the page of a project's members described by q.
func (c *Client) ListProjectUsers(ctx context.Context, q query.Query) (*Page[User], error) {
	if c.token == "" {
		return nil, ErrNoSession
	}
	if q.Resource != query.Users {
		return nil, fmt.Errorf("query for %q is not a user listing", q.Resource)
	}
	env, err := doGetJSON[[]ProjectUser](ctx, c, q.Endpoint())
	if err != nil {
		return nil, err
	}

	members := pageOf(env)
	users := &Page[User]{Items: make([]User, 0, len(members.Items)), Meta: members.Meta}
	for _, m := range members.Items {
		users.Items = append(users.Items, m.UserInfo)
	}
	return users, nil
}

// ListFileTypes returns the MIME types the backend knows about.
func (c *Client) ListFileTypes(ctx context.Context) ([]FileType, error) {
	if c.token == "" {
		return nil, ErrNoSession
	}
	env, err := doGetJSON[[]FileType](ctx, c, "file-types")
	if err != nil {
		return nil, err
	}
	if env.Result == nil {
		return []FileType{}, nil
	}
	return env.Result, nil
}
