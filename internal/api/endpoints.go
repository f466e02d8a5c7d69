package api

import (
	"context"
	"net/url"
	"strconv"
)

// Login exchanges credentials for a token and the signed-in user.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPatients fetches one server-side page of patients.
func (c *Client) ListPatients(ctx context.Context, q PageQuery) (*Page[Patient], error) {
	var out Page[Patient]
	if err := c.get(ctx, "/patients", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPatient(ctx context.Context, id string) (*Patient, error) {
	var out Patient
	if err := c.get(ctx, "/patients/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCenters returns every center. The list is small and not paginated.
func (c *Client) ListCenters(ctx context.Context) ([]Center, error) {
	var out []Center
	if err := c.get(ctx, "/centers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCenter(ctx context.Context, id string) (*Center, error) {
	var out Center
	if err := c.get(ctx, "/centers/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTeams returns every team. The list is small and not paginated.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	var out []Team
	if err := c.get(ctx, "/teams", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTeam(ctx context.Context, id string) (*Team, error) {
	var out Team
	if err := c.get(ctx, "/teams/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (q PageQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(max(1, q.Page)))
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CenterID != "" {
		v.Set("centerId", q.CenterID)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
		if q.Desc {
			v.Set("order", "desc")
		} else {
			v.Set("order", "asc")
		}
	}
	return v
}
