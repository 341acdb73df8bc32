package gateway

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

const PathContracts = "/api/contracts/"

func (c *Client) ListContracts(ctx context.Context, p ListParams) (*Page[Contract], error) {
	var page Page[Contract]
	if err := c.do(ctx, request{method: http.MethodGet, path: PathContracts, query: p.values(), out: &page}); err != nil {
		return nil, errors.Wrap(err, "[Client.ListContracts]")
	}
	return &page, nil
}

func (c *Client) GetContract(ctx context.Context, id int) (*Contract, error) {
	var contract Contract
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath(PathContracts, id), out: &contract}); err != nil {
		return nil, errors.Wrapf(err, "[Client.GetContract] %d", id)
	}
	return &contract, nil
}

func (c *Client) CreateContract(ctx context.Context, in ContractCreate) (*Contract, error) {
	var contract Contract
	if err := c.do(ctx, request{method: http.MethodPost, path: PathContracts, in: in, out: &contract}); err != nil {
		return nil, errors.Wrap(err, "[Client.CreateContract]")
	}
	return &contract, nil
}

func (c *Client) UpdateContract(ctx context.Context, id int, patch ContractPatch) (*Contract, error) {
	var contract Contract
	if err := c.do(ctx, request{method: http.MethodPatch, path: idPath(PathContracts, id), in: patch, out: &contract}); err != nil {
		return nil, errors.Wrapf(err, "[Client.UpdateContract] %d", id)
	}
	return &contract, nil
}

func (c *Client) DeleteContract(ctx context.Context, id int) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: idPath(PathContracts, id)}); err != nil {
		return errors.Wrapf(err, "[Client.DeleteContract] %d", id)
	}
	return nil
}

// EndContract marks an active contract as ended as of today.
func (c *Client) EndContract(ctx context.Context, id int) (*Contract, error) {
	var contract Contract
	if err := c.do(ctx, request{method: http.MethodPost, path: idPath(PathContracts, id) + "end/", out: &contract}); err != nil {
		return nil, errors.Wrapf(err, "[Client.EndContract] %d", id)
	}
	return &contract, nil
}

// ListAll walks every page of a list endpoint.
func ListAll[T any](ctx context.Context, list func(context.Context, ListParams) (*Page[T], error), p ListParams) ([]T, error) {
	if p.Page <= 0 {
		p.Page = 1
	}
	var all []T
	for {
		page, err := list(ctx, p)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		if page.Next == nil || len(page.Results) == 0 {
			return all, nil
		}
		p.Page++
	}
}
