package gateway

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

const PathRooms = "/api/rooms/"

func (c *Client) ListRooms(ctx context.Context, p ListParams) (*Page[Room], error) {
	var page Page[Room]
	if err := c.do(ctx, request{method: http.MethodGet, path: PathRooms, query: p.values(), out: &page}); err != nil {
		return nil, errors.Wrap(err, "[Client.ListRooms]")
	}
	return &page, nil
}

func (c *Client) GetRoom(ctx context.Context, id int) (*Room, error) {
	var room Room
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath(PathRooms, id), out: &room}); err != nil {
		return nil, errors.Wrapf(err, "[Client.GetRoom] %d", id)
	}
	return &room, nil
}

func (c *Client) CreateRoom(ctx context.Context, in RoomInput) (*Room, error) {
	var room Room
	if err := c.do(ctx, request{method: http.MethodPost, path: PathRooms, in: in, out: &room}); err != nil {
		return nil, errors.Wrap(err, "[Client.CreateRoom]")
	}
	return &room, nil
}

func (c *Client) UpdateRoom(ctx context.Context, id int, patch RoomPatch) (*Room, error) {
	var room Room
	if err := c.do(ctx, request{method: http.MethodPatch, path: idPath(PathRooms, id), in: patch, out: &room}); err != nil {
		return nil, errors.Wrapf(err, "[Client.UpdateRoom] %d", id)
	}
	return &room, nil
}

func (c *Client) DeleteRoom(ctx context.Context, id int) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: idPath(PathRooms, id)}); err != nil {
		return errors.Wrapf(err, "[Client.DeleteRoom] %d", id)
	}
	return nil
}
