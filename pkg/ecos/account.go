package ecos

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/ecactus/ecos/pkg/log"
	"github.com/ecactus/ecos/pkg/types"
)

// GetUser returns the details of the logged-in account.
func (c *Client) GetUser(ctx context.Context) (types.User, error) {
	log.Ctx(ctx).InfoContext(ctx, "get user")
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLogin(ctx); err != nil {
		return types.User{}, err
	}

	req, err := c.newGetRequest(ctx, "api/client/settings/user/info", nil)
	if err != nil {
		return types.User{}, err
	}

	var user types.User
	if err := c.doRequest(req, &user); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// GetHomes returns the homes of the account. The virtual home holding devices
// shared from other accounts comes back without a usable name, so it is
// renamed to types.SharedDevicesName.
func (c *Client) GetHomes(ctx context.Context) ([]types.Home, error) {
	log.Ctx(ctx).InfoContext(ctx, "get home list")
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}

	req, err := c.newGetRequest(ctx, "api/client/v2/home/family/query", nil)
	if err != nil {
		return nil, err
	}

	var homes []types.Home
	if err := c.doRequest(req, &homes); err != nil {
		return nil, err
	}
	for i := range homes {
		if homes[i].Shared() {
			homes[i].Name = types.SharedDevicesName
		}
	}
	return homes, nil
}

// GetDevices returns the devices of a home. It returns a HomeNotFoundError
// when the home ID is unknown.
func (c *Client) GetDevices(ctx context.Context, homeID string) ([]types.Device, error) {
	log.Ctx(ctx).InfoContext(ctx, "get devices for home", slog.String("homeID", homeID))
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("homeId", homeID)
	req, err := c.newGetRequest(ctx, "api/client/v2/home/device/query", params)
	if err != nil {
		return nil, err
	}

	var devices []types.Device
	if err := c.doRequest(req, &devices); err != nil {
		return nil, wrapHomeErr(err, homeID)
	}
	return devices, nil
}

// GetAllDevices returns the devices across all homes of the account.
func (c *Client) GetAllDevices(ctx context.Context) ([]types.Device, error) {
	log.Ctx(ctx).InfoContext(ctx, "get devices for every home")
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}

	req, err := c.newGetRequest(ctx, "api/client/home/device/list", nil)
	if err != nil {
		return nil, err
	}

	var devices []types.Device
	if err := c.doRequest(req, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}
