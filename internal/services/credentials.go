package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/amsavalli07/socialsync/internal/models"
)

type credentialRoutes struct {
	get, save, edit string
}

var credentialEndpoints = map[models.Provider]credentialRoutes{
	models.ProviderInstagram: {
		get:  "/api/get-instagram-credentials/",
		save: "/api/save-instagram-credentials/",
		edit: "/api/edit-instagram-credentials/",
	},
	models.ProviderFacebook: {
		get:  "/api/get-facebook-credentials/",
		save: "/api/save-facebook-credentials/",
		edit: "/api/edit-facebook-credentials/",
	},
	models.ProviderBoth: {
		get:  "/api/get-credentials/",
		save: "/api/save-credentials/",
		edit: "/api/update-credentials/",
	},
}

func routesFor(p models.Provider) (credentialRoutes, error) {
	routes, ok := credentialEndpoints[p]
	if !ok {
		return credentialRoutes{}, fmt.Errorf("%w: no credential endpoint for %q", ErrUnexpectedResponse, p)
	}
	return routes, nil
}

// GetCredentials fetches the record stored for userID. Callers check [models.Credentials.Configured].
func (c *Client) GetCredentials(ctx context.Context, p models.Provider, userID string) (models.Credentials, error) {
	routes, err := routesFor(p)
	if err != nil {
		return nil, err
	}
	path := routes.get + url.PathEscape(userID)

	switch p {
	case models.ProviderInstagram:
		var out models.InstagramCredentials
		err = c.doJSON(ctx, http.MethodGet, path, nil, &out)
		return out, err
	case models.ProviderFacebook:
		var out models.FacebookCredentials
		err = c.doJSON(ctx, http.MethodGet, path, nil, &out)
		return out, err
	default:
		var out models.BothCredentials
		err = c.doJSON(ctx, http.MethodGet, path, nil, &out)
		return out, err
	}
}

// SaveCredentials creates the first record for cred's provider.
func (c *Client) SaveCredentials(ctx context.Context, cred models.Credentials) error {
	routes, err := routesFor(cred.Provider())
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, routes.save, cred, nil)
}

// UpdateCredentials replaces the existing record for cred's provider.
func (c *Client) UpdateCredentials(ctx context.Context, cred models.Credentials) error {
	routes, err := routesFor(cred.Provider())
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPut, routes.edit, cred, nil)
}
