package services

import (
	"context"
	"net/http"

	"github.com/amsavalli07/socialsync/internal/models"
)

// UploadPost sends one image and caption to every configured platform in a single request.
func (c *Client) UploadPost(ctx context.Context, req models.PostRequest) (*models.PostResponse, error) {
	var out models.PostResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/upload-socialmedia/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
