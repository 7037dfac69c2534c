package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gabriel-vasile/mimetype"

	"github.com/amsavalli07/socialsync/internal/models"
)

const (
	DetailInvalidImage   = "Invalid image data"
	DetailUnsupported    = "Unsupported image format"
	DetailCaptionTooLong = "Caption is too long"
	MessagePosted        = "Posted successfully to all platforms"
)

// PostHandler accepts uploads, records them and fabricates the hosted media and platform results.
type PostHandler struct {
	posts  models.Log[*models.Post]
	logger *log.Logger
	now    func() time.Time
}

// Routes implements [Handler].
func (h *PostHandler) Routes() []Route {
	return []Route{
		{http.MethodPost, "/api/upload-socialmedia/", h.upload},
	}
}

func (h *PostHandler) upload(w http.ResponseWriter, r *http.Request) {
	var req models.PostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len([]rune(req.Caption)) > models.MaxCaptionLength {
		writeDetail(w, http.StatusBadRequest, DetailCaptionTooLong)
		return
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.Image))
	if err != nil || len(data) == 0 {
		writeDetail(w, http.StatusBadRequest, DetailInvalidImage)
		return
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		writeDetail(w, http.StatusUnsupportedMediaType, DetailUnsupported)
		return
	}
	format := strings.TrimPrefix(mt.Extension(), ".")

	var width, height int
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		width, height = cfg.Width, cfg.Height
	} else {
		h.logger.Debug("image dimensions unavailable", "format", format, "error", err)
	}

	post := models.NewPost(0, req.Caption, format, width, height, len(data))
	post.SetCreatedAt(h.now().UTC())
	if err := h.posts.Create(post); err != nil {
		h.logger.Error("failed to record post", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	ref := func(p models.Platform) *models.SocialMediaResponse {
		return &models.SocialMediaResponse{ID: fmt.Sprintf("%s_%d", p, post.Sequence())}
	}
	facebook := ref(models.Facebook)
	facebook.PostID = fmt.Sprintf("page_%d_%d", post.Sequence(), post.CreatedAt().Unix())

	h.logger.Info("post uploaded", "id", post.ID(), "format", format, "bytes", len(data), "width", width, "height", height)
	writeJSON(w, http.StatusOK, models.PostResponse{
		Message: MessagePosted,
		Data: models.PostResult{
			Caption:    post.Caption(),
			UploadedAt: post.CreatedAt(),
			Media: models.CloudinaryResponse{
				SecureURL: fmt.Sprintf("%s/media/%s.%s", origin(r), post.ID(), format),
				PublicID:  post.ID(),
				Format:    format,
				Width:     width,
				Height:    height,
			},
			Instagram: ref(models.Instagram),
			Facebook:  facebook,
			Twitter:   ref(models.Twitter),
			LinkedIn:  ref(models.LinkedIn),
		},
	})
}

func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
