// Package composer builds a post draft and submits it to every selected platform.
//
// A draft holds one image (as a data URI), a caption of at most 280 runes and
// the selected platforms. It is postable when an image is attached and at least
// one platform is selected. A submission is one request regardless of how many
// platforms are selected; the backend fans out.
package composer

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gabriel-vasile/mimetype"

	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/notify"
	"github.com/amsavalli07/socialsync/internal/shared"
)

const (
	MsgPosted       = "🎉 Posted Successfully to All Platforms!"
	MsgPostFailed   = "Failed to post. Please try again."
	MsgNotPostable  = "Add an image and select at least one platform"
	MsgPostInFlight = "A post is already in progress"
)

// API is the part of the gateway client the composer calls.
type API interface {
	UploadPost(ctx context.Context, req models.PostRequest) (*models.PostResponse, error)
}

// File is an image candidate. ContentType may be empty, in which case it is detected from Data.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadFile loads path into a [File] with a detected content type.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read image: %w", err)
	}
	return File{Name: filepath.Base(path), Data: data}, nil
}

// AttachOutcome tells whether AttachImage took the file.
type AttachOutcome int

const (
	Accepted AttachOutcome = iota
	Rejected
)

func (o AttachOutcome) String() string {
	if o == Rejected {
		return "rejected"
	}
	return "accepted"
}

// Draft is a snapshot of the composer's content.
type Draft struct {
	Image     string
	ImageName string
	MediaType string
	Caption   string
	Platforms []models.Platform
}

// Options configure a [Composer]. Zero durations disable the corresponding timer.
type Options struct {
	DefaultPlatforms []models.Platform
	ClearDelay       time.Duration
	ToastTTL         time.Duration
	Board            *notify.Board
	Logger           *log.Logger
}

// Composer owns the draft being edited.
type Composer struct {
	api    API
	opts   Options
	logger *log.Logger

	mu        sync.Mutex
	image     string
	imageName string
	mediaType string
	caption   string
	defaults  []models.Platform
	selected  map[models.Platform]bool
	clear     *time.Timer
	closed    bool

	posting atomic.Bool
}

// New creates a composer. Without DefaultPlatforms every platform starts selected.
func New(api API, opts Options) *Composer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	defaults := opts.DefaultPlatforms
	if len(defaults) == 0 {
		defaults = models.AllPlatforms()
	}

	return &Composer{
		api:      api,
		opts:     opts,
		logger:   logger.WithPrefix("composer"),
		defaults: defaults,
		selected: selectAll(defaults),
	}
}

func selectAll(platforms []models.Platform) map[models.Platform]bool {
	selected := make(map[models.Platform]bool, len(platforms))
	for _, p := range platforms {
		selected[p] = true
	}
	return selected
}

// AttachImage replaces the draft image with f when its type is image/*.
// Other files are ignored and reported as [Rejected] without an error.
func (c *Composer) AttachImage(f File) (AttachOutcome, error) {
	if len(f.Data) == 0 {
		return Rejected, nil
	}

	ct := f.ContentType
	if ct == "" {
		ct = mimetype.Detect(f.Data).String()
	}
	ct, _, _ = strings.Cut(ct, ";")
	ct = strings.TrimSpace(strings.ToLower(ct))
	if !strings.HasPrefix(ct, "image/") {
		c.logger.Debug("ignoring non-image file", "name", f.Name, "type", ct)
		return Rejected, nil
	}

	uri := "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(f.Data)

	c.mu.Lock()
	c.image, c.imageName, c.mediaType = uri, f.Name, ct
	c.mu.Unlock()
	return Accepted, nil
}

// RemoveImage drops the draft image.
func (c *Composer) RemoveImage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.image, c.imageName, c.mediaType = "", "", ""
}

// SetCaption stores text cut to [models.MaxCaptionLength] runes and reports whether it was cut.
func (c *Composer) SetCaption(text string) bool {
	runes := []rune(text)
	truncated := len(runes) > models.MaxCaptionLength
	if truncated {
		text = string(runes[:models.MaxCaptionLength])
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.caption = text
	return truncated
}

// TogglePlatform flips the selection of id.
func (c *Composer) TogglePlatform(id string) error {
	p, err := models.ParsePlatform(id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected[p] = !c.selected[p]
	return nil
}

// SetPlatforms replaces the selection. Unknown ids leave the selection unchanged.
func (c *Composer) SetPlatforms(ids []string) error {
	next := make(map[models.Platform]bool, len(ids))
	for _, id := range ids {
		p, err := models.ParsePlatform(id)
		if err != nil {
			return err
		}
		next[p] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = next
	return nil
}

// Selected lists the selected platforms in display order.
func (c *Composer) Selected() []models.Platform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedLocked()
}

func (c *Composer) selectedLocked() []models.Platform {
	var out []models.Platform
	for _, p := range models.AllPlatforms() {
		if c.selected[p] {
			out = append(out, p)
		}
	}
	return out
}

// Draft returns a snapshot of the content.
func (c *Composer) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Draft{
		Image:     c.image,
		ImageName: c.imageName,
		MediaType: c.mediaType,
		Caption:   c.caption,
		Platforms: c.selectedLocked(),
	}
}

// CanPost reports whether an image is attached and a platform is selected.
func (c *Composer) CanPost() bool {
	d := c.Draft()
	return d.Image != "" && len(d.Platforms) > 0
}

// Posting reports whether a submission is in flight.
func (c *Composer) Posting() bool {
	return c.posting.Load()
}

// Submit uploads the draft. A second call while one is in flight is rejected without a request.
//
// On success a toast is shown and image and caption are cleared after the clear
// delay; the platform selection is kept. On failure the draft is left intact.
func (c *Composer) Submit(ctx context.Context) (*models.PostResponse, notify.Notice) {
	if !c.posting.CompareAndSwap(false, true) {
		return nil, c.show(notify.Failed(MsgPostInFlight, shared.ErrPostInFlight))
	}
	defer c.posting.Store(false)

	d := c.Draft()
	if d.Image == "" || len(d.Platforms) == 0 {
		return nil, c.show(notify.Failed(MsgNotPostable, shared.ErrNothingToPost))
	}

	_, payload, ok := strings.Cut(d.Image, ",")
	if !ok {
		return nil, c.show(notify.Failed(MsgPostFailed, fmt.Errorf("%w: malformed data uri", shared.ErrInvalidInput)))
	}

	c.logger.Info("submitting post", "platforms", d.Platforms, "caption_len", len([]rune(d.Caption)), "image", d.ImageName)
	resp, err := c.api.UploadPost(ctx, models.PostRequest{Caption: d.Caption, Image: payload})
	if err != nil {
		c.logger.Error("post failed", "error", err)
		return nil, c.show(notify.Failed(MsgPostFailed, err))
	}

	c.scheduleClear()
	return resp, c.show(notify.Toast(MsgPosted, c.opts.ToastTTL))
}

// Close stops the pending clear timer and the board's dismiss timer.
func (c *Composer) Close() {
	c.mu.Lock()
	c.closed = true
	if c.clear != nil {
		c.clear.Stop()
		c.clear = nil
	}
	c.mu.Unlock()

	if c.opts.Board != nil {
		c.opts.Board.Close()
	}
}

// Discard drops the draft, cancels a pending clear and restores the default
// platform selection. Used when the session ends.
func (c *Composer) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clear != nil {
		c.clear.Stop()
		c.clear = nil
	}
	c.resetLocked()
	c.selected = selectAll(c.defaults)
}

func (c *Composer) scheduleClear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.clear != nil {
		c.clear.Stop()
	}
	if c.opts.ClearDelay <= 0 {
		c.resetLocked()
		return
	}
	c.clear = time.AfterFunc(c.opts.ClearDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.closed {
			c.resetLocked()
		}
		c.clear = nil
	})
}

func (c *Composer) resetLocked() {
	c.image, c.imageName, c.mediaType, c.caption = "", "", "", ""
}

func (c *Composer) show(n notify.Notice) notify.Notice {
	if c.opts.Board != nil {
		c.opts.Board.Show(n)
	}
	return n
}
