package models

import (
	"fmt"
	"time"

	"github.com/amsavalli07/socialsync/internal/shared"
)

// MaxCaptionLength is the longest caption, in runes, a draft may carry.
const MaxCaptionLength = 280

// Post is an uploaded media record kept by the sandbox backend.
type Post struct {
	id        string
	sequence  int
	caption   string
	format    string
	width     int
	height    int
	sizeBytes int
	createdAt time.Time
}

// NewPost creates an unsaved post record.
func NewPost(sequence int, caption, format string, width, height, sizeBytes int) *Post {
	return &Post{
		sequence:  sequence,
		caption:   caption,
		format:    format,
		width:     width,
		height:    height,
		sizeBytes: sizeBytes,
		createdAt: time.Now(),
	}
}

func (p *Post) ID() string { return p.id }
func (p *Post) Sequence() int { return p.sequence }
func (p *Post) Caption() string { return p.caption }
func (p *Post) Format() string { return p.format }
func (p *Post) Width() int { return p.width }
func (p *Post) Height() int { return p.height }
func (p *Post) SizeBytes() int { return p.sizeBytes }
func (p *Post) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt equals CreatedAt; posts are immutable once stored.
func (p *Post) UpdatedAt() time.Time { return p.createdAt }

func (p *Post) SetID(id string) { p.id = id }
func (p *Post) SetSequence(seq int) { p.sequence = seq }
func (p *Post) SetCreatedAt(t time.Time) { p.createdAt = t }

func (p *Post) Validate() error {
	if p.id == "" {
		return fmt.Errorf("%w: post id", shared.ErrMissingArgument)
	}
	if p.format == "" {
		return fmt.Errorf("%w: post format", shared.ErrMissingArgument)
	}
	if len([]rune(p.caption)) > MaxCaptionLength {
		return fmt.Errorf("%w: caption longer than %d characters", shared.ErrInvalidArgument, MaxCaptionLength)
	}
	return nil
}
