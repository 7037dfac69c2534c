package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/amsavalli07/socialsync/internal/notify"
	"github.com/amsavalli07/socialsync/internal/session"
)

var palettes = map[session.Theme]*Palette{
	session.ThemeLight: NewPalette("#5A3FD6", "#0B7A4B", "#C62828", "#B26A00", "#6B6B6B"),
	session.ThemeDark:  NewPalette("#B7A4FF", "#04D98B", "#FF6B6B", "#FFB347", "#9A9A9A"),
}

// PaletteFor returns the stylesheet of theme t, falling back to light.
func PaletteFor(t session.Theme) *Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[session.ThemeLight]
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	label lipgloss.Style
	focus lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		label: NewStyle(h),
		focus: NewBold(t),
	}
}

// Notice renders n in the style of its level.
func (p *Palette) Notice(n notify.Notice) string {
	switch n.Level {
	case notify.Success:
		return p.ok.Render(n.Message)
	case notify.Error:
		return p.err.Render(n.Message)
	default:
		return p.warn.Render(n.Message)
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
