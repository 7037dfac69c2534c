package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field is one labelled text input.
type field struct {
	label string
	input textinput.Model
}

// form is a vertical stack of inputs with a single focused field.
type form struct {
	title  string
	fields []field
	focus  int
}

// newForm builds a form with one input per label. Labels mentioning "password" are masked.
func newForm(title string, labels ...string) form {
	f := form{title: title}
	for _, label := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = label
		in.Width = 48
		if strings.Contains(strings.ToLower(label), "password") {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.fields = append(f.fields, field{label: label, input: in})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f *form) focusOn(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.fields[f.focus].input.Blur()
	f.focus = (i + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

func (f *form) next() tea.Cmd { return f.focusOn(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.focusOn(f.focus - 1) }

// blur removes focus from every field, e.g. when a non-text control takes over.
func (f *form) blur() {
	for i := range f.fields {
		f.fields[i].input.Blur()
	}
}

func (f *form) value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return f.fields[i].input.Value()
}

func (f *form) values() []string {
	out := make([]string, len(f.fields))
	for i := range f.fields {
		out[i] = f.fields[i].input.Value()
	}
	return out
}

func (f *form) setValue(i int, v string) {
	if i >= 0 && i < len(f.fields) {
		f.fields[i].input.SetValue(v)
	}
}

func (f *form) clear() {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
	}
}

// update forwards msg to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *form) view(p *Palette) string {
	var b strings.Builder
	b.WriteString(p.title.Render(f.title))
	b.WriteString("\n")
	for i, fl := range f.fields {
		label := p.label.Render(fl.label)
		if i == f.focus && fl.input.Focused() {
			label = p.focus.Render("> " + fl.label)
		}
		b.WriteString(label + "\n  " + fl.input.View() + "\n\n")
	}
	return b.String()
}
