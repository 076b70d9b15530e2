package controls

import "strings"

// StatusLine is a Surface that renders the panel as one line of text,
// suitable for a window title or terminal.
type StatusLine struct {
	Prefix string

	brightness string
	saturation string
	status     string
}

// ShowBrightness implements Surface.
func (l *StatusLine) ShowBrightness(_ float64, label string) { l.brightness = label }

// ShowSaturation implements Surface.
func (l *StatusLine) ShowSaturation(_ float64, label string) { l.saturation = label }

// ShowStatus implements Surface.
func (l *StatusLine) ShowStatus(text string) { l.status = text }

// String formats the line, e.g. "GLB Viewer | Brightness 30% | Saturation 80% | Loading model...".
// An empty status is omitted.
func (l *StatusLine) String() string {
	parts := make([]string, 0, 4)
	if l.Prefix != "" {
		parts = append(parts, l.Prefix)
	}
	parts = append(parts, "Brightness "+l.brightness, "Saturation "+l.saturation)
	if l.status != "" {
		parts = append(parts, l.status)
	}
	return strings.Join(parts, " | ")
}
