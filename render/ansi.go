package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentStyle = lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)

	foregrounds = map[Style]lipgloss.Color{
		StyleAccept:  lipgloss.Color("2"),
		StyleError:   lipgloss.Color("1"),
		StyleWarning: lipgloss.Color("3"),
	}
)

func bodyStyle(s Style) lipgloss.Style {
	fg, ok := foregrounds[s]
	if !ok {
		fg = foregrounds[StyleWarning]
	}
	return accentStyle.Foreground(fg)
}

func headlineStyle(s Style) lipgloss.Style {
	return bodyStyle(s).Bold(true)
}

// styleLines renders each line on its own so lipgloss does not pad them to a
// common width.
func styleLines(st lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = st.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// Text writes the block for a terminal. With color off the style is written
// as a bracketed tag instead.
func Text(w io.Writer, b Block, color bool) error {
	var sb strings.Builder
	if color {
		fmt.Fprintf(&sb, "%s\n", styleLines(headlineStyle(b.Style), b.Headline))
	} else {
		fmt.Fprintf(&sb, "[%s] %s\n", b.Style, b.Headline)
	}
	if b.HasBody {
		if color {
			fmt.Fprintf(&sb, "%s\n", styleLines(bodyStyle(b.Style), b.Body))
		} else {
			fmt.Fprintf(&sb, "%s\n", b.Body)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
