package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tuannvm/gobooks/internal/services/books"
)

// Card geometry. Every card has the same outer size so rows line up.
const (
	CardWidth  = 32
	CardHeight = 14
	cardGap    = 1

	cardInner = CardWidth - 4 // border + horizontal padding
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			Width(CardWidth - 2).
			Height(CardHeight - 2)
	selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("62"))

	coverStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))
	noCoverStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("237"))
	cardTitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Bold(true)
	cardAuthorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cardMetaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cardSnippetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true)
	ruleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// clamp wraps s to width and keeps at most lines lines.
func clamp(s string, width, lines int) string {
	return lipgloss.NewStyle().Width(width).MaxHeight(lines).Render(s)
}

// oneLine truncates s to a single line of width cells.
func oneLine(s string, width int) string {
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.ReplaceAll(s, "\n", " "))
}

// RenderCard draws one result. Missing fields fall back to the placeholders
// defined by books.Volume.
func RenderCard(v books.Volume, selected bool) string {
	title := v.DisplayTitle()

	var cover string
	if v.Thumbnail() != "" {
		cover = coverStyle.Width(cardInner).Render(oneLine(" ▣ cover  "+v.Thumbnail(), cardInner))
	} else {
		cover = noCoverStyle.Width(cardInner).Render(oneLine(" "+title, cardInner))
	}

	lines := []string{
		cover,
		cardTitleStyle.Render(clamp(title, cardInner, 2)),
		cardAuthorStyle.Render(oneLine("By "+v.AuthorLine(), cardInner)),
		ruleStyle.Render(strings.Repeat("─", cardInner)),
	}
	if n, ok := v.Pages(); ok {
		lines = append(lines, cardMetaStyle.Render(fmt.Sprintf("%d pages", n)))
	}
	meta := "Published " + v.Year()
	if lang := v.LanguageName(); lang != "" {
		meta += " · " + lang
	}
	lines = append(lines, cardMetaStyle.Render(oneLine(meta, cardInner)))
	if snippet := v.Snippet(); snippet != "" {
		lines = append(lines, cardSnippetStyle.Render(clamp(snippet, cardInner, 3)))
	}

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.MaxHeight(CardHeight).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Columns is how many cards fit side by side in width cells, at least one.
func Columns(width int) int {
	cols := (width + cardGap) / (CardWidth + cardGap)
	if cols < 1 {
		return 1
	}
	return cols
}

// GridRows lays items out in rows of Columns(width) cards. Each returned
// string is one rendered row, CardHeight lines tall.
func GridRows(items []books.Volume, width, selected int) []string {
	cols := Columns(width)
	gap := strings.Repeat(" ", cardGap)

	var rows []string
	for start := 0; start < len(items); start += cols {
		end := min(start+cols, len(items))
		cells := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				cells = append(cells, gap)
			}
			cells = append(cells, RenderCard(items[i], i == selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return rows
}

// RenderGrid renders all items as a grid; selected < 0 highlights nothing.
func RenderGrid(items []books.Volume, width, selected int) string {
	return strings.Join(GridRows(items, width, selected), "\n")
}
