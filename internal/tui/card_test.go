package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/tuannvm/gobooks/internal/services/books"
)

func TestRenderCardWithMissingFields(t *testing.T) {
	out := RenderCard(books.Volume{}, false)

	assert.Contains(t, out, books.UnknownTitle)
	assert.Contains(t, out, "By "+books.UnknownAuthor)
	assert.Contains(t, out, "Published N/A")
	assert.NotContains(t, out, "pages")
	assert.NotContains(t, out, "cover")
	assert.Equal(t, CardHeight, lipgloss.Height(out))
	assert.Equal(t, CardWidth, lipgloss.Width(out))
}

func TestRenderCardWithAllFields(t *testing.T) {
	v := books.Volume{
		VolumeInfo: books.VolumeInfo{
			Title:         "Dune",
			Authors:       []string{"Frank Herbert"},
			PublishedDate: "1965-08-01",
			PageCount:     412,
			Language:      "en",
			ImageLinks:    books.ImageLinks{Thumbnail: "http://img/dune"},
		},
		SearchInfo: books.SearchInfo{TextSnippet: "A <b>desert</b> planet"},
	}
	out := RenderCard(v, true)

	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "By Frank Herbert")
	assert.Contains(t, out, "412 pages")
	assert.Contains(t, out, "Published 1965 · English")
	assert.Contains(t, out, "cover")
	assert.Contains(t, out, "A desert planet")
	assert.Equal(t, CardHeight, lipgloss.Height(out))
}

func TestColumns(t *testing.T) {
	assert.Equal(t, 1, Columns(0))
	assert.Equal(t, 1, Columns(CardWidth))
	assert.Equal(t, 2, Columns(2*CardWidth+cardGap))
	assert.Equal(t, 3, Columns(120))
}

func TestRenderGridRows(t *testing.T) {
	items := volumes("One", "Two", "Three", "Four", "Five")

	rows := GridRows(items, 2*CardWidth+cardGap, -1)
	assert.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, CardHeight, lipgloss.Height(r))
	}

	grid := RenderGrid(items, 2*CardWidth+cardGap, -1)
	assert.Equal(t, 3*CardHeight, len(strings.Split(grid, "\n")))
}
