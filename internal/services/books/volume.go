package books

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Placeholders shown when the catalog leaves a field out.
const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
	UnknownYear   = "N/A"
	NoLink        = "#"
)

// Page is one page of search results plus the total the API reported,
// which may exceed len(Items).
type Page struct {
	Items []Volume `json:"items" yaml:"items"`
	Total int      `json:"totalItems" yaml:"totalItems"`
}

// Volume is a single search hit. Only the fields the UI projects are kept;
// all of them may be missing.
type Volume struct {
	ID         string     `json:"id,omitempty" yaml:"id,omitempty"`
	VolumeInfo VolumeInfo `json:"volumeInfo" yaml:"volumeInfo"`
	SearchInfo SearchInfo `json:"searchInfo,omitempty" yaml:"searchInfo,omitempty"`
}

type VolumeInfo struct {
	Title         string     `json:"title,omitempty" yaml:"title,omitempty"`
	Authors       []string   `json:"authors,omitempty" yaml:"authors,omitempty"`
	Publisher     string     `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublishedDate string     `json:"publishedDate,omitempty" yaml:"publishedDate,omitempty"`
	PageCount     int        `json:"pageCount,omitempty" yaml:"pageCount,omitempty"`
	Language      string     `json:"language,omitempty" yaml:"language,omitempty"`
	ImageLinks    ImageLinks `json:"imageLinks,omitempty" yaml:"imageLinks,omitempty"`
	InfoLink      string     `json:"infoLink,omitempty" yaml:"infoLink,omitempty"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty" yaml:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

type SearchInfo struct {
	TextSnippet string `json:"textSnippet,omitempty" yaml:"textSnippet,omitempty"`
}

var (
	yearPattern   = regexp.MustCompile(`\d{4}`)
	snippetPolicy = bluemonday.StrictPolicy()
)

// DisplayTitle returns the title or UnknownTitle.
func (v Volume) DisplayTitle() string {
	if t := strings.TrimSpace(v.VolumeInfo.Title); t != "" {
		return t
	}
	return UnknownTitle
}

// DisplayAuthors returns the non-blank authors, or a single UnknownAuthor.
func (v Volume) DisplayAuthors() []string {
	authors := make([]string, 0, len(v.VolumeInfo.Authors))
	for _, a := range v.VolumeInfo.Authors {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	if len(authors) == 0 {
		return []string{UnknownAuthor}
	}
	return authors
}

func (v Volume) AuthorLine() string {
	return strings.Join(v.DisplayAuthors(), ", ")
}

// Year extracts the publication year from dates like "2008", "2008-08" or
// "2008-08-01". Anything without a plausible year yields UnknownYear.
func (v Volume) Year() string {
	maxYear := time.Now().Year() + 1
	for _, m := range yearPattern.FindAllString(v.VolumeInfo.PublishedDate, -1) {
		y, err := strconv.Atoi(m)
		if err == nil && y >= 1000 && y <= maxYear {
			return m
		}
	}
	return UnknownYear
}

// Pages reports the page count only when it is positive.
func (v Volume) Pages() (int, bool) {
	if v.VolumeInfo.PageCount > 0 {
		return v.VolumeInfo.PageCount, true
	}
	return 0, false
}

// Thumbnail returns the best cover URL, or "" when there is none.
func (v Volume) Thumbnail() string {
	if v.VolumeInfo.ImageLinks.Thumbnail != "" {
		return v.VolumeInfo.ImageLinks.Thumbnail
	}
	return v.VolumeInfo.ImageLinks.SmallThumbnail
}

// Link returns the detail page URL, or NoLink.
func (v Volume) Link() string {
	if l := strings.TrimSpace(v.VolumeInfo.InfoLink); l != "" {
		return l
	}
	return NoLink
}

// Snippet returns the search snippet as plain text. The API sends it as
// HTML with entities and <b> highlighting.
func (v Volume) Snippet() string {
	if v.SearchInfo.TextSnippet == "" {
		return ""
	}
	clean := snippetPolicy.Sanitize(v.SearchInfo.TextSnippet)
	return strings.Join(strings.Fields(html.UnescapeString(clean)), " ")
}

// LanguageName returns the English name of the volume's language tag.
func (v Volume) LanguageName() string {
	if v.VolumeInfo.Language == "" {
		return ""
	}
	tag, err := language.Parse(v.VolumeInfo.Language)
	if err != nil {
		return ""
	}
	return display.English.Tags().Name(tag)
}
