// Package search owns the query text and the outcome of the latest volume
// search. It debounces typing, numbers every request it issues and drops
// responses that were overtaken by a newer request.
//
// All methods must be called from the bubbletea event loop. The returned
// commands are the only code that runs elsewhere, and they only produce
// messages for Update.
package search

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/tuannvm/gobooks/internal/logger"
	"github.com/tuannvm/gobooks/internal/metrics"
	"github.com/tuannvm/gobooks/internal/services/books"
)

const (
	fallbackQuery    = "top books"
	fallbackDebounce = 500 * time.Millisecond
)

// Searcher performs a single volume search.
type Searcher interface {
	Search(ctx context.Context, query string) (*books.Page, error)
}

// Options is the immutable configuration of a Controller.
type Options struct {
	// DefaultQuery is sent whenever the typed query is blank.
	DefaultQuery string
	// Debounce is the quiet period after the last keystroke.
	Debounce time.Duration
}

// EffectiveQuery returns the trimmed query, or def when it is blank.
func EffectiveQuery(query, def string) string {
	if q := strings.TrimSpace(query); q != "" {
		return q
	}
	return def
}

// debounceMsg is delivered when a debounce timer elapses.
type debounceMsg struct {
	id uint64
}

// resultMsg carries the outcome of the request numbered seq.
type resultMsg struct {
	seq   uint64
	query string
	page  *books.Page
	err   error
}

// Controller is the search-and-fetch state machine behind the search box.
type Controller struct {
	opts     Options
	searcher Searcher

	ctx    context.Context
	cancel context.CancelFunc

	query string
	state State

	// seq numbers issued requests; applied is the one reflected in state.
	seq     uint64
	applied uint64

	timerID     uint64
	cancelTimer context.CancelFunc

	stopped bool
}

// New creates a controller. Cancelling ctx, or calling Stop, ends pending
// timers and in-flight requests.
func New(ctx context.Context, searcher Searcher, opts Options) *Controller {
	if strings.TrimSpace(opts.DefaultQuery) == "" {
		opts.DefaultQuery = fallbackQuery
	}
	if opts.Debounce < 0 {
		opts.Debounce = fallbackDebounce
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Controller{
		opts:     opts,
		searcher: searcher,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (c *Controller) Query() string           { return c.query }
func (c *Controller) State() State            { return c.state }
func (c *Controller) Loading() bool           { return c.state.Status == Loading }
func (c *Controller) DefaultQuery() string    { return c.opts.DefaultQuery }
func (c *Controller) Debounce() time.Duration { return c.opts.Debounce }

// Seq is the number of the most recently issued request.
func (c *Controller) Seq() uint64 { return c.seq }

// Applied is the number of the request whose outcome is in State.
func (c *Controller) Applied() uint64 { return c.applied }

// Results returns the current items; empty unless the last search succeeded.
func (c *Controller) Results() []books.Volume {
	if c.state.Status != Succeeded || c.state.Page == nil {
		return nil
	}
	return c.state.Page.Items
}

// Total is the result count reported by the API for the current results.
func (c *Controller) Total() int {
	if c.state.Status != Succeeded || c.state.Page == nil {
		return 0
	}
	return c.state.Page.Total
}

// EffectiveQuery is the query the next search would send.
func (c *Controller) EffectiveQuery() string {
	return EffectiveQuery(c.query, c.opts.DefaultQuery)
}

// Init issues the initial search for the default query.
func (c *Controller) Init() tea.Cmd {
	if c.stopped {
		return nil
	}
	return c.fetch(c.opts.DefaultQuery)
}

// SetQuery replaces the query and restarts the debounce timer. No request is
// made until the timer elapses without another SetQuery.
func (c *Controller) SetQuery(text string) tea.Cmd {
	if c.stopped {
		return nil
	}
	c.query = text
	c.stopTimer()

	c.timerID++
	id := c.timerID
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelTimer = cancel
	d := c.opts.Debounce

	return func() tea.Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return debounceMsg{id: id}
		case <-ctx.Done():
			return nil
		}
	}
}

// Submit skips the debounce and searches for the current query now.
func (c *Controller) Submit() tea.Cmd {
	if c.stopped {
		return nil
	}
	c.stopTimer()
	return c.fetch(c.EffectiveQuery())
}

// RetryDefault clears the query and searches for the default query now.
func (c *Controller) RetryDefault() tea.Cmd {
	if c.stopped {
		return nil
	}
	c.stopTimer()
	c.query = ""
	return c.fetch(c.opts.DefaultQuery)
}

// Stop cancels the pending timer and any in-flight request. Later messages
// and calls are ignored. State is frozen as it was, so a search in flight at
// teardown leaves Loading reporting true; do not read it after Stop.
func (c *Controller) Stop() {
	if c.stopped {
		return
	}
	c.stopTimer()
	c.stopped = true
	c.cancel()
}

// Update applies timer and search messages. Other messages are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if c.stopped {
		return nil
	}
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.id != c.timerID || c.cancelTimer == nil {
			return nil
		}
		// Release the timer context without counting it as debounced.
		c.cancelTimer()
		c.cancelTimer = nil
		return c.fetch(c.EffectiveQuery())

	case resultMsg:
		c.apply(msg)
	}
	return nil
}

func (c *Controller) stopTimer() {
	if c.cancelTimer == nil {
		return
	}
	c.cancelTimer()
	c.cancelTimer = nil
	metrics.DebouncedTotal.Inc()
}

// fetch moves to Loading and returns the command performing the request.
func (c *Controller) fetch(query string) tea.Cmd {
	c.seq++
	seq := c.seq
	c.state = State{Status: Loading, Query: query}

	ctx := logger.WithNewID(c.ctx)
	logger.For(ctx).WithFields(logrus.Fields{"seq": seq, "query": query}).Debug("search issued")

	searcher := c.searcher
	return func() tea.Msg {
		page, err := searcher.Search(ctx, query)
		return resultMsg{seq: seq, query: query, page: page, err: err}
	}
}

func (c *Controller) apply(msg resultMsg) {
	entry := logrus.WithFields(logrus.Fields{"seq": msg.seq, "latest": c.seq, "query": msg.query})
	if msg.seq != c.seq {
		metrics.StaleResponsesTotal.Inc()
		entry.Debug("stale search response discarded")
		return
	}

	c.applied = msg.seq
	switch {
	case msg.err != nil:
		c.state = State{Status: Failed, Query: msg.query, Err: msg.err}
		entry.WithError(msg.err).Debug("search failed")
	case msg.page == nil:
		c.state = State{Status: Succeeded, Query: msg.query, Page: &books.Page{Items: []books.Volume{}}}
	default:
		c.state = State{Status: Succeeded, Query: msg.query, Page: msg.page}
		entry.WithField("items", len(msg.page.Items)).Debug("search applied")
	}
}
