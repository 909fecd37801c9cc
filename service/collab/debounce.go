package collab

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"CollabProject/logger"
)

// DefaultDebounceWindow is the quiet period after which a coalesced edit
// burst is flushed to durable storage.
const DefaultDebounceWindow = 500 * time.Millisecond

// pendingWrite is the single in-flight write slot for a document: the latest
// payload, the identity that produced it, and the armed timer. A new edit
// replaces the payload and restarts the timer; it never queues.
type pendingWrite struct {
	content []byte
	userID  string
	timer   *clock.Timer
}

// Debouncer coalesces edit bursts per document into one delayed write.
// Authorization is evaluated at flush time against the identity tagged on
// the latest edit, so a mid-burst revocation stops the write. The timer is
// never cancelled by disconnect: the last known content is persisted even if
// the submitting connection has since closed.
type Debouncer struct {
	mu      sync.Mutex
	clk     clock.Clock
	window  time.Duration
	access  AccessChecker
	writer  ContentWriter
	pending map[string]*pendingWrite // docID -> slot
}

func NewDebouncer(window time.Duration, clk clock.Clock, access AccessChecker, writer ContentWriter) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Debouncer{
		clk:     clk,
		window:  window,
		access:  access,
		writer:  writer,
		pending: make(map[string]*pendingWrite),
	}
}

// Submit records the latest content for a document. userID may be empty for
// anonymous edits; the flush will discard those.
func (d *Debouncer) Submit(docID, userID string, content []byte) {
	if docID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if p := d.pending[docID]; p != nil {
		p.content = content
		p.userID = userID
		p.timer.Reset(d.window)
		return
	}
	p := &pendingWrite{content: content, userID: userID}
	p.timer = d.clk.AfterFunc(d.window, func() { d.flush(docID) })
	d.pending[docID] = p
}

// flush clears the pending slot, then authorizes and persists outside the
// lock. Unauthorized and anonymous writes are discarded silently; peers
// already saw the content through the router, persistence is decoupled.
func (d *Debouncer) flush(docID string) {
	d.mu.Lock()
	p := d.pending[docID]
	if p == nil {
		d.mu.Unlock()
		return
	}
	delete(d.pending, docID)
	userID, content := p.userID, p.content
	d.mu.Unlock()

	if userID == "" {
		logger.Debugf("[debounce] dropping anonymous edit doc=%s", docID)
		return
	}
	ctx := context.Background()
	if !d.access.CheckAccess(ctx, userID, docID) {
		logger.Warnf("[debounce] unauthorized flush dropped doc=%s user=%s", docID, userID)
		return
	}
	if err := d.writer.WriteContent(ctx, docID, content, d.clk.Now()); err != nil {
		// not retried; the next edit+flush cycle bounds the loss window
		logger.Errorf("[debounce] write failed doc=%s user=%s err=%v", docID, userID, err)
	}
}
