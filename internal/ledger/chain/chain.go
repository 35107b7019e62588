// Package chain runs the access ledger in process: a single sequencer
// finalizes submitted transactions one at a time, in submission order,
// after a configurable finality delay. An optional Journal makes the
// finalized log durable; on start the journal is replayed to rebuild state.
package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"recordgate/internal/address"
	"recordgate/internal/contenthash"
	"recordgate/internal/ledger"
	"recordgate/internal/model"
)

// ErrJournalDiverged is returned when replaying the journal does not
// reproduce the recorded outcomes.
var ErrJournalDiverged = errors.New("journal replay diverged from recorded outcome")

// Journal persists finalized entries. Append must be durable before it
// returns; Replay yields entries in sequence order.
type Journal interface {
	Append(e ledger.Entry) error
	Replay(fn func(ledger.Entry) error) error
}

// Options configures a Chain.
type Options struct {
	// FinalityDelay is the minimum time a transaction stays pending.
	FinalityDelay time.Duration
	// Journal is optional; without it state lives only in memory.
	Journal Journal
	// Clock stamps finalized entries. Defaults to time.Now in UTC.
	Clock func() time.Time
	// QueueSize bounds the number of transactions awaiting finality.
	QueueSize int
	// OnFinalize is called, outside any lock, with every finalized receipt.
	OnFinalize func(ledger.Receipt)
}

type pending struct {
	receipt ledger.Receipt
	readyAt time.Time
	err     error
	done    chan struct{}
}

// Chain is an in-process ledger.Ledger.
type Chain struct {
	opts Options

	mu    sync.RWMutex
	state *ledger.State
	seq   uint64
	txs   map[ledger.Handle]*pending

	queue     chan *pending
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ ledger.Ledger = (*Chain)(nil)

// New builds a chain, replays opts.Journal if set and starts the sequencer.
func New(opts Options) (*Chain, error) {
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}

	c := &Chain{
		opts:   opts,
		state:  ledger.NewState(),
		txs:    make(map[ledger.Handle]*pending),
		queue:  make(chan *pending, opts.QueueSize),
		closed: make(chan struct{}),
	}

	if opts.Journal != nil {
		if err := opts.Journal.Replay(c.replay); err != nil {
			return nil, fmt.Errorf("replay journal: %w", err)
		}
	}

	c.wg.Add(1)
	go c.run()
	return c, nil
}

func (c *Chain) replay(e ledger.Entry) error {
	if e.Seq != c.seq+1 {
		return fmt.Errorf("%w: entry %d follows %d", ErrJournalDiverged, e.Seq, c.seq)
	}
	status, _ := c.state.Apply(e.Tx, e.Seq, e.Timestamp)
	if status != e.Status {
		return fmt.Errorf("%w: entry %d recorded %s, replayed %s", ErrJournalDiverged, e.Seq, e.Status, status)
	}
	c.seq = e.Seq
	done := make(chan struct{})
	close(done)
	c.txs[e.Handle] = &pending{receipt: e.Receipt(), done: done}
	return nil
}

// Close stops the sequencer. Transactions still pending never finalize.
func (c *Chain) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	c.wg.Wait()
	return nil
}

// Height returns the sequence number of the last finalized transaction.
func (c *Chain) Height() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seq
}

func (c *Chain) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *Chain) run() {
	defer c.wg.Done()
	for {
		select {
		case <-c.closed:
			return
		case p := <-c.queue:
			if wait := time.Until(p.readyAt); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-timer.C:
				case <-c.closed:
					timer.Stop()
					return
				}
			}
			c.finalize(p)
		}
	}
}

func (c *Chain) finalize(p *pending) {
	c.mu.Lock()
	tx := p.receipt.Tx
	seq := c.seq + 1
	at := c.opts.Clock()

	status, rejection := c.state.Check(tx)
	entry := ledger.Entry{Seq: seq, Handle: p.receipt.Handle, Tx: tx, Status: status, Timestamp: at}
	if rejection != nil {
		entry.Reason = rejection.Error()
	}

	if c.opts.Journal != nil {
		if err := c.opts.Journal.Append(entry); err != nil {
			// Not finalized: the sequence number is not consumed and state
			// is untouched.
			p.err = fmt.Errorf("journal append: %w", err)
			p.receipt.Status = ledger.StatusFailed
			p.receipt.Reason = p.err.Error()
			c.mu.Unlock()
			close(p.done)
			return
		}
	}

	if status == ledger.StatusApplied {
		c.state.Apply(tx, seq, at)
	}
	c.seq = seq
	p.receipt = entry.Receipt()
	c.mu.Unlock()
	close(p.done)

	if c.opts.OnFinalize != nil {
		c.opts.OnFinalize(p.receipt)
	}
}

// Submit validates tx and queues it for finalization.
func (c *Chain) Submit(ctx context.Context, tx ledger.Transaction) (ledger.Handle, error) {
	if c.isClosed() {
		return "", ledger.ErrClosed
	}
	ntx, err := tx.Normalize()
	if err != nil {
		return "", err
	}

	p := &pending{
		receipt: ledger.Receipt{Handle: ledger.Handle(uuid.NewString()), Tx: ntx, Status: ledger.StatusPending},
		readyAt: time.Now().Add(c.opts.FinalityDelay),
		done:    make(chan struct{}),
	}

	c.mu.Lock()
	c.txs[p.receipt.Handle] = p
	c.mu.Unlock()

	select {
	case c.queue <- p:
		return p.receipt.Handle, nil
	case <-ctx.Done():
		c.forget(p.receipt.Handle)
		return "", ctx.Err()
	case <-c.closed:
		c.forget(p.receipt.Handle)
		return "", ledger.ErrClosed
	}
}

func (c *Chain) forget(h ledger.Handle) {
	c.mu.Lock()
	delete(c.txs, h)
	c.mu.Unlock()
}

func (c *Chain) lookup(h ledger.Handle) (*pending, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.txs[h]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ledger.ErrUnknownTransaction, h)
	}
	return p, nil
}

// AwaitFinality blocks until h is finalized, ctx ends or the chain closes.
func (c *Chain) AwaitFinality(ctx context.Context, h ledger.Handle) (ledger.Receipt, error) {
	p, err := c.lookup(h)
	if err != nil {
		return ledger.Receipt{}, err
	}

	select {
	case <-p.done:
	case <-ctx.Done():
		return c.snapshot(p), ctx.Err()
	case <-c.closed:
		// The sequencer may have finalized p just before closing.
		select {
		case <-p.done:
		default:
			return c.snapshot(p), ledger.ErrClosed
		}
	}

	r := c.snapshot(p)
	if p.err != nil {
		return r, p.err
	}
	return r, r.Err()
}

// Status returns the current receipt of h.
func (c *Chain) Status(_ context.Context, h ledger.Handle) (ledger.Receipt, error) {
	p, err := c.lookup(h)
	if err != nil {
		return ledger.Receipt{}, err
	}
	return c.snapshot(p), nil
}

func (c *Chain) snapshot(p *pending) ledger.Receipt {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return p.receipt
}

// CheckAccess implements ledger.Reader.
func (c *Chain) CheckAccess(ctx context.Context, owner, requester, hash string) (bool, error) {
	if err := c.ready(ctx); err != nil {
		return false, err
	}
	o, err := normalizeAddress("owner", owner)
	if err != nil {
		return false, err
	}
	r, err := normalizeAddress("requester", requester)
	if err != nil {
		return false, err
	}
	h, err := contenthash.Parse(hash)
	if err != nil {
		return false, fmt.Errorf("%w: hash: %v", ledger.ErrInvalidArgument, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.CheckAccess(o, r, h), nil
}

// ListRecordsOf implements ledger.Reader.
func (c *Chain) ListRecordsOf(ctx context.Context, owner string) ([]model.Record, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	o, err := normalizeAddress("owner", owner)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.RecordsOf(o), nil
}

// ListSharedWith implements ledger.Reader.
func (c *Chain) ListSharedWith(ctx context.Context, grantee string) ([]model.SharedRecord, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	g, err := normalizeAddress("grantee", grantee)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.SharedWith(g), nil
}

func (c *Chain) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isClosed() {
		return ledger.ErrClosed
	}
	return nil
}

func normalizeAddress(field, s string) (string, error) {
	n, err := address.Normalize(s)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ledger.ErrInvalidArgument, field, err)
	}
	return n, nil
}
