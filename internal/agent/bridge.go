// Package agent runs the external decision policy for the computer player.
//
// A Bridge issues at most one request at a time. Each request gets its own
// context and its own response channel, tagged with a generation number.
// Cancel (and any new Request) bumps the generation, so a response that
// arrives afterwards fails Current and is never applied.
//
// The Bridge itself is not safe for concurrent use: Request, Cancel and
// Current are called from the single goroutine that owns the game state.
// Only the policy call runs elsewhere, and its result comes back as a
// message on Pending.Done.
package agent

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/reversi/internal/board"
)

// DefaultMinDelay is the shortest time between a request and its response
// being released, so computer moves never appear faster than a person can
// follow.
const DefaultMinDelay = 600 * time.Millisecond

// Kind classifies a response
type Kind int

const (
	// Moved carries a coordinate to validate and apply
	Moved Kind = iota
	// Passed means the policy reported no legal move
	Passed
	// TimedOut means the policy did not answer within the decision timeout
	TimedOut
	// Failed means the policy returned an error
	Failed
	// Cancelled responses belong to a request that was superseded
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Moved:
		return "moved"
	case Passed:
		return "passed"
	case TimedOut:
		return "timed-out"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Response is the single message delivered for every request
type Response struct {
	Generation uint64
	Kind       Kind
	Move       board.Coord
	Err        error
	Elapsed    time.Duration
}

// Pending is the handle of an outstanding request
type Pending struct {
	generation uint64
	done       chan Response
	cancel     context.CancelFunc
}

// Generation identifies the request
func (p *Pending) Generation() uint64 {
	return p.generation
}

// Done delivers exactly one Response, including when the request is cancelled
func (p *Pending) Done() <-chan Response {
	return p.done
}

// Bridge owns the channel to the decision policy
type Bridge struct {
	policy   Policy
	clock    quartz.Clock
	logger   *log.Logger
	minDelay time.Duration
	timeout  time.Duration

	generation uint64
	pending    *Pending
}

// Option configures a Bridge
type Option func(*Bridge)

// WithClock sets the clock used for the display delay and the timeout
func WithClock(clock quartz.Clock) Option {
	return func(b *Bridge) { b.clock = clock }
}

// WithMinDelay sets the minimum time before a response is released. Zero
// disables the delay.
func WithMinDelay(d time.Duration) Option {
	return func(b *Bridge) { b.minDelay = d }
}

// WithDecisionTimeout bounds how long the policy may take. Zero waits forever.
func WithDecisionTimeout(d time.Duration) Option {
	return func(b *Bridge) { b.timeout = d }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// NewBridge creates a bridge to policy
func NewBridge(policy Policy, opts ...Option) *Bridge {
	b := &Bridge{
		policy:   policy,
		clock:    quartz.NewReal(),
		logger:   log.New(io.Discard),
		minDelay: DefaultMinDelay,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.WithPrefix("bridge")
	return b
}

// Request asks the policy for White's move on bd. Any outstanding request is
// cancelled first.
func (b *Bridge) Request(bd board.Board) *Pending {
	b.cancelPending()
	b.generation++

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pending{
		generation: b.generation,
		done:       make(chan Response, 1),
		cancel:     cancel,
	}
	b.pending = p

	// Timers start here rather than on the worker goroutine so the delay is
	// measured from the request and a mock clock sees them immediately.
	var delay, deadline *quartz.Timer
	if b.minDelay > 0 {
		delay = b.clock.NewTimer(b.minDelay, "bridge", "delay")
	}
	if b.timeout > 0 {
		deadline = b.clock.NewTimer(b.timeout, "bridge", "timeout")
	}

	b.logger.Debug("Requesting decision", "generation", p.generation)
	go b.run(ctx, p, bd.Encode(board.White), b.clock.Now(), delay, deadline)
	return p
}

// Cancel invalidates the outstanding request, if any. A response it
// eventually produces is marked Cancelled and fails Current.
func (b *Bridge) Cancel() {
	if b.pending != nil {
		b.logger.Debug("Cancelling decision", "generation", b.pending.generation)
	}
	b.cancelPending()
	b.generation++
}

func (b *Bridge) cancelPending() {
	if b.pending == nil {
		return
	}
	b.pending.cancel()
	b.pending = nil
}

// Current reports whether resp answers the outstanding request. Once it
// returns true the request is no longer outstanding.
func (b *Bridge) Current(resp Response) bool {
	if b.pending == nil || resp.Kind == Cancelled {
		return false
	}
	if resp.Generation != b.generation || resp.Generation != b.pending.generation {
		return false
	}
	b.pending = nil
	return true
}

// Outstanding reports whether a request is waiting for its response
func (b *Bridge) Outstanding() bool {
	return b.pending != nil
}

type decision struct {
	move board.Coord
	err  error
}

func (b *Bridge) run(ctx context.Context, p *Pending, cells []int, start time.Time, delay, deadline *quartz.Timer) {
	defer p.cancel()
	if delay != nil {
		defer delay.Stop()
	}

	decided := make(chan decision, 1)
	go func() {
		move, err := b.policy.Decide(ctx, board.Size, cells)
		decided <- decision{move: move, err: err}
	}()

	var timeoutC <-chan time.Time
	if deadline != nil {
		defer deadline.Stop()
		timeoutC = deadline.C
	}

	resp := Response{Generation: p.generation, Move: board.PassCoord}
	select {
	case d := <-decided:
		switch {
		case ctx.Err() != nil:
			resp.Kind = Cancelled
		case d.err != nil:
			resp.Kind = Failed
			resp.Err = d.err
		case d.move.IsPass():
			resp.Kind = Passed
		default:
			resp.Kind = Moved
			resp.Move = d.move
		}
	case <-timeoutC:
		resp.Kind = TimedOut
		resp.Err = context.DeadlineExceeded
	case <-ctx.Done():
		resp.Kind = Cancelled
	}

	if delay != nil && resp.Kind != Cancelled {
		select {
		case <-delay.C:
		case <-ctx.Done():
			resp.Kind = Cancelled
		}
	}

	resp.Elapsed = b.clock.Since(start)
	p.done <- resp
}
