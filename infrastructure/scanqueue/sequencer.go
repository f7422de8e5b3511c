package scanqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"stocktaker/infrastructure/barcode"
	"stocktaker/infrastructure/prestashop"
)

// State is the sequencer's externally visible phase.
type State string

const (
	StateIdle           State = "idle"
	StateProcessing     State = "processing"
	StateAwaitingChoice State = "awaiting_choice"
	StateUpdating       State = "updating"
)

var (
	ErrClosed        = errors.New("scan pipeline closed")
	ErrUnrecognized  = errors.New("unrecognized barcode format")
	ErrNotAwaiting   = errors.New("no product choice pending")
	ErrChoiceOutside = errors.New("choice index out of range")
)

// DefaultCallTimeout bounds each remote call so a stalled shop cannot wedge
// the queue.
const DefaultCallTimeout = 20 * time.Second

// Resolver searches the shop for candidates matching a scanned code.
type Resolver interface {
	SearchByBarcode(ctx context.Context, info barcode.Info) ([]prestashop.Match, error)
}

// Mutator applies a one-unit stock increment for a chosen candidate.
type Mutator interface {
	IncrementStock(ctx context.Context, productID, combinationID int64) (prestashop.StockChange, error)
}

// Recorder persists a completed scan into the session ledger. A recorder
// failure does not undo the remote stock change; it is logged and the scan
// still counts as applied.
type Recorder interface {
	RecordScan(ctx context.Context, match prestashop.Match, change prestashop.StockChange) error
}

// Result describes the most recently applied scan.
type Result struct {
	Match  prestashop.Match       `json:"match"`
	Change prestashop.StockChange `json:"change"`
	At     time.Time              `json:"at"`
}

// Snapshot is a consistent copy of the sequencer state for the UI.
type Snapshot struct {
	State      State              `json:"state"`
	Current    string             `json:"current,omitempty"`
	Queued     []string           `json:"queued"`
	Candidates []prestashop.Match `json:"candidates,omitempty"`
	HeldError  string             `json:"heldError,omitempty"`
	LastResult *Result            `json:"lastResult,omitempty"`
}

// Sequencer drains scans strictly in submission order with exactly one scan
// in flight. Ambiguous matches pause the queue until the operator chooses or
// cancels, and a failed scan holds the queue until the error is dismissed.
// A single worker goroutine owns the drain loop; all mutation goes through
// the mutex and the condition variable.
type Sequencer struct {
	resolver    Resolver
	mutator     Mutator
	recorder    Recorder
	callTimeout time.Duration

	mu              sync.Mutex
	cond            *sync.Cond
	queue           []barcode.Info
	state           State
	current         barcode.Info
	candidates      []prestashop.Match
	choice          int
	choiceCancelled bool
	heldErr         string
	lastResult      *Result
	closed          bool
	done            chan struct{}
}

func NewSequencer(resolver Resolver, mutator Mutator, recorder Recorder) *Sequencer {
	s := &Sequencer{
		resolver:    resolver,
		mutator:     mutator,
		recorder:    recorder,
		callTimeout: DefaultCallTimeout,
		state:       StateIdle,
		choice:      -1,
		done:        make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

// Submit enqueues a classified scan. Only empty input is rejected; a code
// with an unrecognised symbology is still queued and attempted against the
// shop as a raw string, where it may legitimately yield zero matches.
func (s *Sequencer) Submit(info barcode.Info) error {
	if info.Code == "" {
		return ErrUnrecognized
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.queue = append(s.queue, info)
	s.cond.Broadcast()
	return nil
}

// Choose picks one of the pending candidates and resumes the held scan.
func (s *Sequencer) Choose(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state != StateAwaitingChoice {
		return ErrNotAwaiting
	}
	if index < 0 || index >= len(s.candidates) {
		return ErrChoiceOutside
	}
	s.choice = index
	s.cond.Broadcast()
	return nil
}

// CancelChoice drops the scan that was waiting on a choice. Scans queued
// behind it are unaffected.
func (s *Sequencer) CancelChoice() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state != StateAwaitingChoice {
		return ErrNotAwaiting
	}
	s.choiceCancelled = true
	s.cond.Broadcast()
	return nil
}

// DismissError clears a held failure and lets the queue drain again.
func (s *Sequencer) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heldErr = ""
	s.cond.Broadcast()
}

// Snapshot returns a copy of the current state for rendering.
func (s *Sequencer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:     s.state,
		Current:   s.current.Code,
		Queued:    make([]string, len(s.queue)),
		HeldError: s.heldErr,
	}
	for i, info := range s.queue {
		snap.Queued[i] = info.Code
	}
	if len(s.candidates) > 0 {
		snap.Candidates = append([]prestashop.Match(nil), s.candidates...)
	}
	if s.lastResult != nil {
		res := *s.lastResult
		snap.LastResult = &res
	}
	return snap
}

// Close stops the worker. Queued scans that have not started are discarded.
func (s *Sequencer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
	<-s.done
}

func (s *Sequencer) run() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		for !s.closed && (len(s.queue) == 0 || s.heldErr != "") {
			s.cond.Wait()
		}
		if s.closed {
			close(s.done)
			return
		}
		s.current = s.queue[0]
		s.queue = s.queue[1:]
		s.state = StateProcessing
		s.processCurrent()
		s.state = StateIdle
		s.current = barcode.Info{}
		s.candidates = nil
		s.cond.Broadcast()
	}
}

// processCurrent runs with the mutex held and releases it only around the
// remote calls, so observers always see a coherent state.
func (s *Sequencer) processCurrent() {
	info := s.current
	matches, err := s.resolve(info)
	if s.closed {
		return
	}
	if err != nil {
		s.heldErr = failureMessage(err)
		return
	}
	if len(matches) == 0 {
		s.heldErr = fmt.Sprintf("No product found with barcode %s", info.Code)
		return
	}

	chosen := matches[0]
	if len(matches) > 1 {
		s.state = StateAwaitingChoice
		s.candidates = matches
		s.choice = -1
		s.choiceCancelled = false
		for s.choice < 0 && !s.choiceCancelled && !s.closed {
			s.cond.Wait()
		}
		if s.closed || s.choiceCancelled {
			return
		}
		chosen = s.candidates[s.choice]
	}

	s.state = StateUpdating
	change, err := s.increment(chosen)
	if s.closed {
		return
	}
	if err != nil {
		s.heldErr = failureMessage(err)
		return
	}
	s.lastResult = &Result{Match: chosen, Change: change, At: time.Now()}
	s.record(chosen, change)
}

func (s *Sequencer) resolve(info barcode.Info) ([]prestashop.Match, error) {
	s.mu.Unlock()
	defer s.mu.Lock()
	ctx, cancel := context.WithTimeout(context.Background(), s.callTimeout)
	defer cancel()
	return s.resolver.SearchByBarcode(ctx, info)
}

func (s *Sequencer) increment(m prestashop.Match) (prestashop.StockChange, error) {
	s.mu.Unlock()
	defer s.mu.Lock()
	ctx, cancel := context.WithTimeout(context.Background(), s.callTimeout)
	defer cancel()
	return s.mutator.IncrementStock(ctx, m.ProductID, m.CombinationID)
}

func (s *Sequencer) record(m prestashop.Match, change prestashop.StockChange) {
	s.mu.Unlock()
	defer s.mu.Lock()
	ctx, cancel := context.WithTimeout(context.Background(), s.callTimeout)
	defer cancel()
	if err := s.recorder.RecordScan(ctx, m, change); err != nil {
		slog.Error("record scan failed",
			slog.String("barcode", m.Barcode),
			slog.Int64("productId", m.ProductID),
			slog.Any("err", err))
	}
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, prestashop.ErrUnauthorized):
		return "Unauthorized: check your API key"
	case errors.Is(err, prestashop.ErrNoStockRecord):
		return "No stock record found for this product"
	case errors.Is(err, context.DeadlineExceeded):
		return "The shop did not respond in time"
	default:
		return err.Error()
	}
}
