package usecase

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"

	"todochat/internal/domain"
	"todochat/internal/infra/tracer"
)

// Banner fallbacks when the server's error envelope carries no message.
const (
	sendFallbackMsg    = "Failed to send message. Please try again."
	historyFallbackMsg = "Failed to load chat history"
)

// Coordinator orchestrates a send operation end to end: optimistic append,
// transport call, reconciliation or rollback, pending toggling, and error
// surfacing. Exactly one send is in flight at a time; the pending flag is the
// sole backpressure mechanism and the UI uses it to disable submission.
type Coordinator struct {
	svc        domain.ChatService
	transcript *Transcript
	logger     *slog.Logger
	clock      func() time.Time

	idMu    sync.Mutex
	entropy *ulid.MonotonicEntropy

	mu        sync.Mutex
	pending   bool
	lastError string
}

// NewCoordinator creates a coordinator bound to svc and transcript.
func NewCoordinator(svc domain.ChatService, transcript *Transcript, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		svc:        svc,
		transcript: transcript,
		logger:     logger,
		clock:      time.Now,
		entropy:    ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Transcript returns the store this coordinator writes to.
func (c *Coordinator) Transcript() *Transcript { return c.transcript }

// Pending reports whether a send is in flight.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// LastError returns the current banner text; empty means no banner.
func (c *Coordinator) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// DismissError clears the banner. No retry is implied.
func (c *Coordinator) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = ""
}

// NewConversation discards the session: transcript cleared, conversation id
// back to empty, banner dismissed. Safe at any time; a response still in
// flight for the old conversation is discarded on arrival.
func (c *Coordinator) NewConversation() {
	c.transcript.Reset()
	c.mu.Lock()
	c.lastError = ""
	c.mu.Unlock()
}

// Send runs one send operation to completion. Blank input (after trimming)
// and send-while-pending both degrade to a no-op rather than an error; the
// input layer already prevents both, this re-validates defensively.
func (c *Coordinator) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if !c.begin() {
		return nil
	}
	defer c.end()

	ctx, span := tracer.StartSpan(ctx, "chat.send")
	defer span.End()

	provisional := domain.Message{
		ID:        domain.ProvisionalIDPrefix + c.newULID(),
		Role:      domain.RoleUser,
		Content:   text,
		CreatedAt: c.clock(),
	}
	if err := c.transcript.Append(provisional); err != nil {
		// Duplicate provisional id means broken bookkeeping; surface loudly.
		c.logger.Error("optimistic append rejected", "id", provisional.ID, "error", err)
		tracer.RecordError(span, err)
		return err
	}

	convID := c.transcript.ConversationID()
	span.SetAttributes(attribute.Bool("chat.new_conversation", convID == ""))

	res, err := c.svc.SendMessage(ctx, domain.SendRequest{Message: text, ConversationID: convID})
	if err != nil {
		c.setError(domain.UserMessage(err, sendFallbackMsg))
		c.transcript.RemoveByID(provisional.ID)
		c.logger.Warn("send failed, optimistic message rolled back", "error", err)
		tracer.RecordError(span, err)
		return err
	}

	// The session may have been superseded while the call was in flight
	// (user started a new conversation); drop the stale response.
	if cur := c.transcript.ConversationID(); cur != convID {
		c.transcript.RemoveByID(provisional.ID)
		c.logger.Info("discarding response for superseded conversation",
			"sent_for", convID, "current", cur)
		return nil
	}

	if convID == "" {
		c.transcript.SetConversationID(res.ConversationID)
	}

	durable := provisional
	durable.ID = domain.UserIDPrefix + c.newULID()
	agent := domain.Message{
		ID:        res.MessageID,
		Role:      domain.RoleAgent,
		Content:   res.Response,
		CreatedAt: c.clock(),
		ToolCalls: res.ToolCalls,
	}
	if err := c.transcript.Reconcile(provisional.ID, durable, agent); err != nil {
		// NotFound here means a reset won the race after the conversation id
		// check; nothing to reconcile. Anything else is a bookkeeping bug.
		c.logger.Error("reconciliation failed", "provisional", provisional.ID, "error", err)
		c.transcript.RemoveByID(provisional.ID)
		tracer.RecordError(span, err)
		return err
	}

	tracer.SetOK(span)
	return nil
}

// LoadHistory fetches prior conversation state once at session start and
// installs it atomically. A "no history yet" signal leaves the session empty
// and silent; any other failure raises the banner but keeps the session
// usable.
func (c *Coordinator) LoadHistory(ctx context.Context) error {
	ctx, span := tracer.StartSpan(ctx, "chat.load_history")
	defer span.End()

	h, err := c.svc.History(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoHistory) {
			c.logger.Debug("no prior conversation, starting empty")
			return nil
		}
		c.setError(domain.UserMessage(err, historyFallbackMsg))
		c.logger.Warn("history load failed", "error", err)
		tracer.RecordError(span, err)
		return err
	}

	if err := c.transcript.SetAll(h.ConversationID, h.Messages); err != nil {
		c.setError(historyFallbackMsg)
		c.logger.Error("history snapshot rejected", "error", err)
		tracer.RecordError(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("chat.history_messages", len(h.Messages)))
	tracer.SetOK(span)
	return nil
}

// begin transitions Idle -> Sending, clearing the banner. Returns false when
// a send is already pending.
func (c *Coordinator) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return false
	}
	c.pending = true
	c.lastError = ""
	return true
}

func (c *Coordinator) end() {
	c.mu.Lock()
	c.pending = false
	c.mu.Unlock()
}

func (c *Coordinator) setError(msg string) {
	c.mu.Lock()
	c.lastError = msg
	c.mu.Unlock()
}

// newULID generates a session-unique id component. The monotonic entropy
// source is not goroutine safe, hence the guard.
func (c *Coordinator) newULID() string {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(c.clock()), c.entropy).String()
}
