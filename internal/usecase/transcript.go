// Package usecase holds the chat session state machine: the transcript
// store and the send coordinator that keeps it consistent under optimistic
// updates, reconciliation, and rollback.
package usecase

import (
	"sync"

	"todochat/internal/domain"
)

// Transcript is the ordered message list for the active conversation.
// Invariant: message ids are pairwise distinct at every point in time, and
// slice order is display order. All writers are serialized through mu; reads
// hand out copies so renderers never alias the internal slice.
type Transcript struct {
	mu             sync.RWMutex
	conversationID string
	msgs           []domain.Message
	ids            map[string]struct{}
}

// NewTranscript creates an empty transcript with no conversation id.
func NewTranscript() *Transcript {
	return &Transcript{ids: make(map[string]struct{})}
}

// Append adds a message at the end. Returns ErrDuplicateID if the id is
// already present; given coordinator discipline that indicates a bookkeeping
// bug, not a user-facing condition.
func (t *Transcript) Append(msg domain.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appendLocked(msg)
}

func (t *Transcript) appendLocked(msg domain.Message) error {
	if _, ok := t.ids[msg.ID]; ok {
		return domain.NewDomainError("Transcript.Append", domain.ErrDuplicateID, "id "+msg.ID)
	}
	t.msgs = append(t.msgs, msg)
	t.ids[msg.ID] = struct{}{}
	return nil
}

// Replace atomically swaps the entry with oldID for msg, preserving the
// relative order of all other entries. Returns ErrNotFound if oldID is
// absent, ErrDuplicateID if msg.ID already belongs to a different entry.
func (t *Transcript) Replace(oldID string, msg domain.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.replaceLocked(oldID, msg)
}

func (t *Transcript) replaceLocked(oldID string, msg domain.Message) error {
	idx := -1
	for i := range t.msgs {
		if t.msgs[i].ID == oldID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.NewDomainError("Transcript.Replace", domain.ErrNotFound, "id "+oldID)
	}
	if _, ok := t.ids[msg.ID]; ok && msg.ID != oldID {
		return domain.NewDomainError("Transcript.Replace", domain.ErrDuplicateID, "id "+msg.ID)
	}
	delete(t.ids, oldID)
	t.msgs[idx] = msg
	t.ids[msg.ID] = struct{}{}
	return nil
}

// RemoveByID removes an entry and reports whether it was present. Absence is
// a no-op, not an error, to tolerate a rollback racing a superseding reset.
func (t *Transcript) RemoveByID(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.msgs {
		if t.msgs[i].ID == id {
			t.msgs = append(t.msgs[:i], t.msgs[i+1:]...)
			delete(t.ids, id)
			return true
		}
	}
	return false
}

// Reconcile applies the success path of a send as one atomic update: the
// provisional user message is replaced by its durable form and the agent
// message is appended, with no observable intermediate state.
func (t *Transcript) Reconcile(provisionalID string, user, agent domain.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.replaceLocked(provisionalID, user); err != nil {
		return err
	}
	if err := t.appendLocked(agent); err != nil {
		// Undo the replace so a failed reconcile leaves the store untouched.
		prov := user
		prov.ID = provisionalID
		_ = t.replaceLocked(user.ID, prov)
		return err
	}
	return nil
}

// SetAll installs a history snapshot in one atomic swap, so readers never
// see partial content. Any existing state is discarded.
func (t *Transcript) SetAll(conversationID string, msgs []domain.Message) error {
	ids := make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		if _, ok := ids[m.ID]; ok {
			return domain.NewDomainError("Transcript.SetAll", domain.ErrDuplicateID, "id "+m.ID)
		}
		ids[m.ID] = struct{}{}
	}
	cp := make([]domain.Message, len(msgs))
	copy(cp, msgs)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.conversationID = conversationID
	t.msgs = cp
	t.ids = ids
	return nil
}

// Reset clears messages and the conversation id. Safe to call at any time,
// including while a send is in flight; the coordinator discards the stale
// response when it arrives.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conversationID = ""
	t.msgs = nil
	t.ids = make(map[string]struct{})
}

// ConversationID returns the current conversation id; empty means no
// conversation has been established with the server yet.
func (t *Transcript) ConversationID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.conversationID
}

// SetConversationID adopts a server-issued conversation id.
func (t *Transcript) SetConversationID(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conversationID = id
}

// Messages returns a copy of the transcript in display order.
func (t *Transcript) Messages() []domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cp := make([]domain.Message, len(t.msgs))
	copy(cp, t.msgs)
	return cp
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.msgs)
}
