package tui

import (
	"sync"

	"github.com/derailed/tview"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/render"
)

// MessageRow pairs a displayed message with its list row.
type MessageRow struct {
	Msg *models.Message
}

// MessageList is a message panel: a tview list whose rows track the display
// copy of each message.
type MessageList struct {
	*tview.List

	name     string
	renderer *render.MessageRenderer
	rows     []*MessageRow
}

// NewMessageList creates an empty message panel.
func NewMessageList(name string, renderer *render.MessageRenderer) *MessageList {
	l := tview.NewList().ShowSecondaryText(false)
	l.SetBorder(true)
	return &MessageList{List: l, name: name, renderer: renderer}
}

// SetMessages replaces the panel contents.
func (m *MessageList) SetMessages(msgs []*models.Message, targetID string) {
	m.List.Clear()
	m.rows = m.rows[:0]
	for _, msg := range msgs {
		row := &MessageRow{Msg: msg}
		m.rows = append(m.rows, row)
		text := m.renderer.ListRow(msg, 0)
		if targetID != "" && msg.ID == targetID {
			text = "[yellow::b]▶ " + text + "[-:-:-]"
		}
		m.List.AddItem(text, "", 0, nil)
	}
}

// ClearMessages empties the panel.
func (m *MessageList) ClearMessages() {
	m.List.Clear()
	m.rows = nil
}

// Messages returns the display copies in panel order.
func (m *MessageList) Messages() []*models.Message {
	msgs := make([]*models.Message, 0, len(m.rows))
	for _, row := range m.rows {
		msgs = append(msgs, row.Msg)
	}
	return msgs
}

// MessageAt returns the message behind a row, nil when out of range.
func (m *MessageList) MessageAt(row int) *models.Message {
	if row < 0 || row >= len(m.rows) {
		return nil
	}
	return m.rows[row].Msg
}

// Current returns the message behind the selected row.
func (m *MessageList) Current() *models.Message {
	return m.MessageAt(m.GetCurrentItem())
}

// redrawRow re-renders one row from its display copy, keeping any target
// marker it carried.
func (m *MessageList) redrawRow(row int, targetID string) {
	msg := m.MessageAt(row)
	if msg == nil {
		return
	}
	text := m.renderer.ListRow(msg, 0)
	if targetID != "" && msg.ID == targetID {
		text = "[yellow::b]▶ " + text + "[-:-:-]"
	}
	m.List.SetItemText(row, text, "")
}

// ViewRef addresses one row of one panel currently showing a message.
type ViewRef struct {
	List *MessageList
	Row  int
}

// Registry is the in-memory index from message identifier to every panel row
// currently displaying it. It replaces walking the rendered views: a flag
// update asks the registry for all rows showing the message and patches each
// one in place. Rebound whenever a panel renders or clears.
type Registry struct {
	mu    sync.RWMutex
	byMsg map[string][]ViewRef
	lists map[*MessageList]string // list -> target ID it was rendered with
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byMsg: make(map[string][]ViewRef),
		lists: make(map[*MessageList]string),
	}
}

// Bind replaces the registry entries for a panel with its current rows.
// targetID is the panel's context target, preserved on redraw.
func (r *Registry) Bind(list *MessageList, targetID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unbindLocked(list)
	r.lists[list] = targetID
	for i, row := range list.rows {
		r.byMsg[row.Msg.ID] = append(r.byMsg[row.Msg.ID], ViewRef{List: list, Row: i})
	}
}

// Unbind drops a panel's entries, for when it is cleared.
func (r *Registry) Unbind(list *MessageList) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unbindLocked(list)
	delete(r.lists, list)
}

func (r *Registry) unbindLocked(list *MessageList) {
	for id, refs := range r.byMsg {
		kept := refs[:0]
		for _, ref := range refs {
			if ref.List != list {
				kept = append(kept, ref)
			}
		}
		if len(kept) == 0 {
			delete(r.byMsg, id)
		} else {
			r.byMsg[id] = kept
		}
	}
}

// Refs returns every panel row currently showing the message.
func (r *Registry) Refs(messageID string) []ViewRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	refs := make([]ViewRef, len(r.byMsg[messageID]))
	copy(refs, r.byMsg[messageID])
	return refs
}

// ApplyFlag patches the display copy and redraws every row showing the
// message. Returns how many rows were updated.
func (r *Registry) ApplyFlag(messageID, rawFlag string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	refs := r.byMsg[messageID]
	for _, ref := range refs {
		if msg := ref.List.MessageAt(ref.Row); msg != nil {
			msg.Flag = rawFlag
		}
		ref.List.redrawRow(ref.Row, r.lists[ref.List])
	}
	return len(refs)
}
