package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/collectdash/internal/backend"
)

// notesOverlay is the read-only modal listing the notes attached to one
// customer or ticket.
type notesOverlay struct {
	title   string
	loading bool
	notes   []backend.Note
}

// openNotes opens the overlay in its loading state and returns the fetch
// command for the entity's notes.
func (m *model) openNotes(entityKind, entityID, title string) tea.Cmd {
	m.notes = &notesOverlay{title: title, loading: true}
	return loadNotesCmd(m.ctx, m.be, entityKind, entityID)
}

func (m model) updateNotesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Notes), msg.Type == tea.KeyEnter:
		m.notes = nil
	}
	return m, nil
}

func (m model) applyNotesLoaded(msg notesLoadedMsg) (model, tea.Cmd) {
	if m.notes == nil {
		// Overlay was dismissed before the load finished.
		return m, nil
	}
	if msg.err != nil {
		m.notes = nil
		m.setError(fmt.Sprintf("Notes load failed: %v", msg.err))
		return m, nil
	}
	m.notes.loading = false
	m.notes.notes = msg.notes
	return m, nil
}
