package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sovanreach/weekplan/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsMsg.Width
		m.height = wsMsg.Height
		m.help.Width = wsMsg.Width
	}

	if m.state == StateAddActivity {
		return m.updateAddActivity(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.Up):
			m.cursorSlot--
			m.clampCursor()
		case key.Matches(msg, m.keys.Down):
			m.cursorSlot++
			m.clampCursor()
		case key.Matches(msg, m.keys.Left):
			m.cursorDay = (m.cursorDay + 6) % 7
			m.clampCursor()
		case key.Matches(msg, m.keys.Right):
			m.cursorDay = (m.cursorDay + 1) % 7
			m.clampCursor()

		case key.Matches(msg, m.keys.Complete):
			if slot, ok := m.currentSlot(); ok {
				m.store.ToggleTaskCompletion(slot.ID)
				m.refresh()
			}

		case key.Matches(msg, m.keys.Assign):
			if slot, ok := m.currentSlot(); ok {
				m.store.AssignActivityToSlot(slot.ID, m.nextActivityID())
				m.refresh()
			}

		case key.Matches(msg, m.keys.Clear):
			if slot, ok := m.currentSlot(); ok {
				m.store.AssignActivityToSlot(slot.ID, nil)
				m.refresh()
			}

		case key.Matches(msg, m.keys.Swap):
			slot, ok := m.currentSlot()
			if !ok {
				break
			}
			if m.swapMark == "" {
				m.swapMark = slot.ID
			} else if m.swapMark != slot.ID {
				m.store.SwapActivitySlots(m.swapMark, slot.ID)
				m.swapMark = ""
				m.refresh()
			} else {
				m.swapMark = ""
			}

		case key.Matches(msg, m.keys.CancelOp):
			m.swapMark = ""

		case key.Matches(msg, m.keys.DayOff):
			m.store.ToggleDayOff(m.cursorDay)
			m.refresh()

		case key.Matches(msg, m.keys.Randomize):
			m.store.GenerateRandomSchedule()
			m.refresh()

		case key.Matches(msg, m.keys.Language):
			if m.language == models.LanguageEN {
				m.store.SetLanguage(models.LanguageKH)
			} else {
				m.store.SetLanguage(models.LanguageEN)
			}
			m.refresh()

		case key.Matches(msg, m.keys.NewAct):
			m.formName = ""
			m.formNameKh = ""
			m.form = newActivityForm(&m.formName, &m.formNameKh)
			m.state = StateAddActivity
			return m, m.form.Init()
		}
	}

	return m, nil
}

func (m Model) updateAddActivity(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = StateWeek
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if m.formName != "" {
			m.store.AddActivity(m.formName, m.formNameKh)
		}
		m.state = StateWeek
		m.form = nil
		m.refresh()
		return m, nil
	}

	return m, cmd
}

// nextActivityID cycles the current slot's assignment through the activity
// collection, ending on unassigned after the last activity.
func (m Model) nextActivityID() *string {
	if len(m.activities) == 0 {
		return nil
	}

	slot, ok := m.currentSlot()
	if !ok || slot.ActivityID == nil {
		id := m.activities[0].ID
		return &id
	}

	for i, act := range m.activities {
		if act.ID == *slot.ActivityID {
			if i == len(m.activities)-1 {
				return nil
			}
			id := m.activities[i+1].ID
			return &id
		}
	}

	// Dangling reference; restart the cycle
	id := m.activities[0].ID
	return &id
}
