// Package tui is a terminal front end for the schedule store: it renders the
// store's current snapshot and translates key presses into store operations.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sovanreach/weekplan/internal/models"
	"github.com/sovanreach/weekplan/internal/schedule"
)

type SessionState int

const (
	StateWeek SessionState = iota
	StateAddActivity
)

type Model struct {
	store *schedule.Store
	state SessionState
	keys  KeyMap
	help  help.Model

	week       models.WeekSchedule
	activities []models.Activity
	language   models.Language

	cursorDay  int
	cursorSlot int
	swapMark   string // slot id marked as the first half of a swap

	form       *huh.Form
	formName   string
	formNameKh string

	quitting bool
	width    int
	height   int
}

func NewModel(store *schedule.Store) Model {
	m := Model{
		store: store,
		state: StateWeek,
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh pulls a fresh snapshot from the store after a mutation.
func (m *Model) refresh() {
	m.week = m.store.WeekSchedule()
	m.activities = m.store.Activities()
	m.language = m.store.Language()
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursorDay < 0 {
		m.cursorDay = 0
	}
	if m.cursorDay > len(m.week.Days)-1 {
		m.cursorDay = len(m.week.Days) - 1
	}
	slots := m.week.Days[m.cursorDay].TimeSlots
	if len(slots) == 0 {
		m.cursorSlot = 0
		return
	}
	if m.cursorSlot < 0 {
		m.cursorSlot = 0
	}
	if m.cursorSlot > len(slots)-1 {
		m.cursorSlot = len(slots) - 1
	}
}

// currentSlot returns the slot under the cursor. ok is false when the current
// day has no slots, in which case slot operations are skipped.
func (m Model) currentSlot() (models.TimeSlot, bool) {
	slots := m.week.Days[m.cursorDay].TimeSlots
	if len(slots) == 0 {
		return models.TimeSlot{}, false
	}
	return slots[m.cursorSlot], true
}

// newActivityForm builds the huh form used to create an activity.
func newActivityForm(name, nameKh *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Activity name").
				Value(name),
			huh.NewInput().
				Title("Khmer label (optional)").
				Value(nameKh),
		),
	)
}
