package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sovanreach/weekplan/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == StateAddActivity && m.form != nil {
		return m.form.View()
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewDayTabs(),
		m.viewDay(),
		m.help.View(m.keys),
	)
	return ui
}

func (m Model) viewHeader() string {
	title := "weekplan"
	progress := fmt.Sprintf("week %d%% done", m.store.CompletionPercentage())
	return headerStyle.Render(fmt.Sprintf("%s · %s · %s", title, progress, m.language))
}

func (m Model) viewDayTabs() string {
	var tabs []string
	for _, day := range m.week.Days {
		name := models.DayName(day.DayOfWeek, m.language)
		if day.IsDayOff {
			name += "*"
		}
		if day.DayOfWeek == m.cursorDay {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDay() string {
	day := m.week.Days[m.cursorDay]

	var b strings.Builder
	if day.IsDayOff {
		b.WriteString(dayOffStyle.Render("day off"))
		b.WriteString("\n")
	}

	for i, slot := range day.TimeSlots {
		name := emptySlotStyle.Render("(empty)")
		if slot.ActivityID != nil {
			label := *slot.ActivityID
			for _, act := range m.activities {
				if act.ID == *slot.ActivityID {
					label = act.Label(m.language)
					break
				}
			}
			if slot.Completed {
				name = completedStyle.Render("✓ " + label)
			} else {
				name = activityStyle.Render(label)
			}
		}

		mark := " "
		if m.swapMark == slot.ID {
			mark = swapMarkStyle.Render("⇄")
		}

		line := fmt.Sprintf("%s %s %s", mark, timeStyle.Render(slot.Time), name)
		if i == m.cursorSlot {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
