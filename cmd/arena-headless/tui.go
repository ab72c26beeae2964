package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/simulation"
)

const boardRows = 15

type model struct {
	frame       uint64
	food        int
	viruses     int
	blobs       int
	leaderboard []simulation.Standing
	spectators  func() int

	startTime  time.Time
	lastRate   time.Time
	lastFrame  uint64
	framesRate float64

	updates <-chan *simulation.WorldSnapshot
}

func initialModel(updates <-chan *simulation.WorldSnapshot, spectators func() int) model {
	now := time.Now()
	return model{
		startTime:  now,
		lastRate:   now,
		updates:    updates,
		spectators: spectators,
	}
}

type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func waitForUpdate(updates <-chan *simulation.WorldSnapshot) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		now := time.Time(msg)
		if dt := now.Sub(m.lastRate).Seconds(); dt > 0 {
			m.framesRate = float64(m.frame-min(m.lastFrame, m.frame)) / dt
		}
		m.lastRate, m.lastFrame = now, m.frame
		return m, tickCmd()
	case *simulation.WorldSnapshot:
		if msg == nil {
			// updates closed
			return m, tea.Quit
		}
		if msg.Frame < m.frame {
			// the arena was reset
			m.lastFrame = 0
		}
		m.frame = msg.Frame
		m.food = len(msg.Food)
		m.viruses = len(msg.Viruses)
		m.blobs = len(msg.Blobs)
		m.leaderboard = msg.Leaderboard
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Frame:      %d\n", m.frame)
	fmt.Fprintf(&b, "Frames/Sec: %.1f\n", m.framesRate)
	fmt.Fprintf(&b, "Duration:   %s\n", time.Since(m.startTime).Round(time.Second))
	fmt.Fprintf(&b, "Blobs: %d  Food: %d  Viruses: %d\n", m.blobs, m.food, m.viruses)
	if m.spectators != nil {
		fmt.Fprintf(&b, "Spectators: %d\n", m.spectators())
	}

	b.WriteString("\nLeaderboard:\n")
	for i, st := range m.leaderboard {
		if i == boardRows {
			fmt.Fprintf(&b, "    ... %d more\n", len(m.leaderboard)-boardRows)
			break
		}
		fmt.Fprintf(&b, "%3d. %-14s %-9s %8.0f  blobs %-2d %s\n", i+1, st.Name, st.Kind, st.Mass, st.Blobs, st.State)
	}

	b.WriteString("\nPress q to quit.\n")
	return b.String()
}
