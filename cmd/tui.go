// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/corvid-labs/slipbus/pkg/packet"
)

// Packet log entry
type packetLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool // true for frame errors, false for valid packets
}

// TUI model
type tuiModel struct {
	connInfo      string
	showAll       bool
	stats         *packet.Statistics
	packetLog     []packetLogEntry
	maxLogEntries int
	logView       viewport.Model
	synchronized  bool
	invalidBytes  int
	width         int
	height        int
	quitting      bool
	lastCommand   string
	lastLen       int
}

// Messages
type tuiTickMsg time.Time
type packetMsg struct {
	pkt *packet.Packet
}
type frameErrorMsg struct {
	code packet.ErrorCode
}
type tuiSyncMsg struct {
	invalidBytes int
}
type connLostMsg struct {
	err error
}

func initialTuiModel(connInfo string, showAll bool) tuiModel {
	vp := viewport.New(80, 10)
	return tuiModel{
		connInfo:      connInfo,
		showAll:       showAll,
		stats:         packet.NewStatistics(),
		packetLog:     make([]packetLogEntry, 0),
		maxLogEntries: 200,
		logView:       vp,
		width:         80,
		height:        24,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(
		tuiTickCmd(),
		tea.EnterAltScreen,
	)
}

func tuiTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tuiTickMsg(t)
	})
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "c":
			m.stats.Reset()
			m.packetLog = m.packetLog[:0]
			m.refreshLogView()
		default:
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 4
		logHeight := msg.Height - 12
		if logHeight < 5 {
			logHeight = 5
		}
		m.logView.Height = logHeight
		m.refreshLogView()

	case tuiTickMsg:
		// Update statistics rates
		m.stats.CalculateRates()
		return m, tuiTickCmd()

	case tuiSyncMsg:
		m.synchronized = true
		m.invalidBytes = msg.invalidBytes
		if msg.invalidBytes > 0 {
			m.addLogEntry(fmt.Sprintf("Synchronized after skipping %d invalid bytes", msg.invalidBytes), false)
		} else {
			m.addLogEntry("Synchronized", false)
		}

	case frameErrorMsg:
		if m.synchronized {
			m.stats.Update(msg.code)
			m.addLogEntry(fmt.Sprintf("FRAME ERROR: %s", msg.code), true)
		}

	case packetMsg:
		m.stats.Update(packet.ErrNone)
		m.lastCommand = packet.CommandName(msg.pkt.Command())
		m.lastLen = msg.pkt.DataLen()
		if m.showAll {
			m.addLogEntry(fmt.Sprintf("%s (0x%02X) len=%d crc=0x%02X",
				packet.CommandName(msg.pkt.Command()), msg.pkt.Command(),
				msg.pkt.DataLen(), msg.pkt.CRC()), false)
		}

	case connLostMsg:
		m.addLogEntry(fmt.Sprintf("CONNECTION LOST: %v", msg.err), true)
	}

	return m, nil
}

func (m *tuiModel) addLogEntry(message string, isError bool) {
	entry := packetLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.packetLog = append(m.packetLog, entry)

	// Keep only last N entries
	if len(m.packetLog) > m.maxLogEntries {
		m.packetLog = m.packetLog[len(m.packetLog)-m.maxLogEntries:]
	}
	m.refreshLogView()
}

func (m *tuiModel) refreshLogView() {
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	var content strings.Builder
	if len(m.packetLog) == 0 {
		content.WriteString(headerStyle.Render("  (no packets yet)"))
	} else {
		for _, entry := range m.packetLog {
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				content.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				content.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					infoStyle.Render("• "+entry.message),
				))
			}
		}
	}
	m.logView.SetContent(content.String())
	m.logView.GotoBottom()
}

func (m tuiModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("SLIPBUS - PACKET MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Mode: %s | 'q' quit, 'c' clear",
		m.connInfo, func() string {
			if m.showAll {
				return "All packets"
			}
			return "Errors only"
		}())))
	s.WriteString("\n\n")

	// Sync status
	if !m.synchronized {
		s.WriteString(warningStyle.Render("⏳ Waiting for first valid packet..."))
		s.WriteString("\n\n")
	} else {
		s.WriteString(statsValueStyle.Render("✓ Synchronized"))
		if m.invalidBytes > 0 {
			s.WriteString(headerStyle.Render(fmt.Sprintf(" (skipped %d invalid bytes)", m.invalidBytes)))
		}
		if m.lastCommand != "" {
			s.WriteString(headerStyle.Render(fmt.Sprintf("   Last: %s len=%d", m.lastCommand, m.lastLen)))
		}
		s.WriteString("\n\n")
	}

	// Statistics
	m.stats.CalculateRates()
	var validPercent, errorPercent float64
	totalErrors := m.stats.CRCErrors + m.stats.TooSmall + m.stats.Overflows + m.stats.OtherErrors
	if m.stats.TotalFrames > 0 {
		validPercent = float64(m.stats.ValidFrames) * 100.0 / float64(m.stats.TotalFrames)
		errorPercent = float64(totalErrors) * 100.0 / float64(m.stats.TotalFrames)
	}

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		statsLabelStyle.Render("Total:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalFrames)),
		statsLabelStyle.Render("Valid:"), statsValueStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.stats.ValidFrames, validPercent)),
		statsLabelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d (%.1f%%)", totalErrors, errorPercent)),
	))

	if totalErrors > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
			statsLabelStyle.Render("CRC:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.CRCErrors)),
			statsLabelStyle.Render("Too Small:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.TooSmall)),
			statsLabelStyle.Render("Overflow:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.Overflows)),
		))
	}

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		statsLabelStyle.Render("Frame Rate:"), statsValueStyle.Render(fmt.Sprintf("%.1f pkts/s", m.stats.FrameRate)),
		statsLabelStyle.Render("Error Rate:"), func() string {
			if m.stats.ErrorRate > 0 {
				return errorStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
			}
			return statsValueStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
		}(),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Packet log
	s.WriteString(statsLabelStyle.Render("Recent Packets:"))
	s.WriteString("\n")
	s.WriteString(boxStyle.Width(m.width - 4).Render(m.logView.View()))

	return s.String()
}
