package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/IlikeChooros/go-menace/pkg/game"
	"github.com/IlikeChooros/go-menace/pkg/ttt"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Pause between a finished game and the next one
const NextGameDelay = time.Second

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFFF00")).
			Padding(0, 2).
			Bold(true)

	cellStyle = lipgloss.NewStyle().
			Width(5).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4B5563"))

	cursorCellStyle = cellStyle.
			BorderForeground(lipgloss.Color("#FFFF00"))

	crossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	circleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60A5FA")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4B5563"))

	winningStyle = lipgloss.NewStyle().
			Reverse(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34D399"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")).
			Italic(true)
)

// Computer player's turn, 'round' tells stale ticks apart
type computerMoveMsg struct{ round int }

type nextGameMsg struct{ round int }

// Terminal UI over a session of games. Human players pick cells with the
// arrow keys and enter (or the numbers 1-9), computer moves are played after
// 'delay'. Finished games are followed by the next one with swapped sides.
type Model struct {
	session *game.Session
	delay   time.Duration
	cursor  ttt.PosType
	round   int
	message string
	err     error
}

func New(session *game.Session, delay time.Duration) Model {
	return Model{session: session, delay: max(0, delay), cursor: ttt.B2}
}

// Error which stopped the program, if any
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return m.schedule()
}

// Timer for whatever happens next without human input
func (m Model) schedule() tea.Cmd {
	g := m.session.Game()
	round := m.round
	if g.Finished() {
		return tea.Tick(NextGameDelay, func(time.Time) tea.Msg {
			return nextGameMsg{round: round}
		})
	}
	if g.Current().Kind == game.HumanInput {
		return nil
	}
	return tea.Tick(m.delay, func(time.Time) tea.Msg {
		return computerMoveMsg{round: round}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case computerMoveMsg:
		g := m.session.Game()
		if msg.round != m.round || g.Finished() || g.Current().Kind == game.HumanInput {
			return m, nil
		}
		if err := g.Step(context.Background()); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, m.schedule()

	case nextGameMsg:
		if msg.round != m.round {
			return m, nil
		}
		return m.next()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor >= 3 {
			m.cursor -= 3
		}
	case "down", "j":
		if m.cursor < 6 {
			m.cursor += 3
		}
	case "left", "h":
		if m.cursor%3 > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%3 < 2 {
			m.cursor++
		}
	case "enter", " ":
		return m.place(m.cursor)
	case "n":
		if m.session.Game().Finished() {
			return m.next()
		}
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= ttt.BoardSize {
			m.cursor = ttt.PosType(n - 1)
			return m.place(m.cursor)
		}
	}
	return m, nil
}

// Move of a human player on given cell
func (m Model) place(idx ttt.PosType) (tea.Model, tea.Cmd) {
	g := m.session.Game()
	if g.Finished() || g.Current().Kind != game.HumanInput {
		return m, nil
	}
	if err := g.Submit(ttt.MoveFromIndex(idx)); err != nil {
		m.message = "cell " + strconv.Itoa(int(idx)+1) + " is taken"
		return m, nil
	}
	m.message = ""
	return m, m.schedule()
}

func (m Model) next() (tea.Model, tea.Cmd) {
	if !m.session.Next() {
		return m, nil
	}
	m.round++
	m.cursor = ttt.B2
	m.message = ""
	return m, m.schedule()
}

func (m Model) View() string {
	g := m.session.Game()
	b := strings.Builder{}

	b.WriteString(titleStyle.Render("MENACE"))
	b.WriteString("\n\n")
	b.WriteString(m.board(g.Position()))
	b.WriteString("\n\n")
	b.WriteString(m.status(g))
	b.WriteString("\n")
	b.WriteString(m.score())
	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(errorStyle.Render(m.message))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("arrows/hjkl move • enter place • 1-9 place • n next game • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) board(pos ttt.Position) string {
	var winning [ttt.BoardSize]bool
	if line, ok := pos.Line(); ok {
		for _, cell := range line.Cells() {
			winning[cell] = true
		}
	}

	cells := pos.Cells()
	rows := make([]string, 3)
	for row := range 3 {
		cols := make([]string, 3)
		for col := range 3 {
			idx := ttt.PosType(row*3 + col)
			content := hintStyle.Render(strconv.Itoa(int(idx) + 1))
			switch cells[idx] {
			case ttt.Cross:
				content = crossStyle.Render("X")
			case ttt.Circle:
				content = circleStyle.Render("O")
			}
			if winning[idx] {
				content = winningStyle.Render(content)
			}

			style := cellStyle
			if idx == m.cursor && !pos.IsTerminated() {
				style = cursorCellStyle
			}
			cols[col] = style.Render(content)
		}
		rows[row] = lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) status(g *game.Game) string {
	pos := g.Position()
	switch pos.Termination() {
	case ttt.TerminationCrossWon, ttt.TerminationCircleWon:
		winner := pos.Winner()
		return infoStyle.Render(fmt.Sprintf("%s (%s) wins, n for the next game", winner, g.Player(winner)))
	case ttt.TerminationDraw:
		return infoStyle.Render("draw, n for the next game")
	}
	return fmt.Sprintf("%s (%s) to move", pos.Turn(), g.Current())
}

func (m Model) score() string {
	score := m.session.Score()
	names := make([]string, 0, len(score.Wins))
	for name := range score.Wins {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+1)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %d", name, score.Wins[name]))
	}
	parts = append(parts, fmt.Sprintf("draws %d", score.Draws))
	return strings.Join(parts, " • ")
}
