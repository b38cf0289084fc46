// Package tui renders a project's plan as an interactive kanban board.
// Cards are moved with the keyboard: pick a card up, carry it across the
// columns and drop it.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/woolly-dev/woolly/internal/board"
	"github.com/woolly-dev/woolly/pkg/types"
)

// loadedMsg carries a fetched plan, or the reason it could not be fetched.
type loadedMsg struct {
	plan     *types.Plan
	revision string
	err      error
}

// settledMsg reports the end of a write-through.
type settledMsg struct {
	wt  *board.WriteThrough
	err error
}

// editField is the card field a text edit changes.
type editField int

const (
	editNone editField = iota
	editTitle
	editCategory
)

// Model is the bubbletea model of the board view.
type Model struct {
	ctx   context.Context
	store types.PlanStore
	ref   types.ProjectRef
	opts  board.Options

	board *board.Board
	// loadErr is set when the plan could not be fetched; the view shows
	// the board as unavailable until a reload succeeds.
	loadErr error

	col, row int
	editing  editField
	input    textinput.Model
	saving   bool
	status   string

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	width    int
	quitting bool
}

// New creates a board view for ref. The plan is fetched by Init.
func New(ctx context.Context, store types.PlanStore, ref types.ProjectRef, opts board.Options) Model {
	input := textinput.New()
	input.CharLimit = 200
	return Model{
		ctx:     ctx,
		store:   store,
		ref:     ref,
		opts:    opts,
		input:   input,
		keys:    keys,
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:   100,
	}
}

// Run starts the board view and blocks until the user quits.
func Run(ctx context.Context, store types.PlanStore, ref types.ProjectRef, opts board.Options) error {
	p := tea.NewProgram(New(ctx, store, ref, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init fetches the plan.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	ctx, store, ref := m.ctx, m.store, m.ref
	return func() tea.Msg {
		plan, rev, err := store.GetPlan(ctx, ref)
		return loadedMsg{plan: plan, revision: rev, err: err}
	}
}

func (m Model) write(wt *board.WriteThrough) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return settledMsg{wt: wt, err: wt.Run(ctx)}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		return m.handleLoaded(msg), nil

	case settledMsg:
		if m.board == nil {
			return m, nil
		}
		m.board.Settle(msg.wt, msg.err)
		m.saving = false
		m.status = ""
		if msg.err == nil {
			m.status = "saved"
		}
		// Re-fetch so external edits and the stored revision show up.
		return m.clamp(), m.load()

	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEditing(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m Model) handleLoaded(msg loadedMsg) Model {
	if msg.err != nil {
		if m.board != nil {
			m.status = "reload failed: " + msg.err.Error()
			return m
		}
		m.loadErr = msg.err
		return m
	}
	if m.board == nil {
		b, err := board.New(m.ref, m.store, msg.plan, msg.revision, m.opts)
		if err != nil {
			m.loadErr = err
			return m
		}
		m.board = b
	} else if err := m.board.Replace(msg.plan, msg.revision); err != nil {
		// A write-through started after the fetch; its settle reloads.
		if !errors.Is(err, types.ErrBusy) {
			m.loadErr = err
		}
		return m
	}
	m.loadErr = nil
	return m.clamp()
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.load()
	}

	if m.board == nil {
		return m, nil
	}
	dragging := m.board.State().Phase == board.Dragging

	switch {
	case key.Matches(msg, m.keys.Left):
		m.col = max(m.col-1, 0)
		m.row = 0
		m.hover()
	case key.Matches(msg, m.keys.Right):
		m.col = min(m.col+1, len(types.Columns)-1)
		m.row = 0
		m.hover()
	case key.Matches(msg, m.keys.Up):
		if !dragging {
			m.row = max(m.row-1, 0)
		}
	case key.Matches(msg, m.keys.Down):
		if !dragging {
			m.row++
		}
	case key.Matches(msg, m.keys.Cancel):
		m.board.Cancel()
		m.status = ""
	case key.Matches(msg, m.keys.Grab):
		if dragging {
			return m.drop()
		}
		return m.pickUp(), nil
	case key.Matches(msg, m.keys.Drop):
		if dragging {
			return m.drop()
		}
	case key.Matches(msg, m.keys.Edit):
		return m.startEdit(editTitle)
	case key.Matches(msg, m.keys.Category):
		return m.startEdit(editCategory)
	case key.Matches(msg, m.keys.Priority):
		return m.cyclePriority()
	}
	return m.clamp(), nil
}

func (m Model) pickUp() Model {
	card, ok := m.selected()
	if !ok {
		return m
	}
	if err := m.board.StartDrag(card.ID); err != nil {
		m.status = busyOr(err)
		return m
	}
	m.hover()
	m.status = fmt.Sprintf("moving %q", card.Title)
	return m
}

func (m Model) drop() (tea.Model, tea.Cmd) {
	target := board.ColumnTarget(types.Columns[m.col])
	wt, err := m.board.Drop(target)
	if err != nil {
		m.status = busyOr(err)
		return m, nil
	}
	if wt == nil {
		m.status = ""
		return m, nil
	}
	return m.begin(wt)
}

func (m Model) startEdit(field editField) (tea.Model, tea.Cmd) {
	card, ok := m.selected()
	if !ok || m.board.State().Phase != board.Idle {
		return m, nil
	}
	m.editing = field
	m.input.SetValue(card.Title)
	m.input.Prompt = "description: "
	if field == editCategory {
		m.input.SetValue(card.Category)
		m.input.Prompt = "category: "
	}
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = editNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		field := m.editing
		value := m.input.Value()
		m.editing = editNone
		m.input.Blur()

		card, ok := m.selected()
		if !ok {
			return m, nil
		}
		var edit board.CardEdit
		if field == editCategory {
			edit.Category = &value
		} else {
			edit.Title = &value
		}
		wt, err := m.board.Edit(card.ID, edit)
		if err != nil {
			m.status = busyOr(err)
			return m, nil
		}
		return m.begin(wt)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) cyclePriority() (tea.Model, tea.Cmd) {
	card, ok := m.selected()
	if !ok || m.board.State().Phase == board.Dragging {
		return m, nil
	}
	next := nextPriority(card.Priority)
	wt, err := m.board.Edit(card.ID, board.CardEdit{Priority: &next})
	if err != nil {
		m.status = busyOr(err)
		return m, nil
	}
	return m.begin(wt)
}

// begin shows the optimistic change and starts persisting it.
func (m Model) begin(wt *board.WriteThrough) (tea.Model, tea.Cmd) {
	m.saving = true
	m.status = ""
	return m.clamp(), tea.Batch(m.write(wt), m.spinner.Tick)
}

// hover points the dragged card at the focused column.
func (m Model) hover() {
	if m.board != nil {
		m.board.Hover(board.ColumnTarget(types.Columns[m.col]))
	}
}

// selected returns the card under the cursor.
func (m Model) selected() (board.Card, bool) {
	if m.board == nil {
		return board.Card{}, false
	}
	lane := m.board.Lanes()[m.col]
	if m.row < 0 || m.row >= len(lane.Cards) {
		return board.Card{}, false
	}
	return lane.Cards[m.row], true
}

// clamp keeps the cursor inside the focused lane.
func (m Model) clamp() Model {
	if m.board == nil {
		return m
	}
	n := len(m.board.Lanes()[m.col].Cards)
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
	return m
}

func busyOr(err error) string {
	if errors.Is(err, types.ErrBusy) {
		return "still saving, try again"
	}
	return err.Error()
}

var priorityCycle = []string{types.PriorityLow, types.PriorityMedium, types.PriorityHigh}

func nextPriority(p string) string {
	for i, q := range priorityCycle {
		if q == p {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return types.PriorityLow
}
