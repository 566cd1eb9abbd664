package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
	"github.com/matzehuels/campaigncanvas/pkg/history"
	bio "github.com/matzehuels/campaigncanvas/pkg/io"
)

// Editor geometry.
const (
	moveStep      = 10.0
	bigMoveStep   = 50.0
	newBlockW     = 160.0
	newBlockH     = 80.0
	newBlockGap   = 40.0
	visibleBlocks = 12
)

var (
	editorSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editorNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editorDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Key Bindings
// =============================================================================

type editorKeys struct {
	Next, Prev            key.Binding
	Up, Down, Left, Right key.Binding
	FarUp, FarDown        key.Binding
	FarLeft, FarRight     key.Binding
	Add, Delete           key.Binding
	Undo, Redo            key.Binding
	Save, Quit            key.Binding
}

func defaultEditorKeys() editorKeys {
	return editorKeys{
		Next:     key.NewBinding(key.WithKeys("tab", "j"), key.WithHelp("tab", "next block")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "k"), key.WithHelp("shift+tab", "prev block")),
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓←→", "move")),
		Down:     key.NewBinding(key.WithKeys("down")),
		Left:     key.NewBinding(key.WithKeys("left")),
		Right:    key.NewBinding(key.WithKeys("right")),
		FarUp:    key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑↓←→", "move far")),
		FarDown:  key.NewBinding(key.WithKeys("shift+down")),
		FarLeft:  key.NewBinding(key.WithKeys("shift+left")),
		FarRight: key.NewBinding(key.WithKeys("shift+right")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add block")),
		Delete:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Undo:     key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Redo:     key.NewBinding(key.WithKeys("r", "ctrl+y"), key.WithHelp("r", "redo")),
		Save:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k editorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Up, k.Undo, k.Redo, k.Save, k.Quit}
}

func (k editorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Up, k.FarUp},
		{k.Add, k.Delete, k.Undo, k.Redo},
		{k.Save, k.Quit},
	}
}

// =============================================================================
// EditorModel - Interactive board editing with undo/redo
// =============================================================================

// saveFunc persists the edited board.
type saveFunc func(b *canvas.Board) error

type savedMsg struct{ err error }

// editorModel is the bubbletea model behind the edit command. Every block
// mutation is captured into the history timeline; undo and redo write the
// restored snapshot back into the board through the restore callback.
type editorModel struct {
	board    *canvas.Board
	history  *history.Manager
	save     saveFunc
	keys     editorKeys
	help     help.Model
	selected int
	offset   int
	dirty    bool
	status   string
}

func newEditorModel(b *canvas.Board, save saveFunc, logger *log.Logger) editorModel {
	if b.Blocks == nil {
		b.Blocks = []canvas.Block{}
	}
	h := history.New(func(blocks []canvas.Block) {
		b.Blocks = blocks
	}, history.WithLogger(logger))
	h.Initialize(b.Blocks)

	return editorModel{
		board:   b,
		history: h,
		save:    save,
		keys:    defaultEditorKeys(),
		help:    help.New(),
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
			return m, nil
		}
		m.dirty = false
		m.status = "saved " + m.board.ID
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.selectBlock(m.selected + 1)
	case key.Matches(msg, m.keys.Prev):
		m.selectBlock(m.selected - 1)
	case key.Matches(msg, m.keys.Up):
		m.move(0, -moveStep)
	case key.Matches(msg, m.keys.Down):
		m.move(0, moveStep)
	case key.Matches(msg, m.keys.Left):
		m.move(-moveStep, 0)
	case key.Matches(msg, m.keys.Right):
		m.move(moveStep, 0)
	case key.Matches(msg, m.keys.FarUp):
		m.move(0, -bigMoveStep)
	case key.Matches(msg, m.keys.FarDown):
		m.move(0, bigMoveStep)
	case key.Matches(msg, m.keys.FarLeft):
		m.move(-bigMoveStep, 0)
	case key.Matches(msg, m.keys.FarRight):
		m.move(bigMoveStep, 0)
	case key.Matches(msg, m.keys.Add):
		m.addBlock()
	case key.Matches(msg, m.keys.Delete):
		m.deleteBlock()
	case key.Matches(msg, m.keys.Undo):
		if m.history.Undo() {
			m.afterRestore("undo")
		} else {
			m.status = "nothing to undo"
		}
	case key.Matches(msg, m.keys.Redo):
		if m.history.Redo() {
			m.afterRestore("redo")
		} else {
			m.status = "nothing to redo"
		}
	case key.Matches(msg, m.keys.Save):
		if m.save == nil {
			m.status = "board has no save target"
			return m, nil
		}
		m.status = "saving…"
		b := m.board.Clone()
		save := m.save
		return m, func() tea.Msg { return savedMsg{err: save(b)} }
	}
	return m, nil
}

func (m *editorModel) selectBlock(i int) {
	n := len(m.board.Blocks)
	if n == 0 {
		m.selected = 0
		return
	}
	m.selected = (i%n + n) % n
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+visibleBlocks {
		m.offset = m.selected - visibleBlocks + 1
	}
}

// commit records the board's blocks as a new history entry.
func (m *editorModel) commit(status string) {
	m.history.Capture(m.board.Blocks)
	m.dirty = true
	m.status = status
}

func (m *editorModel) move(dx, dy float64) {
	if len(m.board.Blocks) == 0 {
		return
	}
	blk := &m.board.Blocks[m.selected]
	blk.X += dx
	blk.Y += dy
	m.commit(fmt.Sprintf("moved %s to %s,%s", shortID(blk.ID), fmtCoord(blk.X), fmtCoord(blk.Y)))
}

func (m *editorModel) addBlock() {
	x, y := 0.0, 0.0
	if len(m.board.Blocks) > 0 {
		bounds := m.board.Bounds()
		x, y = bounds.Right()+newBlockGap, bounds.Y
	}
	blk := canvas.Block{
		ID:     canvas.NewID(),
		Type:   canvas.BlockNote,
		X:      x,
		Y:      y,
		Width:  newBlockW,
		Height: newBlockH,
	}
	m.board.Blocks = append(m.board.Blocks, blk)
	m.selectBlock(len(m.board.Blocks) - 1)
	m.commit("added " + shortID(blk.ID))
}

func (m *editorModel) deleteBlock() {
	if len(m.board.Blocks) == 0 {
		return
	}
	id := m.board.Blocks[m.selected].ID
	blocks := make([]canvas.Block, 0, len(m.board.Blocks)-1)
	blocks = append(blocks, m.board.Blocks[:m.selected]...)
	blocks = append(blocks, m.board.Blocks[m.selected+1:]...)
	m.board.Blocks = blocks
	m.selectBlock(m.selected)
	m.commit("deleted " + shortID(id))
}

func (m *editorModel) afterRestore(action string) {
	m.selectBlock(m.selected)
	m.dirty = true
	m.status = action
}

func (m editorModel) View() string {
	var b strings.Builder

	title := m.board.Name
	if title == "" {
		title = m.board.ID
	}
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render("Edit " + title))
	b.WriteString("\n\n")

	blocks := m.board.Blocks
	if len(blocks) == 0 {
		b.WriteString(editorDimStyle.Render("  No blocks. Press a to add one."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.blockTable())
		b.WriteString("\n")
	}

	b.WriteString(editorDimStyle.Render(fmt.Sprintf("  history %d/%d  blocks %d  edges %d",
		m.history.Cursor()+1, m.history.Len(), len(blocks), len(m.board.Edges))))
	if m.status != "" {
		b.WriteString(editorDimStyle.Render("  " + iconInfo + " "))
		b.WriteString(m.status)
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m editorModel) blockTable() string {
	end := min(m.offset+visibleBlocks, len(m.board.Blocks))
	t := newTable("", "Block", "Type", "X", "Y", "Size")
	for i := m.offset; i < end; i++ {
		blk := m.board.Blocks[i]
		cursor := " "
		if i == m.selected {
			cursor = "▸"
		}
		t.Row(cursor, shortID(blk.ID), string(blk.Type), fmtCoord(blk.X), fmtCoord(blk.Y),
			fmtCoord(blk.Width)+"×"+fmtCoord(blk.Height))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row < 0 {
			return styleHeader.Padding(0, 1)
		}
		if m.offset+row == m.selected {
			return editorSelectedStyle.Padding(0, 1)
		}
		return editorNormalStyle.Padding(0, 1)
	})
	return t.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func fmtCoord(v float64) string {
	return fmt.Sprintf("%g", v)
}

// =============================================================================
// Command
// =============================================================================

func (c *CLI) editCommand() *cobra.Command {
	var (
		fromStore bool
		tenant    string
	)

	cmd := &cobra.Command{
		Use:   "edit <file|id>",
		Short: "Edit a board's blocks interactively with undo and redo",
		Long: `Edit opens a terminal editor over a board's blocks. Blocks can be selected,
moved, added and deleted; every change is recorded so it can be undone and
redone. Saving writes the board back to its file, or to the store with
--from-store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if args[0] == "-" {
				return fmt.Errorf("edit needs a file path or --from-store")
			}

			var (
				board *canvas.Board
				save  saveFunc
			)
			if fromStore {
				st, err := c.openStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close()
				if board, err = st.Get(ctx, tenant, args[0]); err != nil {
					return err
				}
				save = func(b *canvas.Board) error {
					b.UpdatedAt = time.Time{}
					return st.Put(context.WithoutCancel(ctx), b)
				}
			} else {
				src, err := loadBoard(args[0])
				if err != nil {
					return err
				}
				board = src.Board
				path := args[0]
				save = func(b *canvas.Board) error { return bio.ExportJSON(b, path) }
			}

			model := newEditorModel(board, save, c.Logger)
			final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(editorModel); ok && m.dirty {
				printWarning("Unsaved changes to %s were discarded", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStore, "from-store", false, "edit a stored board by id")
	tenantFlag(cmd, &tenant)
	return cmd
}
