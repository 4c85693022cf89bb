// Package browse is an interactive terminal browser over stored digests.
package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobdigest/internal/model"
)

// Lines per item in either list pane (title + subtitle + blank separator).
const itemHeight = 3

const (
	paneDigests = 0
	paneRecords = 1
)

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205")) // pink

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle   = headerStyle.Foreground(lipgloss.Color("205"))
	inactiveHeaderStyle = headerStyle.Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("162"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("162"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205")).
				Width(14)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// RecordLoader reads the records of one stored digest.
type RecordLoader interface {
	LoadRecords(id int64) ([]model.JobRecord, error)
}

// recordsLoadedMsg is sent when an async record load completes.
type recordsLoadedMsg struct {
	id      int64
	records []model.JobRecord
	err     error
}

type browseModel struct {
	digests []model.DigestSummary
	records []model.JobRecord
	loader  RecordLoader
	// cache avoids re-reading a digest when the cursor returns to it
	cache map[int64][]model.JobRecord

	leftViewport  viewport.Model
	rightViewport viewport.Model
	activePane    int
	digestCursor  int
	recordCursor  int
	width         int
	height        int
	ready         bool
	loadErr       string

	view           viewState
	detailRecord   model.JobRecord
	detailViewport viewport.Model

	// openURL is swapped out in tests.
	openURL func(string)
}

func newModel(digests []model.DigestSummary, loader RecordLoader) browseModel {
	return browseModel{
		digests: digests,
		loader:  loader,
		cache:   make(map[int64][]model.JobRecord),
		openURL: openURL,
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.loadSelected()
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case recordsLoadedMsg:
		if msg.err != nil {
			m.loadErr = fmt.Sprintf("failed to load digest %d: %v", msg.id, msg.err)
			m.records = nil
		} else {
			m.loadErr = ""
			m.cache[msg.id] = msg.records
			if d, ok := m.selectedDigest(); ok && d.ID == msg.id {
				m.records = msg.records
				m.recordCursor = 0
			}
		}
		m.recalcContent()
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		return m.moveCursor(-1)
	case "down", "j":
		return m.moveCursor(1)
	case "enter":
		if m.activePane == paneDigests {
			m.activePane = paneRecords
			m.recalcContent()
			return m, nil
		}
		return m.openDetailView()
	case "o":
		if m.activePane == paneRecords && len(m.records) > 0 {
			m.openURL(m.records[m.recordCursor].Link)
		}
		return m, nil
	}

	// Forward other keys (pgup/pgdn/home/end) to the active viewport.
	var cmd tea.Cmd
	if m.activePane == paneDigests {
		m.leftViewport, cmd = m.leftViewport.Update(msg)
	} else {
		m.rightViewport, cmd = m.rightViewport.Update(msg)
	}
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		m.openURL(m.detailRecord.Link)
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m browseModel) moveCursor(delta int) (tea.Model, tea.Cmd) {
	if m.activePane == paneRecords {
		m.recordCursor = clamp(m.recordCursor+delta, 0, max(len(m.records)-1, 0))
		m.recalcContent()
		m.ensureCursorVisible(&m.rightViewport, m.recordCursor)
		return m, nil
	}

	prev := m.digestCursor
	m.digestCursor = clamp(m.digestCursor+delta, 0, max(len(m.digests)-1, 0))
	var cmd tea.Cmd
	if m.digestCursor != prev {
		m.recordCursor = 0
		if d, ok := m.selectedDigest(); ok {
			if cached, hit := m.cache[d.ID]; hit {
				m.records = cached
			} else {
				m.records = nil
				cmd = m.loadSelected()
			}
		}
	}
	m.recalcContent()
	m.ensureCursorVisible(&m.leftViewport, m.digestCursor)
	return m, cmd
}

func (m browseModel) loadSelected() tea.Cmd {
	d, ok := m.selectedDigest()
	if !ok || m.loader == nil {
		return nil
	}
	loader := m.loader
	return func() tea.Msg {
		records, err := loader.LoadRecords(d.ID)
		return recordsLoadedMsg{id: d.ID, records: records, err: err}
	}
}

func (m browseModel) selectedDigest() (model.DigestSummary, bool) {
	if len(m.digests) == 0 {
		return model.DigestSummary{}, false
	}
	return m.digests[m.digestCursor], true
}

func (m *browseModel) ensureCursorVisible(vp *viewport.Model, cursor int) {
	top := cursor * itemHeight
	bottom := top + itemHeight - 1

	if top < vp.YOffset {
		vp.SetYOffset(top)
	} else if bottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(bottom - vp.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.records) == 0 {
		return m, nil
	}
	m.view = viewDetail
	m.detailRecord = m.records[m.recordCursor]
	m.detailViewport = viewport.New(max(m.width-4, 20), max(m.height-4, 5))
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.leftViewport = viewport.New(paneWidth, paneHeight)
		m.rightViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.leftViewport.Width = paneWidth
		m.leftViewport.Height = paneHeight
		m.rightViewport.Width = paneWidth
		m.rightViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.leftViewport.SetContent(renderDigests(m.digests, m.digestCursor, m.activePane == paneDigests))
	if m.loadErr != "" {
		m.rightViewport.SetContent(errorStyle.Render("⚠ " + m.loadErr))
		return
	}
	m.rightViewport.SetContent(renderRecords(m.records, m.recordCursor, m.activePane == paneRecords))
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	paneWidth := m.leftViewport.Width

	leftHeader := fmt.Sprintf(" Digests (%d)", len(m.digests))
	rightHeader := fmt.Sprintf(" Jobs (%d)", len(m.records))

	leftHeaderStyle, rightHeaderStyle := activeHeaderStyle, inactiveHeaderStyle
	leftBorder, rightBorder := activeBorderStyle, inactiveBorderStyle
	if m.activePane == paneRecords {
		leftHeaderStyle, rightHeaderStyle = inactiveHeaderStyle, activeHeaderStyle
		leftBorder, rightBorder = inactiveBorderStyle, activeBorderStyle
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftHeaderStyle.Render(leftHeader)),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightHeaderStyle.Render(rightHeader)),
	)
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		leftBorder.Width(paneWidth).Render(m.leftViewport.View()),
		" ",
		rightBorder.Width(paneWidth).Render(m.rightViewport.View()),
	)

	statusText := " ←/→/Tab switch  ↑/↓ cursor  Enter open  o open link  q quit"
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Job")
	content := activeBorderStyle.Width(m.width - 2).Render(m.detailViewport.View())
	statusBar := statusBarStyle.Width(m.width).Render(" o open link  esc/backspace back  ↑/↓ scroll  q quit")
	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	r := m.detailRecord
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Title", r.Title)
	addField("Description", wordWrap(r.Description, max(m.width-24, 20)))
	b.WriteByte('\n')
	addField("Link", r.Link)
	return b.String()
}

func renderDigests(digests []model.DigestSummary, cursor int, isActive bool) string {
	if len(digests) == 0 {
		return "  (no digests yet, run `jobdigest run`)"
	}

	var b strings.Builder
	for i, d := range digests {
		status := "not sent"
		if d.Delivered {
			status = "sent"
		}
		writeItem(&b,
			d.GeneratedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("#%d · %d jobs · %s", d.ID, d.RecordCount, status),
			isActive && i == cursor,
		)
		if i < len(digests)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderRecords(records []model.JobRecord, cursor int, isActive bool) string {
	if len(records) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, r := range records {
		subtitle := r.Description
		if subtitle == "" {
			subtitle = r.Link
		}
		writeItem(&b, r.Title, subtitle, isActive && i == cursor)
		if i < len(records)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func writeItem(b *strings.Builder, title, subtitle string, selected bool) {
	titleSt, subtitleSt, prefix := titleStyle, subtitleStyle, "  "
	if selected {
		titleSt, subtitleSt, prefix = selectedTitleStyle, selectedSubtitleStyle, "> "
	}
	b.WriteString(prefix)
	b.WriteString(titleSt.Render(title))
	b.WriteByte('\n')
	b.WriteString(prefix)
	b.WriteString(subtitleSt.Render(subtitle))
	b.WriteByte('\n')
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	if url == "" {
		return
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the two-pane browser: stored digests on the left, the
// selected digest's jobs on the right.
func Run(digests []model.DigestSummary, loader RecordLoader) error {
	p := tea.NewProgram(newModel(digests, loader), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
