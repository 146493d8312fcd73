// Package tui implements the interactive review interface: a viewport over
// the extracted canonical text with annotation overlays, visual selection,
// and the staged extract/feedback/approve/analyze workflow.
package tui

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/redlinehq/redline/internal/backend"
	"github.com/redlinehq/redline/internal/core/document"
	"github.com/redlinehq/redline/internal/core/logging"
	"github.com/redlinehq/redline/internal/core/session"
	"github.com/redlinehq/redline/internal/core/styles"
	"github.com/redlinehq/redline/internal/core/workflow"
)

// viewTab identifies which document view is active.
type viewTab int

const (
	tabContent viewTab = iota
	tabReport
)

func (t viewTab) name() string {
	if t == tabReport {
		return "report"
	}
	return "content"
}

// Options configures the review TUI.
type Options struct {
	Documents  []SourceDoc
	InitialDoc *SourceDoc
	Root       string // documents root, watched for changes
	Source     backend.ContentSource
	Sink       backend.FeedbackSink
	Store      session.Store
}

// Model is the top-level review TUI model.
type Model struct {
	opts Options

	machine *workflow.Machine
	sess    session.Session
	doc     *SourceDoc

	content *document.View
	report  *document.View
	tab     viewTab
	cursors [2]int // byte offset per tab

	viewport viewport.Model
	watcher  *SourceWatcher

	visual bool
	anchor int

	commentModal  *CommentModal
	confirmModal  *ConfirmModal
	confirmTarget string
	feedbackForm  *FeedbackForm
	picker        *DocumentPicker

	showPanel   bool
	width       int
	height      int
	errMsg      string
	notice      string
	initialized bool
}

// Backend call results.
type extractedMsg struct {
	artifacts backend.Artifacts
	err       error
}

type feedbackAckMsg struct {
	view     string
	payload  workflow.FeedbackPayload
	revision backend.Revision
	err      error
}

type analyzedMsg struct {
	report string
	err    error
}

// New creates the review TUI model.
func New(opts Options) Model {
	m := Model{
		opts:    opts,
		machine: workflow.NewMachine(),
		content: document.NewView("content"),
		report:  document.NewView("report"),
		width:   80,
		height:  24,
	}

	if opts.Root != "" {
		if w, err := NewSourceWatcher(opts.Root); err == nil {
			m.watcher = w
		} else {
			log.Warn().Err(err).Str("root", opts.Root).Msg("tui: file watcher unavailable")
		}
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.Start()
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()

		if !m.initialized {
			m.initialized = true
			if m.opts.InitialDoc != nil {
				m.openDocument(*m.opts.InitialDoc)
			} else {
				m.picker = NewDocumentPicker(m.opts.Documents)
			}
		}
		m.refresh()
		return m, nil

	case sourceChangedMsg:
		if m.doc != nil && msg.path == m.doc.Path {
			m.notice = "source changed on disk, press r to re-extract"
		}
		if m.watcher != nil {
			return m, m.watcher.Start()
		}
		return m, nil

	case extractedMsg:
		if msg.err != nil {
			m.machine.Fail()
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.machine.Complete()
		m.content.SetText(msg.artifacts.Content)
		m.report.SetText(msg.artifacts.Report)
		m.cursors = [2]int{}
		m.tab = tabContent
		m.errMsg = ""
		m.notice = ""
		m.persistStage()
		m.refresh()
		return m, nil

	case feedbackAckMsg:
		if msg.err != nil {
			m.machine.Fail()
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.machine.Complete()
		m.errMsg = ""
		m.recordFeedback(msg.view, msg.payload)
		if msg.revision.RevisedText != "" {
			m.activeView().SetText(msg.revision.RevisedText)
			m.cursors[m.tab] = 0
			m.notice = "backend returned revised text"
		}
		m.persistStage()
		m.afterStageAdvance()
		m.refresh()
		return m, nil

	case analyzedMsg:
		if msg.err != nil {
			m.machine.Fail()
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.machine.Complete()
		m.errMsg = ""
		m.report.SetText(msg.report)
		m.tab = tabReport
		m.cursors[tabReport] = 0
		m.persistStage()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Forms own their own message loop (blink ticks etc.)
	if m.feedbackForm != nil {
		cmd := m.feedbackForm.Update(msg)
		return m, cmd
	}
	if m.commentModal != nil {
		modal, cmd := m.commentModal.Update(msg)
		m.commentModal = &modal
		return m, cmd
	}
	if m.picker != nil {
		picker, cmd := m.picker.Update(msg)
		m.picker = picker
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modals take the keyboard wholesale while open.
	if m.picker != nil {
		return m.updatePicker(msg)
	}
	if m.feedbackForm != nil {
		return m.updateFeedbackForm(msg)
	}
	if m.commentModal != nil {
		return m.updateCommentModal(msg)
	}
	if m.confirmModal != nil {
		return m.updateConfirmModal(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.visual {
			m.visual = false
			m.refresh()
			return m, nil
		}
		return m, tea.Quit

	case "esc":
		if m.visual {
			m.visual = false
		}
		m.errMsg = ""
		m.refresh()
		return m, nil

	case "tab":
		m.tab = 1 - m.tab
		m.visual = false
		m.syncHover()
		m.refresh()
		return m, nil

	case "o":
		m.picker = NewDocumentPicker(m.opts.Documents)
		return m, nil

	case "a":
		m.showPanel = !m.showPanel
		m.resizeViewport()
		m.refresh()
		return m, nil

	// Cursor movement
	case "h", "left":
		m.moveCursor(prevRune(m.text(), m.cursor()))
		return m, nil
	case "l", "right":
		m.moveCursor(nextRune(m.text(), m.cursor()))
		return m, nil
	case "j", "down":
		m.moveCursor(moveByLine(m.text(), m.cursor(), 1))
		return m, nil
	case "k", "up":
		m.moveCursor(moveByLine(m.text(), m.cursor(), -1))
		return m, nil
	case "ctrl+d":
		m.moveCursor(moveByLine(m.text(), m.cursor(), m.viewport.Height/2))
		return m, nil
	case "ctrl+u":
		m.moveCursor(moveByLine(m.text(), m.cursor(), -m.viewport.Height/2))
		return m, nil
	case "g":
		m.moveCursor(0)
		return m, nil
	case "G":
		m.moveCursor(len(m.text()))
		return m, nil

	case "v", "V":
		if m.text() == "" {
			return m, nil
		}
		m.visual = !m.visual
		if m.visual {
			m.anchor = m.cursor()
		}
		m.refresh()
		return m, nil

	case "c":
		return m.beginComment()

	case "x":
		return m.beginReject()

	case "d":
		if id := m.activeView().AnnotationAt(m.cursor()); id != "" {
			modal := NewConfirmModal("Delete annotation?", m.annotationSummary(id))
			m.confirmModal = &modal
			m.confirmTarget = id
		}
		return m, nil

	// Workflow
	case "e":
		return m.beginExtract()
	case "r":
		return m.beginReExtract()
	case "f":
		return m.beginFeedback()
	case "y":
		return m.approve()
	case "z":
		return m.beginAnalyze()
	}

	return m, nil
}

// --- modal updates ---

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	picker, cmd := m.picker.Update(msg)
	m.picker = picker

	if doc := m.picker.Selected(); doc != nil {
		m.picker = nil
		m.openDocument(*doc)
		m.refresh()
		return m, cmd
	}
	if m.picker.Cancelled() {
		m.picker = nil
		if m.doc == nil {
			return m, tea.Quit
		}
	}
	return m, cmd
}

func (m Model) updateCommentModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, cmd := m.commentModal.Update(msg)
	m.commentModal = &modal

	if m.commentModal.Submitted() {
		note := m.commentModal.Value()
		m.commentModal = nil
		if _, err := m.activeView().Comment(note); err != nil {
			m.errMsg = err.Error()
		} else {
			m.visual = false
		}
		m.refresh()
		return m, cmd
	}
	if m.commentModal.Cancelled() {
		m.commentModal = nil
		m.activeView().ClearSelection()
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateConfirmModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, cmd := m.confirmModal.Update(msg)
	m.confirmModal = &modal

	if m.confirmModal.Confirmed() {
		m.activeView().Remove(m.confirmTarget)
		m.confirmModal = nil
		m.confirmTarget = ""
		m.syncHover()
		m.refresh()
	} else if m.confirmModal.Cancelled() {
		m.confirmModal = nil
		m.confirmTarget = ""
	}
	return m, cmd
}

func (m Model) updateFeedbackForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.feedbackForm.Update(msg)

	if m.feedbackForm.Done() {
		confirmed := m.feedbackForm.Confirmed()
		message := m.feedbackForm.Message()
		m.feedbackForm = nil

		if !confirmed {
			return m, cmd
		}
		return m.submitFeedback(message)
	}
	if m.feedbackForm.Aborted() {
		m.feedbackForm = nil
	}
	return m, cmd
}

// --- workflow actions ---

func (m Model) beginExtract() (tea.Model, tea.Cmd) {
	if m.doc == nil {
		return m, nil
	}
	if err := m.machine.Begin(workflow.StageExtract); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.errMsg = ""
	return m, m.extractCmd(*m.doc)
}

// beginReExtract restarts the workflow after a source change on disk.
func (m Model) beginReExtract() (tea.Model, tea.Cmd) {
	if m.doc == nil || m.machine.InFlight() {
		return m, nil
	}
	if err := m.doc.LoadContent(); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.machine = workflow.NewMachine()
	if err := m.machine.Begin(workflow.StageExtract); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.notice = ""
	m.errMsg = ""
	m.openSession()
	return m, m.extractCmd(*m.doc)
}

func (m Model) beginFeedback() (tea.Model, tea.Cmd) {
	if _, ok := m.submitStage(); !ok {
		m.errMsg = workflow.ErrWrongStage.Error()
		return m, nil
	}
	set := m.activeView().Annotations()
	form := NewFeedbackForm(len(set.Comments()), len(set.Rejections()), m.width)
	m.feedbackForm = form
	return m, form.Init()
}

func (m Model) submitFeedback(message string) (tea.Model, tea.Cmd) {
	stage, ok := m.submitStage()
	if !ok {
		m.errMsg = workflow.ErrWrongStage.Error()
		return m, nil
	}

	payload := workflow.BuildFeedback(m.activeView().Annotations(), message)
	if payload.IsEmpty() {
		m.errMsg = workflow.ErrNothingToSubmit.Error()
		return m, nil
	}

	if err := m.machine.Begin(stage); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.errMsg = ""
	return m, m.submitCmd(m.tab.name(), payload)
}

// submitStage maps the active tab to the stage whose backend call submits
// feedback for it. The content view submits at the feedback stage, the
// report view at the analyze stage.
func (m Model) submitStage() (workflow.Stage, bool) {
	switch {
	case m.tab == tabContent && m.machine.Stage() == workflow.StageFeedback:
		return workflow.StageFeedback, true
	case m.tab == tabReport && m.machine.Stage() == workflow.StageAnalyze:
		return workflow.StageAnalyze, true
	default:
		return 0, false
	}
}

func (m Model) approve() (tea.Model, tea.Cmd) {
	if err := m.machine.Approve(); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.errMsg = ""
	m.persistStage()
	return m, nil
}

func (m Model) beginAnalyze() (tea.Model, tea.Cmd) {
	if err := m.machine.Begin(workflow.StageApprove); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.errMsg = ""
	return m, m.analyzeCmd(m.content.Text())
}

func (m *Model) afterStageAdvance() {
	if m.machine.Stage() == workflow.StageDone {
		m.notice = "review complete"
		m.finalizeSession()
	}
}

// --- backend commands ---

func (m Model) extractCmd(doc SourceDoc) tea.Cmd {
	return func() tea.Msg {
		content, err := doc.Content()
		if err != nil {
			return extractedMsg{err: err}
		}
		artifacts, err := m.opts.Source.Extract(context.Background(), doc.RelPath, []byte(content))
		return extractedMsg{artifacts: artifacts, err: err}
	}
}

func (m Model) submitCmd(view string, payload workflow.FeedbackPayload) tea.Cmd {
	return func() tea.Msg {
		revision, err := m.opts.Sink.SubmitFeedback(context.Background(), view, payload)
		return feedbackAckMsg{view: view, payload: payload, revision: revision, err: err}
	}
}

func (m Model) analyzeCmd(content string) tea.Cmd {
	return func() tea.Msg {
		report, err := m.opts.Source.Analyze(context.Background(), content)
		return analyzedMsg{report: report, err: err}
	}
}

// --- annotation actions ---

func (m Model) beginComment() (tea.Model, tea.Cmd) {
	raw, ok := m.captureSelection()
	if !ok {
		return m, nil
	}
	if !m.resolveSelection(raw) {
		return m, nil
	}
	_, selText, _ := m.activeView().Selection()
	modal := NewCommentModal(selText, m.width)
	m.commentModal = &modal
	return m, nil
}

func (m Model) beginReject() (tea.Model, tea.Cmd) {
	raw, ok := m.captureSelection()
	if !ok {
		return m, nil
	}
	if !m.resolveSelection(raw) {
		return m, nil
	}
	if _, err := m.activeView().Reject(); err != nil {
		m.errMsg = err.Error()
	} else {
		m.visual = false
	}
	m.refresh()
	return m, nil
}

// resolveSelection resolves raw against the active view. A miss is a silent
// no-op: visual mode drops and no error surfaces.
func (m *Model) resolveSelection(raw string) bool {
	if m.activeView().Select(raw) {
		return true
	}
	m.visual = false
	m.refresh()
	return false
}

// captureSelection returns the raw text under the visual selection.
func (m Model) captureSelection() (string, bool) {
	if !m.visual {
		return "", false
	}
	lo, hi := m.selectionBounds()
	if lo >= hi {
		return "", false
	}
	return m.text()[lo:hi], true
}

func (m Model) selectionBounds() (int, int) {
	lo, hi := m.anchor, m.cursor()
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, nextRune(m.text(), hi)
}

// --- state helpers ---

func (m *Model) openDocument(doc SourceDoc) {
	if err := doc.LoadContent(); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.doc = &doc
	m.machine = workflow.NewMachine()
	m.content.SetText("")
	m.report.SetText("")
	m.tab = tabContent
	m.cursors = [2]int{}
	m.visual = false
	m.errMsg = ""
	m.notice = ""
	m.openSession()
}

// logCtx returns a context carrying the open document and session so log
// lines written downstream identify what they belong to.
func (m *Model) logCtx() context.Context {
	ctx := context.Background()
	if m.doc != nil {
		ctx = logging.WithDocument(ctx, m.doc.RelPath)
	}
	if m.sess.ID != "" {
		ctx = logging.WithSessionID(ctx, m.sess.ID)
	}
	return ctx
}

// openSession looks up or creates the persisted session for the open document.
func (m *Model) openSession() {
	if m.opts.Store == nil || m.doc == nil {
		return
	}
	ctx := m.logCtx()

	content, err := m.doc.Content()
	if err != nil {
		log.Warn().Ctx(ctx).Err(err).Msg("tui: cannot hash document for session")
		return
	}
	sum := sha256.Sum256([]byte(content))
	hash := hex.EncodeToString(sum[:])

	if err := m.opts.Store.CleanupStaleSessions(ctx, m.doc.Path, hash); err != nil {
		log.Warn().Ctx(ctx).Err(err).Msg("tui: stale session cleanup failed")
	}

	sess, err := m.opts.Store.GetSessionByHash(ctx, m.doc.Path, hash)
	if err != nil {
		sess, err = m.opts.Store.CreateSession(ctx, m.doc.Path, hash)
		if err != nil {
			log.Warn().Ctx(ctx).Err(err).Msg("tui: cannot create review session")
			return
		}
	}
	m.sess = sess
}

func (m *Model) persistStage() {
	if m.opts.Store == nil || m.sess.ID == "" {
		return
	}
	ctx := m.logCtx()
	if err := m.opts.Store.SetStage(ctx, m.sess.ID, m.machine.Stage()); err != nil {
		log.Warn().Ctx(ctx).Err(err).Msg("tui: cannot persist stage")
	}
}

func (m *Model) finalizeSession() {
	if m.opts.Store == nil || m.sess.ID == "" {
		return
	}
	ctx := m.logCtx()
	if err := m.opts.Store.FinalizeSession(ctx, m.sess.ID); err != nil {
		log.Warn().Ctx(ctx).Err(err).Msg("tui: cannot finalize session")
	}
}

func (m *Model) recordFeedback(view string, payload workflow.FeedbackPayload) {
	if m.opts.Store == nil || m.sess.ID == "" {
		return
	}
	ctx := m.logCtx()
	data, err := json.Marshal(payload)
	if err != nil {
		log.Warn().Ctx(ctx).Err(err).Msg("tui: cannot marshal feedback record")
		return
	}
	err = m.opts.Store.SaveFeedback(ctx, session.FeedbackRecord{
		SessionID: m.sess.ID,
		View:      view,
		Payload:   string(data),
	})
	if err != nil {
		log.Warn().Ctx(ctx).Err(err).Msg("tui: cannot save feedback record")
	}
}

func (m *Model) activeView() *document.View {
	if m.tab == tabReport {
		return m.report
	}
	return m.content
}

func (m *Model) text() string {
	return m.activeView().Text()
}

func (m *Model) cursor() int {
	return m.cursors[m.tab]
}

func (m *Model) moveCursor(offset int) {
	m.cursors[m.tab] = clampOffset(m.text(), offset)
	m.syncHover()
	m.refresh()
	m.scrollToCursor()
}

// syncHover maps the cursor position to an annotation for hover emphasis.
func (m *Model) syncHover() {
	view := m.activeView()
	if id := view.AnnotationAt(m.cursor()); id != "" {
		view.Hover(id)
	} else {
		view.Unhover()
	}
}

func (m *Model) scrollToCursor() {
	line := lineOf(lineStarts(m.text()), m.cursor())
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
	} else if line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func (m *Model) resizeViewport() {
	width := m.width
	if m.showPanel {
		width -= panelWidth(m.width) + 1
	}
	m.viewport = viewport.New(width, max(m.height-2, 1))
	m.scrollToCursor()
}

// refresh re-renders the viewport content from the active view state.
func (m *Model) refresh() {
	view := m.activeView()
	text := view.Text()

	if text == "" {
		m.viewport.SetContent(m.emptyContent())
		return
	}

	selLo, selHi := -1, -1
	if m.visual {
		selLo, selHi = m.selectionBounds()
	}
	m.viewport.SetContent(renderAnnotated(text, view.Annotations(), view.Hovered(), selLo, selHi, m.cursor()))
}

// emptyContent shows the glamour-rendered source before extraction.
func (m *Model) emptyContent() string {
	if m.doc == nil {
		return styles.PanelMutedStyle.Render("No document open. Press o to pick one.")
	}
	if m.machine.Stage() == workflow.StageExtract {
		rendered, err := m.doc.RenderMarkdown(m.viewport.Width)
		if err != nil {
			return styles.PanelMutedStyle.Render("Cannot preview source: " + err.Error())
		}
		hint := styles.NoticeBannerStyle.Render("Source preview. Press e to extract for review.")
		return hint + "\n\n" + rendered
	}
	return styles.PanelMutedStyle.Render("Nothing to show for this view yet.")
}

// --- rendering ---

// View implements tea.Model.
func (m Model) View() string {
	if m.picker != nil {
		return m.overlay(m.picker.View())
	}

	body := m.viewport.View()
	if m.showPanel {
		panel := renderPanel(m.activeView(), panelWidth(m.width), max(m.height-2, 1))
		divider := strings.TrimSuffix(strings.Repeat("│\n", max(m.height-2, 1)), "\n")
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, styles.PanelMutedStyle.Render(divider), panel)
	}

	banner := m.bannerLine()
	status := m.statusLine()
	base := strings.Join([]string{body, banner, status}, "\n")

	switch {
	case m.feedbackForm != nil:
		return m.overlay(m.feedbackForm.View())
	case m.commentModal != nil:
		return m.overlay(m.commentModal.View())
	case m.confirmModal != nil:
		return m.overlay(m.confirmModal.View())
	}
	return base
}

// overlay centers modal content in a bordered box over a blank backdrop.
func (m Model) overlay(content string) string {
	box := styles.ModalBorderStyle.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) bannerLine() string {
	switch {
	case m.errMsg != "":
		return styles.ErrorBannerStyle.Render("✗ " + m.errMsg)
	case m.machine.InFlight():
		return styles.NoticeBannerStyle.Render("… waiting for backend")
	case m.notice != "":
		return styles.NoticeBannerStyle.Render(m.notice)
	default:
		return ""
	}
}

func (m Model) statusLine() string {
	stages := []workflow.Stage{
		workflow.StageExtract,
		workflow.StageFeedback,
		workflow.StageApprove,
		workflow.StageAnalyze,
		workflow.StageDone,
	}
	parts := make([]string, 0, len(stages))
	for _, s := range stages {
		if s == m.machine.Stage() {
			parts = append(parts, styles.StageActiveStyle.Render(s.String()))
		} else {
			parts = append(parts, styles.StageInactiveStyle.Render(s.String()))
		}
	}

	mode := "NORMAL"
	if m.visual {
		mode = "VISUAL"
	}

	name := ""
	if m.doc != nil {
		name = m.doc.RelPath
	}

	set := m.activeView().Annotations()
	counts := fmt.Sprintf("%dc/%dr", len(set.Comments()), len(set.Rejections()))

	left := styles.StatusModeStyle.Render(" "+mode+" ") + " " + name + " [" + m.tab.name() + "]"
	right := counts + "  " + strings.Join(parts, " → ")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styles.StatusBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}
