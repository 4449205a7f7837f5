package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pivot/internal/upload"
)

const (
	labelIdle    = "Upload & Rotate"
	labelLoading = "Rotating..."
)

// buttonLabel reflects the loading flag only.
func buttonLabel(snap upload.Snapshot) string {
	if snap.Loading {
		return labelLoading
	}
	return labelIdle
}

// stateChip summarizes the controller for the header.
func stateChip(snap upload.Snapshot) string {
	switch {
	case snap.Loading:
		return "ROTATING"
	case snap.HasResult():
		return "READY"
	case snap.File != nil:
		return "SELECTED"
	default:
		return "IDLE"
	}
}

// renderHeader renders the title bar: logo, state, endpoint and notice.
func (m Model) renderHeader(snap upload.Snapshot) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	chipStyle := styles.MutedText
	switch {
	case snap.Loading:
		chipStyle = styles.WarningText
	case snap.HasResult():
		chipStyle = styles.SuccessText
	}

	parts := []string{
		bg.Render("pivot", styles.Logo),
		bg.Render(stateChip(snap), chipStyle.Bold(true)),
	}
	if m.endpoint != "" {
		parts = append(parts, bg.Render("POST "+m.endpoint, styles.FaintText))
	}
	if snap.Uploads > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d sent", snap.Uploads), styles.FaintText))
	}
	if m.notice.text != "" {
		noticeStyle := styles.AccentText
		if m.notice.err {
			noticeStyle = styles.DangerText
		}
		parts = append(parts, bg.Render(m.notice.text, noticeStyle))
	}

	line := bg.Spaces(1) + bg.Join(parts, "  ")
	return bg.FillLine(line, m.width)
}

// renderPane draws a bordered pane with a title row, clipped to b.
func (m Model) renderPane(b box, title, body string, focused bool) string {
	styles := m.theme.Styles()
	style := styles.Pane
	if focused {
		style = styles.PaneFocused
	}
	inner := b.inner()
	content := styles.PaneTitle.Render(title) + "\n" + lipgloss.NewStyle().
		MaxWidth(inner.w).
		MaxHeight(inner.h).
		Render(body)
	return style.
		Width(max(b.w-2, 0)).
		Height(max(b.h-2, 0)).
		MaxHeight(b.h).
		Render(content)
}

func (m Model) renderPicker(b box) string {
	styles := m.theme.Styles()
	dir := truncateMiddle(m.picker.CurrentDirectory, b.inner().w)
	body := styles.FaintText.Render(dir) + "\n" + m.picker.View()
	return m.renderPane(b, "Choose image", body, m.focus == focusPicker)
}

// renderResult draws the rotated image. It is only called when a result
// reference exists.
func (m Model) renderResult(snap upload.Snapshot, b box) string {
	styles := m.theme.Styles()
	inner := b.inner()

	// Leave one row for the caption.
	p, ok := m.preview.render(snap.Result, inner.w, inner.h-1, m.uploads.Resolve)
	if !ok {
		return m.renderPane(b, "Rotated", styles.FaintText.Render("result expired"), false)
	}

	var body string
	if p.err != nil {
		body = styles.FaintText.Render(fmt.Sprintf("cannot preview %s: %v", formatBytes(p.size), p.err))
	} else {
		caption := fmt.Sprintf("%d×%d px  %s", p.bounds.Dx(), p.bounds.Dy(), formatBytes(p.size))
		body = p.text + "\n" + styles.FaintText.Render(caption)
	}
	return m.renderPane(b, "Rotated", body, false)
}

// renderActions renders the submit button and the selected file summary.
func (m Model) renderActions(snap upload.Snapshot) string {
	styles := m.theme.Styles()

	var button string
	switch {
	case snap.Loading:
		button = styles.ButtonBusy.Render(m.spinner.View() + " " + buttonLabel(snap))
	case !snap.CanSubmit():
		button = styles.ButtonDisabled.Render(buttonLabel(snap))
	case m.focus == focusButton:
		button = styles.ButtonFocused.Render(buttonLabel(snap))
	default:
		button = styles.Button.Render(buttonLabel(snap))
	}

	var info string
	if snap.File == nil {
		info = styles.FaintText.Render("No file selected")
	} else {
		name := truncateMiddle(snap.File.Name, max(m.width-lipgloss.Width(button)-30, 8))
		info = styles.Text.Render(name) + "  " +
			styles.MutedText.Render(snap.File.ContentType) + "  " +
			styles.FaintText.Render(formatBytes(snap.File.Size))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, " ", button, "  ", info)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	themeName := styles.FaintText.Render("theme: " + strings.ToLower(m.theme.Name))
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := max(m.width-lipgloss.Width(helpView)-lipgloss.Width(themeName)-2, 1)
	return styles.Footer.Render(helpView + strings.Repeat(" ", gap) + themeName)
}
