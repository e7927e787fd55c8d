package explorer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"ferret/internal/fileops"
)

const (
	headerHeight = 1
	footerHeight = 2
	paneChrome   = 2 // border rows added by the pane style
)

// layout recomputes pane sizes after a terminal resize.
func (m *Model) layout() {
	bodyHeight := m.height - headerHeight - footerHeight
	if bodyHeight < 4 {
		bodyHeight = 4
	}
	leftWidth := m.width * 2 / 5
	if leftWidth < 24 {
		leftWidth = 24
	}
	rightWidth := m.width - leftWidth - 2*paneChrome
	if rightWidth < 20 {
		rightWidth = 20
	}

	previewHeight := bodyHeight * 3 / 5
	outputHeight := bodyHeight - previewHeight - 2*paneChrome
	if outputHeight < 3 {
		outputHeight = 3
	}

	if !m.ready {
		m.previewPane = viewport.New(rightWidth, previewHeight-paneChrome)
		m.outputPane = viewport.New(rightWidth, outputHeight)
	} else {
		m.previewPane.Width = rightWidth
		m.previewPane.Height = previewHeight - paneChrome
		m.outputPane.Width = rightWidth
		m.outputPane.Height = outputHeight
	}
	m.preview.SetWidth(rightWidth - 2)
	m.input.Width = m.width - 6
	m.outputPane.SetContent(strings.Join(m.outputLines, "\n"))
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "starting..."
	}

	header := m.styles.Header.Width(m.width).Render("ferret  " + m.browser.dir)

	leftWidth := m.width * 2 / 5
	if leftWidth < 24 {
		leftWidth = 24
	}
	bodyHeight := m.height - headerHeight - footerHeight

	browserPane := m.paneStyle(focusBrowser).
		Width(leftWidth).
		Height(bodyHeight - paneChrome).
		Render(m.renderBrowser(bodyHeight - paneChrome))

	previewPane := m.paneStyle(focusPreview).
		Width(m.previewPane.Width).
		Render(m.previewPane.View())

	outputTitle := m.styles.Subtitle.Render("assistant / terminal")
	if m.llmBusy {
		outputTitle = m.spin.View() + " " + outputTitle
	}
	outputPane := m.paneStyle(focusOutput).
		Width(m.outputPane.Width).
		Render(outputTitle + "\n" + m.outputPane.View())

	right := lipgloss.JoinVertical(lipgloss.Left, previewPane, outputPane)
	body := lipgloss.JoinHorizontal(lipgloss.Top, browserPane, right)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

func (m *Model) paneStyle(f focus) lipgloss.Style {
	if m.focusedPane == f {
		return m.styles.FocusPane
	}
	return m.styles.Pane
}

func (m *Model) renderBrowser(height int) string {
	if len(m.browser.entries) == 0 {
		return m.styles.Muted.Render("(empty directory)")
	}

	// Keep the cursor visible inside the pane window.
	visible := height - 1
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.browser.cursor >= visible {
		start = m.browser.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.browser.entries) {
		end = len(m.browser.entries)
	}

	action, cutPaths := m.ops.ClipboardContents()
	cut := make(map[string]bool)
	if action == fileops.ActionCut {
		for _, p := range cutPaths {
			cut[p] = true
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		e := m.browser.entries[i]

		marker := "  "
		if m.browser.selected[e.Path] {
			marker = m.styles.Selected.Render("* ")
		}

		name := e.Name
		if e.IsDir {
			name += "/"
		}

		style := m.styles.File
		switch {
		case cut[e.Path]:
			style = m.styles.CutMarked
		case e.IsDir:
			style = m.styles.Dir
		}

		line := marker + style.Render(name)
		if !e.IsDir {
			line += m.styles.Muted.Render("  " + humanize.IBytes(uint64(e.Size)))
		}
		if i == m.browser.cursor {
			line = m.styles.Cursor.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.browser.selected) > 0 {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d selected", len(m.browser.selected))))
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	switch m.mode {
	case modePrompt:
		return m.input.View() + "\n" + m.styles.Muted.Render("enter: confirm  esc: cancel")
	case modeConfirm:
		question := m.styles.Bold.Render(m.confirm.title) + " " + m.confirm.message
		return question + "\n" + m.styles.Muted.Render("y: yes  n: no")
	default:
		return m.renderMetadataLine() + "\n" + m.statusLine()
	}
}

// renderMetadataLine shows the inspector summary for the cursor entry.
func (m *Model) renderMetadataLine() string {
	if m.fileInfo == nil {
		return ""
	}
	parts := []string{m.fileInfo.Name}
	if !m.fileInfo.IsDir {
		parts = append(parts, m.fileInfo.SizeHuman)
		if m.fileInfo.MimeType != "" {
			parts = append(parts, m.fileInfo.MimeType)
		}
		if m.fileInfo.Dimensions != "" {
			parts = append(parts, m.fileInfo.Dimensions)
		}
	}
	parts = append(parts, m.fileInfo.Modified.Format("2006-01-02 15:04"))
	line := m.styles.Muted.Render(strings.Join(parts, "  "))

	if m.record != nil {
		if len(m.record.Tags) > 0 {
			line += "  " + m.styles.Badge.Render(strings.Join(m.record.Tags, ","))
		}
		if m.record.Notes != "" {
			line += "  " + m.styles.Info.Render("note")
		}
	}
	return line
}

// renderPreviewContent combines the preview body with the metadata block.
func (m *Model) renderPreviewContent(msg previewMsg) string {
	var b strings.Builder
	if msg.info != nil {
		b.WriteString(m.styles.Title.Render(msg.info.Name))
		b.WriteString("\n")
	}
	if msg.record != nil && msg.record.Notes != "" {
		b.WriteString(m.styles.Subtitle.Render(msg.record.Notes))
		b.WriteString("\n\n")
	}
	b.WriteString(msg.preview.Content)
	return b.String()
}
