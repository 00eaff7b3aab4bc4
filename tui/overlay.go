package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/studio-review/render"
)

// overlayID is the ID used for the annotation overlay in mpv.
const overlayID = 1

// Overlay draws ASS events over the video. *mpv.Client implements it.
type Overlay interface {
	OSDSize(ctx context.Context) (w, h float64, err error)
	ShowOverlay(ctx context.Context, id int, ass string, resX, resY float64) error
	HideOverlay(ctx context.Context, id int) error
}

// frameItems returns the shapes visible now plus the in-progress preview.
func (m *Model) frameItems() []render.Item {
	preview, _ := m.draw.Preview()
	return render.Frame(m.store.All(), m.ctrl.CurrentTime(), preview)
}

// toggleOverlay turns drawing onto the video on or off.
func (m *Model) toggleOverlay() tea.Cmd {
	if m.opts.Overlay == nil {
		return m.setResult("No video window to draw on", true)
	}
	m.overlayEnabled = !m.overlayEnabled
	if m.overlayEnabled {
		m.osdW, m.osdH = 0, 0
		m.lastOverlay = ""
		m.updateOverlay()
		return m.setResult("Overlay on", false)
	}
	ctx, cancel := context.WithTimeout(m.ctx, ipcTimeout)
	defer cancel()
	if err := m.opts.Overlay.HideOverlay(ctx, overlayID); err != nil {
		m.log.Warn("hide overlay", "err", err)
	}
	return m.setResult("Overlay off", false)
}

// updateOverlay redraws the overlay when what it shows has changed.
func (m *Model) updateOverlay() {
	if !m.overlayEnabled || m.opts.Overlay == nil {
		return
	}
	ctx, cancel := context.WithTimeout(m.ctx, ipcTimeout)
	defer cancel()

	if m.osdW <= 0 || m.osdH <= 0 {
		w, h, err := m.opts.Overlay.OSDSize(ctx)
		if err != nil || w <= 0 || h <= 0 {
			m.log.Debug("osd size unavailable", "err", err)
			return
		}
		m.osdW, m.osdH = w, h
	}

	ass := render.ASS(m.frameItems(), m.osdW, m.osdH)
	if ass == m.lastOverlay {
		return
	}
	if err := m.opts.Overlay.ShowOverlay(ctx, overlayID, ass, m.osdW, m.osdH); err != nil {
		m.log.Warn("show overlay", "err", err)
		return
	}
	m.lastOverlay = ass
}
