package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/studio-review/db"
)

// jobDoneMsg is sent from the job processor when a job finishes.
type jobDoneMsg struct {
	job db.PendingJob
	err error
}

// countPendingJobs seeds the progress box with the jobs already queued for
// this video, such as the filmstrip queued on first open.
func (m *Model) countPendingJobs() {
	if m.opts.Jobs == nil || m.opts.DB == nil || m.opts.Video == nil {
		return
	}
	list, err := db.SelectJobs(m.opts.DB, m.opts.Video.ID)
	if err != nil {
		m.log.Warn("list jobs", "err", err)
		return
	}
	for _, j := range list {
		if j.Status == db.JobPending || j.Status == db.JobProcessing {
			m.jobs.Active = true
			m.jobs.Total++
			m.jobs.Current = string(j.Kind)
		}
	}
}

// enqueue adds a background job for the current video.
func (m *Model) enqueue(kind db.JobKind, annotationID, desc string) tea.Cmd {
	if m.opts.Jobs == nil || m.opts.DB == nil || m.opts.Video == nil {
		return m.setResult("Background jobs are not available", true)
	}
	if _, err := db.EnqueueJob(m.opts.DB, m.opts.Video.ID, kind, annotationID, ""); err != nil {
		return m.setError(err)
	}
	m.jobs.Active = true
	m.jobs.Total++
	m.jobs.Current = desc
	return m.setResult("Queued "+desc, false)
}

// handleJobDone counts a finished job. A finished filmstrip is installed
// into the player.
func (m *Model) handleJobDone(msg jobDoneMsg) tea.Cmd {
	if m.opts.Video == nil || msg.job.VideoID != m.opts.Video.ID {
		return nil
	}
	m.jobs.Completed++
	m.jobs.Total = max(m.jobs.Total, m.jobs.Completed)
	m.jobs.Current = ""
	if msg.err != nil {
		m.jobs.Errors++
		m.jobs.LastError = msg.err.Error()
		return m.setResult(fmt.Sprintf("%s job failed: %v", msg.job.Kind, msg.err), true)
	}

	switch msg.job.Kind {
	case db.JobFilmstrip:
		if err := m.restoreFilmstrip(); err != nil {
			return m.setError(err)
		}
		return m.setResult(fmt.Sprintf("Filmstrip ready: %d thumbnails", len(m.ctrl.Thumbnails())), false)
	case db.JobClip:
		return m.setResult("Clip exported", false)
	}
	return nil
}

// restoreFilmstrip loads the stored thumbnails and frame rate into the player.
func (m *Model) restoreFilmstrip() error {
	thumbs, err := db.SelectThumbnails(m.opts.DB, m.opts.Video.ID)
	if err != nil {
		return err
	}
	v, err := db.SelectVideoByID(m.opts.DB, m.opts.Video.ID)
	if err != nil {
		return err
	}
	m.ctrl.Restore(v.FPS, thumbs)
	return nil
}
