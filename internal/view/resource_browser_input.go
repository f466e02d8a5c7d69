package view

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/caredash/caredash/internal/config"
	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/export"
	"github.com/caredash/caredash/internal/log"
)

type exportDoneMsg struct {
	browser uint64
	result  export.Result
	err     error
}

func (r *ResourceBrowser) handleKeyPress(msg tea.KeyPressMsg) tea.Cmd {
	// The search box gets every key while focused.
	if r.ctrl.HasActiveInput() {
		return tea.Batch(r.ctrl.Update(msg), r.fetchIfDirty())
	}

	switch msg.String() {
	case "ctrl+r":
		return r.refresh()
	case "enter", "d":
		return r.openDetail()
	case "x":
		return r.startExport()
	}

	if res, ok := r.ctrl.SelectedRow(); ok {
		helper := &NavigationHelper{Env: r.env, Renderer: r.renderer}
		if cmd := helper.HandleKey(msg.String(), res); cmd != nil {
			return cmd
		}
	}

	return tea.Batch(r.ctrl.Update(msg), r.fetchIfDirty())
}

// openDetail hands the selected row to a new detail view.
func (r *ResourceBrowser) openDetail() tea.Cmd {
	res, ok := r.ctrl.SelectedRow()
	if !ok || r.dao == nil {
		return nil
	}
	if r.env.Session != nil && r.env.Session.Handoff() != nil {
		r.env.Session.Handoff().Put(r.entity, res.GetID(), res)
	}
	detail := NewDetailView(r.env, r.entity, res.GetID())
	return func() tea.Msg {
		return NavigateMsg{View: detail}
	}
}

func (r *ResourceBrowser) canExport() bool {
	return r.env.Exporter != nil && r.dao != nil && r.dao.Supports(dao.OpExport) &&
		!config.Global().ReadOnly()
}

// exportTable snapshots what the table currently shows: every filtered row
// in memory mode, the loaded page in server-driven mode.
func (r *ResourceBrowser) exportTable() export.Table {
	cols := r.renderer.Columns()
	t := export.Table{Entity: r.entity, Headers: make([]string, len(cols))}
	for i, c := range cols {
		t.Headers[i] = c.Name
	}

	rows := r.ctrl.Table().SortedRows()
	t.Rows = make([][]string, len(rows))
	for i, res := range rows {
		t.Rows[i] = r.renderer.RenderRow(res, cols)
	}
	return t
}

func (r *ResourceBrowser) startExport() tea.Cmd {
	if !r.canExport() {
		if config.Global().ReadOnly() {
			return func() tea.Msg { return StatusMsg{Text: "export is disabled in read-only mode"} }
		}
		return nil
	}
	if r.exporting || !r.loaded {
		return nil
	}
	r.exporting = true

	t := r.exportTable()
	exporter := r.env.Exporter
	ctx := r.env.Ctx
	id := r.id
	return tea.Batch(func() tea.Msg {
		res, err := exporter.Export(ctx, t)
		return exportDoneMsg{browser: id, result: res, err: err}
	}, r.spinner.Tick)
}

func (r *ResourceBrowser) handleExportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.browser != r.id {
		return r, nil
	}
	r.exporting = false
	if msg.err != nil {
		log.Warn("export failed", "entity", r.entity, "error", msg.err)
		err := msg.err
		if msg.result.Path != "" {
			err = fmt.Errorf("saved %s but %w", msg.result.Path, msg.err)
		}
		return r, func() tea.Msg { return ErrorMsg{Err: err} }
	}

	text := fmt.Sprintf("exported %d rows to %s", msg.result.Rows, msg.result.Path)
	if msg.result.Location != "" {
		text += " and " + msg.result.Location
	}
	return r, func() tea.Msg { return StatusMsg{Text: text} }
}
