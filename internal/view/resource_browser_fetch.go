package view

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/datatable"
	"github.com/caredash/caredash/internal/log"
)

// fetchPageMsg asks the browser to send its pending page request, if any.
type fetchPageMsg struct{}

type pageLoadedMsg struct {
	browser uint64
	req     dao.PageRequest
	result  dao.PageResult
	err     error
}

type resourcesLoadedMsg struct {
	browser   uint64
	resources []dao.Resource
	err       error
}

func (r *ResourceBrowser) listContext() context.Context {
	if r.fieldFilter != "" && r.fieldFilterValue != "" {
		return dao.WithFilter(r.env.Ctx, r.fieldFilter, r.fieldFilterValue)
	}
	return r.env.Ctx
}

func (r *ResourceBrowser) onPaginationChange(p datatable.Pagination) {
	s := r.table.State()
	if s.Pagination == p {
		return
	}
	s.Pagination = p
	r.table.SetState(s)
	r.dirty = true
}

func (r *ResourceBrowser) onSortingChange(sorting datatable.Sorting) {
	s := r.table.State()
	s.Sorting = sorting
	r.table.SetState(s)
	r.dirty = true
}

func (r *ResourceBrowser) setSearchTerm(v string) {
	if v == r.search {
		return
	}
	r.search = v
	r.dirty = true
}

// pageRequest converts the table state into a backend query.
func (r *ResourceBrowser) pageRequest() dao.PageRequest {
	s := r.table.State()
	req := dao.PageRequest{
		PageIndex: s.Pagination.PageIndex,
		PageSize:  s.Pagination.PageSize,
		Search:    r.search,
	}
	if key, ok := s.Sorting.Primary(); ok {
		req.SortBy = key.ColumnID
		req.Desc = key.Desc
	}
	return req
}

// fetchIfDirty sends one request for the current query. State changes made
// while a request is in flight are coalesced into a single follow-up request.
func (r *ResourceBrowser) fetchIfDirty() tea.Cmd {
	if r.paged == nil || !r.dirty || r.fetching {
		return nil
	}
	r.dirty = false
	r.fetching = true

	req := r.pageRequest()
	ctx := r.listContext()
	paged := r.paged
	id := r.id
	log.Debug("fetching page", "entity", r.entity, "page", req.PageIndex, "size", req.PageSize,
		"search", req.Search, "sort", req.SortBy, "desc", req.Desc)

	return func() tea.Msg {
		start := time.Now()
		res, err := paged.ListPage(ctx, req)
		log.Debug("page fetched", "entity", paged.EntityName(), "items", len(res.Items),
			"total", res.TotalItems, "duration", time.Since(start), "error", err)
		return pageLoadedMsg{browser: id, req: req, result: res, err: err}
	}
}

func (r *ResourceBrowser) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.browser != r.id || r.paged == nil {
		log.Debug("dropping page from another browser", "entity", r.entity)
		return r, nil
	}
	r.fetching = false
	r.loading = false

	if msg.err != nil {
		log.Warn("page fetch failed", "entity", r.entity, "error", msg.err)
		r.err = msg.err
		return r, tea.Batch(authRedirect(msg.err), r.fetchIfDirty())
	}
	r.err = nil

	if r.dirty {
		// The query moved on while this page was in flight.
		return r, r.fetchIfDirty()
	}

	r.loaded = true
	r.table.SetData(msg.result.Items)
	r.table.SetPageCount(msg.result.PageCount)
	r.totalItems = msg.result.TotalItems

	// The result set shrank below the current page.
	if pc := msg.result.PageCount; msg.req.PageIndex >= max(pc, 1) {
		r.table.SetPageIndex(max(pc-1, 0))
	}
	r.ctrl.DataChanged()
	return r, r.fetchIfDirty()
}

func (r *ResourceBrowser) loadResources() tea.Msg {
	start := time.Now()
	resources, err := r.dao.List(r.listContext())
	log.Debug("resources loaded", "entity", r.entity, "count", len(resources),
		"duration", time.Since(start), "error", err)
	return resourcesLoadedMsg{browser: r.id, resources: resources, err: err}
}

func (r *ResourceBrowser) handleResourcesLoaded(msg resourcesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.browser != r.id || r.paged != nil {
		log.Debug("dropping list from another browser", "entity", r.entity)
		return r, nil
	}
	r.loading = false
	if msg.err != nil {
		log.Warn("list failed", "entity", r.entity, "error", msg.err)
		r.err = msg.err
		return r, authRedirect(msg.err)
	}
	r.err = nil
	r.loaded = true
	r.ctrl.SetRows(msg.resources)
	return r, nil
}

// refresh reloads the current data. The last known item count stays on
// screen until the new one arrives.
func (r *ResourceBrowser) refresh() tea.Cmd {
	if r.dao == nil {
		return nil
	}
	r.err = nil
	if r.paged != nil {
		r.dirty = true
		return tea.Batch(r.fetchIfDirty(), r.spinner.Tick)
	}
	if r.loading {
		return nil
	}
	r.loading = true
	return tea.Batch(r.loadResources, r.spinner.Tick)
}
