package patients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/dao"
	"github.com/caredash/caredash/internal/render"
)

func TestNewPatientDAO_NilClient(t *testing.T) {
	if _, err := NewPatientDAO(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestPatientDAO_ListPage(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"items":[{"id":"p1","firstName":"Ada","lastName":"Lovelace","status":"active"}],"totalItems":41,"pageCount":5}}`)
	}))
	defer srv.Close()

	d, err := NewPatientDAO(context.Background(), api.New(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	ctx := dao.WithFilter(context.Background(), FilterCenterID, "c-7")
	res, err := d.(dao.PaginatedDAO).ListPage(ctx, dao.PageRequest{PageIndex: 2, PageSize: 10, SortBy: "lastName"})
	if err != nil {
		t.Fatalf("ListPage() error = %v", err)
	}

	if res.TotalItems != 41 || res.PageCount != 5 || len(res.Items) != 1 {
		t.Errorf("ListPage() = %+v", res)
	}
	if res.Items[0].GetName() != "Ada Lovelace" {
		t.Errorf("GetName() = %q", res.Items[0].GetName())
	}
	for _, want := range []string{"page=3", "pageSize=10", "centerId=c-7", "sort=lastName", "order=asc"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestPatientDAO_GetError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":"NOT_FOUND","message":"no such patient"}}`)
	}))
	defer srv.Close()

	d, _ := NewPatientDAO(context.Background(), api.New(srv.URL))
	if _, err := d.Get(context.Background(), "p404"); err == nil {
		t.Fatal("Get() should fail on 404")
	}
}

func TestPatientResource_CenterName(t *testing.T) {
	r := NewPatientResource(api.Patient{ID: "p1", CenterID: "c1"})
	if r.CenterName() != "c1" {
		t.Errorf("CenterName() fallback = %q", r.CenterName())
	}
	r = NewPatientResource(api.Patient{ID: "p1", CenterID: "c1", CenterName: "North"})
	if r.CenterName() != "North" {
		t.Errorf("CenterName() = %q", r.CenterName())
	}
}

func TestPatientRenderer(t *testing.T) {
	rend := NewPatientRenderer()
	if rend.EntityName() != EntityName {
		t.Errorf("EntityName() = %q", rend.EntityName())
	}

	cols := render.TableColumns(rend.Columns())
	sortable := 0
	for _, c := range cols {
		if c.Sortable {
			sortable++
		}
	}
	if cols[0].Sortable || sortable != len(cols)-1 {
		t.Errorf("expected every column but ID to sort, got %d sortable", sortable)
	}

	res := NewPatientResource(api.Patient{
		ID:          "p1",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: "1990-01-01",
		Status:      "active",
		CenterName:  "North",
		CreatedAt:   time.Now().Add(-48 * time.Hour),
	})
	row := rend.RenderRow(res, rend.Columns())
	if row[1] != "Ada Lovelace" || row[3] != "North" || row[4] != "active" || row[5] != "2d" {
		t.Errorf("RenderRow() = %v", row)
	}

	detail := rend.RenderDetail(res)
	for _, want := range []string{"Ada Lovelace", "1990-01-01", "North", render.NoValue} {
		if !strings.Contains(detail, want) {
			t.Errorf("RenderDetail() missing %q", want)
		}
	}
	if rend.RenderDetail(&dao.BaseResource{}) != "" {
		t.Error("RenderDetail() of a foreign resource should be empty")
	}

	summary := rend.RenderSummary(res)
	if len(summary) != 4 {
		t.Errorf("RenderSummary() = %+v", summary)
	}
}
