package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"salesenq/internal"
	"salesenq/internal/columns"
	"salesenq/internal/people"
	"salesenq/internal/sheet"
	"salesenq/internal/storage"
)

var fixedNow = time.Date(2026, time.March, 9, 15, 30, 0, 0, time.UTC)

type harness struct {
	dir     string
	db      *storage.DB
	people  *people.Resolver
	engine  *Engine
	service *Service
	admin   internal.Person
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	persons := people.NewResolver(db, people.Options{EmailDomain: "example.com", DefaultPassword: "password123", HashCost: bcrypt.MinCost}, nil)
	engine := New(columns.NewResolver(columns.DefaultAliases(), nil), persons, db, nil).WithClock(func() time.Time { return fixedNow })

	admin, err := persons.FindOrCreate(context.Background(), "Import Admin", internal.RoleAdmin)
	require.NoError(t, err)

	return &harness{
		dir:     dir,
		db:      db,
		people:  persons,
		engine:  engine,
		service: NewService(engine, persons, db, nil),
		admin:   *admin,
	}
}

func (h *harness) opts() Options { return Options{ImportedBy: h.admin} }

func writeXLSX(t *testing.T, dir, name string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, f.SetCellValue(sheetName, cell, v))
		}
	}
	buf := bytes.NewBuffer(nil)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func (h *harness) onlyEnquiry(t *testing.T) internal.Enquiry {
	t.Helper()
	all, err := h.db.ListEnquiries(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	return all[0]
}

func TestImportClassifiesQuotedExportRow(t *testing.T) {
	h := newHarness(t)
	path := writeXLSX(t, h.dir, "tracker.xlsx", [][]any{
		{"Customer Name", "EXPORT / DOMESTIC", "ACTIVITY", "OPEN / CLOSED"},
		{"Acme Corp", "export", "Quoted - final", "Open"},
	})

	outcome, err := h.engine.Run(context.Background(), LocalFile(path), h.opts())
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Total)
	assert.Equal(t, 1, outcome.Successful)
	assert.Empty(t, outcome.Errors)

	e := h.onlyEnquiry(t)
	assert.Equal(t, "Acme Corp", e.CustomerName)
	assert.Equal(t, internal.MarketExport, e.MarketType)
	assert.Equal(t, internal.ActivityQuoted, e.Activity)
	assert.Equal(t, internal.StatusClosed, e.Status)
	assert.Equal(t, h.admin.ID, e.SalesRepID)
	assert.Equal(t, "Import Admin", e.SalesRepName)
	assert.Nil(t, e.RndHandlerID)
	assert.Regexp(t, `^ENQ-\d{6}-0001$`, e.EnquiryNumber)
}

func TestImportCustomerFallsBackToEnquiryNumber(t *testing.T) {
	h := newHarness(t)
	path := writeXLSX(t, h.dir, "tracker.xlsx", [][]any{
		{"Enq No.", "Remarks"},
		{"ENQ-5", "call back"},
	})

	_, err := h.engine.Run(context.Background(), LocalFile(path), h.opts())
	require.NoError(t, err)

	e := h.onlyEnquiry(t)
	assert.Equal(t, "ENQ-5", e.CustomerName)
	assert.Equal(t, "ENQ-5", e.EnquiryNumber)
	require.NotNil(t, e.Remarks)
	assert.Equal(t, "call back", *e.Remarks)
}

func TestImportDateReceivedSerial(t *testing.T) {
	h := newHarness(t)
	path := writeXLSX(t, h.dir, "tracker.xlsx", [][]any{
		{"Customer Name", "DATE RECEIVED"},
		{"Acme Corp", 45292},
	})

	_, err := h.engine.Run(context.Background(), LocalFile(path), h.opts())
	require.NoError(t, err)

	e := h.onlyEnquiry(t)
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, e.EnquiryDate)
	require.NotNil(t, e.DateReceived)
	assert.Equal(t, want, *e.DateReceived)
}

func TestImportFallbacksAndPeople(t *testing.T) {
	h := newHarness(t)
	path := writeXLSX(t, h.dir, "tracker.xlsx", [][]any{
		{"PO No.", "SALES", "R&D", "DRAWING", "Quantity", "Estimated Value", "INHOUSE / BROUGHTOUT", "Enquiry Date"},
		{"PO-77", "Priya Shah", "Ravi Kumar", "done", "12 nos", "Rs. 1,50,000", "inhouse", "N/A"},
		{nil, "Priya Shah", nil, nil, nil, nil, nil, "05/03/2026"},
	})

	outcome, err := h.engine.Run(context.Background(), LocalFile(path), h.opts())
	require.NoError(t, err)
	require.Equal(t, 2, outcome.Successful, "%+v", outcome.Errors)

	all, err := h.db.ListEnquiries(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	first := all[0]
	assert.Equal(t, "PO-77", first.CustomerName)
	assert.Equal(t, time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC), first.EnquiryDate)
	assert.Equal(t, "Priya Shah", first.SalesRepName)
	assert.Equal(t, "Ravi Kumar", *first.RndHandlerName)
	assert.Equal(t, internal.DeptCompleted, first.DrawingStatus)
	assert.Equal(t, internal.DeptPending, first.CostingStatus)
	assert.Equal(t, 12, *first.Quantity)
	assert.Equal(t, "150000", first.EstimatedValue.String())
	assert.Equal(t, internal.ScopeInhouse, *first.Manufacturing)
	assert.Nil(t, first.QuoteDate)

	second := all[1]
	assert.Equal(t, "Enquiry-2", second.CustomerName)
	assert.Equal(t, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), second.EnquiryDate)
	assert.Equal(t, first.SalesRepID, second.SalesRepID)
	assert.Nil(t, second.Quantity)
	assert.Nil(t, second.Manufacturing)

	rnd, err := h.db.FindPersonByName(context.Background(), "Ravi Kumar")
	require.NoError(t, err)
	require.NotNil(t, rnd)
	assert.Equal(t, internal.RoleRnD, rnd.Role)
	assert.Equal(t, "Research & Development", rnd.Department)
	assert.Equal(t, "ravi.kumar@example.com", rnd.Email)

	n, err := h.db.CountPersons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestImportRowFailureDoesNotAbortBatch(t *testing.T) {
	h := newHarness(t)
	rows := [][]any{{"Enq No.", "Customer Name"}}
	for i := 1; i <= 10; i++ {
		number := "E-" + strconv.Itoa(i)
		if i == 5 {
			number = "E-1"
		}
		rows = append(rows, []any{number, "Customer " + strconv.Itoa(i)})
	}
	path := writeXLSX(t, h.dir, "batch.xlsx", rows)

	outcome, err := h.engine.Run(context.Background(), LocalFile(path), h.opts())
	require.NoError(t, err)
	assert.Equal(t, 10, outcome.Total)
	assert.Equal(t, 9, outcome.Successful)
	assert.Equal(t, 1, outcome.Failed)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, 5, outcome.Errors[0].Row)
	assert.Contains(t, outcome.Errors[0].Error, "duplicate key")

	for _, n := range []string{"E-6", "E-10"} {
		e, err := h.db.GetEnquiryByNumber(context.Background(), n)
		require.NoError(t, err)
		assert.NotNil(t, e, n)
	}
}

func TestImportSameFileTwiceFailsEveryRow(t *testing.T) {
	h := newHarness(t)
	path := writeXLSX(t, h.dir, "tracker.xlsx", [][]any{
		{"Enq No.", "Customer Name"},
		{"A-1", "Acme"},
		{"A-2", "Globex"},
		{"A-3", "Initech"},
	})

	first, err := h.engine.Run(context.Background(), LocalFile(path), h.opts())
	require.NoError(t, err)
	assert.Equal(t, 3, first.Successful)

	second, err := h.engine.Run(context.Background(), LocalFile(path), h.opts())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Successful)
	assert.Equal(t, 3, second.Failed)
	for _, e := range second.Errors {
		assert.Contains(t, e.Error, "duplicate key")
	}
	assert.NotEqual(t, first.RunID, second.RunID)

	_, err = os.Stat(path)
	assert.NoError(t, err, "local files are left in place")
}

func TestImportDeletesUploadOnSuccess(t *testing.T) {
	h := newHarness(t)
	path := writeXLSX(t, h.dir, "upload.xlsx", [][]any{{"Customer Name"}, {"Acme"}})

	_, err := h.engine.Run(context.Background(), UploadedFile(path), h.opts())
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestImportDeletesUploadOnFatalError(t *testing.T) {
	h := newHarness(t)
	path := writeXLSX(t, h.dir, "upload.xlsx", [][]any{{"Customer Name", "Enq No."}})

	_, err := h.engine.Run(context.Background(), UploadedFile(path), h.opts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptySheet))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	corrupt := filepath.Join(h.dir, "corrupt.xlsx")
	require.NoError(t, os.WriteFile(corrupt, []byte("garbage"), 0o644))
	_, err = h.engine.Run(context.Background(), UploadedFile(corrupt), h.opts())
	require.Error(t, err)
	_, statErr = os.Stat(corrupt)
	assert.True(t, os.IsNotExist(statErr))
}

func TestImportMissingFile(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.Run(context.Background(), UploadedFile(filepath.Join(h.dir, "gone.xlsx")), h.opts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sheet.ErrFileMissing))
}

func TestImportStopsWhenCancelled(t *testing.T) {
	h := newHarness(t)
	path := writeXLSX(t, h.dir, "upload.xlsx", [][]any{{"Customer Name"}, {"Acme"}, {"Globex"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome, err := h.engine.Run(ctx, UploadedFile(path), h.opts())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 2, outcome.Total)
	assert.Zero(t, outcome.Successful)

	n, err := h.db.CountEnquiries(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestImportReportsUnmappedColumns(t *testing.T) {
	h := newHarness(t)
	path := writeXLSX(t, h.dir, "tracker.xlsx", [][]any{
		{"Customer Name", "Cust Nm", nil, "Plant Code"},
		{"Acme", "Acme Ltd", "x", "P1"},
	})

	outcome, err := h.engine.Run(context.Background(), LocalFile(path), h.opts())
	require.NoError(t, err)
	assert.Equal(t, []string{"Customer Name", "Cust Nm", "__EMPTY", "Plant Code"}, outcome.ColumnNames)

	byColumn := map[string]string{}
	for _, u := range outcome.Unmapped {
		byColumn[u.Column] = u.Suggestion
	}
	assert.Equal(t, columns.FieldCustomerName, byColumn["Cust Nm"])
	assert.Contains(t, byColumn, "Plant Code")
	assert.NotContains(t, byColumn, "__EMPTY")
}

func TestOutcomeJSONShape(t *testing.T) {
	h := newHarness(t)
	path := writeXLSX(t, h.dir, "tracker.xlsx", [][]any{{"Enq No."}, {"X-1"}, {"X-1"}})

	outcome, err := h.engine.Run(context.Background(), LocalFile(path), h.opts())
	require.NoError(t, err)

	blob, err := json.Marshal(outcome)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(blob, &decoded))
	for _, key := range []string{"runId", "total", "successful", "failed", "skipped", "errors", "columnNames", "unmappedColumns"} {
		assert.Contains(t, decoded, key)
	}
	errs := decoded["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, float64(2), errs[0].(map[string]any)["row"])
}

func TestServiceImportStoresRun(t *testing.T) {
	h := newHarness(t)
	path := writeXLSX(t, h.dir, "upload.xlsx", [][]any{{"Customer Name"}, {"Acme"}})

	outcome, err := h.service.Import(context.Background(), UploadedFile(path), "Desk Operator")
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Successful)

	run, err := h.db.GetImportRun(context.Background(), outcome.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "upload.xlsx", run.Source)
	assert.Equal(t, 1, run.Successful)

	var stored Outcome
	require.NoError(t, json.Unmarshal([]byte(run.Outcome), &stored))
	assert.Equal(t, outcome, stored)

	operator, err := h.db.FindPersonByName(context.Background(), "Desk Operator")
	require.NoError(t, err)
	require.NotNil(t, operator)
	assert.Equal(t, internal.RoleAdmin, operator.Role)
	assert.Equal(t, operator.ID, *run.ImportedBy)

	e := h.onlyEnquiry(t)
	assert.Equal(t, operator.ID, e.CreatedBy)
}

func TestServiceImportRequiresUser(t *testing.T) {
	h := newHarness(t)
	path := writeXLSX(t, h.dir, "upload.xlsx", [][]any{{"Customer Name"}, {"Acme"}})

	_, err := h.service.Import(context.Background(), UploadedFile(path), "  ")
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportOutcomeToXLSX(t *testing.T) {
	out := filepath.Join(t.TempDir(), "reports", "outcome.xlsx")
	outcome := Outcome{
		RunID:       "run-1",
		Total:       3,
		Successful:  2,
		Failed:      1,
		Errors:      []RowError{{Row: 2, Error: "duplicate key"}},
		ColumnNames: []string{"Customer Name", "Cust Nm", "__EMPTY"},
		Unmapped:    []UnmappedColumn{{Column: "Cust Nm", Suggestion: columns.FieldCustomerName}},
	}
	require.NoError(t, ExportOutcomeToXLSX(outcome, out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Errors", "Columns"}, f.GetSheetList())
	v, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
	v, err = f.GetCellValue("Errors", "B2")
	require.NoError(t, err)
	assert.Equal(t, "duplicate key", v)
	v, err = f.GetCellValue("Columns", "B3")
	require.NoError(t, err)
	assert.Equal(t, "no", v)
	v, err = f.GetCellValue("Columns", "C3")
	require.NoError(t, err)
	assert.Equal(t, columns.FieldCustomerName, v)
	v, err = f.GetCellValue("Columns", "B4")
	require.NoError(t, err)
	assert.Equal(t, "blank header", v)
}
