// Package importer runs enquiry tracker imports: it reads a sheet, turns
// each row into an enquiry and reports what happened to every row.
package importer

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"salesenq/internal"
	"salesenq/internal/columns"
	"salesenq/internal/logging"
	"salesenq/internal/normalize"
	"salesenq/internal/people"
	"salesenq/internal/sheet"
	"salesenq/internal/util"
)

// ErrEmptySheet is returned when the sheet has a header row but no data.
var ErrEmptySheet = errors.New("import: sheet has no data rows")

const emptyRowReason = "row appears to be completely empty"

type Store interface {
	people.Store
	CreateEnquiry(ctx context.Context, e internal.Enquiry) (internal.Enquiry, error)
}

type Options struct {
	// ImportedBy stands in for a missing sales rep and is recorded as the
	// creator of every enquiry.
	ImportedBy internal.Person
}

type Engine struct {
	columns *columns.Resolver
	people  *people.Resolver
	store   Store
	log     *logrus.Entry
	now     func() time.Time
	newID   func() string
}

func New(resolver *columns.Resolver, persons *people.Resolver, store Store, log *logrus.Entry) *Engine {
	return &Engine{
		columns: resolver,
		people:  persons,
		store:   store,
		log:     logging.OrDiscard(log),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// WithClock replaces the clock used for the enquiry date fallback.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Run imports src. Only a missing or unreadable file or a sheet without data
// rows fails the whole run; row problems are reported in the outcome. When
// ctx is cancelled between rows the partial outcome is returned with
// ctx.Err(). A temporary src is deleted before Run returns.
func (e *Engine) Run(ctx context.Context, src Source, opts Options) (Outcome, error) {
	defer src.Release(e.log)

	table, err := sheet.ReadFile(src.Path)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "read import file")
	}
	if len(table.Rows) == 0 {
		return Outcome{}, errors.Wrap(ErrEmptySheet, src.Name())
	}

	outcome := newOutcome(e.newID(), table.Headers)
	outcome.Total = len(table.Rows)
	outcome.Unmapped = e.unmapped(table.Headers)

	log := e.log.WithFields(logrus.Fields{"run": outcome.RunID, "source": src.Name(), "sheet": table.Sheet})
	log.WithField("rows", outcome.Total).Info("import started")
	for _, u := range outcome.Unmapped {
		log.WithFields(logrus.Fields{"column": u.Column, "suggestion": u.Suggestion}).Warn("unmapped column")
	}

	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			log.WithField("row", i+1).Warn("import cancelled")
			return outcome, err
		}
		res := e.ProcessRow(ctx, row, i+1, opts)
		outcome.record(res)
		if res.State != RowCreated {
			log.WithFields(logrus.Fields{"row": res.Index, "state": res.State}).Warn(res.Reason)
		}
	}

	log.WithFields(logrus.Fields{
		"total":      outcome.Total,
		"successful": outcome.Successful,
		"failed":     outcome.Failed,
		"skipped":    outcome.Skipped,
	}).Info("import finished")
	return outcome, nil
}

func (e *Engine) unmapped(headers []string) []UnmappedColumn {
	out := []UnmappedColumn{}
	for _, h := range e.columns.Unmapped(headers) {
		u := UnmappedColumn{Column: h}
		if field, _, ok := e.columns.Suggest(h); ok {
			u.Suggestion = field
		}
		out = append(out, u)
	}
	return out
}

// ProcessRow drives one row to Created, Skipped or Failed. index is the
// 1-based data row number.
func (e *Engine) ProcessRow(ctx context.Context, row internal.Row, index int, opts Options) RowResult {
	res := RowResult{Index: index}
	fields := e.columns.ResolveAll(row)
	text := func(field string) string { return normalize.Text(fields.Get(field)) }

	activity := normalize.ActivityOf(fields.Get(columns.FieldActivity))
	enq := internal.Enquiry{
		MarketType:    normalize.Market(fields.Get(columns.FieldMarketType)),
		ProductType:   normalize.Product(fields.Get(columns.FieldProductType)),
		Activity:      activity,
		Status:        normalize.Status(fields.Get(columns.FieldStatus), activity),
		DrawingStatus: normalize.Department(fields.Get(columns.FieldDrawingStatus)),
		CostingStatus: normalize.Department(fields.Get(columns.FieldCostingStatus)),
		RndStatus:     normalize.Department(fields.Get(columns.FieldRndStatus)),
		SalesStatus:   normalize.Department(fields.Get(columns.FieldSalesStatus)),
		Manufacturing: normalize.Manufacturing(fields.Get(columns.FieldManufacturingScope)),
		CreatedBy:     opts.ImportedBy.ID,
	}

	rep, err := e.people.FindOrCreate(ctx, text(columns.FieldSalesRep), internal.RoleSales)
	if err != nil {
		return failed(res, err)
	}
	if rep == nil {
		rep = &opts.ImportedBy
	}
	enq.SalesRepID, enq.SalesRepName = rep.ID, rep.Name

	rnd, err := e.people.FindOrCreate(ctx, text(columns.FieldRndHandler), internal.RoleRnD)
	if err != nil {
		return failed(res, err)
	}
	if rnd != nil {
		enq.RndHandlerID, enq.RndHandlerName = &rnd.ID, &rnd.Name
	}

	number := text(columns.FieldEnquiryNumber)
	po := text(columns.FieldPONumber)
	enq.CustomerName = firstNonEmpty(text(columns.FieldCustomerName), number, po, "Enquiry-"+strconv.Itoa(index))

	received := normalize.Date(fields.Get(columns.FieldDateReceived))
	enquiryDate := received
	if enquiryDate == nil {
		enquiryDate = normalize.Date(fields.Get(columns.FieldEnquiryDate))
	}
	if enquiryDate == nil {
		today := e.today()
		enquiryDate = &today
	}

	// Unreachable while both fallbacks above always yield a value.
	if enq.CustomerName == "" && enquiryDate == nil {
		res.State, res.Reason = RowSkipped, emptyRowReason
		return res
	}
	enq.EnquiryDate = *enquiryDate

	enq.EnquiryNumber = number
	enq.PONumber = util.OptionalString(po)
	enq.SrNo = util.OptionalString(text(columns.FieldSrNo))
	enq.ContactInfo = util.OptionalString(text(columns.FieldContactInfo))
	enq.EnquiryDetails = util.OptionalString(text(columns.FieldEnquiryDetails))
	enq.RequirementSpec = util.OptionalString(text(columns.FieldRequirementSpec))
	enq.SupplyScope = util.OptionalString(text(columns.FieldSupplyScope))
	enq.Remarks = util.OptionalString(text(columns.FieldRemarks))
	enq.DelayRemarks = util.OptionalString(text(columns.FieldDelayRemarks))
	enq.DateReceived = received
	enq.DateSubmitted = normalize.Date(fields.Get(columns.FieldDateSubmitted))
	enq.QuoteDate = normalize.Date(fields.Get(columns.FieldQuoteDate))
	enq.ClosureDate = normalize.Date(fields.Get(columns.FieldClosureDate))
	enq.Quantity = normalize.Int(fields.Get(columns.FieldQuantity))
	enq.DaysRequired = normalize.Int(fields.Get(columns.FieldDaysRequired))
	enq.EstimatedValue = normalize.Decimal(fields.Get(columns.FieldEstimatedValue))

	created, err := e.store.CreateEnquiry(ctx, enq)
	if err != nil {
		return failed(res, err)
	}
	res.State, res.Enquiry = RowCreated, &created
	return res
}

func (e *Engine) today() time.Time {
	now := e.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func failed(res RowResult, err error) RowResult {
	res.State, res.Reason = RowFailed, err.Error()
	return res
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
