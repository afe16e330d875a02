package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"salesenq/internal"
	"salesenq/internal/util"
)

const enquirySelect = `
SELECT
  e.id, e.enquiryNumber, e.srNo, e.customerName, e.contactInfo, e.marketType, e.poNumber,
  e.dateReceived, e.enquiryDate, e.dateSubmitted,
  e.enquiryDetails, e.requirementSpec, e.quantity, e.estimatedValue,
  e.drawingStatus, e.costingStatus, e.rndStatus, e.salesStatus,
  e.salesRepId, s.name, e.rndHandlerId, r.name,
  e.status, e.activity, e.supplyScope, e.productType, e.manufacturingScope,
  e.quoteDate, e.closureDate, e.daysRequired, e.fulfillmentDays,
  e.remarks, e.delayRemarks, e.createdBy, e.createdAt
FROM enquiries e
JOIN persons s ON s.id = e.salesRepId
LEFT JOIN persons r ON r.id = e.rndHandlerId
`

// CreateEnquiry validates and stores e. A blank enquiry number is replaced
// by the next ENQ-YYYYMM-NNNN number of the current month; a number that is
// already taken fails with a DuplicateKeyError.
func (d *DB) CreateEnquiry(ctx context.Context, e internal.Enquiry) (internal.Enquiry, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return internal.Enquiry{}, err
	}
	defer func() { _ = tx.Rollback() }()

	e.EnquiryNumber = strings.TrimSpace(e.EnquiryNumber)
	if e.EnquiryNumber == "" {
		if e.EnquiryNumber, err = nextEnquiryNumber(ctx, tx, d.now()); err != nil {
			return internal.Enquiry{}, errors.Wrap(err, "next enquiry number")
		}
	}
	e.FulfillmentDays = FulfillmentDays(e)

	if err := d.validate.Struct(e); err != nil {
		return internal.Enquiry{}, errors.Wrap(err, "validate enquiry")
	}

	var estimated any
	if e.EstimatedValue != nil {
		estimated = e.EstimatedValue.String()
	}
	var manufacturing any
	if e.Manufacturing != nil {
		manufacturing = string(*e.Manufacturing)
	}

	result, err := tx.ExecContext(ctx, `
INSERT INTO enquiries (
  enquiryNumber, srNo, customerName, contactInfo, marketType, poNumber,
  dateReceived, enquiryDate, dateSubmitted,
  enquiryDetails, requirementSpec, quantity, estimatedValue,
  drawingStatus, costingStatus, rndStatus, salesStatus,
  salesRepId, rndHandlerId,
  status, activity, supplyScope, productType, manufacturingScope,
  quoteDate, closureDate, daysRequired, fulfillmentDays,
  remarks, delayRemarks, createdBy
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		e.EnquiryNumber, e.SrNo, e.CustomerName, e.ContactInfo, string(e.MarketType), e.PONumber,
		dateValue(e.DateReceived), e.EnquiryDate.Format(dateLayout), dateValue(e.DateSubmitted),
		e.EnquiryDetails, e.RequirementSpec, e.Quantity, estimated,
		string(e.DrawingStatus), string(e.CostingStatus), string(e.RndStatus), string(e.SalesStatus),
		e.SalesRepID, e.RndHandlerID,
		string(e.Status), string(e.Activity), e.SupplyScope, string(e.ProductType), manufacturing,
		dateValue(e.QuoteDate), dateValue(e.ClosureDate), e.DaysRequired, e.FulfillmentDays,
		e.Remarks, e.DelayRemarks, e.CreatedBy,
	)
	if isUniqueViolation(err) {
		return internal.Enquiry{}, &DuplicateKeyError{Field: "enquiryNumber", Value: e.EnquiryNumber}
	}
	if err != nil {
		return internal.Enquiry{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return internal.Enquiry{}, err
	}
	if err := tx.Commit(); err != nil {
		return internal.Enquiry{}, err
	}

	created, err := d.GetEnquiry(ctx, id)
	if err != nil {
		return internal.Enquiry{}, err
	}
	if created == nil {
		return internal.Enquiry{}, errors.New("failed to create enquiry")
	}
	return *created, nil
}

func nextEnquiryNumber(ctx context.Context, tx *sql.Tx, now time.Time) (string, error) {
	prefix := "ENQ-" + now.Format("200601") + "-"
	// Suffixes compare as numbers: -10000 follows -9999, and a sheet-supplied
	// "0005A" counts as 5.
	var last string
	err := tx.QueryRowContext(ctx, `
SELECT enquiryNumber FROM enquiries
WHERE enquiryNumber LIKE ? || '%'
ORDER BY CAST(substr(enquiryNumber, ?) AS INTEGER) DESC, enquiryNumber DESC
LIMIT 1
`, prefix, len(prefix)+1).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	seq := 1
	if n, ok := util.ParseLeadingInt(strings.TrimPrefix(last, prefix)); ok {
		seq = n + 1
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// FulfillmentDays is the whole number of days, rounded up, between the
// enquiry date and the quotation (the quote date, else the submission date).
func FulfillmentDays(e internal.Enquiry) *int {
	quoted := e.QuoteDate
	if quoted == nil {
		quoted = e.DateSubmitted
	}
	if quoted == nil || e.EnquiryDate.IsZero() {
		return nil
	}
	days := int(math.Ceil(math.Abs(quoted.Sub(e.EnquiryDate).Hours()) / 24))
	return &days
}

func (d *DB) GetEnquiry(ctx context.Context, id int64) (*internal.Enquiry, error) {
	row := d.conn.QueryRowContext(ctx, enquirySelect+`WHERE e.id = ?`, id)
	e, err := scanEnquiry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (d *DB) GetEnquiryByNumber(ctx context.Context, number string) (*internal.Enquiry, error) {
	row := d.conn.QueryRowContext(ctx, enquirySelect+`WHERE e.enquiryNumber = ?`, number)
	e, err := scanEnquiry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEnquiries returns enquiries in insertion order. A non-positive limit
// returns everything.
func (d *DB) ListEnquiries(ctx context.Context, limit, offset int) ([]internal.Enquiry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := d.conn.QueryContext(ctx, enquirySelect+`ORDER BY e.id ASC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Enquiry
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) CountEnquiries(ctx context.Context) (int, error) {
	var n int
	err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM enquiries`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEnquiry(s scanner) (internal.Enquiry, error) {
	var (
		e                                                        internal.Enquiry
		srNo, contactInfo, poNumber, details, requirement, scope sql.NullString
		dateReceived, dateSubmitted, quoteDate, closureDate      sql.NullString
		estimated, manufacturing, remarks, delayRemarks, rndName sql.NullString
		marketType, productType, activity, status, enquiryDate   string
		drawing, costing, rnd, sales, createdAt                  string
		quantity, daysRequired, fulfillment, rndHandlerID        sql.NullInt64
	)
	err := s.Scan(
		&e.ID, &e.EnquiryNumber, &srNo, &e.CustomerName, &contactInfo, &marketType, &poNumber,
		&dateReceived, &enquiryDate, &dateSubmitted,
		&details, &requirement, &quantity, &estimated,
		&drawing, &costing, &rnd, &sales,
		&e.SalesRepID, &e.SalesRepName, &rndHandlerID, &rndName,
		&status, &activity, &scope, &productType, &manufacturing,
		&quoteDate, &closureDate, &daysRequired, &fulfillment,
		&remarks, &delayRemarks, &e.CreatedBy, &createdAt,
	)
	if err != nil {
		return internal.Enquiry{}, err
	}

	e.SrNo = nullString(srNo)
	e.ContactInfo = nullString(contactInfo)
	e.PONumber = nullString(poNumber)
	e.EnquiryDetails = nullString(details)
	e.RequirementSpec = nullString(requirement)
	e.SupplyScope = nullString(scope)
	e.Remarks = nullString(remarks)
	e.DelayRemarks = nullString(delayRemarks)

	e.DateReceived = parseDate(dateReceived)
	e.DateSubmitted = parseDate(dateSubmitted)
	e.QuoteDate = parseDate(quoteDate)
	e.ClosureDate = parseDate(closureDate)
	if t := parseDate(sql.NullString{String: enquiryDate, Valid: true}); t != nil {
		e.EnquiryDate = *t
	}

	e.Quantity = nullInt(quantity)
	e.DaysRequired = nullInt(daysRequired)
	e.FulfillmentDays = nullInt(fulfillment)
	if estimated.Valid {
		if v, err := decimal.NewFromString(estimated.String); err == nil {
			e.EstimatedValue = &v
		}
	}
	if manufacturing.Valid {
		m := internal.ManufacturingScope(manufacturing.String)
		e.Manufacturing = &m
	}
	if rndHandlerID.Valid {
		id := rndHandlerID.Int64
		e.RndHandlerID = &id
		e.RndHandlerName = nullString(rndName)
	}

	e.MarketType = internal.MarketType(marketType)
	e.ProductType = internal.ProductType(productType)
	e.Activity = internal.Activity(activity)
	e.Status = internal.EnquiryStatus(status)
	e.DrawingStatus = internal.DepartmentStatus(drawing)
	e.CostingStatus = internal.DepartmentStatus(costing)
	e.RndStatus = internal.DepartmentStatus(rnd)
	e.SalesStatus = internal.DepartmentStatus(sales)
	e.CreatedAt = parseTimestamp(createdAt)
	return e, nil
}
