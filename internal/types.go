package internal

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellTime
)

// Cell is one scalar spreadsheet value. The zero Cell is empty and doubles as
// the "not found" value of a column lookup.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
}

func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

func TimeCell(t time.Time) Cell { return Cell{Kind: CellTime, Time: t} }

func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellTime:
		return c.Time.Format("2006-01-02")
	default:
		return ""
	}
}

// IsBlank reports whether the cell carries no usable value. Spreadsheets use
// a lone "-" as a filler, so that counts as blank too.
func (c Cell) IsBlank() bool {
	if c.Kind == CellEmpty {
		return true
	}
	if c.Kind != CellText {
		return false
	}
	s := strings.TrimSpace(c.Text)
	return s == "" || s == "-"
}

// EmptyHeaderPrefix names header cells that were blank in the sheet:
// "__EMPTY", "__EMPTY_1", ...
const EmptyHeaderPrefix = "__EMPTY"

// Row is one data row keyed by the literal header strings of its sheet.
// Header order is kept so that scans over a row are deterministic.
type Row struct {
	headers []string
	cells   map[string]Cell
}

func NewRow(headers []string, values []Cell) Row {
	r := Row{headers: make([]string, 0, len(headers)), cells: make(map[string]Cell, len(headers))}
	for i, h := range headers {
		var v Cell
		if i < len(values) {
			v = values[i]
		}
		if _, dup := r.cells[h]; !dup {
			r.headers = append(r.headers, h)
		}
		r.cells[h] = v
	}
	return r
}

func (r Row) Headers() []string { return r.headers }

func (r Row) Get(header string) (Cell, bool) {
	c, ok := r.cells[header]
	return c, ok
}

type MarketType string

const (
	MarketDomestic MarketType = "Domestic"
	MarketExport   MarketType = "Export"
)

func AllMarketTypes() []MarketType { return []MarketType{MarketDomestic, MarketExport} }

type ProductType string

const (
	ProductSP    ProductType = "SP"
	ProductNSP   ProductType = "NSP"
	ProductSPNSP ProductType = "SP+NSP"
)

func AllProductTypes() []ProductType { return []ProductType{ProductSP, ProductNSP, ProductSPNSP} }

type Activity string

const (
	ActivityQuoted     Activity = "Quoted"
	ActivityRegretted  Activity = "Regretted"
	ActivityInProgress Activity = "In Progress"
	ActivityOnHold     Activity = "On Hold"
)

func AllActivities() []Activity {
	return []Activity{ActivityQuoted, ActivityRegretted, ActivityInProgress, ActivityOnHold}
}

type EnquiryStatus string

const (
	StatusOpen   EnquiryStatus = "Open"
	StatusClosed EnquiryStatus = "Closed"
)

func AllStatuses() []EnquiryStatus { return []EnquiryStatus{StatusOpen, StatusClosed} }

type DepartmentStatus string

const (
	DeptCompleted   DepartmentStatus = "Completed"
	DeptPending     DepartmentStatus = "Pending"
	DeptInProgress  DepartmentStatus = "In Progress"
	DeptNotRequired DepartmentStatus = "Not Required"
)

func AllDepartmentStatuses() []DepartmentStatus {
	return []DepartmentStatus{DeptCompleted, DeptPending, DeptInProgress, DeptNotRequired}
}

type ManufacturingScope string

const (
	ScopeInhouse    ManufacturingScope = "Inhouse"
	ScopeBroughtout ManufacturingScope = "Broughtout"
	ScopeBoth       ManufacturingScope = "Both"
)

func AllManufacturingScopes() []ManufacturingScope {
	return []ManufacturingScope{ScopeInhouse, ScopeBroughtout, ScopeBoth}
}

type Role string

const (
	RoleSales Role = "sales"
	RoleRnD   Role = "r&d"
	RoleAdmin Role = "admin"
)

type Person struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   string
	CreatedAt    time.Time
}

type Enquiry struct {
	ID            int64
	EnquiryNumber string    `validate:"required"`
	CustomerName  string    `validate:"required"`
	EnquiryDate   time.Time `validate:"required"`

	MarketType  MarketType    `validate:"required,oneof=Domestic Export"`
	ProductType ProductType   `validate:"required,oneof=SP NSP SP+NSP"`
	Activity    Activity      `validate:"required,oneof=Quoted Regretted 'In Progress' 'On Hold'"`
	Status      EnquiryStatus `validate:"required,oneof=Open Closed"`

	DrawingStatus DepartmentStatus `validate:"required"`
	CostingStatus DepartmentStatus `validate:"required"`
	RndStatus     DepartmentStatus `validate:"required"`
	SalesStatus   DepartmentStatus `validate:"required"`

	SrNo            *string
	PONumber        *string
	DateReceived    *time.Time
	DateSubmitted   *time.Time
	ContactInfo     *string
	EnquiryDetails  *string
	RequirementSpec *string
	SupplyScope     *string
	Quantity        *int             `validate:"omitempty,gte=0"`
	EstimatedValue  *decimal.Decimal
	Manufacturing   *ManufacturingScope
	QuoteDate       *time.Time
	ClosureDate     *time.Time
	DaysRequired    *int `validate:"omitempty,gte=0"`
	FulfillmentDays *int
	Remarks         *string
	DelayRemarks    *string

	SalesRepID     int64  `validate:"required"`
	SalesRepName   string `validate:"required"`
	RndHandlerID   *int64
	RndHandlerName *string

	CreatedBy int64 `validate:"required"`
	CreatedAt time.Time
}

// ImportRun is the stored log entry of one import. Outcome holds the JSON
// outcome report.
type ImportRun struct {
	ID         string
	Source     string
	ImportedBy *int64
	Total      int
	Successful int
	Failed     int
	Skipped    int
	Outcome    string
	CreatedAt  time.Time
}

// Email statuses.
const (
	EmailFetched  = "fetched"
	EmailImported = "imported"
	EmailSkipped  = "skipped"
	EmailFailed   = "failed"
)

type EmailRow struct {
	ID          int
	Provider    string
	MessageID   string
	Subject     string
	Sender      string
	ReceivedAt  string
	Hash        string
	Status      string
	RawRef      string
	ImportRunID *string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}
