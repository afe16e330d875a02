// Package normalize maps raw spreadsheet cells onto the closed vocabularies
// of an enquiry. Every classifier is total: unexpected input degrades to the
// most common value instead of failing the row.
package normalize

import (
	"strings"

	"salesenq/internal"
)

// Text is the trimmed text form of a cell; blank cells give "".
func Text(c internal.Cell) string {
	if c.IsBlank() {
		return ""
	}
	return strings.TrimSpace(c.String())
}

func Market(c internal.Cell) internal.MarketType {
	if strings.Contains(strings.ToUpper(Text(c)), "EXPORT") {
		return internal.MarketExport
	}
	return internal.MarketDomestic
}

func Product(c internal.Cell) internal.ProductType {
	s := strings.ToUpper(Text(c))
	switch {
	case s == "SP":
		return internal.ProductSP
	case s == "NSP":
		return internal.ProductNSP
	case strings.Contains(s, "BOTH"), hasBothProductTokens(s):
		return internal.ProductSPNSP
	case strings.Contains(s, "NSP"), strings.Contains(s, "NON"):
		return internal.ProductNSP
	case strings.Contains(s, "STANDARD"):
		return internal.ProductSP
	default:
		return internal.ProductSP
	}
}

// hasBothProductTokens reports whether s names SP and NSP together, as in
// "SP+NSP" or "SP & NSP".
func hasBothProductTokens(s string) bool {
	if !strings.Contains(s, "NSP") {
		return false
	}
	return strings.Contains(strings.ReplaceAll(s, "NSP", ""), "SP")
}

func ActivityOf(c internal.Cell) internal.Activity {
	s := strings.ToUpper(Text(c))
	switch {
	case strings.Contains(s, "QUOTE"):
		return internal.ActivityQuoted
	case strings.Contains(s, "REGRET"):
		return internal.ActivityRegretted
	case strings.Contains(s, "PROGRESS"), strings.Contains(s, "PENDING"):
		return internal.ActivityInProgress
	case strings.Contains(s, "HOLD"):
		return internal.ActivityOnHold
	default:
		return internal.ActivityInProgress
	}
}

// Status closes every quoted or regretted enquiry whatever the sheet says.
func Status(c internal.Cell, activity internal.Activity) internal.EnquiryStatus {
	if activity == internal.ActivityQuoted || activity == internal.ActivityRegretted {
		return internal.StatusClosed
	}
	switch strings.ToLower(Text(c)) {
	case "closed", "close":
		return internal.StatusClosed
	default:
		return internal.StatusOpen
	}
}

// Department classifies the per-department progress columns (drawing,
// costing, R&D, sales).
func Department(c internal.Cell) internal.DepartmentStatus {
	s := strings.ToLower(Text(c))
	switch {
	case s == "done", s == "completed", s == "yes", s == "y":
		return internal.DeptCompleted
	case s == "pending", s == "waiting", s == "no", s == "n":
		return internal.DeptPending
	case strings.Contains(s, "progress"), s == "wip":
		return internal.DeptInProgress
	case strings.Contains(s, "not required"), s == "n/a", s == "na":
		return internal.DeptNotRequired
	default:
		return internal.DeptPending
	}
}

// Manufacturing returns nil when the sheet does not say; the attribute is
// genuinely optional.
func Manufacturing(c internal.Cell) *internal.ManufacturingScope {
	s := strings.ToLower(Text(c))
	var scope internal.ManufacturingScope
	switch {
	case s == "":
		return nil
	case strings.Contains(s, "inhouse"), s == "in-house":
		scope = internal.ScopeInhouse
	case strings.Contains(s, "brought"):
		scope = internal.ScopeBroughtout
	case strings.Contains(s, "both"):
		scope = internal.ScopeBoth
	default:
		return nil
	}
	return &scope
}
