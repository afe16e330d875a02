package normalize

import (
	"math"

	"github.com/shopspring/decimal"

	"salesenq/internal"
	"salesenq/internal/util"
)

// Int reads a whole number from a cell. Fractions truncate toward zero and
// text is read by its leading digits ("12 days" is 12).
func Int(c internal.Cell) *int {
	switch c.Kind {
	case internal.CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) || math.Abs(c.Number) > math.MaxInt32 {
			return nil
		}
		return util.IntPtr(int(c.Number))
	case internal.CellText:
		v, ok := util.ParseLeadingInt(c.Text)
		if !ok {
			return nil
		}
		return &v
	default:
		return nil
	}
}

// Decimal reads a monetary amount. Currency markers and grouping commas are
// ignored.
func Decimal(c internal.Cell) *decimal.Decimal {
	switch c.Kind {
	case internal.CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return nil
		}
		d := decimal.NewFromFloat(c.Number)
		return &d
	case internal.CellText:
		s, ok := util.ParseLeadingNumber(c.Text)
		if !ok {
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil
		}
		return &d
	default:
		return nil
	}
}
