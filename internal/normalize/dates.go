package normalize

import (
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"salesenq/internal"
	"salesenq/internal/util"
)

// Serial bounds accepted for text that looks like a spreadsheet date serial:
// 1900-01-01 through 9999-12-31.
const (
	minSerial = 1
	maxSerial = 2958465
)

// dateLayouts are tried in order for text cells. Day-first layouts come
// before month-first ones; the trackers are filled in day-first locales.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/06",
	"2/1/06",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Mon Jan 2 2006",
	"01/02/2006",
}

// Date converts a cell to a calendar date at midnight UTC. It returns nil for
// anything it cannot read; callers decide whether a default applies.
func Date(c internal.Cell) *time.Time {
	switch c.Kind {
	case internal.CellTime:
		t := c.Time
		return &t
	case internal.CellNumber:
		return fromSerial(c.Number)
	case internal.CellText:
		return parseDateText(c.Text)
	default:
		return nil
	}
}

func fromSerial(f float64) *time.Time {
	if f < minSerial || f > maxSerial {
		return nil
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return nil
	}
	d := calendarDate(t)
	return &d
}

func parseDateText(s string) *time.Time {
	s = util.CollapseSpaces(s)
	if s == "" || s == "-" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(f)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := calendarDate(t)
			return &d
		}
	}
	return nil
}

func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
