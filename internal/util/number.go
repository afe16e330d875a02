package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingIntPattern    = regexp.MustCompile(`^[+-]?\d+`)
	leadingNumberPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)
	currencyReplacer     = strings.NewReplacer("₹", "", "$", "", "€", "", "£", "", "Rs.", "", "Rs", "", "INR", "", " ", "")
)

// ParseLeadingInt reads the integer prefix of input the way a lenient
// spreadsheet consumer does: "12 days" is 12, "7.9" is 7, "about 3" fails.
func ParseLeadingInt(input string) (int, bool) {
	s := compactNumeric(input)
	m := leadingIntPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseLeadingNumber is the float counterpart of ParseLeadingInt. Grouping
// commas are dropped, so both "1,250.50" and the lakh form "1,50,000" parse.
func ParseLeadingNumber(input string) (string, bool) {
	s := compactNumeric(input)
	m := leadingNumberPattern.FindString(s)
	if m == "" {
		return "", false
	}
	return strings.TrimPrefix(strings.TrimSuffix(m, "."), "+"), true
}

func compactNumeric(input string) string {
	s := currencyReplacer.Replace(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}
