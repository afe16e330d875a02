package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "Enq. No.", want: "enqno"},
		{input: "ENQ NO", want: "enqno"},
		{input: "enq_no", want: "enqno"},
		{input: "STANDARD / NON STANDARD\nPRODUCT (SP / NSP)", want: "standardnonstandardproductspnsp"},
		{input: "R & D", want: "rd"},
		{input: "ＤＡＴＥ　ＲＥＣＥＩＶＥＤ", want: "datereceived"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeHeader(tc.input), tc.input)
	}
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "DATE RECEIVED", CollapseSpaces("  DATE \n RECEIVED "))
}

func TestDotJoin(t *testing.T) {
	assert.Equal(t, "john.q.smith", DotJoin("  John  Q\tSmith "))
}

func TestParseLeadingInt(t *testing.T) {
	cases := []struct {
		input string
		want  int
		ok    bool
	}{
		{input: "12", want: 12, ok: true},
		{input: "12 days", want: 12, ok: true},
		{input: "7.9", want: 7, ok: true},
		{input: "1,200", want: 1200, ok: true},
		{input: "about 3", ok: false},
		{input: "", ok: false},
	}
	for _, tc := range cases {
		got, ok := ParseLeadingInt(tc.input)
		assert.Equal(t, tc.ok, ok, tc.input)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.input)
		}
	}
}

func TestParseLeadingNumber(t *testing.T) {
	got, ok := ParseLeadingNumber("Rs. 1,50,000.50")
	assert.True(t, ok)
	assert.Equal(t, "150000.50", got)

	got, ok = ParseLeadingNumber("+42.")
	assert.True(t, ok)
	assert.Equal(t, "42", got)

	_, ok = ParseLeadingNumber("N/A")
	assert.False(t, ok)
}
