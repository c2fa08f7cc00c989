// Package numbering formats and advances document display numbers.
package numbering

import (
	"fmt"
	"strings"
)

// DocType names a numbered document series.
type DocType string

const (
	DocTypeQuotation DocType = "QT"
	DocTypeInvoice   DocType = "INV"
)

// Sequence describes one document series: a prefix, a zero-padding width
// and the next number to hand out.
type Sequence struct {
	DocType    DocType `json:"doc_type"`
	Prefix     string  `json:"prefix"`
	Padding    int     `json:"padding"`
	NextNumber int64   `json:"next_number"`
}

// Format renders the display number: prefix followed by the next number
// left-padded with zeroes to the configured width. Numbers wider than the
// padding are never truncated.
func (s Sequence) Format() string {
	digits := fmt.Sprintf("%d", s.NextNumber)
	if pad := s.Padding - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return s.Prefix + digits
}
