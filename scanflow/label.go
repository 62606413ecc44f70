package scanflow

import (
	"errors"
	"strconv"
	"strings"
)

// Label is the parsed form of an item label scan.
//
// The label grammar is a semicolon-delimited record: field 1 is the part
// number, field 2 a positive integer quantity, field 3 the lot number and
// field 7 the DN number the label belongs to. Fields 4-6 carry carrier data
// this system ignores.
type Label struct {
	PartNo   string
	Qty      int64
	LotNo    string
	DNNumber string
}

// ErrInvalidFormat rejects labels that do not satisfy the grammar.
var ErrInvalidFormat = errors.New("invalid label format")

const labelFieldCount = 7

// ParseLabel validates and extracts the label fields.
func ParseLabel(raw string) (Label, error) {
	fields := strings.Split(raw, ";")
	if len(fields) < labelFieldCount {
		return Label{}, ErrInvalidFormat
	}

	partNo := strings.TrimSpace(fields[0])
	lotNo := strings.TrimSpace(fields[2])
	dn := strings.TrimSpace(fields[6])
	if partNo == "" || lotNo == "" || dn == "" {
		return Label{}, ErrInvalidFormat
	}

	qty, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil || qty <= 0 {
		return Label{}, ErrInvalidFormat
	}

	return Label{PartNo: partNo, Qty: qty, LotNo: lotNo, DNNumber: dn}, nil
}

// LooksLikeDN reports whether the input matches the DN auto-submit heuristic:
// at least 8 characters starting with the DN prefix, case-insensitively.
// Hardware scanners paste the full number faster than a human types, so a
// matching value is safe to submit after a short settle window.
func LooksLikeDN(v string) bool {
	v = strings.TrimSpace(v)
	return len(v) >= 8 && strings.HasPrefix(strings.ToUpper(v), "DN")
}

// LooksLikeLabel reports whether the input matches the item-label auto-submit
// heuristic: contains a field delimiter and is at least 20 characters.
func LooksLikeLabel(v string) bool {
	v = strings.TrimSpace(v)
	return strings.Contains(v, ";") && len(v) >= 20
}
