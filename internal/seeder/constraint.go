package seeder

import (
	"regexp"
	"strconv"
	"strings"
)

// Hint is what a check constraint says about acceptable values. It is one
// of EnumHint, BooleanHint, RangeHint or LengthHint.
type Hint interface {
	hint()
}

// EnumHint lists the literal values a column may take.
type EnumHint struct {
	Values []string
}

// BooleanHint is an enumerated set drawn from the literals t and f.
type BooleanHint struct {
	Values []string
}

// RangeHint bounds an integer or numeric column. Either end may be open.
type RangeHint struct {
	Min *int64
	Max *int64
}

// LengthHint fixes the exact length of a character column.
type LengthHint struct {
	Length int
}

func (EnumHint) hint()    {}
func (BooleanHint) hint() {}
func (RangeHint) hint()   {}
func (LengthHint) hint()  {}

var (
	arrayLiteral  = regexp.MustCompile(`ARRAY\[(.*?)\]`)
	inList        = regexp.MustCompile(`\bIN\s*\((.*?)\)`)
	booleanEquals = regexp.MustCompile(`=\s*'([tf])'`)
	greaterEqual  = regexp.MustCompile(`>=\s*(-?\d+)`)
	greaterThan   = regexp.MustCompile(`(?:^|[^<])>\s*(-?\d+)`)
	lessEqual     = regexp.MustCompile(`<=\s*(-?\d+)`)
	lessThan      = regexp.MustCompile(`<\s*(-?\d+)`)
	lengthEquals  = regexp.MustCompile(`length\(.*?\)\s*=\s*(\d+)`)
)

// ParseConstraint reads a check-constraint expression for a column of the
// given type. It matches patterns, not a grammar: the first recognised
// shape wins and compound conditions are not decomposed. A nil Hint means
// nothing was recognised.
func ParseConstraint(expression, colType string) Hint {
	if strings.TrimSpace(expression) == "" {
		return nil
	}
	family := classify(colType)

	if values := enumValues(expression); len(values) > 0 {
		if isBooleanSet(values) {
			return BooleanHint{Values: values}
		}
		return EnumHint{Values: values}
	}

	if m := booleanEquals.FindStringSubmatch(expression); m != nil {
		return BooleanHint{Values: []string{m[1]}}
	}

	if family.isNumber() {
		if r, ok := rangeBounds(expression); ok {
			return r
		}
	}

	if family.isCharacter() {
		if m := lengthEquals.FindStringSubmatch(expression); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return LengthHint{Length: n}
			}
		}
	}

	return nil
}

func enumValues(expression string) []string {
	m := arrayLiteral.FindStringSubmatch(expression)
	if m == nil {
		m = inList.FindStringSubmatch(expression)
	}
	if m == nil {
		return nil
	}

	var values []string
	for _, item := range strings.Split(m[1], ",") {
		item, _, _ = strings.Cut(item, "::")
		item = strings.Trim(item, " \t\n()")
		item = strings.Trim(item, `'"`)
		if item != "" {
			values = append(values, item)
		}
	}
	return values
}

func isBooleanSet(values []string) bool {
	for _, v := range values {
		if v != "t" && v != "f" {
			return false
		}
	}
	return true
}

func rangeBounds(expression string) (RangeHint, bool) {
	var r RangeHint

	if n, ok := firstInt(greaterEqual, expression); ok {
		r.Min = &n
	} else if n, ok := firstInt(greaterThan, expression); ok {
		n = addClamped(n, 1)
		r.Min = &n
	}

	if n, ok := firstInt(lessEqual, expression); ok {
		r.Max = &n
	} else if n, ok := firstInt(lessThan, expression); ok {
		n = addClamped(n, -1)
		r.Max = &n
	}

	return r, r.Min != nil || r.Max != nil
}

func firstInt(re *regexp.Regexp, s string) (int64, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
