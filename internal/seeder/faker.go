package seeder

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/Rana718/dictseed/internal/schema"
	"github.com/google/uuid"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"

	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digits       = "0123456789"

	boundSpan = 1000
)

// Column names containing one of these hold card or account numbers and
// get digit-only values under a fixed-length constraint.
var numberMarkers = []string{"cartao", "card", "conta", "account"}

// DataGenerator synthesizes column values. It is not safe for concurrent
// use; each run builds its own.
type DataGenerator struct {
	rand *rand.Rand
	now  func() time.Time
}

// NewDataGenerator returns a generator whose output is fully determined by
// seed and the clock. A zero seed is replaced by the current time.
func NewDataGenerator(seed int64) *DataGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &DataGenerator{
		rand: rand.New(rand.NewSource(seed)),
		now:  time.Now,
	}
}

// Generate produces one value for col. A recognised check constraint takes
// precedence over the declared type. Unknown types yield nil.
func (g *DataGenerator) Generate(col schema.Column) any {
	if expr := col.Constraint(); expr != "" {
		if h := ParseConstraint(expr, col.Type); h != nil {
			if v := g.Resolve(h, col); v != nil {
				return v
			}
		}
	}
	return g.fromType(col)
}

// Resolve turns a constraint hint into a concrete value for col.
func (g *DataGenerator) Resolve(h Hint, col schema.Column) any {
	switch h := h.(type) {
	case EnumHint:
		return g.pick(h.Values)
	case BooleanHint:
		return g.pick(h.Values)
	case RangeHint:
		return g.inRange(h)
	case LengthHint:
		if isNumberColumn(col.Name) {
			return g.randomString(digits, h.Length)
		}
		return g.randomString(alphanumeric, h.Length)
	default:
		return nil
	}
}

func (g *DataGenerator) fromType(col schema.Column) any {
	switch classify(col.Type) {
	case familyVarchar:
		return g.randomString(alphanumeric, lengthOr(col, 20))
	case familyChar:
		return g.randomString(alphanumeric, lengthOr(col, 1))
	case familyText:
		return g.randomString(alphanumeric, lengthOr(col, 10))
	case familyUUID:
		return g.newUUID()
	case familyInteger, familyBigint:
		return g.between(1, 10000)
	case familyNumeric:
		// five integer digits, two fractional
		return float64(g.rand.Int63n(10_000_000)) / 100
	case familyTimestamp:
		return g.timestampThisDecade()
	case familyDate:
		return g.date()
	case familyBoolean:
		return g.rand.Intn(2) == 1
	default:
		return nil
	}
}

// placeholder is the first NOT NULL fallback: a randomized value that
// fits the column family.
func (g *DataGenerator) placeholder(col schema.Column, idx int) any {
	f := classify(col.Type)
	switch {
	case f.isCharacter():
		return g.randomString(alphanumeric, lengthOr(col, 10))
	case f.isNumber():
		return int64(idx + 1)
	case f == familyDate:
		return g.date()
	case f == familyTimestamp:
		return g.timestampThisDecade()
	case f == familyBoolean:
		return true
	default:
		return nil
	}
}

// literal is the last NOT NULL fallback and never returns nil.
func literal(col schema.Column, idx int) any {
	f := classify(col.Type)
	switch {
	case f.isNumber():
		return int64(idx + 1)
	case f == familyDate:
		return "2000-01-01"
	case f == familyTimestamp:
		return "2000-01-01 00:00:00"
	case f == familyBoolean:
		return true
	default:
		return "X"
	}
}

func (g *DataGenerator) pick(values []string) any {
	if len(values) == 0 {
		return nil
	}
	return values[g.rand.Intn(len(values))]
}

func (g *DataGenerator) inRange(h RangeHint) any {
	switch {
	case h.Min != nil && h.Max != nil && *h.Min <= *h.Max:
		return g.between(*h.Min, *h.Max)
	case h.Min != nil:
		return g.between(*h.Min, addClamped(*h.Min, boundSpan))
	case h.Max != nil:
		return g.between(addClamped(*h.Max, -boundSpan), *h.Max)
	default:
		return nil
	}
}

// between returns an int64 in [lo, hi]. Spans wider than Int63n can draw
// fall back to rejection sampling over the full 64 bits.
func (g *DataGenerator) between(lo, hi int64) int64 {
	span := uint64(hi) - uint64(lo)
	if span < math.MaxInt64 {
		return lo + g.rand.Int63n(int64(span)+1)
	}
	for {
		if v := int64(g.rand.Uint64()); v >= lo && v <= hi {
			return v
		}
	}
}

// addClamped returns n+delta saturated to the int64 range.
func addClamped(n, delta int64) int64 {
	if delta > 0 && n > math.MaxInt64-delta {
		return math.MaxInt64
	}
	if delta < 0 && n < math.MinInt64-delta {
		return math.MinInt64
	}
	return n + delta
}

func (g *DataGenerator) randomString(alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[g.rand.Intn(len(alphabet))])
	}
	return b.String()
}

func (g *DataGenerator) newUUID() string {
	id, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (g *DataGenerator) timestampThisDecade() string {
	now := g.now()
	start := time.Date(now.Year()-now.Year()%10, time.January, 1, 0, 0, 0, 0, now.Location())
	span := int64(now.Sub(start) / time.Second)
	if span <= 0 {
		return start.Format(timestampLayout)
	}
	return start.Add(time.Duration(g.rand.Int63n(span+1)) * time.Second).Format(timestampLayout)
}

func (g *DataGenerator) date() string {
	now := g.now().UTC()
	epoch := time.Unix(0, 0).UTC()
	days := int64(now.Sub(epoch) / (24 * time.Hour))
	if days <= 0 {
		return now.Format(dateLayout)
	}
	return epoch.AddDate(0, 0, int(g.rand.Int63n(days+1))).Format(dateLayout)
}

func lengthOr(col schema.Column, def int) int {
	if col.Length != nil && *col.Length > 0 {
		return *col.Length
	}
	return def
}

func isNumberColumn(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range numberMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
