package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"synthdb/internal/schema"
)

// resampleLimit caps how many times a generator is redrawn before its
// field's constraints are declared unsatisfiable.
const resampleLimit = 100

// ConstraintError reports a field whose constraints could not be satisfied
// within the resampling budget, or that are contradictory outright.
type ConstraintError struct {
	Table     string
	Field     string
	Generator string
	Attempts  int
	Reason    string
}

func (e *ConstraintError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("generation constraint: %s.%s: %s produced no valid value after %d attempts: %s",
			e.Table, e.Field, e.Generator, e.Attempts, e.Reason)
	}
	return fmt.Sprintf("generation constraint: %s.%s: %s: %s", e.Table, e.Field, e.Generator, e.Reason)
}

// FieldContext carries the field a generator is bound to, plus its compiled
// pattern when one is declared.
type FieldContext struct {
	Table   string
	Field   *schema.Field
	pattern *regexp.Regexp
}

// accepts reports whether v satisfies the field's max_length and pattern.
func (gc FieldContext) accepts(v string) bool {
	if max := gc.Field.Constraints.MaxLength; max > 0 && utf8.RuneCountInString(v) > max {
		return false
	}
	if gc.pattern != nil && !gc.pattern.MatchString(v) {
		return false
	}
	return true
}

func (gc FieldContext) paramInt(name string, def int) int {
	switch n := gc.Field.Params[name].(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return def
}

func (gc FieldContext) paramString(name, def string) string {
	if s, ok := gc.Field.Params[name].(string); ok {
		return s
	}
	return def
}

// GenFunc produces one value for a field. Implementations draw randomness
// only from the supplied faker so a run is reproducible from its seed.
type GenFunc func(f *gofakeit.Faker, gc FieldContext) (any, error)

// Bound is a generator closed over its field context.
type Bound func(f *gofakeit.Faker) (any, error)

// Registry maps generator names to implementations.
type Registry struct {
	funcs map[string]GenFunc
}

// NewRegistry returns a registry with every built-in generator installed.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]GenFunc)}
	r.Register("israeli_id", genIsraeliID)
	r.Register("israeli_phone", genIsraeliPhone)
	r.Register("credit_card_number", genCreditCardNumber)
	r.Register("credit_card_expiry", genCreditCardExpiry)
	r.Register("account_number", genAccountNumber)
	r.Register("email", genEmail)
	r.Register("uuid", genUUID)
	r.Register("number", genNumber)
	r.Register("choice", genChoice)
	r.Register("boolean", genBoolean)
	r.Register("text", genText)
	r.Register("hebrew_text", genHebrewText)
	r.Register("hebrew_first_name", genHebrewFirstName)
	r.Register("hebrew_last_name", genHebrewLastName)
	r.Register("hebrew_full_name", genHebrewFullName)
	r.Register("hebrew_city", genHebrewCity)
	r.Register("hebrew_street", genHebrewStreet)
	r.Register("hebrew_address", genHebrewAddress)
	r.Register("hebrew_business_name", genHebrewBusinessName)
	r.Register("past_date", genPastDate)
	r.Register("past_datetime", genPastDatetime)
	r.Register("recent_date", genRecentDate)
	return r
}

// Register installs fn under name, replacing any previous registration.
func (r *Registry) Register(name string, fn GenFunc) {
	r.funcs[name] = fn
}

// Lookup returns the generator registered under name.
func (r *Registry) Lookup(name string) (GenFunc, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Bind resolves the generator for fld and closes it over the field context.
// Fields that name no generator fall back to a default for their type.
func (r *Registry) Bind(table string, fld *schema.Field) (Bound, error) {
	gc := FieldContext{Table: table, Field: fld}
	if p := fld.Constraints.Pattern; p != "" {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: compile pattern: %w", table, fld.Name, err)
		}
		gc.pattern = re
	}
	fn := typeDefault(fld.Type)
	if fld.Generator != "" {
		g, ok := r.funcs[fld.Generator]
		if !ok {
			return nil, fmt.Errorf("field %s.%s: unknown generator %q", table, fld.Name, fld.Generator)
		}
		fn = g
	}
	return func(f *gofakeit.Faker) (any, error) { return fn(f, gc) }, nil
}

func typeDefault(t schema.FieldType) GenFunc {
	switch t {
	case schema.TypeInteger, schema.TypeFloat:
		return genNumber
	case schema.TypeChoice:
		return genChoice
	case schema.TypeBoolean:
		return genBoolean
	case schema.TypeDate:
		return genPastDate
	case schema.TypeDatetime:
		return genPastDatetime
	default:
		return genText
	}
}

// resampleString redraws until the value satisfies the field's constraints
// or the budget runs out.
func resampleString(f *gofakeit.Faker, gc FieldContext, name string, draw func() string) (any, error) {
	for i := 0; i < resampleLimit; i++ {
		if v := draw(); gc.accepts(v) {
			return v, nil
		}
	}
	return nil, &ConstraintError{
		Table:     gc.Table,
		Field:     gc.Field.Name,
		Generator: name,
		Attempts:  resampleLimit,
		Reason:    "no value satisfied max_length/pattern",
	}
}

func pick(f *gofakeit.Faker, list []string) string {
	return list[f.Number(0, len(list)-1)]
}

// genIsraeliID builds a nine-digit ID: eight random digits plus a check
// digit chosen so the weighted digit sum is divisible by ten.
func genIsraeliID(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "israeli_id", func() string {
		digits := make([]int, 8)
		sum := 0
		for i := range digits {
			digits[i] = f.Number(0, 9)
			d := digits[i]
			if i%2 == 1 {
				d *= 2
				if d > 9 {
					d -= 9
				}
			}
			sum += d
		}
		var b strings.Builder
		for _, d := range digits {
			b.WriteByte(byte('0' + d))
		}
		b.WriteByte(byte('0' + (10-sum%10)%10))
		return b.String()
	})
}

// ValidIsraeliID reports whether id is nine digits whose weighted checksum
// is divisible by ten. Every second digit counts double, with digit sums
// above nine reduced by nine.
func ValidIsraeliID(id string) bool {
	if len(id) != 9 {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		d := int(id[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// genIsraeliPhone returns mobile numbers like "052-1234567".
func genIsraeliPhone(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "israeli_phone", func() string {
		return pick(f, phonePrefixes) + "-" + f.DigitN(7)
	})
}

// genCreditCardNumber returns a sixteen-digit card number with a valid Luhn
// check digit. A "prefix" param pins the leading issuer digits.
func genCreditCardNumber(f *gofakeit.Faker, gc FieldContext) (any, error) {
	prefix := gc.paramString("prefix", "")
	return resampleString(f, gc, "credit_card_number", func() string {
		digits := make([]int, 0, 16)
		for _, r := range prefix {
			if r >= '0' && r <= '9' && len(digits) < 15 {
				digits = append(digits, int(r-'0'))
			}
		}
		if len(digits) == 0 {
			digits = append(digits, f.Number(1, 9))
		}
		for len(digits) < 15 {
			digits = append(digits, f.Number(0, 9))
		}
		digits = append(digits, luhnCheckDigit(digits))
		var b strings.Builder
		for _, d := range digits {
			b.WriteByte(byte('0' + d))
		}
		return b.String()
	})
}

// luhnCheckDigit computes the check digit for a fifteen-digit payload.
func luhnCheckDigit(digits []int) int {
	sum := 0
	n := len(digits)
	for i, d := range digits {
		// Odd distance from the end of the payload means the digit sits in
		// a doubled position once the check digit is appended.
		if (n-i)%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return (10 - sum%10) % 10
}

// ValidLuhn reports whether s passes the Luhn checksum.
func ValidLuhn(s string) bool {
	if s == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		d := int(s[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// genCreditCardExpiry returns an MM/YY date one to sixty months ahead.
func genCreditCardExpiry(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "credit_card_expiry", func() string {
		return time.Now().AddDate(0, f.Number(1, 60), 0).Format("01/06")
	})
}

// genAccountNumber returns a six-to-eight digit account number that never
// starts with zero.
func genAccountNumber(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "account_number", func() string {
		n := f.Number(6, 8)
		var b strings.Builder
		b.WriteByte(byte('0' + f.Number(1, 9)))
		for i := 1; i < n; i++ {
			b.WriteByte(byte('0' + f.Number(0, 9)))
		}
		return b.String()
	})
}

func genEmail(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "email", func() string { return f.Email() })
}

// genUUID draws a version 4 UUID from the faker's random source so
// identical seeds yield identical IDs.
func genUUID(f *gofakeit.Faker, gc FieldContext) (any, error) {
	id, err := uuid.NewRandomFromReader(f.Rand)
	if err != nil {
		return nil, err
	}
	return id.String(), nil
}

// genNumber covers integer and float fields. Integers default to 1..1000000
// and floats to 0..100000 rounded to two decimals; min/max constraints
// narrow the range. On a string field it produces a digit string capped by
// max_length.
func genNumber(f *gofakeit.Faker, gc FieldContext) (any, error) {
	c := gc.Field.Constraints
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return nil, &ConstraintError{
			Table:     gc.Table,
			Field:     gc.Field.Name,
			Generator: "number",
			Reason:    fmt.Sprintf("min %v exceeds max %v", *c.Min, *c.Max),
		}
	}
	switch gc.Field.Type {
	case schema.TypeFloat:
		lo, hi := 0.0, 100000.0
		if c.Min != nil {
			lo = *c.Min
		}
		if c.Max != nil {
			hi = *c.Max
		}
		if hi < lo {
			hi = lo
		}
		return roundTo(f.Float64Range(lo, hi), gc.paramInt("decimals", 2)), nil
	case schema.TypeString:
		digits := 9
		if c.MaxLength > 0 && c.MaxLength < digits {
			digits = c.MaxLength
		}
		lo, hi := 1, pow10(digits)-1
		if c.Min != nil {
			lo = int(*c.Min)
		}
		if c.Max != nil && int(*c.Max) < hi {
			hi = int(*c.Max)
		}
		if lo > hi {
			lo = hi
		}
		return strconv.Itoa(f.Number(lo, hi)), nil
	default:
		lo, hi := 1, 1000000
		if c.Min != nil {
			lo = int(*c.Min)
		}
		if c.Max != nil {
			hi = int(*c.Max)
		}
		if hi < lo {
			hi = lo
		}
		return f.Number(lo, hi), nil
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

func pow10(n int) int {
	p := 1
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// genChoice returns one of the declared choices verbatim, so typed literals
// keep their type.
func genChoice(f *gofakeit.Faker, gc FieldContext) (any, error) {
	choices := gc.Field.Constraints.Choices
	if len(choices) == 0 {
		return nil, &ConstraintError{
			Table:     gc.Table,
			Field:     gc.Field.Name,
			Generator: "choice",
			Reason:    "no choices declared",
		}
	}
	return choices[f.Number(0, len(choices)-1)], nil
}

func genBoolean(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return f.Bool(), nil
}

// genText is the default string generator: a pattern sample when the field
// declares one, otherwise a short Hebrew phrase.
func genText(f *gofakeit.Faker, gc FieldContext) (any, error) {
	if gc.pattern != nil {
		return samplePattern(f, gc)
	}
	return genHebrewText(f, gc)
}

func genHebrewText(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "hebrew_text", func() string {
		if max := gc.Field.Constraints.MaxLength; max > 0 && max < 12 {
			return pick(f, Words)
		}
		parts := make([]string, f.Number(1, 5))
		for i := range parts {
			parts[i] = pick(f, Words)
		}
		return strings.Join(parts, " ")
	})
}

func genHebrewFirstName(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "hebrew_first_name", func() string { return pick(f, FirstNames) })
}

func genHebrewLastName(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "hebrew_last_name", func() string { return pick(f, LastNames) })
}

func genHebrewFullName(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "hebrew_full_name", func() string {
		return pick(f, FirstNames) + " " + pick(f, LastNames)
	})
}

func genHebrewCity(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "hebrew_city", func() string { return pick(f, Cities) })
}

func genHebrewStreet(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "hebrew_street", func() string { return pick(f, Streets) })
}

// genHebrewAddress renders "street number, city".
func genHebrewAddress(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "hebrew_address", func() string {
		return fmt.Sprintf("%s %d, %s", pick(f, Streets), f.Number(1, 150), pick(f, Cities))
	})
}

func genHebrewBusinessName(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return resampleString(f, gc, "hebrew_business_name", func() string {
		return pick(f, BusinessKinds) + " " + pick(f, BusinessSuffixes)
	})
}

// genPastDate returns a date within the lookback window at midnight UTC.
// The window defaults to two years and is tunable via "days_back".
func genPastDate(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return pastDate(f, gc.paramInt("days_back", 730)), nil
}

// genRecentDate is genPastDate with a thirty-day default window.
func genRecentDate(f *gofakeit.Faker, gc FieldContext) (any, error) {
	return pastDate(f, gc.paramInt("days_back", 30)), nil
}

func pastDate(f *gofakeit.Faker, days int) time.Time {
	if days < 1 {
		days = 1
	}
	d := time.Now().UTC().AddDate(0, 0, -f.Number(0, days-1))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func genPastDatetime(f *gofakeit.Faker, gc FieldContext) (any, error) {
	days := gc.paramInt("days_back", 730)
	if days < 1 {
		days = 1
	}
	now := time.Now().UTC()
	return f.DateRange(now.AddDate(0, 0, -days), now.Add(-time.Second)), nil
}

// samplePattern draws strings from a restricted regular expression
// template: literals, \d and escaped metacharacters, character classes
// with ranges, and {n}/{n,m} counts. Draws are verified against the
// compiled pattern, so unsupported syntax falls through to resampling.
func samplePattern(f *gofakeit.Faker, gc FieldContext) (any, error) {
	tmpl := strings.TrimSuffix(strings.TrimPrefix(gc.Field.Constraints.Pattern, "^"), "$")
	rs := []rune(tmpl)
	return resampleString(f, gc, "text", func() string {
		var b strings.Builder
		for i := 0; i < len(rs); {
			var draw func() rune
			switch rs[i] {
			case '\\':
				if i+1 >= len(rs) {
					i++
					continue
				}
				esc := rs[i+1]
				i += 2
				if esc == 'd' {
					draw = func() rune { return rune('0' + f.Number(0, 9)) }
				} else {
					draw = func() rune { return esc }
				}
			case '[':
				end := i + 1
				for end < len(rs) && rs[end] != ']' {
					end++
				}
				set := expandClass(rs[i+1 : end])
				i = end + 1
				if len(set) == 0 {
					continue
				}
				draw = func() rune { return set[f.Number(0, len(set)-1)] }
			default:
				lit := rs[i]
				i++
				draw = func() rune { return lit }
			}
			n, m, next := parseCount(rs, i)
			i = next
			count := n
			if m > n {
				count = f.Number(n, m)
			}
			for k := 0; k < count; k++ {
				b.WriteRune(draw())
			}
		}
		return b.String()
	})
}

// parseCount reads a {n} or {n,m} quantifier at position i.
func parseCount(rs []rune, i int) (n, m, next int) {
	if i >= len(rs) || rs[i] != '{' {
		return 1, 1, i
	}
	j := i + 1
	for j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
		n = n*10 + int(rs[j]-'0')
		j++
	}
	m = n
	if j < len(rs) && rs[j] == ',' {
		j++
		m = 0
		for j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
			m = m*10 + int(rs[j]-'0')
			j++
		}
	}
	if j < len(rs) && rs[j] == '}' {
		j++
	}
	return n, m, j
}

// expandClass lists the runes matched by a character class body like
// "0-9a-f".
func expandClass(body []rune) []rune {
	var out []rune
	for i := 0; i < len(body); i++ {
		if i+2 < len(body) && body[i+1] == '-' {
			for r := body[i]; r <= body[i+2]; r++ {
				out = append(out, r)
			}
			i += 2
			continue
		}
		if body[i] == '\\' && i+1 < len(body) {
			i++
			if body[i] == 'd' {
				for r := '0'; r <= '9'; r++ {
					out = append(out, r)
				}
				continue
			}
		}
		out = append(out, body[i])
	}
	return out
}
