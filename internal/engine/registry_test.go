package engine_test

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v6"

	"synthdb/internal/engine"
	"synthdb/internal/schema"
)

func bindField(t *testing.T, reg *engine.Registry, table string, fld *schema.Field) engine.Bound {
	t.Helper()
	b, err := reg.Bind(table, fld)
	if err != nil {
		t.Fatalf("Bind(%s.%s) failed: %v", table, fld.Name, err)
	}
	return b
}

func drawString(t *testing.T, b engine.Bound, f *gofakeit.Faker) string {
	t.Helper()
	v, err := b(f)
	if err != nil {
		t.Fatalf("Generator failed: %v", err)
	}
	s, ok := v.(string)
	if !ok {
		t.Fatalf("Expected a string value, got %T", v)
	}
	return s
}

func floatPtr(v float64) *float64 { return &v }

func TestIsraeliIDGenerator(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{
		Name:        "תעודת_זהות",
		Type:        schema.TypeString,
		Generator:   "israeli_id",
		Constraints: schema.Constraints{Pattern: "^[0-9]{9}$", MaxLength: 9},
	}
	b := bindField(t, reg, "users", fld)
	f := gofakeit.New(42)
	for i := 0; i < 10000; i++ {
		id := drawString(t, b, f)
		if len(id) != 9 {
			t.Fatalf("Expected 9 digits, got %q", id)
		}
		if !engine.ValidIsraeliID(id) {
			t.Fatalf("Generated ID %q fails checksum validation", id)
		}
	}
}

func TestValidIsraeliID(t *testing.T) {
	cases := []struct {
		id    string
		valid bool
	}{
		{"123456782", true},
		{"123456789", false},
		{"12345678", false},
		{"1234567890", false},
		{"12345678a", false},
		{"", false},
	}
	for _, c := range cases {
		if got := engine.ValidIsraeliID(c.id); got != c.valid {
			t.Errorf("ValidIsraeliID(%q) = %v, expected %v", c.id, got, c.valid)
		}
	}
}

func TestCreditCardNumberGenerator(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{Name: "מספר_כרטיס", Type: schema.TypeString, Generator: "credit_card_number"}
	b := bindField(t, reg, "credit_cards", fld)
	f := gofakeit.New(7)
	for i := 0; i < 10000; i++ {
		card := drawString(t, b, f)
		if len(card) != 16 {
			t.Fatalf("Expected 16 digits, got %q", card)
		}
		if !engine.ValidLuhn(card) {
			t.Fatalf("Generated card %q fails Luhn validation", card)
		}
	}
}

func TestCreditCardNumberPrefix(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{
		Name:      "מספר_כרטיס",
		Type:      schema.TypeString,
		Generator: "credit_card_number",
		Params:    map[string]any{"prefix": "4580"},
	}
	b := bindField(t, reg, "credit_cards", fld)
	f := gofakeit.New(7)
	for i := 0; i < 100; i++ {
		card := drawString(t, b, f)
		if !strings.HasPrefix(card, "4580") {
			t.Errorf("Expected prefix 4580, got %q", card)
		}
		if !engine.ValidLuhn(card) {
			t.Errorf("Card %q fails Luhn validation", card)
		}
	}
}

func TestValidLuhn(t *testing.T) {
	if !engine.ValidLuhn("79927398713") {
		t.Error("Expected 79927398713 to pass the Luhn check")
	}
	if engine.ValidLuhn("79927398710") {
		t.Error("Expected 79927398710 to fail the Luhn check")
	}
	if engine.ValidLuhn("") {
		t.Error("Expected the empty string to fail the Luhn check")
	}
	if engine.ValidLuhn("79927x98713") {
		t.Error("Expected a non-digit string to fail the Luhn check")
	}
}

func TestIsraeliPhoneGenerator(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{
		Name:        "טלפון",
		Type:        schema.TypeString,
		Generator:   "israeli_phone",
		Constraints: schema.Constraints{Pattern: "^05[0-9]-[0-9]{7}$"},
	}
	b := bindField(t, reg, "users", fld)
	f := gofakeit.New(3)
	re := regexp.MustCompile(`^05[0-9]-[0-9]{7}$`)
	prefixes := map[string]bool{
		"050": true, "052": true, "053": true, "054": true,
		"055": true, "057": true, "058": true,
	}
	for i := 0; i < 1000; i++ {
		phone := drawString(t, b, f)
		if !re.MatchString(phone) {
			t.Fatalf("Phone %q does not match the expected format", phone)
		}
		if !prefixes[phone[:3]] {
			t.Fatalf("Phone %q uses an unknown operator prefix", phone)
		}
	}
}

func TestCreditCardExpiryFormat(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{
		Name:        "תוקף",
		Type:        schema.TypeString,
		Generator:   "credit_card_expiry",
		Constraints: schema.Constraints{MaxLength: 5},
	}
	b := bindField(t, reg, "credit_cards", fld)
	f := gofakeit.New(9)
	re := regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	for i := 0; i < 200; i++ {
		if s := drawString(t, b, f); !re.MatchString(s) {
			t.Fatalf("Expiry %q is not in MM/YY form", s)
		}
	}
}

func TestAccountNumberGenerator(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{Name: "מספר_חשבון", Type: schema.TypeString, Generator: "account_number"}
	b := bindField(t, reg, "accounts", fld)
	f := gofakeit.New(2)
	for i := 0; i < 1000; i++ {
		s := drawString(t, b, f)
		if len(s) < 6 || len(s) > 8 {
			t.Fatalf("Account number %q is not 6 to 8 digits", s)
		}
		if s[0] == '0' {
			t.Fatalf("Account number %q starts with zero", s)
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				t.Fatalf("Account number %q contains a non-digit", s)
			}
		}
	}
}

func TestChoiceKeepsLiteralTypes(t *testing.T) {
	reg := engine.NewRegistry()
	f := gofakeit.New(1)

	ints := &schema.Field{
		Name:        "מספר_תשלומים",
		Type:        schema.TypeInteger,
		Generator:   "choice",
		Constraints: schema.Constraints{Choices: []any{int64(1), int64(3), int64(6), int64(12)}},
	}
	b := bindField(t, reg, "transactions", ints)
	for i := 0; i < 50; i++ {
		v, err := b(f)
		if err != nil {
			t.Fatalf("Choice failed: %v", err)
		}
		n, ok := v.(int64)
		if !ok {
			t.Fatalf("Expected an int64 choice, got %T", v)
		}
		if n != 1 && n != 3 && n != 6 && n != 12 {
			t.Fatalf("Choice %d is not in the declared set", n)
		}
	}

	strs := &schema.Field{
		Name:        "סטטוס",
		Type:        schema.TypeChoice,
		Constraints: schema.Constraints{Choices: []any{"פעיל", "חסום"}},
	}
	b = bindField(t, reg, "users", strs)
	for i := 0; i < 50; i++ {
		v, err := b(f)
		if err != nil {
			t.Fatalf("Choice failed: %v", err)
		}
		s, ok := v.(string)
		if !ok {
			t.Fatalf("Expected a string choice, got %T", v)
		}
		if s != "פעיל" && s != "חסום" {
			t.Fatalf("Choice %q is not in the declared set", s)
		}
	}
}

func TestMaxLengthResampling(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{
		Name:        "תיאור",
		Type:        schema.TypeString,
		Generator:   "hebrew_text",
		Constraints: schema.Constraints{MaxLength: 6},
	}
	b := bindField(t, reg, "transactions", fld)
	f := gofakeit.New(11)
	for i := 0; i < 500; i++ {
		if s := drawString(t, b, f); utf8.RuneCountInString(s) > 6 {
			t.Fatalf("Value %q exceeds max_length 6", s)
		}
	}
}

func TestContradictoryRangeFails(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{
		Name:        "יתרה",
		Type:        schema.TypeFloat,
		Constraints: schema.Constraints{Min: floatPtr(100), Max: floatPtr(10)},
	}
	b := bindField(t, reg, "accounts", fld)
	_, err := b(gofakeit.New(1))
	if err == nil {
		t.Fatal("Expected an error for min greater than max")
	}
	var cerr *engine.ConstraintError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected a ConstraintError, got %T", err)
	}
	if cerr.Table != "accounts" || cerr.Field != "יתרה" {
		t.Errorf("Error names %s.%s, expected accounts.יתרה", cerr.Table, cerr.Field)
	}
}

func TestUnsatisfiableConstraintsFail(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{
		Name:        "קוד",
		Type:        schema.TypeString,
		Generator:   "text",
		Constraints: schema.Constraints{Pattern: "^[0-9]{5}$", MaxLength: 3},
	}
	b := bindField(t, reg, "users", fld)
	_, err := b(gofakeit.New(1))
	var cerr *engine.ConstraintError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected a ConstraintError, got %v", err)
	}
	if cerr.Attempts == 0 {
		t.Error("Expected a positive attempt count")
	}
}

func TestPatternSampling(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{
		Name:        "מיקוד",
		Type:        schema.TypeString,
		Constraints: schema.Constraints{Pattern: `^[A-C]{2}-\d{3}$`},
	}
	b := bindField(t, reg, "users", fld)
	f := gofakeit.New(5)
	re := regexp.MustCompile(`^[A-C]{2}-\d{3}$`)
	for i := 0; i < 200; i++ {
		if s := drawString(t, b, f); !re.MatchString(s) {
			t.Fatalf("Sample %q does not match its own pattern", s)
		}
	}
}

func TestNumberRanges(t *testing.T) {
	reg := engine.NewRegistry()
	f := gofakeit.New(6)

	intFld := &schema.Field{
		Name:        "סניף_בנק",
		Type:        schema.TypeInteger,
		Constraints: schema.Constraints{Min: floatPtr(1), Max: floatPtr(999)},
	}
	b := bindField(t, reg, "accounts", intFld)
	for i := 0; i < 500; i++ {
		v, err := b(f)
		if err != nil {
			t.Fatalf("Number failed: %v", err)
		}
		n, ok := v.(int)
		if !ok {
			t.Fatalf("Expected an int, got %T", v)
		}
		if n < 1 || n > 999 {
			t.Fatalf("Value %d is outside 1..999", n)
		}
	}

	floatFld := &schema.Field{
		Name:        "יתרה",
		Type:        schema.TypeFloat,
		Constraints: schema.Constraints{Min: floatPtr(0), Max: floatPtr(1000)},
	}
	b = bindField(t, reg, "accounts", floatFld)
	for i := 0; i < 500; i++ {
		v, err := b(f)
		if err != nil {
			t.Fatalf("Number failed: %v", err)
		}
		x, ok := v.(float64)
		if !ok {
			t.Fatalf("Expected a float64, got %T", v)
		}
		if x < 0 || x > 1000 {
			t.Fatalf("Value %f is outside 0..1000", x)
		}
	}
}

func TestDateGenerators(t *testing.T) {
	reg := engine.NewRegistry()
	f := gofakeit.New(8)
	now := time.Now().UTC()

	date := &schema.Field{Name: "תאריך_פתיחה", Type: schema.TypeDate, Generator: "past_date"}
	b := bindField(t, reg, "accounts", date)
	for i := 0; i < 200; i++ {
		v, err := b(f)
		if err != nil {
			t.Fatalf("past_date failed: %v", err)
		}
		d, ok := v.(time.Time)
		if !ok {
			t.Fatalf("Expected a time.Time, got %T", v)
		}
		if d.After(now) {
			t.Fatalf("Date %v is in the future", d)
		}
		if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
			t.Fatalf("Date %v is not at midnight", d)
		}
	}

	recent := &schema.Field{
		Name:      "תאריך_עסקה",
		Type:      schema.TypeDate,
		Generator: "recent_date",
		Params:    map[string]any{"days_back": int64(90)},
	}
	b = bindField(t, reg, "transactions", recent)
	cutoff := now.AddDate(0, 0, -91)
	for i := 0; i < 200; i++ {
		v, err := b(f)
		if err != nil {
			t.Fatalf("recent_date failed: %v", err)
		}
		d := v.(time.Time)
		if d.Before(cutoff) || d.After(now) {
			t.Fatalf("Date %v is outside the 90 day window", d)
		}
	}

	dt := &schema.Field{Name: "תאריך_יצירה", Type: schema.TypeDatetime}
	b = bindField(t, reg, "users", dt)
	for i := 0; i < 200; i++ {
		v, err := b(f)
		if err != nil {
			t.Fatalf("datetime failed: %v", err)
		}
		if d := v.(time.Time); d.After(now) {
			t.Fatalf("Datetime %v is in the future", d)
		}
	}
}

func TestUUIDGenerator(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{
		Name:        "id",
		Type:        schema.TypeString,
		Generator:   "uuid",
		Constraints: schema.Constraints{MaxLength: 36},
	}
	b := bindField(t, reg, "transactions", fld)

	f := gofakeit.New(77)
	one := drawString(t, b, f)
	if len(one) != 36 || one[8] != '-' || one[13] != '-' || one[18] != '-' || one[23] != '-' {
		t.Fatalf("Value %q is not a canonical UUID", one)
	}
	f = gofakeit.New(77)
	if again := drawString(t, b, f); again != one {
		t.Errorf("Expected identical UUIDs for identical seeds, got %q and %q", one, again)
	}
}

func TestSameSeedSameSequence(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{Name: "שם", Type: schema.TypeString, Generator: "hebrew_full_name"}
	b := bindField(t, reg, "users", fld)

	first := make([]string, 0, 50)
	f := gofakeit.New(1234)
	for i := 0; i < 50; i++ {
		first = append(first, drawString(t, b, f))
	}
	f = gofakeit.New(1234)
	for i := 0; i < 50; i++ {
		if got := drawString(t, b, f); got != first[i] {
			t.Fatalf("Draw %d differs across identically seeded runs: %q vs %q", i, got, first[i])
		}
	}
}

func TestUnknownGeneratorFailsBind(t *testing.T) {
	reg := engine.NewRegistry()
	fld := &schema.Field{Name: "שדה", Type: schema.TypeString, Generator: "no_such_generator"}
	if _, err := reg.Bind("users", fld); err == nil {
		t.Fatal("Expected an error for an unknown generator")
	}
}

func TestRegisterCustomGenerator(t *testing.T) {
	reg := engine.NewRegistry()
	reg.Register("fixed", func(f *gofakeit.Faker, gc engine.FieldContext) (any, error) {
		return "קבוע", nil
	})
	fld := &schema.Field{Name: "ערך", Type: schema.TypeString, Generator: "fixed"}
	b := bindField(t, reg, "users", fld)
	if got := drawString(t, b, gofakeit.New(1)); got != "קבוע" {
		t.Errorf("Expected the custom generator's value, got %q", got)
	}
	if _, ok := reg.Lookup("fixed"); !ok {
		t.Error("Expected Lookup to find the registered generator")
	}
}
