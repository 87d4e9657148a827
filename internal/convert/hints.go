package convert

import (
	"strings"

	"synthdb/internal/schema"
)

// componentToTable maps the banking component names onto table names.
// Unknown components fall back to a snake_cased plural.
var componentToTable = map[string]string{
	"User":        "users",
	"Account":     "accounts",
	"CreditCard":  "credit_cards",
	"Transaction": "transactions",
	"Branch":      "branches",
	"Merchant":    "merchants",
}

var tableToComponent = map[string]string{}

// hebrewToEnglish carries the banking fields into ASCII for CSV headers
// and API consumers that cannot handle Hebrew identifiers.
var hebrewToEnglish = map[string]string{
	"תעודת_זהות":       "israeli_id",
	"שם_פרטי":          "first_name",
	"שם_משפחה":         "last_name",
	"כתובת":            "address",
	"עיר":              "city",
	"טלפון":            "phone",
	"דואר_אלקטרוני":    "email",
	"תאריך_יצירה":      "created_at",
	"סטטוס":            "status",
	"מספר_חשבון":       "account_number",
	"סוג_חשבון":        "account_type",
	"יתרה":             "balance",
	"מסגרת_אשראי":      "credit_limit",
	"אשראי_זמין":       "available_credit",
	"סניף_בנק":         "branch_number",
	"תאריך_פתיחה":      "opened_at",
	"מספר_כרטיס":       "card_number",
	"סוג_כרטיס":        "card_type",
	"תוקף":             "expiry",
	"תאריך_הנפקה":      "issued_at",
	"דירוג_אשראי":      "credit_score",
	"תאריך_עסקה":       "transaction_date",
	"סכום":             "amount",
	"קטגוריה":          "category",
	"שם_עסק":           "merchant_name",
	"סוג_עסקה":         "transaction_type",
	"מספר_תשלומים":     "installments",
	"תיאור":            "description",
	"שם_מלא":           "full_name",
	"רחוב":             "street",
	"תאריך_לידה":       "birth_date",
	"מוטב":             "payee",
	"אסמכתא":           "reference",
}

var englishToHebrew = map[string]string{}

// fieldExamples give API consumers a concrete value per field.
var fieldExamples = map[string]any{
	"תעודת_זהות":    "123456782",
	"שם_פרטי":       "דוד",
	"שם_משפחה":      "כהן",
	"כתובת":         "הרצל 15, תל אביב",
	"עיר":           "תל אביב",
	"טלפון":         "050-1234567",
	"דואר_אלקטרוני": "david@example.com",
	"מספר_חשבון":    "1234567",
	"יתרה":          int64(15420),
	"מספר_כרטיס":    "4532015112830366",
	"תוקף":          "12/28",
	"סכום":          int64(250),
	"שם_עסק":        "מסעדת הכרם",
	"קטגוריה":       "מזון ומשקאות",
}

func init() {
	for c, t := range componentToTable {
		tableToComponent[t] = c
	}
	for h, e := range hebrewToEnglish {
		englishToHebrew[e] = h
	}
}

// TableName returns the table for an API component.
func TableName(component string) string {
	if t, ok := componentToTable[component]; ok {
		return t
	}
	t := camelToSnake(component)
	if !strings.HasSuffix(t, "s") {
		t += "s"
	}
	return t
}

// ComponentName returns the API component for a table.
func ComponentName(table string) string {
	if c, ok := tableToComponent[table]; ok {
		return c
	}
	var b strings.Builder
	for _, part := range strings.Split(strings.TrimSuffix(table, "s"), "_") {
		if part == "" {
			continue
		}
		r := []rune(part)
		b.WriteString(strings.ToUpper(string(r[0])))
		b.WriteString(string(r[1:]))
	}
	return b.String()
}

// EnglishFieldName returns an ASCII name for a field, or the field itself
// when no mapping exists.
func EnglishFieldName(name string) string {
	if e, ok := hebrewToEnglish[name]; ok {
		return e
	}
	return name
}

// HebrewFieldName is the inverse of EnglishFieldName.
func HebrewFieldName(name string) string {
	if h, ok := englishToHebrew[name]; ok {
		return h
	}
	return name
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// GuessGenerator picks a generator for a string field from its name and
// description. Checks run most specific first; an empty result means the
// field keeps its type default.
func GuessGenerator(f *schema.Field) string {
	if f.Type != schema.TypeString {
		return ""
	}
	n := strings.ToLower(f.Name)
	d := strings.ToLower(f.Description)

	switch {
	case hasAny(n, d, "תעודת_זהות", "תעודת זהות", "israeli_id", "national_id"):
		return "israeli_id"
	case hasAny(n, d, "מספר_כרטיס", "כרטיס אשראי", "card_number", "credit card"):
		return "credit_card_number"
	case hasAny(n, d, "תוקף", "תפוגה", "expiry", "expiration"):
		return "credit_card_expiry"
	case hasAny(n, d, "מספר_חשבון", "חשבון בנק", "account_number", "bank account"):
		return "account_number"
	case hasAny(n, d, "טלפון", "נייד", "phone", "mobile"):
		return "israeli_phone"
	case hasAny(n, d, "דואר", "אימייל", "email", "mail"):
		return "email"
	case n == "id" || hasAny(n, d, "uuid", "מזהה"):
		return "uuid"
	case hasAny(n, d, "שם_פרטי", "שם פרטי", "first_name"):
		return "hebrew_first_name"
	case hasAny(n, d, "שם_משפחה", "שם משפחה", "last_name"):
		return "hebrew_last_name"
	case hasAny(n, d, "שם_עסק", "בית העסק", "merchant", "business_name"):
		return "hebrew_business_name"
	case hasAny(n, d, "שם_מלא", "שם מלא", "full_name"):
		return "hebrew_full_name"
	case hasAny(n, d, "כתובת", "address"):
		return "hebrew_address"
	case hasAny(n, d, "עיר", "city"):
		return "hebrew_city"
	case hasAny(n, d, "רחוב", "street"):
		return "hebrew_street"
	}
	return ""
}

func hasAny(name, desc string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) || strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}
