package engine

// Hebrew corpus for the name/address/business samplers. Values are drawn
// uniformly; max_length is enforced by the callers via resampling.

var (
	FirstNames = []string{
		"דוד", "משה", "יוסף", "אברהם", "יעקב", "שמואל", "דניאל", "איתן",
		"נועם", "אורי", "עומר", "אריאל", "יהונתן", "מיכאל", "אלון", "גיא",
		"עידו", "תומר", "רון", "ליאור", "אייל", "ניר", "עמית", "ברק",
		"שרה", "רחל", "לאה", "רבקה", "מרים", "תמר", "נועה", "שירה",
		"מיכל", "יעל", "אביגיל", "הילה", "דנה", "ליאת", "אורית", "רונית",
		"ענת", "אסתר", "חנה", "טליה", "גלית", "מאיה", "עדי", "שני",
	}
	LastNames = []string{
		"כהן", "לוי", "מזרחי", "פרץ", "ביטון", "דהן", "אברהם", "פרידמן",
		"מלכה", "אזולאי", "כץ", "עמר", "גבאי", "בן דוד", "לוין", "רוזנברג",
		"שפירא", "וייס", "קליין", "גולדברג", "אוחיון", "חדד", "אלבז", "שלום",
		"ששון", "בוזגלו", "סבן", "טל", "אשכנזי", "נחמיאס", "נחום", "ברקוביץ",
	}
	Cities = []string{
		"תל אביב", "ירושלים", "חיפה", "ראשון לציון", "פתח תקווה", "אשדוד",
		"נתניה", "באר שבע", "בני ברק", "חולון", "רמת גן", "אשקלון",
		"רחובות", "בת ים", "הרצליה", "כפר סבא", "מודיעין", "רעננה",
		"רמלה", "לוד", "נצרת", "עכו", "טבריה", "אילת", "צפת", "חדרה",
	}
	Streets = []string{
		"הרצל", "ויצמן", "רוטשילד", "בן גוריון", "ז'בוטינסקי", "אלנבי",
		"דיזנגוף", "ביאליק", "הנביאים", "יפו", "בגין", "רבין",
		"סוקולוב", "ארלוזורוב", "הירקון", "אבן גבירול", "העצמאות", "הגליל",
		"הנשיא", "המלך דוד",
	}
)

// BusinessKinds and BusinessSuffixes compose merchant names like
// "מסעדת הכרם" or "קפה הזית".
var (
	BusinessKinds = []string{
		"מסעדת", "קפה", "מאפיית", "חנות", "סופרמרקט", "פיצריית",
		"מרכול", "חומוס", "שווארמת", "קונדיטוריית", "ירקות", "פרחי",
	}
	BusinessSuffixes = []string{
		"הכרם", "השקמה", "הזית", "הדקל", "האלון", "הפנינה", "הגפן",
		"התמר", "הרימון", "השקד", "הברוש", "האורן", "הצבר", "השחר",
	}
)

// Words is the filler vocabulary for free-text fields.
var Words = []string{
	"לקוח", "חשבון", "שירות", "בדיקה", "אישור", "בקשה", "מסמך",
	"תשלום", "העברה", "יתרה", "דוח", "סניף", "כרטיס", "עסקה",
	"חיוב", "זיכוי", "ריבית", "פיקדון", "הלוואה", "משכנתא",
	"חיסכון", "השקעה", "מטבע", "שער", "עמלה", "אשראי", "ערבות",
	"טופס", "פנייה", "עדכון", "הודעה", "אסמכתא",
}

// phonePrefixes are the Israeli mobile operator prefixes.
var phonePrefixes = []string{"050", "052", "053", "054", "055", "057", "058"}
