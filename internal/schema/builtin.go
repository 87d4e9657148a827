package schema

// BuiltinBankingJSON is the bundled Israeli banking schema: bank customers,
// their accounts and credit cards, and card transactions, with Hebrew field
// names throughout. It doubles as a reference Definition document.
const BuiltinBankingJSON = `{
  "schema_info": {
    "name": "Israeli Banking Database Schema",
    "version": "1.0.0",
    "locale": "he_IL",
    "target_system": "sqlite"
  },
  "tables": {
    "users": {
      "description": "לקוחות הבנק",
      "primary_key": "תעודת_זהות",
      "fields": {
        "תעודת_זהות": {
          "type": "string",
          "description": "מספר תעודת זהות ישראלית",
          "required": true,
          "constraints": {"max_length": 9, "pattern": "^[0-9]{9}$"},
          "generation": {"generator": "israeli_id"}
        },
        "שם_פרטי": {
          "type": "string",
          "description": "שם פרטי בעברית",
          "required": true,
          "constraints": {"max_length": 50},
          "generation": {"generator": "hebrew_first_name"}
        },
        "שם_משפחה": {
          "type": "string",
          "description": "שם משפחה בעברית",
          "required": true,
          "constraints": {"max_length": 50},
          "generation": {"generator": "hebrew_last_name"}
        },
        "כתובת": {
          "type": "string",
          "description": "כתובת מגורים",
          "required": false,
          "constraints": {"max_length": 200},
          "generation": {"generator": "hebrew_address"}
        },
        "עיר": {
          "type": "string",
          "description": "עיר מגורים",
          "required": false,
          "constraints": {"max_length": 50},
          "generation": {"generator": "hebrew_city"}
        },
        "טלפון": {
          "type": "string",
          "description": "מספר טלפון ישראלי",
          "required": true,
          "constraints": {"max_length": 15, "pattern": "^05[0-9]-[0-9]{7}$"},
          "generation": {"generator": "israeli_phone"}
        },
        "דואר_אלקטרוני": {
          "type": "string",
          "description": "כתובת דואר אלקטרוני",
          "required": false,
          "constraints": {"max_length": 100},
          "generation": {"generator": "email"}
        },
        "תאריך_יצירה": {
          "type": "datetime",
          "description": "תאריך יצירת הלקוח",
          "required": true,
          "generation": {"generator": "past_datetime"}
        },
        "סטטוס": {
          "type": "choice",
          "description": "סטטוס הלקוח",
          "required": true,
          "constraints": {"choices": ["פעיל", "לא פעיל", "מושעה"]}
        }
      }
    },
    "accounts": {
      "description": "חשבונות בנק",
      "primary_key": "מספר_חשבון",
      "fields": {
        "מספר_חשבון": {
          "type": "string",
          "description": "מספר חשבון בנק",
          "required": true,
          "constraints": {"max_length": 15},
          "generation": {"generator": "account_number"}
        },
        "תעודת_זהות": {
          "type": "string",
          "description": "תעודת זהות בעל החשבון",
          "required": true,
          "constraints": {"max_length": 9}
        },
        "סוג_חשבון": {
          "type": "choice",
          "description": "סוג החשבון",
          "required": true,
          "constraints": {"choices": ["חשבון פרטי", "חשבון עסקי", "חשבון חיסכון"]}
        },
        "יתרה": {
          "type": "float",
          "description": "יתרת החשבון בשקלים",
          "required": true,
          "constraints": {"min": 0, "max": 1000000}
        },
        "מסגרת_אשראי": {
          "type": "integer",
          "description": "מסגרת אשראי בשקלים",
          "required": true,
          "constraints": {"min": 0, "max": 100000}
        },
        "אשראי_זמין": {
          "type": "float",
          "description": "אשראי זמין בשקלים",
          "required": false,
          "constraints": {"min": 0, "max": 100000}
        },
        "סניף_בנק": {
          "type": "integer",
          "description": "מספר סניף הבנק",
          "required": true,
          "constraints": {"min": 1, "max": 999}
        },
        "תאריך_פתיחה": {
          "type": "date",
          "description": "תאריך פתיחת החשבון",
          "required": true,
          "generation": {"generator": "past_date"}
        },
        "סטטוס": {
          "type": "choice",
          "description": "סטטוס החשבון",
          "required": true,
          "constraints": {"choices": ["פעיל", "חסום", "סגור"]}
        }
      },
      "relationships": {
        "תעודת_זהות": {"references": "users.תעודת_זהות"}
      }
    },
    "credit_cards": {
      "description": "כרטיסי אשראי",
      "primary_key": "מספר_כרטיס",
      "fields": {
        "מספר_כרטיס": {
          "type": "string",
          "description": "מספר כרטיס האשראי",
          "required": true,
          "constraints": {"max_length": 19},
          "generation": {"generator": "credit_card_number"}
        },
        "תעודת_זהות": {
          "type": "string",
          "description": "תעודת זהות בעל הכרטיס",
          "required": true,
          "constraints": {"max_length": 9}
        },
        "סוג_כרטיס": {
          "type": "choice",
          "description": "סוג כרטיס האשראי",
          "required": true,
          "constraints": {
            "choices": [
              "ויזה רגיל", "ויזה זהב", "ויזה פלטינום",
              "מאסטרקארד רגיל", "מאסטרקארד זהב", "מאסטרקארד פלטינום",
              "אמריקן אקספרס", "ישראכרט", "דביט רגיל",
              "מפתח דיסקונט רגיל", "FLY CARD מפתח דיסקונט"
            ]
          }
        },
        "תוקף": {
          "type": "string",
          "description": "תאריך תפוגה (MM/YY)",
          "required": true,
          "constraints": {"max_length": 5},
          "generation": {"generator": "credit_card_expiry"}
        },
        "מסגרת_אשראי": {
          "type": "integer",
          "description": "מסגרת אשראי בכרטיס",
          "required": true,
          "constraints": {"min": 1000, "max": 100000}
        },
        "יתרה": {
          "type": "float",
          "description": "יתרת חיוב נוכחית",
          "required": true,
          "constraints": {"min": 0, "max": 100000}
        },
        "תשלומים_אחרונים": {
          "type": "float",
          "description": "סכום תשלומים אחרונים",
          "required": false,
          "constraints": {"min": 0, "max": 10000}
        },
        "תאריך_הנפקה": {
          "type": "date",
          "description": "תאריך הנפקת הכרטיס",
          "required": true,
          "generation": {"generator": "past_date"}
        },
        "דירוג_אשראי": {
          "type": "integer",
          "description": "דירוג אשראי",
          "required": true,
          "constraints": {"min": 300, "max": 850}
        },
        "סטטוס": {
          "type": "choice",
          "description": "סטטוס הכרטיס",
          "required": true,
          "constraints": {"choices": ["פעיל", "חסום", "מושעה", "בוטל"]}
        }
      },
      "relationships": {
        "תעודת_זהות": {"references": "users.תעודת_זהות"}
      }
    },
    "transactions": {
      "description": "עסקאות כרטיסי אשראי",
      "primary_key": "id",
      "fields": {
        "id": {
          "type": "string",
          "description": "מזהה עסקה",
          "required": true,
          "constraints": {"max_length": 36},
          "generation": {"generator": "uuid"}
        },
        "מספר_כרטיס": {
          "type": "string",
          "description": "מספר כרטיס שבוצעה בו העסקה",
          "required": true,
          "constraints": {"max_length": 19}
        },
        "תאריך_עסקה": {
          "type": "date",
          "description": "תאריך ביצוע העסקה",
          "required": true,
          "generation": {"generator": "recent_date", "days_back": 90}
        },
        "סכום": {
          "type": "float",
          "description": "סכום העסקה בשקלים",
          "required": true,
          "constraints": {"min": 1, "max": 10000}
        },
        "קטגוריה": {
          "type": "choice",
          "description": "קטגוריית העסקה",
          "required": true,
          "constraints": {
            "choices": [
              "מזון ומשקאות", "קניות ואופנה", "בידור ותרבות",
              "דלק ותחבורה", "חשמל ומים", "תקשורת",
              "בריאות ורפואה", "חינוך", "ביטוח", "אחר"
            ]
          }
        },
        "שם_עסק": {
          "type": "string",
          "description": "שם בית העסק",
          "required": true,
          "constraints": {"max_length": 100},
          "generation": {"generator": "hebrew_business_name"}
        },
        "סוג_עסקה": {
          "type": "choice",
          "description": "סוג העסקה",
          "required": true,
          "constraints": {"choices": ["רגילה", "תשלומים", "קרדיט", "החזר"]}
        },
        "מספר_תשלומים": {
          "type": "choice",
          "description": "מספר תשלומים",
          "required": false,
          "constraints": {"choices": [1, 3, 6, 12, 24, 36]}
        },
        "סטטוס": {
          "type": "choice",
          "description": "סטטוס העסקה",
          "required": true,
          "constraints": {"choices": ["נרשם", "ממתין", "מאושר", "נדחה", "בוטל"]}
        },
        "תיאור": {
          "type": "string",
          "description": "תיאור נוסף של העסקה",
          "required": false,
          "constraints": {"max_length": 200}
        }
      },
      "relationships": {
        "מספר_כרטיס": {"references": "credit_cards.מספר_כרטיס"}
      }
    }
  },
  "generation_settings": {
    "default_records_per_table": 1000,
    "locale": "he_IL"
  }
}
`

// BuiltinBanking parses the bundled banking schema.
func BuiltinBanking() (*Definition, error) {
	return ParseDefinition([]byte(BuiltinBankingJSON))
}
