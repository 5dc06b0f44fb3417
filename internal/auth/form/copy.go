package form

import (
	"strings"

	"github.com/louisbranch/easyvents/internal/auth/validation"
	"golang.org/x/text/message"
)

// Copy holds every user-facing string the controller emits.
type Copy struct {
	LabelFirstName       string
	LabelLastName        string
	LabelEmail           string
	LabelPassword        string
	LabelConfirmPassword string

	// RequiredField contains a {field} placeholder for the label.
	RequiredField    string
	FillAllFields    string
	InvalidEmail     string
	InvalidPhone     string
	PasswordTooShort string
	PasswordNeedsMix string
	PasswordMismatch string
	TermsRequired    string
	SessionFailed    string
	SuccessPrefix    string
}

// DefaultCopy returns the Hebrew copy used when no catalog is available.
func DefaultCopy() Copy {
	return Copy{
		LabelFirstName:       "שם פרטי",
		LabelLastName:        "שם משפחה",
		LabelEmail:           "אימייל",
		LabelPassword:        "סיסמה",
		LabelConfirmPassword: "אימות סיסמה",
		RequiredField:        `השדה "{field}" הוא חובה`,
		FillAllFields:        "נא למלא את כל השדות",
		InvalidEmail:         "כתובת האימייל אינה תקינה",
		InvalidPhone:         "מספר הטלפון אינו תקין",
		PasswordTooShort:     "הסיסמה חייבת להכיל לפחות 8 תווים",
		PasswordNeedsMix:     "הסיסמה חייבת להכיל גם אותיות וגם מספרים",
		PasswordMismatch:     "הסיסמאות אינן תואמות",
		TermsRequired:        "יש לאשר את תנאי השימוש",
		SessionFailed:        "לא ניתן לשמור את פרטי ההתחברות בדפדפן",
		SuccessPrefix:        "✅ ",
	}
}

// CopyFromPrinter localizes Copy through loc, falling back to DefaultCopy for
// keys the catalog does not define.
func CopyFromPrinter(loc *message.Printer) Copy {
	def := DefaultCopy()
	return Copy{
		LabelFirstName:       localize(loc, "auth.label.first_name", def.LabelFirstName),
		LabelLastName:        localize(loc, "auth.label.last_name", def.LabelLastName),
		LabelEmail:           localize(loc, "auth.label.email", def.LabelEmail),
		LabelPassword:        localize(loc, "auth.label.password", def.LabelPassword),
		LabelConfirmPassword: localize(loc, "auth.label.confirm_password", def.LabelConfirmPassword),
		RequiredField:        localize(loc, "auth.error.required_field", def.RequiredField),
		FillAllFields:        localize(loc, "auth.error.fill_all_fields", def.FillAllFields),
		InvalidEmail:         localize(loc, "auth.error.invalid_email", def.InvalidEmail),
		InvalidPhone:         localize(loc, "auth.error.invalid_phone", def.InvalidPhone),
		PasswordTooShort:     localize(loc, "auth.error.password_too_short", def.PasswordTooShort),
		PasswordNeedsMix:     localize(loc, "auth.error.password_needs_mix", def.PasswordNeedsMix),
		PasswordMismatch:     localize(loc, "auth.error.password_mismatch", def.PasswordMismatch),
		TermsRequired:        localize(loc, "auth.error.terms_required", def.TermsRequired),
		SessionFailed:        localize(loc, "auth.error.session_failed", def.SessionFailed),
		SuccessPrefix:        def.SuccessPrefix,
	}
}

// RequiredFieldMessage names the missing field.
func (c Copy) RequiredFieldMessage(label string) string {
	return strings.ReplaceAll(c.RequiredField, "{field}", label)
}

// PasswordMessage maps a validator reason to localized text.
func (c Copy) PasswordMessage(result validation.PasswordResult) string {
	switch result.Reason {
	case validation.ReasonTooShort:
		return c.PasswordTooShort
	case validation.ReasonNeedsLettersAndDigits:
		return c.PasswordNeedsMix
	default:
		return result.Message
	}
}

func localize(loc *message.Printer, key string, fallback string) string {
	if loc != nil {
		value := strings.TrimSpace(loc.Sprintf(key))
		if value != "" && value != key {
			return value
		}
	}
	return fallback
}
