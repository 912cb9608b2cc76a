package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/staff-catalog/internal/domain"
	apperrors "github.com/spec-kit/staff-catalog/pkg/util/errorutil"
)

var (
	staffNameTooShort = fmt.Sprintf("Staff name must contain at least %d characters", domain.StaffNameMinLength)
	staffNameTooLong  = fmt.Sprintf("Staff name must not exceed %d characters", domain.StaffNameMaxLength)
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// NormalizeStaffName trims raw, checks its length and HTML-escapes it.
// The length is measured in characters before escaping. The sanitized value
// is returned even when validation fails so forms can echo it back.
func NormalizeStaffName(raw string) (string, []apperrors.FieldError) {
	trimmed := strings.TrimSpace(raw)
	sanitized := htmlEscaper.Replace(trimmed)

	var fields []apperrors.FieldError
	switch length := utf8.RuneCountInString(trimmed); {
	case length < domain.StaffNameMinLength:
		fields = append(fields, apperrors.FieldError{Field: "name", Message: staffNameTooShort, Value: sanitized})
	case length > domain.StaffNameMaxLength:
		fields = append(fields, apperrors.FieldError{Field: "name", Message: staffNameTooLong, Value: sanitized})
	}
	return sanitized, fields
}
