package payment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Tony-Omondi/wamugunda-farm/internal/domain"
)

// ValidationError reports a malformed checkout request. It is returned
// before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid checkout request: %s: %s", e.Field, e.Reason)
}

// Kenyan mobile numbers: 07XXXXXXXX / 01XXXXXXXX, optionally with a
// 254 / +254 prefix in place of the leading zero.
var phonePattern = regexp.MustCompile(`^(?:\+?254|0)([17]\d{8})$`)

// NormalizePhone strips spacing and returns the MSISDN in 254XXXXXXXXX
// form, or false when the number does not look like a local mobile number.
func NormalizePhone(raw string) (string, bool) {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	m := phonePattern.FindStringSubmatch(cleaned)
	if m == nil {
		return "", false
	}
	return "254" + m[1], true
}

// ValidateCheckout enforces the submission preconditions: a non-empty
// snapshot and complete customer details with a well-formed phone number.
func ValidateCheckout(req domain.CheckoutRequest) error {
	if len(req.Snapshot.Items) == 0 {
		return &ValidationError{Field: "cart", Reason: "cart is empty"}
	}
	if strings.TrimSpace(req.Customer.Name) == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	if strings.TrimSpace(req.Customer.Email) == "" {
		return &ValidationError{Field: "email", Reason: "email is required"}
	}
	if strings.TrimSpace(req.Customer.PhoneNumber) == "" {
		return &ValidationError{Field: "phone_number", Reason: "phone number is required"}
	}
	if _, ok := NormalizePhone(req.Customer.PhoneNumber); !ok {
		return &ValidationError{Field: "phone_number", Reason: "not a valid mobile number"}
	}
	return nil
}
