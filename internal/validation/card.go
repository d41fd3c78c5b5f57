package validation

import "unicode"

// IsValidCardLast4 проверяет, что строка состоит ровно из четырёх цифр.
func IsValidCardLast4(last4 string) bool {
	if len(last4) != 4 {
		return false
	}

	for i := 0; i < len(last4); i++ {
		if !unicode.IsDigit(rune(last4[i])) {
			return false
		}
	}

	return true
}
