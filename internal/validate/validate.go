// Package validate holds the pure field validators used by the wizard's
// contact step: Spanish tax identifiers (NIF/NIE/CIF), email and phone.
package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nifRe   = regexp.MustCompile(`^\d{8}[A-Z]$`)
	nieRe   = regexp.MustCompile(`^[XYZ]\d{7}[A-Z]$`)
	cifRe   = regexp.MustCompile(`^[A-Z]\d{7}[0-9A-J]$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[6789]\d{8}$`)
)

// nifLetters is the official mod-23 control letter table.
const nifLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

// cifControlLetters maps a computed control digit to its letter form.
const cifControlLetters = "JABCDEFGHI"

// IsValidSpanishTaxID checks a NIF, NIE or CIF including its control
// character. Spaces and hyphens are stripped and the value is uppercased
// before matching.
func IsValidSpanishTaxID(id string) bool {
	v := strings.ToUpper(id)
	v = strings.NewReplacer(" ", "", "-", "").Replace(v)

	if nifRe.MatchString(v) {
		return nifControlOK(v)
	}

	if nieRe.MatchString(v) {
		// NIE validates as a NIF with X/Y/Z mapped to 0/1/2.
		switch v[0] {
		case 'X':
			v = "0" + v[1:]
		case 'Y':
			v = "1" + v[1:]
		case 'Z':
			v = "2" + v[1:]
		}
		return nifControlOK(v)
	}

	if !cifRe.MatchString(v) {
		return false
	}
	return cifControlOK(v)
}

func nifControlOK(v string) bool {
	n, err := strconv.Atoi(v[:8])
	if err != nil {
		return false
	}
	return nifLetters[n%23] == v[8]
}

func cifControlOK(v string) bool {
	letter := v[0]
	digits := v[1:8]
	control := v[8]

	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[i] - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}

	calc := (10 - sum%10) % 10
	controlDigit := byte('0' + calc)
	controlLetter := cifControlLetters[calc]

	// Some organization letters require a numeric control, some a letter,
	// the rest accept either.
	switch {
	case strings.ContainsRune("ABEH", rune(letter)):
		return control == controlDigit
	case strings.ContainsRune("KPQS", rune(letter)):
		return control == controlLetter
	default:
		return control == controlDigit || control == controlLetter
	}
}

// IsValidEmail checks shape only: something before the @, and a
// dot-containing domain after it.
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPhone accepts 9-digit Spanish numbers starting with 6, 7, 8 or 9.
// Spaces are ignored.
func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(strings.ReplaceAll(phone, " ", ""))
}
