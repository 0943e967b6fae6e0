package model

import (
	"regexp"
	"strconv"
)

// ClaveLength is the number of digits in a clave numérica issued by Hacienda.
const ClaveLength = 50

// A clave starts with the country code 506 followed by 47 digits. Filenames
// produced by the tax authority tooling carry it verbatim.
var claveInFilename = regexp.MustCompile(`506\d{47}`)

// IsValidClave reports whether s is a well-formed 50-digit clave.
func IsValidClave(s string) bool {
	if len(s) != ClaveLength {
		return false
	}
	if s[0] != '5' || s[1] != '0' || s[2] != '6' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ExtractClave pulls a clave out of a filename, or returns "" when none is
// present.
func ExtractClave(filename string) string {
	return claveInFilename.FindString(filename)
}

// ClaveMonth returns the emission month encoded in a clave (digits 5-7).
// It returns 0 when the clave is malformed or the month is out of range.
func ClaveMonth(clave string) int {
	if !IsValidClave(clave) {
		return 0
	}
	mm, err := strconv.Atoi(clave[5:7])
	if err != nil || mm < 1 || mm > 12 {
		return 0
	}
	return mm
}

// ClaveYear returns the emission year encoded in a clave (digits 7-9,
// two-digit year). It returns 0 when the clave is malformed.
func ClaveYear(clave string) int {
	if !IsValidClave(clave) {
		return 0
	}
	yy, err := strconv.Atoi(clave[7:9])
	if err != nil {
		return 0
	}
	return 2000 + yy
}
