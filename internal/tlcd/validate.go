package tlcd

import (
	"strings"

	"tlgen/internal/network"
)

// reservedChars are the operators and grouping characters of the formula
// syntax.
const reservedChars = "()!*+"

// LegalName reports whether name can appear in a TLCD file: it must not
// start with the constant digits 0 or 1 and must not contain any of ( ) ! * +.
func LegalName(name string) bool {
	if name == "" {
		return true
	}
	if name[0] == '0' || name[0] == '1' {
		return false
	}
	return !strings.ContainsAny(name, reservedChars)
}

// Validate scans every named object in ascending id order and returns a
// *NamingError for the first illegal name. Unnamed objects are skipped; their
// generated names are always legal.
func Validate(ntk *network.Network) error {
	for _, o := range ntk.Objects() {
		name, ok := ntk.NameByID(o.ID)
		if !ok {
			continue
		}
		if !LegalName(name) {
			return &NamingError{ID: o.ID, Name: name}
		}
	}
	return nil
}
