package gen

import "strings"

// Naming derives module and member identifiers from schema names.
// The zero value passes names through unchanged.
type Naming struct {
	// CamelCase lower-cases the first letter of member names.
	CamelCase bool
	// KebabCase tokenizes module names into kebab-case.
	KebabCase bool
	// Interfaces appends the optional marker "?" to every identifier.
	Interfaces bool
}

// Member returns the member name for a declared property name.
func (n Naming) Member(name string) string {
	if n.CamelCase {
		return CamelMember(name)
	}
	return name
}

// Identifier returns the member name as written in a declaration, with
// the interface-style suffix applied independently of nullability.
func (n Naming) Identifier(name string) string {
	id := n.Member(name)
	if n.Interfaces {
		return id + "?"
	}
	return id
}

// Module returns the module (file) name for a type name.
func (n Naming) Module(typeName string) string {
	if n.KebabCase {
		return KebabModule(typeName)
	}
	return typeName
}

// CamelMember lower-cases the first character if it is an ASCII upper-case
// letter and leaves the rest untouched: "ABC" becomes "aBC".
func CamelMember(s string) string {
	if s == "" || !isUpper(s[0]) {
		return s
	}
	return string(s[0]+'a'-'A') + s[1:]
}

// KebabModule splits s into acronym runs, capitalized words, single
// upper-case letters and digit runs, lower-cases them and joins them with
// "-". "HTTPServer" is "http-server", "OrderID" is "order-id" and
// "Item2Count" is "item2-count". It returns "" if s yields no token.
func KebabModule(s string) string {
	return strings.ToLower(strings.Join(kebabTokens(s), "-"))
}

// kebabTokens scans s left to right and at each position takes the first
// alternative that matches, in this order:
//
//	[A-Z]{2,}  followed by [A-Z][a-z] or a word boundary (longest first)
//	[A-Z]?[a-z]+[0-9]*
//	[A-Z]
//	[0-9]+
//
// Bytes matching none of them are skipped.
func kebabTokens(s string) []string {
	var tokens []string
	for i := 0; i < len(s); {
		n := acronymAt(s, i)
		if n == 0 {
			n = wordAt(s, i)
		}
		if n == 0 && isUpper(s[i]) {
			n = 1
		}
		if n == 0 {
			for i+n < len(s) && isDigit(s[i+n]) {
				n++
			}
		}
		if n == 0 {
			i++
			continue
		}
		tokens = append(tokens, s[i:i+n])
		i += n
	}
	return tokens
}

// acronymAt returns the length of the longest run of two or more upper-case
// letters at i that is followed by a capitalized word or a word boundary.
func acronymAt(s string, i int) int {
	run := 0
	for i+run < len(s) && isUpper(s[i+run]) {
		run++
	}
	for n := run; n >= 2; n-- {
		j := i + n
		if j == len(s) || !isWord(s[j]) {
			return n
		}
		if j+1 < len(s) && isUpper(s[j]) && isLower(s[j+1]) {
			return n
		}
	}
	return 0
}

// wordAt matches an optional upper-case letter, one or more lower-case
// letters and trailing digits.
func wordAt(s string, i int) int {
	j := i
	if j < len(s) && isUpper(s[j]) {
		j++
	}
	k := j
	for k < len(s) && isLower(s[k]) {
		k++
	}
	if k == j {
		return 0
	}
	for k < len(s) && isDigit(s[k]) {
		k++
	}
	return k - i
}

func isWord(c byte) bool { return c == '_' || isUpper(c) || isLower(c) || isDigit(c) }
func isUpper(c byte) bool { return 'A' <= c && c <= 'Z' }
func isLower(c byte) bool { return 'a' <= c && c <= 'z' }
func isDigit(c byte) bool { return '0' <= c && c <= '9' }
