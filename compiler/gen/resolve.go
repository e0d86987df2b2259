package gen

import (
	"strings"
	"unicode"
)

const (
	edmPrefix        = "Edm."
	collectionPrefix = "Collection("
)

// Kind is the target category of a primitive EDM type.
type Kind uint8

const (
	// KindAny is the open type for unrecognized primitives and malformed
	// type strings.
	KindAny Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindDate
)

var kindNames = [...]string{
	KindAny:     "any",
	KindNumber:  "number",
	KindString:  "string",
	KindBoolean: "boolean",
	KindDate:    "Date",
}

// String returns the TypeScript spelling of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindAny]
}

// ResolvePrimitive maps the part of an EDM primitive type name after "Edm."
// to its kind. Date and DateTimeOffset resolve to KindDate only if
// preferDate is set. The mapping is total.
func ResolvePrimitive(name string, preferDate bool) Kind {
	switch name {
	case "Int16", "Int32", "Int64", "Single", "Double", "Decimal":
		return KindNumber
	case "Date", "DateTimeOffset":
		if preferDate {
			return KindDate
		}
		return KindString
	case "String", "Byte", "SByte", "Binary", "TimeOfDay":
		return KindString
	case "Boolean":
		return KindBoolean
	default:
		return KindAny
	}
}

// SimpleName strips the namespace qualifier: "Ns1.Ns2.Type" is "Type".
func SimpleName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// Resolution is the resolver output for one property or navigation property.
type Resolution struct {
	// TypeName is the resolved target type, with a "[]" suffix for collections.
	TypeName string
	// Kind of a primitive type. KindAny for non-primitives.
	Kind Kind
	// EDM holds the part after "Edm." for primitives.
	EDM string
	// Primitive is set for Edm.* and unresolvable types.
	Primitive bool
	// Collection is set for Collection(...) types.
	Collection bool
	// Ref is the referenced simple type name, empty for primitives.
	Ref string
}

// ResolveProperty resolves the declared type of a structural property.
// Malformed type strings resolve to the open type; they never fail.
func ResolveProperty(edmType string, preferDate bool) Resolution {
	inner, collection, ok := unwrapCollection(edmType)
	if !ok {
		return unknown()
	}
	var r Resolution
	if name, isPrimitive := strings.CutPrefix(inner, edmPrefix); isPrimitive {
		r = Resolution{
			Kind:      ResolvePrimitive(name, preferDate),
			EDM:       name,
			Primitive: true,
		}
		r.TypeName = r.Kind.String()
	} else {
		name := SimpleName(inner)
		if !validIdent(name) {
			return unknown()
		}
		r = Resolution{TypeName: name, Ref: name}
	}
	if collection {
		r.Collection = true
		r.TypeName += "[]"
	}
	return r
}

// ResolveNavigation resolves the declared type of a navigation property.
// The referenced entity name is returned in Ref whether or not the
// property is collection-valued.
func ResolveNavigation(edmType string) Resolution {
	inner, collection, ok := unwrapCollection(edmType)
	if !ok {
		return unknown()
	}
	name := SimpleName(inner)
	if !validIdent(name) {
		return unknown()
	}
	r := Resolution{TypeName: name, Ref: name, Collection: collection}
	if collection {
		r.TypeName = name + "[]"
	}
	return r
}

func unknown() Resolution {
	return Resolution{TypeName: KindAny.String(), Kind: KindAny, Primitive: true}
}

// unwrapCollection returns the element type of "Collection(X)". ok is false
// for empty or unbalanced type strings.
func unwrapCollection(t string) (inner string, collection, ok bool) {
	t = strings.TrimSpace(t)
	if rest, found := strings.CutPrefix(t, collectionPrefix); found {
		inner, found = strings.CutSuffix(rest, ")")
		if !found {
			return "", false, false
		}
		t, collection = strings.TrimSpace(inner), true
	}
	return t, collection, t != ""
}

// validIdent reports whether s is a non-empty identifier: letters, digits
// and underscores, not starting with a digit.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}
