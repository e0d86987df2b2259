package gen

import (
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Import is a dependency of one generated unit on another.
type Import struct {
	// TypeName is the referenced type.
	TypeName string
	// ModuleName is the module the type is imported from.
	ModuleName string
}

// BuildImports computes the import list of owner from the references found
// while scanning its members (properties first, then navigation properties).
// Empty references and self-references are skipped and the first occurrence
// of each type name wins.
func BuildImports(owner string, refs []string, naming Naming, order Order) []Import {
	var imports []Import
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if ref == "" || ref == owner {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		imports = append(imports, Import{TypeName: ref, ModuleName: naming.Module(ref)})
	}
	if order == OrderSorted {
		sortByName(imports, func(i Import) string { return i.TypeName })
	}
	return imports
}

// A collate.Collator is not safe for concurrent use.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und)
)

// CompareNames compares two type names using a locale-aware collation.
// Names that collate equal fall back to byte order to keep output stable.
func CompareNames(a, b string) int {
	collatorMu.Lock()
	c := collator.CompareString(a, b)
	collatorMu.Unlock()
	if c != 0 {
		return c
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func sortByName[T any](s []T, name func(T) string) {
	slices.SortStableFunc(s, func(a, b T) int {
		return CompareNames(name(a), name(b))
	})
}
