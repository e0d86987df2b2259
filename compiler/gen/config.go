package gen

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	// DefaultTarget is the output directory used when none is configured.
	DefaultTarget = "models"
	// ExportsName is the type name the aggregate export unit is named after.
	ExportsName = "AllModels"
)

// Config holds the global codegen configuration shared by every type
// of a generation run.
type Config struct {
	// Target is the directory generated units are written to.
	// It is created if it does not exist.
	Target string
	// Generator and Version are printed in the header of every unit.
	Generator string
	Version   string
	// BaseType, if set, is the fixed supertype every entity type extends.
	BaseType string
	// Interfaces emits property bags instead of instantiable types.
	// It disables default-value and marker synthesis.
	Interfaces bool
	// StrictNullability enables optional and definite-assignment markers.
	StrictNullability bool
	// InitNonNull enables default values for non-nullable members.
	InitNonNull bool
	// CamelCaseMembers lower-cases the first letter of member names.
	CamelCaseMembers bool
	// KebabCaseModules tokenizes module names into kebab-case.
	KebabCaseModules bool
	// PreferDate resolves Edm.Date and Edm.DateTimeOffset to a native date type.
	PreferDate bool
	// ImportOrder and ExportOrder choose between sorted and declaration order
	// for per-type imports and for the aggregate export unit.
	ImportOrder Order
	ExportOrder Order
	// Logger receives progress records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Markers reports whether optional/definite-assignment markers are synthesized.
func (c *Config) Markers() bool { return c.StrictNullability && !c.Interfaces }

// Defaults reports whether default values are synthesized.
func (c *Config) Defaults() bool { return c.InitNonNull && !c.Interfaces }

// Naming returns the naming policy derived from the configuration.
func (c *Config) Naming() Naming {
	return Naming{
		CamelCase:  c.CamelCaseMembers,
		KebabCase:  c.KebabCaseModules,
		Interfaces: c.Interfaces,
	}
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Config) target() string {
	if c.Target == "" {
		return DefaultTarget
	}
	return c.Target
}

// Order selects how import and export lists are ordered.
type Order uint8

const (
	// OrderSorted sorts by type name using a locale-aware collation.
	OrderSorted Order = iota
	// OrderDeclared keeps the order in which references were found.
	OrderDeclared
)

// String implements fmt.Stringer.
func (o Order) String() string {
	switch o {
	case OrderSorted:
		return "sorted"
	case OrderDeclared:
		return "declared"
	default:
		return fmt.Sprintf("Order(%d)", uint8(o))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Order) UnmarshalText(text []byte) error {
	v, err := ParseOrder(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseOrder parses "sorted" or "declared". The empty string is OrderSorted.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sorted":
		return OrderSorted, nil
	case "declared":
		return OrderDeclared, nil
	default:
		return 0, NewConfigError("Order", s, "unsupported order; use sorted or declared")
	}
}
