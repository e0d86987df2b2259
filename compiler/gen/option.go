package gen

import (
	"errors"
	"log/slog"
)

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithVersion sets the generator name and version printed in unit headers.
func WithVersion(generator, version string) Option {
	return func(c *Config) error {
		if generator == "" {
			return NewConfigError("Generator", nil, "generator name cannot be empty")
		}
		c.Generator = generator
		c.Version = version
		return nil
	}
}

// WithBaseType sets the fixed supertype of every entity type.
// The empty string disables it.
func WithBaseType(name string) Option {
	return func(c *Config) error {
		if name != "" && !validIdent(name) {
			return NewConfigError("BaseType", name, "base type must be a simple identifier")
		}
		c.BaseType = name
		return nil
	}
}

// WithInterfaces switches to property-bag output.
func WithInterfaces(enabled bool) Option {
	return func(c *Config) error {
		c.Interfaces = enabled
		return nil
	}
}

// WithStrictNullability enables optional/definite-assignment markers.
func WithStrictNullability(enabled bool) Option {
	return func(c *Config) error {
		c.StrictNullability = enabled
		return nil
	}
}

// WithInitNonNull enables default values for non-nullable members.
func WithInitNonNull(enabled bool) Option {
	return func(c *Config) error {
		c.InitNonNull = enabled
		return nil
	}
}

// WithCamelCaseMembers enables the first-letter-lowercase member transform.
func WithCamelCaseMembers(enabled bool) Option {
	return func(c *Config) error {
		c.CamelCaseMembers = enabled
		return nil
	}
}

// WithKebabCaseModules enables kebab-case module names.
func WithKebabCaseModules(enabled bool) Option {
	return func(c *Config) error {
		c.KebabCaseModules = enabled
		return nil
	}
}

// WithPreferDate resolves temporal EDM types to a native date type.
func WithPreferDate(enabled bool) Option {
	return func(c *Config) error {
		c.PreferDate = enabled
		return nil
	}
}

// WithImportOrder sets the ordering policy of per-type imports.
func WithImportOrder(o Order) Option {
	return func(c *Config) error {
		if o > OrderDeclared {
			return NewConfigError("ImportOrder", o, "unsupported order")
		}
		c.ImportOrder = o
		return nil
	}
}

// WithExportOrder sets the ordering policy of the aggregate export unit.
func WithExportOrder(o Order) Option {
	return func(c *Config) error {
		if o > OrderDeclared {
			return NewConfigError("ExportOrder", o, "unsupported order")
		}
		c.ExportOrder = o
		return nil
	}
}

// WithLogger sets the logger used during generation.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Target: DefaultTarget, Generator: "odatagen"}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
