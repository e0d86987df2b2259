package gen

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, DefaultTarget, c.Target)
		assert.Equal(t, "odatagen", c.Generator)
		assert.Equal(t, OrderSorted, c.ImportOrder)
		assert.Equal(t, OrderSorted, c.ExportOrder)
		assert.False(t, c.Markers())
		assert.False(t, c.Defaults())
	})

	t.Run("first error wins", func(t *testing.T) {
		_, err := NewConfig(WithTarget(""), WithLogger(nil))
		require.Error(t, err)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "Target", cfgErr.Option)
	})

	t.Run("MustNewConfig panics", func(t *testing.T) {
		assert.Panics(t, func() { MustNewConfig(WithTarget("")) })
		assert.NotPanics(t, func() { MustNewConfig(WithTarget("out")) })
	})
}

func TestApplyAll(t *testing.T) {
	c := &Config{}
	err := c.ApplyAll(WithTarget(""), WithBaseType("not valid"), WithInterfaces(true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Target")
	assert.Contains(t, err.Error(), "BaseType")
	assert.True(t, c.Interfaces)
}

func TestWithTarget(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithTarget("src/models")(c))
	assert.Equal(t, "src/models", c.Target)

	err := WithTarget("")(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithVersion(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithVersion("odatagen", "1.2.0")(c))
	assert.Equal(t, "odatagen", c.Generator)
	assert.Equal(t, "1.2.0", c.Version)

	assert.Error(t, WithVersion("", "1.2.0")(c))
}

func TestWithBaseType(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		wantErr bool
	}{
		{"identifier", "EntityBase", false},
		{"empty disables", "", false},
		{"qualified", "Ns.EntityBase", true},
		{"leading digit", "1Base", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithBaseType(tt.base)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.base, c.BaseType)
		})
	}
}

func TestBoolOptions(t *testing.T) {
	c := MustNewConfig(
		WithInterfaces(true),
		WithStrictNullability(true),
		WithInitNonNull(true),
		WithCamelCaseMembers(true),
		WithKebabCaseModules(true),
		WithPreferDate(true),
	)
	assert.True(t, c.Interfaces)
	assert.True(t, c.StrictNullability)
	assert.True(t, c.InitNonNull)
	assert.True(t, c.CamelCaseMembers)
	assert.True(t, c.KebabCaseModules)
	assert.True(t, c.PreferDate)

	// Interfaces suppress synthesis regardless of the other switches.
	assert.False(t, c.Markers())
	assert.False(t, c.Defaults())
	assert.Equal(t, Naming{CamelCase: true, KebabCase: true, Interfaces: true}, c.Naming())

	c.Interfaces = false
	assert.True(t, c.Markers())
	assert.True(t, c.Defaults())
}

func TestOrderOptions(t *testing.T) {
	c := MustNewConfig(WithImportOrder(OrderDeclared), WithExportOrder(OrderDeclared))
	assert.Equal(t, OrderDeclared, c.ImportOrder)
	assert.Equal(t, OrderDeclared, c.ExportOrder)

	assert.Error(t, WithImportOrder(Order(7))(c))
	assert.Error(t, WithExportOrder(Order(7))(c))
}

func TestWithLogger(t *testing.T) {
	c := &Config{}
	assert.Same(t, slog.Default(), c.logger())

	l := slog.New(slog.DiscardHandler)
	require.NoError(t, WithLogger(l)(c))
	assert.Same(t, l, c.logger())

	assert.Error(t, WithLogger(nil)(c))
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{"", OrderSorted, false},
		{"sorted", OrderSorted, false},
		{"Declared", OrderDeclared, false},
		{" declared ", OrderDeclared, false},
		{"random", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrder(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMissingConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("text round trip", func(t *testing.T) {
		text, err := OrderDeclared.MarshalText()
		require.NoError(t, err)
		var o Order
		require.NoError(t, o.UnmarshalText(text))
		assert.Equal(t, OrderDeclared, o)
		assert.Error(t, o.UnmarshalText([]byte("bogus")))
	})
}
