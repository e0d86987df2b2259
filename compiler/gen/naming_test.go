package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelMember(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"UserName", "userName"},
		{"ABC", "aBC"},
		{"id", "id"},
		{"_Id", "_Id"},
		{"", ""},
		{"Ä", "Ä"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CamelMember(tt.in))
		})
	}
}

func TestKebabModule(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"HTTPServer", "http-server"},
		{"OrderID", "order-id"},
		{"Item2Count", "item2-count"},
		{"OrderLine", "order-line"},
		{"Person", "person"},
		{"person", "person"},
		{"AllModels", "all-models"},
		{"ABC", "abc"},
		{"A", "a"},
		{"Order_Line", "order-line"},
		{"V2", "v-2"},
		{"123", "123"},
		{"", ""},
		{"__", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, KebabModule(tt.in))
		})
	}
}

func TestNaming(t *testing.T) {
	t.Run("zero value passes through", func(t *testing.T) {
		var n Naming
		assert.Equal(t, "UserName", n.Member("UserName"))
		assert.Equal(t, "UserName", n.Identifier("UserName"))
		assert.Equal(t, "OrderLine", n.Module("OrderLine"))
	})

	t.Run("camel case and kebab case", func(t *testing.T) {
		n := Naming{CamelCase: true, KebabCase: true}
		assert.Equal(t, "userName", n.Member("UserName"))
		assert.Equal(t, "userName", n.Identifier("UserName"))
		assert.Equal(t, "order-line", n.Module("OrderLine"))
	})

	t.Run("interfaces add the optional suffix", func(t *testing.T) {
		n := Naming{CamelCase: true, Interfaces: true}
		assert.Equal(t, "userName", n.Member("UserName"))
		assert.Equal(t, "userName?", n.Identifier("UserName"))
	})
}
