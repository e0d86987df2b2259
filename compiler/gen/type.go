package gen

import (
	"slices"

	"github.com/syssam/odatagen/compiler/load"
)

// The following types are the fully resolved records handed to a Renderer.
// They are built once by NewGraph and never consult the schema again.
type (
	// Graph holds every declared type of one schema, resolved and annotated.
	Graph struct {
		*Config
		// Schema is the read-only input the graph was built from.
		Schema *load.Schema
		// Enums, ComplexTypes and EntityTypes keep declaration order.
		Enums        []*Enum
		ComplexTypes []*Type
		EntityTypes  []*Type
		lookup       *Lookup
	}

	// Enum is a resolved EnumType.
	Enum struct {
		// Name of the enumeration.
		Name string
		// Module the enumeration is emitted to.
		Module  string
		Members []load.Member
		// Zero is the first member with value 0, if any.
		Zero *load.Member
	}

	// Type is a resolved ComplexType or EntityType.
	Type struct {
		// Name holds the declared type name.
		Name string
		// Module the type is emitted to.
		Module string
		// Entity is set for entity types.
		Entity bool
		// Base is the configured supertype. Only set for entity types.
		Base *Import
		// Imports holds the deduplicated, self-excluding references.
		Imports []Import
		// Properties and NavProperties keep declaration order.
		Properties    []*Property
		NavProperties []*Property
	}

	// Property is a resolved Property or NavigationProperty.
	Property struct {
		Resolution
		// Name is the declared name.
		Name string
		// Member is Name after the member-naming transform.
		Member string
		// Identifier is Member plus the interface-style suffix, if any.
		Identifier string
		// EDMType is the declared type string.
		EDMType  string
		Nullable load.Nullability
		// Navigation is set for navigation properties.
		Navigation bool
		// Enum is set when Ref names a declared enumeration.
		Enum bool
		// Default is the synthesized initializer, nil if none.
		Default *Default
		// Marker is the synthesized nullability marker.
		Marker Marker
	}
)

// Lookup indexes the declared type names of a schema.
type Lookup struct {
	enums map[string]*Enum
	types map[string]bool // name -> entity
}

// Enum returns the declared enumeration with the given name.
func (l *Lookup) Enum(name string) (*Enum, bool) {
	e, ok := l.enums[name]
	return e, ok
}

// Structured reports whether name is a declared complex or entity type.
func (l *Lookup) Structured(name string) bool {
	_, ok := l.types[name]
	return ok
}

// NewGraph resolves s under the given configuration.
func NewGraph(c *Config, s *load.Schema) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if s == nil {
		return nil, NewSchemaError("", "", "schema cannot be nil")
	}
	g := &Graph{
		Config: c,
		Schema: s,
		lookup: &Lookup{enums: make(map[string]*Enum), types: make(map[string]bool)},
	}
	naming := c.Naming()
	for _, et := range s.EnumTypes {
		if et.Name == "" {
			return nil, NewSchemaError("", "", "enum type without a name")
		}
		e := &Enum{Name: et.Name, Module: naming.Module(et.Name), Members: et.Members}
		if m, ok := et.ZeroMember(); ok {
			e.Zero = &m
		}
		g.Enums = append(g.Enums, e)
		g.lookup.enums[e.Name] = e
	}
	// Register every structured name first so that forward references
	// are recognized by default synthesis.
	for _, ct := range s.ComplexTypes {
		if ct.Name == "" {
			return nil, NewSchemaError("", "", "complex type without a name")
		}
		g.lookup.types[ct.Name] = false
	}
	for _, et := range s.EntityTypes {
		if et.Name == "" {
			return nil, NewSchemaError("", "", "entity type without a name")
		}
		g.lookup.types[et.Name] = true
	}
	for _, ct := range s.ComplexTypes {
		g.ComplexTypes = append(g.ComplexTypes, g.newType(ct.Name, false, ct.Properties, nil))
	}
	for _, et := range s.EntityTypes {
		g.EntityTypes = append(g.EntityTypes, g.newType(et.Name, true, et.Properties, et.NavigationProperties))
	}
	return g, nil
}

// Lookup returns the declared-name index of the graph.
func (g *Graph) Lookup() *Lookup { return g.lookup }

// Len returns the number of units the graph emits, excluding the export unit.
func (g *Graph) Len() int {
	return len(g.Enums) + len(g.ComplexTypes) + len(g.EntityTypes)
}

func (g *Graph) newType(name string, entity bool, props []*load.Property, navs []*load.NavigationProperty) *Type {
	naming := g.Naming()
	t := &Type{Name: name, Module: naming.Module(name), Entity: entity}
	if entity && g.BaseType != "" {
		t.Base = &Import{TypeName: g.BaseType, ModuleName: naming.Module(g.BaseType)}
	}
	refs := make([]string, 0, len(props)+len(navs))
	for _, p := range props {
		np := g.newProperty(p.Name, p.Type, p.Nullable, ResolveProperty(p.Type, g.PreferDate))
		t.Properties = append(t.Properties, np)
		refs = append(refs, np.Ref)
	}
	for _, p := range navs {
		np := g.newProperty(p.Name, p.Type, p.Nullable, ResolveNavigation(p.Type))
		np.Navigation = true
		t.NavProperties = append(t.NavProperties, np)
		refs = append(refs, np.Ref)
	}
	if t.Base != nil {
		// The base import already brings the base type into scope.
		refs = slices.DeleteFunc(refs, func(ref string) bool { return ref == t.Base.TypeName })
	}
	t.Imports = BuildImports(name, refs, naming, g.ImportOrder)

	rc := RenderContext{Config: g.Config, Lookup: g.lookup, Type: t}
	for _, p := range t.Properties {
		_, p.Enum = g.lookup.Enum(p.Ref)
		rc.annotate(p)
	}
	for _, p := range t.NavProperties {
		rc.annotate(p)
	}
	return t
}

func (g *Graph) newProperty(name, edmType string, nullable load.Nullability, r Resolution) *Property {
	naming := g.Naming()
	return &Property{
		Resolution: r,
		Name:       name,
		Member:     naming.Member(name),
		Identifier: naming.Identifier(name),
		EDMType:    edmType,
		Nullable:   nullable,
	}
}

// ElemName returns the element type of a collection, or the type itself.
func (p *Property) ElemName() string {
	if p.Collection {
		return p.TypeName[:len(p.TypeName)-2]
	}
	return p.TypeName
}
