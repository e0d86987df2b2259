package gen

// Marker is the nullability assertion written after a member identifier.
type Marker uint8

const (
	// MarkerNone writes nothing.
	MarkerNone Marker = iota
	// MarkerOptional marks a member that may be absent ("?").
	MarkerOptional
	// MarkerDefinite asserts a member is assigned before use ("!").
	MarkerDefinite
)

// DefaultKind classifies a synthesized initializer.
type DefaultKind uint8

const (
	// DefaultFalse is the boolean false literal.
	DefaultFalse DefaultKind = iota
	// DefaultZero is the numeric zero literal.
	DefaultZero
	// DefaultEmptyString is the empty string literal.
	DefaultEmptyString
	// DefaultEmptyList is the empty sequence literal.
	DefaultEmptyList
	// DefaultEnumMember references the zero-valued member of Type.
	DefaultEnumMember
	// DefaultEnumCast casts 0 to the enumeration Type, which has no
	// zero-valued member.
	DefaultEnumCast
	// DefaultNew is a default-constructed instance of Type.
	DefaultNew
)

// Default is a language-neutral initializer. Renderers decide the spelling.
type Default struct {
	Kind DefaultKind
	// Type is the enumeration or structured type the default refers to.
	Type string
	// Member is the enumeration member for DefaultEnumMember.
	Member string
}

// RenderContext carries everything default and marker synthesis may consult:
// the configuration, the declared-name index and the type being rendered.
type RenderContext struct {
	Config *Config
	Lookup *Lookup
	Type   *Type
}

// DefaultFor returns the initializer of p, or nil if it gets none.
func (rc RenderContext) DefaultFor(p *Property) *Default {
	if !rc.Config.Defaults() || p.Nullable.IsNullable() {
		return nil
	}
	// Malformed navigation types resolve to the open type and take the
	// primitive path.
	switch {
	case p.Collection:
		return &Default{Kind: DefaultEmptyList}
	case p.Primitive:
		return primitiveDefault(p.Kind)
	case p.Navigation:
		return &Default{Kind: DefaultNew, Type: p.Ref}
	}
	if e, ok := rc.Lookup.Enum(p.Ref); ok {
		if e.Zero != nil {
			return &Default{Kind: DefaultEnumMember, Type: e.Name, Member: e.Zero.Name}
		}
		return &Default{Kind: DefaultEnumCast, Type: e.Name}
	}
	if rc.Lookup.Structured(p.Ref) {
		return &Default{Kind: DefaultNew, Type: p.Ref}
	}
	rc.Config.logger().Warn("no default for unresolved type",
		"type", rc.Type.Name, "property", p.Name, "ref", p.Ref)
	return nil
}

func primitiveDefault(k Kind) *Default {
	switch k {
	case KindBoolean:
		return &Default{Kind: DefaultFalse}
	case KindNumber:
		return &Default{Kind: DefaultZero}
	case KindString:
		return &Default{Kind: DefaultEmptyString}
	default:
		return nil
	}
}

// MarkerFor returns the marker of p given its synthesized default. Only one
// assertion style applies per member: a member with a default gets none.
func (rc RenderContext) MarkerFor(p *Property, def *Default) Marker {
	switch {
	case !rc.Config.Markers():
		return MarkerNone
	case p.Nullable.IsNullable():
		return MarkerOptional
	case def != nil:
		return MarkerNone
	default:
		return MarkerDefinite
	}
}

func (rc RenderContext) annotate(p *Property) {
	p.Default = rc.DefaultFor(p)
	p.Marker = rc.MarkerFor(p, p.Default)
}
