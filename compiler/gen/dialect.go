package gen

// Renderer turns resolved records into source text for one target language.
// It is invoked with fully resolved data only; every lookup it may need
// (defaults, markers, imports) has been done by NewGraph.
//
// Architecture:
//
//	load.Schema ──NewGraph──▶ Graph ──Generator──▶ Renderer ──▶ <Target>/<module><ext>
//
// A Renderer must not keep state between calls; the Generator calls it once
// per unit, in emission order.
type Renderer interface {
	// Name returns the renderer name (e.g., "typescript", "go").
	Name() string
	// Extension returns the file extension of generated units, with the dot.
	Extension() string
	// RenderEnum renders one enumeration unit.
	RenderEnum(e *Enum) ([]byte, error)
	// RenderType renders one complex or entity type unit.
	RenderType(t *Type) ([]byte, error)
	// RenderExports renders the aggregate export unit.
	RenderExports(m *Manifest) ([]byte, error)
}

// RendererFunc returns a renderer for a configuration. Backends register
// themselves under their name so the CLI can select them.
type RendererFunc func(*Config) (Renderer, error)

var renderers = map[string]RendererFunc{}

// Register makes a renderer available by name. It panics on duplicates.
func Register(name string, f RendererFunc) {
	if _, dup := renderers[name]; dup {
		panic("odatagen: Register called twice for renderer " + name)
	}
	renderers[name] = f
}

// NewRenderer returns the registered renderer with the given name.
func NewRenderer(name string, c *Config) (Renderer, error) {
	f, ok := renderers[name]
	if !ok {
		return nil, NewConfigError("Renderer", name, "unknown renderer")
	}
	return f(c)
}
