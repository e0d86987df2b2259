// Package golang renders resolved OData types as Go source files.
//
// Generated code structure:
//
//	{target}/
//	├── {Enum}.go       # type Enum int64 + constants
//	├── {Type}.go       # struct with json tags, optional NewType constructor
//	└── AllModels.go    # var AllModels = []any{new(Type), ...}
//
// All units share one package. Nullable members and references to complex
// or entity types become pointers; collection-valued members become slices.
package golang

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/tools/imports"

	"github.com/syssam/odatagen/compiler/gen"
)

// Name is the registry name of the renderer.
const Name = "go"

const (
	pkgTime = "time"
	pkgUUID = "github.com/google/uuid"
)

func init() {
	gen.Register(Name, func(c *gen.Config) (gen.Renderer, error) {
		return New(c)
	})
}

// Renderer implements gen.Renderer for Go.
type Renderer struct {
	config *gen.Config
	pkg    string
}

// Option configures the Go renderer.
type Option func(*Renderer) error

// WithPackage sets the package clause of generated files.
func WithPackage(name string) Option {
	return func(r *Renderer) error {
		if !isPackageName(name) {
			return gen.NewConfigError("Package", name, "invalid Go package name")
		}
		r.pkg = name
		return nil
	}
}

// New returns a Go renderer for c. The package name defaults to the base
// name of the target directory, or "models" if that is not a valid name.
func New(c *gen.Config, opts ...Option) (*Renderer, error) {
	if c == nil {
		return nil, gen.NewConfigError("Config", nil, "config cannot be nil")
	}
	r := &Renderer{config: c, pkg: gen.DefaultTarget}
	if base := strings.ToLower(filepath.Base(c.Target)); isPackageName(base) {
		r.pkg = base
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Name implements gen.Renderer.
func (*Renderer) Name() string { return Name }

// Extension implements gen.Renderer.
func (*Renderer) Extension() string { return ".go" }

// Package returns the package clause of generated files.
func (r *Renderer) Package() string { return r.pkg }

// RenderEnum implements gen.Renderer.
func (r *Renderer) RenderEnum(e *gen.Enum) ([]byte, error) {
	f := r.newFile()
	name := exported(e.Name)
	f.Commentf("%s is the %s enumeration.", name, e.Name)
	f.Type().Id(name).Int64()
	if len(e.Members) > 0 {
		f.Const().DefsFunc(func(g *jen.Group) {
			for _, m := range e.Members {
				g.Id(name+exported(m.Name)).Id(name).Op("=").Lit(int(m.Value))
			}
		})
	}
	f.Line()
	f.Comment("String returns the member name of the value.")
	f.Func().Params(jen.Id("e").Id(name)).Id("String").Params().String().Block(
		jen.Switch(jen.Id("e")).BlockFunc(func(g *jen.Group) {
			seen := make(map[int64]bool, len(e.Members))
			for _, m := range e.Members {
				if seen[m.Value] {
					continue
				}
				seen[m.Value] = true
				g.Case(jen.Id(name + exported(m.Name))).Block(jen.Return(jen.Lit(m.Name)))
			}
		}),
		jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit(name+"(%d)"), jen.Int64().Call(jen.Id("e")))),
	)
	return r.format(e.Module, f)
}

// RenderType implements gen.Renderer.
func (r *Renderer) RenderType(t *gen.Type) ([]byte, error) {
	f := r.newFile()
	name := exported(t.Name)
	kind := "complex"
	if t.Entity {
		kind = "entity"
	}
	f.Commentf("%s is the %s %s type.", name, t.Name, kind)
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		if t.Base != nil {
			g.Id(exported(t.Base.TypeName))
		}
		for _, p := range t.Properties {
			g.Id(exported(p.Name)).Add(r.fieldType(p)).Tag(r.tag(p))
		}
		for _, p := range t.NavProperties {
			g.Id(exported(p.Name)).Add(r.fieldType(p)).Tag(r.tag(p))
		}
	})
	if inits := r.initializers(t); len(inits) > 0 {
		f.Line()
		f.Commentf("New%s returns a %s with every non-nullable member initialized.", name, name)
		f.Func().Id("New"+name).Params().Op("*").Id(name).Block(
			jen.Return(jen.Op("&").Id(name).Values(jen.DictFunc(func(d jen.Dict) {
				for _, in := range inits {
					d[jen.Id(in.field)] = in.value
				}
			}))),
		)
	}
	return r.format(t.Module, f)
}

// RenderExports implements gen.Renderer.
func (r *Renderer) RenderExports(m *gen.Manifest) ([]byte, error) {
	f := r.newFile()
	f.Commentf("%s holds a new value of every generated type.", gen.ExportsName)
	f.Var().Id(gen.ExportsName).Op("=").Index().Id("any").ValuesFunc(func(g *jen.Group) {
		for _, e := range m.Exports() {
			g.New(jen.Id(exported(e.TypeName)))
		}
	})
	return r.format(m.Module(), f)
}

func (r *Renderer) newFile() *jen.File {
	f := jen.NewFile(r.pkg)
	version := ""
	if r.config.Version != "" {
		version = " v" + r.config.Version
	}
	f.HeaderComment(fmt.Sprintf("Code generated by %s%s. DO NOT EDIT.", r.config.Generator, version))
	return f
}

// format renders f and runs it through goimports.
func (r *Renderer) format(module string, f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("golang: render %s: %w", module, err)
	}
	out, err := imports.Process(module+r.Extension(), buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("golang: format %s: %w", module, err)
	}
	return out, nil
}

// fieldType returns the Go type of a member.
func (r *Renderer) fieldType(p *gen.Property) jen.Code {
	elem := r.elemType(p)
	if p.Collection {
		return jen.Index().Add(elem)
	}
	if r.pointer(p) {
		return jen.Op("*").Add(elem)
	}
	return elem
}

// pointer reports whether a scalar member is held by pointer. References
// to complex and entity types always are, so that types may refer to each
// other through any number of hops.
func (r *Renderer) pointer(p *gen.Property) bool {
	switch {
	case p.Primitive && p.EDM == "Binary":
		return false
	case p.Primitive && p.Kind == gen.KindAny && p.EDM != "Guid":
		return false
	case !p.Primitive && !p.Enum:
		return true
	default:
		return r.config.Interfaces || p.Nullable.IsNullable()
	}
}

func (r *Renderer) elemType(p *gen.Property) *jen.Statement {
	if !p.Primitive {
		return jen.Id(exported(p.Ref))
	}
	switch p.EDM {
	case "Int16":
		return jen.Int16()
	case "Int32":
		return jen.Int32()
	case "Int64":
		return jen.Int64()
	case "Single":
		return jen.Float32()
	case "Double", "Decimal":
		return jen.Float64()
	case "Byte":
		return jen.Uint8()
	case "SByte":
		return jen.Int8()
	case "Binary":
		return jen.Index().Byte()
	case "Boolean":
		return jen.Bool()
	case "Guid":
		return jen.Qual(pkgUUID, "UUID")
	case "Date", "DateTimeOffset":
		if p.Kind == gen.KindDate {
			return jen.Qual(pkgTime, "Time")
		}
		return jen.String()
	case "String", "TimeOfDay":
		return jen.String()
	default:
		return jen.Id("any")
	}
}

func (r *Renderer) tag(p *gen.Property) map[string]string {
	name := p.Name
	if r.config.Interfaces || p.Nullable.IsNullable() {
		name += ",omitempty"
	}
	return map[string]string{"json": name}
}

type initializer struct {
	field string
	value jen.Code
}

// initializers returns the constructor assignments of t. Only defaults
// that differ from the Go zero value need one.
func (r *Renderer) initializers(t *gen.Type) []initializer {
	var inits []initializer
	for _, p := range append(append([]*gen.Property(nil), t.Properties...), t.NavProperties...) {
		d := p.Default
		if d == nil {
			continue
		}
		var v jen.Code
		switch d.Kind {
		case gen.DefaultEmptyList:
			v = jen.Index().Add(r.elemType(p)).Values()
		case gen.DefaultEnumMember:
			if d.Member == "" {
				continue
			}
			v = jen.Id(exported(d.Type) + exported(d.Member))
		case gen.DefaultNew:
			if !r.pointer(p) {
				continue
			}
			v = jen.Op("&").Id(exported(d.Type)).Values()
		default:
			continue
		}
		inits = append(inits, initializer{field: exported(p.Name), value: v})
	}
	return inits
}

// exported returns the exported Go identifier of a schema name.
func exported(name string) string {
	s := inflect.Camelize(name)
	if s == "" {
		return "X"
	}
	if c := s[0]; 'a' <= c && c <= 'z' {
		s = string(c-'a'+'A') + s[1:]
	}
	return s
}

func isPackageName(s string) bool {
	if s == "" || s == "." || s == "/" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
