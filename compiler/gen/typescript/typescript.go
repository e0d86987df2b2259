// Package typescript renders resolved OData types as TypeScript modules.
//
// Every unit starts with a generator header and a tslint directive,
// followed by one import line per referenced type and a single exported
// enum, class or interface:
//
//	/* This code was generated by odatagen v1.0.0 */
//	/* tslint:disable */
//	import { Location } from './Location';
//
//	export class Person {
//	    UserName: string = "";
//	    AddressInfo: Location[] = [];
//	}
package typescript

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/syssam/odatagen/compiler/gen"
)

// Name is the registry name of the renderer.
const Name = "typescript"

//go:embed template/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("typescript").
	Funcs(template.FuncMap{"marker": marker, "literal": literal}).
	ParseFS(templateFS, "template/*.tmpl"))

func init() {
	gen.Register(Name, func(c *gen.Config) (gen.Renderer, error) {
		return New(c)
	})
}

// Renderer implements gen.Renderer for TypeScript.
type Renderer struct {
	config *gen.Config
}

// New returns a TypeScript renderer for c.
func New(c *gen.Config) (*Renderer, error) {
	if c == nil {
		return nil, gen.NewConfigError("Config", nil, "config cannot be nil")
	}
	return &Renderer{config: c}, nil
}

// Name implements gen.Renderer.
func (*Renderer) Name() string { return Name }

// Extension implements gen.Renderer.
func (*Renderer) Extension() string { return ".ts" }

// RenderEnum implements gen.Renderer.
func (r *Renderer) RenderEnum(e *gen.Enum) ([]byte, error) {
	return r.execute("enum", struct {
		Config *gen.Config
		Enum   *gen.Enum
	}{r.config, e})
}

// RenderType implements gen.Renderer.
func (r *Renderer) RenderType(t *gen.Type) ([]byte, error) {
	return r.execute("type", struct {
		Config *gen.Config
		Type   *gen.Type
	}{r.config, t})
}

// RenderExports implements gen.Renderer.
func (r *Renderer) RenderExports(m *gen.Manifest) ([]byte, error) {
	return r.execute("exports", struct {
		Config  *gen.Config
		Exports []gen.Export
	}{r.config, m.Exports()})
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var b bytes.Buffer
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return nil, fmt.Errorf("typescript: execute %s template: %w", name, err)
	}
	return b.Bytes(), nil
}

func marker(m gen.Marker) string {
	switch m {
	case gen.MarkerOptional:
		return "?"
	case gen.MarkerDefinite:
		return "!"
	default:
		return ""
	}
}

// literal spells a synthesized default in TypeScript.
func literal(d *gen.Default) (string, error) {
	switch d.Kind {
	case gen.DefaultFalse:
		return "false", nil
	case gen.DefaultZero:
		return "0", nil
	case gen.DefaultEmptyString:
		return `""`, nil
	case gen.DefaultEmptyList:
		return "[]", nil
	case gen.DefaultEnumMember:
		return d.Type + "." + d.Member, nil
	case gen.DefaultEnumCast:
		return "<" + d.Type + "> 0", nil
	case gen.DefaultNew:
		return "new " + d.Type + "()", nil
	default:
		return "", fmt.Errorf("typescript: unknown default kind %d", d.Kind)
	}
}
