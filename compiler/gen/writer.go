package gen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Stage is the position of a Generator in its run.
type Stage uint8

// Stages of a generation run, in order. There is no backtracking.
const (
	StageIdle Stage = iota
	StageSchemaLoaded
	StageEnumsEmitted
	StageComplexEmitted
	StageEntitiesEmitted
	StageExportsEmitted
	StageDone
)

var stageNames = [...]string{
	StageIdle:            "idle",
	StageSchemaLoaded:    "schema-loaded",
	StageEnumsEmitted:    "enums-emitted",
	StageComplexEmitted:  "complex-emitted",
	StageEntitiesEmitted: "entities-emitted",
	StageExportsEmitted:  "exports-emitted",
	StageDone:            "done",
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// Generator emits the units of a graph one at a time, in declaration order:
// enums, complex types, entity types, then the aggregate export unit.
type Generator struct {
	graph    *Graph
	renderer Renderer
	outDir   string
	stage    Stage
	log      *slog.Logger

	// Metrics for the last run.
	metrics WriterMetrics
}

// WriterMetrics tracks generation output.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// NewGenerator creates a generator for g using r.
func NewGenerator(g *Graph, r Renderer) *Generator {
	return &Generator{
		graph:    g,
		renderer: r,
		outDir:   g.target(),
		stage:    StageSchemaLoaded,
		log:      g.logger(),
	}
}

// Stage returns the current stage.
func (w *Generator) Stage() Stage { return w.stage }

// Metrics returns the generation metrics.
func (w *Generator) Metrics() WriterMetrics { return w.metrics }

// Generate runs the pipeline. Any rendering or file system failure ends the
// run; units written before the failure are left in place.
func (w *Generator) Generate(ctx context.Context) (*Manifest, error) {
	if w.renderer == nil {
		return nil, NewConfigError("Renderer", nil, "no renderer set")
	}
	if w.stage != StageSchemaLoaded {
		return nil, NewConfigError("Generator", w.stage.String(), "generator already ran")
	}
	m := &Manifest{Config: w.graph.Config}
	if err := w.checkModules(m.Module()); err != nil {
		return nil, err
	}
	if w.graph.Len() > 0 {
		if err := os.MkdirAll(w.outDir, 0o755); err != nil {
			return nil, NewGenerationError("", w.outDir, "create output directory", err)
		}
	}

	for _, e := range w.graph.Enums {
		if err := w.emit(ctx, m, "enum", e.Name, e.Module, func() ([]byte, error) {
			return w.renderer.RenderEnum(e)
		}); err != nil {
			return nil, err
		}
	}
	w.stage = StageEnumsEmitted

	for _, t := range w.graph.ComplexTypes {
		if err := w.emit(ctx, m, "complex", t.Name, t.Module, func() ([]byte, error) {
			return w.renderer.RenderType(t)
		}); err != nil {
			return nil, err
		}
	}
	w.stage = StageComplexEmitted

	for _, t := range w.graph.EntityTypes {
		if err := w.emit(ctx, m, "entity", t.Name, t.Module, func() ([]byte, error) {
			return w.renderer.RenderType(t)
		}); err != nil {
			return nil, err
		}
	}
	w.stage = StageEntitiesEmitted

	if m.Len() > 0 {
		src, err := w.renderer.RenderExports(m)
		if err != nil {
			return nil, NewGenerationError("exports", m.Module(), "render", err)
		}
		if _, err := w.write(m.Module(), src); err != nil {
			return nil, NewGenerationError("exports", m.Module(), "write", err)
		}
	}
	w.stage = StageExportsEmitted

	w.log.InfoContext(ctx, "generation finished",
		"renderer", w.renderer.Name(),
		"dir", w.outDir,
		"files", w.metrics.FilesGenerated,
		"bytes", w.metrics.TotalBytes,
	)
	w.stage = StageDone
	return m, nil
}

// emit renders, writes and records one unit.
func (w *Generator) emit(ctx context.Context, m *Manifest, phase, name, module string, render func() ([]byte, error)) error {
	src, err := render()
	if err != nil {
		return NewGenerationError(phase, module, "render "+name, err)
	}
	file, err := w.write(module, src)
	if err != nil {
		return NewGenerationError(phase, module, "write "+name, err)
	}
	m.Add(Unit{TypeName: name, ModuleName: module, File: file, Source: src})
	w.log.DebugContext(ctx, "unit written", "phase", phase, "type", name, "file", file)
	return nil
}

// checkModules rejects graphs in which two units would be written to the
// same file, or a unit has no module name. Nothing is written in that case.
func (w *Generator) checkModules(exports string) error {
	if w.graph.Len() == 0 {
		return nil
	}
	owners := map[string]string{exports: "the aggregate unit"}
	claim := func(name, module string) error {
		if module == "" {
			return NewSchemaError(name, "", "type name yields an empty module name")
		}
		if prev, ok := owners[module]; ok {
			return NewSchemaError(name, "", fmt.Sprintf("module %q is already used by %s", module, prev))
		}
		owners[module] = name
		return nil
	}
	for _, e := range w.graph.Enums {
		if err := claim(e.Name, e.Module); err != nil {
			return err
		}
	}
	for _, types := range [][]*Type{w.graph.ComplexTypes, w.graph.EntityTypes} {
		for _, t := range types {
			if err := claim(t.Name, t.Module); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Generator) write(module string, src []byte) (string, error) {
	file := filepath.Join(w.outDir, module+w.renderer.Extension())
	if err := os.WriteFile(file, src, 0o644); err != nil {
		return "", err
	}
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(src))
	return file, nil
}
