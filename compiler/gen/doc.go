// Package gen turns a loaded OData schema into per-type source units.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	$metadata document
//	        ↓
//	   load.Schema (enum, complex and entity types in declaration order)
//	        ↓
//	   Graph (resolved types, imports, defaults and markers)
//	        ↓
//	   Generator + Renderer (one unit per type, then AllModels)
//	        ↓
//	   <Target>/<module><ext>
//
// # Key Types
//
//   - Graph: every declared type, resolved under one Config
//   - Enum, Type, Property: the records a Renderer receives
//   - Config: naming, nullability and ordering switches
//   - Renderer: a target-language backend, selected by name
//   - Generator: the sequential emission pipeline
//   - Manifest: the exports recorded during a run
//
// # Error Handling
//
//   - SchemaError: a schema construct that cannot be emitted
//   - ConfigError: an invalid option or renderer name
//   - GenerationError: a render or write failure, with its phase
//
// Example error handling:
//
//	if _, err := gen.NewGenerator(g, r).Generate(ctx); err != nil {
//	    if errors.Is(err, gen.ErrGenerationFailed) {
//	        // a unit could not be rendered or written
//	    }
//	}
package gen
