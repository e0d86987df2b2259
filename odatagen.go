// Package odatagen generates typed model definitions from the $metadata
// document of an OData service.
//
// A run loads one schema, resolves it under a gen.Config and hands every
// enum, complex and entity type to a renderer, one unit at a time:
//
//	src := load.NewURLSource("https://services.odata.org/TripPinRESTierService")
//	cfg := gen.MustNewConfig(gen.WithTarget("src/models"), gen.WithKebabCaseModules(true))
//	manifest, err := odatagen.Generate(ctx, src, cfg, nil)
//
// Renderers for TypeScript ("typescript") and Go ("go") are registered by
// importing this package.
package odatagen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/odatagen/compiler/gen"
	_ "github.com/syssam/odatagen/compiler/gen/golang"
	"github.com/syssam/odatagen/compiler/gen/typescript"
	"github.com/syssam/odatagen/compiler/load"
)

// Version is the generator version printed in unit headers.
const Version = "1.0.0"

// Generate loads the schema from src and writes one unit per declared type
// plus the aggregate export unit. A nil renderer selects TypeScript.
// Nothing is written if loading fails.
func Generate(ctx context.Context, src load.Source, cfg *gen.Config, r gen.Renderer) (*gen.Manifest, error) {
	if src == nil {
		return nil, gen.NewConfigError("Source", nil, "source cannot be nil")
	}
	if cfg == nil {
		return nil, gen.NewConfigError("Config", nil, "config cannot be nil")
	}
	c := *cfg
	if c.Version == "" {
		c.Version = Version
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c.Logger = logger.With("run", uuid.NewString())

	s, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("odatagen: load metadata: %w", err)
	}
	c.Logger.DebugContext(ctx, "schema loaded",
		"namespace", s.Namespace,
		"enums", len(s.EnumTypes),
		"complex", len(s.ComplexTypes),
		"entities", len(s.EntityTypes),
	)
	g, err := gen.NewGraph(&c, s)
	if err != nil {
		return nil, err
	}
	if r == nil {
		if r, err = typescript.New(&c); err != nil {
			return nil, err
		}
	}
	return gen.NewGenerator(g, r).Generate(ctx)
}

// Service is one generation job of a multi-service run.
type Service struct {
	// Name identifies the service in logs and errors.
	Name   string
	Source load.Source
	Config *gen.Config
	// Renderer is a registered renderer name. Empty selects TypeScript.
	Renderer string
}

// GenerateAll runs the services concurrently, at most limit at a time
// (no limit if limit <= 0). Each service writes to its own target; two
// services sharing a target directory is a configuration error. A failing
// service does not stop the others; all failures are returned together.
func GenerateAll(ctx context.Context, services []Service, limit int) (map[string]*gen.Manifest, error) {
	if len(services) == 0 {
		return nil, ErrNoServices
	}
	targets := make(map[string]string, len(services))
	for _, svc := range services {
		if svc.Config == nil {
			return nil, gen.NewConfigError("Config", svc.Name, "service has no config")
		}
		dir := filepath.Clean(svc.Config.Target)
		if other, dup := targets[dir]; dup {
			return nil, gen.NewConfigError("Target", dir, fmt.Sprintf("shared by services %s and %s", other, svc.Name))
		}
		targets[dir] = svc.Name
	}

	var (
		mu        sync.Mutex
		manifests = make(map[string]*gen.Manifest, len(services))
		errs      = make([]error, len(services))
		eg        errgroup.Group
	)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, svc := range services {
		eg.Go(func() error {
			m, err := generateService(ctx, svc)
			if err != nil {
				errs[i] = err
				return nil
			}
			mu.Lock()
			manifests[svc.Name] = m
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
	return manifests, NewAggregateError(errs...)
}

func generateService(ctx context.Context, svc Service) (*gen.Manifest, error) {
	name := svc.Renderer
	if name == "" {
		name = typescript.Name
	}
	c := *svc.Config
	if c.Version == "" {
		c.Version = Version
	}
	r, err := gen.NewRenderer(name, &c)
	if err != nil {
		return nil, NewServiceError(svc.Name, "resolve", err)
	}
	m, err := Generate(ctx, svc.Source, &c, r)
	if err != nil {
		return nil, NewServiceError(svc.Name, "generate", err)
	}
	return m, nil
}
