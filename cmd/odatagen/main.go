package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/odatagen"
	"github.com/syssam/odatagen/compiler/gen"
)

// cli holds the parsed command line. The service flags fill a single
// ServiceConfig, the same shape a project file entry has.
type cli struct {
	svc         ServiceConfig
	importOrder string
	exportOrder string
	config      string
	watch       bool
	verbose     bool
	jobs        int
	cacheTTL    time.Duration
	stderr      io.Writer
}

func newRootCmd() *cobra.Command {
	c := &cli{stderr: os.Stderr}
	cmd := &cobra.Command{
		Use:   "odatagen",
		Short: "Generate typed models from OData service metadata",
		Long: `odatagen reads the $metadata document of an OData service and generates one
TypeScript (or Go) module per enum, complex and entity type, plus an AllModels
module re-exporting all of them.`,
		Version:       odatagen.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd.Context())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&c.svc.URL, "url", "u", "", "OData service url")
	f.StringVar(&c.svc.File, "file", "", "Local $metadata document")
	f.StringVar(&c.svc.Snapshot, "snapshot", "", "Schema snapshot written by --snapshotOut")
	f.StringVar(&c.svc.SnapshotOut, "snapshotOut", "", "Write a schema snapshot after loading")
	f.DurationVar(&c.svc.Timeout, "timeout", 0, "Metadata fetch timeout (default: none)")
	f.StringVarP(&c.svc.OutDir, "outDir", "o", gen.DefaultTarget, "Output directory")
	f.StringVarP(&c.svc.Lang, "lang", "l", "ts", "Output language: ts or go")
	f.StringVarP(&c.svc.BaseType, "baseType", "b", "", "Base type for entity types")
	f.BoolVarP(&c.svc.UseInterfaces, "useInterfaces", "f", false, "Use interfaces instead of classes")
	f.BoolVarP(&c.svc.StrictNullability, "strictNullability", "s", false, "Use strict nullability assertions for properties")
	f.BoolVarP(&c.svc.InitNonNullProps, "initNonNullProps", "i", false, "Use initializers for non-nullable properties")
	f.BoolVarP(&c.svc.CamelCaseProps, "camelCaseProps", "c", false, "Use camelCase property names")
	f.BoolVarP(&c.svc.KebabCaseModules, "kebabCaseModules", "k", false, "Use kebab-case module names")
	f.BoolVarP(&c.svc.UseDateProps, "useDateProps", "d", false, "Use Date type for date/time properties")
	f.BoolVar(&c.svc.IgnoreCertErrors, "ignoreCertErrors", false, "Ignore SSL/TLS certificate errors")
	f.StringVar(&c.importOrder, "importOrder", "sorted", "Import order: sorted or declared")
	f.StringVar(&c.exportOrder, "exportOrder", "sorted", "AllModels order: sorted or declared")
	f.StringVar(&c.config, "config", "", "YAML project file listing several services")
	f.IntVarP(&c.jobs, "jobs", "j", 4, "Services generated at the same time")
	f.DurationVar(&c.cacheTTL, "cacheTTL", 5*time.Minute, "How long fetched metadata is reused in watch mode")
	f.BoolVarP(&c.watch, "watch", "w", false, "Regenerate when a local metadata file or the project file changes")
	f.BoolVarP(&c.verbose, "verbose", "v", false, "Log every generated unit")
	cmd.MarkFlagsMutuallyExclusive("url", "file", "snapshot", "config")
	return cmd
}

func (c *cli) logger() *slog.Logger {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level}))
}

// project returns the project to generate: the project file if given,
// otherwise a single service built from the flags.
func (c *cli) project() (*Project, error) {
	if c.config != "" {
		return ReadProject(c.config)
	}
	svc := c.svc
	svc.Name = "default"
	var err error
	if svc.ImportOrder, err = gen.ParseOrder(c.importOrder); err != nil {
		return nil, err
	}
	if svc.ExportOrder, err = gen.ParseOrder(c.exportOrder); err != nil {
		return nil, err
	}
	if err := svc.validate(); err != nil {
		return nil, err
	}
	return &Project{Services: []ServiceConfig{svc}}, nil
}

func (c *cli) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.logger()
	p, err := c.project()
	if err != nil {
		return err
	}
	var cache odatagen.Cache
	if c.watch {
		cache = odatagen.NewMemoryCache()
	}
	generate := func(ctx context.Context, p *Project, names []string) error {
		services := make([]odatagen.Service, 0, len(p.Services))
		for i := range p.Services {
			sc := &p.Services[i]
			if names != nil && !slices.Contains(names, sc.Name) {
				continue
			}
			svc, err := sc.service(logger, cache, c.cacheTTL)
			if err != nil {
				return err
			}
			services = append(services, svc)
		}
		jobs := c.jobs
		if p.Jobs > 0 {
			jobs = p.Jobs
		}
		_, err := odatagen.GenerateAll(ctx, services, jobs)
		return err
	}
	if err := generate(ctx, p, nil); err != nil {
		if !c.watch {
			return err
		}
		logger.ErrorContext(ctx, "generation failed", "error", err)
	}
	if !c.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	w := &watcher{
		logger: logger,
		files:  c.watchFiles(p),
		regenerate: func(ctx context.Context, names []string) error {
			return generate(ctx, p, names)
		},
	}
	if c.config != "" {
		w.reload = func() (map[string][]string, error) {
			np, err := ReadProject(c.config)
			if err != nil {
				return nil, err
			}
			p = np
			return c.watchFiles(p), nil
		}
	}
	return w.run(ctx)
}

// watchFiles maps the local files of p to the services reading them. The
// project file maps to nil, meaning every service.
func (c *cli) watchFiles(p *Project) map[string][]string {
	files := make(map[string][]string)
	if c.config != "" {
		if abs, err := filepath.Abs(c.config); err == nil {
			files[abs] = nil
		}
	}
	for _, svc := range p.Services {
		if svc.File == "" {
			continue
		}
		abs, err := filepath.Abs(svc.File)
		if err != nil {
			continue
		}
		files[abs] = append(files[abs], svc.Name)
	}
	return files
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "odatagen:", err)
		os.Exit(1)
	}
}
