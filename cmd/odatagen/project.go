package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/odatagen"
	"github.com/syssam/odatagen/compiler/gen"
	"github.com/syssam/odatagen/compiler/gen/typescript"
	"github.com/syssam/odatagen/compiler/load"
)

// Project is the YAML project file: a list of services generated together.
//
//	jobs: 2
//	services:
//	  - name: trippin
//	    url: https://services.odata.org/TripPinRESTierService
//	    outDir: src/trippin
//	    kebabCaseModules: true
//	  - name: local
//	    file: metadata.xml
//	    outDir: internal/models
//	    lang: go
type Project struct {
	// Jobs bounds the number of services generated at the same time.
	Jobs     int             `yaml:"jobs,omitempty"`
	Services []ServiceConfig `yaml:"services"`
}

// ServiceConfig describes one service. Exactly one of URL, File or
// Snapshot selects where the metadata document comes from.
type ServiceConfig struct {
	Name        string        `yaml:"name,omitempty"`
	URL         string        `yaml:"url,omitempty"`
	File        string        `yaml:"file,omitempty"`
	Snapshot    string        `yaml:"snapshot,omitempty"`
	SnapshotOut string        `yaml:"snapshotOut,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	OutDir      string        `yaml:"outDir,omitempty"`
	Lang        string        `yaml:"lang,omitempty"`

	BaseType          string    `yaml:"baseType,omitempty"`
	UseInterfaces     bool      `yaml:"useInterfaces,omitempty"`
	StrictNullability bool      `yaml:"strictNullability,omitempty"`
	InitNonNullProps  bool      `yaml:"initNonNullProps,omitempty"`
	CamelCaseProps    bool      `yaml:"camelCaseProps,omitempty"`
	KebabCaseModules  bool      `yaml:"kebabCaseModules,omitempty"`
	UseDateProps      bool      `yaml:"useDateProps,omitempty"`
	IgnoreCertErrors  bool      `yaml:"ignoreCertErrors,omitempty"`
	ImportOrder       gen.Order `yaml:"importOrder,omitempty"`
	ExportOrder       gen.Order `yaml:"exportOrder,omitempty"`
}

// ReadProject reads and validates a project file.
func ReadProject(path string) (*Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}
	var p Project
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project file %s: %w", path, err)
	}
	if len(p.Services) == 0 {
		return nil, fmt.Errorf("project file %s: %w", path, odatagen.ErrNoServices)
	}
	for i := range p.Services {
		svc := &p.Services[i]
		if svc.Name == "" {
			svc.Name = fmt.Sprintf("service-%d", i+1)
		}
		if err := svc.validate(); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func (s *ServiceConfig) validate() error {
	n := 0
	for _, v := range []string{s.URL, s.File, s.Snapshot} {
		if v != "" {
			n++
		}
	}
	switch {
	case n == 0:
		return fmt.Errorf("service %s: one of url, file or snapshot must be specified", s.Name)
	case n > 1:
		return fmt.Errorf("service %s: only one of url, file or snapshot can be specified", s.Name)
	}
	switch s.Lang {
	case "", "ts", typescript.Name, "go":
	default:
		return fmt.Errorf("service %s: invalid lang %q (must be 'ts' or 'go')", s.Name, s.Lang)
	}
	return nil
}

// renderer returns the registered renderer name for Lang.
func (s *ServiceConfig) renderer() string {
	if s.Lang == "go" {
		return "go"
	}
	return typescript.Name
}

// options returns the generator options of the service.
func (s *ServiceConfig) options(logger *slog.Logger) []gen.Option {
	outDir := s.OutDir
	if outDir == "" {
		outDir = gen.DefaultTarget
	}
	return []gen.Option{
		gen.WithTarget(outDir),
		gen.WithVersion("odatagen", odatagen.Version),
		gen.WithBaseType(s.BaseType),
		gen.WithInterfaces(s.UseInterfaces),
		gen.WithStrictNullability(s.StrictNullability),
		gen.WithInitNonNull(s.InitNonNullProps),
		gen.WithCamelCaseMembers(s.CamelCaseProps),
		gen.WithKebabCaseModules(s.KebabCaseModules),
		gen.WithPreferDate(s.UseDateProps),
		gen.WithImportOrder(s.ImportOrder),
		gen.WithExportOrder(s.ExportOrder),
		gen.WithLogger(logger.With("service", s.Name)),
	}
}

// source returns where the metadata document of the service is read from.
// URL sources go through cache when it is set.
func (s *ServiceConfig) source(cache odatagen.Cache, ttl time.Duration) load.Source {
	var src load.Source
	switch {
	case s.Snapshot != "":
		src = load.SnapshotSource{Path: s.Snapshot}
	case s.File != "":
		src = load.FileSource{Path: s.File}
	default:
		opts := []load.FetchOption{load.WithInsecureTLS(s.IgnoreCertErrors)}
		if s.Timeout > 0 {
			opts = append(opts, load.WithTimeout(s.Timeout))
		}
		src = load.NewURLSource(s.URL, opts...)
		if cache != nil {
			src = odatagen.CachedSource(src, cache, odatagen.CacheKey{Service: s.Name, URL: s.URL}, ttl)
		}
	}
	if s.SnapshotOut != "" {
		src = load.Recording(src, s.SnapshotOut)
	}
	return src
}

// service builds the generation job of the service.
func (s *ServiceConfig) service(logger *slog.Logger, cache odatagen.Cache, ttl time.Duration) (odatagen.Service, error) {
	cfg, err := gen.NewConfig(s.options(logger)...)
	if err != nil {
		return odatagen.Service{}, fmt.Errorf("service %s: %w", s.Name, err)
	}
	return odatagen.Service{
		Name:     s.Name,
		Source:   s.source(cache, ttl),
		Config:   cfg,
		Renderer: s.renderer(),
	}, nil
}
