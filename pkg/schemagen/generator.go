package schemagen

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/fitlins-go/fslshim/engine/level1"
	"github.com/fitlins-go/fslshim/pkg/config"
	"github.com/fitlins-go/fslshim/pkg/logger"
	"github.com/invopop/jsonschema"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const configSchemaID = "https://fitlins-go.github.io/fslshim/schemas/config.json"

// Definition names one generated schema.
type Definition struct {
	Name  string
	Build func() ([]byte, error)
}

func (d Definition) FileName() string {
	return d.Name + ".json"
}

// Definitions returns every schema the generator knows about, keyed by name.
func Definitions() map[string]Definition {
	return map[string]Definition{
		"batch":  {Name: "batch", Build: level1.Schema},
		"config": {Name: "config", Build: ConfigSchema},
	}
}

// Names returns the known schema names in sorted order.
func Names() []string {
	defs := Definitions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConfigSchema reflects the configuration file layout from config.Config.
func ConfigSchema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		FieldNameTag:   "koanf",
		// every key has a default
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(&config.Config{})
	schema.ID = jsonschema.ID(configSchemaID)
	schema.Title = "fslshim configuration"
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config schema: %w", err)
	}
	return data, nil
}

type Generator struct {
	fs          afero.Fs
	definitions []Definition
}

func NewGenerator(fs afero.Fs) *Generator {
	defs := Definitions()
	ordered := make([]Definition, 0, len(defs))
	for _, name := range Names() {
		ordered = append(ordered, defs[name])
	}
	return &Generator{fs: fs, definitions: ordered}
}

// Generate writes every schema into outDir and returns the written paths.
func (g *Generator) Generate(ctx context.Context, outDir string) ([]string, error) {
	log := logger.FromContext(ctx)
	if err := g.fs.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	paths := make([]string, len(g.definitions))
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, definition := range g.definitions {
		group.Go(func() error {
			data, err := definition.Build()
			if err != nil {
				return fmt.Errorf("failed to build schema for %s: %w", definition.Name, err)
			}
			path := filepath.Join(outDir, definition.FileName())
			if err := afero.WriteFile(g.fs, path, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("failed to write schema to %s: %w", path, err)
			}
			log.Info("Generated schema", "file", path)
			paths[i] = path
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
