// Package config loads the mesh compiler's caller-tunable defaults from a
// YAML document, backing the scene.Graph.Defaults() role with a concrete,
// file-loadable source.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/LHTXQ/mujoco-deepmind/scene"
)

// Compiler holds the model-level and default-geom-class caller-tunable
// fields the mesh compiler consults: file directories, density, exact
// mesh inertia, and AABB fitting.
type Compiler struct {
	ModelFileDir     string `yaml:"model_file_dir"`
	MeshDir          string `yaml:"mesh_dir"`
	Density          float64 `yaml:"density"`
	ExactMeshInertia bool    `yaml:"exact_mesh_inertia"`
	FitAABB          bool    `yaml:"fit_aabb"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the compiler's built-in defaults, matching
// scene.DefaultDefaults.
func Default() *Compiler {
	return &Compiler{
		Density:          1000,
		ExactMeshInertia: false,
		FitAABB:          false,
		LogLevel:         "info",
	}
}

// Load reads path as YAML over Default()'s values, so file values take
// precedence over defaults; an empty path or a missing file is not an
// error and yields Default() unchanged.
func Load(path string) (*Compiler, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// SceneDefaults adapts c to the scene.Defaults shape the mesh compiler
// actually consumes.
func (c *Compiler) SceneDefaults() scene.Defaults {
	return scene.Defaults{
		ModelFileDir:     c.ModelFileDir,
		MeshDir:          c.MeshDir,
		Density:          c.Density,
		ExactMeshInertia: c.ExactMeshInertia,
		FitAABB:          c.FitAABB,
	}
}
