// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// BareName is the config file name that is tried as YAML, then as HCL
const BareName = ".librewrite"

// LoadConfig loads a configuration file from the given path.
// The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .librewrite will try both YAML and HCL formats
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var cfg *Config

	switch {
	case ext == BareName || filepath.Base(path) == BareName:
		cfg, err = loadBare(data, path)
	case ext == ".json":
		cfg, err = loadJSON(data)
	case ext == ".yaml", ext == ".yml":
		cfg, err = loadYAML(data)
	case ext == ".hcl":
		cfg, err = loadHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	cfg.location = path
	if err := Validate(ctx, cfg); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadJSON loads a configuration from JSON data
func loadJSON(data []byte) (*Config, error) {
	cfg := Default()
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return cfg, nil
}

// loadYAML loads a configuration from YAML data
func loadYAML(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	// an empty document leaves the defaults
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return cfg, nil
}

// loadBare loads a bare-name config, trying YAML first and then HCL
func loadBare(data []byte, filename string) (*Config, error) {
	cfg, yerr := loadYAML(data)
	if yerr == nil {
		return cfg, nil
	}

	cfg, herr := loadHCL(data, filename)
	if herr == nil {
		return cfg, nil
	}

	return nil, errors.Errorf("parsing %s as YAML (%v) or HCL: %w", filename, yerr, herr)
}

// hclConfig is the HCL schema of Config
type hclConfig struct {
	Script     string   `hcl:"script,optional"`
	Root       string   `hcl:"root,optional"`
	Extensions []string `hcl:"extensions,optional"`
	Patterns   []string `hcl:"patterns,optional"`
	Ignore     []string `hcl:"ignore,optional"`
	KeepBackup *bool    `hcl:"keep_backup,optional"`
	Verbose    bool     `hcl:"verbose,optional"`
	DryRun     bool     `hcl:"dry_run,optional"`
	Workers    int      `hcl:"workers,optional"`
}

// loadHCL loads a configuration from HCL data. Environment variables are
// available as env.NAME.
func loadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, ctx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := Default()
	cfg.Script = raw.Script
	if raw.Root != "" {
		cfg.Root = raw.Root
	}
	cfg.Extensions = raw.Extensions
	cfg.Patterns = raw.Patterns
	cfg.Ignore = raw.Ignore
	if raw.KeepBackup != nil {
		cfg.KeepBackup = raw.KeepBackup
	}
	cfg.Verbose = raw.Verbose
	cfg.DryRun = raw.DryRun
	if raw.Workers != 0 {
		cfg.Workers = raw.Workers
	}

	return cfg, nil
}

func envObject() cty.Value {
	vals := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || !hclsyntax.ValidIdentifier(k) {
			continue
		}
		vals[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vals)
}
