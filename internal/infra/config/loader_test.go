package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/varontron/mutation-mapper/internal/domain"
)

func TestParse_AppliesOnTopOfDefaults(t *testing.T) {
	path := filepath.Join("testdata", "mutmapper.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	cfg, err := Parse(path, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Defaults.Viewer != domain.ViewerJmol {
		t.Fatalf("expected viewer jmol, got %q", cfg.Defaults.Viewer)
	}
	if cfg.Defaults.MutationsFile != "cohort.maf" || cfg.Defaults.StructuresFile != "mappings.yaml" {
		t.Fatalf("unexpected defaults: %+v", cfg.Defaults)
	}
	if cfg.Paths.ScriptsDir != "out" || cfg.Paths.MutationsDir != "mutations" {
		t.Fatalf("unexpected paths: %+v", cfg.Paths)
	}

	d := cfg.Display
	if d.BackgroundColor != "#000000" || d.HighlightColor != "#ff00ff" || d.DefaultColor != "#DDDDDD" {
		t.Fatalf("unexpected colors: %+v", d)
	}
	if d.ColorFor(domain.ClassTruncating) != "#FF0000" || d.ColorFor(domain.ClassMissense) != "#008000" {
		t.Fatalf("unexpected class colors: %+v", d.MutationTypeColors)
	}
	if d.Style != domain.StyleBallAndStick || d.ProteinColoring != domain.ProteinBySecondaryStructure {
		t.Fatalf("unexpected style: %+v", d)
	}
	if d.SideChains != domain.SideChainsAll || !d.RestrictProtein || d.ChainTransparency != 3 {
		t.Fatalf("unexpected display options: %+v", d)
	}

	tmpl := cfg.Templates[domain.ViewerPyMOL]
	if tmpl.Preamble != "set ray_opaque_background, 0" {
		t.Fatalf("unexpected template: %+v", tmpl)
	}
	if _, ok := cfg.Templates[domain.ViewerJmol]; ok {
		t.Fatalf("expected no jmol template")
	}

	if cfg.Remote.PyMOLURL != "http://127.0.0.1:9999/RPC2" || cfg.Remote.Timeout != 3*time.Second {
		t.Fatalf("unexpected remote: %+v", cfg.Remote)
	}
	if cfg.JSONImport.Fields[domain.JSONGene] != "$.geneSymbol" {
		t.Fatalf("expected gene path override")
	}
	if cfg.JSONImport.Fields[domain.JSONSampleID] != "$.sampleId" {
		t.Fatalf("expected default sample path")
	}
}

func TestParse_InvalidColorHasFieldAndPath(t *testing.T) {
	path := filepath.Join("testdata", "mutmapper_invalid.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	_, err = Parse(path, b)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
	if !strings.Contains(err.Error(), "display.helix_color") {
		t.Fatalf("expected field in error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestMapConfig_Validation(t *testing.T) {
	tooHigh := 11
	cases := []struct {
		name  string
		dto   YAMLMutMapper
		field string
	}{
		{"viewer", YAMLMutMapper{Defaults: YAMLDefaults{Viewer: "chimera"}}, "defaults.viewer"},
		{"style", YAMLMutMapper{Display: YAMLDisplay{Style: "sticks"}}, "display.style"},
		{"coloring", YAMLMutMapper{Display: YAMLDisplay{ProteinColoring: "rainbow"}}, "display.protein_coloring"},
		{"mutation coloring", YAMLMutMapper{Display: YAMLDisplay{MutationColoring: "heat"}}, "display.mutation_coloring"},
		{"side chains", YAMLMutMapper{Display: YAMLDisplay{SideChains: "some"}}, "display.side_chains"},
		{"transparency", YAMLMutMapper{Display: YAMLDisplay{DefaultTransparency: &tooHigh}}, "display.default_transparency"},
		{"class", YAMLMutMapper{Display: YAMLDisplay{MutationTypeColors: map[string]string{"silent": "#FFFFFF"}}}, "display.mutation_type_colors.silent"},
		{"template", YAMLMutMapper{Templates: map[string]YAMLTemplate{"rasmol": {}}}, "templates.rasmol"},
		{"url", YAMLMutMapper{Remote: YAMLRemote{PyMOLURL: "localhost"}}, "remote.pymol_url"},
		{"timeout", YAMLMutMapper{Remote: YAMLRemote{Timeout: "soon"}}, "remote.timeout"},
		{"json field", YAMLMutMapper{JSONImport: YAMLJSONImport{Fields: map[string]string{"score": "$.s"}}}, "json_import.fields.score"},
	}
	for _, tc := range cases {
		_, err := MapConfig("mutmapper.yaml", YAMLConfig{MutMapper: tc.dto})
		if !domain.IsKind(err, domain.KindInvalidConfig) {
			t.Fatalf("%s: expected invalid_config, got %v", tc.name, err)
		}
		if !strings.Contains(err.Error(), tc.field) {
			t.Fatalf("%s: expected %q in error, got %v", tc.name, tc.field, err)
		}
	}
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if cfg.Defaults.Viewer != domain.ViewerPyMOL {
		t.Fatalf("expected defaults on error")
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Paths.ScriptsDir != "scripts" {
		t.Fatalf("expected default scripts dir, got %q", cfg.Paths.ScriptsDir)
	}
}
