package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/varontron/mutation-mapper/internal/domain"
)

// MapConfig applies dto on top of the defaults and validates every value.
func MapConfig(path string, dto YAMLConfig) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	y := dto.MutMapper

	if v := strings.TrimSpace(y.Defaults.Viewer); v != "" {
		viewer, err := domain.ParseViewer(v)
		if err != nil {
			return cfg, invalidField(path, "defaults.viewer", err)
		}
		cfg.Defaults.Viewer = viewer
	}
	setString(&cfg.Defaults.MutationsFile, y.Defaults.MutationsFile)
	setString(&cfg.Defaults.StructuresFile, y.Defaults.StructuresFile)

	setString(&cfg.Paths.MutationsDir, y.Paths.MutationsDir)
	setString(&cfg.Paths.StructuresDir, y.Paths.StructuresDir)
	setString(&cfg.Paths.ScriptsDir, y.Paths.ScriptsDir)

	if err := mapDisplay(path, y.Display, &cfg.Display); err != nil {
		return cfg, err
	}

	for name, t := range y.Templates {
		viewer, err := domain.ParseViewer(name)
		if err != nil {
			return cfg, invalidField(path, "templates."+name, err)
		}
		cfg.Templates[viewer] = domain.ScriptTemplate{Preamble: t.Preamble, Postamble: t.Postamble}
	}

	if u := strings.TrimSpace(y.Remote.PyMOLURL); u != "" {
		parsed, err := url.Parse(u)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return cfg, invalidField(path, "remote.pymol_url", fmt.Errorf("invalid url %q", u))
		}
		cfg.Remote.PyMOLURL = u
	}
	if t := strings.TrimSpace(y.Remote.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil || d <= 0 {
			return cfg, invalidField(path, "remote.timeout", fmt.Errorf("invalid duration %q", t))
		}
		cfg.Remote.Timeout = d
	}

	setString(&cfg.JSONImport.Records, y.JSONImport.Records)
	for name, expr := range y.JSONImport.Fields {
		f, ok := jsonField(name)
		if !ok {
			return cfg, invalidField(path, "json_import.fields."+name, fmt.Errorf("unknown field"))
		}
		if strings.TrimSpace(expr) == "" {
			return cfg, invalidField(path, "json_import.fields."+name, fmt.Errorf("expression is required"))
		}
		cfg.JSONImport.Fields[f] = strings.TrimSpace(expr)
	}

	return cfg, nil
}

func mapDisplay(path string, y YAMLDisplay, d *domain.DisplayOptions) error {
	colors := []struct {
		field string
		in    string
		out   *domain.Color
	}{
		{"display.background_color", y.BackgroundColor, &d.BackgroundColor},
		{"display.default_color", y.DefaultColor, &d.DefaultColor},
		{"display.chain_color", y.ChainColor, &d.ChainColor},
		{"display.helix_color", y.HelixColor, &d.HelixColor},
		{"display.sheet_color", y.SheetColor, &d.SheetColor},
		{"display.mutation_color", y.MutationColor, &d.MutationColor},
		{"display.highlight_color", y.HighlightColor, &d.HighlightColor},
	}
	for _, c := range colors {
		if strings.TrimSpace(c.in) == "" {
			continue
		}
		col, err := domain.ParseColor(c.in)
		if err != nil {
			return invalidField(path, c.field, err)
		}
		*c.out = col
	}

	for name, in := range y.MutationTypeColors {
		cl, ok := mutationClass(name)
		if !ok {
			return invalidField(path, "display.mutation_type_colors."+name, fmt.Errorf("unknown mutation class"))
		}
		col, err := domain.ParseColor(in)
		if err != nil {
			return invalidField(path, "display.mutation_type_colors."+name, err)
		}
		d.MutationTypeColors[cl] = col
	}

	if s := strings.TrimSpace(y.Style); s != "" {
		st, err := domain.ParseRenderStyle(s)
		if err != nil {
			return invalidField(path, "display.style", err)
		}
		d.Style = st
	}
	if s := strings.TrimSpace(y.ProteinColoring); s != "" {
		v, err := domain.ParseProteinColoring(s)
		if err != nil {
			return invalidField(path, "display.protein_coloring", err)
		}
		d.ProteinColoring = v
	}
	if s := strings.TrimSpace(y.MutationColoring); s != "" {
		v, err := domain.ParseMutationColoring(s)
		if err != nil {
			return invalidField(path, "display.mutation_coloring", err)
		}
		d.MutationColoring = v
	}
	if s := strings.TrimSpace(y.SideChains); s != "" {
		v, err := domain.ParseSideChainMode(s)
		if err != nil {
			return invalidField(path, "display.side_chains", err)
		}
		d.SideChains = v
	}

	if y.RestrictProtein != nil {
		d.RestrictProtein = *y.RestrictProtein
	}
	if y.DefaultTransparency != nil {
		if err := domain.ValidateTransparency("config.map", *y.DefaultTransparency); err != nil {
			return invalidField(path, "display.default_transparency", err)
		}
		d.DefaultTransparency = *y.DefaultTransparency
	}
	if y.ChainTransparency != nil {
		if err := domain.ValidateTransparency("config.map", *y.ChainTransparency); err != nil {
			return invalidField(path, "display.chain_transparency", err)
		}
		d.ChainTransparency = *y.ChainTransparency
	}
	return nil
}

func mutationClass(name string) (domain.MutationClass, bool) {
	for _, c := range domain.MutationClasses() {
		if strings.EqualFold(name, string(c)) {
			return c, true
		}
	}
	return "", false
}

func jsonField(name string) (domain.JSONField, bool) {
	for f := range domain.DefaultJSONImport().Fields {
		if strings.EqualFold(name, string(f)) {
			return f, true
		}
	}
	return "", false
}

func setString(dst *string, v string) {
	if s := strings.TrimSpace(v); s != "" {
		*dst = s
	}
}

func invalidField(path, field string, err error) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %v: %w", field, err, domain.ErrInvalidConfig),
	}
}
