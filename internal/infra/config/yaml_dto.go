package config

// YAMLConfig mirrors mutmapper.yaml. Pointer fields distinguish "unset"
// from zero values.
type YAMLConfig struct {
	MutMapper YAMLMutMapper `yaml:"mutmapper"`
}

type YAMLMutMapper struct {
	Defaults   YAMLDefaults            `yaml:"defaults"`
	Paths      YAMLPaths               `yaml:"paths"`
	Display    YAMLDisplay             `yaml:"display"`
	Templates  map[string]YAMLTemplate `yaml:"templates"`
	Remote     YAMLRemote              `yaml:"remote"`
	JSONImport YAMLJSONImport          `yaml:"json_import"`
}

type YAMLDefaults struct {
	Viewer         string `yaml:"viewer"`
	MutationsFile  string `yaml:"mutations_file"`
	StructuresFile string `yaml:"structures_file"`
}

type YAMLPaths struct {
	MutationsDir  string `yaml:"mutations_dir"`
	StructuresDir string `yaml:"structures_dir"`
	ScriptsDir    string `yaml:"scripts_dir"`
}

type YAMLDisplay struct {
	BackgroundColor string `yaml:"background_color"`
	DefaultColor    string `yaml:"default_color"`
	ChainColor      string `yaml:"chain_color"`
	HelixColor      string `yaml:"helix_color"`
	SheetColor      string `yaml:"sheet_color"`
	MutationColor   string `yaml:"mutation_color"`
	HighlightColor  string `yaml:"highlight_color"`

	MutationTypeColors map[string]string `yaml:"mutation_type_colors"`

	Style            string `yaml:"style"`
	ProteinColoring  string `yaml:"protein_coloring"`
	MutationColoring string `yaml:"mutation_coloring"`
	SideChains       string `yaml:"side_chains"`

	RestrictProtein     *bool `yaml:"restrict_protein"`
	DefaultTransparency *int  `yaml:"default_transparency"`
	ChainTransparency   *int  `yaml:"chain_transparency"`
}

type YAMLTemplate struct {
	Preamble  string `yaml:"preamble"`
	Postamble string `yaml:"postamble"`
}

type YAMLRemote struct {
	PyMOLURL string `yaml:"pymol_url"`
	Timeout  string `yaml:"timeout"`
}

type YAMLJSONImport struct {
	Records string            `yaml:"records"`
	Fields  map[string]string `yaml:"fields"`
}
