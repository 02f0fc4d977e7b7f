package domain

import "time"

// Config represents the workspace configuration loaded from mutmapper.yaml.
type Config struct {
	Defaults   DefaultsConfig
	Paths      PathsConfig
	Display    DisplayOptions
	Templates  map[Viewer]ScriptTemplate
	Remote     RemoteConfig
	JSONImport JSONImportConfig
}

type DefaultsConfig struct {
	Viewer         Viewer
	MutationsFile  string
	StructuresFile string
}

type PathsConfig struct {
	MutationsDir  string
	StructuresDir string
	ScriptsDir    string
}

// ScriptTemplate holds user commands added around every generated script.
// Both may contain {{var}} placeholders.
type ScriptTemplate struct {
	Preamble  string
	Postamble string
}

type RemoteConfig struct {
	PyMOLURL string
	Timeout  time.Duration
}

// JSONImportConfig holds the JSONPath expressions used to read mutation
// records from JSON. Fields are keyed by JSONField.
type JSONImportConfig struct {
	Records string
	Fields  map[JSONField]string
}

// JSONField names a Mutation attribute readable from JSON.
type JSONField string

const (
	JSONGene            JSONField = "gene"
	JSONSampleID        JSONField = "sample_id"
	JSONProteinChange   JSONField = "protein_change"
	JSONMutationType    JSONField = "mutation_type"
	JSONChromosome      JSONField = "chromosome"
	JSONStartPos        JSONField = "start_position"
	JSONEndPos          JSONField = "end_position"
	JSONReferenceAllele JSONField = "reference_allele"
	JSONVariantAllele   JSONField = "variant_allele"
	JSONProteinStart    JSONField = "protein_start"
	JSONProteinEnd      JSONField = "protein_end"
)

// DefaultJSONImport matches the mutation JSON served by the portal API.
func DefaultJSONImport() JSONImportConfig {
	return JSONImportConfig{
		Records: "$[*]",
		Fields: map[JSONField]string{
			JSONGene:            "$.gene.hugoGeneSymbol",
			JSONSampleID:        "$.sampleId",
			JSONProteinChange:   "$.proteinChange",
			JSONMutationType:    "$.mutationType",
			JSONChromosome:      "$.chr",
			JSONStartPos:        "$.startPosition",
			JSONEndPos:          "$.endPosition",
			JSONReferenceAllele: "$.referenceAllele",
			JSONVariantAllele:   "$.variantAllele",
			JSONProteinStart:    "$.proteinPosStart",
			JSONProteinEnd:      "$.proteinPosEnd",
		},
	}
}

// DefaultConfig provides sane defaults if mutmapper.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Defaults: DefaultsConfig{
			Viewer:         ViewerPyMOL,
			MutationsFile:  "demo.txt",
			StructuresFile: "mappings.yaml",
		},
		Paths: PathsConfig{
			MutationsDir:  "mutations",
			StructuresDir: "structures",
			ScriptsDir:    "scripts",
		},
		Display:   DefaultDisplayOptions(),
		Templates: map[Viewer]ScriptTemplate{},
		Remote: RemoteConfig{
			PyMOLURL: "http://localhost:9123/RPC2",
			Timeout:  10 * time.Second,
		},
		JSONImport: DefaultJSONImport(),
	}
}

// WorkspaceSpec describes where a workspace is created.
type WorkspaceSpec struct {
	Root string
}
