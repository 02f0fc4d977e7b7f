package domain

import "strings"

// Viewer identifies the external 3D application a script is written for.
type Viewer string

const (
	ViewerJmol  Viewer = "jmol"
	ViewerPyMOL Viewer = "pymol"
)

// Viewers lists the supported viewers.
func Viewers() []Viewer {
	return []Viewer{ViewerJmol, ViewerPyMOL}
}

// ParseViewer matches s case-insensitively against the supported viewers.
func ParseViewer(s string) (Viewer, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	for _, v := range Viewers() {
		if in == string(v) {
			return v, nil
		}
	}
	return "", Unsupported("domain.viewer", "viewer %q (expected jmol|pymol)", s)
}

// ScriptExt returns the conventional script file extension for the viewer.
func (v Viewer) ScriptExt() string {
	switch v {
	case ViewerJmol:
		return ".spt"
	case ViewerPyMOL:
		return ".pml"
	default:
		return ".txt"
	}
}
