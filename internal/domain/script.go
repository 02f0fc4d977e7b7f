package domain

import (
	"strings"
	"time"
)

// Script is an ordered list of viewer commands.
type Script struct {
	Viewer   Viewer
	Gene     string
	PDBID    string
	Chain    string
	Commands []string
}

// String joins the commands one per line, newline terminated.
func (s Script) String() string {
	if len(s.Commands) == 0 {
		return ""
	}
	return strings.Join(s.Commands, "\n") + "\n"
}

// Lines splits the script into single commands, dropping blank lines.
// Multi-line commands (PyMOL transparency) become separate lines.
func (s Script) Lines() []string {
	var out []string
	for _, c := range s.Commands {
		for _, l := range strings.Split(c, "\n") {
			if strings.TrimSpace(l) != "" {
				out = append(out, l)
			}
		}
	}
	return out
}

// ScriptArtifact is a script persisted for later replay in a viewer.
type ScriptArtifact struct {
	Script    Script
	Source    string
	Mapped    int
	Unmapped  int
	CreatedAt time.Time
}
