package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/varontron/mutation-mapper/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// userMessage turns an error into a short status line.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {

		case domain.KindNotFound:
			switch {
			case strings.Contains(oe.Op, "workspacefinder"):
				return "Workspace not found"
			case strings.Contains(oe.Op, "mutations"):
				return "Mutation file not found"
			case strings.Contains(oe.Op, "yamlstructure"):
				return "Structure file not found"
			case strings.Contains(oe.Op, "generate_script"):
				return firstClause(oe.Err)
			}
			return "Not found"

		case domain.KindMissingVar:
			v := extractMissingVarName(err.Error())
			if v == "" {
				return "Missing variable"
			}
			return "Missing variable " + v

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}

			if line := extractLine(err.Error()); line != "" {
				return "Invalid file " + base + " at line " + line
			}
			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			return "Invalid config in " + base

		case domain.KindInvalidArgument, domain.KindUnsupported:
			return firstClause(oe.Err)

		default:
			return "Unexpected error (see logs)"
		}
	}

	if looksLikeYAMLProblem(err.Error()) {
		if line := extractLine(err.Error()); line != "" {
			return "Invalid YAML line " + line
		}
		return "Invalid YAML"
	}
	return "Unexpected error (see logs)"
}

// firstClause keeps the message up to the wrapped sentinel.
func firstClause(err error) string {
	if err == nil {
		return "Unexpected error (see logs)"
	}
	s := err.Error()
	if i := strings.LastIndex(s, ": "); i > 0 {
		s = s[:i]
	}
	if s == "" {
		return "Unexpected error (see logs)"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

func extractMissingVarName(s string) string {
	ls := strings.ToLower(s)

	i := strings.LastIndex(ls, "missing variable:")
	if i < 0 {
		return ""
	}
	fields := strings.Fields(s[i+len("missing variable:"):])
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], " .,:;\"'")
}
