package domain

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vars holds the values substituted into script templates.
type Vars map[string]string

// VarResolver expands {{name}} placeholders in user script templates.
// Built-ins ({{$timestamp}}, {{$date}}, {{$uuid}}) take precedence over Vars.
type VarResolver struct {
	now     func() time.Time
	newUUID func() (string, error)
}

type VarResolverOption func(*VarResolver)

func WithNow(now func() time.Time) VarResolverOption {
	return func(r *VarResolver) { r.now = now }
}

func WithUUID(gen func() (string, error)) VarResolverOption {
	return func(r *VarResolver) { r.newUUID = gen }
}

func NewVarResolver(opts ...VarResolverOption) *VarResolver {
	r := &VarResolver{now: time.Now, newUUID: randomUUID}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RuntimeResolver is bound to one script: {{$uuid}} in the preamble and the
// postamble expand to the same value.
type RuntimeResolver struct {
	vars     Vars
	builtins Vars
}

func (r *VarResolver) NewRuntime(vars Vars) (*RuntimeResolver, error) {
	id, err := r.newUUID()
	if err != nil {
		return nil, &OpError{Op: "vars.builtins.uuid", Kind: KindExecution, Err: err}
	}
	now := r.now()
	return &RuntimeResolver{
		vars: maps.Clone(vars),
		builtins: Vars{
			"$timestamp": strconv.FormatInt(now.Unix(), 10),
			"$date":      now.UTC().Format(time.DateOnly),
			"$uuid":      id,
		},
	}, nil
}

func (rr *RuntimeResolver) lookup(name string) (string, bool) {
	if v, ok := rr.builtins[name]; ok {
		return v, true
	}
	v, ok := rr.vars[name]
	return v, ok
}

func (rr *RuntimeResolver) ResolveString(s string) (string, error) {
	before, rest, found := strings.Cut(s, "{{")
	if !found {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for found {
		b.WriteString(before)

		raw, after, closed := strings.Cut(rest, "}}")
		if !closed {
			return "", resolveErr(KindInvalidConfig, errors.New("unclosed placeholder"))
		}
		name := strings.TrimSpace(raw)
		if name == "" {
			return "", resolveErr(KindInvalidConfig, errors.New("empty placeholder"))
		}
		val, ok := rr.lookup(name)
		if !ok {
			return "", resolveErr(KindMissingVar, fmt.Errorf("missing variable: %s", name))
		}
		b.WriteString(val)

		before, rest, found = strings.Cut(after, "{{")
	}
	b.WriteString(before)
	return b.String(), nil
}

func (rr *RuntimeResolver) ResolveTemplate(t ScriptTemplate) (ScriptTemplate, error) {
	var out ScriptTemplate
	for _, part := range []struct {
		field string
		in    string
		dst   *string
	}{
		{"template.preamble", t.Preamble, &out.Preamble},
		{"template.postamble", t.Postamble, &out.Postamble},
	} {
		v, err := rr.ResolveString(part.in)
		if err != nil {
			return ScriptTemplate{}, resolveErr(kindOf(err), fmt.Errorf("%s: %w", part.field, err))
		}
		*part.dst = v
	}
	return out, nil
}

func resolveErr(kind ErrorKind, err error) error {
	return &OpError{Op: "vars.resolve", Kind: kind, Err: err}
}

func kindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindExecution
}

func randomUUID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
