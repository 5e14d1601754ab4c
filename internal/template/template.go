// Package template implements the ${path|fn|fn:arg} placeholder grammar and
// resolver, grounded on original_source/src/render_helper.rs: a regex-based
// scan rather than a hand-rolled recursive-descent parser, matching the
// teacher-adjacent style of using regexp for small fixed grammars.
package template

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/konflab/konf/internal/functions"
	"github.com/konflab/konf/internal/value"
)

// escapeSentinel implements the doubled-$ escape decided in the Open Questions: "$${"
// collapses to a literal "${" by protecting it before the placeholder
// regexes run, then restoring a single "$".
const escapeSentinel = "\x00KONF_DOLLAR\x00"

var (
	exactMatchRe    = regexp.MustCompile(`^\$\{(?P<content>[^}]+)\}$`)
	interpolationRe = regexp.MustCompile(`\$\{(?P<content>[^}]+)\}`)
	placeholderRe   = regexp.MustCompile(`^(?P<path>[\w./]+)(?P<funcs>\s*\|.+)?$`)
	functionCallRe  = regexp.MustCompile(`(?P<name>\w+)(?::(?:"(?P<str>[^"]*)"|(?P<num>-?\d+(?:\.\d+)?)|(?P<bool>true|false)))?`)
)

// TemplateRef is one placeholder occurrence found in raw text, for
// diagnostics and editor tooling (the renderer itself does not call
// FindRefs), grounded on original_source/src/render_helper.rs's
// find_template_refs.
type TemplateRef struct {
	Path     string
	Line     int
	ColStart int
	ColEnd   int
}

// FindRefs scans content line by line for ${...} placeholders.
func FindRefs(content string) []TemplateRef {
	var refs []TemplateRef
	for lineIdx, line := range strings.Split(content, "\n") {
		matches := interpolationRe.FindAllStringSubmatchIndex(line, -1)
		for _, m := range matches {
			start, end := m[0], m[1]
			contentStart, contentEnd := m[2], m[3]
			refs = append(refs, TemplateRef{
				Path:     line[contentStart:contentEnd],
				Line:     lineIdx,
				ColStart: start,
				ColEnd:   end,
			})
		}
	}
	return refs
}

type parsedCall struct {
	name string
	arg  *functions.Arg
}

func parseFunctionChain(chain string) []parsedCall {
	if calls, ok := globalChainCache.get(chain); ok {
		return calls
	}
	calls := parseFunctionChainUncached(chain)
	globalChainCache.put(chain, calls)
	return calls
}

func parseFunctionChainUncached(chain string) []parsedCall {
	var calls []parsedCall
	for _, part := range strings.Split(chain, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		loc := functionCallRe.FindStringSubmatchIndex(part)
		if loc == nil {
			continue
		}
		group := func(name string) (string, bool) {
			i := functionCallRe.SubexpIndex(name)
			if i < 0 || loc[2*i] < 0 {
				return "", false
			}
			return part[loc[2*i]:loc[2*i+1]], true
		}
		name, _ := group("name")
		var arg *functions.Arg
		if s, ok := group("str"); ok {
			a := functions.StringArg(s)
			arg = &a
		} else if numStr, ok := group("num"); ok {
			if strings.Contains(numStr, ".") {
				f, _ := strconv.ParseFloat(numStr, 64)
				a := functions.FloatArg(f)
				arg = &a
			} else {
				i, _ := strconv.ParseInt(numStr, 10, 64)
				a := functions.IntArg(i)
				arg = &a
			}
		} else if b, ok := group("bool"); ok {
			a := functions.BooleanArg(b == "true")
			arg = &a
		}
		calls = append(calls, parsedCall{name: name, arg: arg})
	}
	return calls
}

func applyFunctionChain(reg *functions.Registry, v value.Value, calls []parsedCall) (value.Value, error) {
	for _, c := range calls {
		var args []functions.Arg
		if c.arg != nil {
			args = append(args, *c.arg)
		}
		var err error
		v, err = reg.Execute(c.name, v, args)
		if err != nil {
			return value.Value{}, err
		}
	}
	return v, nil
}

// lookup walks a dotted path against deps: the first segment selects the
// aliased dependency document, remaining segments are mapping lookups.
func lookup(path string, deps map[string]value.Value) (value.Value, bool) {
	segs := strings.Split(path, ".")
	cur, ok := deps[segs[0]]
	if !ok {
		return value.Value{}, false
	}
	for _, seg := range segs[1:] {
		cur, ok = cur.Get(seg)
		if !ok {
			return value.Value{}, false
		}
	}
	return cur, true
}

// resolveExpr resolves one placeholder's inner content (path plus optional
// function chain) against deps. Returns ok=false on lookup miss (leave
// placeholder unchanged, no error); returns a function error on pipeline
// failure (also leaves the placeholder unchanged, logged as a warning).
func resolveExpr(reg *functions.Registry, expr string, deps map[string]value.Value, log *zap.Logger) (value.Value, bool) {
	m := placeholderRe.FindStringSubmatch(expr)
	if m == nil {
		return value.Value{}, false
	}
	idx := placeholderRe.SubexpIndex
	path := m[idx("path")]
	funcsStr := m[idx("funcs")]

	v, ok := lookup(path, deps)
	if !ok {
		return value.Value{}, false
	}

	funcsStr = strings.TrimSpace(funcsStr)
	if funcsStr == "" {
		return v, true
	}
	calls := parseFunctionChain(strings.TrimPrefix(funcsStr, "|"))
	result, err := applyFunctionChain(reg, v, calls)
	if err != nil {
		if log != nil {
			log.Warn("function error in placeholder", zap.String("expr", expr), zap.Error(err))
		}
		return value.Value{}, false
	}
	return result, true
}

// Resolver walks a raw Value tree and substitutes ${...} placeholders
// against deps, using the process-wide function registry.
type Resolver struct {
	reg *functions.Registry
	log *zap.Logger
}

// NewResolver builds a Resolver. A nil log disables warning emission.
func NewResolver(reg *functions.Registry, log *zap.Logger) *Resolver {
	if reg == nil {
		reg = functions.Global()
	}
	return &Resolver{reg: reg, log: log}
}

// Resolve mutates v in place (strings replaced, sequences/mappings
// recursed into; mapping keys are never rewritten), per spec.md §4.4's
// depth-first traversal.
func (r *Resolver) Resolve(v *value.Value, deps map[string]value.Value) {
	switch v.Kind {
	case value.KindString:
		s, _ := v.AsString()
		*v = r.resolveString(s, deps)
	case value.KindSequence:
		seq, _ := v.AsSequence()
		for i := range seq {
			r.Resolve(&seq[i], deps)
		}
		*v = value.NewSequence(seq)
	case value.KindMapping:
		m, _ := v.AsMapping()
		for k, item := range m {
			r.Resolve(&item, deps)
			m[k] = item
		}
		*v = value.NewMapping(m)
	}
}

func (r *Resolver) resolveString(s string, deps map[string]value.Value) value.Value {
	protected := protectEscapes(s)

	if m := exactMatchRe.FindStringSubmatch(protected); m != nil {
		idx := exactMatchRe.SubexpIndex
		content := m[idx("content")]
		if result, ok := resolveExpr(r.reg, content, deps, r.log); ok {
			return result
		}
		return value.String(s)
	}

	replaced := interpolationRe.ReplaceAllStringFunc(protected, func(match string) string {
		sub := interpolationRe.FindStringSubmatch(match)
		content := sub[interpolationRe.SubexpIndex("content")]
		result, ok := resolveExpr(r.reg, content, deps, r.log)
		if !ok {
			return match
		}
		str, ok := result.ToDisplayString()
		if !ok {
			return match
		}
		return str
	})

	return value.String(restoreEscapes(replaced))
}

// protectEscapes replaces every "$${" with a sentinel so the placeholder
// regexes never see it as an opening brace.
func protectEscapes(s string) string {
	return strings.ReplaceAll(s, "$${", escapeSentinel)
}

func restoreEscapes(s string) string {
	return strings.ReplaceAll(s, escapeSentinel, "${")
}
