package router

import (
	"fmt"
	"strings"

	"github.com/vango-dev/viewroute/pkg/routepath"
)

// segment is one compiled pattern segment.
type segment struct {
	// literal is the exact text for static segments.
	literal string

	// isParam indicates a named capture (:id).
	isParam bool

	// paramName is the capture name (without the leading ':').
	paramName string

	// paramType is the capture constraint ("string", "int", "uint", "uuid").
	paramType string
}

// pattern is a compiled route path.
type pattern struct {
	raw      string
	segments []segment
}

// compilePattern parses a route path.
// Input: "/update/:id" or "/update/:id:int".
func compilePattern(raw string) (*pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, raw)
	}

	path := raw
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	p := &pattern{raw: raw}
	seen := make(map[string]bool)
	for _, seg := range routepath.Segments(path) {
		if seg == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrInvalidPattern, raw)
		}
		if !strings.HasPrefix(seg, ":") {
			p.segments = append(p.segments, segment{literal: seg})
			continue
		}

		name, paramType := parseParamSegment(seg)
		if name == "" {
			return nil, fmt.Errorf("%w: %q has an unnamed capture", ErrInvalidPattern, raw)
		}
		if !knownParamType(paramType) {
			return nil, fmt.Errorf("%w: %q: unknown param type %q", ErrInvalidPattern, raw, paramType)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q captures %q twice", ErrInvalidPattern, raw, name)
		}
		seen[name] = true
		p.segments = append(p.segments, segment{isParam: true, paramName: name, paramType: paramType})
	}
	return p, nil
}

// match compares path segments against the pattern.
// Captured values are percent-decoded; a capture that fails to decode or
// violates its type makes the pattern not match.
func (p *pattern) match(segs []string) (map[string]string, bool) {
	if len(segs) != len(p.segments) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range p.segments {
		value := segs[i]
		if !seg.isParam {
			if value != seg.literal {
				return nil, false
			}
			continue
		}
		if value == "" {
			return nil, false
		}
		decoded, err := routepath.DecodeSegment(value)
		if err != nil {
			return nil, false
		}
		if ValidateParam(decoded, seg.paramType) != nil {
			return nil, false
		}
		params[seg.paramName] = decoded
	}
	return params, true
}

// params returns the capture names in order.
func (p *pattern) params() []string {
	var names []string
	for _, seg := range p.segments {
		if seg.isParam {
			names = append(names, seg.paramName)
		}
	}
	return names
}

// parseParamSegment extracts name and type from a parameter segment.
// Input: ":id" or ":id:int" -> name="id", type="string" or "int"
func parseParamSegment(seg string) (name, paramType string) {
	seg = seg[1:]
	if idx := strings.Index(seg, ":"); idx != -1 {
		return seg[:idx], seg[idx+1:]
	}
	return seg, "string"
}
