// Package router compiles bracket route patterns such as "/posts/[id]/live".
package router

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var dynamicSegmentNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

type pathSegment struct {
	name    string
	isParam bool
}

// Pattern is a compiled route such as "/posts/[id]/live".
type Pattern struct {
	raw      string
	segments []pathSegment
}

func Compile(raw string) (Pattern, error) {
	parts := splitPathSegments(raw)
	segments := make([]pathSegment, 0, len(parts))
	seen := make(map[string]struct{}, 2)

	for _, part := range parts {
		name, isParam, err := parseWildcardSegment(part)
		if err != nil {
			return Pattern{}, fmt.Errorf("route %q: %w", raw, err)
		}

		if isParam {
			if _, dup := seen[name]; dup {
				return Pattern{}, fmt.Errorf("route %q: duplicate param %q", raw, name)
			}
			seen[name] = struct{}{}
			segments = append(segments, pathSegment{name: name, isParam: true})
			continue
		}

		segments = append(segments, pathSegment{name: part})
	}

	return Pattern{raw: raw, segments: segments}, nil
}

func MustCompile(raw string) Pattern {
	pattern, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return pattern
}

// Match returns the unescaped path params when requestPath fits the pattern.
func (p Pattern) Match(requestPath string) (map[string]string, bool) {
	requestSegments := splitPathSegments(requestPath)
	if len(p.segments) != len(requestSegments) {
		return nil, false
	}

	params := make(map[string]string, 2)
	for idx, segment := range p.segments {
		requestValue := requestSegments[idx]
		if !segment.isParam {
			if segment.name != requestValue {
				return nil, false
			}
			continue
		}

		unescaped, err := url.PathUnescape(requestValue)
		if err != nil || strings.TrimSpace(unescaped) == "" {
			return nil, false
		}
		params[segment.name] = unescaped
	}

	return params, true
}

// Build fills the pattern's params, escaping each value as a path segment.
func (p Pattern) Build(params map[string]string) (string, error) {
	parts := make([]string, 0, len(p.segments))
	for _, segment := range p.segments {
		if !segment.isParam {
			parts = append(parts, segment.name)
			continue
		}

		value, ok := params[segment.name]
		if !ok || strings.TrimSpace(value) == "" {
			return "", fmt.Errorf("route %q: missing param %q", p.raw, segment.name)
		}
		parts = append(parts, url.PathEscape(value))
	}

	return "/" + strings.Join(parts, "/"), nil
}

func parseWildcardSegment(segment string) (string, bool, error) {
	if strings.HasPrefix(segment, "[") || strings.HasSuffix(segment, "]") {
		if !strings.HasPrefix(segment, "[") || !strings.HasSuffix(segment, "]") {
			return "", false, fmt.Errorf("invalid wildcard segment %q", segment)
		}

		name := strings.TrimSpace(segment[1 : len(segment)-1])
		if !dynamicSegmentNamePattern.MatchString(name) {
			return "", false, fmt.Errorf("invalid wildcard name %q", name)
		}

		return name, true, nil
	}

	if strings.ContainsAny(segment, "[]") {
		return "", false, fmt.Errorf("invalid static segment %q", segment)
	}

	return "", false, nil
}

func splitPathSegments(raw string) []string {
	cleaned := path.Clean("/" + strings.TrimSpace(raw))
	if cleaned == "/" {
		return []string{}
	}

	trimmed := strings.Trim(cleaned, "/")
	if trimmed == "" {
		return []string{}
	}

	return strings.Split(trimmed, "/")
}
