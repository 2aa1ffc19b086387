// Package params models the parameter tuple that keys a simulation
// condition and its encoding in result directory names.
package params

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Set identifies a single simulation condition. Run is the repetition
// index within the condition; it is not part of the condition key.
type Set struct {
	Translate   int     `json:"translate"`   // institution-to-citizen translation factor
	Tactic      string  `json:"tactic"`      // media content strategy (broadcast, appeal-mean, ...)
	MediaDist   string  `json:"media"`       // media belief distribution
	CitizenDist string  `json:"citizen"`     // initial citizen belief distribution
	Epsilon     float64 `json:"epsilon"`     // receptivity threshold
	GraphType   string  `json:"graph"`       // ws, er, ba, complete
	GraphParam  float64 `json:"graph_param"` // graph-type specific parameter
	Run         int     `json:"run"`         // repetition index
}

// FieldNames lists the queryable condition fields in canonical order.
var FieldNames = []string{"translate", "tactic", "media", "citizen", "epsilon", "graph", "graph_param"}

// Key returns the canonical condition key: the encoded directory name,
// which excludes the repetition index. Two trials share a Key exactly
// when they are repetitions of the same condition.
func (s Set) Key() string {
	return s.Encode()
}

// Encode renders the condition as a result directory name:
//
//	translate-1,tactic-broadcast,media-uniform,citizen-normal,epsilon-1,graph-ws-0.5
func (s Set) Encode() string {
	fields := []string{
		"translate-" + strconv.Itoa(s.Translate),
		"tactic-" + s.Tactic,
		"media-" + s.MediaDist,
		"citizen-" + s.CitizenDist,
		"epsilon-" + formatFloat(s.Epsilon),
		"graph-" + s.GraphType + "-" + formatFloat(s.GraphParam),
	}
	return strings.Join(fields, ",")
}

// Field returns the string rendering of a named condition field.
// Used by table queries that group or filter on a single column.
func (s Set) Field(name string) (string, error) {
	switch name {
	case "translate":
		return strconv.Itoa(s.Translate), nil
	case "tactic":
		return s.Tactic, nil
	case "media":
		return s.MediaDist, nil
	case "citizen":
		return s.CitizenDist, nil
	case "epsilon":
		return formatFloat(s.Epsilon), nil
	case "graph":
		return s.GraphType, nil
	case "graph_param":
		return formatFloat(s.GraphParam), nil
	default:
		return "", fmt.Errorf("unknown parameter field %q", name)
	}
}

// Canonical re-encodes a directory name as the canonical condition
// key. Directory names with non-canonical float renderings, such as
// "epsilon-1.0" for "epsilon-1", parse to the same Set and therefore
// normalize to the same key.
func Canonical(name string) (string, error) {
	s, err := Parse(name)
	if err != nil {
		return "", err
	}
	return s.Key(), nil
}

// Parse decodes a result directory name into a Set. The repetition
// index is left at zero; callers set it from the trial file name.
func Parse(name string) (Set, error) {
	var s Set
	seen := make(map[string]bool)
	for _, field := range strings.Split(name, ",") {
		key, value, ok := strings.Cut(field, "-")
		if !ok {
			return Set{}, fmt.Errorf("malformed field %q in %q", field, name)
		}
		if seen[key] {
			return Set{}, fmt.Errorf("duplicate field %q in %q", key, name)
		}
		seen[key] = true

		var err error
		switch key {
		case "translate":
			s.Translate, err = strconv.Atoi(value)
		case "tactic":
			s.Tactic = value
		case "media":
			s.MediaDist = value
		case "citizen":
			s.CitizenDist = value
		case "epsilon":
			s.Epsilon, err = strconv.ParseFloat(value, 64)
		case "graph":
			s.GraphType, s.GraphParam, err = parseGraph(value)
		default:
			return Set{}, fmt.Errorf("unknown field %q in %q", key, name)
		}
		if err != nil {
			return Set{}, fmt.Errorf("parsing field %q of %q: %w", key, name, err)
		}
	}

	var missing []string
	for _, key := range []string{"translate", "tactic", "media", "citizen", "epsilon", "graph"} {
		if !seen[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Set{}, fmt.Errorf("directory name %q missing fields: %s", name, strings.Join(missing, ", "))
	}
	return s, nil
}

// parseGraph splits the graph field value "<type>-<param>", e.g. "ws-0.5".
func parseGraph(value string) (string, float64, error) {
	// Graph types never contain '-', so the last dash separates the param.
	i := strings.LastIndex(value, "-")
	if i < 0 {
		return "", 0, fmt.Errorf("graph field %q missing parameter", value)
	}
	param, err := strconv.ParseFloat(value[i+1:], 64)
	if err != nil {
		return "", 0, err
	}
	return value[:i], param, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
