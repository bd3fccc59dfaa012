package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"ebench-backend/pkg/apperrors"
	"ebench-backend/pkg/constants"
)

// Document is the typed, whitelisted result of normalization. Header and
// Lines are keyed by internal column names; a key present with a nil value
// clears the column, an absent key leaves it untouched on update.
type Document struct {
	ExternalID string
	Version    string
	// Status is the raw external label the client supplied, if any.
	Status string
	Header map[string]any
	Lines  []map[string]any
}

// Normalize whitelists and coerces a raw client payload. It never persists
// anything: either the whole payload converts, or a ValidationError
// enumerating every offending field comes back.
func Normalize(s *DocSchema, payload map[string]any, mode constants.SaveMode) (*Document, error) {
	doc := &Document{Header: make(map[string]any)}
	problems := make(map[string]string)

	doc.ExternalID = stringValue(payload[s.IDKey])
	doc.Version = stringValue(payload[s.VerKey])
	// The composite key is always recomputed by the allocator; a client
	// supplied value is dropped so id/version and composite cannot diverge.
	if raw, ok := payload[s.StatusKey]; ok {
		doc.Status = stringValue(raw)
	}

	for _, f := range s.Fields {
		raw, ok := payload[f.External]
		if !ok {
			continue
		}
		v, err := coerce(f.Kind, raw)
		if err != nil {
			problems[f.External] = err.Error()
			continue
		}
		doc.Header[f.Column] = v
	}

	if mode == constants.ModeSubmit {
		for _, ext := range s.Required {
			col := s.columnFor(ext)
			v, ok := doc.Header[col]
			if !ok || v == nil || strings.TrimSpace(stringValue(v)) == "" {
				problems[ext] = "is required"
			}
		}
	}

	if rawLines, ok := payload[s.LineField]; ok && rawLines != nil {
		lines, lineProblems := normalizeLines(s, rawLines)
		doc.Lines = lines
		for k, v := range lineProblems {
			problems[k] = v
		}
	}

	if len(problems) > 0 {
		return nil, apperrors.NewValidationError(problems)
	}
	return doc, nil
}

// normalizeLines validates each line item as an independently whitelisted
// sub-record, drops rows whose identifying fields are all blank, and assigns
// sequential line numbers to the survivors.
func normalizeLines(s *DocSchema, raw any) ([]map[string]any, map[string]string) {
	problems := make(map[string]string)

	items, ok := raw.([]any)
	if !ok {
		problems[s.LineField] = "must be an array"
		return nil, problems
	}

	lines := make([]map[string]any, 0, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			problems[fmt.Sprintf("%s[%d]", s.LineField, i)] = "must be an object"
			continue
		}

		line := make(map[string]any, len(s.LineFields))
		hasIdentity := false
		for _, f := range s.LineFields {
			rawVal, present := rec[f.External]
			if !present {
				line[f.Column] = nil
				continue
			}
			v, err := coerce(f.Kind, rawVal)
			if err != nil {
				problems[fmt.Sprintf("%s[%d].%s", s.LineField, i, f.External)] = err.Error()
				continue
			}
			line[f.Column] = v
			if f.Identifying && v != nil && strings.TrimSpace(stringValue(v)) != "" {
				hasIdentity = true
			}
		}
		// Empty-row tolerance for sparse UI forms.
		if !hasIdentity {
			continue
		}
		lines = append(lines, line)
	}

	for i, line := range lines {
		line["line_no"] = i + 1
	}
	return lines, problems
}

func (s *DocSchema) columnFor(external string) string {
	for _, f := range s.Fields {
		if f.External == external {
			return f.Column
		}
	}
	return external
}

// coerce converts one raw JSON value to its declared kind. nil and empty
// strings normalize to nil (the "clear" marker); anything unconvertible is a
// field-scoped error, never a silent default.
func coerce(kind Kind, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string")
		}
		if s == "" {
			return nil, nil
		}
		return s, nil

	case KindLooseString:
		switch v := raw.(type) {
		case string:
			if v == "" {
				return nil, nil
			}
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case int:
			return strconv.Itoa(v), nil
		default:
			return nil, fmt.Errorf("must be a string or a number")
		}

	case KindInt:
		switch v := raw.(type) {
		case float64:
			// Out-of-range conversions are implementation-defined, reject
			// anything int64 cannot hold.
			if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
				return nil, fmt.Errorf("must be an integer")
			}
			return int64(v), nil
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, nil
			}
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("must be an integer")
			}
			return n, nil
		default:
			return nil, fmt.Errorf("must be an integer")
		}

	case KindFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, nil
			}
			n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("must be a number")
			}
			return n, nil
		default:
			return nil, fmt.Errorf("must be a number")
		}

	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("must be a boolean")
		}
		return b, nil

	case KindDate:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be a date string")
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("must be a date in yyyy-mm-dd form")

	default:
		return nil, fmt.Errorf("unsupported field kind")
	}
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
