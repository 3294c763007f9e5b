// This file holds the declarative form schema. Each form model tags its
// columns with `form:"<kind>[,option...]"`; Parse turns those tags into a
// Schema that the generic upsert consults for its allow-list, input coercion,
// conflict target, and response shape.
//
// Kinds:
//   - id:      identity column, emitted in responses, never written from input
//   - text:    free text; NULL renders as "" (or the default= option)
//   - date:    dates and times kept as caller-formatted text; "" stores NULL
//   - numeric: float; numeric strings are parsed, "" stores NULL
//   - flag:    checklist boolean; accepts true/false, yes/no, on/off, 1/0
//   - media:   signatures, drawings and images (data URLs); NULL renders as null
//
// Options:
//   - owner:    the claim scoping column (claim_id)
//   - conflict: the unique column targeted by the native upsert
//   - default=: response value for a NULL text column

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"gorm.io/gorm/schema"
)

// Kind classifies a form column.
type Kind string

const (
	KindID      Kind = "id"
	KindText    Kind = "text"
	KindDate    Kind = "date"
	KindNumeric Kind = "numeric"
	KindFlag    Kind = "flag"
	KindMedia   Kind = "media"
)

// Field is one declared column of a form.
type Field struct {
	Name    string // JSON name used in requests and responses
	Column  string // database column
	Kind    Kind
	Default any // response value when the column is NULL

	index []int
}

// Writable reports whether callers may supply a value for the field.
func (f Field) Writable() bool { return f.Kind != KindID }

// Schema describes one form model.
type Schema struct {
	Table    string
	Owner    string // claim scoping column
	Conflict string // unique column used as the upsert conflict target
	Fields   []Field

	typ    reflect.Type
	lookup map[string]int
}

// ValidationError reports a field whose value cannot be stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

var parseCache sync.Map

// Parse builds a Schema from a pointer to a form model.
func Parse(model any) (*Schema, error) {
	gs, err := schema.Parse(model, &parseCache, schema.NamingStrategy{})
	if err != nil {
		return nil, err
	}
	s := &Schema{
		Table:  gs.Table,
		typ:    gs.ModelType,
		lookup: make(map[string]int),
	}
	for _, gf := range gs.Fields {
		tag, ok := gf.Tag.Lookup("form")
		if !ok || gf.DBName == "" {
			continue
		}
		opts := strings.Split(tag, ",")
		f := Field{
			Name:   jsonName(gf.Tag, gf.DBName),
			Column: gf.DBName,
			Kind:   Kind(strings.TrimSpace(opts[0])),
			index:  gf.StructField.Index,
		}
		switch f.Kind {
		case KindText, KindDate:
			f.Default = ""
		case KindID, KindNumeric, KindFlag, KindMedia:
		default:
			return nil, fmt.Errorf("%s.%s: unknown form kind %q", gs.Name, gf.Name, f.Kind)
		}
		for _, o := range opts[1:] {
			switch o = strings.TrimSpace(o); {
			case o == "owner":
				s.Owner = f.Column
			case o == "conflict":
				s.Conflict = f.Column
			case strings.HasPrefix(o, "default="):
				f.Default = strings.TrimPrefix(o, "default=")
			}
		}
		s.lookup[f.Name] = len(s.Fields)
		s.lookup[f.Column] = len(s.Fields)
		s.Fields = append(s.Fields, f)
	}
	if s.Owner == "" || s.Conflict == "" {
		return nil, fmt.Errorf("%s: form schema needs owner and conflict columns", gs.Name)
	}
	return s, nil
}

// MustParse is like Parse but panics on error.
func MustParse(model any) *Schema {
	s, err := Parse(model)
	if err != nil {
		panic(err)
	}
	return s
}

func jsonName(tag reflect.StructTag, fallback string) string {
	name, _, _ := strings.Cut(tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fallback
	}
	return name
}

// Multi reports whether a claim may own several rows of this form.
func (s *Schema) Multi() bool { return s.Owner != s.Conflict }

// New returns a pointer to a zero model value.
func (s *Schema) New() any { return reflect.New(s.typ).Interface() }

// NewSlice returns a pointer to an empty slice of models.
func (s *Schema) NewSlice() any {
	return reflect.New(reflect.SliceOf(s.typ)).Interface()
}

// Field looks a field up by JSON name or column.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.lookup[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Normalize intersects input with the writable fields and coerces every
// supplied value. The result maps column to value; nil means NULL. Keys that
// are not declared are dropped. When both the JSON name and the column name
// of a field are present the JSON name wins.
func (s *Schema) Normalize(input map[string]any) (map[string]any, error) {
	out := make(map[string]any)
	for _, f := range s.Fields {
		if !f.Writable() {
			continue
		}
		raw, ok := input[f.Name]
		if !ok {
			if raw, ok = input[f.Column]; !ok {
				continue
			}
		}
		v, err := coerce(f, raw)
		if err != nil {
			return nil, err
		}
		out[f.Column] = v
	}
	return out, nil
}

func coerce(f Field, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch f.Kind {
	case KindText:
		switch v := raw.(type) {
		case string:
			return v, nil
		case json.Number:
			return v.String(), nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(v), nil
		}
		return nil, &ValidationError{Field: f.Name, Reason: "must be a string"}

	case KindDate, KindMedia:
		v, ok := raw.(string)
		if !ok {
			return nil, &ValidationError{Field: f.Name, Reason: "must be a string"}
		}
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		if f.Kind == KindDate {
			return strings.TrimSpace(v), nil
		}
		return v, nil

	case KindNumeric:
		var (
			n   float64
			err error
		)
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case json.Number:
			n, err = v.Float64()
		case string:
			t := strings.TrimSpace(v)
			if t == "" {
				return nil, nil
			}
			n, err = strconv.ParseFloat(t, 64)
		default:
			err = fmt.Errorf("unsupported type %T", raw)
		}
		if err != nil {
			return nil, &ValidationError{Field: f.Name, Reason: "must be a number"}
		}
		return n, nil

	case KindFlag:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "":
				return nil, nil
			case "1", "true", "yes", "y", "on":
				return true, nil
			case "0", "false", "no", "n", "off":
				return false, nil
			}
		case json.Number:
			switch v.String() {
			case "1":
				return true, nil
			case "0":
				return false, nil
			}
		case float64:
			switch v {
			case 1:
				return true, nil
			case 0:
				return false, nil
			}
		}
		return nil, &ValidationError{Field: f.Name, Reason: "must be a boolean"}
	}
	return nil, &ValidationError{Field: f.Name, Reason: "is read-only"}
}

// Shape renders a model (value or pointer) as an ordered payload holding
// every declared field in declaration order.
func (s *Schema) Shape(record any) Payload {
	rv := reflect.Indirect(reflect.ValueOf(record))
	out := make(Payload, 0, len(s.Fields))
	for _, f := range s.Fields {
		fv := rv.FieldByIndex(f.index)
		var v any
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				v = f.Default
			} else {
				v = fv.Elem().Interface()
			}
		} else {
			v = fv.Interface()
		}
		out = append(out, Entry{Key: f.Name, Value: v})
	}
	return out
}

// ShapeAll renders a slice of models (or a pointer to one).
func (s *Schema) ShapeAll(records any) []Payload {
	rv := reflect.Indirect(reflect.ValueOf(records))
	out := make([]Payload, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, s.Shape(rv.Index(i).Addr().Interface()))
	}
	return out
}

// Entry is one key/value pair of a Payload.
type Entry struct {
	Key   string
	Value any
}

// Payload is a JSON object that keeps its keys in insertion order.
type Payload []Entry

// Get returns the value stored under key.
func (p Payload) Get(key string) (any, bool) {
	for _, e := range p {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
