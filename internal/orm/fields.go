// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

package orm

import (
	"sort"

	"goerp/cli/internal/errors"
)

// FieldKind tags the local behavior of a schema field.
type FieldKind int

const (
	// KindText covers textual server types (char, text, html, selection, binary).
	KindText FieldKind = iota
	// KindInteger covers integer server types.
	KindInteger
	// KindFloat covers float and monetary server types.
	KindFloat
	// KindBoolean covers boolean server types.
	KindBoolean
	// KindDate covers date and datetime server types. Values stay in the
	// server's string representation.
	KindDate
	// KindReferenceSingle is a belongs-to-one relation. Reads carry an
	// (id, label) pair; writes send the id only.
	KindReferenceSingle
	// KindReferenceMany is an id-collection relation. Read-only unless the
	// schema explicitly marks it writable.
	KindReferenceMany
	// KindComputed is a server-computed field. Read-only unless the schema
	// explicitly marks it writable.
	KindComputed
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindReferenceSingle:
		return "reference-single"
	case KindReferenceMany:
		return "reference-many"
	case KindComputed:
		return "computed"
	}
	return "unknown"
}

// Field is the local descriptor for one remote schema field.
type Field struct {
	Name     string
	Kind     FieldKind
	Label    string
	ReadOnly bool
	// Relation is the target entity name for reference fields, when the
	// server declares one.
	Relation string
}

// Reference is the decoded value of a reference-single field: the related
// record's id plus the display label the server sent along with it.
type Reference struct {
	ID    int64
	Label string
}

// kindByType maps the server's declared type strings to local kinds.
var kindByType = map[string]FieldKind{
	"char":      KindText,
	"text":      KindText,
	"html":      KindText,
	"selection": KindText,
	"binary":    KindText,
	"integer":   KindInteger,
	"float":     KindFloat,
	"monetary":  KindFloat,
	"boolean":   KindBoolean,
	"date":      KindDate,
	"datetime":  KindDate,
	"many2one":  KindReferenceSingle,
	"one2many":  KindReferenceMany,
	"many2many": KindReferenceMany,
	"function":  KindComputed,
	"related":   KindComputed,
}

// reservedFields are structural names of the wire protocol; they never
// become descriptors.
var reservedFields = map[string]struct{}{
	"id":         {},
	"__client__": {},
	"__model__":  {},
	"__data__":   {},
}

// generateField translates one remote field definition into a descriptor.
// Unrecognized type strings fail instead of defaulting: a misclassified
// field would corrupt write payloads.
func generateField(name string, def map[string]any) (Field, error) {
	typ, _ := def["type"].(string)
	kind, ok := kindByType[typ]
	if !ok {
		return Field{}, errors.Newf(errors.Schema, "field %q has unrecognized type %q", name, typ)
	}
	f := Field{Name: name, Kind: kind, Label: name}
	if label, ok := def["string"].(string); ok && label != "" {
		f.Label = label
	}
	if rel, ok := def["relation"].(string); ok {
		f.Relation = rel
	}
	switch ro := def["readonly"].(type) {
	case bool:
		f.ReadOnly = ro
	case float64:
		// Older servers report readonly as 0/1.
		f.ReadOnly = ro != 0
	default:
		// Read-only by convention for relation collections and computed
		// fields, writable otherwise.
		f.ReadOnly = kind == KindReferenceMany || kind == KindComputed
	}
	return f, nil
}

// Schema is the introspected field set of one entity. Immutable after
// construction; a pool refresh replaces the whole schema rather than
// mutating it.
type Schema struct {
	entity string
	fields map[string]Field
	names  []string
}

// buildSchema turns a raw fields_get payload into a Schema, skipping
// reserved names and injecting the synthetic name field when absent.
func buildSchema(entity string, defs map[string]any) (*Schema, error) {
	fields := make(map[string]Field, len(defs))
	for name, rawDef := range defs {
		if _, reserved := reservedFields[name]; reserved {
			continue
		}
		def, ok := rawDef.(map[string]any)
		if !ok {
			return nil, errors.Newf(errors.Schema, "field %q on %q has a malformed definition", name, entity)
		}
		f, err := generateField(name, def)
		if err != nil {
			return nil, err
		}
		fields[name] = f
	}
	// Servers may omit a name column; synthesize a read-only one so the
	// display-name resolution call has somewhere to land.
	if _, ok := fields["name"]; !ok {
		fields["name"] = Field{Name: "name", Kind: KindText, Label: "Name", ReadOnly: true}
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Schema{entity: entity, fields: fields, names: names}, nil
}

// Entity returns the entity name the schema was introspected from.
func (s *Schema) Entity() string { return s.entity }

// Field returns the descriptor for name.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Names returns all field names in sorted order.
func (s *Schema) Names() []string { return s.names }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }
