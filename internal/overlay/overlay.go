// Package overlay holds user edits layered over the fetched comments and
// persists them as a single JSON blob in a key/value store.
package overlay

import (
	"errors"
	"fmt"

	"github.com/fragmede/commentdesk/internal/api"
)

// Field names a comment field.
type Field string

const (
	FieldName   Field = "name"
	FieldBody   Field = "body"
	FieldEmail  Field = "email"
	FieldPostID Field = "postId"
)

var (
	ErrNotEditable  = errors.New("field is not editable")
	ErrUnknownField = errors.New("unknown field")
)

// Editable reports whether f may be overridden.
func (f Field) Editable() bool {
	return f == FieldName || f == FieldBody
}

func (f Field) check() error {
	if f.Editable() {
		return nil
	}
	switch f {
	case FieldEmail, FieldPostID:
		return fmt.Errorf("%s: %w", f, ErrNotEditable)
	default:
		return fmt.Errorf("%q: %w", string(f), ErrUnknownField)
	}
}

// Fields is the partial override for one comment. A nil pointer means the
// baseline value shows through; an empty string is a real override.
type Fields struct {
	Name *string `json:"name,omitempty"`
	Body *string `json:"body,omitempty"`
}

func (f Fields) get(field Field) (string, bool) {
	var p *string
	switch field {
	case FieldName:
		p = f.Name
	case FieldBody:
		p = f.Body
	}
	if p == nil {
		return "", false
	}
	return *p, true
}

func (f Fields) with(field Field, value string) Fields {
	v := value
	switch field {
	case FieldName:
		f.Name = &v
	case FieldBody:
		f.Body = &v
	}
	return f
}

// Overlay maps comment ids to their overrides. Treat it as immutable: With
// returns a modified copy.
type Overlay map[int]Fields

// Value returns the override for id's field, if any.
func (o Overlay) Value(id int, field Field) (string, bool) {
	f, ok := o[id]
	if !ok {
		return "", false
	}
	return f.get(field)
}

// Has reports whether id has any override.
func (o Overlay) Has(id int) bool {
	f, ok := o[id]
	return ok && (f.Name != nil || f.Body != nil)
}

// Clone returns a copy that shares no entries with o.
func (o Overlay) Clone() Overlay {
	dup := make(Overlay, len(o))
	for id, f := range o {
		dup[id] = f
	}
	return dup
}

// With returns a copy of o where id's field is set to value.
func (o Overlay) With(id int, field Field, value string) Overlay {
	dup := o.Clone()
	dup[id] = dup[id].with(field, value)
	return dup
}

// Apply merges the override for c.ID on top of c. Fields without an
// override keep their baseline values.
func (o Overlay) Apply(c api.Comment) api.Comment {
	f, ok := o[c.ID]
	if !ok {
		return c
	}
	if f.Name != nil {
		c.Name = *f.Name
	}
	if f.Body != nil {
		c.Body = *f.Body
	}
	return c
}

// Effective returns the value field currently displays for c: the override
// if present, else the baseline value.
func (o Overlay) Effective(c api.Comment, field Field) string {
	if v, ok := o.Value(c.ID, field); ok {
		return v
	}
	switch field {
	case FieldName:
		return c.Name
	case FieldBody:
		return c.Body
	case FieldEmail:
		return c.Email
	}
	return ""
}
