// Package resource describes the back-office entities managed through the
// generic list + modal form screens. A Schema tells the HTTP layer which
// upstream endpoint backs the entity, which form fields it has and how those
// fields are validated before any upstream call is made.
package resource

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Kind is the input type of a form field.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindEmail    Kind = "email"
	KindTel      Kind = "tel"
	KindNumber   Kind = "number"
	KindYear     Kind = "year"
	KindImage    Kind = "image"
	KindSelect   Kind = "select"
)

// Field is one input of a resource form. Name is the upstream field name.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	MaxLen   int
	// OptionsFrom names the schema whose records populate a select field.
	OptionsFrom string
	// ListColumn controls whether the field is shown in the admin table.
	ListColumn bool
}

// Mode distinguishes create from update submissions.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

// Schema describes one managed resource.
type Schema struct {
	Name  string
	Title string
	// Endpoint is the upstream path segment: <endpoint>/register, <endpoint>/update/:id, <endpoint>/destroy/:id.
	Endpoint string
	// ListPath overrides <endpoint>/list for resources with irregular list routes.
	ListPath string
	// PublicBase routes the resource through the API's /public prefix.
	PublicBase bool
	Fields     []Field
	Paginated  bool
	Searchable bool
	Multipart  bool
	DateRange  bool
	ReadOnly   bool
}

// ListEndpoint returns the upstream list path.
func (s Schema) ListEndpoint() string {
	if s.ListPath != "" {
		return s.ListPath
	}
	return s.Endpoint + "/list"
}

// Field returns the field named name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Columns returns the fields shown in the admin table.
func (s Schema) Columns() []Field {
	out := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.ListColumn {
			out = append(out, f)
		}
	}
	return out
}

// ImageField returns the schema's image field, if any.
func (s Schema) ImageField() (Field, bool) {
	for _, f := range s.Fields {
		if f.Kind == KindImage {
			return f, true
		}
	}
	return Field{}, false
}

//nolint:gochecknoglobals // validator instances cache struct metadata and are safe for concurrent use.
var fieldValidator = validator.New(validator.WithRequiredStructEnabled())

// kindTags maps input kinds to validator tags applied to non-empty values.
//
//nolint:gochecknoglobals // static read-only lookup.
var kindTags = map[Kind]string{
	KindEmail:  "email",
	KindTel:    "numeric,min=7,max=15",
	KindNumber: "numeric",
	KindYear:   "numeric,len=4",
}

//nolint:gochecknoglobals // static read-only lookup.
var kindMessages = map[Kind]string{
	KindEmail:  "Enter a valid email address.",
	KindTel:    "Enter a valid phone number.",
	KindNumber: "%s must be a number.",
	KindYear:   "%s must be a four digit year.",
}

// Validate checks a submitted form. files reports which image fields carry an
// upload. Image fields are only required on create; an update keeps the
// stored image when no file is sent. The returned map is keyed by field name
// and is empty when the form is valid.
func (s Schema) Validate(form url.Values, files map[string]bool, mode Mode) map[string]string {
	errs := map[string]string{}
	for _, f := range s.Fields {
		if f.Kind == KindImage {
			if f.Required && mode == ModeCreate && !files[f.Name] {
				errs[f.Name] = f.Label + " is required."
			}
			continue
		}

		v := strings.TrimSpace(form.Get(f.Name))
		if v == "" {
			if f.Required {
				errs[f.Name] = f.Label + " is required."
			}
			continue
		}
		if f.MaxLen > 0 && utf8.RuneCountInString(v) > f.MaxLen {
			errs[f.Name] = fmt.Sprintf("%s cannot exceed %d characters.", f.Label, f.MaxLen)
			continue
		}
		if tag, ok := kindTags[f.Kind]; ok {
			if err := fieldValidator.Var(v, tag); err != nil {
				msg := kindMessages[f.Kind]
				if strings.Contains(msg, "%s") {
					msg = fmt.Sprintf(msg, f.Label)
				}
				errs[f.Name] = msg
			}
		}
	}
	return errs
}

// Values extracts the trimmed non-image field values from form in schema order.
func (s Schema) Values(form url.Values) map[string]string {
	out := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		if f.Kind == KindImage {
			continue
		}
		out[f.Name] = strings.TrimSpace(form.Get(f.Name))
	}
	return out
}
