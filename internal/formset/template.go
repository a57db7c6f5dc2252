package formset

import (
	"strconv"
	"strings"
)

// Placeholder stands for the form index in template field names.
const Placeholder = "__prefix__"

// Template describes the fields of one empty form.
type Template struct {
	prefix string
	fields []string
}

// NewTemplate returns a template for forms under prefix with the given
// field names.
func NewTemplate(prefix string, fields ...string) Template {
	return Template{prefix: prefix, fields: append([]string(nil), fields...)}
}

// Prefix returns the formset prefix.
func (t Template) Prefix() string {
	return t.prefix
}

// Fields returns the field names of one form.
func (t Template) Fields() []string {
	return append([]string(nil), t.fields...)
}

// Name returns the placeholder-bearing name of field, e.g.
// "participants-__prefix__-first_name".
func (t Template) Name(field string) string {
	return t.prefix + "-" + Placeholder + "-" + field
}

// Instantiate returns the concrete name of every field for form index i.
func (t Template) Instantiate(i int) map[string]string {
	idx := strconv.Itoa(i)
	names := make(map[string]string, len(t.fields)+2)
	for _, f := range append(t.Fields(), IDField, DeleteField) {
		names[f] = strings.ReplaceAll(t.Name(f), Placeholder, idx)
	}
	return names
}

// managementName returns the name of a management form field.
func (t Template) managementName(field string) string {
	return t.prefix + "-" + field
}
