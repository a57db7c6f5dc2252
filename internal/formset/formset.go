// Package formset keeps a variable-length list of participant forms in the
// shape of a server-side formset: a total-count management field and
// per-form fields named <prefix>-<index>-<field>.
//
// Indices are never reused. Rows that were saved before are removed by
// checking their DELETE flag; rows that were never saved are dropped. The
// total-count therefore only grows, and gaps in the index sequence are
// expected by whoever consumes the encoded form.
package formset

import (
	"errors"
	"strings"
)

// Field names with a fixed meaning in every form.
const (
	IDField     = "id"
	DeleteField = "DELETE"

	TotalForms   = "TOTAL_FORMS"
	InitialForms = "INITIAL_FORMS"
	MinNumForms  = "MIN_NUM_FORMS"
	MaxNumForms  = "MAX_NUM_FORMS"
)

// ErrUnknownRow is returned when a row does not belong to the formset.
var ErrUnknownRow = errors.New("formset: unknown row")

// Row is one form of the formset.
type Row struct {
	Index  int
	Number int
	ID     int64
	Delete bool
	Hidden bool

	values    map[string]string
	names     map[string]string
	deleteBox bool
}

// Name returns the full field name of field in this row.
func (r *Row) Name(field string) string {
	return r.names[field]
}

// Get returns the value of field.
func (r *Row) Get(field string) string {
	return r.values[field]
}

// Set stores the value of field.
func (r *Row) Set(field, value string) {
	r.values[field] = value
}

// HasDeleteBox reports whether the row carries a DELETE checkbox, which
// is the case for rows that already exist in the store.
func (r *Row) HasDeleteBox() bool {
	return r.deleteBox
}

// Empty reports whether every field value is blank.
func (r *Row) Empty() bool {
	for _, v := range r.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Initial is a saved form loaded into a formset.
type Initial struct {
	ID     int64
	Values map[string]string
	Delete bool
}

// Formset is the client-side state of a formset.
type Formset struct {
	tmpl    Template
	total   int
	initial int
	rows    []*Row
}

// New builds a formset from saved forms followed by extra blank forms.
// Saved forms arriving with DELETE already checked are hidden before the
// first numbering.
func New(tmpl Template, initial []Initial, extra int) *Formset {
	f := &Formset{tmpl: tmpl}
	for _, in := range initial {
		r := f.newRow(true)
		r.ID = in.ID
		r.Delete = in.Delete
		for k, v := range in.Values {
			r.values[k] = v
		}
	}
	f.initial = len(initial)
	for range extra {
		f.newRow(false)
	}
	f.hideDeleted()
	f.Renumber()
	return f
}

func (f *Formset) newRow(saved bool) *Row {
	idx := f.total
	r := &Row{
		Index:     idx,
		values:    make(map[string]string, len(f.tmpl.fields)),
		names:     f.tmpl.Instantiate(idx),
		deleteBox: saved,
	}
	for _, field := range f.tmpl.fields {
		r.values[field] = ""
	}
	f.rows = append(f.rows, r)
	f.total++
	return r
}

func (f *Formset) hideDeleted() {
	for _, r := range f.rows {
		if r.deleteBox && r.Delete {
			r.Hidden = true
		}
	}
}

// Template returns the template the formset instantiates forms from.
func (f *Formset) Template() Template {
	return f.tmpl
}

// TotalForms returns the number of form slots ever added.
func (f *Formset) TotalForms() int {
	return f.total
}

// InitialForms returns the number of saved forms the formset started with.
func (f *Formset) InitialForms() int {
	return f.initial
}

// Rows returns every row still in the formset, hidden ones included, in
// document order.
func (f *Formset) Rows() []*Row {
	return f.rows
}

// Visible returns the rows that are not hidden.
func (f *Formset) Visible() []*Row {
	var out []*Row
	for _, r := range f.rows {
		if !r.Hidden {
			out = append(out, r)
		}
	}
	return out
}

// Add appends a blank form at the next index.
func (f *Formset) Add() *Row {
	r := f.newRow(false)
	f.Renumber()
	return r
}

// Remove deletes row: saved rows are flagged and hidden, unsaved rows are
// dropped from the formset.
func (f *Formset) Remove(row *Row) error {
	pos := -1
	for i, r := range f.rows {
		if r == row {
			pos = i
			break
		}
	}
	if pos < 0 {
		return ErrUnknownRow
	}
	if row.deleteBox {
		row.Delete = true
		row.Hidden = true
	} else {
		f.rows = append(f.rows[:pos], f.rows[pos+1:]...)
	}
	f.Renumber()
	return nil
}

// Renumber assigns 1-based display numbers to visible rows in document
// order. Hidden rows get 0.
func (f *Formset) Renumber() {
	n := 0
	for _, r := range f.rows {
		if r.Hidden {
			r.Number = 0
			continue
		}
		n++
		r.Number = n
	}
}

// Changes groups the rows by what the store has to do with them.
type Changes struct {
	Inserts []*Row
	Updates []*Row
	Deletes []*Row
}

// Changes classifies rows for saving. Blank unsaved rows are skipped.
func (f *Formset) Changes() Changes {
	var c Changes
	for _, r := range f.rows {
		switch {
		case r.deleteBox && r.Delete:
			c.Deletes = append(c.Deletes, r)
		case r.deleteBox:
			c.Updates = append(c.Updates, r)
		case !r.Empty():
			c.Inserts = append(c.Inserts, r)
		}
	}
	return c
}
