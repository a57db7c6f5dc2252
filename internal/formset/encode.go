package formset

import (
	"fmt"
	"net/url"
	"strconv"
)

// MaxForms bounds TOTAL_FORMS when decoding.
const MaxForms = 1000

// Encode returns the submitted form data of the formset: the management
// fields followed by every row's fields. Hard-removed rows leave gaps.
func (f *Formset) Encode() url.Values {
	v := url.Values{}
	v.Set(f.tmpl.managementName(TotalForms), strconv.Itoa(f.total))
	v.Set(f.tmpl.managementName(InitialForms), strconv.Itoa(f.initial))
	v.Set(f.tmpl.managementName(MinNumForms), "0")
	v.Set(f.tmpl.managementName(MaxNumForms), strconv.Itoa(MaxForms))
	for _, r := range f.rows {
		for _, field := range f.tmpl.fields {
			v.Set(r.Name(field), r.values[field])
		}
		if r.deleteBox {
			v.Set(r.Name(IDField), strconv.FormatInt(r.ID, 10))
			if r.Delete {
				v.Set(r.Name(DeleteField), "on")
			}
		}
	}
	return v
}

// Decode rebuilds a formset from submitted form data. Indices below
// INITIAL_FORMS are saved forms; indices with no submitted fields are
// skipped.
func Decode(tmpl Template, v url.Values) (*Formset, error) {
	total, err := strconv.Atoi(v.Get(tmpl.managementName(TotalForms)))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", TotalForms, err)
	}
	if total < 0 || total > MaxForms {
		return nil, fmt.Errorf("invalid %s: %d out of range", TotalForms, total)
	}
	initial, err := strconv.Atoi(v.Get(tmpl.managementName(InitialForms)))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", InitialForms, err)
	}
	if initial < 0 || initial > total {
		return nil, fmt.Errorf("invalid %s: %d out of range", InitialForms, initial)
	}

	f := &Formset{tmpl: tmpl, initial: initial}
	for i := range total {
		names := tmpl.Instantiate(i)
		present := false
		for _, name := range names {
			if _, ok := v[name]; ok {
				present = true
				break
			}
		}
		f.total = i
		if !present {
			continue
		}
		r := f.newRow(i < initial)
		for _, field := range tmpl.fields {
			r.values[field] = v.Get(names[field])
		}
		if r.deleteBox {
			id, err := strconv.ParseInt(v.Get(names[IDField]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid id of form %d: %w", i, err)
			}
			r.ID = id
			r.Delete = v.Get(names[DeleteField]) == "on"
		}
	}
	f.total = total
	f.hideDeleted()
	f.Renumber()
	return f, nil
}
