package formset

import (
	"net/url"
	"testing"
)

func TestEncode(t *testing.T) {
	f := New(testTemplate(), []Initial{saved(10, "Jan", false), saved(11, "Eva", false)}, 0)
	if err := f.Remove(f.Rows()[1]); err != nil {
		t.Fatal(err)
	}
	dropped := f.Add()
	kept := f.Add()
	kept.Set("first_name", "Adam")
	if err := f.Remove(dropped); err != nil {
		t.Fatal(err)
	}

	v := f.Encode()

	checks := map[string]string{
		"participants-TOTAL_FORMS":   "4",
		"participants-INITIAL_FORMS": "2",
		"participants-0-id":          "10",
		"participants-0-first_name":  "Jan",
		"participants-1-id":          "11",
		"participants-1-DELETE":      "on",
		"participants-3-first_name":  "Adam",
	}
	for k, want := range checks {
		if got := v.Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
	if _, ok := v["participants-2-first_name"]; ok {
		t.Error("dropped row 2 should leave a gap")
	}
	if _, ok := v["participants-0-DELETE"]; ok {
		t.Error("row 0 is not deleted")
	}
	if _, ok := v["participants-3-id"]; ok {
		t.Error("new row should have no id")
	}
}

func TestDecodeRebuildsFormset(t *testing.T) {
	f := New(testTemplate(), []Initial{saved(10, "Jan", false), saved(11, "Eva", false)}, 0)
	_ = f.Remove(f.Rows()[1])
	gap := f.Add()
	f.Add().Set("first_name", "Adam")
	_ = f.Remove(gap)

	got, err := Decode(testTemplate(), f.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.TotalForms() != 4 || got.InitialForms() != 2 {
		t.Errorf("total/initial = %d/%d, want 4/2", got.TotalForms(), got.InitialForms())
	}
	rows := got.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[1].ID != 11 || !rows[1].Delete || !rows[1].Hidden {
		t.Errorf("row 1 = %+v, want deleted id 11", rows[1])
	}
	if rows[2].Index != 3 || rows[2].Get("first_name") != "Adam" || rows[2].HasDeleteBox() {
		t.Errorf("row 2 = %+v", rows[2])
	}
	if next := got.Add(); next.Index != 4 {
		t.Errorf("next index = %d, want 4", next.Index)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		v    url.Values
	}{
		{"missing total", url.Values{"participants-INITIAL_FORMS": {"0"}}},
		{"total too large", url.Values{"participants-TOTAL_FORMS": {"5000"}, "participants-INITIAL_FORMS": {"0"}}},
		{"initial above total", url.Values{"participants-TOTAL_FORMS": {"1"}, "participants-INITIAL_FORMS": {"2"}}},
		{"bad id", url.Values{
			"participants-TOTAL_FORMS":   {"1"},
			"participants-INITIAL_FORMS": {"1"},
			"participants-0-id":          {"x"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(testTemplate(), tt.v); err == nil {
				t.Error("expected error")
			}
		})
	}
}
