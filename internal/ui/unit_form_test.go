package ui

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"skare/internal/db"
	"skare/internal/formset"
	"skare/internal/model"
	"skare/internal/submit"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "skare.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testDetail() model.UnitDetail {
	return model.UnitDetail{
		Unit: model.Unit{ID: 3, Name: "2. oddíl Bobři", HomeTown: "Olomouc"},
		Participants: []model.Participant{
			{ID: 10, FirstName: "Jan", LastName: "Novák", DateOfBirth: "2012-03-04", Category: model.CategoryScout},
			{ID: 11, FirstName: "Eva", LastName: "Černá", DateOfBirth: "2015-06-01", Category: model.CategoryCub},
		},
	}
}

func TestUnitFormAddAndRemoveRows(t *testing.T) {
	form := NewUnitFormModel(nil, submit.NewTokens(), FormOptions{})
	fs := form.Formset()

	if len(fs.Visible()) != 1 || fs.TotalForms() != 1 {
		t.Fatalf("new form: visible=%d total=%d, want 1/1", len(fs.Visible()), fs.TotalForms())
	}

	row := form.AddParticipant()
	if row.Index != 1 || row.Number != 2 {
		t.Errorf("added row index=%d number=%d, want 1/2", row.Index, row.Number)
	}
	if got := form.focusedRow(); got != row {
		t.Error("focus should move to the added row")
	}

	if err := form.RemoveParticipant(); err != nil {
		t.Fatalf("RemoveParticipant: %v", err)
	}
	if len(fs.Visible()) != 1 {
		t.Errorf("visible = %d, want 1", len(fs.Visible()))
	}
	if fs.TotalForms() != 2 {
		t.Errorf("TotalForms() = %d, want 2", fs.TotalForms())
	}

	form.setFocus(inputName)
	if err := form.RemoveParticipant(); err == nil {
		t.Error("removing without a focused row should fail")
	}
}

func TestUnitFormRemoveSavedParticipant(t *testing.T) {
	form := NewUnitFormModel(nil, submit.NewTokens(), FormOptions{})
	form.LoadUnit(testDetail())
	fs := form.Formset()

	if len(fs.Visible()) != 3 || fs.InitialForms() != 2 {
		t.Fatalf("visible=%d initial=%d, want 3/2", len(fs.Visible()), fs.InitialForms())
	}
	if got := fs.Visible()[0].Get(fieldDOB); got != "04.03.2012" {
		t.Errorf("date of birth shown as %q", got)
	}

	form.setFocus(inputCount)
	if err := form.RemoveParticipant(); err != nil {
		t.Fatalf("RemoveParticipant: %v", err)
	}

	changes, err := participantChanges(fs, time.Now())
	if err != nil {
		t.Fatalf("participantChanges: %v", err)
	}
	if len(changes.Deletes) != 1 || changes.Deletes[0] != 10 {
		t.Errorf("Deletes = %v, want [10]", changes.Deletes)
	}
	if len(changes.Updates) != 1 || changes.Updates[0].ID != 11 {
		t.Errorf("Updates = %+v", changes.Updates)
	}
	if len(changes.Inserts) != 0 {
		t.Errorf("blank row should not be inserted: %+v", changes.Inserts)
	}
	if got := fs.Visible()[0].Number; got != 1 {
		t.Errorf("remaining row number = %d, want 1", got)
	}
}

func TestUnitFormTypingWritesFormset(t *testing.T) {
	form := NewUnitFormModel(nil, submit.NewTokens(), FormOptions{})
	form.setFocus(inputCount)

	f, _ := form.Update(keyRunes("Jan"))
	f, _ = f.Update(keyRunes("a"))

	if got := f.Formset().Visible()[0].Get(fieldFirstName); got != "Jana" {
		t.Errorf("first name = %q, want Jana", got)
	}
}

func TestParticipantChangesValidation(t *testing.T) {
	ref := time.Date(2026, 4, 1, 23, 59, 0, 0, time.Local)
	tests := []struct {
		name    string
		values  map[string]string
		wantErr string
		check   func(t *testing.T, p model.Participant)
	}{
		{
			name:    "missing last name",
			values:  map[string]string{fieldFirstName: "Jan"},
			wantErr: "participant 1",
		},
		{
			name:    "unknown category",
			values:  map[string]string{fieldFirstName: "Jan", fieldLastName: "Novák", fieldCategory: "elder"},
			wantErr: "unknown category",
		},
		{
			name:    "missing date of birth",
			values:  map[string]string{fieldFirstName: "Jan", fieldLastName: "Novák", fieldCategory: "SCOUT"},
			wantErr: "participant 1: date of birth is required",
		},
		{
			name:    "future date of birth",
			values:  map[string]string{fieldFirstName: "Jan", fieldLastName: "Novák", fieldDOB: "1.1.2999"},
			wantErr: "in the future",
		},
		{
			name:    "bad date",
			values:  map[string]string{fieldFirstName: "Jan", fieldLastName: "Novák", fieldDOB: "soon"},
			wantErr: "participant 1",
		},
		{
			name: "normalized",
			values: map[string]string{
				fieldFirstName: " Jan ",
				fieldLastName:  "Novák",
				fieldCategory:  "scout",
				fieldDOB:       "4.3.2012",
			},
			check: func(t *testing.T, p model.Participant) {
				if p.FirstName != "Jan" || p.Category != model.CategoryScout || p.DateOfBirth != "2012-03-04" {
					t.Errorf("participant = %+v", p)
				}
			},
		},
		{
			name:   "category from birth year",
			values: map[string]string{fieldFirstName: "Eva", fieldLastName: "Malá", fieldDOB: "31.12.2010"},
			check: func(t *testing.T, p model.Participant) {
				if p.Category != model.CategoryRover {
					t.Errorf("category = %q, want ROVER for 2010 as of 2026", p.Category)
				}
			},
		},
		{
			name: "typed category wins",
			values: map[string]string{
				fieldFirstName: "Eva", fieldLastName: "Malá", fieldDOB: "31.12.2010", fieldCategory: "adult",
			},
			check: func(t *testing.T, p model.Participant) {
				if p.Category != model.CategoryAdult {
					t.Errorf("category = %q, want ADULT", p.Category)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := formset.New(participantTemplate, nil, 1)
			row := fs.Visible()[0]
			for k, v := range tt.values {
				row.Set(k, v)
			}

			changes, err := participantChanges(fs, ref)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("participantChanges: %v", err)
			}
			if len(changes.Inserts) != 1 {
				t.Fatalf("Inserts = %d, want 1", len(changes.Inserts))
			}
			tt.check(t, changes.Inserts[0])
		})
	}
}

func TestUnitFormSubmitOnce(t *testing.T) {
	database := openTestDB(t)
	form := NewUnitFormModel(database, submit.NewTokens(), FormOptions{LoadingText: "Saving…"})
	form.inputs[inputName].SetValue("1. oddíl Ledňáček")
	row := form.Formset().Visible()[0]
	row.Set(fieldFirstName, "Jan")
	row.Set(fieldLastName, "Novák")
	row.Set(fieldDOB, "4.3.2012")

	cmd := form.submit()
	if cmd == nil {
		t.Fatal("first submit should start a save")
	}
	if !form.Button().Disabled || form.Button().Text() != "Saving…" {
		t.Errorf("button = %+v, want disabled with loading text", form.Button())
	}
	if form.submit() != nil {
		t.Error("second submit while saving should be ignored")
	}

	msg := cmd()
	saved, ok := msg.(model.UnitSavedMsg)
	if !ok {
		t.Fatalf("save returned %T: %+v", msg, msg)
	}
	if saved.ID == 0 || saved.Inserted != 1 {
		t.Errorf("saved = %+v", saved)
	}

	units, err := db.ListUnits(database)
	if err != nil {
		t.Fatalf("ListUnits: %v", err)
	}
	if len(units) != 1 || units[0].ParticipantCount != 1 {
		t.Errorf("units = %+v", units)
	}
}

func TestUnitFormFailedSaveReenables(t *testing.T) {
	database := openTestDB(t)
	form := NewUnitFormModel(database, submit.NewTokens(), FormOptions{})

	cmd := form.submit()
	if cmd == nil {
		t.Fatal("submit should start a save")
	}
	failed, ok := cmd().(model.SaveFailedMsg)
	if !ok {
		t.Fatal("save without a unit name should fail")
	}

	form.Failed(failed.Err)
	if form.Button().Disabled || form.Button().Text() != "Save" {
		t.Errorf("button = %+v, want enabled Save", form.Button())
	}
	if !strings.Contains(form.error, "unit name") {
		t.Errorf("error = %q", form.error)
	}

	form.inputs[inputName].SetValue("3. oddíl Vlci")
	cmd = form.submit()
	if cmd == nil {
		t.Fatal("submit after a failure should start a new save")
	}
	if _, ok := cmd().(model.UnitSavedMsg); !ok {
		t.Error("second save should succeed")
	}
}

func TestUnitFormRejectsReusedToken(t *testing.T) {
	tokens := submit.NewTokens()
	form := NewUnitFormModel(nil, tokens, FormOptions{})
	form.inputs[inputName].SetValue("1. oddíl Ledňáček")

	if err := tokens.Check(unitFormToken, form.token); err != nil {
		t.Fatalf("Check: %v", err)
	}

	if form.submit() != nil {
		t.Error("submit with a spent token should not save")
	}
	if form.Button().Disabled {
		t.Error("button should be enabled again")
	}
	if form.error == "" {
		t.Error("duplicate submission should show an error")
	}
	if form.submit() == nil {
		t.Error("a fresh token should allow the next submit")
	}
}

func TestSaveUnitRejectsBadArrival(t *testing.T) {
	msg := saveUnit(nil, model.Unit{Name: "Vlci", Arrival: "friday"}, formset.New(participantTemplate, nil, 1).Encode(), submit.Deadline{})
	failed, ok := msg.(model.SaveFailedMsg)
	if !ok {
		t.Fatalf("saveUnit returned %T", msg)
	}
	if !strings.Contains(failed.Err.Error(), "arrival") {
		t.Errorf("err = %v", failed.Err)
	}
}

func TestUnitFormRefusesSaveAfterDeadline(t *testing.T) {
	database := openTestDB(t)
	form := NewUnitFormModel(database, submit.NewTokens(), FormOptions{
		Deadline: submit.Deadline{At: time.Now().Add(-time.Hour)},
	})
	form.inputs[inputName].SetValue("1. oddíl Ledňáček")

	cmd := form.submit()
	if cmd == nil {
		t.Fatal("submit should start a save")
	}
	failed, ok := cmd().(model.SaveFailedMsg)
	if !ok || !errors.Is(failed.Err, submit.ErrClosed) {
		t.Fatalf("save after the deadline = %+v, want ErrClosed", failed)
	}
	form.Failed(failed.Err)
	if form.Button().Disabled {
		t.Error("button should be enabled again")
	}
	if units, _ := db.ListUnits(database); len(units) != 0 {
		t.Errorf("units = %+v, want none stored", units)
	}
}

func TestSaveUnitDerivesCategoryFromDeadlineYear(t *testing.T) {
	database := openTestDB(t)
	deadline := submit.Deadline{At: time.Now().AddDate(1, 0, 0)}
	birthYear := deadline.At.Year() - 13

	fs := formset.New(participantTemplate, nil, 1)
	row := fs.Visible()[0]
	row.Set(fieldFirstName, "Jan")
	row.Set(fieldLastName, "Novák")
	row.Set(fieldDOB, fmt.Sprintf("1.1.%d", birthYear))

	msg := saveUnit(database, model.Unit{Name: "Vlci"}, fs.Encode(), deadline)
	saved, ok := msg.(model.UnitSavedMsg)
	if !ok {
		t.Fatalf("saveUnit returned %+v", msg)
	}
	members, err := db.GetParticipantsByUnit(database, saved.ID)
	if err != nil || len(members) != 1 {
		t.Fatalf("members = %+v, err = %v", members, err)
	}
	if members[0].Category != model.CategoryScout {
		t.Errorf("category = %q, want SCOUT at 13 in the deadline year", members[0].Category)
	}
}
