package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// ParticipantsLoadedMsg is sent when the participant list is loaded.
type ParticipantsLoadedMsg struct {
	Participants []ParticipantRow
}

// UnitsLoadedMsg is sent when units are loaded.
type UnitsLoadedMsg struct {
	Units []UnitRow
}

// UnitDetailLoadedMsg is sent when a unit and its participants are loaded
// for editing.
type UnitDetailLoadedMsg struct {
	Detail UnitDetail
}

// UnitSavedMsg is sent when a unit form is successfully saved.
type UnitSavedMsg struct {
	ID       int64
	Inserted int
	Updated  int
	Deleted  int
}

// ParticipantLoadedMsg is sent when an individual participant or organizer
// is loaded for editing.
type ParticipantLoadedMsg struct {
	Participant Participant
}

// ParticipantSavedMsg is sent when a participant form is successfully saved.
type ParticipantSavedMsg struct {
	ID      int64
	Kind    Kind
	Created bool
}

// SaveFailedMsg is sent when saving a form fails; the form stays open.
type SaveFailedMsg struct {
	Err error
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// DatabaseChangedMsg is sent when the database file changed on disk.
type DatabaseChangedMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenParticipants Screen = iota
	ScreenUnits
	ScreenUnitForm
	ScreenParticipantForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
	ModeSearch
)
