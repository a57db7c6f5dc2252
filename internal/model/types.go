package model

import "time"

// Kind tells how a participant is registered.
type Kind string

const (
	KindRegular    Kind = "regular"
	KindIndividual Kind = "individual"
	KindOrganizer  Kind = "organizer"
)

// Kinds lists every participant kind in display order.
var Kinds = []Kind{KindRegular, KindIndividual, KindOrganizer}

// Label returns the human-readable kind.
func (k Kind) Label() string {
	switch k {
	case KindRegular:
		return "Regular"
	case KindIndividual:
		return "Individual"
	case KindOrganizer:
		return "Organizer"
	default:
		return string(k)
	}
}

// Category is a scout age category.
type Category string

const (
	CategoryAdult Category = "ADULT"
	CategoryRover Category = "ROVER"
	CategoryScout Category = "SCOUT"
	CategoryCub   Category = "CUB"
)

// Categories lists the scout categories from oldest to youngest.
var Categories = []Category{CategoryAdult, CategoryRover, CategoryScout, CategoryCub}

// Valid reports whether c is empty or a known category.
func (c Category) Valid() bool {
	if c == "" {
		return true
	}
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// CategoryFor derives the scout category from the birth year of dob
// (YYYY-MM-DD) as of the year of ref. Months and days are ignored. It
// returns "" when dob is not a date.
func CategoryFor(dob string, ref time.Time) Category {
	t, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return ""
	}
	switch age := ref.Year() - t.Year(); {
	case age <= 12:
		return CategoryCub
	case age <= 15:
		return CategoryScout
	case age <= 18:
		return CategoryRover
	default:
		return CategoryAdult
	}
}

// Division is the organizer team an organizer belongs to.
type Division string

const (
	DivisionManagement  Division = "MANAGEMENT"
	DivisionRacing      Division = "RACING"
	DivisionRescue      Division = "RESCUE"
	DivisionCrisis      Division = "CRISIS"
	DivisionInformation Division = "INFORMATION"
	DivisionMaterial    Division = "MATERIAL"
	DivisionFood        Division = "FOOD"
	DivisionProgram     Division = "PROGRAM"
	DivisionOthers      Division = "OTHERS"
)

// Divisions lists every organizer division.
var Divisions = []Division{
	DivisionManagement, DivisionRacing, DivisionRescue, DivisionCrisis,
	DivisionInformation, DivisionMaterial, DivisionFood, DivisionProgram,
	DivisionOthers,
}

// Valid reports whether d is a known division.
func (d Division) Valid() bool {
	for _, k := range Divisions {
		if d == k {
			return true
		}
	}
	return false
}

// Unit represents a registered scout unit.
type Unit struct {
	ID            int64
	Name          string
	EvidenceID    string
	ContactPerson string
	ContactEmail  string
	ContactPhone  string
	HomeTown      string
	Arrival       string // YYYY-MM-DD HH:MM
	CreatedAt     time.Time
}

// Participant represents one registered person.
type Participant struct {
	ID          int64
	Kind        Kind
	UnitID      int64 // regular participants only
	FirstName   string
	LastName    string
	Nickname    string
	DateOfBirth string // ISO 8601 date (YYYY-MM-DD)
	Category    Category
	Division    Division // organizers only
	Email       string
	Phone       string
	HomeTown    string
	Arrival     string
	Dietary     string
	Health      string
	Info        string
	CreatedAt   time.Time
}

// ParticipantRow is a participant joined with its unit for the list view.
// Contact fields of regular participants come from their unit.
type ParticipantRow struct {
	ID          int64
	Kind        Kind
	UnitID      int64
	FirstName   string
	LastName    string
	Nickname    string
	DateOfBirth string
	Category    Category
	UnitName    string
	Division    Division
	Email       string
	Phone       string
	HomeTown    string
	Arrival     string
	Dietary     string
	Health      string
	Info        string
}

// UnitRow represents a unit with its participant count for list display.
type UnitRow struct {
	ID               int64
	Name             string
	EvidenceID       string
	HomeTown         string
	ContactPerson    string
	ParticipantCount int
}

// UnitDetail is a unit with its regular participants.
type UnitDetail struct {
	Unit         Unit
	Participants []Participant
}
