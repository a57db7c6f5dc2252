package table

// Column keys of the participant list.
const (
	ColType      = "type"
	ColFirstName = "firstname"
	ColLastName  = "lastname"
	ColNickname  = "nickname"
	ColDOB       = "dob"
	ColCategory  = "category"
	ColUnit      = "unit"
	ColDivision  = "division"
	ColEmail     = "email"
	ColPhone     = "phone"
	ColHomeTown  = "hometown"
	ColArrival   = "arrival"
	ColDietary   = "dietary"
	ColHealth    = "health"
	ColInfo      = "info"
)

// AllColumns lists every column key in display order.
var AllColumns = []string{
	ColType, ColFirstName, ColLastName, ColNickname, ColDOB, ColCategory,
	ColUnit, ColDivision, ColEmail, ColPhone, ColHomeTown, ColArrival,
	ColDietary, ColHealth, ColInfo,
}

// Preset names.
const (
	PresetBasic   = "basic"
	PresetDietary = "dietary"
	PresetHealth  = "health"
	PresetContact = "contact"
	PresetAll     = "all"
)

var presets = map[string][]string{
	PresetBasic:   {ColType, ColFirstName, ColLastName, ColDOB, ColCategory},
	PresetDietary: {ColType, ColFirstName, ColLastName, ColDietary},
	PresetHealth:  {ColType, ColFirstName, ColLastName, ColHealth},
	PresetContact: {ColType, ColFirstName, ColLastName, ColEmail, ColPhone, ColHomeTown},
	PresetAll:     AllColumns,
}

// Presets returns the preset names in menu order.
func Presets() []string {
	return []string{PresetBasic, PresetDietary, PresetHealth, PresetContact, PresetAll}
}

// PresetColumns returns the columns shown by the named preset. Unknown
// names resolve to the basic preset.
func PresetColumns(name string) []string {
	cols, ok := presets[name]
	if !ok {
		cols = presets[PresetBasic]
	}
	return append([]string(nil), cols...)
}

// IsPreset reports whether name is a known preset.
func IsPreset(name string) bool {
	_, ok := presets[name]
	return ok
}
