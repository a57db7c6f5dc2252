package db

import (
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"skare/internal/model"
)

// SeedSize selects the amount of generated test data.
type SeedSize string

const (
	SeedSmall  SeedSize = "small"
	SeedMedium SeedSize = "medium"
	SeedLarge  SeedSize = "large"
)

// SeedStats reports what Seed created.
type SeedStats struct {
	Units       int
	Regular     int
	Individuals int
	Organizers  int
}

// Total returns the number of created participants.
func (s SeedStats) Total() int {
	return s.Regular + s.Individuals + s.Organizers
}

type seedPlan struct {
	units          int
	minPerUnit     int
	maxPerUnit     int
	individuals    int
	organizers     int
	fixedUnitNames []string
}

var seedPlans = map[SeedSize]seedPlan{
	SeedSmall:  {units: 1, minPerUnit: 5, maxPerUnit: 5, individuals: 2, organizers: 2, fixedUnitNames: []string{"1. oddíl Testovací"}},
	SeedMedium: {units: 8, minPerUnit: 5, maxPerUnit: 12, individuals: 15, organizers: 20},
	SeedLarge:  {units: 60, minPerUnit: 8, maxPerUnit: 15, individuals: 150, organizers: 100},
}

// ParseSeedSize validates a seed size name.
func ParseSeedSize(s string) (SeedSize, error) {
	size := SeedSize(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := seedPlans[size]; !ok {
		return "", fmt.Errorf("unknown seed size %q (want small, medium or large)", s)
	}
	return size, nil
}

var (
	firstNamesMale = []string{
		"Jan", "Petr", "Tomáš", "Martin", "Pavel", "Jakub", "Ondřej", "Lukáš",
		"David", "Michal", "Vojtěch", "Adam", "Filip", "Matěj", "Marek", "Daniel",
		"Jiří", "Josef", "Karel", "František", "Václav", "Antonín", "Jaroslav",
	}
	firstNamesFemale = []string{
		"Jana", "Marie", "Eva", "Anna", "Hana", "Lenka", "Kateřina", "Lucie",
		"Petra", "Martina", "Tereza", "Michaela", "Veronika", "Barbora", "Nikola",
		"Monika", "Zuzana", "Kristýna", "Adéla", "Simona", "Markéta", "Klára",
	}
	lastNames = []string{
		"Novák", "Svoboda", "Novotný", "Dvořák", "Černý", "Procházka", "Kučera",
		"Veselý", "Horák", "Němec", "Pokorný", "Marek", "Pospíšil", "Hájek",
		"Jelínek", "Král", "Růžička", "Beneš", "Fiala", "Sedláček", "Doležal",
		"Zeman", "Kolář", "Navrátil", "Čermák", "Vaněk", "Urban", "Blažek",
	}
	nicknames = []string{
		"Bobr", "Liška", "Vlk", "Medvěd", "Orel", "Sokol", "Vydra", "Rys",
		"Jezevec", "Sova", "Kuna", "Veverka", "Káně", "Tchoř", "Rosomák",
		"Jelen", "Srna", "Lasice", "Křeček", "Ježek", "Havran", "Datel",
		"", "", "", "",
	}
	towns = []string{
		"Praha", "Brno", "Ostrava", "Plzeň", "Liberec", "Olomouc", "České Budějovice",
		"Hradec Králové", "Pardubice", "Zlín", "Havířov", "Kladno", "Most", "Opava",
		"Frýdek-Místek", "Karviná", "Jihlava", "Teplice", "Chomutov", "Přerov",
	}
	unitNames = []string{
		"1. oddíl Ledňáček", "2. oddíl Orlí Hnízdo", "3. oddíl Polárka",
		"4. oddíl Kovářov", "5. oddíl Koráb", "6. oddíl Dvojka",
		"7. oddíl Sedmička", "8. oddíl Osmička", "9. oddíl Devítka",
		"10. oddíl Desítka", "11. oddíl Jedenáctka", "12. oddíl Dvanáctka",
		"13. středisko Delfín", "14. středisko Maják", "15. středisko Kompas",
		"Vodní skauti Modrá Kotva", "Přístav Praha", "Flotila Brno",
		"Námořníci Ostrava", "Říční vlci Plzeň", "Jezero Liberec",
	}
	dietary = []string{
		"", "", "", "", "",
		"Vegetarián", "Vegan", "Bezlepková dieta", "Bez laktózy",
		"Alergie na ořechy", "Alergie na vejce", "Bez vepřového",
		"Vegetarián, bez laktózy", "Alergie na mořské plody",
	}
	health = []string{
		"", "", "", "", "", "", "",
		"Astma", "Alergie na včelí bodnutí", "Epilepsie", "Diabetes",
		"Alergie na penicilin", "Srdeční vada", "Alergie na pyl",
		"Cukrovka - inzulín", "Alergie na prach",
	}
	emailDomains = []string{"gmail.com", "seznam.cz", "email.cz", "centrum.cz", "volny.cz"}
)

// ageRange is the inclusive age span generated for each category.
var ageRange = map[model.Category][2]int{
	model.CategoryAdult: {18, 50},
	model.CategoryRover: {15, 20},
	model.CategoryScout: {11, 15},
	model.CategoryCub:   {6, 11},
}

type seeder struct {
	rng *rand.Rand
	now time.Time
}

func (s *seeder) pick(list []string) string {
	return list[s.rng.Intn(len(list))]
}

func (s *seeder) between(lo, hi int) int {
	return lo + s.rng.Intn(hi-lo+1)
}

func (s *seeder) phone() string {
	return fmt.Sprintf("+420 %d %d %d", s.between(600, 799), s.between(100, 999), s.between(100, 999))
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func asciiFold(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

func (s *seeder) email(first, last string) string {
	return fmt.Sprintf("%s.%s%d@%s",
		strings.ToLower(asciiFold(first)), strings.ToLower(asciiFold(last)),
		s.between(1, 99), s.pick(emailDomains))
}

func (s *seeder) dateOfBirth(c model.Category) string {
	span := ageRange[c]
	year := s.now.Year() - s.between(span[0], span[1])
	return time.Date(year, time.Month(s.between(1, 12)), s.between(1, 28), 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// arrival returns an expected arrival around the event start in July 2026.
func (s *seeder) arrival() string {
	base := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	t := base.AddDate(0, 0, s.between(-2, 1)).Add(time.Duration(s.between(8, 20)) * time.Hour)
	return t.Format("2006-01-02 15:04")
}

func femaleSurname(last string) string {
	switch {
	case strings.HasSuffix(last, "ý"):
		return strings.TrimSuffix(last, "ý") + "á"
	case strings.HasSuffix(last, "á"):
		return last
	default:
		return last + "ová"
	}
}

// person generates personal data. An empty category is chosen at random.
func (s *seeder) person(c model.Category) model.Participant {
	male := s.rng.Intn(2) == 0
	var first string
	last := s.pick(lastNames)
	if male {
		first = s.pick(firstNamesMale)
	} else {
		first = s.pick(firstNamesFemale)
		last = femaleSurname(last)
	}
	if c == "" {
		c = model.Categories[s.rng.Intn(len(model.Categories))]
	}
	return model.Participant{
		FirstName:   first,
		LastName:    last,
		Nickname:    s.pick(nicknames),
		DateOfBirth: s.dateOfBirth(c),
		Category:    c,
		Dietary:     s.pick(dietary),
		Health:      s.pick(health),
	}
}

// standalone fills contact data for participants registered without a unit.
func (s *seeder) standalone(p model.Participant, kind model.Kind) model.Participant {
	p.Kind = kind
	p.Email = s.email(p.FirstName, p.LastName)
	p.Phone = s.phone()
	p.HomeTown = s.pick(towns)
	p.Arrival = s.arrival()
	return p
}

func (s *seeder) unitNames(plan seedPlan) []string {
	if len(plan.fixedUnitNames) >= plan.units {
		return plan.fixedUnitNames[:plan.units]
	}
	pool := append([]string(nil), unitNames...)
	for i := 0; len(pool) < plan.units; i++ {
		pool = append(pool, fmt.Sprintf("%d. oddíl Testovací %d", i+20, i+1))
	}
	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:plan.units]
}

// Seed fills the database with generated test data of the given size in one
// transaction. rng and now make the output reproducible.
func Seed(db *sql.DB, size SeedSize, rng *rand.Rand, now time.Time) (SeedStats, error) {
	plan, ok := seedPlans[size]
	if !ok {
		return SeedStats{}, fmt.Errorf("unknown seed size %q", size)
	}
	s := &seeder{rng: rng, now: now}

	tx, err := db.Begin()
	if err != nil {
		return SeedStats{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var stats SeedStats
	for _, name := range s.unitNames(plan) {
		contact := s.person(model.CategoryAdult)
		unitID, err := InsertUnit(tx, model.Unit{
			Name:          name,
			EvidenceID:    fmt.Sprintf("%d.%d", s.between(100, 999), s.between(10, 99)),
			ContactPerson: contact.FirstName + " " + contact.LastName,
			ContactEmail:  s.email(contact.FirstName, contact.LastName),
			ContactPhone:  s.phone(),
			HomeTown:      s.pick(towns),
			Arrival:       s.arrival(),
		})
		if err != nil {
			return SeedStats{}, err
		}
		stats.Units++

		n := s.between(plan.minPerUnit, plan.maxPerUnit)
		for i := 0; i < n; i++ {
			p := s.person("")
			p.Kind = model.KindRegular
			p.UnitID = unitID
			if _, err := InsertParticipant(tx, p); err != nil {
				return SeedStats{}, err
			}
			stats.Regular++
		}
	}

	for i := 0; i < plan.individuals; i++ {
		if _, err := InsertParticipant(tx, s.standalone(s.person(""), model.KindIndividual)); err != nil {
			return SeedStats{}, err
		}
		stats.Individuals++
	}

	for i := 0; i < plan.organizers; i++ {
		p := s.standalone(s.person(model.CategoryAdult), model.KindOrganizer)
		p.Division = model.Divisions[s.rng.Intn(len(model.Divisions))]
		if _, err := InsertParticipant(tx, p); err != nil {
			return SeedStats{}, err
		}
		stats.Organizers++
	}

	if err := tx.Commit(); err != nil {
		return SeedStats{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stats, nil
}
