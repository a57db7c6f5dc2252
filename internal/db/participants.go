package db

import (
	"database/sql"
	"fmt"
	"time"

	"skare/internal/model"
)

// ListParticipants retrieves every participant with unit data for the list
// view. Regular participants inherit contact data from their unit.
func ListParticipants(db *sql.DB) ([]model.ParticipantRow, error) {
	query := `
		SELECT
			p.id,
			p.kind,
			COALESCE(p.unit_id, 0),
			p.first_name,
			p.last_name,
			COALESCE(p.nickname, ''),
			COALESCE(p.date_of_birth, ''),
			COALESCE(p.category, ''),
			COALESCE(u.name, ''),
			COALESCE(p.division, ''),
			COALESCE(p.email, u.contact_email, ''),
			COALESCE(p.phone, u.contact_phone, ''),
			COALESCE(p.home_town, u.home_town, ''),
			COALESCE(p.arrival, u.arrival, ''),
			COALESCE(p.dietary, ''),
			COALESCE(p.health, ''),
			COALESCE(p.info, '')
		FROM participants p
		LEFT JOIN units u ON p.unit_id = u.id
		ORDER BY p.id
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var results []model.ParticipantRow
	for rows.Next() {
		var p model.ParticipantRow
		var kind, category, division string
		if err := rows.Scan(
			&p.ID, &kind, &p.UnitID, &p.FirstName, &p.LastName, &p.Nickname, &p.DateOfBirth,
			&category, &p.UnitName, &division, &p.Email, &p.Phone, &p.HomeTown,
			&p.Arrival, &p.Dietary, &p.Health, &p.Info,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		p.Kind = model.Kind(kind)
		p.Category = model.Category(category)
		p.Division = model.Division(division)
		results = append(results, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}

	return results, nil
}

const participantColumns = `
	id, kind, COALESCE(unit_id, 0), first_name, last_name, COALESCE(nickname, ''),
	COALESCE(date_of_birth, ''), COALESCE(category, ''), COALESCE(division, ''),
	COALESCE(email, ''), COALESCE(phone, ''), COALESCE(home_town, ''),
	COALESCE(arrival, ''), COALESCE(dietary, ''), COALESCE(health, ''),
	COALESCE(info, ''), created_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanParticipant(s scanner) (model.Participant, error) {
	var p model.Participant
	var kind, category, division, createdAt string
	err := s.Scan(
		&p.ID, &kind, &p.UnitID, &p.FirstName, &p.LastName, &p.Nickname,
		&p.DateOfBirth, &category, &division, &p.Email, &p.Phone, &p.HomeTown,
		&p.Arrival, &p.Dietary, &p.Health, &p.Info, &createdAt,
	)
	if err != nil {
		return model.Participant{}, err
	}
	p.Kind = model.Kind(kind)
	p.Category = model.Category(category)
	p.Division = model.Division(division)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		p.CreatedAt = t
	}
	return p, nil
}

// GetParticipantsByUnit retrieves the regular participants of a unit in
// registration order.
func GetParticipantsByUnit(db *sql.DB, unitID int64) ([]model.Participant, error) {
	rows, err := db.Query(`SELECT `+participantColumns+` FROM participants WHERE unit_id = ? ORDER BY id`, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unit participants: %w", err)
	}
	defer rows.Close()

	var results []model.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}
	return results, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// InsertParticipant creates a new participant.
func InsertParticipant(db execer, p model.Participant) (int64, error) {
	query := `
		INSERT INTO participants (
			kind, unit_id, first_name, last_name, nickname, date_of_birth,
			category, division, email, phone, home_town, arrival, dietary,
			health, info
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := db.Exec(query,
		string(p.Kind), nullID(p.UnitID), p.FirstName, p.LastName,
		nullString(p.Nickname), nullString(p.DateOfBirth),
		nullString(string(p.Category)), nullString(string(p.Division)),
		nullString(p.Email), nullString(p.Phone), nullString(p.HomeTown),
		nullString(p.Arrival), nullString(p.Dietary), nullString(p.Health),
		nullString(p.Info),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert participant: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// UpdateParticipant updates the personal fields of an existing participant.
func UpdateParticipant(db execer, p model.Participant) error {
	query := `
		UPDATE participants
		SET first_name = ?, last_name = ?, nickname = ?, date_of_birth = ?,
		    category = ?, dietary = ?, health = ?, info = ?
		WHERE id = ?
	`
	_, err := db.Exec(query,
		p.FirstName, p.LastName, nullString(p.Nickname), nullString(p.DateOfBirth),
		nullString(string(p.Category)), nullString(p.Dietary), nullString(p.Health),
		nullString(p.Info), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return nil
}

// GetParticipant retrieves a single participant by ID.
func GetParticipant(db *sql.DB, id int64) (model.Participant, error) {
	p, err := scanParticipant(db.QueryRow(`SELECT `+participantColumns+` FROM participants WHERE id = ?`, id))
	if err != nil {
		return model.Participant{}, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// SaveParticipant inserts or updates an individual participant or an
// organizer together with its own contact data. Regular participants are
// saved with their unit through SaveUnit. It returns the participant ID.
func SaveParticipant(db *sql.DB, p model.Participant) (int64, error) {
	switch p.Kind {
	case model.KindIndividual:
		p.Division = ""
	case model.KindOrganizer:
	default:
		return 0, fmt.Errorf("%s participants are saved with their unit", p.Kind)
	}
	p.UnitID = 0

	if p.ID == 0 {
		return InsertParticipant(db, p)
	}

	query := `
		UPDATE participants
		SET first_name = ?, last_name = ?, nickname = ?, date_of_birth = ?,
		    category = ?, division = ?, email = ?, phone = ?, home_town = ?,
		    arrival = ?, dietary = ?, health = ?, info = ?
		WHERE id = ? AND kind = ?
	`
	res, err := db.Exec(query,
		p.FirstName, p.LastName, nullString(p.Nickname), nullString(p.DateOfBirth),
		nullString(string(p.Category)), nullString(string(p.Division)),
		nullString(p.Email), nullString(p.Phone), nullString(p.HomeTown),
		nullString(p.Arrival), nullString(p.Dietary), nullString(p.Health),
		nullString(p.Info), p.ID, string(p.Kind),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update participant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("participant %d is not a registered %s", p.ID, p.Kind)
	}
	return p.ID, nil
}
