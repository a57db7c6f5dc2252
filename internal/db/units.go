package db

import (
	"database/sql"
	"fmt"
	"time"

	"skare/internal/model"
)

// ParticipantChanges is the set of row operations produced by a submitted
// participant formset.
type ParticipantChanges struct {
	Inserts []model.Participant
	Updates []model.Participant
	Deletes []int64
}

// ListUnits retrieves all units with their participant counts.
func ListUnits(db *sql.DB) ([]model.UnitRow, error) {
	query := `
		SELECT
			u.id,
			u.name,
			COALESCE(u.evidence_id, ''),
			COALESCE(u.home_town, ''),
			COALESCE(u.contact_person, ''),
			COUNT(p.id) as participant_count
		FROM units u
		LEFT JOIN participants p ON u.id = p.unit_id
		GROUP BY u.id
		ORDER BY u.name
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var results []model.UnitRow
	for rows.Next() {
		var u model.UnitRow
		if err := rows.Scan(&u.ID, &u.Name, &u.EvidenceID, &u.HomeTown, &u.ContactPerson, &u.ParticipantCount); err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		results = append(results, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit rows: %w", err)
	}

	return results, nil
}

// GetUnit retrieves a single unit by ID.
func GetUnit(db *sql.DB, id int64) (model.Unit, error) {
	query := `
		SELECT id, name, evidence_id, contact_person, contact_email, contact_phone, home_town, arrival, created_at
		FROM units
		WHERE id = ?
	`

	var u model.Unit
	var evidenceID, person, email, phone, town, arrival sql.NullString
	var createdAt string

	err := db.QueryRow(query, id).Scan(
		&u.ID, &u.Name, &evidenceID, &person, &email, &phone, &town, &arrival, &createdAt,
	)
	if err != nil {
		return model.Unit{}, fmt.Errorf("failed to get unit: %w", err)
	}

	u.EvidenceID = evidenceID.String
	u.ContactPerson = person.String
	u.ContactEmail = email.String
	u.ContactPhone = phone.String
	u.HomeTown = town.String
	u.Arrival = arrival.String

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		u.CreatedAt = t
	}

	return u, nil
}

// GetUnitDetail retrieves a unit with all its regular participants.
func GetUnitDetail(db *sql.DB, id int64) (model.UnitDetail, error) {
	unit, err := GetUnit(db, id)
	if err != nil {
		return model.UnitDetail{}, err
	}

	participants, err := GetParticipantsByUnit(db, id)
	if err != nil {
		return model.UnitDetail{}, err
	}

	return model.UnitDetail{
		Unit:         unit,
		Participants: participants,
	}, nil
}

// InsertUnit creates a new unit.
func InsertUnit(db execer, u model.Unit) (int64, error) {
	query := `
		INSERT INTO units (name, evidence_id, contact_person, contact_email, contact_phone, home_town, arrival)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query, u.Name, nullString(u.EvidenceID), nullString(u.ContactPerson),
		nullString(u.ContactEmail), nullString(u.ContactPhone), nullString(u.HomeTown), nullString(u.Arrival))
	if err != nil {
		return 0, fmt.Errorf("failed to insert unit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return id, nil
}

// UpdateUnit updates an existing unit.
func UpdateUnit(db execer, u model.Unit) error {
	query := `
		UPDATE units
		SET name = ?, evidence_id = ?, contact_person = ?, contact_email = ?, contact_phone = ?, home_town = ?, arrival = ?
		WHERE id = ?
	`

	_, err := db.Exec(query, u.Name, nullString(u.EvidenceID), nullString(u.ContactPerson),
		nullString(u.ContactEmail), nullString(u.ContactPhone), nullString(u.HomeTown), nullString(u.Arrival), u.ID)
	if err != nil {
		return fmt.Errorf("failed to update unit: %w", err)
	}

	return nil
}

// SaveUnit inserts or updates a unit and applies the participant changes of
// its formset in one transaction. New participants are attached to the unit
// as regular participants. Updates and deletes only touch participants that
// belong to the unit. It returns the unit ID.
func SaveUnit(db *sql.DB, u model.Unit, changes ParticipantChanges) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if u.ID == 0 {
		id, err := InsertUnit(tx, u)
		if err != nil {
			return 0, err
		}
		u.ID = id
	} else {
		if err := UpdateUnit(tx, u); err != nil {
			return 0, err
		}
	}

	for _, id := range changes.Deletes {
		res, err := tx.Exec("DELETE FROM participants WHERE id = ? AND unit_id = ?", id, u.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to delete participant %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, fmt.Errorf("participant %d does not belong to unit %d", id, u.ID)
		}
	}

	for _, p := range changes.Updates {
		var owner sql.NullInt64
		if err := tx.QueryRow("SELECT unit_id FROM participants WHERE id = ?", p.ID).Scan(&owner); err != nil {
			return 0, fmt.Errorf("failed to look up participant %d: %w", p.ID, err)
		}
		if !owner.Valid || owner.Int64 != u.ID {
			return 0, fmt.Errorf("participant %d does not belong to unit %d", p.ID, u.ID)
		}
		if err := UpdateParticipant(tx, p); err != nil {
			return 0, err
		}
	}

	for _, p := range changes.Inserts {
		p.Kind = model.KindRegular
		p.UnitID = u.ID
		// Contact data is inherited from the unit.
		p.Email, p.Phone, p.HomeTown, p.Arrival = "", "", "", ""
		if _, err := InsertParticipant(tx, p); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return u.ID, nil
}
