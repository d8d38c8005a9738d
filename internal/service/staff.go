package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/victormarques-ia/apex/internal/identity"
	"github.com/victormarques-ia/apex/internal/model"
)

type CreateStaffInput struct {
	Name     string
	Role     string
	AgencyID string
}

func CreateStaff(ctx context.Context, db *sql.DB, in CreateStaffInput) (string, error) {
	actor, err := identity.FromContext(ctx)
	if err != nil {
		return "", err
	}
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleAgency {
		return "", fmt.Errorf("role %s cannot add staff: %w", actor.Role, ErrForbidden)
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return "", fmt.Errorf("staff name is required")
	}
	role, err := identity.ParseRole(in.Role)
	if err != nil {
		return "", err
	}
	if role != model.RoleAgency && role != model.RoleTrainer && role != model.RoleNutritionist {
		return "", fmt.Errorf("staff role must be agency, trainer, or nutritionist")
	}
	in.AgencyID = strings.TrimSpace(in.AgencyID)
	if actor.Role == model.RoleAgency {
		if role == model.RoleAgency {
			return "", fmt.Errorf("agencies cannot add other agencies: %w", ErrForbidden)
		}
		in.AgencyID = actor.ID
	}
	if in.AgencyID != "" {
		agency, err := GetStaff(ctx, db, in.AgencyID)
		if err != nil {
			return "", err
		}
		if agency.Role != model.RoleAgency {
			return "", fmt.Errorf("staff %s is not an agency", in.AgencyID)
		}
	}

	id := newID()
	if _, err := db.ExecContext(ctx, `
INSERT INTO staff(id, name, role, agency_id)
VALUES(?, ?, ?, ?)
`, id, in.Name, string(role), nullableString(in.AgencyID)); err != nil {
		return "", fmt.Errorf("insert staff: %w", err)
	}
	return id, nil
}

func GetStaff(ctx context.Context, db *sql.DB, id string) (model.Staff, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Staff{}, fmt.Errorf("staff id is required")
	}
	var s model.Staff
	var role string
	var createdRaw string
	err := db.QueryRowContext(ctx, `
SELECT id, name, role, IFNULL(agency_id, ''), created_at
FROM staff
WHERE id = ?
`, id).Scan(&s.ID, &s.Name, &role, &s.AgencyID, &createdRaw)
	if err == sql.ErrNoRows {
		return model.Staff{}, fmt.Errorf("staff %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Staff{}, fmt.Errorf("get staff %s: %w", id, err)
	}
	s.Role = model.Role(role)
	s.CreatedAt = parseTimestamp(createdRaw)
	return s, nil
}

func ListStaff(ctx context.Context, db *sql.DB, role string) ([]model.Staff, error) {
	actor, err := identity.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, name, role, IFNULL(agency_id, ''), created_at FROM staff WHERE 1=1`
	args := make([]any, 0)
	if strings.TrimSpace(role) != "" {
		r, err := identity.ParseRole(role)
		if err != nil {
			return nil, err
		}
		query += ` AND role = ?`
		args = append(args, string(r))
	}
	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleAgency:
		query += ` AND (agency_id = ? OR id = ?)`
		args = append(args, actor.ID, actor.ID)
	case model.RoleTrainer, model.RoleNutritionist:
		self, err := GetStaff(ctx, db, actor.ID)
		if err != nil {
			return nil, err
		}
		if self.AgencyID == "" {
			query += ` AND id = ?`
			args = append(args, self.ID)
		} else {
			query += ` AND (agency_id = ? OR id = ?)`
			args = append(args, self.AgencyID, self.AgencyID)
		}
	case model.RoleAthlete:
		query += ` AND id IN (SELECT trainer_id FROM athletes WHERE id = ? UNION SELECT nutritionist_id FROM athletes WHERE id = ? UNION SELECT agency_id FROM athletes WHERE id = ?)`
		args = append(args, actor.ID, actor.ID, actor.ID)
	default:
		return nil, fmt.Errorf("role %s cannot list staff: %w", actor.Role, ErrForbidden)
	}
	query += ` ORDER BY name ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	items := make([]model.Staff, 0)
	for rows.Next() {
		var s model.Staff
		var r string
		var createdRaw string
		if err := rows.Scan(&s.ID, &s.Name, &r, &s.AgencyID, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		s.Role = model.Role(r)
		s.CreatedAt = parseTimestamp(createdRaw)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff: %w", err)
	}
	return items, nil
}

func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
