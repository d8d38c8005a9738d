package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/victormarques-ia/apex/internal/identity"
	"github.com/victormarques-ia/apex/internal/model"
)

type CreateAthleteInput struct {
	Name           string
	TrainerID      string
	NutritionistID string
	AgencyID       string
}

type ListAthletesFilter struct {
	Name   string
	Limit  int
	Offset int
}

type AssignAthleteInput struct {
	AthleteID      string
	TrainerID      *string
	NutritionistID *string
}

func CreateAthlete(ctx context.Context, db *sql.DB, in CreateAthleteInput) (string, error) {
	actor, err := identity.FromContext(ctx)
	if err != nil {
		return "", err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return "", fmt.Errorf("athlete name is required")
	}
	in.TrainerID = strings.TrimSpace(in.TrainerID)
	in.NutritionistID = strings.TrimSpace(in.NutritionistID)
	in.AgencyID = strings.TrimSpace(in.AgencyID)

	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleAgency:
		in.AgencyID = actor.ID
	case model.RoleTrainer, model.RoleNutritionist:
		self, err := GetStaff(ctx, db, actor.ID)
		if err != nil {
			return "", err
		}
		if in.AgencyID != "" && in.AgencyID != self.AgencyID {
			return "", fmt.Errorf("staff %s cannot place athletes with agency %s: %w", actor.ID, in.AgencyID, ErrForbidden)
		}
		in.AgencyID = self.AgencyID
		if actor.Role == model.RoleTrainer {
			in.TrainerID = actor.ID
		} else {
			in.NutritionistID = actor.ID
		}
	default:
		return "", fmt.Errorf("role %s cannot add athletes: %w", actor.Role, ErrForbidden)
	}

	if err := checkStaffRole(ctx, db, in.AgencyID, model.RoleAgency); err != nil {
		return "", err
	}
	if err := checkAssignableStaff(ctx, db, actor, in.TrainerID, model.RoleTrainer, in.AgencyID); err != nil {
		return "", err
	}
	if err := checkAssignableStaff(ctx, db, actor, in.NutritionistID, model.RoleNutritionist, in.AgencyID); err != nil {
		return "", err
	}

	id := newID()
	if _, err := db.ExecContext(ctx, `
INSERT INTO athletes(id, name, trainer_id, nutritionist_id, agency_id)
VALUES(?, ?, ?, ?, ?)
`, id, in.Name, nullableString(in.TrainerID), nullableString(in.NutritionistID), nullableString(in.AgencyID)); err != nil {
		return "", fmt.Errorf("insert athlete: %w", err)
	}
	return id, nil
}

func GetAthlete(ctx context.Context, db *sql.DB, id string) (model.Athlete, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Athlete{}, fmt.Errorf("athlete id is required")
	}
	var a model.Athlete
	var createdRaw string
	err := db.QueryRowContext(ctx, `
SELECT id, name, IFNULL(trainer_id, ''), IFNULL(nutritionist_id, ''), IFNULL(agency_id, ''), created_at
FROM athletes
WHERE id = ?
`, id).Scan(&a.ID, &a.Name, &a.TrainerID, &a.NutritionistID, &a.AgencyID, &createdRaw)
	if err == sql.ErrNoRows {
		return model.Athlete{}, fmt.Errorf("athlete %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Athlete{}, fmt.Errorf("get athlete %s: %w", id, err)
	}
	a.CreatedAt = parseTimestamp(createdRaw)
	return a, nil
}

func GetAthleteForActor(ctx context.Context, db *sql.DB, id string) (model.Athlete, error) {
	return authorizeAthlete(ctx, NewRepository(db), id)
}

func ListAthletes(ctx context.Context, db *sql.DB, f ListAthletesFilter) (Page[model.Athlete], error) {
	actor, err := identity.FromContext(ctx)
	if err != nil {
		return Page[model.Athlete]{}, err
	}
	limit, offset, err := normalizePaging(f.Limit, f.Offset, defaultPageSize(ctx, db))
	if err != nil {
		return Page[model.Athlete]{}, err
	}

	where := ` WHERE 1=1`
	args := make([]any, 0)
	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleAgency:
		where += ` AND agency_id = ?`
		args = append(args, actor.ID)
	case model.RoleTrainer:
		where += ` AND trainer_id = ?`
		args = append(args, actor.ID)
	case model.RoleNutritionist:
		where += ` AND nutritionist_id = ?`
		args = append(args, actor.ID)
	case model.RoleAthlete:
		where += ` AND id = ?`
		args = append(args, actor.ID)
	default:
		return Page[model.Athlete]{}, fmt.Errorf("role %s cannot list athletes: %w", actor.Role, ErrForbidden)
	}
	if name := normalizeName(f.Name); name != "" {
		where += ` AND lower(name) LIKE ?`
		args = append(args, "%"+name+"%")
	}

	page := Page[model.Athlete]{Limit: limit, Offset: offset}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM athletes`+where, args...).Scan(&page.TotalDocs); err != nil {
		return page, fmt.Errorf("count athletes: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
SELECT id, name, IFNULL(trainer_id, ''), IFNULL(nutritionist_id, ''), IFNULL(agency_id, ''), created_at
FROM athletes`+where+` ORDER BY name ASC, id ASC LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return page, fmt.Errorf("list athletes: %w", err)
	}
	defer rows.Close()

	page.Docs = make([]model.Athlete, 0)
	for rows.Next() {
		var a model.Athlete
		var createdRaw string
		if err := rows.Scan(&a.ID, &a.Name, &a.TrainerID, &a.NutritionistID, &a.AgencyID, &createdRaw); err != nil {
			return page, fmt.Errorf("scan athlete: %w", err)
		}
		a.CreatedAt = parseTimestamp(createdRaw)
		page.Docs = append(page.Docs, a)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("iterate athletes: %w", err)
	}
	return page, nil
}

// AssignAthlete changes an athlete's trainer and/or nutritionist. A pointer to
// an empty string clears the assignment.
func AssignAthlete(ctx context.Context, db *sql.DB, in AssignAthleteInput) error {
	if in.TrainerID == nil && in.NutritionistID == nil {
		return fmt.Errorf("set a trainer or nutritionist to assign")
	}
	actor, err := identity.FromContext(ctx)
	if err != nil {
		return err
	}
	athlete, err := authorizeAthlete(ctx, NewRepository(db), in.AthleteID, model.RoleAgency)
	if err != nil {
		return err
	}
	trainer := athlete.TrainerID
	if in.TrainerID != nil {
		trainer = strings.TrimSpace(*in.TrainerID)
		if err := checkAssignableStaff(ctx, db, actor, trainer, model.RoleTrainer, athlete.AgencyID); err != nil {
			return err
		}
	}
	nutritionist := athlete.NutritionistID
	if in.NutritionistID != nil {
		nutritionist = strings.TrimSpace(*in.NutritionistID)
		if err := checkAssignableStaff(ctx, db, actor, nutritionist, model.RoleNutritionist, athlete.AgencyID); err != nil {
			return err
		}
	}
	if _, err := db.ExecContext(ctx, `
UPDATE athletes SET trainer_id = ?, nutritionist_id = ? WHERE id = ?
`, nullableString(trainer), nullableString(nutritionist), athlete.ID); err != nil {
		return fmt.Errorf("assign athlete %s: %w", athlete.ID, err)
	}
	return nil
}

func checkStaffRole(ctx context.Context, db *sql.DB, id string, role model.Role) error {
	_, err := staffWithRole(ctx, db, id, role)
	return err
}

// checkAssignableStaff also requires staff assigned by a non-admin actor to
// belong to agencyID. An empty agencyID admits only independent staff.
func checkAssignableStaff(ctx context.Context, db *sql.DB, actor identity.Actor, id string, role model.Role, agencyID string) error {
	s, err := staffWithRole(ctx, db, id, role)
	if err != nil || id == "" || actor.Role == model.RoleAdmin {
		return err
	}
	if s.AgencyID != agencyID {
		return fmt.Errorf("staff %s is outside agency %q: %w", id, agencyID, ErrForbidden)
	}
	return nil
}

func staffWithRole(ctx context.Context, db *sql.DB, id string, role model.Role) (model.Staff, error) {
	if id == "" {
		return model.Staff{}, nil
	}
	s, err := GetStaff(ctx, db, id)
	if err != nil {
		return model.Staff{}, err
	}
	if s.Role != role {
		return model.Staff{}, fmt.Errorf("staff %s is a %s, not a %s", id, s.Role, role)
	}
	return s, nil
}
