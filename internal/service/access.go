package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/victormarques-ia/apex/internal/identity"
	"github.com/victormarques-ia/apex/internal/model"
)

var ErrForbidden = errors.New("forbidden")

func CanAccessAthlete(a identity.Actor, athlete model.Athlete) bool {
	switch a.Role {
	case model.RoleAdmin:
		return true
	case model.RoleAgency:
		return a.ID != "" && athlete.AgencyID == a.ID
	case model.RoleTrainer:
		return a.ID != "" && athlete.TrainerID == a.ID
	case model.RoleNutritionist:
		return a.ID != "" && athlete.NutritionistID == a.ID
	case model.RoleAthlete:
		return a.ID != "" && athlete.ID == a.ID
	default:
		return false
	}
}

type athleteGetter interface {
	GetAthlete(ctx context.Context, id string) (model.Athlete, error)
}

func authorizeAthlete(ctx context.Context, repo athleteGetter, athleteID string, roles ...model.Role) (model.Athlete, error) {
	actor, err := identity.FromContext(ctx)
	if err != nil {
		return model.Athlete{}, err
	}
	if len(roles) > 0 && !hasRole(actor, roles) {
		return model.Athlete{}, fmt.Errorf("role %s cannot perform this action: %w", actor.Role, ErrForbidden)
	}
	athlete, err := repo.GetAthlete(ctx, athleteID)
	if err != nil {
		return model.Athlete{}, err
	}
	if !CanAccessAthlete(actor, athlete) {
		return model.Athlete{}, fmt.Errorf("athlete %s: %w", athleteID, ErrForbidden)
	}
	return athlete, nil
}

func hasRole(a identity.Actor, roles []model.Role) bool {
	if a.Role == model.RoleAdmin {
		return true
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
