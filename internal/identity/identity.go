// Package identity carries the authenticated actor through a request context.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/victormarques-ia/apex/internal/model"
)

var ErrNoActor = errors.New("no actor in context")

type Actor struct {
	ID   string
	Role model.Role
}

type ctxKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func FromContext(ctx context.Context) (Actor, error) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	if !ok {
		return Actor{}, ErrNoActor
	}
	return a, nil
}

func ParseRole(value string) (model.Role, error) {
	role := model.Role(strings.TrimSpace(strings.ToLower(value)))
	switch role {
	case model.RoleAdmin, model.RoleAgency, model.RoleTrainer, model.RoleNutritionist, model.RoleAthlete:
		return role, nil
	case "":
		return "", fmt.Errorf("role is required")
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// NewActor validates an actor. Every role except admin needs an id.
func NewActor(id, role string) (Actor, error) {
	r, err := ParseRole(role)
	if err != nil {
		return Actor{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" && r != model.RoleAdmin {
		return Actor{}, fmt.Errorf("actor id is required for role %s", r)
	}
	return Actor{ID: id, Role: r}, nil
}
