package core

import "context"

// RoleKind classifies an authenticated user. Authentication itself happens
// in an external identity provider, the backend only maps emails to roles.
type RoleKind string

const (
	RoleAdmin        RoleKind = "admin"
	RoleRequester    RoleKind = "requester"
	RoleEvaluator    RoleKind = "evaluator"
	RoleUnauthorized RoleKind = "unauthorized"
)

type Role struct {
	Kind        RoleKind
	EvaluatorID string
}

// Directory is the static email lookup, loaded from configuration.
type Directory struct {
	Admins     []string
	Requesters []string
	Evaluators map[string]string
}

func (d Directory) Classify(email string) Role {
	if id, ok := d.Evaluators[email]; ok {
		return Role{Kind: RoleEvaluator, EvaluatorID: id}
	}
	for _, admin := range d.Admins {
		if admin == email {
			return Role{Kind: RoleAdmin}
		}
	}
	for _, requester := range d.Requesters {
		if requester == email {
			return Role{Kind: RoleRequester}
		}
	}
	return Role{Kind: RoleUnauthorized}
}

type roleContextKey struct{}

func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleContextKey{}, role)
}

func RoleFrom(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleContextKey{}).(Role)
	return role, ok
}
