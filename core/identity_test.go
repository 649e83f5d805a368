package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	directory := Directory{
		Admins:     []string{"admin@greenergy.ph"},
		Requesters: []string{"requester@greenergy.ph"},
		Evaluators: map[string]string{
			"caryl.apa@greenergy.com": "caryl",
		},
	}

	tests := []struct {
		email string
		want  Role
	}{
		{"caryl.apa@greenergy.com", Role{Kind: RoleEvaluator, EvaluatorID: "caryl"}},
		{"admin@greenergy.ph", Role{Kind: RoleAdmin}},
		{"requester@greenergy.ph", Role{Kind: RoleRequester}},
		{"stranger@example.com", Role{Kind: RoleUnauthorized}},
		{"", Role{Kind: RoleUnauthorized}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, directory.Classify(tt.email), "email %q", tt.email)
	}
}
