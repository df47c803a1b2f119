package authz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recommend-course/internal/service"
)

func TestEnforcer_EmbeddedPolicy(t *testing.T) {
	e, err := NewEnforcer("", "")
	require.NoError(t, err)

	tests := []struct {
		name       string
		caller     service.Caller
		capability string
		want       bool
	}{
		{"student cannot view stats", service.Caller{UserID: 5, Roles: []string{"student"}}, service.CapabilityViewStats, false},
		{"manager views stats", service.Caller{UserID: 5, Roles: []string{"manager"}}, service.CapabilityViewStats, true},
		{"manager has no privacy", service.Caller{UserID: 5, Roles: []string{"manager"}}, service.CapabilityPrivacy, false},
		{"admin has privacy", service.Caller{UserID: 5, Roles: []string{"student", "admin"}}, service.CapabilityPrivacy, true},
		{"no roles", service.Caller{UserID: 5}, service.CapabilityViewStats, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := e.Can(tt.caller, tt.capability)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestEnforcer_GrantUser(t *testing.T) {
	e, err := NewEnforcer("", "")
	require.NoError(t, err)

	caller := service.Caller{UserID: 42}
	ok, err := e.Can(caller, service.CapabilityViewStats)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, e.Grant(42, "manager"))
	ok, err = e.Can(caller, service.CapabilityViewStats)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnforcer_PolicyFile(t *testing.T) {
	dir := t.TempDir()
	policy := filepath.Join(dir, "policy.csv")
	require.NoError(t, os.WriteFile(policy, []byte("p, coursecreator, recommend_course, viewstats\ng, user:7, coursecreator\n"), 0o600))

	e, err := NewEnforcer("", policy)
	require.NoError(t, err)

	ok, err := e.Can(service.Caller{UserID: 7}, service.CapabilityViewStats)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Can(service.Caller{UserID: 8, Roles: []string{"manager"}}, service.CapabilityViewStats)
	require.NoError(t, err)
	assert.False(t, ok)
}
