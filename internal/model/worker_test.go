package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePermissions(t *testing.T) {
	t.Parallel()

	t.Run("json array", func(t *testing.T) {
		set := ParsePermissions(`["create_worker", "edit_worker"]`)
		require.False(t, set.Wildcard)
		require.True(t, set.Has("create_worker"))
		require.True(t, set.Has("edit_worker"))
		require.False(t, set.Has("delete_worker"))
	})

	t.Run("bare wildcard", func(t *testing.T) {
		set := ParsePermissions(`*`)
		require.True(t, set.Wildcard)
		require.True(t, set.Has("anything_at_all"))
	})

	t.Run("wildcard inside array", func(t *testing.T) {
		set := ParsePermissions(`["*"]`)
		require.True(t, set.Wildcard)
		require.True(t, set.Has("create_program"))
	})

	t.Run("bare string fallback", func(t *testing.T) {
		// Historical rows store a single permission without array brackets.
		set := ParsePermissions(`view_program`)
		require.True(t, set.Has("view_program"))
		require.False(t, set.Has("create_program"))
	})

	t.Run("malformed json falls back to bare string", func(t *testing.T) {
		set := ParsePermissions(`["unterminated`)
		require.True(t, set.Has(`["unterminated`))
		require.False(t, set.Wildcard)
	})

	t.Run("empty and whitespace values grant nothing", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "[]", `["", "  "]`} {
			set := ParsePermissions(raw)
			require.False(t, set.Wildcard, "raw=%q", raw)
			require.False(t, set.Has("view_program"), "raw=%q", raw)
		}
	})
}

func TestPermissionSetHasAll(t *testing.T) {
	t.Parallel()

	explicit := ParsePermissions(`["create_program", "edit_program"]`)
	require.True(t, explicit.HasAll(nil))
	require.True(t, explicit.HasAll([]string{"create_program"}))
	require.True(t, explicit.HasAll([]string{"create_program", "edit_program"}))
	require.False(t, explicit.HasAll([]string{"create_program", "delete_program"}))

	wildcard := ParsePermissions(`*`)
	require.True(t, wildcard.HasAll([]string{"create_worker", "delete_worker", "made_up_permission"}))
}

func TestPermissionSetMarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ParsePermissions(`*`))
	require.NoError(t, err)
	require.JSONEq(t, `["*"]`, string(data))

	data, err = json.Marshal(ParsePermissions(`["view_program"]`))
	require.NoError(t, err)
	require.JSONEq(t, `["view_program"]`, string(data))
}

func TestWorkerProfile(t *testing.T) {
	t.Parallel()

	worker := Worker{
		WorkerID:     12,
		EmployeeID:   "EMP012",
		FullName:     "Ada Example",
		Email:        "ada@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$salt$hash",
		Role:         Role{RoleDescription: "Viewer"},
	}

	profile := worker.Profile()
	require.Equal(t, "EMP012", profile.EmployeeID)
	require.Equal(t, "Viewer", profile.Role)

	// The projection type has no hash field at all; serialize it to make sure
	// nothing secret leaks through.
	data, err := json.Marshal(profile)
	require.NoError(t, err)
	require.NotContains(t, string(data), "argon2id")
}
