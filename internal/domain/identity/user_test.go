package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		user, err := NewUser("Marie.Laurent", "motdepasse8")
		require.NoError(t, err)
		assert.Equal(t, "marie.laurent", user.Username, "username is lowercased")
		assert.Equal(t, UserStatusPending, user.Status)
		assert.NotEqual(t, "motdepasse8", user.PasswordHash)
		assert.True(t, user.VerifyPassword("motdepasse8"))
		assert.False(t, user.VerifyPassword("autre"))
	})

	t.Run("short username", func(t *testing.T) {
		_, err := NewUser("ab", "motdepasse8")
		assert.Error(t, err)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := NewUser("marie", "court")
		assert.Error(t, err)
	})

	t.Run("active user", func(t *testing.T) {
		user, err := NewActiveUser("caisse1", "motdepasse8")
		require.NoError(t, err)
		assert.True(t, user.IsActive())
	})
}

func TestUserPasswords(t *testing.T) {
	user, err := NewActiveUser("paul", "ancienmdp1")
	require.NoError(t, err)

	t.Run("change with correct old password", func(t *testing.T) {
		require.NoError(t, user.ChangePassword("ancienmdp1", "nouveaumdp1"))
		assert.True(t, user.VerifyPassword("nouveaumdp1"))
		assert.False(t, user.VerifyPassword("ancienmdp1"))
	})

	t.Run("change with wrong old password", func(t *testing.T) {
		assert.Error(t, user.ChangePassword("faux", "encoreunmdp1"))
	})

	t.Run("admin reset skips old password", func(t *testing.T) {
		require.NoError(t, user.SetPassword("resetparadmin1"))
		assert.True(t, user.VerifyPassword("resetparadmin1"))
	})
}

func TestUserLockout(t *testing.T) {
	user, err := NewActiveUser("verrou", "motdepasse8")
	require.NoError(t, err)

	for i := 0; i < maxFailedAttempts-1; i++ {
		user.RecordFailedLogin()
	}
	assert.True(t, user.CanLogin(), "still allowed just under the limit")

	user.RecordFailedLogin()
	assert.Equal(t, UserStatusLocked, user.Status)
	assert.True(t, user.IsLockedOut())
	assert.False(t, user.CanLogin())

	user.Unlock()
	assert.True(t, user.CanLogin())
	assert.Equal(t, 0, user.FailedAttempts)

	user.RecordLogin()
	assert.NotNil(t, user.LastLoginAt)
}

func TestUserRoles(t *testing.T) {
	user, err := NewActiveUser("referente", "motdepasse8")
	require.NoError(t, err)
	roleID := uuid.New()

	require.NoError(t, user.AssignRole(roleID))
	assert.True(t, user.HasRole(roleID))

	assert.Error(t, user.AssignRole(roleID), "assigning twice should fail")

	require.NoError(t, user.RemoveRole(roleID))
	assert.False(t, user.HasRole(roleID))
	assert.Error(t, user.RemoveRole(roleID))

	a, b := uuid.New(), uuid.New()
	require.NoError(t, user.SetRoles([]uuid.UUID{a, b, a}))
	assert.Len(t, user.RoleIDs, 2, "duplicates removed")
}

func TestNewRole(t *testing.T) {
	t.Run("valid role", func(t *testing.T) {
		role, err := NewRole("referent", "Référente de catalogue")
		require.NoError(t, err)
		assert.Equal(t, "REFERENT", role.Code)
		assert.False(t, role.IsSystem)
		assert.True(t, role.CanDelete())
	})

	t.Run("system role cannot be deleted", func(t *testing.T) {
		role, err := NewSystemRole(RoleCodeAdmin, "Administration")
		require.NoError(t, err)
		assert.False(t, role.CanDelete())
	})

	t.Run("invalid code", func(t *testing.T) {
		_, err := NewRole("rôle!", "Invalide")
		assert.Error(t, err)
	})
}

func TestRolePermissions(t *testing.T) {
	role, err := NewRole("caissier", "Caisse")
	require.NoError(t, err)

	checkout, err := NewPermission("caisse", "checkout")
	require.NoError(t, err)

	require.NoError(t, role.GrantPermission(*checkout))
	assert.True(t, role.HasPermission("caisse:checkout"))
	assert.False(t, role.HasPermission("caisse:refund"))

	assert.Error(t, role.GrantPermission(*checkout), "granting twice should fail")

	t.Run("resource wildcard", func(t *testing.T) {
		wildcard, err := NewPermission("product", "*")
		require.NoError(t, err)
		require.NoError(t, role.GrantPermission(*wildcard))

		assert.True(t, role.HasPermission("product:create"))
		assert.True(t, role.HasPermission("product:delete"))
		assert.False(t, role.HasPermission("supplier:create"))
	})

	t.Run("revoke", func(t *testing.T) {
		require.NoError(t, role.RevokePermission("caisse:checkout"))
		assert.False(t, role.HasPermission("caisse:checkout"))
		assert.Error(t, role.RevokePermission("caisse:checkout"))
	})
}

func TestPermissionParsing(t *testing.T) {
	perm, err := NewPermissionFromCode("catalogue:open")
	require.NoError(t, err)
	assert.Equal(t, "catalogue", perm.Resource)
	assert.Equal(t, "open", perm.Action)

	_, err = NewPermissionFromCode("sansaction")
	assert.Error(t, err)
}

func TestRoleOwnScoping(t *testing.T) {
	role, err := NewSystemRole(RoleCodeReferent, "Référent")
	require.NoError(t, err)

	assert.False(t, role.OwnScoped)
	role.SetOwnScoped(true)
	assert.True(t, role.OwnScoped)
}
