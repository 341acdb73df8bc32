package users_test

import (
	"testing"

	"github.com/qlpt/rental-portal/users"
	fakeuserrepo "github.com/qlpt/rental-portal/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := users.ParseRole(" tenant ")
	require.NoError(t, err)
	require.Equal(t, users.RoleTenant, r)

	_, err = users.ParseRole("ADMIN")
	require.Error(t, err)
}

func TestUserValidate(t *testing.T) {
	require.NoError(t, (&users.User{Email: "a@b.c", Role: users.RoleOwner}).Validate())
	require.Error(t, (&users.User{Email: "", Role: users.RoleOwner}).Validate())
	require.Error(t, (&users.User{Email: "a@b.c", Role: "GUEST"}).Validate())

	var nilUser *users.User
	require.Error(t, nilUser.Validate())
}

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, users.ValidatePasswordStrength("Secret123"))
	require.ErrorContains(t, users.ValidatePasswordStrength("short"), "8 characters")
	require.ErrorContains(t, users.ValidatePasswordStrength("secret123"), "uppercase")
	require.ErrorContains(t, users.ValidatePasswordStrength("SECRET123"), "lowercase")
	require.ErrorContains(t, users.ValidatePasswordStrength("SecretABC"), "number")
}

func TestCheckPassword(t *testing.T) {
	hash, err := users.HashPassword("Secret123")
	require.NoError(t, err)

	u := &users.User{PasswordHash: hash}
	require.True(t, u.CheckPassword("Secret123"))
	require.False(t, u.CheckPassword("secret123"))
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	a := &users.User{Email: "Owner@Demo.com", Role: users.RoleOwner}
	b := &users.User{Email: "tenant@demo.com", Role: users.RoleTenant}
	require.NoError(t, repo.Upsert(a))
	require.NoError(t, repo.Upsert(b))
	require.Equal(t, 1, a.ID)
	require.Equal(t, 2, b.ID)

	got, err := repo.GetByEmail("owner@demo.com")
	require.NoError(t, err)
	require.Equal(t, a, got)

	list, err := repo.List(1, 10)
	require.NoError(t, err)
	require.Equal(t, []*users.User{b}, list)

	require.NoError(t, repo.Delete("owner@demo.com"))
	_, err = repo.GetByID(1)
	require.Error(t, err)
}
