package querylanguage_test

import (
	"testing"

	"github.com/npagen/npagen/querylanguage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userMeta() map[string]querylanguage.EntityMeta {
	return map[string]querylanguage.EntityMeta{
		"User": {
			Table: "users",
			Properties: []querylanguage.PropertyMeta{
				{Name: "Id", Column: "id"},
				{Name: "Email", Column: "email"},
				{Name: "Active", Column: "active"},
			},
		},
	}
}

func orderMeta() map[string]querylanguage.EntityMeta {
	return map[string]querylanguage.EntityMeta{
		"Order": {
			Table: "orders",
			Properties: []querylanguage.PropertyMeta{
				{Name: "Id", Column: "id"},
				{Name: "Amount", Column: "amount"},
				{Name: "CustomerId", Column: "customer_id"},
			},
		},
	}
}

func TestTranslatePassesPlainSQLThrough(t *testing.T) {
	sql := "SELECT * FROM users WHERE email = @email"
	out, err := querylanguage.Translate(sql, nil)
	require.NoError(t, err)
	assert.Equal(t, sql, out)
}

func TestTranslatePassesPlainSQLWithMetaThrough(t *testing.T) {
	sql := "SELECT * FROM users WHERE id > 10 ORDER BY created_at DESC"
	out, err := querylanguage.Translate(sql, userMeta())
	require.NoError(t, err)
	assert.Equal(t, sql, out)
}

func TestTranslateAggregateWithAliasExpansion(t *testing.T) {
	cpql := "SELECT AVG(o.Amount) FROM Order o WHERE o.CustomerId = :id"
	out, err := querylanguage.Translate(cpql, orderMeta())
	require.NoError(t, err)
	assert.Equal(t, "SELECT AVG(amount) FROM orders o WHERE customer_id = @id", out)
}

func TestTranslateBareAliasSelectExpansion(t *testing.T) {
	cpql := "SELECT u FROM User u WHERE u.Active = :active"
	out, err := querylanguage.Translate(cpql, userMeta())
	require.NoError(t, err)
	assert.Equal(t, "SELECT u.id AS Id, u.email AS Email, u.active AS Active FROM users u WHERE active = @active", out)
}

func TestTranslateCountOfAliasBecomesCountStar(t *testing.T) {
	cpql := "SELECT COUNT(u) FROM User u WHERE u.Active = :active"
	out, err := querylanguage.Translate(cpql, userMeta())
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM users u WHERE active = @active", out)
}

func TestTranslateParamOnlyRewritesPlaceholders(t *testing.T) {
	cpql := "UPDATE User SET email = :email WHERE id = :id"
	out, err := querylanguage.Translate(cpql, userMeta())
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET email = @email WHERE id = @id", out)
}

func TestTranslateUnknownPropertyErrors(t *testing.T) {
	cpql := "SELECT u FROM User u WHERE u.Nickname = :n"
	_, err := querylanguage.Translate(cpql, userMeta())
	require.Error(t, err)
}

func TestTranslateWithoutMetaStripsAliasesAndParams(t *testing.T) {
	cpql := "SELECT u FROM User u WHERE u.Active = :active"
	out, err := querylanguage.Translate(cpql, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM User WHERE Active = @active", out)
}
