package sql_test

import (
	"testing"

	"github.com/npagen/npagen/dialect/sql"

	"github.com/stretchr/testify/assert"
)

func TestSelectSQLiteLimitOffset(t *testing.T) {
	out := sql.Select(sql.DialectSQLite,
		[]string{"u.id", "u.email"}, "users", "u",
		nil, "u.active = @active",
		[]sql.OrderByClause{{Column: "u.created_at", Desc: true}},
		10, 20)
	assert.Equal(t,
		"SELECT u.id, u.email FROM users u WHERE u.active = @active ORDER BY u.created_at DESC LIMIT 10 OFFSET 20",
		out)
}

func TestSelectSQLServerPagination(t *testing.T) {
	out := sql.Select(sql.DialectSQLServer,
		[]string{"id"}, "users", "",
		nil, "", nil, 10, 0)
	assert.Equal(t, "SELECT id FROM users ORDER BY (SELECT NULL) OFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY", out)
}

func TestSelectWithJoin(t *testing.T) {
	out := sql.Select(sql.DialectPostgres,
		[]string{"o.id", "c.name"}, "orders", "o",
		[]sql.Join{{Kind: "LEFT", Table: "customers", Alias: "c", On: "o.customer_id = c.id"}},
		"", nil, 0, 0)
	assert.Equal(t, "SELECT o.id, c.name FROM orders o LEFT JOIN customers c ON o.customer_id = c.id", out)
}

func TestInsertUpdateDelete(t *testing.T) {
	assert.Equal(t, "INSERT INTO users (email, active) VALUES (@email, @active)",
		sql.Insert("users", []string{"email", "active"}, []string{"@email", "@active"}))
	assert.Equal(t, "UPDATE users SET email = @email WHERE id = @id",
		sql.Update("users", []string{"email = @email"}, "id = @id"))
	assert.Equal(t, "DELETE FROM users WHERE id = @id", sql.Delete("users", "id = @id"))
}

func TestCountAndExists(t *testing.T) {
	assert.Equal(t, "SELECT COUNT(1) FROM users WHERE active = @active", sql.Count("users", "active = @active"))
	assert.Equal(t, "SELECT COUNT(1) FROM users WHERE active = @active", sql.Exists("users", "active = @active"))
}

func TestAggregateWrapsSumOnly(t *testing.T) {
	assert.Equal(t, "COALESCE(SUM(amount), 0)", sql.Aggregate("SUM", "amount"))
	assert.Equal(t, "AVG(amount)", sql.Aggregate("AVG", "amount"))
	assert.Equal(t, "MIN(amount)", sql.Aggregate("MIN", "amount"))
	assert.Equal(t, "MAX(amount)", sql.Aggregate("MAX", "amount"))
}

func TestGroupBySummary(t *testing.T) {
	out := sql.GroupBySummary("customers", "orders", "customer_id",
		[]string{"customers.id", "customers.name"},
		[]sql.AggregateExpr{{Func: "SUM", Col: "orders.amount", Alias: "TotalAmount"}})
	assert.Equal(t,
		"SELECT customers.id, customers.name, COALESCE(SUM(orders.amount), 0) AS TotalAmount FROM customers LEFT JOIN orders ON customers.id = orders.customer_id GROUP BY customers.id, customers.name",
		out)
}
