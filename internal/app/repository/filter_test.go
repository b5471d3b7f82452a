package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Clause(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:    "empty filter",
			filter:  Filter{},
			wantSQL: "",
		},
		{
			name:     "single equality",
			filter:   NewFilter(Equals(UserGender, "F")),
			wantSQL:  "users.gender = ?",
			wantArgs: []interface{}{"F"},
		},
		{
			name: "conjunction keeps argument order",
			filter: NewFilter(
				Contains(DialectSQLite, UserCity, "York"),
				Equals(UserGender, "M"),
			),
			wantSQL:  "instr(users.city, ?) > 0 AND users.gender = ?",
			wantArgs: []interface{}{"York", "M"},
		},
		{
			name: "disjunction is grouped",
			filter: NewFilter(
				Equals(OrderStatus, "Shipped"),
				AnyOf(
					ContainsFold(DialectSQLite, UserFirstName, "ann"),
					ContainsFold(DialectSQLite, UserEmail, "ann"),
				),
			),
			wantSQL:  `orders.status = ? AND (users.first_name LIKE ? ESCAPE '\' OR users.email LIKE ? ESCAPE '\')`,
			wantArgs: []interface{}{"Shipped", "%ann%", "%ann%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.filter.Clause()
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilter_AndDoesNotAlias(t *testing.T) {
	base := NewFilter(Equals(UserGender, "F"))
	a := base.And(Equals(UserCity, "Paris"))
	b := base.And(Equals(UserCity, "Rome"))

	_, baseArgs := base.Clause()
	_, aArgs := a.Clause()
	_, bArgs := b.Clause()

	assert.Equal(t, []interface{}{"F"}, baseArgs)
	assert.Equal(t, []interface{}{"F", "Paris"}, aArgs)
	assert.Equal(t, []interface{}{"F", "Rome"}, bArgs)
	assert.True(t, Filter{}.Empty())
	assert.False(t, base.Empty())
}

func TestContainsFold_EscapesWildcards(t *testing.T) {
	p := ContainsFold(DialectSQLite, UserEmail, `50%_off\now`)
	assert.Equal(t, []interface{}{`%50\%\_off\\now%`}, p.Args())
}

func TestDialect_Postgres(t *testing.T) {
	assert.Equal(t, "strpos(users.city, ?) > 0", Contains(DialectPostgres, UserCity, "x").SQL())
	assert.Equal(t, `users.email ILIKE ? ESCAPE '\'`, ContainsFold(DialectPostgres, UserEmail, "x").SQL())
	assert.Equal(t, "to_char(orders.created_at, 'YYYY-MM')", DialectPostgres.Month(OrderCreatedAt))
	assert.Equal(t, "strftime('%Y-%m', orders.created_at)", DialectSQLite.Month(OrderCreatedAt))
	assert.Equal(t,
		"EXTRACT(EPOCH FROM (orders.delivered_at - orders.created_at)) / 86400.0",
		DialectPostgres.DaysBetween(OrderCreatedAt, "orders.delivered_at"))
}

func TestFilter_AgainstSQLite(t *testing.T) {
	testDB := setupRepositoryTest(t)
	assert.Equal(t, DialectSQLite, DialectOf(testDB))

	a := newCustomer(1, "Anna", "Smith")
	a.City = ptr("New York")
	b := newCustomer(2, "Bob", "Jones")
	b.City = ptr("new york")
	b.Email = "100%_bob@example.com"
	c := newCustomer(3, "Carl", "Annan")
	c.City = ptr("Boston")
	insertCustomers(t, testDB, a, b, c)

	count := func(f Filter) int64 {
		var n int64
		require.NoError(t, f.Apply(testDB.Table("users")).Count(&n).Error)
		return n
	}

	assert.Equal(t, int64(3), count(Filter{}))
	assert.Equal(t, int64(1), count(NewFilter(Contains(DialectSQLite, UserCity, "York"))), "city match is case-sensitive")
	assert.Equal(t, int64(2), count(NewFilter(AnyOf(
		ContainsFold(DialectSQLite, UserFirstName, "ANN"),
		ContainsFold(DialectSQLite, UserLastName, "ANN"),
	))))
	assert.Equal(t, int64(1), count(NewFilter(ContainsFold(DialectSQLite, UserEmail, "0%_b"))))
	assert.Equal(t, int64(1), count(NewFilter(ContainsFold(DialectSQLite, UserEmail, "%"))), "wildcards are literal")
	assert.Equal(t, int64(0), count(NewFilter(Equals(UserCity, "Boston'; DROP TABLE users; --"))))
	assert.Equal(t, int64(3), count(Filter{}))
}
