package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Column is a fully qualified column identifier. Only the constants below are
// ever interpolated into SQL; values always travel as bind arguments.
type Column string

const (
	UserID        Column = "users.id"
	UserFirstName Column = "users.first_name"
	UserLastName  Column = "users.last_name"
	UserEmail     Column = "users.email"
	UserGender    Column = "users.gender"
	UserCity      Column = "users.city"
	UserCreatedAt Column = "users.created_at"

	OrderID        Column = "orders.order_id"
	OrderUserID    Column = "orders.user_id"
	OrderStatus    Column = "orders.status"
	OrderNumOfItem Column = "orders.num_of_item"
	OrderCreatedAt Column = "orders.created_at"
)

// Dialect selects the SQL spelling of the few non-portable expressions.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectOf reports the dialect of an open gorm handle.
func DialectOf(db *gorm.DB) Dialect {
	if db != nil && db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return DialectPostgres
	}
	return DialectSQLite
}

func (d Dialect) substring(col Column) string {
	if d == DialectPostgres {
		return fmt.Sprintf("strpos(%s, ?) > 0", col)
	}
	return fmt.Sprintf("instr(%s, ?) > 0", col)
}

func (d Dialect) likeFold(col Column) string {
	op := "LIKE"
	if d == DialectPostgres {
		op = "ILIKE"
	}
	return fmt.Sprintf(`%s %s ? ESCAPE '\'`, col, op)
}

// Month renders the YYYY-MM bucket of a timestamp column.
func (d Dialect) Month(col Column) string {
	if d == DialectPostgres {
		return fmt.Sprintf("to_char(%s, 'YYYY-MM')", col)
	}
	return fmt.Sprintf("strftime('%%Y-%%m', %s)", col)
}

// DaysBetween renders the fractional number of days from one timestamp to another.
func (d Dialect) DaysBetween(from, to Column) string {
	if d == DialectPostgres {
		return fmt.Sprintf("EXTRACT(EPOCH FROM (%s - %s)) / 86400.0", to, from)
	}
	return fmt.Sprintf("JULIANDAY(%s) - JULIANDAY(%s)", to, from)
}

// Predicate is one parameterized boolean condition.
type Predicate struct {
	sql  string
	args []interface{}
}

func (p Predicate) SQL() string        { return p.sql }
func (p Predicate) Args() []interface{} { return p.args }

// Equals matches the column exactly.
func Equals(col Column, value interface{}) Predicate {
	return Predicate{sql: fmt.Sprintf("%s = ?", col), args: []interface{}{value}}
}

// Contains matches a case-sensitive substring.
func Contains(d Dialect, col Column, term string) Predicate {
	return Predicate{sql: d.substring(col), args: []interface{}{term}}
}

// ContainsFold matches a case-insensitive substring; LIKE wildcards in term are literal.
func ContainsFold(d Dialect, col Column, term string) Predicate {
	return Predicate{sql: d.likeFold(col), args: []interface{}{"%" + escapeLike(term) + "%"}}
}

// AnyOf joins predicates with OR inside one parenthesised group.
func AnyOf(preds ...Predicate) Predicate {
	parts := make([]string, 0, len(preds))
	var args []interface{}
	for _, p := range preds {
		parts = append(parts, p.sql)
		args = append(args, p.args...)
	}
	return Predicate{sql: "(" + strings.Join(parts, " OR ") + ")", args: args}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Filter is a conjunction of predicates. The zero value matches every row.
type Filter struct {
	preds []Predicate
}

// NewFilter builds a filter over the given predicates.
func NewFilter(preds ...Predicate) Filter {
	return Filter{preds: preds}
}

// And returns a copy of f with p appended.
func (f Filter) And(p Predicate) Filter {
	preds := make([]Predicate, 0, len(f.preds)+1)
	preds = append(preds, f.preds...)
	return Filter{preds: append(preds, p)}
}

func (f Filter) Empty() bool { return len(f.preds) == 0 }

// Clause folds the predicates into a WHERE body and its bind arguments.
func (f Filter) Clause() (string, []interface{}) {
	parts := make([]string, 0, len(f.preds))
	var args []interface{}
	for _, p := range f.preds {
		parts = append(parts, p.sql)
		args = append(args, p.args...)
	}
	return strings.Join(parts, " AND "), args
}

// Apply adds the filter to a gorm query.
func (f Filter) Apply(q *gorm.DB) *gorm.DB {
	if f.Empty() {
		return q
	}
	clause, args := f.Clause()
	return q.Where(clause, args...)
}
