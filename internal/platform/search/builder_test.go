package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testEnums = EnumMap{
	"OrderStatus": {"PENDING", "COMPLETED", "CANCELLED"},
}

// Wednesday, mid-month, so week and month windows differ.
var fixedNow = time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

func withFixedNow(t *testing.T) {
	t.Helper()
	timeNow = func() time.Time { return fixedNow }
	t.Cleanup(func() { timeNow = time.Now })
}

func TestBuild_EmptyTermMatchesEverything(t *testing.T) {
	fields := []FieldSpec{{Name: "name", Type: String}}

	for _, term := range []string{"", "   ", "\t"} {
		clause, args := ToSQL(Build(term, fields, nil), 1)
		assert.Equal(t, "TRUE", clause)
		assert.Empty(t, args)
	}
}

func TestBuild_StringContainment(t *testing.T) {
	clause, args := ToSQL(Build("gift card", []FieldSpec{{Name: "name", Type: String}}, nil), 1)

	assert.Equal(t, "name ILIKE $1", clause)
	assert.Equal(t, []interface{}{"%gift card%"}, args)
}

func TestBuild_StringExact(t *testing.T) {
	clause, args := ToSQL(Build("KEY-1", []FieldSpec{{Name: "key", Type: String, Exact: true}}, nil), 1)

	assert.Equal(t, "key = $1", clause)
	assert.Equal(t, []interface{}{"KEY-1"}, args)
}

func TestBuild_StringContainmentEscapesWildcards(t *testing.T) {
	clause, args := ToSQL(Build("50%_off", []FieldSpec{{Name: "name", Type: String}}, nil), 1)

	assert.Equal(t, "name ILIKE $1", clause)
	assert.Equal(t, []interface{}{`%50\%\_off%`}, args)
}

func TestBuild_NumberParses(t *testing.T) {
	clause, args := ToSQL(Build("42", []FieldSpec{{Name: "age", Type: Number}}, nil), 1)

	assert.Equal(t, "age = $1", clause)
	assert.Equal(t, []interface{}{42.0}, args)
}

func TestBuild_NumberUnparseableFallsBackToMatchAll(t *testing.T) {
	clause, args := ToSQL(Build("forty-two", []FieldSpec{{Name: "age", Type: Number}}, nil), 1)

	assert.Equal(t, "TRUE", clause)
	assert.Empty(t, args)
}

func TestBuild_Boolean(t *testing.T) {
	clause, args := ToSQL(Build("TRUE", []FieldSpec{{Name: "auto_deliver", Type: Boolean}}, nil), 1)
	assert.Equal(t, "auto_deliver = $1", clause)
	assert.Equal(t, []interface{}{true}, args)

	clause, _ = ToSQL(Build("yes", []FieldSpec{{Name: "auto_deliver", Type: Boolean}}, nil), 1)
	assert.Equal(t, "TRUE", clause)
}

func TestBuild_EnumCaseInsensitive(t *testing.T) {
	fields := []FieldSpec{{Name: "status", Type: Enum, EnumType: "OrderStatus"}}

	clause, args := ToSQL(Build("pending", fields, testEnums), 1)
	assert.Equal(t, "status = $1", clause)
	assert.Equal(t, []interface{}{"PENDING"}, args)

	// unknown value contributes nothing
	clause, _ = ToSQL(Build("SHIPPED", fields, testEnums), 1)
	assert.Equal(t, "TRUE", clause)
}

func TestBuild_DateLiteralCoversWholeDay(t *testing.T) {
	clause, args := ToSQL(Build("2024-05-15", []FieldSpec{{Name: "created_at", Type: Date}}, nil), 1)

	assert.Equal(t, "created_at BETWEEN $1 AND $2", clause)
	from := args[0].(time.Time)
	to := args[1].(time.Time)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 5, 15, 23, 59, 59, 999000000, time.UTC), to)
}

func TestBuild_DateKeywordToday(t *testing.T) {
	withFixedNow(t)

	_, args := ToSQL(Build("Today", []FieldSpec{{Name: "created_at", Type: Date}}, nil), 1)

	from := args[0].(time.Time)
	to := args[1].(time.Time)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 5, 15, 23, 59, 59, 999000000, time.UTC), to)
	assert.True(t, !fixedNow.Before(from) && !fixedNow.After(to), "now must fall inside the day window")
}

func TestBuild_DateKeywordYesterday(t *testing.T) {
	withFixedNow(t)

	_, args := ToSQL(Build("yesterday", []FieldSpec{{Name: "created_at", Type: Date}}, nil), 1)

	assert.Equal(t, time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC), args[0])
	assert.Equal(t, time.Date(2024, 5, 14, 23, 59, 59, 999000000, time.UTC), args[1])
}

func TestBuild_DateKeywordThisWeekStartsSunday(t *testing.T) {
	withFixedNow(t)

	for _, term := range []string{"this week", "thisweek", "This  Week"} {
		_, args := ToSQL(Build(term, []FieldSpec{{Name: "created_at", Type: Date}}, nil), 1)

		// 2024-05-15 is a Wednesday; the week began Sunday 2024-05-12.
		assert.Equal(t, time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), args[0])
		assert.Equal(t, time.Date(2024, 5, 18, 23, 59, 59, 999000000, time.UTC), args[1])
	}
}

func TestBuild_DateKeywordThisMonth(t *testing.T) {
	withFixedNow(t)

	_, args := ToSQL(Build("thismonth", []FieldSpec{{Name: "created_at", Type: Date}}, nil), 1)

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), args[0])
	assert.Equal(t, time.Date(2024, 5, 31, 23, 59, 59, 999000000, time.UTC), args[1])
}

func TestBuild_DateUnrecognizedContributesNothing(t *testing.T) {
	clause, args := ToSQL(Build("someday", []FieldSpec{{Name: "created_at", Type: Date}}, nil), 1)

	assert.Equal(t, "TRUE", clause)
	assert.Empty(t, args)
}

func TestBuild_MultipleFieldsAreORed(t *testing.T) {
	fields := []FieldSpec{
		{Name: "name", Type: String},
		{Name: "price", Type: Number},
	}

	clause, args := ToSQL(Build("42", fields, nil), 1)

	assert.Equal(t, "(name ILIKE $1 OR price = $2)", clause)
	assert.Equal(t, []interface{}{"%42%", 42.0}, args)
}

func TestBuild_NestedRelation(t *testing.T) {
	fields := []FieldSpec{
		{Name: "orders.status", Type: Enum, EnumType: "OrderStatus"},
		{Nested: &NestedSpec{
			Table: "users",
			Join:  "users.id = orders.user_id",
			Fields: []FieldSpec{
				{Name: "users.email", Type: String},
			},
		}},
	}

	clause, args := ToSQL(Build("alice@example.com", fields, testEnums), 1)

	assert.Equal(t, "EXISTS (SELECT 1 FROM users WHERE users.id = orders.user_id AND users.email ILIKE $1)", clause)
	assert.Equal(t, []interface{}{"%alice@example.com%"}, args)
}

func TestBuild_NestedRelationWithNoInterpretableFieldIsSkipped(t *testing.T) {
	fields := []FieldSpec{
		{Nested: &NestedSpec{
			Table:  "users",
			Join:   "users.id = orders.user_id",
			Fields: []FieldSpec{{Name: "users.age", Type: Number}},
		}},
	}

	clause, _ := ToSQL(Build("not-a-number", fields, nil), 1)
	assert.Equal(t, "TRUE", clause)
}

func TestToSQL_ArgOffset(t *testing.T) {
	clause, args := ToSQL(Build("42", []FieldSpec{{Name: "total", Type: Number}}, nil), 3)

	assert.Equal(t, "total = $3", clause)
	assert.Equal(t, []interface{}{42.0}, args)
}
