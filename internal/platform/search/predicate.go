// Package search turns a single free-text term into a SQL predicate that
// matches if any of the declared searchable fields match the term. Each
// field type interprets the term its own way; a field that cannot make
// sense of the term contributes no condition instead of failing the query.
package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type FieldType string

const (
	String  FieldType = "string"
	Number  FieldType = "number"
	Boolean FieldType = "boolean"
	Date    FieldType = "date"
	Enum    FieldType = "enum"
)

// FieldSpec describes one searchable column. When Nested is set the spec
// describes a related table instead and Name/Type are ignored.
type FieldSpec struct {
	Name     string
	Type     FieldType
	Exact    bool   // string only: exact equality instead of containment
	EnumType string // enum only: key into the EnumRegistry
	Nested   *NestedSpec
}

// NestedSpec searches columns of a related table through an EXISTS
// sub-query. Join is the raw correlation condition, e.g.
// "users.id = orders.user_id".
type NestedSpec struct {
	Table  string
	Join   string
	Fields []FieldSpec
}

// EnumRegistry resolves the valid value set for an enum field. It is
// injected so domain packages own their canonical values.
type EnumRegistry interface {
	Values(enumType string) []string
}

type EnumMap map[string][]string

func (m EnumMap) Values(enumType string) []string { return m[enumType] }

// A Predicate is either a leaf condition or a combinator over children.
type Predicate interface {
	appendTo(b *sqlBuilder)
}

type matchAll struct{}

func (matchAll) appendTo(b *sqlBuilder) { b.sb.WriteString("TRUE") }

type comparison struct {
	column string
	op     string
	value  interface{}
}

func (c comparison) appendTo(b *sqlBuilder) {
	b.sb.WriteString(c.column)
	b.sb.WriteString(" ")
	b.sb.WriteString(c.op)
	b.sb.WriteString(" ")
	b.sb.WriteString(b.arg(c.value))
}

type between struct {
	column   string
	from, to time.Time
}

func (c between) appendTo(b *sqlBuilder) {
	b.sb.WriteString(c.column)
	b.sb.WriteString(" BETWEEN ")
	b.sb.WriteString(b.arg(c.from))
	b.sb.WriteString(" AND ")
	b.sb.WriteString(b.arg(c.to))
}

type anyOf struct {
	preds []Predicate
}

func (c anyOf) appendTo(b *sqlBuilder) {
	b.sb.WriteString("(")
	for i, p := range c.preds {
		if i > 0 {
			b.sb.WriteString(" OR ")
		}
		p.appendTo(b)
	}
	b.sb.WriteString(")")
}

type exists struct {
	table string
	join  string
	pred  Predicate
}

func (c exists) appendTo(b *sqlBuilder) {
	fmt.Fprintf(&b.sb, "EXISTS (SELECT 1 FROM %s WHERE %s AND ", c.table, c.join)
	c.pred.appendTo(b)
	b.sb.WriteString(")")
}

type sqlBuilder struct {
	sb   strings.Builder
	args []interface{}
	next int
}

func (b *sqlBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	n := b.next
	b.next++
	return "$" + strconv.Itoa(n)
}

// MatchAll is the predicate that filters nothing.
func MatchAll() Predicate { return matchAll{} }

// ToSQL renders a predicate as a WHERE clause fragment with positional
// placeholders starting at argOffset.
func ToSQL(p Predicate, argOffset int) (string, []interface{}) {
	b := &sqlBuilder{next: argOffset}
	p.appendTo(b)
	return b.sb.String(), b.args
}
