// Package pagination implements the shared list contract: four mandatory
// query parameters (direction, columnName, page, perPage), an optional
// free-text query, and the page envelope.
package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"music-catalog-backend/internal/validation"
)

// Params are the validated list parameters. Page is 1-based internally;
// callers send it zero-based.
type Params struct {
	Direction  string
	ColumnName string
	Page       int
	PerPage    int
	Query      string
}

// Collect pulls the raw index query parameters into a flat map for the
// rule engine. Absent parameters stay absent so required can report them.
func Collect(c *gin.Context) map[string]interface{} {
	data := make(map[string]interface{})
	for _, key := range []string{"direction", "columnName", "page", "perPage", "query"} {
		if v, ok := c.GetQuery(key); ok {
			data[key] = v
		}
	}
	return data
}

// Rules builds the index rule set for a resource's sortable columns.
// All four pagination parameters are mandatory; missing any is a
// validation failure, not a default.
func Rules(columns ...string) validation.RuleSet {
	return validation.RuleSet{
		{Field: "direction", Rules: "required|in:asc,desc"},
		{Field: "columnName", Rules: "required|in:" + strings.Join(columns, ",")},
		{Field: "page", Rules: "required|integer|above:-1"},
		{Field: "perPage", Rules: "required|integer|above:2"},
	}
}

// FromData converts validated raw parameters, translating the caller's
// zero-based page to the internal 1-based one.
func FromData(data map[string]interface{}) Params {
	page, _ := strconv.Atoi(str(data["page"]))
	perPage, _ := strconv.Atoi(str(data["perPage"]))
	return Params{
		Direction:  str(data["direction"]),
		ColumnName: str(data["columnName"]),
		Page:       page + 1,
		PerPage:    perPage,
		Query:      str(data["query"]),
	}
}

// Offset is the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is the envelope every list endpoint returns.
type Page[T any] struct {
	Total    int `json:"total"`
	PerPage  int `json:"perPage"`
	Page     int `json:"page"`
	LastPage int `json:"lastPage"`
	Data     []T `json:"data"`
}

func NewPage[T any](total, page, perPage int, data []T) Page[T] {
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Total:    total,
		PerPage:  perPage,
		Page:     page,
		LastPage: lastPage,
		Data:     data,
	}
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
