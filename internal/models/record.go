package models

import (
	"github.com/shopspring/decimal"
)

// Record is one row observed in the budgeting app's category list.
// Group headers and categories share the type; IsGroupHeader tells them apart.
// A header carries its name in Group and leaves Category empty.
type Record struct {
	Group         string          `json:"group" yaml:"group"`
	Category      string          `json:"category,omitempty" yaml:"category,omitempty"`
	Goal          string          `json:"goal,omitempty" yaml:"goal,omitempty"`
	Balance       decimal.Decimal `json:"balance" yaml:"balance"`
	IsGroupHeader bool            `json:"is_group_header" yaml:"is_group_header"`
}

// NewGroupHeader returns the record announcing a new category group.
func NewGroupHeader(name string) Record {
	return Record{Group: name, IsGroupHeader: true}
}

// NewCategoryRecord returns a category record belonging to group.
func NewCategoryRecord(group, category, goal string, balance decimal.Decimal) Record {
	return Record{
		Group:    group,
		Category: category,
		Goal:     goal,
		Balance:  balance,
	}
}

// Key identifies a category within one generation run.
func (r Record) Key() string {
	if r.IsGroupHeader {
		return "group\x00" + r.Group
	}
	return r.Group + "\x00" + r.Category
}

// Name returns the label shown in the app for this row.
func (r Record) Name() string {
	if r.IsGroupHeader {
		return r.Group
	}
	return r.Category
}
