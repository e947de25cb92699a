package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectCodePrefix prefixes every human-readable project code.
const ProjectCodePrefix = "PROJ-"

// Project represents an internship project listing
type Project struct {
	ID            string                      `json:"id" gorm:"column:id;type:text;primaryKey"`
	Code          string                      `json:"code" gorm:"column:code;type:text;not null;uniqueIndex:idx_projects_code"`
	Title         string                      `json:"title" gorm:"column:title;type:text;not null"`
	Objective     string                      `json:"objective" gorm:"column:objective;type:text;not null"`
	Deliverables  datatypes.JSONSlice[string] `json:"deliverables" gorm:"column:deliverables"`
	Tools         datatypes.JSONSlice[string] `json:"tools" gorm:"column:tools"`
	LongTermScope string                      `json:"longTermScope" gorm:"column:long_term_scope;type:text;not null"`
	ImageURL      string                      `json:"imageUrl" gorm:"column:image_url;type:text;not null"`
	ImageHint     string                      `json:"imageHint" gorm:"column:image_hint;type:text;not null"`
	Order         int                         `json:"order" gorm:"column:display_order;not null;index:idx_projects_display_order"`
}

func (Project) TableName() string {
	return "projects"
}

// BeforeCreate assigns an opaque identifier when the caller left it empty.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProjectPatch is a partial update of a project's content. Code and order
// can't be changed through a patch.
type ProjectPatch struct {
	Title         *string   `json:"title,omitempty"`
	Objective     *string   `json:"objective,omitempty"`
	Deliverables  *[]string `json:"deliverables,omitempty"`
	Tools         *[]string `json:"tools,omitempty"`
	LongTermScope *string   `json:"longTermScope,omitempty"`
	ImageURL      *string   `json:"imageUrl,omitempty"`
	ImageHint     *string   `json:"imageHint,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ProjectPatch) IsEmpty() bool {
	return p.Title == nil && p.Objective == nil && p.Deliverables == nil && p.Tools == nil &&
		p.LongTermScope == nil && p.ImageURL == nil && p.ImageHint == nil
}

// Columns returns the patched fields keyed by column name.
func (p ProjectPatch) Columns() map[string]any {
	columns := make(map[string]any)
	if p.Title != nil {
		columns["title"] = *p.Title
	}
	if p.Objective != nil {
		columns["objective"] = *p.Objective
	}
	if p.Deliverables != nil {
		columns["deliverables"] = datatypes.NewJSONSlice(*p.Deliverables)
	}
	if p.Tools != nil {
		columns["tools"] = datatypes.NewJSONSlice(*p.Tools)
	}
	if p.LongTermScope != nil {
		columns["long_term_scope"] = *p.LongTermScope
	}
	if p.ImageURL != nil {
		columns["image_url"] = *p.ImageURL
	}
	if p.ImageHint != nil {
		columns["image_hint"] = *p.ImageHint
	}
	return columns
}

// OrderUpdate moves one project to a new display position.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// FormatProjectCode renders n as a project code, zero padded to three digits.
func FormatProjectCode(n int) string {
	return fmt.Sprintf("%s%03d", ProjectCodePrefix, n)
}

// ParseProjectCode returns the numeric suffix of code.
func ParseProjectCode(code string) (int, bool) {
	suffix, ok := strings.CutPrefix(code, ProjectCodePrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextProjectCode derives the code for a new project from the codes in use
// and the highest number ever handed out. Numbers are compared numerically,
// so PROJ-1000 follows PROJ-999.
func NextProjectCode(codes []string, highWater int) (string, int) {
	highest := highWater
	for _, code := range codes {
		if n, ok := ParseProjectCode(code); ok && n > highest {
			highest = n
		}
	}
	next := highest + 1
	return FormatProjectCode(next), next
}

// NextOrder returns one past the largest order value, or 1 for an empty list.
func NextOrder(orders []int) int {
	if len(orders) == 0 {
		return 1
	}
	highest := orders[0]
	for _, order := range orders[1:] {
		if order > highest {
			highest = order
		}
	}
	return highest + 1
}

// DuplicateOrder returns an order value shared by more than one project.
func DuplicateOrder(orders []int) (int, bool) {
	seen := make(map[int]bool, len(orders))
	for _, order := range orders {
		if seen[order] {
			return order, true
		}
		seen[order] = true
	}
	return 0, false
}
