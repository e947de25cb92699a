package models

import (
	"testing"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/stretchr/testify/require"
)

// Codes compare by number rather than as strings, so PROJ-1000 sorts after
// PROJ-999. A string comparison would pick PROJ-999 and hand out a duplicate.
func TestNextProjectCode(t *testing.T) {
	tests := []struct {
		name      string
		codes     []string
		highWater int
		want      string
		wantN     int
	}{
		{"empty store", nil, 0, "PROJ-001", 1},
		{"sequential", []string{"PROJ-001", "PROJ-002"}, 2, "PROJ-003", 3},
		{"numeric not lexicographic", []string{"PROJ-999", "PROJ-1000", "PROJ-100"}, 0, "PROJ-1001", 1001},
		{"deleted highest stays reserved", []string{"PROJ-001"}, 5, "PROJ-006", 6},
		{"foreign codes ignored", []string{"X-77", "PROJ-abc", "PROJ-004"}, 0, "PROJ-005", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, n := NextProjectCode(tt.codes, tt.highWater)
			require.Equal(t, tt.want, code)
			require.Equal(t, tt.wantN, n)
		})
	}
}

func TestNextOrder(t *testing.T) {
	require.Equal(t, 1, NextOrder(nil))
	require.Equal(t, 8, NextOrder([]int{3, 7, 1}))
	require.Equal(t, 1, NextOrder([]int{0}))
}

func TestDuplicateOrder(t *testing.T) {
	_, dup := DuplicateOrder(nil)
	require.False(t, dup)
	_, dup = DuplicateOrder([]int{3, 1, 2})
	require.False(t, dup)
	order, dup := DuplicateOrder([]int{2, 1, 2, 3})
	require.True(t, dup)
	require.Equal(t, 2, order)
}

func TestPatchColumnsOnlyIncludesSetFields(t *testing.T) {
	title := "New title"
	tools := []string{"Go"}
	columns := ProjectPatch{Title: &title, Tools: &tools}.Columns()

	require.Len(t, columns, 2)
	require.Equal(t, "New title", columns["title"])
	require.NotContains(t, columns, "code")
	require.NotContains(t, columns, "display_order")
}

func validApplication() *Application {
	return &Application{
		Name:           "Priya Raman",
		Location:       "Chennai",
		Specialization: "Backend",
		Skills:         "Go, SQL",
		GradYear:       "2026",
		College:        "IIT Madras",
		Contact:        "9876543210",
		Email:          "priya@example.com",
		WorkType:       WorkTypeIndividual,
		ProjectIDs:     []string{"p1"},
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.True(t, errs.IsValidationError(err))
	apiErr, ok := err.(*errs.ApiErr)
	require.True(t, ok)
	return apiErr.Fields
}

func TestValidateApplication(t *testing.T) {
	require.NoError(t, ValidateApplication(validApplication()))

	app := validApplication()
	app.Name = " A "
	app.GradYear = "26"
	app.Email = "not-an-email"
	app.Contact = "12345"
	app.WorkType = "Solo"
	app.ProjectIDs = []string{" "}

	fields := fieldsOf(t, ValidateApplication(app))
	require.Equal(t, "Full name must be at least 2 characters.", fields["name"])
	require.Equal(t, "Invalid year format.", fields["gradYear"])
	require.Contains(t, fields, "email")
	require.Contains(t, fields, "contact")
	require.Contains(t, fields, "workType")
	require.Equal(t, "Please select a project.", fields["projectIds"])
	require.NotContains(t, fields, "college")
}

func validProject() *Project {
	return &Project{
		Title:         "Observability pipeline",
		Objective:     "Collect and ship service logs",
		Deliverables:  []string{"Collector"},
		Tools:         []string{"Go"},
		LongTermScope: "Company-wide log platform",
		ImageURL:      "https://placehold.co/600x400.png",
		ImageHint:     "server rack",
	}
}

func TestValidateProject(t *testing.T) {
	require.NoError(t, ValidateProject(validProject()))

	p := validProject()
	p.Title = "Tiny"
	p.Deliverables = []string{"", "  "}
	p.ImageURL = "ftp://files.example.com/a.png"
	p.ImageHint = "a hint that is much too long"

	fields := fieldsOf(t, ValidateProject(p))
	require.Equal(t, "Title must be at least 5 characters long", fields["title"])
	require.Equal(t, "Deliverables are required", fields["deliverables"])
	require.Equal(t, "Must be a valid URL", fields["imageUrl"])
	require.Equal(t, "Hint too long", fields["imageHint"])
	require.NotContains(t, fields, "tools")
}

func TestValidateProjectPatch(t *testing.T) {
	require.True(t, errs.IsBadRequest(ValidateProjectPatch(ProjectPatch{})))

	short := "abc"
	fields := fieldsOf(t, ValidateProjectPatch(ProjectPatch{Title: &short}))
	require.Len(t, fields, 1)

	good := "A perfectly fine title"
	require.NoError(t, ValidateProjectPatch(ProjectPatch{Title: &good}))
}

func TestValidateReorder(t *testing.T) {
	require.True(t, errs.IsMissingRequiredFieldError(ValidateReorder(nil)))
	require.True(t, errs.IsInvalidFieldError(ValidateReorder([]OrderUpdate{{ID: "a", Order: 1}, {ID: "a", Order: 2}})))
	require.True(t, errs.IsInvalidFieldError(ValidateReorder([]OrderUpdate{{ID: "a", Order: 1}, {ID: "b", Order: 1}})))
	require.True(t, errs.IsInvalidFieldError(ValidateReorder([]OrderUpdate{{ID: " ", Order: 1}})))
	require.NoError(t, ValidateReorder([]OrderUpdate{{ID: "a", Order: 2}, {ID: "b", Order: 1}}))
}
