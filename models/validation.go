package models

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rpupo63/intern-hub-backend/errs"
)

var gradYearPattern = regexp.MustCompile(`^\d{4}$`)

func minLength(fields map[string]string, name, value string, min int, message string) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		fields[name] = message
	}
}

// ValidateApplication checks a submission before anything is written. All
// failing fields are reported together.
func ValidateApplication(app *Application) error {
	fields := make(map[string]string)

	minLength(fields, "name", app.Name, 2, "Full name must be at least 2 characters.")
	minLength(fields, "location", app.Location, 2, "Location is required.")
	minLength(fields, "specialization", app.Specialization, 2, "Specialization is required.")
	minLength(fields, "college", app.College, 2, "College name is required.")
	minLength(fields, "skills", app.Skills, 2, "Please list at least one skill.")
	minLength(fields, "contact", app.Contact, 10, "A valid contact number is required.")

	if !gradYearPattern.MatchString(strings.TrimSpace(app.GradYear)) {
		fields["gradYear"] = "Invalid year format."
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(app.Email)); err != nil || !strings.Contains(app.Email, "@") {
		fields["email"] = "Please enter a valid email address."
	}
	if !app.WorkType.Valid() {
		fields["workType"] = "Please select a work type."
	}

	hasProject := false
	for _, id := range app.ProjectIDs {
		if strings.TrimSpace(id) != "" {
			hasProject = true
			break
		}
	}
	if !hasProject {
		fields["projectIds"] = "Please select a project."
	}

	if len(fields) > 0 {
		return errs.NewValidationError(fields)
	}
	return nil
}

// ValidateProject checks the content of a new project.
func ValidateProject(project *Project) error {
	fields := make(map[string]string)
	validateTitle(fields, project.Title)
	validateObjective(fields, project.Objective)
	validateDeliverables(fields, project.Deliverables)
	validateTools(fields, project.Tools)
	validateLongTermScope(fields, project.LongTermScope)
	validateImageURL(fields, project.ImageURL)
	validateImageHint(fields, project.ImageHint)

	if len(fields) > 0 {
		return errs.NewValidationError(fields)
	}
	return nil
}

// ValidateProjectPatch applies the project rules to the fields present in patch.
func ValidateProjectPatch(patch ProjectPatch) error {
	if patch.IsEmpty() {
		return errs.NewBadRequestError("update contains no changes")
	}

	fields := make(map[string]string)
	if patch.Title != nil {
		validateTitle(fields, *patch.Title)
	}
	if patch.Objective != nil {
		validateObjective(fields, *patch.Objective)
	}
	if patch.Deliverables != nil {
		validateDeliverables(fields, *patch.Deliverables)
	}
	if patch.Tools != nil {
		validateTools(fields, *patch.Tools)
	}
	if patch.LongTermScope != nil {
		validateLongTermScope(fields, *patch.LongTermScope)
	}
	if patch.ImageURL != nil {
		validateImageURL(fields, *patch.ImageURL)
	}
	if patch.ImageHint != nil {
		validateImageHint(fields, *patch.ImageHint)
	}

	if len(fields) > 0 {
		return errs.NewValidationError(fields)
	}
	return nil
}

// ValidateReorder rejects empty batches and batches naming an id or an order twice.
func ValidateReorder(moves []OrderUpdate) error {
	if len(moves) == 0 {
		return errs.NewMissingRequiredFieldError("order")
	}
	ids := make(map[string]bool, len(moves))
	orders := make(map[int]bool, len(moves))
	for _, move := range moves {
		if strings.TrimSpace(move.ID) == "" {
			return errs.NewInvalidFieldError("id", "project id is required")
		}
		if ids[move.ID] {
			return errs.NewInvalidFieldError("id", "project "+move.ID+" appears more than once")
		}
		if orders[move.Order] {
			return errs.NewInvalidFieldError("order", "order values must be unique")
		}
		ids[move.ID] = true
		orders[move.Order] = true
	}
	return nil
}

func validateTitle(fields map[string]string, title string) {
	minLength(fields, "title", title, 5, "Title must be at least 5 characters long")
}

func validateObjective(fields map[string]string, objective string) {
	minLength(fields, "objective", objective, 10, "Objective is required")
}

func validateDeliverables(fields map[string]string, deliverables []string) {
	if countNonBlank(deliverables) == 0 {
		fields["deliverables"] = "Deliverables are required"
	}
}

func validateTools(fields map[string]string, tools []string) {
	if countNonBlank(tools) == 0 {
		fields["tools"] = "Tools are required"
	}
}

func validateLongTermScope(fields map[string]string, scope string) {
	minLength(fields, "longTermScope", scope, 10, "Long-term scope is required")
}

func validateImageURL(fields map[string]string, raw string) {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fields["imageUrl"] = "Must be a valid URL"
	}
}

func validateImageHint(fields map[string]string, hint string) {
	n := utf8.RuneCountInString(strings.TrimSpace(hint))
	switch {
	case n < 2:
		fields["imageHint"] = "Image hint is required"
	case n > 20:
		fields["imageHint"] = "Hint too long"
	}
}

func countNonBlank(values []string) int {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
