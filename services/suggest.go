package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpupo63/intern-hub-backend/config"
	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/prompts"
)

const (
	defaultGoogleModel = "gemini-2.0-flash"
	defaultOpenAIModel = "gpt-4o-mini"
)

const suggestionPrompt = `You are a career advisor matching internship applicants to projects.

Applicant profile:
- Specialization: {{.specialization}}
- Skills: {{.skills}}

Available projects:
{{range .projects}}- id: {{.ID}}
  code: {{.Code}}
  title: {{.Title}}
  objective: {{.Objective}}
  tools: {{.Tools}}
{{end}}
Pick the projects that best fit the applicant. Use only ids from the list above.
Give a short reason for each pick that refers to the applicant's skills.
Respond with JSON only, no prose and no code fences, in exactly this shape:
{"suggestedProjects":[{"id":"<project id>","title":"<project title>","reason":"<why it fits>"}]}
If nothing fits, respond with {"suggestedProjects":[]}.`

// ApplicantProfile is what the model sees about the applicant.
type ApplicantProfile struct {
	Specialization string `json:"specialization"`
	Skills         string `json:"skills"`
}

// Validate requires both fields to be present.
func (p ApplicantProfile) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(p.Specialization) == "" {
		fields["specialization"] = "Specialization is required."
	}
	if strings.TrimSpace(p.Skills) == "" {
		fields["skills"] = "Please list at least one skill."
	}
	if len(fields) > 0 {
		return errs.NewValidationError(fields)
	}
	return nil
}

// ProjectSuggestion is one recommended project.
type ProjectSuggestion struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// SuggestionOutput is the response contract of the model.
type SuggestionOutput struct {
	SuggestedProjects []ProjectSuggestion `json:"suggestedProjects"`
}

type promptProject struct {
	ID        string
	Code      string
	Title     string
	Objective string
	Tools     string
}

// Suggester asks a text model which projects fit an applicant.
type Suggester struct {
	model    llms.Model
	template prompts.PromptTemplate
	breaker  *gobreaker.CircuitBreaker
	logger   zerolog.Logger
}

// NewSuggester wraps model. A nil model yields a Suggester that reports
// suggestions as disabled.
func NewSuggester(model llms.Model) *Suggester {
	return &Suggester{
		model:    model,
		template: prompts.NewPromptTemplate(suggestionPrompt, []string{"specialization", "skills", "projects"}),
		breaker:  NewBreaker("suggestions", 30*time.Second),
		logger:   log.With().Str("service", "suggester").Logger(),
	}
}

// Enabled reports whether a model is configured.
func (s *Suggester) Enabled() bool {
	return s != nil && s.model != nil
}

// Suggest returns the projects the model recommends for profile. Entries that
// reference unknown projects or carry no reason are dropped. An empty result
// is valid.
func (s *Suggester) Suggest(ctx context.Context, profile ApplicantProfile, projects []*models.Project) ([]ProjectSuggestion, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if !s.Enabled() {
		return nil, errs.NewSuggestionsDisabledError()
	}

	prompt, err := s.renderPrompt(profile, projects)
	if err != nil {
		return nil, errs.NewSuggestionError(errs.SuggestionCallFailedMessage, err)
	}

	result, err := guard(s.breaker, "suggestions", func() (any, error) {
		return llms.GenerateFromSinglePrompt(ctx, s.model, prompt, llms.WithJSONMode(), llms.WithTemperature(0.2))
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("suggestion call failed")
		return nil, errs.NewSuggestionError(errs.SuggestionCallFailedMessage, err)
	}

	output, err := ParseSuggestionOutput(result.(string))
	if err != nil {
		s.logger.Warn().Err(err).Msg("model returned unusable suggestions")
		return nil, errs.NewSuggestionError(errs.SuggestionUnparseableMessage, err)
	}

	return s.filter(output.SuggestedProjects, projects), nil
}

func (s *Suggester) renderPrompt(profile ApplicantProfile, projects []*models.Project) (string, error) {
	listed := make([]promptProject, 0, len(projects))
	for _, p := range projects {
		listed = append(listed, promptProject{
			ID:        p.ID,
			Code:      p.Code,
			Title:     p.Title,
			Objective: p.Objective,
			Tools:     strings.Join(p.Tools, ", "),
		})
	}
	return s.template.Format(map[string]any{
		"specialization": strings.TrimSpace(profile.Specialization),
		"skills":         strings.TrimSpace(profile.Skills),
		"projects":       listed,
	})
}

func (s *Suggester) filter(suggestions []ProjectSuggestion, projects []*models.Project) []ProjectSuggestion {
	byID := make(map[string]*models.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	kept := make([]ProjectSuggestion, 0, len(suggestions))
	seen := make(map[string]bool, len(suggestions))
	for _, suggestion := range suggestions {
		id := strings.TrimSpace(suggestion.ID)
		project, ok := byID[id]
		reason := strings.TrimSpace(suggestion.Reason)
		if !ok || reason == "" || seen[id] {
			s.logger.Debug().Str("projectID", id).Msg("dropping suggestion")
			continue
		}
		seen[id] = true
		kept = append(kept, ProjectSuggestion{ID: id, Title: project.Title, Reason: reason})
	}
	return kept
}

// ParseSuggestionOutput decodes a model response, tolerating a surrounding
// markdown code fence. A missing suggestedProjects key is an error.
func ParseSuggestionOutput(raw string) (SuggestionOutput, error) {
	var envelope struct {
		SuggestedProjects *[]ProjectSuggestion `json:"suggestedProjects"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &envelope); err != nil {
		return SuggestionOutput{}, fmt.Errorf("decode suggestions: %w", err)
	}
	if envelope.SuggestedProjects == nil {
		return SuggestionOutput{}, fmt.Errorf("decode suggestions: missing suggestedProjects")
	}
	return SuggestionOutput{SuggestedProjects: *envelope.SuggestedProjects}, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else if i := strings.IndexByte(s, '{'); i >= 0 {
		s = s[i:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// NewSuggestionModel builds the model selected by AI_PROVIDER. It returns nil
// without error when the provider's API key is not set.
func NewSuggestionModel(ctx context.Context, cfg map[string]string) (llms.Model, error) {
	provider := strings.ToLower(config.GetString(cfg, "AI_PROVIDER", "googleai"))
	modelName := config.GetString(cfg, "AI_MODEL", "")

	switch provider {
	case "googleai", "gemini":
		apiKey := config.GetString(cfg, "GOOGLE_API_KEY", "")
		if apiKey == "" {
			return nil, nil
		}
		if modelName == "" {
			modelName = defaultGoogleModel
		}
		model, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(modelName))
		if err != nil {
			return nil, fmt.Errorf("create googleai model: %w", err)
		}
		return model, nil
	case "openai":
		apiKey := config.GetString(cfg, "OPENAI_API_KEY", "")
		if apiKey == "" {
			return nil, nil
		}
		if modelName == "" {
			modelName = defaultOpenAIModel
		}
		model, err := openai.New(openai.WithToken(apiKey), openai.WithModel(modelName))
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		return model, nil
	default:
		return nil, errs.NewConfigInvalidError("AI_PROVIDER", fmt.Sprintf("unknown provider %q", provider))
	}
}
