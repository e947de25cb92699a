package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type stubModel struct {
	response string
	err      error
	prompts  []string
}

func (m *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, text.Text)
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.response}}}, nil
}

func (m *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func catalogProjects() []*models.Project {
	return []*models.Project{
		{ID: "p1", Code: "PROJ-001", Title: "Resume Screener", Objective: "Screen resumes with NLP", Tools: []string{"Python", "spaCy"}},
		{ID: "p2", Code: "PROJ-002", Title: "Support Chatbot", Objective: "Answer support tickets", Tools: []string{"Dialogflow"}},
	}
}

var profile = ApplicantProfile{Specialization: "Computer Science", Skills: "Python, NLP"}

func TestSuggestRendersProfileAndProjects(t *testing.T) {
	model := &stubModel{response: `{"suggestedProjects":[]}`}
	suggestions, err := NewSuggester(model).Suggest(context.Background(), profile, catalogProjects())
	require.NoError(t, err)
	require.Empty(t, suggestions)
	require.NotNil(t, suggestions)

	require.Len(t, model.prompts, 1)
	prompt := model.prompts[0]
	require.Contains(t, prompt, "Computer Science")
	require.Contains(t, prompt, "Python, NLP")
	require.Contains(t, prompt, "id: p1")
	require.Contains(t, prompt, "PROJ-002")
	require.Contains(t, prompt, "Python, spaCy")
}

func TestSuggestFiltersUnknownProjectsAndEmptyReasons(t *testing.T) {
	model := &stubModel{response: "```json\n" + `{"suggestedProjects":[
		{"id":"p1","title":"wrong title","reason":"Uses Python and NLP"},
		{"id":"ghost","title":"Invented","reason":"made up"},
		{"id":"p2","title":"Support Chatbot","reason":"  "},
		{"id":"p1","title":"Resume Screener","reason":"duplicate"}
	]}` + "\n```"}

	suggestions, err := NewSuggester(model).Suggest(context.Background(), profile, catalogProjects())
	require.NoError(t, err)
	require.Equal(t, []ProjectSuggestion{{ID: "p1", Title: "Resume Screener", Reason: "Uses Python and NLP"}}, suggestions)
}

func TestSuggestMissingKeyIsUnparseable(t *testing.T) {
	model := &stubModel{response: `{"projects":[]}`}
	_, err := NewSuggester(model).Suggest(context.Background(), profile, catalogProjects())
	require.True(t, errs.IsSuggestionError(err))
	require.Equal(t, errs.SuggestionUnparseableMessage, err.Error())
}

func TestSuggestMalformedJSONIsUnparseable(t *testing.T) {
	model := &stubModel{response: "Here are some ideas!"}
	_, err := NewSuggester(model).Suggest(context.Background(), profile, catalogProjects())
	require.Equal(t, errs.SuggestionUnparseableMessage, err.Error())
}

func TestSuggestCallFailure(t *testing.T) {
	model := &stubModel{err: errors.New("quota exceeded")}
	_, err := NewSuggester(model).Suggest(context.Background(), profile, catalogProjects())
	require.True(t, errs.IsSuggestionError(err))
	require.Equal(t, errs.SuggestionCallFailedMessage, err.Error())
}

func TestSuggestValidatesProfileBeforeCalling(t *testing.T) {
	model := &stubModel{response: `{"suggestedProjects":[]}`}
	_, err := NewSuggester(model).Suggest(context.Background(), ApplicantProfile{Skills: "Go"}, catalogProjects())
	require.True(t, errs.IsValidationError(err))
	require.Empty(t, model.prompts)
}

func TestSuggestWithoutModelIsDisabled(t *testing.T) {
	_, err := NewSuggester(nil).Suggest(context.Background(), profile, catalogProjects())
	require.True(t, errs.IsSuggestionsDisabledError(err))
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                    `{"a":1}`,
		"```json\n{\"a\":1}\n```":    `{"a":1}`,
		"```\n{\"a\":1}```":          `{"a":1}`,
		"```json {\"a\":1}```":       `{"a":1}`,
		"  \n{\"a\":1}\n  ":          `{"a":1}`,
	}
	for in, want := range cases {
		require.Equal(t, want, stripCodeFence(in), strings.ReplaceAll(in, "\n", `\n`))
	}
}

func TestNewSuggestionModelWithoutKeyIsDisabled(t *testing.T) {
	model, err := NewSuggestionModel(context.Background(), map[string]string{})
	require.NoError(t, err)
	require.Nil(t, model)

	_, err = NewSuggestionModel(context.Background(), map[string]string{"AI_PROVIDER": "llamafile"})
	require.True(t, errs.IsConfigError(err))
}
