package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rpupo63/intern-hub-backend/errs"
	"github.com/rpupo63/intern-hub-backend/models"
	"github.com/sony/gobreaker"
)

// FormRelay forwards application submissions to a hosted form endpoint as
// application/x-www-form-urlencoded. Any 2xx response counts as delivered.
type FormRelay struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewFormRelay(endpoint string) *FormRelay {
	if endpoint == "" {
		return nil
	}
	return &FormRelay{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		breaker:    NewBreaker("form-relay", 30*time.Second),
	}
}

// FormValues flattens an application into form fields. Multi-valued fields
// repeat their key.
func FormValues(app *models.Application) url.Values {
	values := url.Values{}
	values.Set("name", app.Name)
	values.Set("location", app.Location)
	values.Set("specialization", app.Specialization)
	values.Set("skills", app.Skills)
	values.Set("gradYear", app.GradYear)
	values.Set("college", app.College)
	values.Set("contact", app.Contact)
	values.Set("email", app.Email)
	values.Set("workType", string(app.WorkType))
	for _, id := range app.ProjectIDs {
		values.Add("projectIds", id)
	}
	for _, title := range app.ProjectInterests {
		values.Add("projectInterests", title)
	}
	return values
}

// Submit posts app to the relay endpoint.
func (r *FormRelay) Submit(ctx context.Context, app *models.Application) error {
	_, err := guard(r.breaker, "form relay", func() (any, error) {
		return nil, r.post(ctx, FormValues(app))
	})
	return err
}

func (r *FormRelay) post(ctx context.Context, values url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return errs.NewServiceUnavailableError("form relay", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.NewUpstreamRejectedError("form relay", resp.StatusCode)
	}
	return nil
}
