package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"ollamatui/apperr"
)

type Client struct {
	client  *api.Client
	baseURL string
	timeout time.Duration
}

// ModelInfo is one installed model as reported by the daemon's tag listing.
type ModelInfo struct {
	Name              string
	ModifiedAt        time.Time
	Size              int64
	Digest            string
	Family            string
	ParameterSize     string
	QuantizationLevel string
}

// ModelDetails is the extended description returned by show.
type ModelDetails struct {
	Name              string
	License           string
	Modelfile         string
	Parameters        string
	Template          string
	System            string
	Format            string
	Family            string
	Families          []string
	ParameterSize     string
	QuantizationLevel string
	ParentModel       string
	Architecture      string
	ContextLength     int64
	Capabilities      []string
}

// PullProgress is one status line of a streaming pull.
type PullProgress struct {
	Status    string
	Digest    string
	Total     int64
	Completed int64
}

// Fraction returns completed/total in [0,1], or 0 when the total is unknown.
func (p PullProgress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Completed) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &Client{
		client:  api.NewClient(parsedURL, http.DefaultClient),
		baseURL: baseURL,
		timeout: timeout,
	}, nil
}

func (c *Client) Host() string {
	return c.baseURL
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.List(ctx)
	if err != nil {
		return nil, classify("failed to list models", err)
	}

	models := make([]ModelInfo, len(resp.Models))
	for i, m := range resp.Models {
		models[i] = ModelInfo{
			Name:              m.Name,
			ModifiedAt:        m.ModifiedAt,
			Size:              m.Size,
			Digest:            m.Digest,
			Family:            m.Details.Family,
			ParameterSize:     m.Details.ParameterSize,
			QuantizationLevel: m.Details.QuantizationLevel,
		}
	}

	return models, nil
}

func (c *Client) ShowModel(ctx context.Context, name string) (*ModelDetails, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Show(ctx, &api.ShowRequest{Model: name})
	if err != nil {
		return nil, classify(fmt.Sprintf("failed to show %s", name), err)
	}

	details := &ModelDetails{
		Name:              name,
		License:           resp.License,
		Modelfile:         resp.Modelfile,
		Parameters:        resp.Parameters,
		Template:          resp.Template,
		System:            resp.System,
		Format:            resp.Details.Format,
		Family:            resp.Details.Family,
		Families:          resp.Details.Families,
		ParameterSize:     resp.Details.ParameterSize,
		QuantizationLevel: resp.Details.QuantizationLevel,
		ParentModel:       resp.Details.ParentModel,
	}
	for _, capability := range resp.Capabilities {
		details.Capabilities = append(details.Capabilities, fmt.Sprint(capability))
	}
	if arch, ok := resp.ModelInfo["general.architecture"].(string); ok {
		details.Architecture = arch
		details.ContextLength = contextLength(resp.ModelInfo, arch)
	}

	return details, nil
}

// contextLength reads "<arch>.context_length", which arrives as a JSON number.
func contextLength(info map[string]any, arch string) int64 {
	switch v := info[arch+".context_length"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func (c *Client) DeleteModel(ctx context.Context, name string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.client.Delete(ctx, &api.DeleteRequest{Model: name}); err != nil {
		return classify(fmt.Sprintf("failed to delete %s", name), err)
	}
	return nil
}

// PullModel streams a pull of ref ("model:tag"), calling progress for every
// status line. It runs until the daemon finishes or ctx is cancelled.
func (c *Client) PullModel(ctx context.Context, ref string, progress func(PullProgress)) error {
	fn := func(resp api.ProgressResponse) error {
		if progress != nil {
			progress(PullProgress{
				Status:    resp.Status,
				Digest:    resp.Digest,
				Total:     resp.Total,
				Completed: resp.Completed,
			})
		}
		return nil
	}

	if err := c.client.Pull(ctx, &api.PullRequest{Model: ref}, fn); err != nil {
		return classify(fmt.Sprintf("failed to pull %s", ref), err)
	}
	return nil
}

// classify maps an api client error onto the application error kinds.
func classify(msg string, err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		detail := statusErr.ErrorMessage
		if detail == "" {
			detail = statusErr.Status
		}
		return apperr.NewResponse(statusErr.StatusCode, msg+": "+detail)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return apperr.NewDeserialization(msg, err)
	}

	return apperr.NewNetwork(msg, err)
}

