package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/impactreport/internal/inference"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

// Client runs the model on a remote causal impact service.
//
// POST {baseURL}/analyze with a JSON body describing the series, the two
// windows and the parameters. The service answers with the text summary, the
// narrative report and the inference table in pandas split orientation.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a Client. An empty token sends no Authorization header.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Subject    string      `json:"subject"`
	Columns    []string    `json:"columns"`
	Rows       []seriesRow `json:"rows"`
	PrePeriod  [2]string   `json:"pre_period"`
	PostPeriod [2]string   `json:"post_period"`
	Params     Params      `json:"params"`
}

type seriesRow struct {
	Date   string                `json:"date"`
	Values []decimal.NullDecimal `json:"values"`
}

type analyzeResponse struct {
	Summary    string          `json:"summary"`
	Report     string          `json:"report"`
	Inferences inference.Split `json:"inferences"`
}

func (c *Client) Run(ctx context.Context, req Request) (Result, error) {
	if req.Series == nil {
		return nil, errors.New("no series to analyze")
	}

	body := analyzeRequest{
		Subject:    req.Series.Subject,
		Columns:    req.Series.Columns,
		Rows:       make([]seriesRow, 0, len(req.Series.Points)),
		PrePeriod:  [2]string{period.FormatDate(req.Period.PreStart), period.FormatDate(req.Period.PreEnd)},
		PostPeriod: [2]string{period.FormatDate(req.Period.PostStart), period.FormatDate(req.Period.PostEnd)},
		Params:     req.Params,
	}

	for _, p := range req.Series.Points {
		body.Rows = append(body.Rows, seriesRow{Date: period.FormatDate(p.Date), Values: p.Values})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusGatewayTimeout:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	table, err := inference.FromSplit(out.Inferences)
	if err != nil {
		return nil, fmt.Errorf("decoding inferences: %w", err)
	}

	return &StaticResult{SummaryText: out.Summary, ReportText: out.Report, Table: table}, nil
}
