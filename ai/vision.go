package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vincenteouswilliam/azure-ai-day-demo/config"
)

// VisionClient vectorizes text against an Azure Computer Vision retrieval
// endpoint so questions can be matched against indexed images.
type VisionClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

const visionAPIVersion = "2023-02-01-preview"

func NewVisionClient(cfg config.VisionConfig) (*VisionClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("computer vision endpoint is not configured")
	}

	return &VisionClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type vectorizeTextRequest struct {
	Text string `json:"text"`
}

type vectorizeTextResponse struct {
	Vector       []float64 `json:"vector"`
	ModelVersion string    `json:"modelVersion"`
}

func (v *VisionClient) VectorizeText(ctx context.Context, text string) ([]float64, error) {
	url := fmt.Sprintf("%s/computervision/retrieval:vectorizeText?api-version=%s", v.endpoint, visionAPIVersion)

	jsonData, err := json.Marshal(vectorizeTextRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", v.apiKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision API returned status %d: %s", resp.StatusCode, string(body))
	}

	var vectorResp vectorizeTextResponse
	if err := json.Unmarshal(body, &vectorResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(vectorResp.Vector) == 0 {
		return nil, fmt.Errorf("vision API returned an empty vector")
	}

	return vectorResp.Vector, nil
}
