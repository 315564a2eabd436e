package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vincenteouswilliam/azure-ai-day-demo/config"
	"github.com/vincenteouswilliam/azure-ai-day-demo/models"
)

// Client queries an Azure AI Search service for supporting document chunks
// and images.
type Client struct {
	endpoint   string
	apiKey     string
	index      string
	imageIndex string
	httpClient *http.Client
}

const searchAPIVersion = "2023-11-01"

func NewClient(cfg config.SearchConfig) (*Client, error) {
	if cfg.Endpoint == "" || cfg.Index == "" {
		return nil, fmt.Errorf("search service configuration is incomplete")
	}

	return &Client{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		index:      cfg.Index,
		imageIndex: cfg.ImageIndex,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type vectorQuery struct {
	Kind   string    `json:"kind"`
	Vector []float64 `json:"vector"`
	Fields string    `json:"fields"`
	K      int       `json:"k"`
}

type searchRequest struct {
	Search                string        `json:"search,omitempty"`
	Top                   int           `json:"top"`
	Filter                string        `json:"filter,omitempty"`
	QueryType             string        `json:"queryType,omitempty"`
	SemanticConfiguration string        `json:"semanticConfiguration,omitempty"`
	Captions              string        `json:"captions,omitempty"`
	VectorQueries         []vectorQuery `json:"vectorQueries,omitempty"`
}

type searchCaption struct {
	Text string `json:"text"`
}

type searchDocument struct {
	ID         string          `json:"id"`
	Content    string          `json:"content"`
	SourcePage string          `json:"sourcepage"`
	Title      string          `json:"title"`
	ImageURL   string          `json:"imageUrl"`
	Captions   []searchCaption `json:"@search.captions"`
}

type searchResponse struct {
	Value []searchDocument `json:"value"`
}

// QueryDocuments returns ranked supporting text chunks for a query string
// and/or embedding, honoring the request overrides. Either query or
// embedding may be empty depending on the retrieval mode.
func (c *Client) QueryDocuments(ctx context.Context, query string, embedding []float64, overrides models.RequestOverrides) ([]models.SupportingContentRecord, error) {
	docs, err := c.search(ctx, c.index, query, embedding, overrides)
	if err != nil {
		return nil, err
	}

	records := make([]models.SupportingContentRecord, 0, len(docs))
	for _, doc := range docs {
		content := doc.Content
		if overrides.SemanticCaptions && len(doc.Captions) > 0 {
			captions := make([]string, 0, len(doc.Captions))
			for _, cap := range doc.Captions {
				captions = append(captions, cap.Text)
			}
			content = strings.Join(captions, " . ")
		}
		// Collapse line breaks so the source block stays one line per record.
		content = strings.ReplaceAll(strings.ReplaceAll(content, "\r", " "), "\n", " ")
		records = append(records, models.SupportingContentRecord{
			Title:   doc.SourcePage,
			Content: content,
		})
	}
	return records, nil
}

// QueryImages returns supporting image records from the image index. The
// client must be configured with an image index, otherwise the result is
// empty.
func (c *Client) QueryImages(ctx context.Context, query string, embedding []float64, overrides models.RequestOverrides) ([]models.SupportingImageRecord, error) {
	if c.imageIndex == "" {
		return nil, nil
	}

	docs, err := c.search(ctx, c.imageIndex, query, embedding, overrides)
	if err != nil {
		return nil, err
	}

	records := make([]models.SupportingImageRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, models.SupportingImageRecord{
			Title: doc.Title,
			URL:   doc.ImageURL,
		})
	}
	return records, nil
}

func (c *Client) search(ctx context.Context, index, query string, embedding []float64, overrides models.RequestOverrides) ([]searchDocument, error) {
	reqBody := searchRequest{
		Top: overrides.Top,
	}
	if overrides.RetrievalMode != models.RetrievalModeVector {
		reqBody.Search = query
	}
	if overrides.RetrievalMode != models.RetrievalModeText && len(embedding) > 0 {
		reqBody.VectorQueries = []vectorQuery{{
			Kind:   "vector",
			Vector: embedding,
			Fields: "embedding",
			K:      overrides.Top,
		}}
	}
	if overrides.ExcludeCategory != "" {
		reqBody.Filter = fmt.Sprintf("category ne '%s'", strings.ReplaceAll(overrides.ExcludeCategory, "'", "''"))
	}
	if overrides.SemanticRanker {
		reqBody.QueryType = "semantic"
		reqBody.SemanticConfiguration = "default"
	}
	if overrides.SemanticCaptions {
		reqBody.Captions = "extractive"
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s", c.endpoint, index, searchAPIVersion)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search response: %w", err)
	}

	return searchResp.Value, nil
}
