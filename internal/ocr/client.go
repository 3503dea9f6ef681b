// Package ocr talks to the external OCR provider and cleans up what it
// returns. Extraction accuracy is the provider's problem; this package
// only moves bytes and massages text into a shape the answer parser and
// the question workflows can use.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DocType tells the cleanup pass what kind of scan it is looking at.
type DocType string

const (
	DocModelAnswer   DocType = "model-answer"
	DocStudentAnswer DocType = "student-answer"
	DocQuestionPaper DocType = "question-paper"
)

// ValidDocType reports whether s names a known document type.
func ValidDocType(s string) bool {
	switch DocType(s) {
	case DocModelAnswer, DocStudentAnswer, DocQuestionPaper:
		return true
	}
	return false
}

// Client calls an OCR.space-compatible HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates an OCR client for the given provider endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// parsedRegion is one text region in the provider's response.
type parsedRegion struct {
	ParsedText string `json:"ParsedText"`
}

// apiResponse mirrors the provider's wire shape.
type apiResponse struct {
	ParsedResults         []parsedRegion `json:"ParsedResults"`
	IsErroredOnProcessing bool           `json:"IsErroredOnProcessing"`
	ErrorMessage          any            `json:"ErrorMessage"`
}

// NormalizeLang validates a language code and returns its canonical base
// form. An empty code defaults to English.
func NormalizeLang(lang string) (string, error) {
	if strings.TrimSpace(lang) == "" {
		return "en", nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", lang, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// Extract sends an image to the provider and returns the concatenated
// region text after document-type cleanup.
func (c *Client) Extract(ctx context.Context, image []byte, lang string, doc DocType) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}
	normLang, err := NormalizeLang(lang)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("apikey", c.apiKey)
	form.Set("language", normLang)
	form.Set("base64Image", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(image))
	form.Set("scale", "true")
	form.Set("OCREngine", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse/image",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCR request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR provider returned status %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode OCR response: %w", err)
	}
	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("OCR processing failed: %s", flattenErrorMessage(parsed.ErrorMessage))
	}

	var buf bytes.Buffer
	for i, r := range parsed.ParsedResults {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(r.ParsedText)
	}

	return Cleanup(buf.String(), doc), nil
}

// flattenErrorMessage copes with the provider sending either a string or
// a list of strings in ErrorMessage.
func flattenErrorMessage(v any) string {
	switch m := v.(type) {
	case string:
		return m
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return "unknown error"
	}
}
