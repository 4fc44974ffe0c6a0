package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ApiClient handles API requests to the Cantina suggestion API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	Token      string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("CANTINA_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
		Token:   os.Getenv("CANTINA_API_TOKEN"),
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// GenerateSuggestions posts an order payload and returns the annotated result
func (c *ApiClient) GenerateSuggestions(payload json.RawMessage) (map[string]interface{}, error) {
	resp, err := c.httpClient.Post(c.BaseURL+"/api/v1/suggestions", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggestions request failed (%d): %s", resp.StatusCode, body)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAdjustment fetches a recipe's current adjustment record
func (c *ApiClient) GetAdjustment(recipeID string) (map[string]interface{}, error) {
	resp, err := c.httpClient.Get(fmt.Sprintf("%s/api/v1/recipes/%s/adjustment", c.BaseURL, recipeID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adjustment request failed (%d): %s", resp.StatusCode, body)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateAdjustment merges a multiplier into a recipe's adjustment record
func (c *ApiClient) UpdateAdjustment(recipeID, kind string, multiplier float64) error {
	payload, err := json.Marshal(map[string]interface{}{
		"kind":       kind,
		"multiplier": multiplier,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/recipes/%s/adjustment", c.BaseURL, recipeID)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("adjustment update failed (%d): %s", resp.StatusCode, body)
	}
	return nil
}
