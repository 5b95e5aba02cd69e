package ai

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ericgreene/go-serp"
)

// SearchResult represents a web search result
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// SearchConfig holds configuration for web search
type SearchConfig struct {
	// Enabled gates the whole research step; leave false when no SERP key
	// is configured.
	Enabled    bool
	MaxResults int
	SafeSearch bool
}

// DefaultSearchConfig returns standard search configuration
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Enabled:    true,
		MaxResults: 5,
		SafeSearch: true,
	}
}

// PerformWebSearch runs a SERP query. Used by the evolution analyst to pull
// background on the campaign's audience before proposing a rewrite.
func PerformWebSearch(query string, config SearchConfig) ([]SearchResult, error) {
	apiKey := os.Getenv("SERP_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("SERP_API_KEY not set")
	}

	parameter := map[string]string{
		"q":   query,
		"key": apiKey,
		"num": strconv.Itoa(config.MaxResults),
	}
	if config.SafeSearch {
		parameter["safe"] = "active"
	}

	queryResponse := serp.NewGoogleSearch(parameter)
	results, err := queryResponse.GetJSON()
	if err != nil {
		return nil, err
	}

	var searchResults []SearchResult
	for _, result := range results.OrganicResults {
		searchResults = append(searchResults, SearchResult{
			Title:   result.Title,
			Snippet: result.Snippet,
			Link:    result.Link,
		})
	}

	return searchResults, nil
}

// FormatFindings renders search results as a prompt block.
func FormatFindings(results []SearchResult) string {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "- %s\n  %s\n", r.Title, r.Snippet)
	}
	return b.String()
}
