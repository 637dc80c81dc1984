package models

import "encoding/json"

// Wire types for the gift service. Field names are part of the contract and
// case-sensitive.

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// QueryAnalysis is the server's breakdown of what it understood from a query.
type QueryAnalysis struct {
	Age              *int     `json:"age"`
	Relationship     string   `json:"relationship,omitempty"`
	Interests        []string `json:"interests"`
	MatchedInterests []string `json:"matched_interests"`
}

// SearchResponse is the body of a POST /search response.
type SearchResponse struct {
	Success         bool           `json:"success"`
	Recommendations []GiftListing  `json:"recommendations"`
	QueryAnalysis   *QueryAnalysis `json:"query_analysis,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body of a POST /auth/login response.
type LoginResponse struct {
	Success     bool         `json:"success"`
	AccessToken string       `json:"access_token,omitempty"`
	User        *UserProfile `json:"user,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is the body of a POST /auth/register response.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CompareResponse is the body of a POST /api/compare response.
type CompareResponse struct {
	Success bool         `json:"success"`
	Prices  []PriceQuote `json:"prices"`
	Error   string       `json:"error,omitempty"`
}

// DecodeSearchResponse decodes a search body, guaranteeing a non-nil
// recommendations slice. Listing defaults are applied by GiftListing's
// deserialization boundary.
func DecodeSearchResponse(data []byte) (*SearchResponse, error) {
	var resp SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []GiftListing{}
	}
	return &resp, nil
}
