// Package query is the client side of the IndieHash RAG backend: it talks to
// the two same-origin proxy endpoints and normalizes every failure into a
// deterministic mock response so callers stay functional offline.
package query

import "errors"

var (
	// ErrEmptyQuestion is returned when QueryEnhanced is called without a
	// question. This is a caller bug, never a reason to fall back to the mock.
	ErrEmptyQuestion = errors.New("query: question must be a non-empty string")
)

// DefaultLimit is applied when the caller does not specify a result limit.
const DefaultLimit = 3

// EnhancedQueryResponse is the uniform envelope returned by the
// enhanced-query proxy endpoint.
type EnhancedQueryResponse struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	Data      *EnhancedQueryData `json:"data"`
	RequestID string             `json:"request_id"`
}

// LandingPageResponse is the uniform envelope returned by the landing-page
// proxy endpoint.
type LandingPageResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Data      *LandingPageData `json:"data"`
	RequestID string           `json:"request_id"`
}

// QueryRequest is the enhanced-query request body.
type QueryRequest struct {
	Question string `json:"question"`
	Limit    int    `json:"limit,omitempty"`
}

// EnhancedQueryData is the payload of a successful enhanced query.
type EnhancedQueryData struct {
	Question        string          `json:"question"`
	Summary         string          `json:"summary"`
	SimilarResults  []SimilarResult `json:"similar_results"`
	EnrichedContent string          `json:"enriched_content"`
	TotalResults    int             `json:"total_results"`
	RequestID       string          `json:"request_id"`
}

// SimilarResult is one retrieval hit.
type SimilarResult struct {
	ID               string         `json:"id"`
	Text             string         `json:"text"`
	Score            float64        `json:"score"`
	RelevancePercent float64        `json:"relevance_percent"`
	CreatedAt        string         `json:"created_at"`
	Dimensions       int            `json:"dimensions"`
	ProcessingTimeMS float64        `json:"processing_time_ms"`
	Metadata         ResultMetadata `json:"metadata"`
	AllPayload       ResultPayload  `json:"all_payload"`
}

// ResultMetadata categorizes a retrieval hit.
type ResultMetadata struct {
	Category string   `json:"category"`
	Domain   string   `json:"domain"`
	Tags     []string `json:"tags"`
}

// ResultPayload is the full stored payload of a retrieval hit.
type ResultPayload struct {
	Text      string          `json:"text"`
	CreatedAt string          `json:"created_at"`
	Metadata  PayloadMetadata `json:"metadata"`
}

// PayloadMetadata is the payload-level metadata, including optional video
// attributes.
type PayloadMetadata struct {
	Category    string     `json:"category"`
	Domain      string     `json:"domain"`
	Video       *VideoInfo `json:"video"`
	ContentType string     `json:"content_type"`
}

// VideoInfo describes video content attached to a payload.
type VideoInfo struct {
	Tags     []string `json:"tags"`
	Duration int      `json:"duration"`
}

// LandingPageData is the descriptive/marketing payload of the landing page.
type LandingPageData struct {
	ChatID              string               `json:"chat_id"`
	ProductInfo         ProductInfo          `json:"product_info"`
	QuickStartQuestions []QuickStartQuestion `json:"quick_start_questions"`
	FeaturedContent     FeaturedContent      `json:"featured_content"`
	UsageTips           []UsageTip           `json:"usage_tips"`
	SystemInfo          SystemInfo           `json:"system_info"`
	SampleConversation  SampleConversation   `json:"sample_conversation"`
}

// ProductInfo describes the product.
type ProductInfo struct {
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Domains     []string `json:"domains"`
}

// QuickStartQuestion is a categorized group of suggested questions.
type QuickStartQuestion struct {
	Category  string   `json:"category"`
	Icon      string   `json:"icon"`
	Questions []string `json:"questions"`
}

// FeaturedContent lists highlighted material.
type FeaturedContent struct {
	RecentAdditions []string `json:"recent_additions"`
	PopularTopics   []string `json:"popular_topics"`
}

// UsageTip is one usage suggestion with an example.
type UsageTip struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// SystemInfo carries system statistics for display.
type SystemInfo struct {
	Status           string `json:"status"`
	TotalDocuments   int    `json:"total_documents"`
	IndexedVectors   int    `json:"indexed_vectors"`
	KnowledgeDomains int    `json:"knowledge_domains"`
	ResponseTime     string `json:"response_time"`
	LastUpdated      string `json:"last_updated"`
}

// SampleConversation is a canned conversation preview.
type SampleConversation struct {
	UserQuestion        string   `json:"user_question"`
	PreviewResponse     string   `json:"preview_response"`
	FollowUpSuggestions []string `json:"follow_up_suggestions"`
}
