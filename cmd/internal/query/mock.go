package query

// Deterministic mock payloads returned when the backend is unreachable.
// The content is synthetic but structurally identical to real responses, so
// every render path downstream keeps working offline.

const mockRequestID = "550e8400-e29b-41d4-a716-446655440001"

const mockEnrichedContent = `Here are some great YouTube videos to get you inspired for an unforgettable journey:

**Featured Video Picks**

- **"Ultimate Travel Guide | Best Destinations 2024"**
  Experience stunning visuals and expert travel tips from seasoned adventurers — perfect if you're planning your next getaway.
  [Watch here](https://www.youtube.com/watch?v=dQw4w9WgXcQ)

- **"Complete Beginner's Tutorial | Step by Step Guide"**
  A comprehensive walkthrough covering everything you need to know, explained in simple terms with practical examples.
  [Watch here](https://www.youtube.com/watch?v=dQw4w9WgXcQ)

- **"Pro Tips & Advanced Techniques | Expert Insights"**
  Learn advanced strategies and insider secrets from industry professionals who share their years of experience.
  [Watch here](https://www.youtube.com/watch?v=dQw4w9WgXcQ)

**Additional Resources**

- **Community Forums & Discussion**
  Join active communities where you can ask questions, share experiences, and connect with like-minded individuals.

- **Recommended Tools & Equipment**
  Discover the essential tools and gear recommended by experts to enhance your experience and achieve better results.`

// MockEnhancedResponse builds the offline substitute for an enhanced query.
// It is pure: the same question always yields a structurally identical
// response.
func MockEnhancedResponse(question string) EnhancedQueryResponse {
	return EnhancedQueryResponse{
		Success: true,
		Message: "Enhanced query processed successfully",
		Data: &EnhancedQueryData{
			Question: question,
			Summary: "Here are some excellent YouTube videos and resources to help you explore and learn " +
				"about your topic. Our curated collection includes the best content from trusted creators.",
			SimilarResults: []SimilarResult{
				{
					ID:               mockRequestID,
					Text:             "Curated video content from top creators and educators in the field",
					Score:            0.892,
					RelevancePercent: 100.0,
					CreatedAt:        "2025-01-21T16:30:00Z",
					Dimensions:       384,
					ProcessingTimeMS: 45.2,
					Metadata: ResultMetadata{
						Category: "educational",
						Domain:   "video-content",
						Tags:     []string{"youtube", "tutorials", "educational", "curated"},
					},
					AllPayload: ResultPayload{
						Text:      "Curated video content from top creators and educators in the field",
						CreatedAt: "2025-01-21T16:30:00Z",
						Metadata: PayloadMetadata{
							Category:    "educational",
							Domain:      "video-content",
							Video:       &VideoInfo{Tags: []string{""}, Duration: 1900},
							ContentType: "video",
						},
					},
				},
			},
			EnrichedContent: mockEnrichedContent,
			TotalResults:    3,
			RequestID:       mockRequestID,
		},
		RequestID: mockRequestID,
	}
}

// MockLandingPageResponse builds the offline substitute for the landing page.
func MockLandingPageResponse() LandingPageResponse {
	return LandingPageResponse{
		Success: true,
		Message: "Landing page data retrieved successfully",
		Data: &LandingPageData{
			ChatID: "chat_mock_id",
			ProductInfo: ProductInfo{
				Name:    "IndieHash",
				Tagline: "RAG engine on top of a curated database.",
				Description: "IndieHash is a next-generation RAG (Retrieval-Augmented Generation) server " +
					"that transforms curated knowledge into intelligent conversations.",
				Features: []string{
					"🧠 Advanced Vector Search - Find exactly what you're looking for",
					"🎯 Domain-Specific Expertise - Curated content in programming, travel, lifestyle & more",
					"⚡ Real-time Knowledge Retrieval - Instant access to relevant information",
				},
				Domains: []string{
					"Programming & Technology",
					"Travel & Adventure",
					"Lifestyle & Wellness",
					"Business & Entrepreneurship",
				},
			},
			QuickStartQuestions: []QuickStartQuestion{
				{
					Category: "Programming",
					Icon:     "💻",
					Questions: []string{
						"I want to learn about Arcs in Rust programming",
						"What are the best practices for error handling in Go?",
						"How do I optimize React performance for large applications?",
					},
				},
				{
					Category: "Travel",
					Icon:     "🌍",
					Questions: []string{
						"What are some hidden gems to visit in Southeast Asia?",
						"Best budget-friendly destinations for digital nomads",
						"How to plan a perfect road trip through Europe?",
					},
				},
				{
					Category: "Lifestyle",
					Icon:     "✨",
					Questions: []string{
						"How to build a productive morning routine?",
						"What are some effective stress management techniques?",
						"Best meal prep strategies for busy professionals",
					},
				},
				{
					Category: "Business",
					Icon:     "🚀",
					Questions: []string{
						"How to validate a startup idea before building?",
						"What are the key metrics every SaaS founder should track?",
						"Best strategies for building an audience on social media",
					},
				},
			},
			FeaturedContent: FeaturedContent{
				RecentAdditions: []string{
					"Latest programming tutorials from top developers",
					"Travel vlogs from adventure seekers",
					"Entrepreneurship insights from successful founders",
				},
				PopularTopics: []string{
					"Rust programming fundamentals",
					"Digital nomad destinations",
					"Productivity hacks",
				},
			},
			UsageTips: []UsageTip{
				{
					Title:       "Ask Specific Questions",
					Description: "The more specific your question, the better the response.",
					Example:     "❓ How do I implement error handling in Rust using Result types?",
				},
				{
					Title: "Explore Different Domains",
					Description: "IndieHash covers multiple niches. Don't hesitate to ask about travel, " +
						"lifestyle, business, or creative topics",
					Example: "❓ What are the best places to visit in Bali?",
				},
			},
			SystemInfo: SystemInfo{
				Status:           "active",
				TotalDocuments:   1250,
				IndexedVectors:   45000,
				KnowledgeDomains: 5,
				ResponseTime:     "150ms",
				LastUpdated:      "2025-01-21T16:30:00Z",
			},
			SampleConversation: SampleConversation{
				UserQuestion: "I want to learn about Arcs in Rust programming",
				PreviewResponse: "Arcs (Atomically Reference Counted) in Rust are a powerful tool for " +
					"shared ownership in concurrent programming...",
				FollowUpSuggestions: []string{
					"Show me code examples of Arc usage",
					"What's the difference between Arc and Rc?",
					"When should I use Arc vs other smart pointers?",
				},
			},
		},
		RequestID: "mock_landing_request_id",
	}
}
