package model

import "time"

// ProjectDocument is handed to the persistence collaborator once a generation
// finishes. Slug, views, likes and template flags are owned by the collaborator.
type ProjectDocument struct {
	ID           int64            `json:"id,string"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Requirements Requirements     `json:"requirements"`
	GeneratedUI  EntityFieldSet   `json:"generatedUI"`
	Analytics    ProjectAnalytics `json:"analytics"`
	Metadata     ProjectMetadata  `json:"metadata"`
}

type ProjectAnalytics struct {
	AIModel        string    `json:"aiModel,omitempty"`
	TokensUsed     int       `json:"tokensUsed"`
	ResponseTimeMs int64     `json:"responseTime"`
	AICalls        int       `json:"aiCalls"`
	AIFailures     int       `json:"aiFailures"`
	GenerationDate time.Time `json:"generationDate"`
}

type ProjectMetadata struct {
	Category Category `json:"category"`
	Tags     []string `json:"tags"`
}
