package vector

import (
	"fmt"
	"strings"

	"dbassist/platform/gateway/events"
)

// ModelInfo describes an approved embedding model.
type ModelInfo struct {
	Provider   string `json:"provider"`
	Dimensions int    `json:"dimensions"`
}

// approvedModels is the closed set of embedding models the gateway will
// accept vectors from.
var approvedModels = map[string]ModelInfo{
	"text-embedding-ada-002":                   {Provider: "openai", Dimensions: 1536},
	"sentence-transformers/all-MiniLM-L6-v2":   {Provider: "huggingface", Dimensions: 384},
	"embed-english-v2.0":                       {Provider: "cohere", Dimensions: 4096},
}

// trustedSources maps each provider to the API host its endpoints must
// contain.
var trustedSources = map[string]string{
	"openai":      "api.openai.com",
	"huggingface": "api-inference.huggingface.co",
	"cohere":      "api.cohere.ai",
}

// CheckModel reports whether a model/provider/endpoint triple is
// approved: the model must be on the list, registered to that provider,
// and served from the provider's trusted host.
func (v *Validator) CheckModel(modelName, provider, endpoint string) bool {
	info, ok := approvedModels[modelName]
	if !ok {
		v.log.Warn(provider, "", fmt.Sprintf("Unapproved embedding model: %s", modelName), nil)
		v.sink.Record(events.New(events.TypeUnapprovedModel, provider, modelName))
		return false
	}
	if info.Provider != provider {
		return false
	}
	host, ok := trustedSources[provider]
	if !ok {
		return false
	}
	return strings.Contains(endpoint, host)
}

// ApprovedModels returns the names of approved embedding models.
func ApprovedModels() []string {
	out := make([]string, 0, len(approvedModels))
	for name := range approvedModels {
		out = append(out, name)
	}
	return out
}

// Config is the RAG security configuration snapshot exposed for
// operational inspection.
type Config struct {
	MaxContextLength      int      `json:"max_context_length"`
	MaxRetrievedDocuments int      `json:"max_retrieved_documents"`
	DiversityThreshold    float64  `json:"context_diversity_threshold"`
	ClusteringThreshold   float64  `json:"clustering_threshold"`
	ApprovedModels        []string `json:"approved_models"`
}

// SecurityConfig returns the active RAG security configuration.
func (v *Validator) SecurityConfig() Config {
	return Config{
		MaxContextLength:      MaxContextLength,
		MaxRetrievedDocuments: MaxRetrievedDocuments,
		DiversityThreshold:    DiversityThreshold,
		ClusteringThreshold:   ClusteringThreshold,
		ApprovedModels:        ApprovedModels(),
	}
}
