package patterns

// AllowedTopics returns the keyword vocabulary that marks a message as
// in-scope for the database assistant. Matching is case-insensitive
// substring containment, done by the topic validator.
func AllowedTopics() []string {
	return []string{
		"database", "sql", "query", "performance", "optimization",
		"index", "table", "schema", "postgresql", "mysql", "oracle",
		"mongodb", "redis", "troubleshooting", "backup", "restore",
		"replication", "clustering", "scaling", "capacity", "security",
	}
}

// OffTopicIndicators returns the keyword set that marks a message as
// out of scope when no allowed topic matched.
func OffTopicIndicators() []string {
	return []string{
		"weather", "politics", "personal", "relationship", "medical",
		"legal advice", "financial advice", "investment", "crypto",
		"write a story", "poem", "joke", "recipe", "travel",
	}
}
