package patterns

import (
	"regexp"
)

// sensitiveSpec describes one entry of the sensitive-data bank. The bank is
// instantiated twice, once per pipeline side, because the same literals gate
// input and redact output.
type sensitiveSpec struct {
	name     string
	label    string
	regex    string
	desc     string
	severity int
}

// sensitiveBank returns the shared credential/PII literal table.
func sensitiveBank() []sensitiveSpec {
	return []sensitiveSpec{
		{
			name:     "credit_card",
			label:    "Credit Card",
			regex:    `\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`,
			desc:     "Detects credit-card-like 16-digit groups",
			severity: 9,
		},
		{
			name:     "email_address",
			label:    "Email",
			regex:    `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
			desc:     "Detects email addresses",
			severity: 6,
		},
		{
			name:     "ssn",
			label:    "SSN",
			regex:    `\b\d{3}[\s-]?\d{2}[\s-]?\d{4}\b`,
			desc:     "Detects SSN-like digit groups",
			severity: 9,
		},
		{
			name:     "password_assignment",
			label:    "Password",
			regex:    `(?i)password\s*[:=]\s*\S+`,
			desc:     "Detects password assignments",
			severity: 10,
		},
		{
			name:     "api_key_assignment",
			label:    "API Key",
			regex:    `(?i)api[\s_]*key\s*[:=]\s*\S+`,
			desc:     "Detects API key assignments",
			severity: 10,
		},
		{
			name:     "secret_key_assignment",
			label:    "Secret Key",
			regex:    `(?i)secret[\s_]*key\s*[:=]\s*\S+`,
			desc:     "Detects secret key assignments",
			severity: 10,
		},
		{
			name:     "bearer_token",
			label:    "Bearer Token",
			regex:    `(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`,
			desc:     "Detects bearer tokens",
			severity: 9,
		},
		{
			name:     "openai_key",
			label:    "OpenAI API Key",
			regex:    `sk-[a-zA-Z0-9]{48}`,
			desc:     "Detects OpenAI secret key shapes",
			severity: 10,
		},
		{
			name:     "slack_token",
			label:    "Slack Token",
			regex:    `xoxb-[0-9]{11}-[0-9]{12}-[a-zA-Z0-9]{24}`,
			desc:     "Detects Slack bot token shapes",
			severity: 10,
		},
		{
			name:     "github_token",
			label:    "GitHub Token",
			regex:    `ghp_[a-zA-Z0-9]{36}`,
			desc:     "Detects GitHub personal access token shapes",
			severity: 10,
		},
		{
			name:     "aws_access_key_id",
			label:    "AWS Access Key ID",
			regex:    `AKIA[0-9A-Z]{16}`,
			desc:     "Detects AWS access key IDs",
			severity: 10,
		},
		{
			name:  "aws_key_generic",
			label: "AWS Access Key",
			regex: `\b[A-Z0-9]{20}\b`,
			// Broad by design; ordered last so specific shapes win.
			desc:     "Detects generic 20-char uppercase key shapes",
			severity: 5,
		},
	}
}

func sensitivePatterns(category Category, side Side) []*Pattern {
	bank := sensitiveBank()
	out := make([]*Pattern, 0, len(bank))
	for _, s := range bank {
		out = append(out, &Pattern{
			Name:        s.name,
			Category:    category,
			Side:        side,
			Label:       s.label,
			Regex:       regexp.MustCompile(s.regex),
			Description: s.desc,
			Severity:    s.severity,
		})
	}
	return out
}

// inputPatterns returns the built-in input-side pattern tables.
func inputPatterns() []*Pattern {
	ps := []*Pattern{
		// Instruction-override phrasing
		{
			Name:        "ignore_previous",
			Category:    CategoryInjection,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)ignore\s+previous\s+instructions`),
			Description: "Detects attempts to discard the system instructions",
			Severity:    10,
		},
		{
			Name:        "forget_above",
			Category:    CategoryInjection,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)forget\s+everything\s+above`),
			Description: "Detects attempts to reset prior context",
			Severity:    10,
		},
		{
			Name:        "system_you_are_now",
			Category:    CategoryInjection,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)system\s*:\s*you\s+are\s+now`),
			Description: "Detects forged system-role messages",
			Severity:    10,
		},
		{
			Name:        "act_as_if",
			Category:    CategoryInjection,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)act\s+as\s+if\s+you\s+are`),
			Description: "Detects persona-override phrasing",
			Severity:    8,
		},
		{
			Name:        "pretend_to_be",
			Category:    CategoryInjection,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)pretend\s+to\s+be`),
			Description: "Detects persona-override phrasing",
			Severity:    8,
		},
		{
			Name:        "roleplay_as",
			Category:    CategoryInjection,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)roleplay\s+as`),
			Description: "Detects persona-override phrasing",
			Severity:    8,
		},
		{
			Name:        "simulate_being",
			Category:    CategoryInjection,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)simulate\s+being`),
			Description: "Detects persona-override phrasing",
			Severity:    8,
		},
		{
			Name:        "override_instructions",
			Category:    CategoryInjection,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)override\s+your\s+instructions`),
			Description: "Detects explicit instruction-override requests",
			Severity:    10,
		},
		{
			Name:        "disregard_programming",
			Category:    CategoryInjection,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)disregard\s+your\s+programming`),
			Description: "Detects explicit instruction-override requests",
			Severity:    10,
		},
		{
			Name:        "new_instructions",
			Category:    CategoryInjection,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)new\s+instructions\s*:`),
			Description: "Detects injected instruction blocks",
			Severity:    9,
		},
		{
			Name:        "privileged_mode",
			Category:    CategoryInjection,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)(admin|developer|debug|maintenance)\s+mode`),
			Description: "Detects requests for privileged operating modes",
			Severity:    9,
		},

		// System-prompt extraction
		{
			Name:        "ask_instructions",
			Category:    CategoryPromptExtraction,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)what\s+are\s+your\s+instructions`),
			Description: "Detects system-prompt disclosure requests",
			Severity:    8,
		},
		{
			Name:        "show_prompt",
			Category:    CategoryPromptExtraction,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)show\s+me\s+your\s+prompt`),
			Description: "Detects system-prompt disclosure requests",
			Severity:    8,
		},
		{
			Name:        "what_system_prompt",
			Category:    CategoryPromptExtraction,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)what\s+is\s+your\s+system\s+prompt`),
			Description: "Detects system-prompt disclosure requests",
			Severity:    8,
		},
		{
			Name:        "reveal_instructions",
			Category:    CategoryPromptExtraction,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)reveal\s+your\s+instructions`),
			Description: "Detects system-prompt disclosure requests",
			Severity:    8,
		},
		{
			Name:        "display_guidelines",
			Category:    CategoryPromptExtraction,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)display\s+your\s+guidelines`),
			Description: "Detects system-prompt disclosure requests",
			Severity:    8,
		},
		{
			Name:        "print_system_message",
			Category:    CategoryPromptExtraction,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)print\s+your\s+system\s+message`),
			Description: "Detects system-prompt disclosure requests",
			Severity:    8,
		},

		// Consumption abuse
		{
			Name:        "repeat_n_times",
			Category:    CategoryConsumptionAbuse,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)repeat\s+this\s+\d+\s+times`),
			Description: "Detects bulk repetition requests",
			Severity:    7,
		},
		{
			Name:        "generate_n",
			Category:    CategoryConsumptionAbuse,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)generate\s+\d+\s+(queries|responses)`),
			Description: "Detects bulk generation requests",
			Severity:    7,
		},
		{
			Name:        "create_n_objects",
			Category:    CategoryConsumptionAbuse,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)create\s+\d+\s+(tables|indexes)`),
			Description: "Detects bulk object-creation requests",
			Severity:    7,
		},
		{
			Name:        "loop_iterations",
			Category:    CategoryConsumptionAbuse,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)loop\s+for\s+\d+\s+iterations`),
			Description: "Detects loop-style abuse requests",
			Severity:    7,
		},
		{
			Name:        "bulk_operation",
			Category:    CategoryConsumptionAbuse,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)bulk\s+(insert|update|delete)`),
			Description: "Detects bulk-operation phrasing",
			Severity:    6,
		},
		{
			Name:        "stress_test",
			Category:    CategoryConsumptionAbuse,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)stress\s+test`),
			Description: "Detects stress-test phrasing",
			Severity:    6,
		},
		{
			Name:        "benchmark_performance",
			Category:    CategoryConsumptionAbuse,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)benchmark\s+performance`),
			Description: "Detects benchmark phrasing",
			Severity:    5,
		},

		// Model extraction
		{
			Name:        "training_parameters",
			Category:    CategoryModelTheft,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)what\s+are\s+your\s+training\s+parameters`),
			Description: "Detects model-extraction probing",
			Severity:    8,
		},
		{
			Name:        "how_trained",
			Category:    CategoryModelTheft,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)how\s+were\s+you\s+trained`),
			Description: "Detects model-extraction probing",
			Severity:    8,
		},
		{
			Name:        "model_architecture",
			Category:    CategoryModelTheft,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)what\s+model\s+architecture`),
			Description: "Detects model-extraction probing",
			Severity:    8,
		},
		{
			Name:        "reproduce_responses",
			Category:    CategoryModelTheft,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)reproduce\s+your\s+responses`),
			Description: "Detects model-cloning probing",
			Severity:    8,
		},
		{
			Name:        "clone_behavior",
			Category:    CategoryModelTheft,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)clone\s+your\s+behavior`),
			Description: "Detects model-cloning probing",
			Severity:    8,
		},
		{
			Name:        "extract_weights",
			Category:    CategoryModelTheft,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)extract\s+your\s+weights`),
			Description: "Detects weight-extraction probing",
			Severity:    9,
		},

		// Embedding poisoning
		{
			Name:        "adversarial_embedding",
			Category:    CategoryEmbeddingPoisoning,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)adversarial\s+embedding`),
			Description: "Detects embedding-poisoning phrasing",
			Severity:    9,
		},
		{
			Name:        "vector_manipulation",
			Category:    CategoryEmbeddingPoisoning,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)vector\s+manipulation`),
			Description: "Detects embedding-poisoning phrasing",
			Severity:    9,
		},
		{
			Name:        "embedding_attack",
			Category:    CategoryEmbeddingPoisoning,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)embedding\s+attack`),
			Description: "Detects embedding-poisoning phrasing",
			Severity:    9,
		},
		{
			Name:        "similarity_spoofing",
			Category:    CategoryEmbeddingPoisoning,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)similarity\s+spoofing`),
			Description: "Detects similarity-spoofing phrasing",
			Severity:    9,
		},
		{
			Name:        "retrieval_poisoning",
			Category:    CategoryEmbeddingPoisoning,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)retrieval\s+poisoning`),
			Description: "Detects retrieval-poisoning phrasing",
			Severity:    9,
		},
		{
			Name:        "context_injection_embedding",
			Category:    CategoryEmbeddingPoisoning,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)context\s+injection\s+via\s+embedding`),
			Description: "Detects context-injection phrasing",
			Severity:    9,
		},

		// Malicious retrieval
		{
			Name:        "retrieve_all_documents",
			Category:    CategoryMaliciousRetrieval,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)retrieve\s+all\s+documents`),
			Description: "Detects bulk retrieval attempts",
			Severity:    8,
		},
		{
			Name:        "bypass_retrieval_filters",
			Category:    CategoryMaliciousRetrieval,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)bypass\s+retrieval\s+filters`),
			Description: "Detects filter-bypass attempts",
			Severity:    9,
		},
		{
			Name:        "access_restricted_context",
			Category:    CategoryMaliciousRetrieval,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)access\s+restricted\s+context`),
			Description: "Detects restricted-context access attempts",
			Severity:    9,
		},
		{
			Name:        "override_similarity_threshold",
			Category:    CategoryMaliciousRetrieval,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)override\s+similarity\s+threshold`),
			Description: "Detects threshold-override attempts",
			Severity:    8,
		},
		{
			Name:        "inject_malicious_context",
			Category:    CategoryMaliciousRetrieval,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)inject\s+malicious\s+context`),
			Description: "Detects context-injection attempts",
			Severity:    9,
		},

		// Context contamination
		{
			Name:        "script_tag",
			Category:    CategoryContamination,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
			Description: "Detects embedded script blocks",
			Severity:    10,
		},
		{
			Name:        "javascript_uri",
			Category:    CategoryContamination,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)javascript:`),
			Description: "Detects javascript: URIs",
			Severity:    9,
		},
		{
			Name:        "data_html_uri",
			Category:    CategoryContamination,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)data:text/html`),
			Description: "Detects data:text/html URIs",
			Severity:    9,
		},
		{
			Name:        "eval_call",
			Category:    CategoryContamination,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)eval\s*\(`),
			Description: "Detects eval invocations",
			Severity:    9,
		},
		{
			Name:        "document_cookie",
			Category:    CategoryContamination,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)document\.cookie`),
			Description: "Detects cookie access",
			Severity:    9,
		},
		{
			Name:        "window_location",
			Category:    CategoryContamination,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)window\.location`),
			Description: "Detects location manipulation",
			Severity:    8,
		},
		{
			Name:        "local_storage",
			Category:    CategoryContamination,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)localStorage\.`),
			Description: "Detects localStorage access",
			Severity:    8,
		},
		{
			Name:        "session_storage",
			Category:    CategoryContamination,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)sessionStorage\.`),
			Description: "Detects sessionStorage access",
			Severity:    8,
		},

		// System-prompt hygiene
		{
			Name:        "prompt_password",
			Category:    CategoryPromptHygiene,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)password\s*[:=]\s*\w+`),
			Description: "Detects passwords embedded in prompts",
			Severity:    10,
		},
		{
			Name:        "prompt_connection_string",
			Category:    CategoryPromptHygiene,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)connection\s+string\s*[:=]`),
			Description: "Detects connection strings embedded in prompts",
			Severity:    10,
		},
		{
			Name:        "prompt_database_url",
			Category:    CategoryPromptHygiene,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)database\s+url\s*[:=]`),
			Description: "Detects database URLs embedded in prompts",
			Severity:    10,
		},
		{
			Name:        "prompt_api_key",
			Category:    CategoryPromptHygiene,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)api\s+key\s*[:=]`),
			Description: "Detects API keys embedded in prompts",
			Severity:    10,
		},
		{
			Name:        "prompt_secret",
			Category:    CategoryPromptHygiene,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)secret\s*[:=]\s*\w+`),
			Description: "Detects secrets embedded in prompts",
			Severity:    10,
		},
		{
			Name:        "prompt_token",
			Category:    CategoryPromptHygiene,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)token\s*[:=]\s*\w+`),
			Description: "Detects tokens embedded in prompts",
			Severity:    10,
		},
		{
			Name:        "prompt_architecture_detail",
			Category:    CategoryPromptHygiene,
			Side:        SideInput,
			Regex:       regexp.MustCompile(`(?i)(database\s+type|cloud\s+provider|environment|deployment)\s*:\s*\w+`),
			Description: "Detects architecture detail embedded in prompts",
			Severity:    6,
		},
	}

	ps = append(ps, sensitivePatterns(CategorySensitive, SideInput)...)
	return ps
}
