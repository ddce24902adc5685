package patterns

import (
	"regexp"
)

// outputPatterns returns the built-in output-side pattern tables.
func outputPatterns() []*Pattern {
	ps := []*Pattern{
		// Malicious code markers
		{
			Name:        "output_script_tag",
			Category:    CategoryMaliciousCode,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
			Description: "Detects script blocks in model output",
			Severity:    10,
		},
		{
			Name:        "output_eval",
			Category:    CategoryMaliciousCode,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\beval\s*\(`),
			Description: "Detects eval calls in model output",
			Severity:    9,
		},
		{
			Name:        "output_exec",
			Category:    CategoryMaliciousCode,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\bexec\s*\(`),
			Description: "Detects exec calls in model output",
			Severity:    9,
		},
		{
			Name:        "output_import_os",
			Category:    CategoryMaliciousCode,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\bimport\s+os\b`),
			Description: "Detects OS module imports in model output",
			Severity:    8,
		},
		{
			Name:        "output_subprocess",
			Category:    CategoryMaliciousCode,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\bsubprocess\.`),
			Description: "Detects subprocess usage in model output",
			Severity:    9,
		},

		// Bias/poisoning indicators
		{
			Name:        "always_works",
			Category:    CategoryPoisoningIndicator,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)always\s+works`),
			Description: "Detects absolute reliability claims",
			Severity:    6,
		},
		{
			Name:        "hundred_percent_certain",
			Category:    CategoryPoisoningIndicator,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)100%\s+certain`),
			Description: "Detects absolute certainty claims",
			Severity:    6,
		},
		{
			Name:        "guaranteed_to_fix",
			Category:    CategoryPoisoningIndicator,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)guaranteed\s+to\s+fix`),
			Description: "Detects guarantee claims",
			Severity:    6,
		},
		{
			Name:        "always_delete_all",
			Category:    CategoryPoisoningIndicator,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)always\s+delete\s+all`),
			Description: "Detects blanket destructive instructions",
			Severity:    10,
		},
		{
			Name:        "delete_all_data",
			Category:    CategoryPoisoningIndicator,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)delete\s+all\s+(your\s+)?data`),
			Description: "Detects blanket destructive instructions",
			Severity:    10,
		},
		{
			Name:        "never_use_indexes",
			Category:    CategoryPoisoningIndicator,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)never\s+use\s+indexes`),
			Description: "Detects poisoned blanket advice",
			Severity:    8,
		},
		{
			Name:        "drop_all_tables",
			Category:    CategoryPoisoningIndicator,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)drop\s+all\s+tables`),
			Description: "Detects blanket destructive instructions",
			Severity:    10,
		},
		{
			Name:        "grant_all_to_public",
			Category:    CategoryPoisoningIndicator,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)grant\s+all\s+privileges\s+to\s+public`),
			Description: "Detects poisoned privilege advice",
			Severity:    10,
		},
		{
			Name:        "disable_all_security",
			Category:    CategoryPoisoningIndicator,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)disable\s+all\s+security`),
			Description: "Detects poisoned security advice",
			Severity:    10,
		},
		{
			Name:        "discriminatory_generalization",
			Category:    CategoryPoisoningIndicator,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)(all|every)\s+(dbas?|developers|engineers)\s+(are|always|never)\b`),
			Description: "Detects discriminatory generalizations",
			Severity:    7,
		},

		// Output handling: XSS
		{
			Name:        "xss_script_tag",
			Category:    CategoryXSS,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)<script\b`),
			Description: "Detects script tag openings",
			Severity:    10,
		},
		{
			Name:        "xss_event_handler",
			Category:    CategoryXSS,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\bon(load|error|click|mouseover|focus|submit)\s*=`),
			Description: "Detects inline event handlers",
			Severity:    9,
		},
		{
			Name:        "xss_iframe",
			Category:    CategoryXSS,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)<iframe\b`),
			Description: "Detects iframe tags",
			Severity:    9,
		},
		{
			Name:        "xss_javascript_uri",
			Category:    CategoryXSS,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)javascript:`),
			Description: "Detects javascript: URIs",
			Severity:    9,
		},

		// Output handling: SSRF
		{
			Name:        "ssrf_localhost",
			Category:    CategorySSRF,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)https?://localhost\b`),
			Description: "Detects localhost URLs",
			Severity:    8,
		},
		{
			Name:        "ssrf_loopback",
			Category:    CategorySSRF,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)https?://127\.\d{1,3}\.\d{1,3}\.\d{1,3}`),
			Description: "Detects loopback-address URLs",
			Severity:    8,
		},
		{
			Name:        "ssrf_private_10",
			Category:    CategorySSRF,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)https?://10\.\d{1,3}\.\d{1,3}\.\d{1,3}`),
			Description: "Detects 10.0.0.0/8 URLs",
			Severity:    8,
		},
		{
			Name:        "ssrf_private_192",
			Category:    CategorySSRF,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)https?://192\.168\.\d{1,3}\.\d{1,3}`),
			Description: "Detects 192.168.0.0/16 URLs",
			Severity:    8,
		},

		// Output handling: privilege escalation SQL
		{
			Name:        "priv_grant_all",
			Category:    CategoryPrivilegeEscalation,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\bGRANT\s+ALL\b`),
			Description: "Detects GRANT ALL statements",
			Severity:    10,
		},
		{
			Name:        "priv_create_user",
			Category:    CategoryPrivilegeEscalation,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\bCREATE\s+USER\b`),
			Description: "Detects CREATE USER statements",
			Severity:    9,
		},
		{
			Name:        "priv_alter_superuser",
			Category:    CategoryPrivilegeEscalation,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\bALTER\s+USER\s+.*\bSUPERUSER\b`),
			Description: "Detects superuser promotion",
			Severity:    10,
		},
		{
			Name:        "priv_drop_database",
			Category:    CategoryPrivilegeEscalation,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\bDROP\s+DATABASE\b`),
			Description: "Detects DROP DATABASE statements",
			Severity:    10,
		},

		// Destructive escalation signatures
		{
			Name:        "escalation_drop_database",
			Category:    CategoryAgencyEscalation,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\bDROP\s+DATABASE\b`),
			Description: "Detects database-destruction statements",
			Severity:    10,
		},
		{
			Name:        "escalation_delete_where_true",
			Category:    CategoryAgencyEscalation,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\bDELETE\s+FROM\s+\w+\s+WHERE\s+1\s*=\s*1`),
			Description: "Detects whole-table deletes disguised with WHERE 1=1",
			Severity:    10,
		},
		{
			Name:        "escalation_alter_superuser",
			Category:    CategoryAgencyEscalation,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\bALTER\s+USER\s+.*\bSUPERUSER\b`),
			Description: "Detects superuser promotion",
			Severity:    10,
		},
		{
			Name:        "escalation_kill_connection",
			Category:    CategoryAgencyEscalation,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)\bKILL\s+CONNECTION\b`),
			Description: "Detects connection-kill statements",
			Severity:    9,
		},

		// Hallucination indicators
		{
			Name:        "hallucination_always",
			Category:    CategoryHallucination,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)always\s+(true|false|works|fails)`),
			Description: "Detects absolute claims",
			Severity:    5,
		},
		{
			Name:        "hallucination_never",
			Category:    CategoryHallucination,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)never\s+(happens?|works?|fails?)`),
			Description: "Detects absolute claims",
			Severity:    5,
		},
		{
			Name:        "hallucination_100_percent",
			Category:    CategoryHallucination,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)100%\s+(certain|guarantee[ds]?|accurate)`),
			Description: "Detects absolute certainty claims",
			Severity:    6,
		},
		{
			Name:        "hallucination_absolutely",
			Category:    CategoryHallucination,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)absolutely\s+(guaranteed|certain|never)`),
			Description: "Detects absolute certainty claims",
			Severity:    6,
		},
		{
			Name:        "hallucination_impossible_fail",
			Category:    CategoryHallucination,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)impossible\s+to\s+(fail|break)`),
			Description: "Detects infallibility claims",
			Severity:    6,
		},
		{
			Name:        "hallucination_definitely",
			Category:    CategoryHallucination,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)will\s+definitely\s+(work|fix|solve)`),
			Description: "Detects certainty claims",
			Severity:    5,
		},
		{
			Name:        "hallucination_proven_fact",
			Category:    CategoryHallucination,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)proven\s+fact\s+that`),
			Description: "Detects unsupported fact claims",
			Severity:    5,
		},
		{
			Name:        "hallucination_consensus",
			Category:    CategoryHallucination,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)scientific\s+consensus\s+shows`),
			Description: "Detects unsupported consensus claims",
			Severity:    5,
		},
		{
			Name:        "hallucination_all_experts",
			Category:    CategoryHallucination,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)all\s+experts\s+agree`),
			Description: "Detects unsupported consensus claims",
			Severity:    5,
		},
		{
			Name:        "hallucination_universal",
			Category:    CategoryHallucination,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)universally\s+accepted`),
			Description: "Detects unsupported consensus claims",
			Severity:    5,
		},

		// Overconfidence indicators
		{
			Name:        "overconfidence_only_solution",
			Category:    CategoryOverconfidence,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)this\s+is\s+the\s+only\s+solution`),
			Description: "Detects exclusive-solution claims",
			Severity:    5,
		},
		{
			Name:        "overconfidence_guaranteed",
			Category:    CategoryOverconfidence,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)guaranteed?\s+to\s+(work|fix)`),
			Description: "Detects guarantee claims",
			Severity:    6,
		},
		{
			Name:        "overconfidence_solve_all",
			Category:    CategoryOverconfidence,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)will\s+solve\s+all\s+your\s+problems`),
			Description: "Detects cure-all claims",
			Severity:    5,
		},
		{
			Name:        "overconfidence_perfect",
			Category:    CategoryOverconfidence,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)perfect\s+solution\s+for`),
			Description: "Detects perfection claims",
			Severity:    5,
		},
		{
			Name:        "overconfidence_foolproof",
			Category:    CategoryOverconfidence,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)foolproof\s+method`),
			Description: "Detects infallibility claims",
			Severity:    5,
		},
		{
			Name:        "overconfidence_cannot_fail",
			Category:    CategoryOverconfidence,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)cannot\s+possibly\s+fail`),
			Description: "Detects infallibility claims",
			Severity:    6,
		},
		{
			Name:        "overconfidence_all_cases",
			Category:    CategoryOverconfidence,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)works\s+in\s+all\s+cases`),
			Description: "Detects universality claims",
			Severity:    5,
		},
		{
			Name:        "overconfidence_no_exceptions",
			Category:    CategoryOverconfidence,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)no\s+exceptions\s+whatsoever`),
			Description: "Detects universality claims",
			Severity:    5,
		},
		{
			Name:        "overconfidence_100_guarantee",
			Category:    CategoryOverconfidence,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)100%\s+guarantee`),
			Description: "Detects explicit percentage guarantees",
			Severity:    6,
		},
		{
			Name:        "overconfidence_never_fail",
			Category:    CategoryOverconfidence,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)never\s+fail`),
			Description: "Detects infallibility claims",
			Severity:    5,
		},

		// Bias language
		{
			Name:        "bias_obviously_better",
			Category:    CategoryBiasLanguage,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)obviously\s+better\s+than`),
			Description: "Detects dismissive comparisons",
			Severity:    4,
		},
		{
			Name:        "bias_clearly_superior",
			Category:    CategoryBiasLanguage,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)clearly\s+superior\s+to`),
			Description: "Detects dismissive comparisons",
			Severity:    4,
		},
		{
			Name:        "bias_everyone_knows",
			Category:    CategoryBiasLanguage,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)everyone\s+knows\s+that`),
			Description: "Detects appeal-to-obviousness",
			Severity:    4,
		},
		{
			Name:        "bias_common_sense",
			Category:    CategoryBiasLanguage,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)common\s+sense\s+dictates`),
			Description: "Detects appeal-to-obviousness",
			Severity:    4,
		},
		{
			Name:        "bias_competent_dba",
			Category:    CategoryBiasLanguage,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)any\s+competent\s+dba\s+would`),
			Description: "Detects gatekeeping phrasing",
			Severity:    5,
		},
		{
			Name:        "bias_only_beginners",
			Category:    CategoryBiasLanguage,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)only\s+beginners\s+use`),
			Description: "Detects gatekeeping phrasing",
			Severity:    5,
		},
		{
			Name:        "bias_real_professionals",
			Category:    CategoryBiasLanguage,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)real\s+professionals\s+never`),
			Description: "Detects gatekeeping phrasing",
			Severity:    5,
		},

		// Uncertainty indicators (hedging; higher counts are better)
		{
			Name:        "uncertainty_might_work",
			Category:    CategoryUncertainty,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)might\s+work`),
			Description: "Detects hedged phrasing",
			Severity:    1,
		},
		{
			Name:        "uncertainty_could_help",
			Category:    CategoryUncertainty,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)could\s+help`),
			Description: "Detects hedged phrasing",
			Severity:    1,
		},
		{
			Name:        "uncertainty_typically",
			Category:    CategoryUncertainty,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)typically\s+improves`),
			Description: "Detects hedged phrasing",
			Severity:    1,
		},
		{
			Name:        "uncertainty_most_cases",
			Category:    CategoryUncertainty,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)in\s+most\s+cases`),
			Description: "Detects hedged phrasing",
			Severity:    1,
		},
		{
			Name:        "uncertainty_generally",
			Category:    CategoryUncertainty,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)generally\s+recommended`),
			Description: "Detects hedged phrasing",
			Severity:    1,
		},
		{
			Name:        "uncertainty_usually",
			Category:    CategoryUncertainty,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)usually\s+effective`),
			Description: "Detects hedged phrasing",
			Severity:    1,
		},
		{
			Name:        "uncertainty_may_resolve",
			Category:    CategoryUncertainty,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)may\s+resolve`),
			Description: "Detects hedged phrasing",
			Severity:    1,
		},
		{
			Name:        "uncertainty_often_helps",
			Category:    CategoryUncertainty,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)often\s+helps`),
			Description: "Detects hedged phrasing",
			Severity:    1,
		},
		{
			Name:        "uncertainty_consider_testing",
			Category:    CategoryUncertainty,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)consider\s+testing`),
			Description: "Detects verification reminders",
			Severity:    1,
		},
		{
			Name:        "uncertainty_verify_environment",
			Category:    CategoryUncertainty,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)verify\s+in\s+your\s+environment`),
			Description: "Detects verification reminders",
			Severity:    1,
		},

		// Fact-check triggers
		{
			Name:        "factcheck_studies_show",
			Category:    CategoryFactCheck,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)studies\s+show`),
			Description: "Detects claims citing studies",
			Severity:    3,
		},
		{
			Name:        "factcheck_research_indicates",
			Category:    CategoryFactCheck,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)research\s+indicates`),
			Description: "Detects claims citing research",
			Severity:    3,
		},
		{
			Name:        "factcheck_statistics_prove",
			Category:    CategoryFactCheck,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)statistics\s+prove`),
			Description: "Detects claims citing statistics",
			Severity:    3,
		},
		{
			Name:        "factcheck_data_confirms",
			Category:    CategoryFactCheck,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)data\s+confirms`),
			Description: "Detects claims citing data",
			Severity:    3,
		},
		{
			Name:        "factcheck_benchmarks",
			Category:    CategoryFactCheck,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)benchmarks\s+demonstrate`),
			Description: "Detects claims citing benchmarks",
			Severity:    3,
		},
		{
			Name:        "factcheck_industry_standard",
			Category:    CategoryFactCheck,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)industry\s+standard`),
			Description: "Detects appeals to industry standards",
			Severity:    2,
		},
		{
			Name:        "factcheck_best_practice",
			Category:    CategoryFactCheck,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)best\s+practice\s+is`),
			Description: "Detects appeals to best practice",
			Severity:    2,
		},
		{
			Name:        "factcheck_experts_recommend",
			Category:    CategoryFactCheck,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)recommended\s+by\s+experts`),
			Description: "Detects appeals to experts",
			Severity:    2,
		},

		// Known false database claims
		{
			Name:        "false_unlimited_connections",
			Category:    CategoryFalseClaim,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)postgresql\s+supports\s+unlimited\s+connections`),
			Description: "PostgreSQL connection counts are bounded by max_connections",
			Severity:    8,
		},
		{
			Name:        "false_indexes_never_slow",
			Category:    CategoryFalseClaim,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)indexes\s+never\s+slow\s+down\s+writes`),
			Description: "Index maintenance costs writes",
			Severity:    8,
		},
		{
			Name:        "false_nosql_acid",
			Category:    CategoryFalseClaim,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)nosql\s+databases\s+are\s+always\s+acid\s+compliant`),
			Description: "ACID guarantees vary by engine",
			Severity:    8,
		},
		{
			Name:        "false_denormalization_always",
			Category:    CategoryFalseClaim,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)denormalization\s+always\s+improves\s+performance`),
			Description: "Denormalization trades integrity for reads",
			Severity:    8,
		},
		{
			Name:        "false_cloud_uptime",
			Category:    CategoryFalseClaim,
			Side:        SideOutput,
			Regex:       regexp.MustCompile(`(?i)cloud\s+databases\s+have\s+100%\s+uptime`),
			Description: "No managed database offers total uptime",
			Severity:    8,
		},
	}

	ps = append(ps, sensitivePatterns(CategoryOutputSensitive, SideOutput)...)
	return ps
}
