package agency

import (
	"fmt"
	"regexp"
	"strings"

	"dbassist/platform/gateway/events"
	"dbassist/platform/gateway/patterns"
	"dbassist/platform/shared/logger"
)

// Tier classifies a SQL operation by how much authority it exercises.
type Tier string

const (
	TierReadOnly   Tier = "read_only"
	TierSafeAdmin  Tier = "safe_admin"
	TierRestricted Tier = "restricted"
	TierForbidden  Tier = "forbidden"
)

const approvalNote = "requires DBA approval"

// Statement-shaped operation patterns per tier. Safe-admin phrasings are
// matched before restricted ones so CREATE INDEX CONCURRENTLY does not
// count as a bare CREATE.
var (
	safeAdminOps = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bCREATE\s+INDEX\s+CONCURRENTLY\b`),
		regexp.MustCompile(`(?i)\bANALYZE\b`),
		regexp.MustCompile(`(?i)\bVACUUM\b`),
	}
	readOnlyOps = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bSELECT\b`),
		regexp.MustCompile(`(?i)\bEXPLAIN\b`),
		regexp.MustCompile(`(?i)\bSHOW\b`),
		regexp.MustCompile(`(?i)\bDESCRIBE\b`),
	}
	restrictedOps = map[string]*regexp.Regexp{
		"CREATE": regexp.MustCompile(`(?i)\bCREATE\s+(TABLE|VIEW|INDEX|SCHEMA|SEQUENCE|TRIGGER)\b`),
		"ALTER":  regexp.MustCompile(`(?i)\bALTER\s+(TABLE|VIEW|INDEX|SCHEMA|SEQUENCE)\b`),
		"UPDATE": regexp.MustCompile(`(?i)\bUPDATE\s+\w+\s+SET\b`),
		"INSERT": regexp.MustCompile(`(?i)\bINSERT\s+INTO\b`),
	}
	forbiddenOps = map[string]*regexp.Regexp{
		"DROP":      regexp.MustCompile(`(?i)\bDROP\s+(TABLE|DATABASE|INDEX|SCHEMA|USER|VIEW)\b`),
		"DELETE":    regexp.MustCompile(`(?i)\bDELETE\s+FROM\b`),
		"TRUNCATE":  regexp.MustCompile(`(?i)\bTRUNCATE\s+(TABLE\s+)?\w+`),
		"GRANT ALL": regexp.MustCompile(`(?i)\bGRANT\s+ALL\b`),
		"REVOKE":    regexp.MustCompile(`(?i)\bREVOKE\b`),
		"SHUTDOWN":  regexp.MustCompile(`(?i)\bSHUTDOWN\b`),
	}

	// Bare keyword shapes masked inside SQL code blocks. These catch
	// fragments too partial to block on.
	maskKeywords = regexp.MustCompile(`(?i)\b(DROP|DELETE|TRUNCATE|REVOKE|SHUTDOWN|GRANT\s+ALL)\b`)

	codeBlock = regexp.MustCompile("(?s)```(?:sql)?\n?(.*?)```")
)

// Result is the outcome of an agency check. Text carries the response
// after annotation and masking; it is only meaningful when Allowed.
type Result struct {
	Allowed    bool     `json:"allowed"`
	Reason     string   `json:"reason,omitempty"`
	Violations []string `json:"violations,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Text       string   `json:"-"`
}

// Validator enforces operation-tier boundaries on model responses that
// contain SQL.
type Validator struct {
	registry *patterns.Registry
	log      *logger.Logger
	sink     events.Sink
}

// NewValidator builds a Validator over the shared pattern registry.
func NewValidator(registry *patterns.Registry, log *logger.Logger, sink events.Sink) *Validator {
	return &Validator{registry: registry, log: log, sink: sink}
}

// Classify returns the highest tier of operation found in a SQL
// statement. Statements matching nothing classify as read-only.
func Classify(statement string) Tier {
	for _, re := range forbiddenOps {
		if re.MatchString(statement) {
			return TierForbidden
		}
	}
	for _, re := range safeAdminOps {
		if re.MatchString(statement) {
			return TierSafeAdmin
		}
	}
	for _, re := range restrictedOps {
		if re.MatchString(statement) {
			return TierRestricted
		}
	}
	for _, re := range readOnlyOps {
		if re.MatchString(statement) {
			return TierReadOnly
		}
	}
	return TierReadOnly
}

// Check classifies every operation in a model response. Forbidden
// operations block the response outright, with the violated operation
// names collected for escalation. Restricted operations pass, but each
// SQL code block containing one is annotated with an approval note, and
// forbidden keyword fragments inside code blocks are masked.
func (v *Validator) Check(response string) Result {
	var violations []string
	for name, re := range forbiddenOps {
		if re.MatchString(response) {
			violations = append(violations, name)
		}
	}
	for _, p := range v.registry.Category(patterns.CategoryAgencyEscalation) {
		if p.Regex.MatchString(response) {
			violations = append(violations, p.Name)
		}
	}
	if len(violations) > 0 {
		v.log.Warn("model", "", fmt.Sprintf("Excessive agency: %v", violations), nil)
		v.sink.Record(events.New(events.TypeExcessiveAgency, "model",
			fmt.Sprintf("forbidden operations: %v", violations)))
		return Result{
			Reason:     "Response blocked: operation exceeds assistant authority",
			Violations: violations,
		}
	}

	var warnings []string
	annotated := codeBlock.ReplaceAllStringFunc(response, func(block string) string {
		masked := maskKeywords.ReplaceAllString(block, "[RESTRICTED_OPERATION]")
		for name, re := range restrictedOps {
			if re.MatchString(masked) {
				warnings = append(warnings, fmt.Sprintf("%s %s", name, approvalNote))
				return strings.TrimSuffix(masked, "```") + "-- " + approvalNote + "\n```"
			}
		}
		return masked
	})

	// Restricted statements outside code blocks still get the note.
	if len(warnings) == 0 {
		for name, re := range restrictedOps {
			if re.MatchString(annotated) {
				warnings = append(warnings, fmt.Sprintf("%s %s", name, approvalNote))
				annotated += "\n\nNote: the modification shown above requires DBA approval before execution."
				break
			}
		}
	}

	return Result{Allowed: true, Warnings: warnings, Text: annotated}
}
