package misinfo

import (
	"regexp"
	"strings"
)

// Disclaimers appended by EnhanceReliability.
const (
	verificationDisclaimer = "\n\n**Verification Required**: Test these recommendations in a development environment before production implementation."
	performanceNote        = "\n\n**Note**: Database performance depends on specific data patterns, hardware, and workload characteristics. Results may vary."
)

var (
	verificationRe = regexp.MustCompile(`(?i)test|verify|validate`)
	perfTopicRe    = regexp.MustCompile(`(?i)index|query|performance`)

	// Absolute phrasings downgraded to hedged equivalents.
	hedges = []struct {
		re          *regexp.Regexp
		replacement string
	}{
		{regexp.MustCompile(`(?i)\bwill\s+fix\b`), "should help fix"},
		{regexp.MustCompile(`(?i)\bguaranteed\s+to\b`), "likely to"},
		{regexp.MustCompile(`(?i)\balways\s+works\b`), "typically works"},
	}
)

// EnhanceReliability rewrites absolute phrasing into hedged phrasing and
// appends a verification disclaimer when the response never mentions
// testing or verification. Running it on its own output is a no-op.
func EnhanceReliability(text string) string {
	enhanced := text

	if !verificationRe.MatchString(enhanced) {
		enhanced += verificationDisclaimer
	}

	for _, h := range hedges {
		enhanced = h.re.ReplaceAllString(enhanced, h.replacement)
	}

	if perfTopicRe.MatchString(enhanced) && !strings.Contains(enhanced, performanceNote) {
		enhanced += performanceNote
	}

	return enhanced
}
