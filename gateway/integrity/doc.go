// Package integrity gates model output before it reaches users. The
// supply-chain gate catches executable code, poisoned blanket advice,
// and length anomalies in the generated content; the handling gate
// catches markup injection, internal-address URLs, and privilege
// escalation SQL that would be dangerous to render or relay. A rolling
// quality monitor detects drift across responses that single-response
// gates cannot see.
package integrity
