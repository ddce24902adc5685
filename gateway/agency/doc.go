// Package agency keeps model responses within the assistant's database
// authority. Operations are classified into tiers: read-only and safe
// administrative statements pass untouched, schema and data
// modifications pass with a DBA-approval annotation, and destructive or
// privilege-changing statements block the whole response.
package agency
