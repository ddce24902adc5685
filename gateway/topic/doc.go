// Package topic keeps conversations scoped to database work using
// keyword allow and deny lists, with a pass-through for short
// conversational replies.
package topic
