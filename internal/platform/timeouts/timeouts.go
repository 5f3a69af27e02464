// Package timeouts defines the deadline applied to each remote coach call.
package timeouts

import "time"

// Analysis caps a single frame classification.
const Analysis = 5 * time.Second

// Plan caps intervention planning.
const Plan = 8 * time.Second

// Validation caps recovery answer checking.
const Validation = 5 * time.Second

// Suggestion caps session configuration suggestions.
const Suggestion = 6 * time.Second

// Tasks caps recovery task generation.
const Tasks = 8 * time.Second

// Chat caps an assistant reply.
const Chat = 6 * time.Second

// Insights caps the post-session summary.
const Insights = 8 * time.Second

// PluginStart limits how long the coach plugin process may take to handshake.
const PluginStart = 3 * time.Second
