// Package featureflags evaluates runtime switches configured through FEATURE_FLAGS.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Known flags.
const (
	// RealtimeVotes publishes score changes to websocket subscribers.
	RealtimeVotes = "realtime_votes"
	// SidebarCache serves popular tags and best members through Redis.
	SidebarCache = "sidebar_cache"
)

// Defaults apply when FEATURE_FLAGS does not mention a flag.
var Defaults = map[string]string{
	RealtimeVotes: "on",
	SidebarCache:  "on",
}

// Manager evaluates feature flags defined in a key=value list,
// e.g. "realtime_votes=on,sidebar_cache=off" or "realtime_votes=25%".
type Manager struct {
	flags map[string]string
}

// NewManager parses raw on top of Defaults.
func NewManager(raw string) *Manager {
	out := make(map[string]string, len(Defaults))
	for k, v := range Defaults {
		out[k] = v
	}

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}

	return &Manager{flags: out}
}

// Enabled reports whether name is on for userID. Values are on/true/1,
// off/false/0, or N% for a deterministic per-user rollout. Anonymous
// callers (userID 0) only see flags that are fully on.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	switch {
	case err != nil || pct <= 0:
		return false
	case pct >= 100:
		return true
	case userID == 0:
		return false
	}
	return rolloutBucket(name, userID) < pct
}

// Raw returns a copy of the configured flags.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out
}

// Snapshot returns evaluated flag status for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
