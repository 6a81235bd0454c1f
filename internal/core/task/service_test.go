package task

import "testing"

func TestKeyNamespacesTaskIDs(t *testing.T) {
	if got := key("abc-123"); got != "task:abc-123" {
		t.Errorf("key() = %q", got)
	}
}

func TestTTLByState(t *testing.T) {
	// Terminal snapshots linger for pollers that show up late; active ones
	// refresh on every checkpoint anyway.
	tests := []struct {
		state State
		want  int
	}{
		{StateQueued, 600},
		{StateInProgress, 600},
		{StateCompleted, 3600},
		{StateFailed, 3600},
	}
	for _, tt := range tests {
		if got := ttl(tt.state); got != tt.want {
			t.Errorf("ttl(%s) = %d, want %d", tt.state, got, tt.want)
		}
	}
}
