package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabledBooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	for _, name := range []string{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, 1), name)
	}
	for _, name := range []string{"b", "d", "f", "missing"} {
		assert.False(t, m.Enabled(name, 1), name)
	}
}

func TestEnabledPercentage(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,junk=abc%")

	assert.True(t, m.Enabled("always", 1))
	assert.False(t, m.Enabled("never", 1))
	assert.False(t, m.Enabled("junk", 1))
	assert.False(t, m.Enabled("canary", 0), "anonymous users never land in a rollout")

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42))
	}
}

func TestLiveFeedDefault(t *testing.T) {
	m := NewManager(" Live_Feed = ON ")
	assert.True(t, m.Enabled(LiveFeed, 7))
	assert.Equal(t, []string{"live_feed"}, m.Names())
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(LiveFeed, 1))
	assert.Empty(t, m.Snapshot(1))
}

func TestSnapshotSkipsMalformedPairs(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off,=on,w=")
	snap := m.Snapshot(123)
	assert.Len(t, snap, 3)
	assert.True(t, snap["x"])
	assert.False(t, snap["z"])
}
