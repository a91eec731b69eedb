package terminal

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeSession(id SessionID, name string) *Session {
	return newSession(Metadata{ID: id, Name: name, Cwd: "/"}, nil, &exec.Cmd{}, DefaultCols, DefaultRows)
}

func TestRegistryInsertAndWith(t *testing.T) {
	r := newRegistry()
	r.insert(fakeSession(1, "one"))
	r.insert(fakeSession(2, "two"))
	assert.Equal(t, 2, r.len())

	var name string
	found, err := r.with(2, func(s *Session) error {
		name = s.meta.Name
		return nil
	})
	require.True(t, found)
	require.NoError(t, err)
	assert.Equal(t, "two", name)

	boom := errors.New("boom")
	found, err = r.with(1, func(*Session) error { return boom })
	assert.True(t, found)
	assert.ErrorIs(t, err, boom)

	called := false
	found, err = r.with(3, func(*Session) error { called = true; return nil })
	assert.False(t, found)
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestRegistryRemoveTransfersOwnership(t *testing.T) {
	r := newRegistry()
	r.insert(fakeSession(1, "one"))

	s, ok := r.remove(1)
	require.True(t, ok)
	assert.Equal(t, SessionID(1), s.meta.ID)

	_, ok = r.remove(1)
	assert.False(t, ok)
	assert.Zero(t, r.len())
}

func TestRegistrySnapshots(t *testing.T) {
	r := newRegistry()
	r.insert(fakeSession(1, "one"))
	r.insert(fakeSession(2, "two"))

	assert.ElementsMatch(t, []Metadata{
		{ID: 1, Name: "one", Cwd: "/"},
		{ID: 2, Name: "two", Cwd: "/"},
	}, r.metadata())

	infos := r.infos()
	require.Len(t, infos, 2)
	for _, info := range infos {
		assert.True(t, info.Alive)
		assert.Equal(t, DefaultCols, info.Cols)
		assert.Zero(t, info.PID)
	}

	drained := r.drain()
	assert.Len(t, drained, 2)
	assert.Zero(t, r.len())
	assert.Empty(t, r.metadata())
}

func TestRegistryRefusesInsertAfterDrain(t *testing.T) {
	r := newRegistry()
	require.True(t, r.insert(fakeSession(1, "one")))

	s, ok := r.get(1)
	require.True(t, ok)
	assert.Equal(t, "one", s.meta.Name)
	_, ok = r.get(2)
	assert.False(t, ok)

	assert.False(t, r.isClosed())
	r.drain()
	assert.True(t, r.isClosed())
	assert.False(t, r.insert(fakeSession(2, "two")))
	assert.Zero(t, r.len())
}
