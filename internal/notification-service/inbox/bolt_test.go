package inbox

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkIfNewDeduplicates(t *testing.T) {
	box, err := Open(filepath.Join(t.TempDir(), "inbox.db"))
	require.NoError(t, err)
	defer box.Close()

	fresh, err := box.MarkIfNew("evt-1")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = box.MarkIfNew("evt-1")
	require.NoError(t, err)
	assert.False(t, fresh)

	fresh, err = box.MarkIfNew("evt-2")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestInboxSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inbox.db")

	box, err := Open(path)
	require.NoError(t, err)
	_, err = box.MarkIfNew("evt-1")
	require.NoError(t, err)
	require.NoError(t, box.Close())

	box, err = Open(path)
	require.NoError(t, err)
	defer box.Close()

	fresh, err := box.MarkIfNew("evt-1")
	require.NoError(t, err)
	assert.False(t, fresh, "a redelivery after restart must still be dropped")
}
