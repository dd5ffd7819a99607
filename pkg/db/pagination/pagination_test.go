package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: 1852})
	require.NoError(t, err)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1852), cursor.ID)

	_, err = DecodeCursor("%%%")
	assert.Error(t, err)
}

func TestPage(t *testing.T) {
	items := []int64{1, 2, 3}
	out, info, err := Page(items, 2, func(v int64) Cursor { return Cursor{ID: v} })
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, out)
	assert.True(t, info.HasMore)

	cursor, err := DecodeCursor(info.NextPageToken)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cursor.ID)

	out, info, err = Page(items, 5, func(v int64) Cursor { return Cursor{ID: v} })
	require.NoError(t, err)
	assert.Len(t, out, 3)
	assert.False(t, info.HasMore)
}

func TestLimit(t *testing.T) {
	assert.Equal(t, DefaultPageSize, Pagination{}.Limit())
	assert.Equal(t, MaxPageSize, Pagination{PageSize: 5000}.Limit())
	assert.Equal(t, 7, Pagination{PageSize: 7}.Limit())
}
