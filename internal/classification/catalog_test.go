package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveName(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		want   string
		wantOK bool
	}{
		{"segment", SegmentMusicID, "Musique", true},
		{"sports genre", "KnvZfZ7vAdt", "Rugby", true},
		{"music genre", "KnvZfZ7vAeA", "Rock", true},
		{"arts genre", "KnvZfZ7v7l1", "Théâtre", true},
		{"unknown", "nope", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveName(tt.id)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveID(t *testing.T) {
	id, ok := ResolveID("Arts & Théâtre")
	require.True(t, ok)
	assert.Equal(t, SegmentArtsID, id)

	id, ok = ResolveID("  jazz ")
	require.True(t, ok)
	assert.Equal(t, "KnvZfZ7vAvE", id)

	_, ok = ResolveID("Polka")
	assert.False(t, ok)
}

func TestNameOrUndefined(t *testing.T) {
	assert.Equal(t, "Sports", NameOrUndefined(SegmentSportsID))
	assert.Equal(t, "undefined", NameOrUndefined("unknown-id"))
	assert.Equal(t, "undefined", NameOrUndefined(""))
}

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]string)
	for _, c := range All() {
		prev, dup := seen[c.ID]
		assert.Falsef(t, dup, "id %s used by %q and %q", c.ID, prev, c.Name)
		seen[c.ID] = c.Name
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "changed"
	assert.Equal(t, "Musique", All()[0].Name)
}

func TestSegmentsOrder(t *testing.T) {
	segs := Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, []string{"Musique", "Sports", "Arts & Théâtre"}, []string{segs[0].Name, segs[1].Name, segs[2].Name})
}
