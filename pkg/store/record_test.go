package store

import (
	"context"
	"testing"

	"github.com/praetorian-inc/what/pkg/catalog"
	"github.com/praetorian-inc/what/pkg/identify"
	"github.com/praetorian-inc/what/pkg/matcher"
	"github.com/praetorian-inc/what/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	cat, err := catalog.New([]*types.Signature{
		{Name: "Ticket", Pattern: `TKT-\d+`, Rarity: 0.9, Tags: []string{"Internal"}},
		{Name: "Unused", Pattern: `zzz`, Rarity: 0.9, Tags: []string{"Internal"}},
	})
	require.NoError(t, err)

	opts := matcher.DefaultOptions()
	opts.MaxBlobSize = 12
	id, err := identify.New(cat, identify.WithMatcherOptions(opts))
	require.NoError(t, err)

	blobs := []types.Blob{
		types.NewFileBlob("a.txt", []byte("TKT-1 TKT-2 TKT-3")),
		types.NewTextBlob("TKT-4"),
	}
	res, err := id.Identify(context.Background(), blobs, identify.Request{})
	require.NoError(t, err)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Record(s, blobs, res))

			sigs, err := s.Signatures()
			require.NoError(t, err)
			require.Len(t, sigs, 1, "only referenced signatures are stored")
			assert.Equal(t, "Ticket", sigs[0].Name)

			stored, err := s.Blobs()
			require.NoError(t, err)
			require.Len(t, stored, 2)
			assert.Equal(t, "file", stored[0].Kind)
			assert.Equal(t, "a.txt", stored[0].Origin)
			assert.True(t, stored[0].Truncated)
			assert.NotEmpty(t, stored[0].Reason)
			assert.Equal(t, "text", stored[1].Kind)
			assert.False(t, stored[1].Truncated)

			matches, err := s.Matches()
			require.NoError(t, err)
			var got []string
			for _, m := range matches {
				got = append(got, m.Matched)
			}
			assert.Equal(t, []string{"TKT-1", "TKT-2", "TKT-4"}, got)
		})
	}
}
