package matchio

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/trackgo/blobstore"
	"github.com/hupe1980/trackgo/codec"
	"github.com/hupe1980/trackgo/model"
	"github.com/hupe1980/trackgo/resource"
)

func sampleMatches() model.PairwiseMatches {
	return model.PairwiseMatches{
		{ViewA: 1, ViewB: 2, Describer: model.DescriberSIFT}:       {{I: 10, J: 20}, {I: 11, J: 21}},
		{ViewA: 2, ViewB: 3, Describer: model.DescriberSIFT}:       {{I: 20, J: 30}},
		{ViewA: 1, ViewB: 3, Describer: model.DescriberAKAZEFloat}: {{I: 5, J: 6}},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, sampleMatches(), WithCodec(c)))

			got, err := Decode(&buf, WithCodec(c))
			require.NoError(t, err)
			assert.Equal(t, sampleMatches(), got)
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Encode(&a, sampleMatches()))
	require.NoError(t, Encode(&b, sampleMatches()))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestDecode_RejectsUnknownVersion(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"version":99,"pairs":[]}`))
	assert.ErrorContains(t, err, "version")
}

func TestSaveLoad_MemoryStore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	require.NoError(t, Save(ctx, store, "matches/run1.json", sampleMatches()))

	got, err := Load(ctx, store, "matches/run1.json")
	require.NoError(t, err)
	assert.Equal(t, sampleMatches(), got)

	_, err = Load(ctx, store, "matches/missing.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestLoadAll_MergesDocuments(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	docA := model.PairwiseMatches{
		{ViewA: 1, ViewB: 2, Describer: model.DescriberSIFT}: {{I: 10, J: 20}},
	}
	docB := model.PairwiseMatches{
		{ViewA: 1, ViewB: 2, Describer: model.DescriberSIFT}: {{I: 11, J: 21}},
		{ViewA: 2, ViewB: 3, Describer: model.DescriberSIFT}: {{I: 20, J: 30}},
	}
	require.NoError(t, Save(ctx, store, "a.json", docA))
	require.NoError(t, Save(ctx, store, "b.json", docB))

	rc := resource.NewController(resource.Config{MaxConcurrentLoads: 2})
	merged, err := LoadAll(ctx, store, []string{"a.json", "b.json"}, WithController(rc))
	require.NoError(t, err)

	key := model.Pair{ViewA: 1, ViewB: 2, Describer: model.DescriberSIFT}
	assert.ElementsMatch(t, []model.IndMatch{{I: 10, J: 20}, {I: 11, J: 21}}, merged[key])
	assert.Len(t, merged, 2)
}

func TestLoadAll_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, Save(ctx, store, "ok.json", sampleMatches()))

	_, err := LoadAll(ctx, store, []string{"ok.json", "gone.json"})
	require.Error(t, err)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.ErrorContains(t, err, "gone.json")
}
