package extjson

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/extjson/document"
	"github.com/hupe1980/extjson/jsontree"
	"github.com/hupe1980/extjson/testutil"
)

var valueComparer = cmp.Comparer(func(a, b document.Value) bool { return a.Equal(b) })

func allKinds(t *testing.T) document.Value {
	return document.Doc(
		document.E("null", document.Null()),
		document.E("bool", document.Bool(false)),
		document.E("int32", document.Int32(math.MinInt32)),
		document.E("int64", document.Int64(math.MinInt64)),
		document.E("smallInt64", document.Int64(1)),
		document.E("double", document.Double(-1.25e-300)),
		document.E("integralDouble", document.Double(1e15)),
		document.E("nan", document.Double(math.NaN())),
		document.E("string", document.String("a \"quoted\"   line")),
		document.E("array", document.Array(document.Int32(1), document.String("x"), document.Array())),
		document.E("doc", document.Doc(document.E("$notAWrapper", document.Bool(true)), document.E("", document.Null()))),
		document.E("binary", document.Bin(document.Binary{Subtype: document.SubtypeUserDefined, Data: []byte{0, 255}})),
		document.E("oid", document.OID(mustOID(t, "507f1f77bcf86cd799439011"))),
		document.E("date", document.DateTime(1609459200000)),
		document.E("farDate", document.DateTime(-math.MaxInt64/4)),
		document.E("min", document.MinKey()),
		document.E("max", document.MaxKey()),
	)
}

func TestRoundTripExtendedJSON(t *testing.T) {
	enc := NewEncoder()
	dec := NewDecoder()

	t.Run("Tree", func(t *testing.T) {
		v := allKinds(t)
		n, err := enc.Encode(v)
		require.NoError(t, err)

		got, err := dec.Decode(n, nil)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(v, got, valueComparer))
	})

	t.Run("Text", func(t *testing.T) {
		v := allKinds(t)
		n, err := enc.Encode(v)
		require.NoError(t, err)

		data, err := jsontree.Marshal(n)
		require.NoError(t, err)
		parsed, err := jsontree.Parse(data)
		require.NoError(t, err)

		got, err := dec.Decode(parsed, nil)
		require.NoError(t, err)
		assert.True(t, v.Equal(got), "round trip through %s", data)
	})

	t.Run("Random", func(t *testing.T) {
		rng := testutil.NewRNG(4711)
		for i := range 200 {
			v := document.Doc(rng.Document(6, 3)...)
			n, err := enc.Encode(v)
			require.NoError(t, err)

			data, err := jsontree.Marshal(n)
			require.NoError(t, err)
			parsed, err := jsontree.Parse(data)
			require.NoError(t, err)

			got, err := dec.Decode(parsed, nil)
			require.NoError(t, err)
			require.True(t, v.Equal(got), "iteration %d: %s", i, data)
		}
	})
}

func TestRoundTripPlainWithHints(t *testing.T) {
	s := Plain()
	rng := testutil.NewRNG(42)

	for i := range 200 {
		v := document.Doc(rng.Document(6, 3)...)
		n, err := Encode(v, s)
		require.NoError(t, err)

		got, err := Decode(n, s, HintFor(v))
		require.NoError(t, err)

		want := withoutSubtypes(v)
		require.True(t, want.Equal(got), "iteration %d: %s", i, n)
	}
}

// withoutSubtypes mirrors the base64 strategy, which drops binary subtypes.
func withoutSubtypes(v document.Value) document.Value {
	switch v.Kind {
	case document.KindBinary:
		v.Sub = document.SubtypeGeneric
	case document.KindArray:
		items := make([]document.Value, len(v.A))
		for i := range v.A {
			items[i] = withoutSubtypes(v.A[i])
		}
		v.A = items
	case document.KindDocument:
		d := make(document.Document, len(v.D))
		for i, el := range v.D {
			d[i] = document.E(el.Key, withoutSubtypes(el.Value))
		}
		v.D = d
	}
	return v
}

func TestRoundTripBase64WithoutHint(t *testing.T) {
	v := document.Bin(document.Binary{Subtype: document.SubtypeMD5, Data: []byte("digest")})

	n, err := Encode(v, ExtendedJSON().WithBinary(BinaryBase64()))
	require.NoError(t, err)
	assert.Equal(t, `"ZGlnZXN0"`, n.String())

	got, err := Decode(n, ExtendedJSON(), nil)
	require.NoError(t, err)
	assert.Equal(t, document.String("ZGlnZXN0"), got)
}

func TestRoundTripKeyedNil(t *testing.T) {
	v := document.Doc(document.E("a", document.Absent()), document.E("b", document.Int32(1)))

	omitted, err := Encode(v, ExtendedJSON())
	require.NoError(t, err)
	got, err := Decode(omitted, ExtendedJSON(), nil)
	require.NoError(t, err)
	_, present := got.D.Lookup("a")
	assert.False(t, present)
	assert.Len(t, got.D, 1)

	nulled, err := Encode(v, ExtendedJSON().WithKeyedNil(KeyedNilNull))
	require.NoError(t, err)
	got, err = Decode(nulled, ExtendedJSON(), nil)
	require.NoError(t, err)
	a, present := got.D.Lookup("a")
	assert.True(t, present)
	assert.Equal(t, document.Null(), a)
}

func TestPlainInt64PrecisionLoss(t *testing.T) {
	const big = 9007199254740993 // 2^53 + 1

	n, err := Encode(document.Int64(big), Plain())
	require.NoError(t, err)
	assert.Equal(t, `9007199254740993`, n.String())

	// A consumer that reads JSON numbers as float64 rounds the value.
	f, err := n.Float64()
	require.NoError(t, err)
	lossy := jsontree.Float(f)

	got, err := Decode(lossy, Plain(), KindHint(document.KindInt64))
	require.NoError(t, err)
	assert.Equal(t, document.Int64(9007199254740992), got)

	// The wrapper form keeps every bit.
	n, err = Encode(document.Int64(big), ExtendedJSON())
	require.NoError(t, err)
	got, err = Decode(n, ExtendedJSON(), nil)
	require.NoError(t, err)
	assert.Equal(t, document.Int64(big), got)
}

func TestRoundTripObjectIDBothModes(t *testing.T) {
	id := document.OID(mustOID(t, "507f1f77bcf86cd799439011"))

	n, err := Encode(id, ExtendedJSON())
	require.NoError(t, err)
	assert.Equal(t, `{"$oid":"507f1f77bcf86cd799439011"}`, n.String())
	got, err := Decode(n, ExtendedJSON(), nil)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	n, err = Encode(id, Plain())
	require.NoError(t, err)
	assert.Equal(t, `"507f1f77bcf86cd799439011"`, n.String())
	got, err = Decode(n, Plain(), KindHint(document.KindObjectID))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
