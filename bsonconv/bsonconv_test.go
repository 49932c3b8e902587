package bsonconv

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hupe1980/extjson"
	"github.com/hupe1980/extjson/document"
)

func sample(t *testing.T) document.Document {
	t.Helper()
	id, err := document.ObjectIDFromHex("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	return document.Document{
		document.E("_id", document.OID(id)),
		document.E("null", document.Null()),
		document.E("bool", document.Bool(true)),
		document.E("int32", document.Int32(math.MinInt32)),
		document.E("int64", document.Int64(math.MaxInt64)),
		document.E("double", document.Double(1.5)),
		document.E("string", document.String("hello")),
		document.E("binary", document.Bin(document.Binary{Subtype: document.SubtypeUUID, Data: make([]byte, 16)})),
		document.E("date", document.DateTime(1609459200000)),
		document.E("min", document.MinKey()),
		document.E("max", document.MaxKey()),
		document.E("array", document.Array(document.Int32(1), document.String("x"), document.Doc())),
		document.E("nested", document.Doc(document.E("z", document.Int32(1)), document.E("a", document.Int32(2)))),
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	want := sample(t)

	data, err := Marshal(want)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "got %v", got)
}

func TestMarshalDropsAbsent(t *testing.T) {
	data, err := Marshal(document.Document{
		document.E("gone", document.Absent()),
		document.E("list", document.Array(document.Absent())),
	})
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"list"}, got.Keys())
	list, _ := got.Lookup("list")
	assert.Equal(t, document.Array(document.Null()), list)
}

func TestFromBSON(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want document.Value
	}{
		{"Nil", nil, document.Null()},
		{"Undefined", primitive.Undefined{}, document.Null()},
		{"Int", 7, document.Int64(7)},
		{"Bytes", []byte{1}, document.Bin(document.Binary{Data: []byte{1}})},
		{"Time", time.UnixMilli(42), document.DateTime(42)},
		{"SliceAny", []any{int32(1)}, document.Array(document.Int32(1))},
		{"MapSortsKeys", bson.M{"b": int32(2), "a": int32(1)}, document.Doc(
			document.E("a", document.Int32(1)),
			document.E("b", document.Int32(2)),
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromBSON(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestFromBSONUnsupported(t *testing.T) {
	_, err := FromBSON(bson.D{{Key: "re", Value: primitive.Regex{Pattern: "a"}}})
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), `key "re"`)

	_, err = FromBSON(bson.A{primitive.Timestamp{T: 1}})
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "index 0")
}

func TestToBSON(t *testing.T) {
	v, err := ToBSON(document.Doc(
		document.E("d", document.DateTime(5)),
		document.E("a", document.Array(document.Absent(), document.MinKey())),
	))
	require.NoError(t, err)
	assert.Equal(t, primitive.D{
		{Key: "d", Value: primitive.DateTime(5)},
		{Key: "a", Value: primitive.A{nil, primitive.MinKey{}}},
	}, v)

	_, err = ToBSON(document.Value{Kind: document.Kind(200)})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

// The driver's canonical Extended JSON decodes to the same document.
func TestDriverCanonicalExtJSON(t *testing.T) {
	want := sample(t)
	bd, err := ToBSON(document.Doc(want...))
	require.NoError(t, err)

	data, err := bson.MarshalExtJSON(bd, true, false)
	require.NoError(t, err)

	var got document.Value
	require.NoError(t, extjson.Unmarshal(data, &got))
	assert.True(t, document.Doc(want...).Equal(got), "decoding %s", data)
}

// Canonical text from this module is accepted by the driver.
func TestEncodedExtJSONAcceptedByDriver(t *testing.T) {
	want := sample(t)

	data, err := extjson.Marshal(document.Doc(want...))
	require.NoError(t, err)

	var bd bson.D
	require.NoError(t, bson.UnmarshalExtJSON(data, false, &bd))

	got, err := FromBSON(bd)
	require.NoError(t, err)
	assert.True(t, document.Doc(want...).Equal(got), "decoding %s", data)
}
