package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/extjson/document"
)

type record struct {
	ID      document.ObjectID `extjson:"_id"`
	Title   string            `extjson:"title"`
	Count   int64             `extjson:"count"`
	Payload []byte            `extjson:"payload"`
	Created time.Time         `extjson:"created"`
	Tags    []string          `extjson:"tags"`
}

func testRecord(t *testing.T) record {
	t.Helper()
	id, err := document.ObjectIDFromHex("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	return record{
		ID:      id,
		Title:   strings.Repeat("extended json ", 20),
		Count:   1 << 40,
		Payload: []byte{1, 2, 3},
		Created: time.UnixMilli(1609459200000).UTC(),
		Tags:    []string{"a", "b"},
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"extjson", "relaxed-json", "bson", "extjson+zstd", "extjson+lz4"} {
		t.Run(name, func(t *testing.T) {
			c, ok := ByName(name)
			require.True(t, ok)
			assert.Equal(t, name, c.Name())
		})
	}

	_, ok := ByName("json")
	assert.False(t, ok)
}

func TestBSONDocument(t *testing.T) {
	c, ok := ByName("bson")
	require.True(t, ok)

	want := document.Doc(
		document.E("n", document.Int64(7)),
		document.E("d", document.DateTime(1609459200000)),
		document.E("k", document.MaxKey()),
	)
	data, err := c.Marshal(want)
	require.NoError(t, err)

	var got document.Value
	require.NoError(t, c.Unmarshal(data, &got))
	assert.True(t, want.Equal(got), "got %v", got)

	_, err = c.Marshal(document.Int32(1))
	assert.Error(t, err)
}

func TestBSONStruct(t *testing.T) {
	type item struct {
		Name string `bson:"name"`
		N    int64  `bson:"n"`
	}

	data := MustMarshal(BSON{}, item{Name: "x", N: 3})

	var got item
	require.NoError(t, BSON{}.Unmarshal(data, &got))
	assert.Equal(t, item{Name: "x", N: 3}, got)

	var d document.Document
	require.NoError(t, BSON{}.Unmarshal(data, &d))
	assert.Equal(t, []string{"name", "n"}, d.Keys())
}

func TestCodecRoundTrip(t *testing.T) {
	for _, name := range []string{"extjson", "relaxed-json", "extjson+zstd", "extjson+lz4"} {
		t.Run(name, func(t *testing.T) {
			c, ok := ByName(name)
			require.True(t, ok)

			want := testRecord(t)
			data, err := c.Marshal(want)
			require.NoError(t, err)

			var got record
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestExtendedJSONWireFormat(t *testing.T) {
	data, err := ExtendedJSON{}.Marshal(document.Doc(
		document.E("n", document.Int64(7)),
		document.E("d", document.DateTime(1609459200000)),
	))
	require.NoError(t, err)
	assert.Equal(t, `{"n":{"$numberLong":"7"},"d":{"$date":"2021-01-01T00:00:00.000Z"}}`, string(data))

	var v document.Value
	require.NoError(t, ExtendedJSON{}.Unmarshal(data, &v))
	n, ok := v.D.Lookup("n")
	require.True(t, ok)
	assert.Equal(t, document.Int64(7), n)
}

func TestRelaxedJSONWireFormat(t *testing.T) {
	data, err := RelaxedJSON{}.Marshal(document.Doc(
		document.E("n", document.Int64(7)),
		document.E("d", document.DateTime(1609459200000)),
	))
	require.NoError(t, err)
	assert.Equal(t, `{"n":7,"d":"2021-01-01T00:00:00.000Z"}`, string(data))
}

func TestCompressedShrinksRepetitivePayload(t *testing.T) {
	rec := testRecord(t)
	plain := MustMarshal(ExtendedJSON{}, rec)

	for _, c := range []Compression{CompressionZSTD, CompressionLZ4} {
		t.Run(string(c), func(t *testing.T) {
			data := MustMarshal(NewCompressed(ExtendedJSON{}, c), rec)
			assert.Less(t, len(data), len(plain))
		})
	}
}

func TestCompressedStoresIncompressibleRaw(t *testing.T) {
	c := NewCompressed(ExtendedJSON{}, CompressionLZ4)

	data, err := c.Marshal(true)
	require.NoError(t, err)
	assert.Equal(t, append([]byte{4, 0, 0, 0, 0, 0, 0, 0}, "true"...), data)

	var got bool
	require.NoError(t, c.Unmarshal(data, &got))
	assert.True(t, got)
}

func TestCompressedCorruptInput(t *testing.T) {
	c := NewCompressed(ExtendedJSON{}, CompressionZSTD)
	valid := MustMarshal(c, testRecord(t))

	tests := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"ShortHeader", []byte{1, 2, 3}},
		{"Truncated", valid[:len(valid)-1]},
		{"Garbage", append(bytes.Clone(valid[:blockHeaderSize]), bytes.Repeat([]byte{0xff}, len(valid)-blockHeaderSize)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got record
			err := c.Unmarshal(tt.data, &got)
			assert.ErrorIs(t, err, ErrCorruptBlock)
		})
	}
}

func TestMustMarshal(t *testing.T) {
	assert.Equal(t, []byte(`{"$numberLong":"1"}`), MustMarshal(nil, int64(1)))
	assert.Panics(t, func() { MustMarshal(ExtendedJSON{}, make(chan int)) })
}
