package document

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "absent", KindAbsent.String())
	assert.Equal(t, "int64", KindInt64.String())
	assert.Equal(t, "objectId", KindObjectID.String())
	assert.Equal(t, "maxKey", KindMaxKey.String())
	assert.Equal(t, "invalid", Kind(200).String())
}

func TestAccessors(t *testing.T) {
	t.Run("Matching kind", func(t *testing.T) {
		b, ok := Bool(true).AsBool()
		assert.True(t, ok)
		assert.True(t, b)

		i32, ok := Int32(-7).AsInt32()
		assert.True(t, ok)
		assert.Equal(t, int32(-7), i32)

		i64, ok := Int64(math.MaxInt64).AsInt64()
		assert.True(t, ok)
		assert.Equal(t, int64(math.MaxInt64), i64)

		f, ok := Double(2.5).AsDouble()
		assert.True(t, ok)
		assert.Equal(t, 2.5, f)

		s, ok := String("x").AsString()
		assert.True(t, ok)
		assert.Equal(t, "x", s)

		bin, ok := Bin(Binary{Subtype: SubtypeUUID, Data: []byte{1}}).AsBinary()
		assert.True(t, ok)
		assert.Equal(t, SubtypeUUID, bin.Subtype)
	})

	t.Run("Mismatched kind", func(t *testing.T) {
		_, ok := Int32(1).AsInt64()
		assert.False(t, ok, "int32 and int64 must stay distinct")

		_, ok = Int64(1).AsInt32()
		assert.False(t, ok)

		_, ok = String("x").AsDocument()
		assert.False(t, ok)

		_, ok = Null().AsTime()
		assert.False(t, ok)
	})
}

func TestTimeTruncatesToMillis(t *testing.T) {
	ts := time.Date(2021, 1, 1, 0, 0, 0, 123_456_789, time.UTC)
	v := Time(ts)

	ms, ok := v.AsDateTime()
	require.True(t, ok)
	assert.Equal(t, int64(1609459200123), ms)

	got, ok := v.AsTime()
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 123_000_000, got.Nanosecond())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"null", Null(), Null(), true},
		{"absent vs null", Absent(), Null(), false},
		{"int32 vs int64", Int32(1), Int64(1), false},
		{"nan", Double(math.NaN()), Double(math.NaN()), true},
		{"signed zero", Double(0), Double(math.Copysign(0, -1)), false},
		{"binary subtype", Bin(Binary{Subtype: 0, Data: []byte{1}}), Bin(Binary{Subtype: 4, Data: []byte{1}}), false},
		{"empty binary", Bin(Binary{}), Bin(Binary{Data: []byte{}}), true},
		{"array", Array(Int32(1), String("a")), Array(Int32(1), String("a")), true},
		{"array length", Array(Int32(1)), Array(), false},
		{"document order", Doc(E("a", Null()), E("b", Null())), Doc(E("b", Null()), E("a", Null())), false},
		{"minKey", MinKey(), MinKey(), true},
		{"minKey vs maxKey", MinKey(), MaxKey(), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.equal, tc.a.Equal(tc.b))
		})
	}
}

func TestClone(t *testing.T) {
	orig := Doc(
		E("tags", Array(String("a"))),
		E("blob", Bin(Binary{Data: []byte{1, 2}})),
	)
	c := orig.Clone()
	require.True(t, orig.Equal(c))

	c.D[0].Value.A[0] = String("changed")
	c.D[1].Value.Bin[0] = 9

	assert.Equal(t, "a", orig.D[0].Value.A[0].S)
	assert.Equal(t, byte(1), orig.D[1].Value.Bin[0])
}

func TestInterface(t *testing.T) {
	assert.Nil(t, Null().Interface())
	assert.Nil(t, Absent().Interface())
	assert.Equal(t, int32(3), Int32(3).Interface())
	assert.Equal(t, int64(3), Int64(3).Interface())
	assert.Equal(t, []any{"a", true}, Array(String("a"), Bool(true)).Interface())
	assert.Equal(t, time.UnixMilli(0).UTC(), DateTime(0).Interface())
	assert.Equal(t, KindMinKey, MinKey().Interface())
}

func TestDocument(t *testing.T) {
	d := Document{E("a", Int32(1)), E("opt", Absent())}

	v, ok := d.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, Int32(1), v)

	_, ok = d.Lookup("opt")
	assert.False(t, ok, "absent elements are not found")

	_, ok = d.Lookup("missing")
	assert.False(t, ok)

	d = d.Set("a", String("x"))
	d = d.Set("b", Null())
	assert.Equal(t, []string{"a", "opt", "b"}, d.Keys())
	v, _ = d.Lookup("a")
	assert.Equal(t, String("x"), v)
}
