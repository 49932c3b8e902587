package extjson

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/extjson/document"
	"github.com/hupe1980/extjson/jsontree"
)

func mustOID(t *testing.T, s string) document.ObjectID {
	t.Helper()
	id, err := document.ObjectIDFromHex(s)
	require.NoError(t, err)
	return id
}

func encodeString(t *testing.T, s Strategies, v document.Value) string {
	t.Helper()
	n, err := Encode(v, s)
	require.NoError(t, err)
	return n.String()
}

func TestEncodeScalars(t *testing.T) {
	id := mustOID(t, "507f1f77bcf86cd799439011")
	bin := document.Bin(document.Binary{Subtype: document.SubtypeUUID, Data: []byte{1, 2, 3}})

	tests := []struct {
		name     string
		value    document.Value
		extended string
		plain    string
	}{
		{"Null", document.Null(), `null`, `null`},
		{"Absent", document.Absent(), `null`, `null`},
		{"Bool", document.Bool(true), `true`, `true`},
		{"Int32", document.Int32(-7), `-7`, `-7`},
		{"Int64", document.Int64(math.MaxInt64), `{"$numberLong":"9223372036854775807"}`, `9223372036854775807`},
		{"Double", document.Double(1.5), `1.5`, `1.5`},
		{"IntegralDouble", document.Double(3), `3.0`, `3.0`},
		{"NaN", document.Double(math.NaN()), `{"$numberDouble":"NaN"}`, `{"$numberDouble":"NaN"}`},
		{"Inf", document.Double(math.Inf(-1)), `{"$numberDouble":"-Infinity"}`, `{"$numberDouble":"-Infinity"}`},
		{"String", document.String("héllo"), `"héllo"`, `"héllo"`},
		{"ObjectID", document.OID(id), `{"$oid":"507f1f77bcf86cd799439011"}`, `"507f1f77bcf86cd799439011"`},
		{"Date", document.DateTime(1609459200000), `{"$date":"2021-01-01T00:00:00.000Z"}`, `"2021-01-01T00:00:00.000Z"`},
		{"Binary", bin, `{"$binary":"AQID","$type":"04"}`, `"AQID"`},
		{"MinKey", document.MinKey(), `{"$minKey":1}`, `{"$minKey":1}`},
		{"MaxKey", document.MaxKey(), `{"$maxKey":1}`, `{"$maxKey":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.extended, encodeString(t, ExtendedJSON(), tt.value))
			assert.Equal(t, tt.plain, encodeString(t, Plain(), tt.value))
		})
	}
}

func TestEncodeDateStrategies(t *testing.T) {
	const ms = 1609459200123

	tests := []struct {
		name     string
		strategy DateStrategy
		want     string
	}{
		{"ExtendedJSON", DateExtendedJSON(), `{"$date":"2021-01-01T00:00:00.123Z"}`},
		{"ISO8601", DateISO8601(), `"2021-01-01T00:00:00.123Z"`},
		{"Formatted", DateFormatted("2006-01-02"), `"2021-01-01"`},
		{"Millis", DateMillisecondsSinceEpoch(), `1609459200123`},
		{"Seconds", DateSecondsSinceEpoch(), `1609459200.123`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ExtendedJSON().WithDate(tt.strategy)
			assert.Equal(t, tt.want, encodeString(t, s, document.DateTime(ms)))
		})
	}

	t.Run("WholeSeconds", func(t *testing.T) {
		s := ExtendedJSON().WithDate(DateSecondsSinceEpoch())
		assert.Equal(t, `1609459200`, encodeString(t, s, document.DateTime(1609459200000)))
	})

	t.Run("OutOfISORange", func(t *testing.T) {
		far := document.DateTime(math.MaxInt64 / 2)

		assert.Equal(t, `{"$date":{"$numberLong":"4611686018427387903"}}`, encodeString(t, ExtendedJSON(), far))

		_, err := Encode(far, Plain())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedValue)
	})

	t.Run("PreEpoch", func(t *testing.T) {
		assert.Equal(t, `{"$date":"1969-12-31T23:59:59.999Z"}`, encodeString(t, ExtendedJSON(), document.DateTime(-1)))
	})
}

func TestEncodeKeyedNil(t *testing.T) {
	d := document.Doc(
		document.E("a", document.Int32(1)),
		document.E("b", document.Absent()),
		document.E("c", document.Null()),
		document.E("d", document.Array(document.Absent(), document.Int32(2))),
	)

	t.Run("Omitted", func(t *testing.T) {
		s := ExtendedJSON().WithKeyedNil(KeyedNilOmitted)
		assert.Equal(t, `{"a":1,"c":null,"d":[null,2]}`, encodeString(t, s, d))
	})

	t.Run("Null", func(t *testing.T) {
		s := ExtendedJSON().WithKeyedNil(KeyedNilNull)
		assert.Equal(t, `{"a":1,"b":null,"c":null,"d":[null,2]}`, encodeString(t, s, d))
	})

	t.Run("ZeroValueStrategies", func(t *testing.T) {
		assert.Equal(t, `{"a":1,"b":null,"c":null,"d":[null,2]}`, encodeString(t, Strategies{}, d))
	})
}

func TestEncodePreservesOrder(t *testing.T) {
	d := document.Doc(
		document.E("z", document.Int32(1)),
		document.E("a", document.Int32(2)),
		document.E("m", document.Doc(document.E("y", document.Bool(true)), document.E("b", document.Null()))),
	)
	assert.Equal(t, `{"z":1,"a":2,"m":{"y":true,"b":null}}`, encodeString(t, ExtendedJSON(), d))
}

func TestEncodeCustomStrategies(t *testing.T) {
	t.Run("Binary", func(t *testing.T) {
		s := ExtendedJSON().WithBinary(BinaryCustom(func(b document.Binary) (*jsontree.Node, error) {
			return jsontree.Array(jsontree.Int(int64(b.Subtype)), jsontree.Int(int64(len(b.Data)))), nil
		}, nil))
		v := document.Bin(document.Binary{Subtype: 0x80, Data: []byte("abc")})
		assert.Equal(t, `[128,3]`, encodeString(t, s, v))
	})

	t.Run("Date", func(t *testing.T) {
		s := ExtendedJSON().WithDate(DateCustom(func(tm time.Time) (*jsontree.Node, error) {
			assert.Equal(t, time.UTC, tm.Location())
			return jsontree.String(tm.Format(time.Kitchen)), nil
		}, nil))
		assert.Equal(t, `"12:00AM"`, encodeString(t, s, document.DateTime(1609459200000)))
	})

	t.Run("NilNodeIsNull", func(t *testing.T) {
		s := ExtendedJSON().WithBinary(BinaryCustom(func(document.Binary) (*jsontree.Node, error) {
			return nil, nil
		}, nil))
		assert.Equal(t, `null`, encodeString(t, s, document.Bin(document.Binary{})))
	})

	t.Run("Error", func(t *testing.T) {
		boom := errors.New("boom")
		s := ExtendedJSON().WithDate(DateCustom(func(time.Time) (*jsontree.Node, error) {
			return nil, boom
		}, nil))
		v := document.Doc(document.E("items", document.Array(document.Int32(1), document.DateTime(0))))

		n, err := Encode(v, s)
		require.Error(t, err)
		assert.Nil(t, n)
		assert.ErrorIs(t, err, ErrCallback)
		assert.ErrorIs(t, err, boom)

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "encode", e.Op)
		assert.Equal(t, "$.items[1]", e.Path.String())
	})

	t.Run("MissingFunction", func(t *testing.T) {
		s := ExtendedJSON().WithData(DataCustom(nil, nil))
		_, err := NewEncoder(WithStrategies(s)).EncodeAny([]byte{1})
		assert.ErrorIs(t, err, ErrUnsupportedValue)
	})
}

func TestEncodeDataStrategies(t *testing.T) {
	data := []byte{0xde, 0xad, 0xbe, 0xef}

	tests := []struct {
		name string
		s    Strategies
		want string
	}{
		{"ExtendedJSON", ExtendedJSON(), `{"$binary":"3q2+7w==","$type":"00"}`},
		{"Base64", ExtendedJSON().WithData(DataBase64()), `"3q2+7w=="`},
		{"DeferredToBinary", ExtendedJSON().WithData(DataDeferredToBinary()).WithBinary(BinaryBase64()), `"3q2+7w=="`},
		{"Custom", ExtendedJSON().WithData(DataCustom(func(b []byte) (*jsontree.Node, error) {
			return jsontree.Int(int64(len(b))), nil
		}, nil)), `4`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewEncoder(WithStrategies(tt.s)).EncodeAny(data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestEncodeMaxDepth(t *testing.T) {
	v := document.Int32(1)
	for range 10 {
		v = document.Array(v)
	}

	_, err := NewEncoder(WithMaxDepth(10)).Encode(v)
	require.NoError(t, err)

	_, err = NewEncoder(WithMaxDepth(9)).Encode(v)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxDepth)
}

func TestEncodeUnknownKind(t *testing.T) {
	_, err := NewEncoder().Encode(document.Value{Kind: document.Kind(200)})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}
