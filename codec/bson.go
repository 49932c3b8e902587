package codec

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/hupe1980/extjson/bsonconv"
	"github.com/hupe1980/extjson/document"
)

// BSONName is the name of the binary BSON codec.
const BSONName = "bson"

// BSON encodes to binary BSON through the MongoDB driver. Documents and
// document values are converted with bsonconv; other values go straight to
// the driver and must marshal as a BSON document.
type BSON struct{}

// Marshal encodes v as BSON.
func (BSON) Marshal(v any) ([]byte, error) {
	switch x := v.(type) {
	case document.Document:
		return bsonconv.Marshal(x)
	case document.Value:
		d, ok := x.AsDocument()
		if !ok {
			return nil, fmt.Errorf("codec: bson top level must be a document, got %s", x.Kind)
		}
		return bsonconv.Marshal(d)
	default:
		return bson.Marshal(v)
	}
}

// Unmarshal decodes BSON data into v.
func (BSON) Unmarshal(data []byte, v any) error {
	switch x := v.(type) {
	case *document.Document:
		d, err := bsonconv.Unmarshal(data)
		if err != nil {
			return err
		}
		*x = d
		return nil
	case *document.Value:
		d, err := bsonconv.Unmarshal(data)
		if err != nil {
			return err
		}
		*x = document.Doc(d...)
		return nil
	default:
		return bson.Unmarshal(data, v)
	}
}

// Name returns the unique name of the codec ("bson").
func (BSON) Name() string { return BSONName }
