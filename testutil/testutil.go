package testutil

import (
	"math"
	"math/rand"
	"strconv"
	"sync"

	"github.com/hupe1980/extjson/document"
)

// MaxISODateMillis is the last millisecond of year 9999, the upper bound of
// the ISO8601 date form.
const MaxISODateMillis int64 = 253402300799999

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// ObjectID returns a random ObjectID.
func (r *RNG) ObjectID() document.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.objectIDLocked()
}

// Binary returns random binary data of up to maxLen bytes with a random
// well-known subtype.
func (r *RNG) Binary(maxLen int) document.Binary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.binaryLocked(maxLen)
}

// Value returns a random value of any kind except Absent. Arrays and
// documents nest up to depth levels.
func (r *RNG) Value(depth int) document.Value {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.valueLocked(depth)
}

// Document returns a random document with n elements and unique keys.
func (r *RNG) Document(n, depth int) document.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.documentLocked(n, depth)
}

// SparseDocument returns a flat document where each element is absent with
// probability missingRate.
func (r *RNG) SparseDocument(n int, missingRate float64) document.Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.documentLocked(n, 0)
	for i := range d {
		if r.rand.Float64() < missingRate {
			d[i].Value = document.Absent()
		}
	}
	return d
}

func (r *RNG) objectIDLocked() document.ObjectID {
	var id document.ObjectID
	for i := range id {
		id[i] = byte(r.rand.Intn(256))
	}
	return id
}

var subtypes = []byte{
	document.SubtypeGeneric,
	document.SubtypeFunction,
	document.SubtypeUUID,
	document.SubtypeMD5,
	document.SubtypeEncrypted,
	document.SubtypeUserDefined,
}

func (r *RNG) binaryLocked(maxLen int) document.Binary {
	data := make([]byte, r.rand.Intn(maxLen+1))
	r.rand.Read(data)
	return document.Binary{Subtype: subtypes[r.rand.Intn(len(subtypes))], Data: data}
}

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 _-.\"\\/\n\té€😀"

func (r *RNG) stringLocked(maxLen int) string {
	runes := []rune(letters)
	out := make([]rune, r.rand.Intn(maxLen+1))
	for i := range out {
		out[i] = runes[r.rand.Intn(len(runes))]
	}
	return string(out)
}

func (r *RNG) valueLocked(depth int) document.Value {
	kinds := 12
	if depth <= 0 {
		kinds = 10
	}
	switch r.rand.Intn(kinds) {
	case 0:
		return document.Null()
	case 1:
		return document.Bool(r.rand.Intn(2) == 1)
	case 2:
		return document.Int32(int32(r.rand.Uint32()))
	case 3:
		return document.Int64(int64(r.rand.Uint64()))
	case 4:
		switch r.rand.Intn(8) {
		case 0:
			return document.Double(math.Inf(1 - 2*r.rand.Intn(2)))
		case 1:
			return document.Double(math.NaN())
		default:
			return document.Double(r.rand.NormFloat64() * math.Pow10(r.rand.Intn(40)-20))
		}
	case 5:
		return document.String(r.stringLocked(16))
	case 6:
		return document.Bin(r.binaryLocked(32))
	case 7:
		return document.OID(r.objectIDLocked())
	case 8:
		if r.rand.Intn(2) == 0 {
			return document.MinKey()
		}
		return document.MaxKey()
	case 9:
		return document.DateTime(r.rand.Int63n(MaxISODateMillis))
	case 10:
		items := make([]document.Value, r.rand.Intn(4))
		for i := range items {
			items[i] = r.valueLocked(depth - 1)
		}
		return document.Array(items...)
	default:
		return document.Doc(r.documentLocked(r.rand.Intn(4), depth-1)...)
	}
}

func (r *RNG) documentLocked(n, depth int) document.Document {
	d := make(document.Document, n)
	for i := range d {
		d[i] = document.E("k"+strconv.Itoa(i), r.valueLocked(depth))
	}
	return d
}
