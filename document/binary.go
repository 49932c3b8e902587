package document

// Binary subtypes defined by the document format.
const (
	SubtypeGeneric     byte = 0x00
	SubtypeFunction    byte = 0x01
	SubtypeBinaryOld   byte = 0x02
	SubtypeUUIDOld     byte = 0x03
	SubtypeUUID        byte = 0x04
	SubtypeMD5         byte = 0x05
	SubtypeEncrypted   byte = 0x06
	SubtypeColumn      byte = 0x07
	SubtypeSensitive   byte = 0x08
	SubtypeVector      byte = 0x09
	SubtypeUserDefined byte = 0x80
)

// Binary is a byte sequence tagged with a single-byte subtype.
type Binary struct {
	Subtype byte
	Data    []byte
}

// IsZero reports whether b holds no data and the generic subtype.
func (b Binary) IsZero() bool { return b.Subtype == SubtypeGeneric && len(b.Data) == 0 }
