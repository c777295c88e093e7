package tap

import (
	"fmt"
	"strings"
)

// HeaderSize is the fixed payload size of a Spectrum header block.
const HeaderSize = 17

// DataType is the kind of content a header announces for its paired
// data block.
type DataType int

const (
	TypeBasic   DataType = 0
	TypeNumbers DataType = 1
	TypeStrings DataType = 2
	TypeCode    DataType = 3
	TypeAny     DataType = 0xFF
)

func (dt DataType) String() string {
	switch dt {
	case TypeBasic:
		return "BASIC-PROGRAM"
	case TypeNumbers:
		return "NUMBER-ARRAY"
	case TypeStrings:
		return "STRING-ARRAY"
	case TypeCode:
		return "CODE"
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(dt))
}

// Ext returns the filename extension used when a block of this type is
// written out.
func (dt DataType) Ext() string {
	switch dt {
	case TypeBasic:
		return "bas"
	case TypeNumbers:
		return "num"
	case TypeStrings:
		return "str"
	case TypeCode:
		return "hex"
	}
	return "dat"
}

// Header is the decoded form of a 17 byte header payload.
type Header struct {
	DataType DataType
	Name     string
	Length   int
	Param1   int
	Param2   int
}

// ParseHeader decodes a header block. It returns nil when the block is
// not a header: wrong flag byte or wrong payload size. The name keeps
// leading and embedded spaces, only the trailing padding is stripped.
func ParseHeader(b *Block) *Header {
	if !b.IsHeader() || len(b.Data) != HeaderSize {
		return nil
	}
	return &Header{
		DataType: DataType(b.Data[0]),
		Name:     strings.TrimRight(string(b.Data[1:11]), " "),
		Length:   int(b.Data[11]) | int(b.Data[12])<<8,
		Param1:   int(b.Data[13]) | int(b.Data[14])<<8,
		Param2:   int(b.Data[15]) | int(b.Data[16])<<8,
	}
}
