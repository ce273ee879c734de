//  Every registry carries a built in model of common types. The model
//  is a mapping between generic type names and the corresponding
//  codecs; multi byte types are registered under both endian suffixes
//  and resolve from generic names through the endian context.

package bindata

import (
	"encoding/binary"
	"fmt"
)

func AddBaseTypes(registry *Registry) {
	add := func(name string, codec Codec) {
		err := registry.Register(name, newPrimitiveFactory(name, codec))
		if err != nil {
			// The built in declarations are static; a failure here
			// is a programming error.
			panic(err)
		}
	}

	add("uint8", NewIntCodec("uint8", 1, false, binary.LittleEndian))
	add("int8", NewIntCodec("int8", 1, true, binary.LittleEndian))

	add("uint16le", NewIntCodec("uint16le", 2, false, binary.LittleEndian))
	add("uint32le", NewIntCodec("uint32le", 4, false, binary.LittleEndian))
	add("uint64le", NewIntCodec("uint64le", 8, false, binary.LittleEndian))
	add("int16le", NewIntCodec("int16le", 2, true, binary.LittleEndian))
	add("int32le", NewIntCodec("int32le", 4, true, binary.LittleEndian))
	add("int64le", NewIntCodec("int64le", 8, true, binary.LittleEndian))

	add("uint16be", NewIntCodec("uint16be", 2, false, binary.BigEndian))
	add("uint32be", NewIntCodec("uint32be", 4, false, binary.BigEndian))
	add("uint64be", NewIntCodec("uint64be", 8, false, binary.BigEndian))
	add("int16be", NewIntCodec("int16be", 2, true, binary.BigEndian))
	add("int32be", NewIntCodec("int32be", 4, true, binary.BigEndian))
	add("int64be", NewIntCodec("int64be", 8, true, binary.BigEndian))

	add("float32le", NewFloatCodec("float32le", 4, binary.LittleEndian))
	add("float64le", NewFloatCodec("float64le", 8, binary.LittleEndian))
	add("float32be", NewFloatCodec("float32be", 4, binary.BigEndian))
	add("float64be", NewFloatCodec("float64be", 8, binary.BigEndian))

	// Bit fields pack MSB first by default; the le variants pack LSB
	// first.
	for nbits := 1; nbits <= 32; nbits++ {
		name := fmt.Sprintf("bit%d", nbits)
		add(name, NewBitCodec(name, uint8(nbits), BigEndian))

		name_le := fmt.Sprintf("bit%dle", nbits)
		add(name_le, NewBitCodec(name_le, uint8(nbits), LittleEndian))
	}

	add("string", &StringCodec{})
	add("stringz", &StringzCodec{})
	add("skip", &SkipCodec{})
	add("rest", &RestCodec{})
	add("value", &ValueCodec{})
	add("uleb128", &Uleb128Codec{})
	add("sleb128", &Sleb128Codec{})

	registry.Register("struct", newStructFactory())
	registry.Register("array", newArrayFactory())
	registry.Register("choice", newChoiceFactory())
	registry.Register("enum", newEnumFactory())
	registry.Register("flags", newFlagsFactory())
	registry.Register("epoch_timestamp", newTimestampFactory())

	// C style aliases resolve through the same endian rules as their
	// canonical names.
	registry.AddAlias("byte", "uint8")
	registry.AddAlias("char", "int8")
	registry.AddAlias("unsigned char", "uint8")
	registry.AddAlias("short", "int16")
	registry.AddAlias("unsigned short", "uint16")
	registry.AddAlias("int", "int32")
	registry.AddAlias("unsigned int", "uint32")
	registry.AddAlias("long", "int32")
	registry.AddAlias("unsigned long", "uint32")
	registry.AddAlias("long long", "int64")
	registry.AddAlias("unsigned long long", "uint64")
	registry.AddAlias("float", "float32")
	registry.AddAlias("double", "float64")
}
