package ovba

// MS-OVBA CompressedContainer format constants.
const (
	ContainerSignature = 0x01  // Leading byte of every CompressedContainer.
	ChunkSignature     = 0b011 // Required value of the chunk header's 3-bit signature field.
	ChunkHeaderSize    = 2     // Chunk header is one little-endian uint16.
	ChunkWindow        = 4096  // Maximum decompressed bytes per chunk; exact body size of a raw chunk.
	FlagBits           = 8     // Tokens per flag byte (consumed LSB first).
	MinCopyLength      = 3     // Copy token length field is stored minus 3.
	MinOffsetBits      = 4     // Lower clamp of the copy token offset bit width.
	MaxOffsetBits      = 12    // Upper clamp of the copy token offset bit width.
)
