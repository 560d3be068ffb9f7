package ovba

// copyTokenSplit returns the copy token offset bit width and the masks that
// carve a raw 16-bit token into its offset and length fields, for a token
// decoded after chunkPos bytes of the current chunk have been produced.
//
// The offset only ever needs enough bits to address bytes already produced in
// the chunk, so its width is ceil(log2(chunkPos)) clamped to [4, 12]; the low
// bits left over carry the length. Out-of-range offsets are unrepresentable
// by construction.
func copyTokenSplit(chunkPos int) (bitCount int, lengthMask, offsetMask uint16) {
	bitCount = MinOffsetBits
	for 1<<bitCount < chunkPos && bitCount < MaxOffsetBits {
		bitCount++
	}

	lengthMask = 0xFFFF >> bitCount
	offsetMask = ^lengthMask

	return bitCount, lengthMask, offsetMask
}
