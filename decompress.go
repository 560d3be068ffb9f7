package ovba

import (
	"fmt"
)

// Decompress decodes an MS-OVBA CompressedContainer into the original bytes.
// src must hold the whole container, signature byte included. The first
// structural failure aborts the decode; no partial result is returned.
func Decompress(src []byte) ([]byte, error) {
	cur := &sliceCursor{data: src}

	sig, err := cur.readByte()
	if err != nil {
		return nil, err
	}
	if sig != ContainerSignature {
		return nil, fmt.Errorf("%w: 0x%02x", ErrInvalidSignature, sig)
	}

	out := make([]byte, 0, ChunkWindow)
	for cur.remaining() > 0 {
		out, err = decompressChunk(cur, out)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// decompressChunk reads one chunk header and appends the chunk's decompressed
// body to out. Chunks decode independently: nothing but the shared output
// buffer crosses a chunk boundary.
func decompressChunk(cur *sliceCursor, out []byte) ([]byte, error) {
	header, err := cur.readUint16()
	if err != nil {
		return nil, err
	}

	// Header word: bits 0-11 size, bits 12-14 signature, bit 15 compressed flag.
	size := int(header & 0x0FFF)
	if sig := (header >> 12) & 0b111; sig != ChunkSignature {
		return nil, fmt.Errorf("%w: 0b%03b", ErrInvalidChunkSignature, sig)
	}
	compressed := header>>15 == 1

	if !compressed {
		// Raw chunk: the size field is fixed by the format (writers emit 0xFFF);
		// the body is always exactly one full window.
		body, err := cur.readBytes(ChunkWindow)
		if err != nil {
			return nil, err
		}

		return append(out, body...), nil
	}

	// On-disk chunk size is size+3 bytes, ChunkHeaderSize of which are consumed.
	body, err := cur.readBytes(size + 3 - ChunkHeaderSize)
	if err != nil {
		return nil, err
	}

	return decompressTokens(body, out)
}

// decompressTokens decodes one compressed chunk body into out. The body is a
// run of token sequences: a flag byte followed by up to 8 tokens, flag bits
// consumed LSB first, 0 for a literal byte and 1 for a 2-byte copy token.
func decompressTokens(body, out []byte) ([]byte, error) {
	cur := &sliceCursor{data: body}
	chunkPos := 0 // Bytes produced by this chunk so far; drives the copy token split.

	for cur.remaining() > 0 {
		flagByte, err := cur.readByte()
		if err != nil {
			return nil, err
		}

		for bit := 0; bit < FlagBits && cur.remaining() > 0; bit++ {
			if (flagByte>>bit)&1 == 0 {
				b, err := cur.readByte()
				if err != nil {
					return nil, err
				}
				if chunkPos >= ChunkWindow {
					return nil, fmt.Errorf("%w: literal at %d", ErrChunkOverflow, chunkPos)
				}

				out = append(out, b)
				chunkPos++

				continue
			}

			token, err := cur.readUint16()
			if err != nil {
				return nil, err
			}

			bitCount, lengthMask, offsetMask := copyTokenSplit(chunkPos)
			offset := int((token&offsetMask)>>(16-bitCount)) + 1
			length := int(token&lengthMask) + MinCopyLength

			// Offsets are 1-indexed into this chunk's own output; a copy before
			// any literal (chunkPos 0) can never be valid.
			if offset > chunkPos {
				return nil, fmt.Errorf("%w: offset %d with %d bytes produced", ErrInvalidCopyOffset, offset, chunkPos)
			}
			if chunkPos+length > ChunkWindow {
				return nil, fmt.Errorf("%w: copy ends at %d", ErrChunkOverflow, chunkPos+length)
			}

			// The source window may include bytes this copy itself writes
			// (offset < length), so the read index is recomputed per appended
			// byte. A bulk copy would read stale bytes here.
			for i := 0; i < length; i++ {
				out = append(out, out[len(out)-offset])
			}
			chunkPos += length
		}
	}

	return out, nil
}
