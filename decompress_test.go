package ovba

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawChunk frames a 4096-byte body as an uncompressed chunk.
func rawChunk(body []byte) []byte {
	return append([]byte{0xFF, 0x3F}, body...)
}

// compressedChunk frames a token-encoded body as a compressed chunk.
func compressedChunk(body []byte) []byte {
	header := uint16(0xB000 | (len(body) - 1))

	return append([]byte{byte(header), byte(header >> 8)}, body...)
}

// container prepends the signature byte to a run of chunks.
func container(chunks ...[]byte) []byte {
	out := []byte{ContainerSignature}
	for _, chunk := range chunks {
		out = append(out, chunk...)
	}

	return out
}

// Containers captured from vbaProject.bin files generated with Excel 2013, by
// growing a module until the first copy token lands at output positions 31,
// 32 and 33 (one per offset bit width around the 32-byte boundary).
func TestDecompressExcelContainers(t *testing.T) {
	cases := []struct {
		name      string
		container []byte
		want      []byte
	}{
		{
			"first copy token at 31",
			[]byte("\x01\x27\xB0\x00\x41\x74\x74\x72\x69\x62\x75\x74\x00\x65\x20\x56\x42\x5F\x4E\x61\x6D\x00\x65\x20\x3D\x20\x22\x61\x22\x0D\x80\x0A\x61\x62\x63\x64\x65\x66\x06\xF0\x00\x0D\x0A"),
			[]byte("Attribute VB_Name = \"a\"\r\nabcdefAttribute\r\n"),
		},
		{
			"first copy token at 32",
			[]byte("\x01\x28\xB0\x00\x41\x74\x74\x72\x69\x62\x75\x74\x00\x65\x20\x56\x42\x5F\x4E\x61\x6D\x00\x65\x20\x3D\x20\x22\x61\x22\x0D\x00\x0A\x61\x62\x63\x64\x65\x66\x67\x01\x06\xF8\x0D\x0A"),
			[]byte("Attribute VB_Name = \"a\"\r\nabcdefgAttribute\r\n"),
		},
		{
			"first copy token at 33",
			[]byte("\x01\x29\xB0\x00\x41\x74\x74\x72\x69\x62\x75\x74\x00\x65\x20\x56\x42\x5F\x4E\x61\x6D\x00\x65\x20\x3D\x20\x22\x61\x22\x0D\x00\x0A\x61\x62\x63\x64\x65\x66\x67\x02\x68\x06\x80\x0D\x0A"),
			[]byte("Attribute VB_Name = \"a\"\r\nabcdefghAttribute\r\n"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decompress(tc.container)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecompressSelfOverlap(t *testing.T) {
	// Literal 'A' then Copy(offset=1, length=3): the copy reads its own output.
	src := container(compressedChunk([]byte{0x02, 'A', 0x00, 0x00}))
	got, err := Decompress(src)
	require.NoError(t, err)
	assert.Equal(t, []byte("AAAA"), got)
}

func TestDecompressRawChunks(t *testing.T) {
	bodyA := bytes.Repeat([]byte{0xAA}, ChunkWindow)
	bodyB := make([]byte, ChunkWindow)
	for i := range bodyB {
		bodyB[i] = byte(i)
	}

	src := container(rawChunk(bodyA), rawChunk(bodyB))
	got, err := Decompress(src)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, bodyA...), bodyB...), got)
}

func TestDecompressEmptyContainer(t *testing.T) {
	// A container is just the signature byte when there is nothing to encode.
	got, err := Decompress([]byte{ContainerSignature})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestChunkPositionResetsPerChunk(t *testing.T) {
	chunk := compressedChunk([]byte{0x02, 'A', 0x00, 0x00})
	got, err := Decompress(container(chunk, chunk))
	require.NoError(t, err)
	assert.Equal(t, []byte("AAAAAAAA"), got)
}

func TestCopyCannotReachPreviousChunk(t *testing.T) {
	// Chunk 1 produces "AAAA". Chunk 2 has one literal and then a copy with
	// offset 2: valid against the whole output, invalid within the chunk.
	chunk1 := compressedChunk([]byte{0x02, 'A', 0x00, 0x00})
	chunk2 := compressedChunk([]byte{0x02, 'B', 0x00, 0x10})
	_, err := Decompress(container(chunk1, chunk2))
	assert.ErrorIs(t, err, ErrInvalidCopyOffset)
}

func TestDecompressErrors(t *testing.T) {
	cases := []struct {
		name string
		src  []byte
		want error
	}{
		{"empty input", nil, ErrTruncated},
		{"bad container signature", []byte{0x00}, ErrInvalidSignature},
		{"truncated chunk header", []byte{0x01, 0xAB}, ErrTruncated},
		{"bad chunk signature", []byte{0x01, 0x03, 0x80, 0x00, 0x00, 0x00, 0x00}, ErrInvalidChunkSignature},
		{"truncated raw body", append([]byte{0x01, 0xFF, 0x3F}, make([]byte, 10)...), ErrTruncated},
		{"truncated compressed body", []byte{0x01, 0x10, 0xB0, 0x00}, ErrTruncated},
		{"truncated copy token", container(compressedChunk([]byte{0x01, 0x00})), ErrTruncated},
		{"copy before first literal", container(compressedChunk([]byte{0x01, 0x00, 0x00})), ErrInvalidCopyOffset},
		{"copy overflows chunk window", container(compressedChunk([]byte{0x02, 'A', 0xFF, 0x0F})), ErrChunkOverflow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decompress(tc.src)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMaxLiteralTokens(t *testing.T) {
	// 512 all-literal token sequences fill the chunk window exactly.
	want := make([]byte, 0, ChunkWindow)
	body := make([]byte, 0, ChunkWindow+ChunkWindow/FlagBits)
	for group := 0; group < ChunkWindow/FlagBits; group++ {
		body = append(body, 0x00)
		for i := 0; i < FlagBits; i++ {
			b := byte(group + i)
			body = append(body, b)
			want = append(want, b)
		}
	}

	got, err := decompressTokens(body, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLiteralTokensOverflowChunkWindow(t *testing.T) {
	body := make([]byte, 0, ChunkWindow+16)
	for group := 0; group <= ChunkWindow/FlagBits; group++ {
		body = append(body, 0x00)
		body = append(body, bytes.Repeat([]byte{'x'}, FlagBits)...)
	}

	_, err := decompressTokens(body, nil)
	assert.ErrorIs(t, err, ErrChunkOverflow)
}
