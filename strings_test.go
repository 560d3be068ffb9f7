package ovba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCodePage(t *testing.T) {
	cases := []struct {
		name     string
		data     []byte
		codePage uint16
		want     string
	}{
		{"cp1252 latin", []byte{'c', 'a', 'f', 0xE9}, 1252, "café"},
		{"cp1251 cyrillic", []byte{0xEF, 0xF0, 0xE8, 0xE2, 0xE5, 0xF2}, 1251, "привет"},
		{"cp932 shift-jis", []byte{0x93, 0xFA}, 932, "日"},
		{"utf-8", []byte("straße"), 65001, "straße"},
		{"ascii via cp437", []byte("plain"), 437, "plain"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeCodePage(tc.data, tc.codePage)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeCodePageUnknown(t *testing.T) {
	_, err := decodeCodePage([]byte("x"), 12345)
	assert.ErrorIs(t, err, ErrUnknownCodePage)
}

func TestDecodeUTF16(t *testing.T) {
	got, err := decodeUTF16([]byte{'V', 0x00, 'B', 0x00, 'A', 0x00})
	require.NoError(t, err)
	assert.Equal(t, "VBA", got)
}
