package ovba

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// codePageEncoding maps a Windows code page identifier to a text encoding.
func codePageEncoding(codePage uint16) (encoding.Encoding, error) {
	switch codePage {
	case 437:
		return charmap.CodePage437, nil
	case 850:
		return charmap.CodePage850, nil
	case 852:
		return charmap.CodePage852, nil
	case 855:
		return charmap.CodePage855, nil
	case 866:
		return charmap.CodePage866, nil
	case 874:
		return charmap.Windows874, nil
	case 932:
		return japanese.ShiftJIS, nil
	case 936:
		return simplifiedchinese.GBK, nil
	case 949:
		return korean.EUCKR, nil
	case 950:
		return traditionalchinese.Big5, nil
	case 1250:
		return charmap.Windows1250, nil
	case 1251:
		return charmap.Windows1251, nil
	case 1252:
		return charmap.Windows1252, nil
	case 1253:
		return charmap.Windows1253, nil
	case 1254:
		return charmap.Windows1254, nil
	case 1255:
		return charmap.Windows1255, nil
	case 1256:
		return charmap.Windows1256, nil
	case 1257:
		return charmap.Windows1257, nil
	case 1258:
		return charmap.Windows1258, nil
	case 65001:
		return unicode.UTF8, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodePage, codePage)
	}
}

// decodeCodePage decodes an MBCS byte sequence using the given code page.
func decodeCodePage(data []byte, codePage uint16) (string, error) {
	enc, err := codePageEncoding(codePage)
	if err != nil {
		return "", err
	}

	s, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("code page %d: %w", codePage, err)
	}

	return string(s), nil
}

// decodeUTF16 decodes a little-endian UTF-16 byte sequence.
func decodeUTF16(data []byte) (string, error) {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	s, err := dec.Bytes(data)
	if err != nil {
		return "", fmt.Errorf("utf-16: %w", err)
	}

	return string(s), nil
}
