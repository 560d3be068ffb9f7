// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Maxim Levchenko (WoozyMasta)
// Source: github.com/woozymasta/ovba

package ovba

import "errors"

// Package errors. Use errors.New for static messages, fmt.Errorf when values are needed.
var (
	ErrInvalidSignature      = errors.New("invalid container signature byte")
	ErrTruncated             = errors.New("unexpected end of input")
	ErrInvalidChunkSignature = errors.New("invalid chunk header signature")
	ErrInvalidCopyOffset     = errors.New("copy token offset out of range")
	ErrChunkOverflow         = errors.New("chunk output exceeds 4096 bytes")
	ErrParse                 = errors.New("malformed dir stream record")
	ErrTrailingData          = errors.New("trailing bytes after dir stream records")
	ErrStreamNotFound        = errors.New("stream not found")
	ErrUnknownCodePage       = errors.New("unsupported code page")
)
