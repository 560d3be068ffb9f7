// Package ooxml inspects Office Open XML packages (.docm, .xlsm, .pptm) and
// extracts parts, in particular the embedded vbaProject.bin.
package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	contentTypesName      = "[Content_Types].xml"
	vbaProjectContentType = "application/vnd.ms-office.vbaProject"
)

// ErrPartNotFound is returned when a named part is missing from the package.
var ErrPartNotFound = errors.New("part not found")

// Document is an opened Office Open XML package.
type Document struct {
	archive *zip.Reader
}

// Open reads data as a zip package.
func Open(data []byte) (*Document, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not an Office Open XML package: %w", err)
	}

	return &Document{archive: archive}, nil
}

// contentTypes mirrors the subset of [Content_Types].xml needed to locate
// the VBA project part.
type contentTypes struct {
	XMLName   xml.Name `xml:"Types"`
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// VBAProjectName returns the part name of the contained VBA project. The
// second return value is false when the document has no VBA project.
func (d *Document) VBAProjectName() (string, bool, error) {
	raw, err := d.Part(contentTypesName)
	if err != nil {
		return "", false, err
	}

	var types contentTypes
	if err := xml.Unmarshal(raw, &types); err != nil {
		return "", false, fmt.Errorf("%s: %w", contentTypesName, err)
	}

	for _, override := range types.Overrides {
		if override.ContentType == vbaProjectContentType {
			return strings.TrimPrefix(override.PartName, "/"), true, nil
		}
	}

	return "", false, nil
}

// Part returns the raw bytes of one package part.
func (d *Document) Part(name string) ([]byte, error) {
	for _, f := range d.archive.File {
		if f.Name != name {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", name, err)
		}

		return data, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
}
