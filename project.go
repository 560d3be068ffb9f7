package ovba

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"

	"github.com/woozymasta/ovba/logger"
)

// dirStreamPath is the stream holding the compressed project records.
const dirStreamPath = "VBA/dir"

// StreamEntry is one directory entry (storage or stream) of a VBA project
// container.
type StreamEntry struct {
	Name string // Entry name.
	Path string // Slash-separated path, storage names included.
}

// Project is an opened vbaProject.bin Compound File Binary container.
type Project struct {
	opts  *Options
	files map[string]*mscfb.File
	order []StreamEntry
	cache map[string][]byte
	info  *ProjectInformation
}

// OpenProject opens a raw vbaProject.bin byte buffer. Options nil means
// DefaultOptions.
func OpenProject(raw []byte, opts *Options) (*Project, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	cfb, err := mscfb.New(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("compound file: %w", err)
	}

	p := &Project{
		opts:  opts,
		files: make(map[string]*mscfb.File),
		cache: make(map[string][]byte),
	}
	for _, f := range cfb.File {
		path := strings.Join(append(append([]string{}, f.Path...), f.Name), "/")
		p.files[path] = f
		p.order = append(p.order, StreamEntry{Name: f.Name, Path: path})
	}

	log := logger.Logger()
	log.Debug().
		Int("size", len(raw)).
		Int("entries", len(p.order)).
		Msg("opened vba project container")

	return p, nil
}

// Streams returns all directory entries in container order.
func (p *Project) Streams() []StreamEntry {
	entries := make([]StreamEntry, len(p.order))
	copy(entries, p.order)

	return entries
}

// ReadStream returns the raw bytes of one stream. The name is a
// slash-separated path; a leading slash and backslash separators are
// tolerated.
func (p *Project) ReadStream(name string) ([]byte, error) {
	path := normalizeStreamPath(name)
	if data, ok := p.cache[path]; ok {
		return data, nil
	}

	f, ok := p.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStreamNotFound, name)
	}

	data := make([]byte, f.Size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, fmt.Errorf("stream %s: %w", name, err)
	}
	p.cache[path] = data

	return data, nil
}

// DecompressStream reads a stream and decompresses the CompressedContainer
// starting at offset. Module streams carry a PerformanceCache before the
// container; the module's TextOffset skips it.
func (p *Project) DecompressStream(name string, offset int) ([]byte, error) {
	data, err := p.ReadStream(name)
	if err != nil {
		return nil, err
	}
	if offset < 0 || offset > len(data) {
		return nil, fmt.Errorf("%w: offset %d beyond stream size %d", ErrTruncated, offset, len(data))
	}

	return Decompress(data[offset:])
}

// Information reads, decompresses and parses the dir stream. The result is
// cached on the project.
func (p *Project) Information() (*ProjectInformation, error) {
	if p.info != nil {
		return p.info, nil
	}

	data, err := p.ReadStream(dirStreamPath)
	if err != nil {
		return nil, err
	}
	decompressed, err := Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("dir stream: %w", err)
	}
	info, err := parseProjectInformation(decompressed, p.opts)
	if err != nil {
		return nil, fmt.Errorf("dir stream: %w", err)
	}

	log := logger.Logger()
	log.Debug().
		Str("project", info.Information.Name).
		Uint16("codepage", info.Information.CodePage).
		Int("references", len(info.References)).
		Int("modules", len(info.Modules)).
		Msg("parsed project information")

	p.info = info

	return info, nil
}

// ModuleSource decompresses a module's stream at its text offset and decodes
// the source with the project code page.
func (p *Project) ModuleSource(module *Module) (string, error) {
	info, err := p.Information()
	if err != nil {
		return "", err
	}

	data, err := p.DecompressStream("VBA/"+module.StreamName, int(module.TextOffset))
	if err != nil {
		return "", fmt.Errorf("module %s: %w", module.Name, err)
	}

	codePage := p.opts.CodePage
	if codePage == 0 {
		codePage = info.Information.CodePage
	}
	source, err := decodeCodePage(data, codePage)
	if err != nil {
		return "", fmt.Errorf("module %s: %w", module.Name, err)
	}

	return source, nil
}

// normalizeStreamPath maps cfb path spellings ("/VBA\dir", "VBA/dir") to the
// canonical slash-separated form.
func normalizeStreamPath(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")

	return strings.Trim(name, "/")
}
