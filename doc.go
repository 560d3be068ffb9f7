/*
Package ovba reads Office VBA projects per the MS-OVBA file format.

Format: a CompressedContainer is a 0x01 signature byte followed by chunks.
Chunk header: little-endian uint16 with 12-bit size (on-disk chunk size minus 3),
3-bit signature 0b011, and a compressed flag in bit 15.
Raw chunk body: exactly 4096 bytes, copied verbatim.
Compressed chunk body: token sequences of one flag byte plus up to 8 tokens,
flag bits LSB first; bit 0 -> 1-byte literal, bit 1 -> 2-byte copy token.
Copy token: offset/length split depends on the bytes already produced in the
chunk; offset = high bits + 1 (1-indexed back-reference), length = low bits + 3.
Copies may overlap their own output and are expanded byte by byte.
Each chunk decompresses to at most 4096 bytes and decodes independently.

Use Decompress(src) to decode a full container, signature byte included.
Use OpenProject(raw, opts) to open a vbaProject.bin compound file.
Use (*Project).Information() for project records, references and modules.
Use (*Project).ModuleSource(m) for a module's decompressed source text.
Use the ooxml subpackage to pull vbaProject.bin out of .docm/.xlsm packages.

# Examples

Decompress a raw container:

	out, err := ovba.Decompress(container)
	if err != nil {
		return err
	}

List module sources of a project binary:

	project, err := ovba.OpenProject(raw, nil)
	if err != nil {
		return err
	}
	info, err := project.Information()
	if err != nil {
		return err
	}
	for i := range info.Modules {
		src, err := project.ModuleSource(&info.Modules[i])
		if err != nil {
			return err
		}
		fmt.Println(src)
	}

Extract the project binary from an Office Open XML document:

	doc, err := ooxml.Open(data)
	if err != nil {
		return err
	}
	name, ok, err := doc.VBAProjectName()
	if err != nil || !ok {
		return err
	}
	raw, err := doc.Part(name)
*/
package ovba
