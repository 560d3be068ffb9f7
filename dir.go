package ovba

import "fmt"

// Record identifiers of the dir stream (MS-OVBA §2.3.4.2).
const (
	recSysKind                 = 0x0001
	recLCID                    = 0x0002
	recCodePage                = 0x0003
	recName                    = 0x0004
	recDocString               = 0x0005
	recHelpFile1               = 0x0006
	recHelpContext             = 0x0007
	recLibFlags                = 0x0008
	recVersion                 = 0x0009
	recConstants               = 0x000C
	recReferenceRegistered     = 0x000D
	recReferenceProject        = 0x000E
	recModules                 = 0x000F
	recTerminator              = 0x0010
	recModulesCookie           = 0x0013
	recLCIDInvoke              = 0x0014
	recReferenceName           = 0x0016
	recModuleName              = 0x0019
	recModuleStreamName        = 0x001A
	recModuleDocString         = 0x001C
	recModuleHelpContext       = 0x001E
	recModuleTypeProcedural    = 0x0021
	recModuleTypeDocument      = 0x0022
	recModuleReadOnly          = 0x0025
	recModulePrivate           = 0x0028
	recModuleTerminator        = 0x002B
	recModuleCookie            = 0x002C
	recReferenceControl        = 0x002F
	recControlLibIDExtended    = 0x0030
	recModuleOffset            = 0x0031
	recModuleStreamNameUnicode = 0x0032
	recReferenceOriginal       = 0x0033
	recConstantsUnicode        = 0x003C
	recHelpFile2               = 0x003D
	recReferenceNameUnicode    = 0x003E
	recDocStringUnicode        = 0x0040
	recModuleNameUnicode       = 0x0047
	recModuleDocStringUnicode  = 0x0048
	recCompatVersion           = 0x004A
)

// recordReader walks the tagged little-endian records of a decompressed dir
// stream. MBCS string records are decoded with codePage.
type recordReader struct {
	*sliceCursor
	codePage uint16
}

// expectID consumes the next uint16 and requires it to be the given record id.
func (r *recordReader) expectID(id uint16, name string) error {
	got, err := r.readUint16()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if got != id {
		return fmt.Errorf("%w: %s: id 0x%04x, want 0x%04x", ErrParse, name, got, id)
	}

	return nil
}

// expectSize consumes the next uint32 size field and requires an exact value.
func (r *recordReader) expectSize(size uint32, name string) error {
	got, err := r.readUint32()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if got != size {
		return fmt.Errorf("%w: %s: size %d, want %d", ErrParse, name, got, size)
	}

	return nil
}

// expectReserved consumes a reserved uint32+uint16 pair and requires zeros.
func (r *recordReader) expectReserved(name string) error {
	v32, err := r.readUint32()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	v16, err := r.readUint16()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if v32 != 0 || v16 != 0 {
		return fmt.Errorf("%w: %s: reserved bytes not zero", ErrParse, name)
	}

	return nil
}

// fixedUint32 reads a record of the form id, size(=4), uint32 value.
func (r *recordReader) fixedUint32(id uint16, name string) (uint32, error) {
	if err := r.expectID(id, name); err != nil {
		return 0, err
	}
	if err := r.expectSize(4, name); err != nil {
		return 0, err
	}
	v, err := r.readUint32()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	return v, nil
}

// fixedUint16 reads a record of the form id, size(=2), uint16 value.
func (r *recordReader) fixedUint16(id uint16, name string) (uint16, error) {
	if err := r.expectID(id, name); err != nil {
		return 0, err
	}
	if err := r.expectSize(2, name); err != nil {
		return 0, err
	}
	v, err := r.readUint16()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	return v, nil
}

// lenPrefixed reads a uint32 length followed by that many bytes.
func (r *recordReader) lenPrefixed(name string) ([]byte, error) {
	n, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	data, err := r.readBytes(int(n))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return data, nil
}

// lengthData reads a record of the form id, uint32 length, data.
func (r *recordReader) lengthData(id uint16, name string) ([]byte, error) {
	if err := r.expectID(id, name); err != nil {
		return nil, err
	}

	return r.lenPrefixed(name)
}

// mbcsString reads a length-prefixed record and decodes it with the stream's
// code page.
func (r *recordReader) mbcsString(id uint16, name string) (string, error) {
	data, err := r.lengthData(id, name)
	if err != nil {
		return "", err
	}
	s, err := decodeCodePage(data, r.codePage)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	return s, nil
}

// parseProjectInformation parses a decompressed dir stream.
func parseProjectInformation(data []byte, opts *Options) (*ProjectInformation, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	r := &recordReader{sliceCursor: &sliceCursor{data: data}}
	var info Information

	sysKind, err := r.fixedUint32(recSysKind, "PROJECTSYSKIND")
	if err != nil {
		return nil, err
	}
	if sysKind > uint32(SysKindWin64) {
		return nil, fmt.Errorf("%w: PROJECTSYSKIND: value %d", ErrParse, sysKind)
	}
	info.SysKind = SysKind(sysKind)

	// PROJECTCOMPATVERSION is optional (introduced in revision 11 of the format).
	if id, err := r.peekUint16(); err == nil && id == recCompatVersion {
		if info.CompatVersion, err = r.fixedUint32(recCompatVersion, "PROJECTCOMPATVERSION"); err != nil {
			return nil, err
		}
	}

	if info.LCID, err = r.fixedUint32(recLCID, "PROJECTLCID"); err != nil {
		return nil, err
	}
	if info.LCIDInvoke, err = r.fixedUint32(recLCIDInvoke, "PROJECTLCIDINVOKE"); err != nil {
		return nil, err
	}
	if info.CodePage, err = r.fixedUint16(recCodePage, "PROJECTCODEPAGE"); err != nil {
		return nil, err
	}

	r.codePage = info.CodePage
	if opts.CodePage != 0 {
		r.codePage = opts.CodePage
	}

	if info.Name, err = r.mbcsString(recName, "PROJECTNAME"); err != nil {
		return nil, err
	}

	if info.DocString, err = r.mbcsString(recDocString, "PROJECTDOCSTRING"); err != nil {
		return nil, err
	}
	// The unicode twin must be the UTF-16 encoding of the MBCS value; an odd
	// byte count cannot be UTF-16.
	docStringUnicode, err := r.lengthData(recDocStringUnicode, "PROJECTDOCSTRING unicode")
	if err != nil {
		return nil, err
	}
	if len(docStringUnicode)&1 != 0 {
		return nil, fmt.Errorf("%w: PROJECTDOCSTRING unicode: odd length %d", ErrParse, len(docStringUnicode))
	}

	if info.HelpFile, err = r.mbcsString(recHelpFile1, "PROJECTHELPFILEPATH 1"); err != nil {
		return nil, err
	}
	// Second help file record must carry the same bytes as the first; dropped.
	if _, err = r.lengthData(recHelpFile2, "PROJECTHELPFILEPATH 2"); err != nil {
		return nil, err
	}

	if info.HelpContext, err = r.fixedUint32(recHelpContext, "PROJECTHELPCONTEXT"); err != nil {
		return nil, err
	}
	if info.LibFlags, err = r.fixedUint32(recLibFlags, "PROJECTLIBFLAGS"); err != nil {
		return nil, err
	}

	// PROJECTVERSION: fixed reserved size field, then uint32 major, uint16 minor.
	if err = r.expectID(recVersion, "PROJECTVERSION"); err != nil {
		return nil, err
	}
	if err = r.expectSize(4, "PROJECTVERSION"); err != nil {
		return nil, err
	}
	if info.VersionMajor, err = r.readUint32(); err != nil {
		return nil, fmt.Errorf("PROJECTVERSION: %w", err)
	}
	if info.VersionMinor, err = r.readUint16(); err != nil {
		return nil, fmt.Errorf("PROJECTVERSION: %w", err)
	}

	// PROJECTCONSTANTS is optional.
	if id, err := r.peekUint16(); err == nil && id == recConstants {
		if info.Constants, err = r.mbcsString(recConstants, "PROJECTCONSTANTS"); err != nil {
			return nil, err
		}
		constantsUnicode, err := r.lengthData(recConstantsUnicode, "PROJECTCONSTANTS unicode")
		if err != nil {
			return nil, err
		}
		if len(constantsUnicode)&1 != 0 {
			return nil, fmt.Errorf("%w: PROJECTCONSTANTS unicode: odd length %d", ErrParse, len(constantsUnicode))
		}
	}

	references, err := parseReferences(r)
	if err != nil {
		return nil, err
	}

	modules, err := parseModules(r)
	if err != nil {
		return nil, err
	}

	if err = r.expectID(recTerminator, "dir terminator"); err != nil {
		return nil, err
	}
	if err = r.expectSize(0, "dir terminator"); err != nil {
		return nil, err
	}

	if r.remaining() > 0 && !opts.AllowTrailing {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, r.remaining())
	}

	return &ProjectInformation{
		Information: info,
		References:  references,
		Modules:     modules,
	}, nil
}

// parseReferenceName reads the optional NAME record pair preceding a
// reference variant. Returns the empty string when absent.
func (r *recordReader) parseReferenceName() (string, error) {
	id, err := r.peekUint16()
	if err != nil {
		return "", fmt.Errorf("REFERENCENAME: %w", err)
	}
	if id != recReferenceName {
		return "", nil
	}

	name, err := r.mbcsString(recReferenceName, "REFERENCENAME")
	if err != nil {
		return "", err
	}
	// The unicode twin duplicates the MBCS value and is dropped.
	if _, err = r.lengthData(recReferenceNameUnicode, "REFERENCENAME unicode"); err != nil {
		return "", err
	}

	return name, nil
}

// parseReferences reads the REFERENCE array. The array carries no count; it
// ends at the 0x000F id that starts the PROJECTMODULES record.
func parseReferences(r *recordReader) ([]Reference, error) {
	var references []Reference

	for {
		name, err := r.parseReferenceName()
		if err != nil {
			return nil, err
		}

		id, err := r.peekUint16()
		if err != nil {
			return nil, fmt.Errorf("REFERENCE: %w", err)
		}

		switch id {
		case recModules:
			return references, nil
		case recReferenceControl:
			ref, err := parseReferenceControl(r, "")
			if err != nil {
				return nil, err
			}
			ref.Name = name
			references = append(references, ref)
		case recReferenceOriginal:
			libid, err := parseReferenceOriginal(r)
			if err != nil {
				return nil, err
			}
			// An original record may prefix a control record; standalone it is
			// a reference of its own.
			next, err := r.peekUint16()
			if err == nil && next == recReferenceControl {
				ref, err := parseReferenceControl(r, libid)
				if err != nil {
					return nil, err
				}
				ref.Name = name
				references = append(references, ref)
			} else {
				references = append(references, &ReferenceOriginal{Name: name, LibIDOriginal: libid})
			}
		case recReferenceRegistered:
			ref, err := parseReferenceRegistered(r)
			if err != nil {
				return nil, err
			}
			ref.Name = name
			references = append(references, ref)
		case recReferenceProject:
			ref, err := parseReferenceProject(r)
			if err != nil {
				return nil, err
			}
			ref.Name = name
			references = append(references, ref)
		default:
			return nil, fmt.Errorf("%w: REFERENCE: unexpected record 0x%04x", ErrParse, id)
		}
	}
}

// parseReferenceOriginal reads a REFERENCEORIGINAL record and returns its
// decoded libid.
func parseReferenceOriginal(r *recordReader) (string, error) {
	return r.mbcsString(recReferenceOriginal, "REFERENCEORIGINAL")
}

// parseReferenceControl reads a REFERENCECONTROL record. libidOriginal is the
// libid of an already-consumed leading original record, or empty.
func parseReferenceControl(r *recordReader, libidOriginal string) (*ReferenceControl, error) {
	if err := r.expectID(recReferenceControl, "REFERENCECONTROL"); err != nil {
		return nil, err
	}
	// Record size; implied by the fields that follow.
	if _, err := r.readUint32(); err != nil {
		return nil, fmt.Errorf("REFERENCECONTROL: %w", err)
	}

	twiddled, err := r.lenPrefixed("REFERENCECONTROL twiddled")
	if err != nil {
		return nil, err
	}
	libidTwiddled, err := decodeCodePage(twiddled, r.codePage)
	if err != nil {
		return nil, fmt.Errorf("REFERENCECONTROL twiddled: %w", err)
	}

	if err = r.expectReserved("REFERENCECONTROL"); err != nil {
		return nil, err
	}

	nameExtended, err := r.parseReferenceName()
	if err != nil {
		return nil, err
	}

	if err = r.expectID(recControlLibIDExtended, "REFERENCECONTROL extended"); err != nil {
		return nil, err
	}
	if _, err = r.readUint32(); err != nil {
		return nil, fmt.Errorf("REFERENCECONTROL extended: %w", err)
	}
	extended, err := r.lenPrefixed("REFERENCECONTROL extended")
	if err != nil {
		return nil, err
	}
	libidExtended, err := decodeCodePage(extended, r.codePage)
	if err != nil {
		return nil, fmt.Errorf("REFERENCECONTROL extended: %w", err)
	}

	if err = r.expectReserved("REFERENCECONTROL extended"); err != nil {
		return nil, err
	}

	guid, err := r.readBytes(16)
	if err != nil {
		return nil, fmt.Errorf("REFERENCECONTROL guid: %w", err)
	}
	cookie, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("REFERENCECONTROL cookie: %w", err)
	}

	ref := &ReferenceControl{
		LibIDOriginal: libidOriginal,
		LibIDTwiddled: libidTwiddled,
		NameExtended:  nameExtended,
		LibIDExtended: libidExtended,
		Cookie:        cookie,
	}
	copy(ref.GUID[:], guid)

	return ref, nil
}

// parseReferenceRegistered reads a REFERENCEREGISTERED record.
func parseReferenceRegistered(r *recordReader) (*ReferenceRegistered, error) {
	if err := r.expectID(recReferenceRegistered, "REFERENCEREGISTERED"); err != nil {
		return nil, err
	}
	if _, err := r.readUint32(); err != nil {
		return nil, fmt.Errorf("REFERENCEREGISTERED: %w", err)
	}

	libidRaw, err := r.lenPrefixed("REFERENCEREGISTERED libid")
	if err != nil {
		return nil, err
	}
	libid, err := decodeCodePage(libidRaw, r.codePage)
	if err != nil {
		return nil, fmt.Errorf("REFERENCEREGISTERED libid: %w", err)
	}

	if err = r.expectReserved("REFERENCEREGISTERED"); err != nil {
		return nil, err
	}

	return &ReferenceRegistered{LibID: libid}, nil
}

// parseReferenceProject reads a REFERENCEPROJECT record.
func parseReferenceProject(r *recordReader) (*ReferenceProject, error) {
	if err := r.expectID(recReferenceProject, "REFERENCEPROJECT"); err != nil {
		return nil, err
	}
	if _, err := r.readUint32(); err != nil {
		return nil, fmt.Errorf("REFERENCEPROJECT: %w", err)
	}

	absoluteRaw, err := r.lenPrefixed("REFERENCEPROJECT absolute")
	if err != nil {
		return nil, err
	}
	relativeRaw, err := r.lenPrefixed("REFERENCEPROJECT relative")
	if err != nil {
		return nil, err
	}
	absolute, err := decodeCodePage(absoluteRaw, r.codePage)
	if err != nil {
		return nil, fmt.Errorf("REFERENCEPROJECT absolute: %w", err)
	}
	relative, err := decodeCodePage(relativeRaw, r.codePage)
	if err != nil {
		return nil, fmt.Errorf("REFERENCEPROJECT relative: %w", err)
	}

	major, err := r.readUint32()
	if err != nil {
		return nil, fmt.Errorf("REFERENCEPROJECT version: %w", err)
	}
	minor, err := r.readUint16()
	if err != nil {
		return nil, fmt.Errorf("REFERENCEPROJECT version: %w", err)
	}

	return &ReferenceProject{
		LibIDAbsolute: absolute,
		LibIDRelative: relative,
		MajorVersion:  major,
		MinorVersion:  minor,
	}, nil
}

// parseModules reads the PROJECTMODULES record and its module array.
func parseModules(r *recordReader) ([]Module, error) {
	count, err := r.fixedUint16(recModules, "PROJECTMODULES")
	if err != nil {
		return nil, err
	}
	// Cookie must be ignored on read.
	if _, err = r.fixedUint16(recModulesCookie, "PROJECTCOOKIE"); err != nil {
		return nil, err
	}

	modules := make([]Module, 0, count)
	for i := 0; i < int(count); i++ {
		module, err := parseModule(r)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		modules = append(modules, *module)
	}

	return modules, nil
}

// parseModule reads one MODULE record group.
func parseModule(r *recordReader) (*Module, error) {
	var m Module
	var err error

	if m.Name, err = r.mbcsString(recModuleName, "MODULENAME"); err != nil {
		return nil, err
	}

	// MODULENAMEUNICODE is optional and duplicates MODULENAME.
	if id, err := r.peekUint16(); err == nil && id == recModuleNameUnicode {
		if _, err := r.lengthData(recModuleNameUnicode, "MODULENAMEUNICODE"); err != nil {
			return nil, err
		}
	}

	if m.StreamName, err = r.mbcsString(recModuleStreamName, "MODULESTREAMNAME"); err != nil {
		return nil, err
	}
	if _, err = r.lengthData(recModuleStreamNameUnicode, "MODULESTREAMNAME unicode"); err != nil {
		return nil, err
	}

	if m.DocString, err = r.mbcsString(recModuleDocString, "MODULEDOCSTRING"); err != nil {
		return nil, err
	}
	if _, err = r.lengthData(recModuleDocStringUnicode, "MODULEDOCSTRING unicode"); err != nil {
		return nil, err
	}

	if m.TextOffset, err = r.fixedUint32(recModuleOffset, "MODULEOFFSET"); err != nil {
		return nil, err
	}
	if m.HelpContext, err = r.fixedUint32(recModuleHelpContext, "MODULEHELPCONTEXT"); err != nil {
		return nil, err
	}
	// Cookie must be ignored on read.
	if _, err = r.fixedUint16(recModuleCookie, "MODULECOOKIE"); err != nil {
		return nil, err
	}

	id, err := r.readUint16()
	if err != nil {
		return nil, fmt.Errorf("MODULETYPE: %w", err)
	}
	switch id {
	case recModuleTypeProcedural:
		m.Type = ModuleProcedural
	case recModuleTypeDocument:
		m.Type = ModuleDocClsDesigner
	default:
		return nil, fmt.Errorf("%w: MODULETYPE: id 0x%04x", ErrParse, id)
	}
	if err = r.expectSize(0, "MODULETYPE"); err != nil {
		return nil, err
	}

	if id, err := r.peekUint16(); err == nil && id == recModuleReadOnly {
		r.pos += 2
		if err := r.expectSize(0, "MODULEREADONLY"); err != nil {
			return nil, err
		}
		m.ReadOnly = true
	}
	if id, err := r.peekUint16(); err == nil && id == recModulePrivate {
		r.pos += 2
		if err := r.expectSize(0, "MODULEPRIVATE"); err != nil {
			return nil, err
		}
		m.Private = true
	}

	if err = r.expectID(recModuleTerminator, "MODULE terminator"); err != nil {
		return nil, err
	}
	if err = r.expectSize(0, "MODULE terminator"); err != nil {
		return nil, err
	}

	return &m, nil
}
