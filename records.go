package ovba

// SysKind identifies the platform a VBA project targets (PROJECTSYSKIND).
type SysKind uint32

// SysKind values.
const (
	SysKindWin16 SysKind = iota
	SysKindWin32
	SysKindMacOS
	SysKindWin64
)

// String implements fmt.Stringer.
func (k SysKind) String() string {
	switch k {
	case SysKindWin16:
		return "Win16"
	case SysKindWin32:
		return "Win32"
	case SysKindMacOS:
		return "MacOS"
	case SysKindWin64:
		return "Win64"
	default:
		return "Unknown"
	}
}

// ModuleType distinguishes procedural modules from document, class and
// designer modules (MODULETYPE).
type ModuleType uint16

// ModuleType values.
const (
	ModuleProcedural ModuleType = iota
	ModuleDocClsDesigner
)

// String implements fmt.Stringer.
func (t ModuleType) String() string {
	switch t {
	case ModuleProcedural:
		return "Procedural"
	case ModuleDocClsDesigner:
		return "Document/Class/Designer"
	default:
		return "Unknown"
	}
}

// Information holds the version-independent project information records of
// the dir stream. MBCS fields are decoded with the project code page; the
// UTF-16 twin records duplicate them and are validated, then dropped.
type Information struct {
	SysKind       SysKind
	CompatVersion uint32 // 0 when the optional PROJECTCOMPATVERSION record is absent.
	LCID          uint32
	LCIDInvoke    uint32
	CodePage      uint16
	Name          string
	DocString     string
	HelpFile      string
	HelpContext   uint32
	LibFlags      uint32
	VersionMajor  uint32
	VersionMinor  uint16
	Constants     string
}

// Reference is one external reference of a VBA project. The concrete type is
// one of ReferenceControl, ReferenceOriginal, ReferenceRegistered or
// ReferenceProject.
type Reference interface {
	referenceRecord()
}

// ReferenceControl is a twiddled reference to an ActiveX control library
// (REFERENCECONTROL).
type ReferenceControl struct {
	Name          string
	LibIDOriginal string // Empty when the optional original record is absent.
	LibIDTwiddled string
	NameExtended  string
	LibIDExtended string
	GUID          [16]byte
	Cookie        uint32
}

// ReferenceOriginal is a reference to the original library of a control
// without a matching extended reference (REFERENCEORIGINAL).
type ReferenceOriginal struct {
	Name          string
	LibIDOriginal string
}

// ReferenceRegistered is a reference to a registered type library
// (REFERENCEREGISTERED).
type ReferenceRegistered struct {
	Name  string
	LibID string
}

// ReferenceProject is a reference to an external VBA project
// (REFERENCEPROJECT).
type ReferenceProject struct {
	Name          string
	LibIDAbsolute string
	LibIDRelative string
	MajorVersion  uint32
	MinorVersion  uint16
}

func (*ReferenceControl) referenceRecord()    {}
func (*ReferenceOriginal) referenceRecord()   {}
func (*ReferenceRegistered) referenceRecord() {}
func (*ReferenceProject) referenceRecord()    {}

// compile-time interface checks
var (
	_ Reference = (*ReferenceControl)(nil)
	_ Reference = (*ReferenceOriginal)(nil)
	_ Reference = (*ReferenceRegistered)(nil)
	_ Reference = (*ReferenceProject)(nil)
)

// Module describes one code module of a VBA project.
type Module struct {
	Name        string
	StreamName  string
	DocString   string
	TextOffset  uint32 // Offset of the compressed source container within the module stream.
	HelpContext uint32
	Type        ModuleType
	ReadOnly    bool
	Private     bool
}

// ProjectInformation is the fully parsed dir stream: project information,
// external references and module descriptors.
type ProjectInformation struct {
	Information Information
	References  []Reference
	Modules     []Module
}
