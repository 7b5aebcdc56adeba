package diag

import "fmt"

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Declaration files
	DeclInfo              Code = 1000
	DeclUnknownClassKind  Code = 1001
	DeclUnknownVisibility Code = 1002
	DeclUnknownModality   Code = 1003
	DeclUnknownKind       Code = 1004
	DeclBadAnnotation     Code = 1005
	DeclDuplicateClass    Code = 1006
	DeclBadCompanion      Code = 1007
	DeclMissingName       Code = 1008
	DeclModuleMismatch    Code = 1009

	// Placement
	AbiInfo                      Code = 2000
	AbiMovedFieldRegressed       Code = 2001
	AbiInterfaceCompanionPartial Code = 2002
	AbiIntrinsicCompanionState   Code = 2003
	AbiStaleMetadata             Code = 2004
)

var codeDescription = map[Code]string{
	UnknownCode:                  "Unknown error",
	DeclInfo:                     "Declaration info",
	DeclUnknownClassKind:         "Unknown class kind",
	DeclUnknownVisibility:        "Unknown visibility",
	DeclUnknownModality:          "Unknown modality",
	DeclUnknownKind:              "Unknown member kind",
	DeclBadAnnotation:            "Malformed annotation",
	DeclDuplicateClass:           "Duplicate class",
	DeclBadCompanion:             "Invalid companion object",
	DeclMissingName:              "Missing declaration name",
	DeclModuleMismatch:           "Declaration file belongs to another module",
	AbiInfo:                      "ABI info",
	AbiMovedFieldRegressed:       "Previously moved backing field would move back into the companion",
	AbiInterfaceCompanionPartial: "@JvmField in interface companion has no effect",
	AbiIntrinsicCompanionState:   "Intrinsic companion keeps its fields",
	AbiStaleMetadata:             "Metadata was recorded for different sources",
}

// ID returns the stable short identifier, e.g. "ABI2001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("ABI%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
