package decl

import "strings"

// UseSiteTarget says which generated artifact an annotation applies to.
type UseSiteTarget uint8

const (
	TargetNone UseSiteTarget = iota
	TargetField
	TargetProperty
	TargetGetter
	TargetSetter
	TargetSetterParam
	TargetParam
	TargetDelegate
	TargetReceiver
	TargetFile
)

func (t UseSiteTarget) String() string {
	switch t {
	case TargetField:
		return "field"
	case TargetProperty:
		return "property"
	case TargetGetter:
		return "get"
	case TargetSetter:
		return "set"
	case TargetSetterParam:
		return "setparam"
	case TargetParam:
		return "param"
	case TargetDelegate:
		return "delegate"
	case TargetReceiver:
		return "receiver"
	case TargetFile:
		return "file"
	default:
		return ""
	}
}

// ParseUseSiteTarget parses the source spelling of a use-site target.
func ParseUseSiteTarget(s string) (UseSiteTarget, bool) {
	switch s {
	case "":
		return TargetNone, true
	case "field":
		return TargetField, true
	case "property":
		return TargetProperty, true
	case "get":
		return TargetGetter, true
	case "set":
		return TargetSetter, true
	case "setparam":
		return TargetSetterParam, true
	case "param":
		return TargetParam, true
	case "delegate":
		return TargetDelegate, true
	case "receiver":
		return TargetReceiver, true
	case "file":
		return TargetFile, true
	default:
		return TargetNone, false
	}
}

// Annotation is a resolved annotation reference.
type Annotation struct {
	FqName FqName
	Target UseSiteTarget
}

func (a Annotation) String() string {
	if a.Target == TargetNone {
		return "@" + a.FqName.String()
	}
	return "@" + a.Target.String() + ":" + a.FqName.String()
}

// ParseAnnotation parses "fq.Name" or "target:fq.Name"; a leading '@' is allowed.
func ParseAnnotation(s string) (Annotation, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "@")
	target := TargetNone
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		t, ok := ParseUseSiteTarget(s[:idx])
		if !ok {
			return Annotation{}, false
		}
		target = t
		s = s[idx+1:]
	}
	if s == "" {
		return Annotation{}, false
	}
	return Annotation{FqName: FqName(s), Target: target}, true
}

// Annotations is the ordered annotation set of one declaration.
type Annotations []Annotation

// UseSiteTargeted returns annotations that carry an explicit use-site target.
func (as Annotations) UseSiteTargeted() []Annotation {
	var out []Annotation
	for _, a := range as {
		if a.Target != TargetNone {
			out = append(out, a)
		}
	}
	return out
}

// HasAnnotation reports an untargeted annotation with the given name.
func (as Annotations) HasAnnotation(fq FqName) bool {
	for _, a := range as {
		if a.Target == TargetNone && a.FqName == fq {
			return true
		}
	}
	return false
}

// HasTargeted reports an annotation with the given name and explicit target.
func (as Annotations) HasTargeted(target UseSiteTarget, fq FqName) bool {
	for _, a := range as {
		if a.Target == target && a.FqName == fq {
			return true
		}
	}
	return false
}
