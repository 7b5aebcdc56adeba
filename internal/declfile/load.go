package declfile

import (
	"errors"
	"fmt"

	"jvmabi/internal/abi"
	"jvmabi/internal/decl"
	"jvmabi/internal/diag"
)

// Source pairs a decoded file with the path it came from.
type Source struct {
	Path string
	File *File
}

// Load reads every path and builds one graph for module. An empty module
// takes the name declared by the first file.
func Load(module string, paths []string, bag *diag.Bag) (*decl.Graph, error) {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		f, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{Path: p, File: f})
	}
	return Build(module, sources, bag), nil
}

// Build converts decoded files into a graph. Entries that cannot be added
// are skipped and reported to bag.
func Build(module string, sources []Source, bag *diag.Bag) *decl.Graph {
	if module == "" {
		for _, src := range sources {
			if src.File != nil && src.File.Module != "" {
				module = src.File.Module
				break
			}
		}
	}
	if module == "" {
		module = abi.DefaultModuleName
	}
	l := &loader{
		b:      decl.NewBuilder(module, 0, 0),
		bag:    bag,
		module: module,
	}
	for _, src := range sources {
		if src.File == nil {
			continue
		}
		l.path = src.Path
		l.file(src.File)
	}
	return l.b.Build()
}

type loader struct {
	b      *decl.Builder
	bag    *diag.Bag
	module string
	path   string
}

func (l *loader) report(sev diag.Severity, code diag.Code, subject, msg string) {
	if l.bag == nil {
		return
	}
	if subject == "" {
		subject = l.path
	}
	d := diag.Diagnostic{Severity: sev, Code: code, Subject: subject, Message: msg}
	if l.path != "" && subject != l.path {
		d = d.WithNote(l.path, "declared here")
	}
	l.bag.Add(d)
}

func (l *loader) file(f *File) {
	if f.Module != "" && f.Module != l.module {
		l.report(diag.SevWarning, diag.DeclModuleMismatch, l.path,
			fmt.Sprintf("file declares module %q, loading into %q", f.Module, l.module))
	}
	for i := range f.Classes {
		l.class(&f.Classes[i], decl.NoClassID, decl.RootFqName)
	}
	for i := range f.Properties {
		e := &f.Properties[i]
		l.property(e, decl.NoClassID, decl.FqName(e.Package))
	}
	for i := range f.TypeAliases {
		l.typeAlias(&f.TypeAliases[i])
	}
}

func (l *loader) class(e *ClassEntry, outer decl.ClassID, outerFq decl.FqName) {
	fq := decl.FqName(e.FqName)
	name := e.Name
	if fq.IsRoot() && name != "" {
		if outer.IsValid() {
			fq = outerFq.Child(name)
		} else {
			fq = decl.FqName(e.Package).Child(name)
		}
	}
	if name == "" {
		name = fq.ShortName()
	}
	if name == "" {
		l.report(diag.SevError, diag.DeclMissingName, "", "class without a name")
		return
	}
	kind, ok := decl.ParseClassKind(e.Kind)
	if !ok {
		l.report(diag.SevError, diag.DeclUnknownClassKind, string(fq),
			fmt.Sprintf("unknown class kind %q", e.Kind))
		return
	}
	id, err := l.b.AddClass(decl.Class{
		Name:        name,
		FqName:      fq,
		Kind:        kind,
		Outer:       outer,
		Annotations: l.annotations(string(fq), e.Annotations),
	})
	if err != nil {
		l.classError(string(fq), err)
		return
	}
	if e.Companion != nil {
		l.companion(e.Companion, id, fq)
	}
	for i := range e.Properties {
		l.property(&e.Properties[i], id, fq)
	}
	for i := range e.Nested {
		l.class(&e.Nested[i], id, fq)
	}
}

func (l *loader) companion(e *CompanionEntry, outer decl.ClassID, outerFq decl.FqName) {
	name := e.Name
	if name == "" {
		name = "Companion"
	}
	fq := outerFq.Child(name)
	id, err := l.b.AddClass(decl.Class{
		Name:        name,
		Kind:        decl.ClassKindObject,
		Companion:   true,
		Outer:       outer,
		Annotations: l.annotations(string(fq), e.Annotations),
	})
	if err != nil {
		l.classError(string(fq), err)
		return
	}
	for i := range e.Properties {
		l.property(&e.Properties[i], id, fq)
	}
}

func (l *loader) classError(subject string, err error) {
	switch {
	case errors.Is(err, decl.ErrDuplicateClass):
		l.report(diag.SevError, diag.DeclDuplicateClass, subject, err.Error())
	case errors.Is(err, decl.ErrDuplicateCompanion), errors.Is(err, decl.ErrCompanionWithoutOuter):
		l.report(diag.SevError, diag.DeclBadCompanion, subject, err.Error())
	default:
		l.report(diag.SevError, diag.UnknownCode, subject, err.Error())
	}
}

// property adds e to owner; container is the owner's name or the package.
func (l *loader) property(e *PropertyEntry, owner decl.ClassID, container decl.FqName) {
	subject := string(container.Child(e.Name))
	if e.Name == "" {
		l.report(diag.SevError, diag.DeclMissingName, "", "property without a name")
		return
	}
	kind, ok := decl.ParseCallableKind(e.Kind)
	if !ok {
		l.report(diag.SevError, diag.DeclUnknownKind, subject, fmt.Sprintf("unknown member kind %q", e.Kind))
		return
	}
	vis, ok := decl.ParseVisibility(e.Visibility)
	if !ok {
		l.report(diag.SevError, diag.DeclUnknownVisibility, subject, fmt.Sprintf("unknown visibility %q", e.Visibility))
		return
	}
	mod, ok := decl.ParseModality(e.Modality)
	if !ok {
		l.report(diag.SevError, diag.DeclUnknownModality, subject, fmt.Sprintf("unknown modality %q", e.Modality))
		return
	}
	pkg := decl.RootFqName
	if !owner.IsValid() {
		pkg = container
	}
	p := decl.Property{
		Name:        e.Name,
		Kind:        kind,
		Owner:       owner,
		Package:     pkg,
		Visibility:  vis,
		Mutability:  decl.Val,
		Modality:    mod,
		Delegated:   e.Delegated,
		Const:       e.Const,
		NoField:     e.NoField,
		Annotations: l.annotations(subject, e.Annotations),
	}
	if e.Mutable {
		p.Mutability = decl.Var
	}
	if e.Moved {
		p.Persisted = &decl.PersistedFacts{MovedFromInterfaceCompanion: true}
	}
	if _, err := l.b.AddProperty(p); err != nil {
		l.report(diag.SevError, diag.UnknownCode, subject, err.Error())
	}
}

func (l *loader) typeAlias(e *TypeAliasEntry) {
	pkg := decl.FqName(e.Package)
	if e.Name == "" {
		l.report(diag.SevError, diag.DeclMissingName, "", "type alias without a name")
		return
	}
	subject := string(pkg.Child(e.Name))
	if _, err := l.b.AddTypeAlias(decl.TypeAlias{
		Name:        e.Name,
		Package:     pkg,
		Annotations: l.annotations(subject, e.Annotations),
	}); err != nil {
		l.report(diag.SevError, diag.UnknownCode, subject, err.Error())
	}
}

func (l *loader) annotations(subject string, raw []string) decl.Annotations {
	if len(raw) == 0 {
		return nil
	}
	out := make(decl.Annotations, 0, len(raw))
	for _, s := range raw {
		a, ok := decl.ParseAnnotation(s)
		if !ok {
			l.report(diag.SevError, diag.DeclBadAnnotation, subject, fmt.Sprintf("malformed annotation %q", s))
			continue
		}
		out = append(out, a)
	}
	return out
}
