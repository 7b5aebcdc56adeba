package abi

import (
	"strings"

	"jvmabi/internal/decl"
)

// Fixed names consumed verbatim by the emitter.
const (
	DefaultImplsClassName      = "DefaultImpls"
	DefaultImplsSuffix         = "$" + DefaultImplsClassName
	DefaultImplsDelegateSuffix = "$defaultImpl"
	DefaultParamsImplSuffix    = "$default"

	ErasedInlineClassName   = "Erased"
	ErasedInlineClassSuffix = "$" + ErasedInlineClassName

	DelegatedPropertyNameSuffix  = "$delegate"
	DelegatedPropertiesArrayName = "$$delegatedProperties"
	DelegateSuperFieldPrefix     = "$$delegate_"

	AnnotationsSuffix = "$annotations"

	InstanceField       = "INSTANCE"
	HiddenInstanceField = "$$" + InstanceField

	DefaultModuleName = "main"

	LocalVariableNamePrefixInlineArgument = "$i$a$"
	LocalVariableNamePrefixInlineFunction = "$i$f$"
)

const (
	// JvmFieldAnnotation marks a property whose backing field is exposed as-is.
	JvmFieldAnnotation decl.FqName = "kotlin.jvm.JvmField"
	// ReflectionFactoryImpl is the runtime reflection entry class.
	ReflectionFactoryImpl decl.FqName = "kotlin.reflect.jvm.internal.ReflectionFactoryImpl"
)

const (
	getPrefix = "get"
	isPrefix  = "is"
	setPrefix = "set"
)

// SyntheticMethodNameForAnnotatedProperty names the body-less method that
// carries a property's annotations in the class file.
func SyntheticMethodNameForAnnotatedProperty(propertyName string) string {
	return propertyName + AnnotationsSuffix
}

// SyntheticMethodNameForAnnotatedTypeAlias is the type alias counterpart.
func SyntheticMethodNameForAnnotatedTypeAlias(typeAliasName string) string {
	return typeAliasName + AnnotationsSuffix
}

// IsGetterName is a prefix test used to match existing JVM members.
func IsGetterName(name string) bool {
	return strings.HasPrefix(name, getPrefix) || strings.HasPrefix(name, isPrefix)
}

// IsSetterName is a prefix test used to match existing JVM members.
func IsSetterName(name string) bool {
	return strings.HasPrefix(name, setPrefix)
}

// GetterName returns the JVM getter for a property: "isReady" stays as is,
// "value" becomes "getValue".
func GetterName(propertyName string) string {
	if StartsWithIsPrefix(propertyName) {
		return propertyName
	}
	return getPrefix + CapitalizeASCII(propertyName)
}

// SetterName returns the JVM setter for a property: "isReady" becomes
// "setReady", "value" becomes "setValue".
func SetterName(propertyName string) string {
	if StartsWithIsPrefix(propertyName) {
		return setPrefix + propertyName[len(isPrefix):]
	}
	return setPrefix + CapitalizeASCII(propertyName)
}

// StartsWithIsPrefix reports names like "isValid" but not "island" or "is".
func StartsWithIsPrefix(name string) bool {
	if !strings.HasPrefix(name, isPrefix) || len(name) == len(isPrefix) {
		return false
	}
	c := name[len(isPrefix)]
	return c < 'a' || c > 'z'
}

// CapitalizeASCII upper-cases the first byte if it is an ASCII lowercase
// letter. Locale and non-ASCII runes are left alone.
func CapitalizeASCII(s string) string {
	if s == "" {
		return s
	}
	c := s[0]
	if c < 'a' || c > 'z' {
		return s
	}
	return string(c-'a'+'A') + s[1:]
}
