// Package templates generates non-generic convenience wrappers around
// reactor's generic Signal[T]/Computed[T] handles, one wrapper type per
// configured primitive type (one source file for the Signal wrappers,
// one for the Computed wrappers), by direct string composition.
package templates

import (
	"strings"
)

// TypeSpec names one primitive type to generate wrappers for: GoType is
// the underlying Go type, Name is the identifier prefix used for the
// generated wrapper types (IntSignal, StringComputed, and so on).
type TypeSpec struct {
	Name   string
	GoType string
}

// SignalWrappersGen emits one non-generic Signal wrapper type per spec,
// for consumers who would rather not spell out Signal[int] at every call
// site.
func SignalWrappersGen(pkg string, specs []TypeSpec) string {
	var sb strings.Builder
	sb.WriteString("// Code generated by cmd/codegen. DO NOT EDIT.\n\n")
	sb.WriteString("package ")
	sb.WriteString(pkg)
	sb.WriteString("\n\nimport \"github.com/arcsignal/reactor/reactor\"\n\n")

	for _, spec := range specs {
		sb.WriteString("// " + spec.Name + "Signal is a non-generic convenience wrapper over\n")
		sb.WriteString("// reactor.Signal[" + spec.GoType + "].\n")
		sb.WriteString("type " + spec.Name + "Signal struct {\n\tinner reactor.Signal[" + spec.GoType + "]\n}\n\n")

		sb.WriteString("func New" + spec.Name + "Signal(initial " + spec.GoType + ") " + spec.Name + "Signal {\n")
		sb.WriteString("\treturn " + spec.Name + "Signal{inner: reactor.NewSignal(initial)}\n}\n\n")

		sb.WriteString("func (s " + spec.Name + "Signal) Get() " + spec.GoType + " { return s.inner.Get() }\n")
		sb.WriteString("func (s " + spec.Name + "Signal) Peek() " + spec.GoType + " { return s.inner.Peek() }\n")
		sb.WriteString("func (s " + spec.Name + "Signal) Set(v " + spec.GoType + ") error { return s.inner.Set(v) }\n\n")
	}

	return sb.String()
}

// ComputedWrappersGen emits one non-generic Computed wrapper type per
// spec, mirroring SignalWrappersGen.
func ComputedWrappersGen(pkg string, specs []TypeSpec) string {
	var sb strings.Builder
	sb.WriteString("// Code generated by cmd/codegen. DO NOT EDIT.\n\n")
	sb.WriteString("package ")
	sb.WriteString(pkg)
	sb.WriteString("\n\nimport \"github.com/arcsignal/reactor/reactor\"\n\n")

	for _, spec := range specs {
		sb.WriteString("// " + spec.Name + "Computed is a non-generic convenience wrapper over\n")
		sb.WriteString("// reactor.Computed[" + spec.GoType + "].\n")
		sb.WriteString("type " + spec.Name + "Computed struct {\n\tinner reactor.Computed[" + spec.GoType + "]\n}\n\n")

		sb.WriteString("func New" + spec.Name + "Computed(update func() (" + spec.GoType + ", error)) " + spec.Name + "Computed {\n")
		sb.WriteString("\treturn " + spec.Name + "Computed{inner: reactor.NewComputed(update)}\n}\n\n")

		sb.WriteString("func (c " + spec.Name + "Computed) Get() (" + spec.GoType + ", error) { return c.inner.Get() }\n")
		sb.WriteString("func (c " + spec.Name + "Computed) Peek() (" + spec.GoType + ", error) { return c.inner.Peek() }\n\n")
	}

	return sb.String()
}
