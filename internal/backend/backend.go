// Package backend defines the collaborator seam between a type-checked SL
// program and its transpilation targets, per spec.md §6: "Transpilers
// consume the post-type-check AST and the original source string; they
// return a freshly allocated output string or a null marker on failure."
package backend

import "github.com/subhobhai943/sub-lang-sub001/internal/ast"

// Backend stringifies a type-checked program into some target language.
// Go's (string, error) pair stands in for the "null marker on failure"
// spec.md §6 names: a failed Generate returns an empty string and a
// non-nil error carrying the failure reason.
type Backend interface {
	// Name is the registry key this backend is addressed by (the `--emit`
	// flag's argument, per spec.md §6).
	Name() string
	// Generate stringifies prog, given the original source text src (some
	// backends echo fragments of it, e.g. embed blocks).
	Generate(prog *ast.Program, src string) (string, error)
}

// registry is the name -> Backend map spec.md §1 calls the
// "platform-selection registry". Populated by each backend's init via
// Register, the same self-registration shape the teacher's cmd/*
// packages use for dispatch-by-string subcommands.
var registry = map[string]Backend{}

// Register adds b to the registry under its own Name(). Later
// registrations for the same name overwrite earlier ones.
func Register(b Backend) {
	registry[b.Name()] = b
}

// Lookup returns the backend registered under name, if any.
func Lookup(name string) (Backend, bool) {
	b, ok := registry[name]
	return b, ok
}

// Names returns every registered backend name, for `--emit` usage text.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
