package backend

import (
	"fmt"

	"github.com/subhobhai943/sub-lang-sub001/internal/ast"
)

// stub is a registered-but-unimplemented Backend, per spec.md §9(e): "Go,
// LLVM, and WASM transpilation targets are registered but unimplemented."
// Extended here to the full transpiler list spec.md §1 names as
// out-of-scope shallow tree walks (C++, Rust, Python, Java, Swift,
// Kotlin, Ruby, CSS, JavaScript). ARM64/RISC-V are native codegen targets,
// not transpilation backends, so they are not registered here — see
// cmd/slc's --arch flag and DESIGN.md's spec.md §9(d) decision.
type stub struct {
	name string
}

func (s stub) Name() string { return s.name }

func (s stub) Generate(_ *ast.Program, _ string) (string, error) {
	return "", fmt.Errorf("backend %q is registered but not implemented", s.name)
}

func init() {
	for _, name := range []string{
		"cpp", "rust", "python", "java", "swift", "kotlin", "ruby", "css", "javascript",
		"go", "llvm", "wasm",
	} {
		Register(stub{name: name})
	}
}
