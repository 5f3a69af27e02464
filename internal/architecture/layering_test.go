package architecture_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulesPrefix = "focustree/internal/modules/"

var layers = []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"}

// imports walks the non-test Go files under root and calls fn with each
// focustree module import.
func imports(t *testing.T, root string, fn func(file, importPath string)) {
	t.Helper()
	fset := token.NewFileSet()
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		node, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, imp := range node.Imports {
			p := strings.Trim(imp.Path.Value, `"`)
			if strings.HasPrefix(p, modulesPrefix) {
				fn(filepath.ToSlash(path), p)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
}

func TestModuleLayerImports(t *testing.T) {
	t.Parallel()
	imports(t, filepath.Join("..", "modules"), func(file, importPath string) {
		module, layer := locate(file)
		if module == "" || layer == "" {
			return
		}
		if forbidden(module, layer, importPath) {
			t.Errorf("forbidden import in %s (%s): %s", file, layer, importPath)
		}
	})
}

// The TUI drives modules through their inbound ports only.
func TestUIImportsOnlyPortsAndDTOs(t *testing.T) {
	t.Parallel()
	imports(t, filepath.Join("..", "ui"), func(file, importPath string) {
		_, layer := locate(importPath + "/")
		if layer != "port/in" && layer != "dto" {
			t.Errorf("%s imports %s", file, importPath)
		}
	})
}

func TestForbiddenRules(t *testing.T) {
	t.Parallel()
	cases := []struct {
		module, layer, imp string
		want               bool
	}{
		{"session", "service", modulesPrefix + "session/domain", false},
		{"session", "service", modulesPrefix + "session/adapter/out", true},
		{"session", "usecase", modulesPrefix + "session/adapter/in", true},
		{"session", "adapter/in", modulesPrefix + "session/service", true},
		{"session", "adapter/in", modulesPrefix + "session/port/in", false},
		{"assistant", "adapter/out", modulesPrefix + "session/port/in", false},
		{"assistant", "adapter/out", modulesPrefix + "coach/dto", false},
		{"assistant", "service", modulesPrefix + "coach/service", true},
		{"detection", "adapter/out", modulesPrefix + "intervention/usecase", true},
		{"intervention", "domain", modulesPrefix + "intervention/service", true},
	}
	for _, c := range cases {
		if got := forbidden(c.module, c.layer, c.imp); got != c.want {
			t.Fatalf("forbidden(%s, %s, %s) = %v, want %v", c.module, c.layer, c.imp, got, c.want)
		}
	}
}

func locate(path string) (module, layer string) {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "modules" {
			module = parts[i+1]
			break
		}
	}
	for _, l := range layers {
		if strings.Contains(path, "/"+l+"/") {
			return module, l
		}
	}
	return module, ""
}

func forbidden(module, layer, importPath string) bool {
	_, target := locate(importPath + "/")
	if !strings.HasPrefix(importPath, modulesPrefix+module+"/") {
		switch target {
		case "service", "adapter/in", "adapter/out", "usecase":
			return true
		case "port/in", "dto":
			return false
		}
	}
	switch layer {
	case "adapter/in":
		return target != "port/in" && target != "dto"
	case "usecase":
		return target == "adapter/in" || target == "adapter/out"
	case "service":
		return target == "adapter/in" || target == "adapter/out" || target == "usecase"
	case "domain":
		return target == "adapter/in" || target == "adapter/out" || target == "usecase" || target == "service"
	}
	return false
}
