// Package introspect performs the one-time metadata capture for a wrapped
// function: its name, defining file, source text, doc comment and the imports
// of the defining file.
//
// Capture happens once, at wrap time. The results are immutable snapshots:
// records written later reproduce them even after the source file is edited
// or deleted, which is the archival guarantee of the system.
package introspect

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// Metadata describes a function at wrap time.
type Metadata struct {
	Name     string // short name, e.g. "Add" or "func1" for closures
	FullName string // runtime symbol, e.g. "github.com/acme/calc.Add"
	File     string // defining source file, if known
	Line     int
	Source   string   // source text of the function, if the file was readable
	Doc      string   // doc comment, trimmed
	Imports  []string // import paths of the defining file, sorted
}

// Describe captures metadata for fn. Only a non-function argument is an
// error; a missing or unparsable source file degrades to partial metadata,
// since instrumented binaries are routinely deployed without sources.
func Describe(fn any) (Metadata, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return Metadata{}, fmt.Errorf("introspect: not a function: %T", fn)
	}

	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return Metadata{}, fmt.Errorf("introspect: no runtime info for function")
	}

	meta := Metadata{FullName: rf.Name()}
	meta.Name = shortName(rf.Name())
	meta.File, meta.Line = rf.FileLine(rf.Entry())

	src, err := os.ReadFile(meta.File)
	if err != nil {
		return meta, nil
	}

	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, meta.File, src, parser.ParseComments)
	if err != nil {
		return meta, nil
	}

	meta.Imports = importPaths(parsed)

	node, doc := enclosingFunc(fset, parsed, meta.Line)
	if node != nil {
		start := fset.Position(node.Pos()).Offset
		end := fset.Position(node.End()).Offset
		if start >= 0 && end <= len(src) && start < end {
			meta.Source = string(src[start:end])
		}
		meta.Doc = strings.TrimSpace(doc)
	}

	return meta, nil
}

// shortName reduces a runtime symbol to the bare function name.
// "github.com/acme/calc.Add" -> "Add", "main.main.func1" -> "func1".
// Method-value symbols carry a "-fm" suffix which is stripped.
func shortName(full string) string {
	name := full
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if name == "" {
		return full
	}
	return name
}

// enclosingFunc finds the innermost function declaration or literal whose
// span covers the given line. The innermost match handles closures defined
// inside other functions. Returns the node and its doc comment (empty for
// literals, which cannot carry one).
func enclosingFunc(fset *token.FileSet, file *ast.File, line int) (ast.Node, string) {
	var (
		best     ast.Node
		bestDoc  string
		bestSpan int
	)
	ast.Inspect(file, func(n ast.Node) bool {
		var doc string
		switch fn := n.(type) {
		case *ast.FuncDecl:
			if fn.Doc != nil {
				doc = fn.Doc.Text()
			}
		case *ast.FuncLit:
		default:
			return true
		}
		start := fset.Position(n.Pos()).Line
		end := fset.Position(n.End()).Line
		if line < start || line > end {
			return true
		}
		span := end - start
		if best == nil || span <= bestSpan {
			best, bestDoc, bestSpan = n, doc, span
		}
		return true
	})
	return best, bestDoc
}

// importPaths extracts the import paths of the parsed file.
func importPaths(file *ast.File) []string {
	if len(file.Imports) == 0 {
		return nil
	}
	paths := make([]string, 0, len(file.Imports))
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
