// Package pyast lists the modules imported by Python source using a
// tree-sitter syntax tree.
package pyast

import (
	"context"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/logger"
)

// Ensure Inventory implements the interface.
var _ driven.ImportInventory = (*Inventory)(nil)

// Inventory extracts top-level imported module names.
// A single parser is shared, so calls are serialised.
type Inventory struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

// NewInventory creates an inventory backed by the Python grammar.
func NewInventory() *Inventory {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Inventory{parser: parser}
}

// Modules returns the sorted, de-duplicated top-level modules imported
// anywhere in source. Relative and __future__ imports are ignored.
// IPython magic and shell lines are read as comments.
func (inv *Inventory) Modules(source string) []string {
	content := commentMagics([]byte(source))

	inv.mu.Lock()
	tree, err := inv.parser.ParseCtx(context.Background(), nil, content)
	inv.mu.Unlock()
	if err != nil {
		logger.Debug("pyast: parse failed: %v", err)
		return nil
	}
	defer tree.Close()

	seen := make(map[string]bool)
	collect(tree.RootNode(), content, seen)

	modules := make([]string, 0, len(seen))
	for m := range seen {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	return modules
}

func collect(node *sitter.Node, content []byte, seen map[string]bool) {
	text := func(n *sitter.Node) string {
		return string(content[n.StartByte():n.EndByte()])
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		switch child.Type() {
		case "import_statement":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				name := child.NamedChild(j)
				if name.Type() == "aliased_import" {
					name = name.ChildByFieldName("name")
				}
				if name != nil && name.Type() == "dotted_name" {
					addTopLevel(text(name), seen)
				}
			}

		case "import_from_statement":
			module := child.ChildByFieldName("module_name")
			if module != nil && module.Type() == "dotted_name" {
				addTopLevel(text(module), seen)
			}

		case "future_import_statement":
			// not a module dependency

		default:
			collect(child, content, seen)
		}
	}
}

func addTopLevel(dotted string, seen map[string]bool) {
	top, _, _ := strings.Cut(dotted, ".")
	if top = strings.TrimSpace(top); top != "" {
		seen[top] = true
	}
}

// commentMagics turns lines starting with % or ! into comments in place,
// keeping byte offsets intact.
func commentMagics(content []byte) []byte {
	lineStart := true
	for i, b := range content {
		switch {
		case b == '\n':
			lineStart = true
		case lineStart && (b == ' ' || b == '\t'):
		case lineStart && (b == '%' || b == '!'):
			content[i] = '#'
			lineStart = false
		default:
			lineStart = false
		}
	}
	return content
}
