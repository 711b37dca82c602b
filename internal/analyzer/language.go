package analyzer

import (
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/tsx"
	"github.com/alexaandru/go-sitter-forest/typescript"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/src-d/enry/v2"
)

// languageFuncs maps grammar names to their tree-sitter GetLanguage
// functions. Baselines are UI component sources, so only the JS/TS family
// is wired.
var languageFuncs = map[string]func() unsafe.Pointer{
	"javascript": javascript.GetLanguage,
	"tsx":        tsx.GetLanguage,
	"typescript": typescript.GetLanguage,
}

// grammarByExtension selects the grammar for a baseline file extension.
var grammarByExtension = map[string]string{
	".js":  "javascript",
	".jsx": "tsx",
	".ts":  "typescript",
	".tsx": "tsx",
	".mjs": "javascript",
}

// supportedEnryLanguages is the enry classification allow-list for
// baseline inputs.
var supportedEnryLanguages = map[string]bool{
	"JavaScript": true,
	"JSX":        true,
	"TSX":        true,
	"TypeScript": true,
}

var languageCache sync.Map

// grammarFor returns the tree-sitter language for the given baseline file
// name, or "" and nil when the extension is not supported.
func grammarFor(filename string) (string, *sitter.Language) {
	ext := strings.ToLower(filepath.Ext(filename))

	name, ok := grammarByExtension[ext]
	if !ok {
		return "", nil
	}

	return name, getLanguage(name)
}

// getLanguage returns a cached tree-sitter language by grammar name.
func getLanguage(name string) *sitter.Language {
	if cached, ok := languageCache.Load(name); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang
		}
	}

	fn, ok := languageFuncs[name]
	if !ok {
		return nil
	}

	lang := sitter.NewLanguage(fn())
	languageCache.Store(name, lang)

	return lang
}

// classifySource reports whether enry classifies the content as a
// supported baseline language.
func classifySource(filename string, content []byte) (string, bool) {
	lang := enry.GetLanguage(filepath.Base(filename), content)

	return lang, supportedEnryLanguages[lang]
}
