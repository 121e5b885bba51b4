package sandbox

import (
	"strings"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tota/internal/catalog"
)

// pageStubs stands in for the browser and the CDN runtimes. Babel passes
// source through unless it contains SYNTAX_ERROR, and rendering calls the
// component synchronously.
const pageStubs = `
var window = this;
var caught = [];
var rendered = [];
window.__previewShowError = function (err) {
  caught.push(err && err.message ? String(err.message) : String(err));
};
window.__PreviewBoundary = function Boundary() {};
window.Shim = {};
window.Icons = {};
var document = { getElementById: function () { return {}; } };
var Babel = {
  transform: function (src) {
    if (src.indexOf("SYNTAX_ERROR") >= 0) {
      throw new SyntaxError("Unexpected token");
    }
    return { code: src };
  }
};
var React = {
  useState: function (v) { return [v, function () {}]; },
  createElement: function (type, props, child) { return { type: type, props: props || {}, child: child }; }
};
var ReactDOM = {
  createRoot: function () {
    return {
      render: function (el) {
        var entry = el.child;
        rendered.push(entry.type(entry.props));
      }
    };
  }
};
`

// mountScript returns the inline script that compiles and mounts the entry.
func mountScript(t *testing.T, doc Document) string {
	t.Helper()
	s := string(doc)
	start := strings.LastIndex(s, "<script>")
	require.NotEqual(t, -1, start)
	end := strings.Index(s[start:], "</script>")
	require.NotEqual(t, -1, end)
	return s[start+len("<script>") : start+end]
}

func runMount(t *testing.T, code, name string) *goja.Runtime {
	t.Helper()
	doc := New(catalog.Default(), nil, DefaultOptions(), nil).Build(code, name, nil)
	vm := goja.New()
	_, err := vm.RunString(pageStubs)
	require.NoError(t, err)
	_, err = vm.RunString(mountScript(t, doc))
	require.NoError(t, err, "exceptions must not leave the mount script")
	return vm
}

func exported(t *testing.T, vm *goja.Runtime, name string) []string {
	t.Helper()
	var out []string
	require.NoError(t, vm.ExportTo(vm.Get(name), &out))
	return out
}

func TestMountContainsUndefinedIdentifier(t *testing.T) {
	vm := runMount(t, "export default function Broken() { return missingThing(); }", "Broken")

	caught := exported(t, vm, "caught")
	require.Len(t, caught, 1)
	assert.Contains(t, caught[0], "missingThing")
	assert.Empty(t, exported(t, vm, "rendered"))
}

func TestMountContainsCompileError(t *testing.T) {
	vm := runMount(t, "export default function Bad() { SYNTAX_ERROR }", "Bad")

	assert.Equal(t, []string{"Unexpected token"}, exported(t, vm, "caught"))
}

func TestMountReportsMissingEntry(t *testing.T) {
	vm := runMount(t, "const helper = 1;", "")

	assert.Equal(t, []string{"No component found to render"}, exported(t, vm, "caught"))
}

func TestMountRendersEntry(t *testing.T) {
	vm := runMount(t, "export default function Ok() { return useState ? \"ok\" : \"\"; }", "Ok")

	assert.Empty(t, exported(t, vm, "caught"))
	assert.Equal(t, []string{"ok"}, exported(t, vm, "rendered"))
}
