package analyzer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsbench/corpusctl/infrastructure/analyzer"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func TestCounter_Count(t *testing.T) {
	t.Parallel()

	t.Run("should bucket non-blank lines by language family", func(t *testing.T) {
		t.Parallel()

		// given
		root := writeTree(t, map[string]string{
			"src/index.ts":    "import x from './x';\n\nexport const a = 1;\n",
			"src/types.d.ts":  "declare module 'x';\n",
			"src/widget.tsx":  "export const W = () => null;\n",
			"lib/legacy.js":   "var a = 1;\nvar b = 2;\n",
			"lib/widget.jsx":  "export default null;\n",
			"scripts/gen.py":  "print('hi')\n",
			"package.json":    "{\n  \"name\": \"x\"\n}\n",
			"docs/README.md":  "# ignored entirely\n",
			"assets/logo.txt": "also ignored\n",
		})

		// when
		counts, err := analyzer.NewCounter().Count(root)

		// then
		require.NoError(t, err)
		assert.Equal(t, 4, counts.TypeScript) // index.ts 2 + types.d.ts 1 + widget.tsx 1
		assert.Equal(t, 3, counts.JavaScript)
		assert.Equal(t, 4, counts.Other) // gen.py 1 + package.json 3
		assert.Equal(t, counts.TypeScript+counts.JavaScript+counts.Other, counts.Total)
	})

	t.Run("should count whitespace-only lines as blank", func(t *testing.T) {
		t.Parallel()

		// given
		root := writeTree(t, map[string]string{
			"blank.ts": "   \n\t\n  \t  \n",
		})

		// when
		counts, err := analyzer.NewCounter().Count(root)

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, counts.TypeScript)
		assert.Equal(t, 0, counts.Total)
	})

	t.Run("should count a final line without a trailing newline", func(t *testing.T) {
		t.Parallel()

		// given
		root := writeTree(t, map[string]string{
			"tail.ts": "const a = 1;\nconst b = 2;",
		})

		// when
		counts, err := analyzer.NewCounter().Count(root)

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, counts.TypeScript)
	})

	t.Run("should prune infrastructure directories before descending", func(t *testing.T) {
		t.Parallel()

		// given
		root := writeTree(t, map[string]string{
			"src/app.ts":                  "export {};\n",
			"node_modules/dep/index.js":   "huge();\n",
			"dist/bundle.js":              "minified();\n",
			"coverage/lcov.info.js":       "ignored();\n",
			".git/hooks/pre-commit.sh":    "echo no\n",
			".venv/lib/site.py":           "print()\n",
			"packages/a/node_modules/x.ts": "nested();\n",
		})

		// when
		counts, err := analyzer.NewCounter().Count(root)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, counts.TypeScript)
		assert.Equal(t, 0, counts.JavaScript)
		assert.Equal(t, 0, counts.Other)
	})

	t.Run("should skip known binary extensions", func(t *testing.T) {
		t.Parallel()

		// given
		root := writeTree(t, map[string]string{
			"logo.png":  "not really a png\n",
			"font.woff": "not really a font\n",
			"app.ts":    "export {};\n",
		})

		// when
		counts, err := analyzer.NewCounter().Count(root)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, counts.Total)
	})

	t.Run("should exclude files above the size ceiling", func(t *testing.T) {
		t.Parallel()

		// given a spoofed text extension on an oversized blob
		root := writeTree(t, map[string]string{
			"vendored.ts": "line1\nline2\nline3\n",
			"small.ts":    "ok\n",
		})
		counter := analyzer.NewCounter()
		counter.SizeCeiling = 4

		// when
		counts, err := counter.Count(root)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, counts.TypeScript)
	})

	t.Run("should tolerate invalid bytes in included files", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(root, "weird.ts"),
			[]byte{0xff, 0xfe, 'a', '\n', '\n', 'b', '\n'},
			0o644,
		))

		// when
		counts, err := analyzer.NewCounter().Count(root)

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, counts.TypeScript)
	})

	t.Run("should fail only when the root itself is unreadable", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := analyzer.NewCounter().Count(filepath.Join(t.TempDir(), "missing"))

		// then
		require.Error(t, err)
	})

	t.Run("should be deterministic for a fixed tree", func(t *testing.T) {
		t.Parallel()

		// given
		root := writeTree(t, map[string]string{
			"a.ts": "one\ntwo\n",
			"b.js": "three\n",
			"c.go": "four\n",
		})
		counter := analyzer.NewCounter()

		// when
		first, err := counter.Count(root)
		require.NoError(t, err)
		second, err := counter.Count(root)
		require.NoError(t, err)

		// then
		assert.Equal(t, first, second)
	})
}
