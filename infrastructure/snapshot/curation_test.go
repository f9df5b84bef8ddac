package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsbench/corpusctl/domain"
	"github.com/tsbench/corpusctl/infrastructure/snapshot"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("should return unknown for a missing manifest", func(t *testing.T) {
		t.Parallel()

		// when
		cur := snapshot.Classify(nil)

		// then
		assert.Equal(t, domain.KindUnknown, cur.Kind)
		assert.False(t, cur.Tests)
		assert.False(t, cur.Monorepo)
		assert.Empty(t, cur.Notes)
	})

	t.Run("should return unknown for an unparsable manifest", func(t *testing.T) {
		t.Parallel()

		// when
		cur := snapshot.Classify([]byte("{not json"))

		// then
		assert.Equal(t, domain.KindUnknown, cur.Kind)
	})

	t.Run("should classify a framework by dependency signal", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte(`{
			"name": "my-site",
			"dependencies": {"next": "^14.0.0", "react": "^18.0.0"}
		}`)

		// when
		cur := snapshot.Classify(manifest)

		// then
		assert.Equal(t, domain.KindFramework, cur.Kind)
	})

	t.Run("should classify a framework by name", func(t *testing.T) {
		t.Parallel()

		// when
		cur := snapshot.Classify([]byte(`{"name": "nestjs-core"}`))

		// then
		assert.Equal(t, domain.KindFramework, cur.Kind)
	})

	t.Run("should classify a private package with app scripts as an app", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte(`{
			"name": "internal-dashboard",
			"private": true,
			"scripts": {"dev": "vite", "build": "vite build"}
		}`)

		// when
		cur := snapshot.Classify(manifest)

		// then
		assert.Equal(t, domain.KindApp, cur.Kind)
	})

	t.Run("should default to library", func(t *testing.T) {
		t.Parallel()

		// when
		cur := snapshot.Classify([]byte(`{"name": "left-pad"}`))

		// then
		assert.Equal(t, domain.KindLibrary, cur.Kind)
	})

	t.Run("should detect tests from a script or a runner dependency", func(t *testing.T) {
		t.Parallel()

		// given
		withScript := []byte(`{"name": "a", "scripts": {"test": "jest"}}`)
		withDep := []byte(`{"name": "b", "devDependencies": {"vitest": "^1.0.0"}}`)
		without := []byte(`{"name": "c"}`)

		// when / then
		assert.True(t, snapshot.Classify(withScript).Tests)
		assert.True(t, snapshot.Classify(withDep).Tests)
		assert.False(t, snapshot.Classify(without).Tests)
	})

	t.Run("should detect a monorepo from workspaces", func(t *testing.T) {
		t.Parallel()

		// given both array and object workspace declarations
		asArray := []byte(`{"name": "m", "workspaces": ["packages/*"]}`)
		asObject := []byte(`{"name": "m", "workspaces": {"packages": ["packages/*"]}}`)

		// when / then
		assert.True(t, snapshot.Classify(asArray).Monorepo)
		assert.True(t, snapshot.Classify(asObject).Monorepo)
	})

	t.Run("should note tests and monorepo", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := []byte(`{
			"name": "m",
			"workspaces": ["packages/*"],
			"devDependencies": {"jest": "^29.0.0"}
		}`)

		// when
		cur := snapshot.Classify(manifest)

		// then
		assert.Equal(t, []string{"tests", "monorepo"}, cur.Notes)
	})
}
