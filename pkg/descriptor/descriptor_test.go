package descriptor_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AidanDelaney/modgen/pkg/descriptor"
)

func TestDescriptor(t *testing.T) {
	spec.Run(t, "Descriptor", testDescriptor, spec.Report(report.Terminal{}))
}

func testDescriptor(t *testing.T, when spec.G, it spec.S) {
	when("#Marshal", func() {
		it("writes keys in a stable order without optional keys", func() {
			data, err := descriptor.New("plugins/github_sync", "plugin").Marshal()
			require.NoError(t, err)

			assert.Equal(t, `version: 0.0.1
folder_path: plugins/github_sync
type: plugin
requirements: []
`, string(data))
		})

		it("writes repo_url and shows_in_workspace when set", func() {
			d := descriptor.New("cores/github_sync", "core").
				WithShowsInWorkspace(true).
				WithRepoURL("https://github.com/my-org/github_sync")
			data, err := d.Marshal()
			require.NoError(t, err)

			assert.Equal(t, `version: 0.0.1
folder_path: cores/github_sync
type: core
requirements: []
shows_in_workspace: true
repo_url: https://github.com/my-org/github_sync
`, string(data))
		})

		it("ignores an empty repo url", func() {
			d := descriptor.New("utils/x", "util").WithRepoURL("")
			assert.Nil(t, d.RepoURL)
		})
	})

	when("#Parse", func() {
		it("round trips a descriptor", func() {
			d := descriptor.New("utils/x", "util").WithRepoURL("https://github.com/o/x")
			data, err := d.Marshal()
			require.NoError(t, err)

			parsed, err := descriptor.Parse(data)
			require.NoError(t, err)
			assert.Equal(t, d, parsed)
		})

		it("rejects an empty file", func() {
			_, err := descriptor.Parse([]byte("  \n"))
			require.Error(t, err)
		})

		it("reports missing keys", func() {
			_, err := descriptor.Parse([]byte("version: 0.0.1\ntype: util\n"))
			require.Error(t, err)

			var result *descriptor.ValidationResult
			require.True(t, errors.As(err, &result))
			assert.False(t, result.Valid)
			assert.NotEmpty(t, result.Issues)
		})

		it("rejects a non-semver version", func() {
			_, err := descriptor.Parse([]byte("version: one\nfolder_path: a\ntype: util\nrequirements: []\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "/version")
		})

		it("rejects a relative repo url", func() {
			_, err := descriptor.Parse([]byte("version: 0.0.1\nfolder_path: a\ntype: util\nrequirements: []\nrepo_url: github.com/o/a\n"))
			require.Error(t, err)
		})
	})

	when("#Validate", func() {
		it("accepts a new descriptor", func() {
			assert.NoError(t, descriptor.New("a", "b").Validate())
		})

		it("joins every problem", func() {
			err := descriptor.Descriptor{Version: "v1"}.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "version")
			assert.Contains(t, err.Error(), "folder_path")
			assert.Contains(t, err.Error(), "type")
		})
	})

	when("#Load", func() {
		it("reads init.yaml from a module directory", func() {
			dir := t.TempDir()
			data, err := descriptor.New("plugins/m", "plugin").Marshal()
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(filepath.Join(dir, descriptor.FileName), data, 0o644))

			d, err := descriptor.Load(dir)
			require.NoError(t, err)
			assert.Equal(t, "plugins/m", d.FolderPath)
			assert.Empty(t, d.Requirements)
			assert.NotNil(t, d.Requirements)
		})

		it("fails when the descriptor is missing", func() {
			_, err := descriptor.Load(t.TempDir())
			require.Error(t, err)
		})
	})
}
