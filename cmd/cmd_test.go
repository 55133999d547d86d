package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	modgen "github.com/AidanDelaney/modgen/pkg"
	"github.com/AidanDelaney/modgen/pkg/config"
	"github.com/AidanDelaney/modgen/pkg/descriptor"
)

func TestCommands(t *testing.T) {
	spec.Run(t, "Commands", testCommands, spec.Report(report.Terminal{}))
}

func testCommands(t *testing.T, when spec.G, it spec.S) {
	var (
		root   string
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	)

	it.Before(func() {
		root = t.TempDir()
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
		t.Setenv("MODGEN_DATA_ROOT", "")
		t.Setenv("MODGEN_GITHUB_TOKEN", "")
	})

	run := func(args ...string) error {
		rootCmd := NewRootCommand()
		rootCmd.SetOut(stdout)
		rootCmd.SetErr(stderr)
		rootCmd.SetArgs(append([]string{"--" + projectRootFlag, root}, args...))
		return rootCmd.ExecuteContext(context.Background())
	}

	when("listing", func() {
		it("shows the module types", func() {
			require.NoError(t, run("types"))
			for _, name := range []string{"core", "manager", "mcp", "plugin", "util"} {
				assert.Contains(t, stdout.String(), name)
			}
			assert.Contains(t, stdout.String(), "dir=mcps")
		})

		it("explains an empty catalog", func() {
			require.NoError(t, run("templates"))
			assert.Contains(t, stdout.String(), "No templates")
		})
	})

	when("initializing a project", func() {
		it("writes the catalog and project config once", func() {
			require.NoError(t, run("init"))
			assert.FileExists(t, filepath.Join(root, config.LocalConfigFile))
			assert.FileExists(t, filepath.Join(root, "project", "data", "module_creator", config.CatalogFile))

			stdout.Reset()
			require.NoError(t, run("init"))
			assert.Contains(t, stdout.String(), "Nothing to do")
		})
	})

	when("creating a module", func() {
		it("creates a local module without prompting", func() {
			require.NoError(t, run("create", "Weather", "--type", "plugin", "--no-repo", "--yes"))

			path := filepath.Join(root, "plugins", "weather")
			assert.Contains(t, stdout.String(), path)
			d, err := descriptor.Load(path)
			require.NoError(t, err)
			assert.Equal(t, "plugins/weather", d.FolderPath)
			assert.Nil(t, d.RepoURL)
		})

		it("reads answers from a file", func() {
			answers := filepath.Join(t.TempDir(), "answers.toml")
			require.NoError(t, os.WriteFile(answers, []byte("name = \"notes\"\ntype = \"mcp\"\ncreate_repo = false\n"), 0o644))

			require.NoError(t, run("create", "--answers", answers, "--yes"))
			assert.FileExists(t, filepath.Join(root, "mcps", "notes", "notes.py"))
		})

		it("reports a path conflict", func() {
			require.NoError(t, run("create", "weather", "--type", "plugin", "--no-repo", "--yes"))

			err := run("create", "weather", "--type", "plugin", "--no-repo", "--yes")
			require.ErrorIs(t, err, modgen.ErrPathConflict)
			assert.Contains(t, stderr.String(), "move the existing directory")
		})

		it("rejects contradictory repository flags", func() {
			err := run("create", "weather", "--type", "plugin", "--repo", "--no-repo", "--yes")
			require.Error(t, err)
			assert.NoDirExists(t, filepath.Join(root, "plugins"))
		})
	})

	when("validating a module", func() {
		it("accepts a created module", func() {
			require.NoError(t, run("create", "weather", "--type", "util", "--no-repo", "--yes"))
			stdout.Reset()

			require.NoError(t, run("validate", filepath.Join(root, "utils", "weather")))
			assert.Contains(t, stdout.String(), "is valid")
		})

		it("lists schema issues", func() {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, descriptor.FileName), []byte("version: one\nfolder_path: x\n"), 0o644))

			require.Error(t, run("validate", dir))
			assert.NotEmpty(t, stderr.String())
		})
	})
}
