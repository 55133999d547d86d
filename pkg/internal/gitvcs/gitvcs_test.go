package gitvcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGit(t *testing.T) {
	spec.Run(t, "Git", testGit, spec.Report(report.Terminal{}))
}

func testGit(t *testing.T, when spec.G, it spec.S) {
	var (
		ctx  context.Context
		vcs  *Git
		dest string
	)

	it.Before(func() {
		ctx = context.Background()
		vcs = New(WithAuthor("Test", "test@example.com"))
		vcs.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
		dest = filepath.Join(t.TempDir(), "module")
		require.NoError(t, os.Mkdir(dest, 0o755))
	})

	when("the template is a local directory", func() {
		var template string

		it.Before(func() {
			template = t.TempDir()
			writeFile(t, filepath.Join(template, "main.py"), "print('hi')\n")
			writeFile(t, filepath.Join(template, "vendor", "lib", "x.py"), "")
			_, err := git.PlainInit(template, false)
			require.NoError(t, err)
			_, err = git.PlainInit(filepath.Join(template, "vendor", "lib"), false)
			require.NoError(t, err)
		})

		it("copies the content", func() {
			require.NoError(t, vcs.Clone(ctx, template, dest))

			assert.FileExists(t, filepath.Join(dest, "main.py"))
			assert.FileExists(t, filepath.Join(dest, "vendor", "lib", "x.py"))
			assert.DirExists(t, filepath.Join(dest, HistoryDir))
		})

		it("strips only the root history", func() {
			require.NoError(t, vcs.Clone(ctx, template, dest))
			require.NoError(t, vcs.StripHistory(dest))

			assert.NoDirExists(t, filepath.Join(dest, HistoryDir))
			assert.DirExists(t, filepath.Join(dest, "vendor", "lib", HistoryDir))
			assert.DirExists(t, filepath.Join(template, HistoryDir))
		})
	})

	when("the remote cannot be reached", func() {
		it("returns the clone error", func() {
			err := vcs.Clone(ctx, "http://127.0.0.1:1/template.git", dest)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to clone")
		})
	})

	when("stripping a directory without history", func() {
		it("succeeds", func() {
			assert.NoError(t, vcs.StripHistory(dest))
		})
	})

	when("#PushInitialCommit", func() {
		it.Before(func() {
			writeFile(t, filepath.Join(dest, "init.yaml"), "version: 0.0.1\n")
			writeFile(t, filepath.Join(dest, "README.md"), "# module\n")
		})

		it("commits everything on main before pushing", func() {
			err := vcs.PushInitialCommit(ctx, dest, "http://127.0.0.1:1/module.git")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to push")

			repo, err := git.PlainOpen(dest)
			require.NoError(t, err)

			head, err := repo.Head()
			require.NoError(t, err)
			assert.Equal(t, plumbing.Main, head.Name())

			commit, err := repo.CommitObject(head.Hash())
			require.NoError(t, err)
			assert.Equal(t, initialCommitMessage, commit.Message)
			assert.Equal(t, "Test", commit.Author.Name)

			files, err := commit.Files()
			require.NoError(t, err)
			var names []string
			require.NoError(t, files.ForEach(func(f *object.File) error {
				names = append(names, f.Name)
				return nil
			}))
			assert.ElementsMatch(t, []string{"init.yaml", "README.md"}, names)

			remote, err := repo.Remote(RemoteName)
			require.NoError(t, err)
			assert.Equal(t, []string{"http://127.0.0.1:1/module.git"}, remote.Config().URLs)
		})
	})

	when("choosing credentials", func() {
		it("uses the token for https remotes", func() {
			auth := New(WithToken("secret")).auth("https://github.com/o/r")
			basic, ok := auth.(*http.BasicAuth)
			require.True(t, ok)
			assert.Equal(t, "secret", basic.Password)
		})

		it("sends nothing without a token", func() {
			assert.Nil(t, New().auth("https://github.com/o/r"))
		})

		it("sends nothing for local paths", func() {
			assert.Nil(t, New(WithToken("secret")).auth("/tmp/template"))
		})
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
