package wizard

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Args are the answers known before the wizard runs. Zero values are asked
// for; the pointer fields distinguish "no" from "not answered".
type Args struct {
	Name             string `toml:"name"`
	Type             string `toml:"type"`
	Template         string `toml:"template"`
	CreateRepo       *bool  `toml:"create_repo"`
	Owner            string `toml:"owner"`
	Visibility       string `toml:"visibility"`
	ShowsInWorkspace *bool  `toml:"shows_in_workspace"`
	// Yes accepts defaults instead of prompting.
	Yes bool `toml:"-"`
}

// ReadAnswers loads Args from a TOML file such as
//
//	name = "github_sync"
//	type = "core"
//	create_repo = true
//	owner = "my-org"
//	visibility = "private"
func ReadAnswers(path string) (Args, error) {
	var args Args
	md, err := toml.DecodeFile(path, &args)
	if err != nil {
		return Args{}, fmt.Errorf("failed to read answers from %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Args{}, fmt.Errorf("unknown answers in %s: %s", path, strings.Join(keys, ", "))
	}
	return args, nil
}

// Merge returns a with every answer set in over applied on top.
func (a Args) Merge(over Args) Args {
	if over.Name != "" {
		a.Name = over.Name
	}
	if over.Type != "" {
		a.Type = over.Type
	}
	if over.Template != "" {
		a.Template = over.Template
	}
	if over.CreateRepo != nil {
		a.CreateRepo = over.CreateRepo
	}
	if over.Owner != "" {
		a.Owner = over.Owner
	}
	if over.Visibility != "" {
		a.Visibility = over.Visibility
	}
	if over.ShowsInWorkspace != nil {
		a.ShowsInWorkspace = over.ShowsInWorkspace
	}
	a.Yes = a.Yes || over.Yes
	return a
}
