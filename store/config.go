package store

import (
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/ini.v1"

	"github.com/kbolino/mingit/giterrors"
	"github.com/kbolino/mingit/internal/gitpath"
)

// Config key names for the single [core] section the engine writes.
const (
	cfgCoreSection          = "core"
	cfgCoreFormatVersion    = "repositoryformatversion"
	cfgCoreFileMode         = "filemode"
	cfgCoreBare             = "bare"
	cfgCoreLogAllRefUpdates = "logallrefupdates"
)

// WriteDefaultConfig writes the default .git/config INI document
// described in §3 to dotGitPath/config.
func WriteDefaultConfig(fs afero.Fs, dotGitPath string) error {
	cfg := ini.Empty()
	core, err := cfg.NewSection(cfgCoreSection)
	if err != nil {
		return giterrors.Wrap(giterrors.FilesystemError, err, "could not create [core] section")
	}
	values := map[string]string{
		cfgCoreFormatVersion:    "0",
		cfgCoreFileMode:         "true",
		cfgCoreBare:             "false",
		cfgCoreLogAllRefUpdates: "true",
	}
	for k, v := range values {
		if _, err := core.NewKey(k, v); err != nil {
			return giterrors.Wrap(giterrors.FilesystemError, err, "could not set core.%s", k)
		}
	}

	p := filepath.Join(dotGitPath, gitpath.ConfigPath)
	w, err := fs.Create(p)
	if err != nil {
		return giterrors.Wrap(giterrors.FilesystemError, err, "could not create %s", p)
	}
	defer w.Close()

	if _, err := cfg.WriteTo(w); err != nil {
		return giterrors.Wrap(giterrors.FilesystemError, err, "could not write %s", p)
	}
	return nil
}
