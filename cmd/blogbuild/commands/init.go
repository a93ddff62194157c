package commands

import (
	"fmt"
	"path/filepath"

	"github.com/KamilPietrzak/blogbuild/internal/config"
)

// InitCmd writes a commented example configuration file.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file."`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		prelim, err := root.preliminaryRoot()
		if err != nil {
			return err
		}
		path = filepath.Join(prelim, config.FileName)
	}

	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
