package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	return RunInit(root.Config, i.Force, os.Stdout)
}

// RunInit writes an example configuration to configPath.
func RunInit(configPath string, force bool, out io.Writer) error {
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Wrote configuration to %s\n", configPath)
	return nil
}
