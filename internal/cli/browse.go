package cli

import (
	"github.com/johanforsgren/repobrowser/internal/ui"
)

// BrowseCmd starts the TUI.
type BrowseCmd struct{}

func (b *BrowseCmd) Run(cli *CLI) error {
	return ui.Run(cli.Context(), cli.Container.Controllers())
}
