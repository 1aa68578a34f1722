package opts

import (
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/status"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config     *config.Config
	Manager    *status.Manager
	UserLogger *status.UserLogger

	// Flag overrides applied on top of the config
	DryRun bool
	Strict bool
}
