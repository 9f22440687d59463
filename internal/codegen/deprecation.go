package codegen

import (
	"strings"

	"github.com/go-logr/logr"
)

const deprecatedRootMessage = `********************************************************************************
The root_dir setting is deprecated and will be removed in a future version.
The setting is currently ignored.

You should instead use either:
- project_dir to point to your root project (where the manifest lives)
- framework_dir to point to the framework package

You should be fine by just removing the root_dir line entirely from your
configuration. Otherwise a valid configuration would look like:

  project_dir: ..
  framework_dir: ../node_modules/react-native
********************************************************************************`

// CheckDeprecated logs a single warning when the retired root setting is set.
// It never fails and never changes the task's behavior. It reports whether a
// warning was emitted.
func CheckDeprecated(cfg TaskConfig, logger logr.Logger) bool {
	if strings.TrimSpace(cfg.DeprecatedRoot) == "" {
		return false
	}
	// Logged at error severity so it is visible at every verbosity.
	logger.Error(nil, deprecatedRootMessage, "setting", "root_dir", "value", cfg.DeprecatedRoot)
	return true
}
