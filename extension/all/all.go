// Package all imports all built-in docver extensions.
// Import this package to register all built-in commands.
package all

import (
	_ "github.com/jpl-au/docver/extension/core"
	_ "github.com/jpl-au/docver/extension/document"
	_ "github.com/jpl-au/docver/extension/notify"
	_ "github.com/jpl-au/docver/extension/vote"
)
