/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go handles extension initialisation and command registration.
//
// Extensions register during init() but aren't initialised until first
// command execution, so they can declare commands before a repository
// exists. The service is created once and shared through the Context.

package cmd

import (
	"fmt"
	"sync"

	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/config"
	"github.com/jpl-au/docver/internal/document"
	"github.com/jpl-au/docver/internal/log"
)

// noStoreCommands lists commands that bypass automatic store initialisation.
// Built from bootstrap commands plus extension-declared storeless commands.
var noStoreCommands map[string]bool

// buildNoStoreCommands creates the set of commands that skip store
// initialisation: the bootstrap commands that must work before "docver
// init", and commands extensions declare through extension.Storeless.
func buildNoStoreCommands() map[string]bool {
	cmds := map[string]bool{
		"init":   true,
		"guide":  true,
		"config": true,
		"help":   true,
	}

	for _, ext := range extension.All() {
		if s, ok := ext.(extension.Storeless); ok {
			for _, name := range s.NoStoreCommands() {
				cmds[name] = true
			}
		}
	}

	return cmds
}

// Global extension context, created during initialisation.
var (
	extContext extension.Context
	extService *document.Service
	initOnce   sync.Once
	initErr    error
)

// initExtensions opens the document service and hands it to extensions.
// repo.ErrNotInitialised surfaces here for users who have not run
// "docver init".
func initExtensions() error {
	initOnce.Do(func() {
		svc, err := document.New(DB(), Dir())
		if err != nil {
			initErr = fmt.Errorf("opening database: %w", err)
			return
		}
		extService = svc

		log.SetProject(svc.Paths().Root)

		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}
		extContext = extension.NewContext(svc, svc.DB(), cfg)
		svc.SetExtensionContext(extContext)

		initErr = extension.InitAll(extContext)
	})
	return initErr
}

// Context returns the extension context created for the current command,
// or nil for storeless commands.
func Context() extension.Context { return extContext }

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
// Called once before Execute runs.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}

		noStoreCommands = buildNoStoreCommands()
	})
}
