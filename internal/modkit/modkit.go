// Package modkit holds the shared wiring for modules: deps, options and the module contract
package modkit

import "tubeport/internal/modkit/module"

// Module is the contract HTTP modules implement
type Module = module.Module
