package engine

import "errors"

var (
	// ErrManifest indicates the lock manifest is missing or malformed.
	ErrManifest = errors.New("cannot load lock manifest")

	// ErrModulesDir indicates the installed-packages directory cannot be listed.
	ErrModulesDir = errors.New("cannot list installed packages")
)
