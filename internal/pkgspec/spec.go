// Package pkgspec derives install specifiers for packages.
//
// An InstallSpec is the canonical "what package X should be / is" record
// shared by the lock manifest side and the installed side. Derivation
// consults the origin hint ("from" in the manifest, "_from" in an installed
// descriptor): registry hints collapse to "name@version", while git, path
// and tarball hints are authoritative and carried verbatim.
package pkgspec

// InstallSpec describes the desired or installed state of one package.
type InstallSpec struct {
	// Name is the package identifier, possibly with a namespace segment.
	Name string `json:"name"`

	// Version is the bare version the record carries.
	Version string `json:"version"`

	// Spec is the specifier compared between sides and passed to install.
	Spec string `json:"spec"`

	// Desc is the human-readable description used in status lines.
	Desc string `json:"desc"`

	// Resolved is an optional pinned locator preferred over Spec for repair.
	Resolved string `json:"resolved,omitempty"`
}

// InstallArg returns the argument to pass to the package manager.
func (s InstallSpec) InstallArg() string {
	if s.Resolved != "" {
		return s.Resolved
	}
	return s.Spec
}

// WarnFunc is called when an origin hint cannot be classified.
type WarnFunc func(name, from string, err error)

// Deriver builds InstallSpecs from raw manifest or descriptor fields.
type Deriver struct {
	// UseOriginHints enables origin-hint handling. When false every spec
	// reduces to "name@version".
	UseOriginHints bool

	// Warn receives unparsable origin hints. May be nil.
	Warn WarnFunc
}

// Derive returns the InstallSpec for a package. The resolved locator is only
// kept for non-registry origins; installed descriptors pass an empty one.
func (d Deriver) Derive(name, version, from, resolved string) InstallSpec {
	if d.UseOriginHints && from != "" {
		parsed, err := Classify(from)
		switch {
		case err != nil:
			if d.Warn != nil {
				d.Warn(name, from, err)
			}
		case !parsed.Kind.IsRegistry():
			return InstallSpec{
				Name:     name,
				Version:  version,
				Spec:     from,
				Desc:     version + " (" + from + ")",
				Resolved: resolved,
			}
		}
	}

	return InstallSpec{
		Name:    name,
		Version: version,
		Spec:    name + "@" + version,
		Desc:    version,
	}
}
