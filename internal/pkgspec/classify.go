package pkgspec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
	"github.com/blang/semver/v4"
)

// ErrInvalidSpec indicates an origin hint that could not be classified.
var ErrInvalidSpec = errors.New("invalid package specifier")

// Kind is the shape of a package specifier.
type Kind int

const (
	// KindTag is a distribution tag such as "latest" or "beta".
	KindTag Kind = iota
	// KindVersion is an exact semantic version.
	KindVersion
	// KindRange is a semantic version range.
	KindRange
	// KindGit is a git locator: URL, scp-style address or hosted shortcut.
	KindGit
	// KindRemote is a tarball URL.
	KindRemote
	// KindFile is a tarball on the local filesystem.
	KindFile
	// KindDirectory is a local directory.
	KindDirectory
	// KindAlias is an "npm:" alias to another package.
	KindAlias
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindVersion:
		return "version"
	case KindRange:
		return "range"
	case KindGit:
		return "git"
	case KindRemote:
		return "remote"
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// IsRegistry reports whether specifiers of this kind resolve against the
// package registry.
func (k Kind) IsRegistry() bool {
	return k == KindTag || k == KindVersion || k == KindRange
}

// Parsed is a classified specifier.
type Parsed struct {
	// Raw is the input, trimmed.
	Raw string

	// Name is the package name, empty for bare locators.
	Name string

	// Spec is the part after the name ("1.2.3", "^1.0.0", a URL, ...).
	Spec string

	Kind Kind
}

var (
	namePattern    = regexp.MustCompile(`^(?:@?[A-Za-z0-9][\w.~-]*/)?[A-Za-z0-9_.~-][\w.~-]*$`)
	tagPattern     = regexp.MustCompile(`^[A-Za-z0-9\-_.!~*'()]+$`)
	schemePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)
	scpGitPattern  = regexp.MustCompile(`^[^@/\s]+@[^:/\s]+\.[^:\s]+:.+$`)
	winPathPattern = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

	hostedPrefixes = []string{"github:", "gitlab:", "bitbucket:", "gist:"}
	gitHosts       = []string{"github.com", "gitlab.com", "bitbucket.org", "gist.github.com"}
	tarballSuffix  = []string{".tgz", ".tar.gz", ".tar"}
)

// Classify determines the shape of an origin hint such as "colors@1.1.1",
// "bluebird@^3.5.0" or "git+https://github.com/foo/hello.git#abcdef".
// It returns an error wrapping ErrInvalidSpec when the name or the tag is
// malformed.
func Classify(raw string) (Parsed, error) {
	raw = strings.TrimSpace(raw)
	p := Parsed{Raw: raw}
	if raw == "" {
		return p, fmt.Errorf("%w: empty specifier", ErrInvalidSpec)
	}

	if isLocator(raw) {
		p.Spec = raw
		p.Kind = locatorKind(raw)
		return p, nil
	}

	p.Name, p.Spec = splitNameSpec(raw)
	if p.Spec == "" && strings.Contains(p.Name, "/") && !strings.HasPrefix(p.Name, "@") {
		// user/repo shorthand
		p.Kind = KindGit
		p.Spec = p.Name
		p.Name = ""
		return p, nil
	}
	if !namePattern.MatchString(p.Name) {
		return p, fmt.Errorf("%w: invalid package name %q", ErrInvalidSpec, p.Name)
	}

	kind, err := specKind(p.Spec)
	if err != nil {
		return p, err
	}
	p.Kind = kind
	return p, nil
}

// splitNameSpec splits "name@spec" and "@scope/name@spec".
func splitNameSpec(raw string) (name, spec string) {
	if strings.HasPrefix(raw, "@") {
		rest := raw[1:]
		if idx := strings.Index(rest, "@"); idx >= 0 {
			return raw[:idx+1], rest[idx+1:]
		}
		return raw, ""
	}
	if before, after, ok := strings.Cut(raw, "@"); ok {
		return before, after
	}
	return raw, ""
}

func specKind(spec string) (Kind, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return KindTag, nil
	}
	if strings.HasPrefix(spec, "npm:") {
		return KindAlias, nil
	}
	if isLocator(spec) {
		return locatorKind(spec), nil
	}
	if strings.Contains(spec, "/") {
		// user/repo shorthand
		return KindGit, nil
	}
	if isExactVersion(spec) {
		return KindVersion, nil
	}
	if _, err := mmsemver.NewConstraint(spec); err == nil {
		return KindRange, nil
	}
	if tagPattern.MatchString(spec) {
		return KindTag, nil
	}
	return KindTag, fmt.Errorf("%w: invalid tag name %q", ErrInvalidSpec, spec)
}

// isExactVersion accepts loose versions: a leading "v" or "=" is allowed.
func isExactVersion(spec string) bool {
	s := strings.TrimPrefix(spec, "=")
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	_, err := semver.Parse(s)
	return err == nil
}

// isLocator reports whether s is a path, URL or git address rather than a
// name or registry specifier.
func isLocator(s string) bool {
	if isFileSpec(s) || schemePattern.MatchString(s) || scpGitPattern.MatchString(s) {
		return true
	}
	if strings.HasPrefix(s, "git+") || strings.HasPrefix(s, "git:") {
		return true
	}
	for _, prefix := range hostedPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func isFileSpec(s string) bool {
	if s == "." || s == ".." || strings.HasPrefix(s, "file:") || winPathPattern.MatchString(s) {
		return true
	}
	for _, prefix := range []string{"./", "../", "/", "~/", `.\`, `..\`} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func locatorKind(s string) Kind {
	if isFileSpec(s) {
		if hasTarballSuffix(s) {
			return KindFile
		}
		return KindDirectory
	}
	if strings.HasPrefix(s, "git+") || strings.HasPrefix(s, "git:") || scpGitPattern.MatchString(s) {
		return KindGit
	}
	for _, prefix := range hostedPrefixes {
		if strings.HasPrefix(s, prefix) {
			return KindGit
		}
	}
	if hasTarballSuffix(s) {
		return KindRemote
	}
	base, _, _ := strings.Cut(s, "#")
	if strings.HasSuffix(base, ".git") {
		return KindGit
	}
	for _, host := range gitHosts {
		if strings.Contains(base, "://"+host+"/") {
			return KindGit
		}
	}
	return KindRemote
}

func hasTarballSuffix(s string) bool {
	base, _, _ := strings.Cut(s, "#")
	base, _, _ = strings.Cut(base, "?")
	for _, suffix := range tarballSuffix {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
