// Package version holds the version, commit, and build date reported by
// `domainmate version`, injected at release time via ldflags. When ldflags
// are absent (e.g. a plain go install), an init function fills them from
// runtime/debug.BuildInfo so the binary still reports its module version and
// VCS metadata instead of the placeholder defaults.
package version
