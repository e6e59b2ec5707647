// Package buildinfo carries the version stamped in with -ldflags, e.g.
// -X tripboard/internal/buildinfo.Version=v1.2.0.
package buildinfo

import "runtime/debug"

var (
    Version = "dev"
    Commit  = ""
    BuiltAt = ""
)

// Info returns the stamped values, falling back to the VCS settings the Go
// toolchain embeds when nothing was stamped.
func Info() map[string]string {
    info := map[string]string{
        "version": Version,
        "commit":  Commit,
        "builtAt": BuiltAt,
    }
    bi, ok := debug.ReadBuildInfo()
    if !ok { return info }
    info["go"] = bi.GoVersion
    for _, s := range bi.Settings {
        switch s.Key {
        case "vcs.revision":
            if info["commit"] == "" { info["commit"] = s.Value }
        case "vcs.time":
            if info["builtAt"] == "" { info["builtAt"] = s.Value }
        case "vcs.modified":
            if s.Value == "true" { info["dirty"] = "true" }
        }
    }
    return info
}
