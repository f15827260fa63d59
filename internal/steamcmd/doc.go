// Package steamcmd downloads, installs, and drives Valve's SteamCMD binary.
//
// SteamCMD is treated as an opaque external tool: the package fetches the
// platform distributable from Valve's fixed URLs, invokes the binary with
// scripted directive batches, and scrapes structured results out of its
// console output. The output format is not a documented contract, so all
// marker matching lives in two narrow, independently testable functions
// (parseInfoBlock and classifyUpdateResult).
//
// SteamCMD takes an internal lock on its own cache files, so invocations
// against the same binary directory must not overlap. The Client serializes
// its own invocations with a file lock next to the binary directory;
// concurrent use from unrelated tooling is still unsafe.
package steamcmd
