package main

import (
	"os"

	"duststorm-setup/cmd"
)

// main is the program entry point. It delegates to cmd.Execute, which owns
// argument parsing, the interactive decision flow and the provisioning
// pipeline, and exits with whatever code Execute resolved.
//
// duststorm-setup bootstraps a Duststorm SDK development environment:
//   - Clones the SDK repository set (workspace, API libraries, level
//     templates) using the writable remotes when a permission probe
//     confirms access, the public mirrors otherwise
//   - Downloads and unpacks the packaged game build
//   - On Windows, installs the Visual Studio C++ toolchain (build tools
//     only or the full IDE) via the vendor's unattended installer
//   - On other hosts, prepares a 32-bit Wine prefix with the runtime
//     components and compiler redistributables the toolchain needs
//
// Every external failure is terminal: the tool does not retry or roll back,
// it reports the error and exits, leaving whatever was already provisioned
// in place.
func main() {
	os.Exit(cmd.Execute())
}
