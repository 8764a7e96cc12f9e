package constants

// Version is stamped at build time with -ldflags "-X .../constants.Version=...".
var Version = "v1.0.0-dev"

// ToolName appears in report footers and the CLI banner.
const ToolName = "File Analyzer Tool"
