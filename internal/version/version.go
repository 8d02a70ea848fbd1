package version

// Version is the release of the service, overridable at build time with
// -ldflags "-X github.com/alvmarrod/word-weaver/internal/version.Version=..."
var Version = "1.0.0"
