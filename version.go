package primset

// BinaryGitHash is the Git hash of the primset binary file which is executing.
// It is set during the build through -ldflags "-X".
var BinaryGitHash = "<unknown>"

// BinaryVersion is primset's API version.
const BinaryVersion = 1
