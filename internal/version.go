package internal

// Version is the phonemask release, overridden at build time with
// -ldflags "-X codeberg.org/snonux/phonemask/internal.Version=...".
var Version = "0.3.0"
