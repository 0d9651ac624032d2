package types

// Version is the canonical project version.
// The CLI, the library and the adapter event contract share this version.
const Version = "0.3.0"

// ContractVersion is the adapter event contract version.
// Lockstep with Version.
const ContractVersion = Version
