package errors

// Common error codes used across domains
const (
	CodeNotFound       Code = "not_found"
	CodeInvalidRequest Code = "invalid_request"
	CodeMalformed      Code = "malformed"
	CodeUnavailable    Code = "unavailable"
	CodeInternal       Code = "internal_error"
)

// ============================================================================
// Validation Errors (user input)
// ============================================================================

var (
	// ErrMissingBuildID is returned when no build identifier argument is given
	ErrMissingBuildID = New(DomainValidation, CodeInvalidRequest,
		"Missing firmware build identifier")

	// ErrInvalidConfigMode is returned for an unknown --config mode
	ErrInvalidConfigMode = New(DomainValidation, CodeInvalidRequest,
		"Invalid config acquisition mode (expected module, proc or skip)")

	// ErrInvalidPrepMode is returned for an unknown --prep mode
	ErrInvalidPrepMode = New(DomainValidation, CodeInvalidRequest,
		"Invalid preparation mode (expected raspios or generic)")

	// ErrInvalidReleaseClass is returned for an unknown --release label
	ErrInvalidReleaseClass = New(DomainValidation, CodeInvalidRequest,
		"Invalid release class (expected v6, v7, v7l, v8 or 2712)")
)

// ============================================================================
// Firmware Errors (upstream data)
// ============================================================================

var (
	// ErrBadCommit is returned when the fetched commit hash is not a
	// 40-character lowercase hex string
	ErrBadCommit = New(DomainFirmware, "bad_commit",
		"Upstream commit hash is missing or malformed")

	// ErrNoReleases is returned when no architecture variant resolved
	// for the requested firmware build
	ErrNoReleases = New(DomainFirmware, "no_releases",
		"No kernel release found for this firmware build")

	// ErrResourceNotFound is returned when an upstream resource is absent
	ErrResourceNotFound = New(DomainFirmware, CodeNotFound,
		"Upstream resource not found")
)

// ============================================================================
// Release Errors
// ============================================================================

var (
	// ErrUnknownSuffix is returned for an architecture suffix outside the
	// closed enumeration
	ErrUnknownSuffix = New(DomainRelease, "unknown_suffix",
		"Unrecognized architecture suffix")

	// ErrDuplicateSuffix is returned when a release set already holds a
	// release for the same architecture suffix
	ErrDuplicateSuffix = New(DomainRelease, "duplicate_suffix",
		"Architecture suffix already present in release set")
)

// ============================================================================
// Toolchain Errors (environment)
// ============================================================================

var (
	// ErrUnsupportedArchPair is returned when no toolchain exists for a
	// host to target combination
	ErrUnsupportedArchPair = New(DomainToolchain, "unsupported_pair",
		"No toolchain for this host/target architecture pair")

	// ErrCrossCompilerMissing is returned when the cross compiler binary
	// cannot be located in PATH
	ErrCrossCompilerMissing = New(DomainToolchain, "compiler_missing",
		"Cross compiler not found in PATH")
)

// ============================================================================
// Fetch Errors (network)
// ============================================================================

var (
	// ErrDownloadFailed is returned when a download does not complete
	ErrDownloadFailed = New(DomainFetch, "download_failed",
		"Download failed")
)

// ============================================================================
// Build Errors
// ============================================================================

var (
	// ErrModulesPrepareFailed is returned when the kernel build system's
	// module preparation step exits non-zero
	ErrModulesPrepareFailed = New(DomainBuild, "modules_prepare_failed",
		"Kernel module preparation failed")
)
