// internal/status/constants.go
package status

// Device Status Block layout constants.
// Offsets are byte offsets from the configured block address.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers in one status block.
const SlotsPerDevice = 20

// BlockSize is the block length in bytes.
const BlockSize = SlotsPerDevice * 2

// ---- FIELD OFFSETS ----

const OffsetHealthCode = 0

const OffsetLastErrorCode = 2

// OffsetSecondsInError holds the duration (in seconds) the device has been in error.
const OffsetSecondsInError = 4

// ---- RESERVED RANGE ----

// Bytes 6..21 are reserved for future use and written as zero.
const OffsetReservedStart = 6
const OffsetReservedEnd = 21

// ---- DEVICE NAME ----

// OffsetDeviceName is the first byte of the device name.
// The name fills registers 11..18; register 19 is unused and written as zero.
const OffsetDeviceName = 22

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- LIMITS ----

// MaxSecondsInError is where seconds_in_error saturates.
const MaxSecondsInError = 65535
