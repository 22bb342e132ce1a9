// Package conv provides checked integer conversions.
//
// The cache file stores every length as a signed 32-bit prefix. These helpers
// keep the conversions between Go's int and the on-disk width explicit, so an
// oversized buffer or a negative length read from disk surfaces as an error
// instead of a silently wrapped value.
package conv
