// Package common holds small helpers shared by client packages.
package common

// WipeByteArray overwrites b with zeros so secrets such as passwords do not
// linger in memory after use. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// WipeAll wipes every given slice.
func WipeAll(bs ...[]byte) {
	for _, b := range bs {
		WipeByteArray(b)
	}
}
