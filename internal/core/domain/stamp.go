package domain

// StampMap is the persisted build cache: for every output, the signature each
// input had the last time that output was successfully produced. Signatures
// are opaque strings here; the fs adapter computes them as content hashes.
type StampMap map[string]map[string]string

// Clone returns a deep copy of the map. Used by stores that hand the loaded
// cache to the single scheduling goroutine.
func (m StampMap) Clone() StampMap {
	out := make(StampMap, len(m))
	for output, inputs := range m {
		stamped := make(map[string]string, len(inputs))
		for in, sig := range inputs {
			stamped[in] = sig
		}
		out[output] = stamped
	}
	return out
}
