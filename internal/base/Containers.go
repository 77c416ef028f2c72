package base

import "sort"

/***************************************
 * Generic slice helpers
 ***************************************/

func IndexOf[T comparable](match T, values ...T) (int, bool) {
	for i, x := range values {
		if x == match {
			return i, true
		}
	}
	return -1, false
}

func Contains[T comparable](values []T, match T) bool {
	_, ok := IndexOf(match, values...)
	return ok
}

func Map[IN any, OUT any](transform func(IN) OUT, in ...IN) []OUT {
	out := make([]OUT, len(in))
	for i, it := range in {
		out[i] = transform(it)
	}
	return out
}

func CopySlice[T any](in ...T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// AppendUniq appends values to a slice skipping those already present,
// preserving insertion order.
func AppendUniq[T comparable](slice []T, values ...T) []T {
	for _, v := range values {
		if !Contains(slice, v) {
			slice = append(slice, v)
		}
	}
	return slice
}

func SortedKeys[K comparable, V any](m map[K]V, less func(a, b K) bool) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys
}

/***************************************
 * Hashing
 ***************************************/

// Fnv1a is a 64-bit FNV-1a hash, used for cheap string fingerprints that don't
// need to be cryptographically strong (node-name bucketing).
func Fnv1a(s string, basis uint64) (h uint64) {
	const prime64 = 1099511628211
	h = basis
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

const fnvOffsetBasis64 = 14695981039346656037

// Fnv1a32 truncates the 64-bit FNV-1a hash to 32 bits, used for the node
// name-hash bucketing described by the node graph's data model.
func Fnv1a32(s string) uint32 {
	return uint32(Fnv1a(s, fnvOffsetBasis64))
}
