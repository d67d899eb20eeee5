// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with the generic
helpers the revision tooling needs.
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
// A nil input yields an empty, non-nil slice so JSON renders [] rather than null.
func Map[T any, U any](input []T, transform func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Reversed returns a reversed copy of input.
func Reversed[T any](input []T) []T {
	result := make([]T, len(input))
	for i, v := range input {
		result[len(input)-1-i] = v
	}
	return result
}
