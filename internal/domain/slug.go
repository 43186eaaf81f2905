package domain

import "crypto/rand"

// SlugLength is the fixed length of public share slugs.
const SlugLength = 8

// slugAlphabet is URL-safe: no escaping needed in /share/{slug}.
const slugAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxUnbiased is the largest multiple of len(slugAlphabet) that fits in a
// byte. Bytes at or above it are rejected so every character is equally likely.
const maxUnbiased = 256 - 256%len(slugAlphabet)

// NewSlug generates a random URL-safe identifier for a public collection.
// Called at most once per collection; the result is immutable afterwards.
func NewSlug() (string, error) {
	out := make([]byte, 0, SlugLength)
	buf := make([]byte, SlugLength)
	for {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, c := range buf {
			if int(c) >= maxUnbiased {
				continue
			}
			out = append(out, slugAlphabet[int(c)%len(slugAlphabet)])
			if len(out) == SlugLength {
				return string(out), nil
			}
		}
	}
}
