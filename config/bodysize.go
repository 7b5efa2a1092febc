package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	minBodySizeLimit int64 = 1024
	maxBodySizeLimit int64 = 100 * 1024 * 1024
)

var bodySizePattern = regexp.MustCompile(`^(\d+)([KkMm][Bb]?)?$`)

// ParseBodySizeLimit converts "10M", "512K", "1048576" and similar to bytes.
// An empty value yields DefaultBodySizeLimit.
func ParseBodySizeLimit(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultBodySizeLimit, nil
	}
	m := bodySizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid body size limit %q: use a number optionally followed by K, KB, M or MB", s)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid body size limit %q: %w", s, err)
	}
	switch strings.TrimSuffix(strings.ToUpper(m[2]), "B") {
	case "K":
		n *= 1024
	case "M":
		n *= 1024 * 1024
	}
	if n < minBodySizeLimit || n > maxBodySizeLimit {
		return 0, fmt.Errorf("body size limit %q out of range: must be between 1K and 100M", s)
	}
	return n, nil
}

// ValidateBodySizeLimit reports whether s is an acceptable body size limit.
func ValidateBodySizeLimit(s string) error {
	_, err := ParseBodySizeLimit(s)
	return err
}
