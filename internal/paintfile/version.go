package paintfile

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is written to every document this package encodes.
const Version = "1.2"

var (
	transformedFormat = semver.MustParse(Version)
	nextFormat        = semver.MustParse("1.3")
)

type format int

const (
	formatLegacy format = iota // flat shape list, no transformations
	formatTransformed
)

// detectFormat maps the root version attribute onto a format. Documents
// without a version predate per-object transformations.
func detectFormat(version string) (format, error) {
	if version == "" {
		return formatLegacy, nil
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return 0, fmt.Errorf("%w: version %q: %v", ErrMalformed, version, err)
	}

	switch {
	case v.LessThan(transformedFormat):
		return formatLegacy, nil
	case v.LessThan(nextFormat):
		return formatTransformed, nil
	default:
		return 0, fmt.Errorf("%w: %s (newest readable is %s)", ErrUnsupportedVersion, version, Version)
	}
}
