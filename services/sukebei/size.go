package sukebei

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Size cells may separate number and unit with a non-breaking space.
	reSize = regexp.MustCompile(`(?i)^([\d.]+)[\s\x{00A0}]*([KMGT]?i?B)$`)
	// Leading numeric portion of the captured digits, so "1.2.3" reads as 1.2.
	reSizeNumber = regexp.MustCompile(`^(\d*\.\d+|\d+\.?)`)
)

var sizeMultipliers = map[string]float64{
	"B":   1,
	"KB":  1e3,
	"MB":  1e6,
	"GB":  1e9,
	"TB":  1e12,
	"KIB": 1024,
	"MIB": 1024 * 1024,
	"GIB": 1024 * 1024 * 1024,
	"TIB": 1024 * 1024 * 1024 * 1024,
}

// ParseSize converts a human readable size such as "1.5 GiB" into bytes.
// Unrecognized input yields 0. A unit of the right shape that is not in the
// table (for example "iB") counts as bytes.
func ParseSize(text string) int64 {
	match := reSize.FindStringSubmatch(strings.TrimSpace(text))
	if len(match) != 3 {
		return 0
	}

	number := reSizeNumber.FindString(match[1])
	if number == "" {
		return 0
	}
	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0
	}

	mult, ok := sizeMultipliers[strings.ToUpper(match[2])]
	if !ok {
		mult = 1
	}

	bytes := math.Floor(value * mult)
	if bytes <= 0 || math.IsInf(bytes, 0) || bytes > math.MaxInt64 {
		return 0
	}
	return int64(bytes)
}
