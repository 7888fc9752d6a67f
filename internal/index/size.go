package index

import (
	"math"
	"strconv"
	"strings"
)

var (
	decimalUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}
	binaryUnits  = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
)

// SizeToString formats a byte count for humans, e.g. "1.23 MB" or, with
// binary units, "1.17 MiB". At most two decimals are shown.
func SizeToString(size int64, binary bool) string {
	base, units := 1000.0, decimalUnits
	if binary {
		base, units = 1024.0, binaryUnits
	}
	if size < 0 {
		size = 0
	}
	if float64(size) < base {
		return strconv.FormatInt(size, 10) + " B"
	}

	num := float64(size)
	place := 0
	for num >= base && place < len(units)-1 {
		num /= base
		place++
	}
	// 999.999 KB prints as 1 MB rather than 1000 KB.
	if math.Round(num*100)/100 >= base && place < len(units)-1 {
		num /= base
		place++
	}

	s := strconv.FormatFloat(num, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s + " " + units[place]
}
