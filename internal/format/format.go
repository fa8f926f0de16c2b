// Package format renders byte sizes, timestamps and counts for the dashboard tables.
package format

import (
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

var printer = message.NewPrinter(language.English)

// Bytes formats a byte count using 1024-based units with at most decimals
// fractional digits, trailing zeros trimmed: 1536 -> "1.5 KB".
func Bytes(n int64, decimals int) string {
	if n == 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}

	sign := ""
	v := float64(n)
	if v < 0 {
		sign = "-"
		v = -v
	}

	i := int(math.Floor(math.Log(v) / math.Log(1024)))
	i = min(max(i, 0), len(sizeUnits)-1)

	scaled := v / math.Pow(1024, float64(i))
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(scaled, 'f', decimals, 64), 64)
	return sign + strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[i]
}

// DateTime formats t as "Jan 2, 2006 at 15:04hrs". The zero time yields
// "Invalid date input".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return "Invalid date input"
	}
	return t.Format("Jan 2, 2006 at 15:04") + "hrs"
}

// Count formats an item count with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}
