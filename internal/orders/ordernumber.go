package orders

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const defaultNumberPrefix = "NS"

// NumberGenerator returns the order number shared by every order in a batch.
type NumberGenerator func(now time.Time) string

// NewNumberGenerator formats numbers as <prefix><unix-ms><3-digit suffix>.
func NewNumberGenerator(prefix string) NumberGenerator {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultNumberPrefix
	}
	return func(now time.Time) string {
		return FormatOrderNumber(prefix, now, rand.IntN(1000))
	}
}

func FormatOrderNumber(prefix string, now time.Time, suffix int) string {
	return fmt.Sprintf("%s%d%03d", prefix, now.UnixMilli(), suffix%1000)
}
