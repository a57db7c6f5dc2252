package table

import (
	"strconv"
	"strings"
	"time"
)

type dateKey struct {
	t  time.Time
	ok bool
}

// parseDayFirst parses D.M.YYYY text. Anything else is reported as not ok
// and sorts before every real date.
func parseDayFirst(s string) dateKey {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return dateKey{}
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return dateKey{}
		}
		nums[i] = n
	}
	return dateKey{
		t:  time.Date(nums[2], time.Month(nums[1]), nums[0], 0, 0, 0, 0, time.UTC),
		ok: true,
	}
}

func (a dateKey) compare(b dateKey) int {
	switch {
	case !a.ok && !b.ok:
		return 0
	case !a.ok:
		return -1
	case !b.ok:
		return 1
	}
	return a.t.Compare(b.t)
}
