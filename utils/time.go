package utils

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// FormatRelative 将时间格式化为相对描述，超过一年显示完整日期。
// 使用时间差的绝对值，未来时间同样按“多久以前”处理。
func FormatRelative(now, t time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}

	days := int(diff / day)
	switch {
	case days < 1:
		hours := int(diff / time.Hour)
		if hours < 1 {
			minutes := int(diff / time.Minute)
			if minutes < 1 {
				return "just now"
			}
			return plural(minutes, "minute")
		}
		return plural(hours, "hour")
	case days < 7:
		return plural(days, "day")
	case days < 30:
		return plural(days/7, "week")
	case days < 365:
		return plural(days/30, "month")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
