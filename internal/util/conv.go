package util

import (
	"strconv"
	"time"
)

// DayFormat 考勤日期、出生日期统一使用的格式
const DayFormat = "2006-01-02"

// MustParseUint 将路径参数转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseDay 解析 YYYY-MM-DD，得到 UTC 零点
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// TruncateToDay 截断任意时刻到 UTC 零点
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
