package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout 接口与数据库使用的日期格式
	DateLayout = "2006-01-02"
	// DisplayLayout 前端展示使用的日期格式
	DisplayLayout = "02/01/2006"
)

// Date 不含时间与时区的日历日期
// 接口与数据库统一使用 YYYY-MM-DD，展示使用 DD/MM/YYYY
type Date struct {
	t time.Time
}

// NewDate 构造指定年月日的日期
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf 截取 time.Time 的日期部分
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate 解析 YYYY-MM-DD，容忍前后空白
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("日期格式错误: %w", err)
	}
	return DateOf(t), nil
}

// ParseDisplayDate 解析 DD/MM/YYYY
func ParseDisplayDate(s string) (Date, error) {
	t, err := time.Parse(DisplayLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("日期格式错误: %w", err)
	}
	return DateOf(t), nil
}

// IsZero 是否为零值日期
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time 返回当天零点的 time.Time（UTC）
func (d Date) Time() time.Time {
	return d.t
}

// String 返回 YYYY-MM-DD
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// Display 返回 DD/MM/YYYY
func (d Date) Display() string {
	return d.t.Format(DisplayLayout)
}

// Equal 两个日期是否为同一天
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Before 是否早于 other
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After 是否晚于 other
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// MarshalJSON 零值序列化为 null
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON 接受 YYYY-MM-DD 或 null
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("日期格式错误: %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value 写库时传 YYYY-MM-DD 字符串，零值写 NULL
// 不能传 time.Time：MySQL 驱动会把 time.Time 参数按 DSN 的 loc 转换时区，
// 本地时区晚于 UTC 时 UTC 零点会落到前一天，DATE 列随之存错一天
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan 从数据库读取，兼容驱动返回的 time.Time / []byte / string
func (d *Date) Scan(value interface{}) error {
	if value == nil {
		*d = Date{}
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("无法将 %T 解析为日期", value)
	}
}

func (d *Date) scanString(s string) error {
	// DATETIME 列可能带时间部分，只取日期
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
