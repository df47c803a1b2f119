package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// TimestampLayout created_on 列的存储格式
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp 以 "YYYY-MM-DD HH:MM:SS"（UTC）字符串落库的时间，字典序即时间序
type Timestamp struct {
	time.Time
}

// NewTimestamp 截断到秒并转为 UTC
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Second)}
}

func (t Timestamp) String() string { return t.UTC().Format(TimestampLayout) }

func (t Timestamp) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case time.Time:
		t.Time = v.UTC()
		return nil
	default:
		return fmt.Errorf("model: cannot scan %T into Timestamp", src)
	}
}

func (t *Timestamp) parse(s string) error {
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("model: parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// GormDataType 固定为字符串列，与宿主平台表结构保持一致
func (Timestamp) GormDataType() string { return "varchar(19)" }
