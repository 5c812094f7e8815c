package models

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"gorm.io/gorm/schema"
)

// SQLDateTimeLayout is the text form of persisted statement dates, the one generated SQL
// compares against.
const SQLDateTimeLayout = "2006-01-02 15:04:05"

// SQLDateTimeSerializer is registered with gorm as "sqldatetime". It writes a time.Time
// field as SQLDateTimeLayout text so the stored value carries no zone or fraction, and it
// reads back either that text or a driver-converted time.
type SQLDateTimeSerializer struct{}

func init() {
	schema.RegisterSerializer("sqldatetime", SQLDateTimeSerializer{})
}

// Scan implements schema.SerializerInterface.
func (SQLDateTimeSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	var t time.Time
	switch v := dbValue.(type) {
	case nil:
		return nil
	case time.Time:
		t = v
	case string:
		parsed, err := ParseSQLDateTime(v)
		if err != nil {
			return err
		}
		t = parsed
	case []byte:
		parsed, err := ParseSQLDateTime(string(v))
		if err != nil {
			return err
		}
		t = parsed
	default:
		return fmt.Errorf("unsupported date value %T", dbValue)
	}
	return field.Set(ctx, dst, t)
}

// Value implements schema.SerializerValuerInterface.
func (SQLDateTimeSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	switch v := fieldValue.(type) {
	case time.Time:
		if v.IsZero() {
			return nil, nil
		}
		return v.Format(SQLDateTimeLayout), nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil, nil
		}
		return v.Format(SQLDateTimeLayout), nil
	default:
		return nil, fmt.Errorf("unsupported date field %T", fieldValue)
	}
}

var sqlDateTimeLayouts = []string{SQLDateTimeLayout, "2006-01-02", time.RFC3339Nano, "2006-01-02 15:04:05-07:00"}

// ParseSQLDateTime parses a stored date, accepting the persisted layout as well as a bare
// day and the zoned forms older tables may hold.
func ParseSQLDateTime(value string) (time.Time, error) {
	for _, layout := range sqlDateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid stored date %q", value)
}
