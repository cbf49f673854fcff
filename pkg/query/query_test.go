package query

import (
	"testing"

	"github.com/tablens/tablens/pkg/frame"
)

func TestSQLTypeMapping(t *testing.T) {
	cases := []struct {
		ft   frame.Type
		want string
	}{
		{frame.TypeString, "VARCHAR"},
		{frame.TypeInt, "BIGINT"},
		{frame.TypeFloat, "DOUBLE"},
		{frame.TypeBool, "BOOLEAN"},
		{frame.TypeTime, "TIMESTAMP"},
	}
	for _, tc := range cases {
		if got := sqlType(tc.ft); got != tc.want {
			t.Errorf("sqlType(%s) = %s, want %s", tc.ft, got, tc.want)
		}
	}
}

func TestFrameTypeMapping(t *testing.T) {
	cases := []struct {
		dbType string
		want   frame.Type
	}{
		{"BIGINT", frame.TypeInt},
		{"INTEGER", frame.TypeInt},
		{"DOUBLE", frame.TypeFloat},
		{"BOOLEAN", frame.TypeBool},
		{"TIMESTAMP", frame.TypeTime},
		{"VARCHAR", frame.TypeString},
		{"something-else", frame.TypeString},
	}
	for _, tc := range cases {
		if got := frameType(tc.dbType); got != tc.want {
			t.Errorf("frameType(%s) = %s, want %s", tc.dbType, got, tc.want)
		}
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent("plain"); got != `"plain"` {
		t.Errorf("quoteIdent(plain) = %s", got)
	}
	if got := quoteIdent(`with"quote`); got != `"with""quote"` {
		t.Errorf("embedded quote not doubled: %s", got)
	}
}

func TestScanValueBytes(t *testing.T) {
	if got := scanValue([]byte("abc")); got != "abc" {
		t.Errorf("scanValue([]byte) = %v, want abc", got)
	}
	if got := scanValue(int64(7)); got != int64(7) {
		t.Errorf("scanValue(int64) = %v, want 7", got)
	}
}
