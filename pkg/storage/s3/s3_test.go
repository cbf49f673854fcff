package s3

import "testing"

func TestParseURL(t *testing.T) {
	cases := []struct {
		raw         string
		bucket, key string
		wantErr     bool
	}{
		{"s3://bucket/data.csv", "bucket", "data.csv", false},
		{"s3://bucket/nested/path/data.parquet", "bucket", "nested/path/data.parquet", false},
		{"s3://bucket", "", "", true},
		{"s3://bucket/", "", "", true},
		{"s3:///key", "", "", true},
		{"/local/path.csv", "", "", true},
		{"https://example.com/data.csv", "", "", true},
	}

	for _, tc := range cases {
		bucket, key, err := ParseURL(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseURL(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseURL(%q): %v", tc.raw, err)
			continue
		}
		if bucket != tc.bucket || key != tc.key {
			t.Errorf("ParseURL(%q) = %q, %q, want %q, %q", tc.raw, bucket, key, tc.bucket, tc.key)
		}
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("s3://bucket/key") {
		t.Error("s3 URL not detected")
	}
	if IsURL("/local/file.csv") {
		t.Error("local path detected as s3 URL")
	}
}
