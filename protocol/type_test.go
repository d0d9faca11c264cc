package protocol

import "testing"

func TestParseAccountMeta(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"absent", nil, 1},
		{"valid", []byte(`{"count":3}`), 3},
		{"garbage", []byte(`not json`), 1},
		{"zero count", []byte(`{"count":0}`), 1},
		{"negative count", []byte(`{"count":-4}`), 1},
		{"empty object", []byte(`{}`), 1},
		{"at limit", []byte(`{"count":1000}`), MaxAccountCount},
		{"over limit", []byte(`{"count":1000000000}`), MaxAccountCount},
		{"overflowing count", []byte(`{"count":99999999999999999999}`), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAccountMeta(tt.data).Count; got != tt.want {
				t.Fatalf("ParseAccountMeta(%q) = %d, want %d", tt.data, got, tt.want)
			}
		})
	}
}

func TestAccountMetaBytes(t *testing.T) {
	data, err := AccountMeta{Count: 2}.Bytes()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if string(data) != `{"count":2}` {
		t.Fatalf("unexpected encoding: %s", data)
	}

	data, err = AccountMeta{}.Bytes()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if ParseAccountMeta(data).Count != 1 {
		t.Fatalf("zero meta should encode as count 1, got %s", data)
	}

	data, err = AccountMeta{Count: MaxAccountCount + 5}.Bytes()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got := ParseAccountMeta(data).Count; got != MaxAccountCount {
		t.Fatalf("oversized meta should encode as the limit, got %d", got)
	}
}
