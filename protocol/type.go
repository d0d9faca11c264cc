package protocol

import "encoding/json"

// AccountMeta records how many accounts were materialized before the wallet was locked.
type AccountMeta struct {
	Count int `json:"count"`
}

// MaxAccountCount bounds how many accounts an unlock re-derives
const MaxAccountCount = 1000

// DefaultAccountMeta is used when no meta record exists or it cannot be parsed.
func DefaultAccountMeta() AccountMeta {
	return AccountMeta{Count: 1}
}

// ParseAccountMeta never fails: missing or broken records fall back to the default.
func ParseAccountMeta(data []byte) AccountMeta {
	if len(data) == 0 {
		return DefaultAccountMeta()
	}

	var meta AccountMeta
	if err := json.Unmarshal(data, &meta); err != nil || meta.Count < 1 {
		return DefaultAccountMeta()
	}
	if meta.Count > MaxAccountCount {
		meta.Count = MaxAccountCount
	}
	return meta
}

func (m AccountMeta) Bytes() ([]byte, error) {
	if m.Count < 1 {
		m.Count = 1
	}
	if m.Count > MaxAccountCount {
		m.Count = MaxAccountCount
	}
	return json.Marshal(m)
}
