package protocol

const (
	// Persisted store keys, shared with the browser extension's localStorage layout
	KeyEncryptedWallet = "openweb3_encrypted_wallet" // keystore JSON blob
	KeyAccountMeta     = "openweb3_account_meta"     // {"count": n}

	// bbolt bucket holding both keys
	BucketWallet = "openweb3"
)
