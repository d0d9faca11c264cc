package rest

import "github.com/openweb3/wallet-core/wallet"

// General response structure
type RestResp struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type CreateWalletReq struct {
	Password    string `json:"password"`
	AccountName string `json:"accountName"`
}

type CreateWalletResp struct {
	Mnemonic string              `json:"mnemonic"` // shown once for backup
	Account  *wallet.AccountView `json:"account"`
}

type ImportWalletReq struct {
	Mnemonic    string `json:"mnemonic"`
	Password    string `json:"password"`
	AccountName string `json:"accountName"`
}

type UnlockReq struct {
	Password string `json:"password"`
}

type UnlockResp struct {
	Unlocked bool `json:"unlocked"`
}

type AddAccountReq struct {
	Name string `json:"name"`
}

type AccountsResp struct {
	Accounts       []wallet.AccountView `json:"accounts"`
	CurrentAccount *wallet.AccountView  `json:"currentAccount,omitempty"`
}

type SignMessageReq struct {
	AccountID string `json:"accountId"`
	Message   string `json:"message"`
}

type SignMessageResp struct {
	Address   string `json:"address"`
	Signature string `json:"signature"` // 0x-prefixed 65 bytes
}

type BalanceResp struct {
	Address string `json:"address"`
	Balance string `json:"balance"` // ether, decimal
}

type QRResp struct {
	Address string `json:"address"`
	PNG     string `json:"png"` // base64
}

type WeakPasswordResp struct {
	Strength wallet.PasswordStrength `json:"strength"`
}
