package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kelseyhightower/envconfig"
	wcrypto "github.com/openweb3/wallet-core/common/crypto"
)

// smokeEnv is read from OPENWEB3_SMOKE_* variables
type smokeEnv struct {
	BaseURL  string `envconfig:"URL" default:"http://127.0.0.1:8547/api/v1"`
	Mnemonic string `envconfig:"MNEMONIC" default:"test test test test test test test test test test test junk"`
	Password string `envconfig:"PASSWORD" default:"Sup3r$ecret1"`
}

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type account struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

type snapshot struct {
	State         string    `json:"state"`
	IsInitialized bool      `json:"isInitialized"`
	IsLocked      bool      `json:"isLocked"`
	Accounts      []account `json:"accounts"`
}

var client = &http.Client{Timeout: 30 * time.Second}

func main() {
	var env smokeEnv
	if err := envconfig.Process("OPENWEB3_SMOKE", &env); err != nil {
		fmt.Println("Invalid environment:", err)
		os.Exit(1)
	}
	base := env.BaseURL

	fmt.Println("=== Starting wallet API smoke test ===")

	fmt.Println("\n[1] Reading session state...")
	var snap snapshot
	mustCall("GET", base+"/wallet/state", nil, &snap)
	fmt.Printf("State: %s\n", snap.State)

	if !snap.IsInitialized {
		fmt.Println("\n[2] Importing wallet...")
		mustCall("POST", base+"/wallet/import", map[string]string{
			"mnemonic": env.Mnemonic,
			"password": env.Password,
		}, &snap)
	} else {
		fmt.Println("\n[2] Wallet exists, skipping import")
	}

	fmt.Println("\n[3] Lock / wrong password / unlock...")
	mustCall("POST", base+"/wallet/lock", nil, &snap)
	if !snap.IsLocked || len(snap.Accounts) != 0 {
		fail("lock did not clear accounts")
	}

	var unlock struct {
		Unlocked bool `json:"unlocked"`
	}
	mustCall("POST", base+"/wallet/unlock", map[string]string{"password": "wrong"}, &unlock)
	if unlock.Unlocked {
		fail("wrong password unlocked the wallet")
	}
	mustCall("POST", base+"/wallet/unlock", map[string]string{"password": env.Password}, &unlock)
	if !unlock.Unlocked {
		fail("unlock with the configured password failed")
	}

	fmt.Println("\n[4] Accounts...")
	mustCall("GET", base+"/wallet/state", nil, &snap)
	for _, a := range snap.Accounts {
		fmt.Printf("  [%s] %s\n", a.ID, a.Address)
	}

	fmt.Println("\n[5] Signing a message...")
	msg := fmt.Sprintf("openweb3 smoke %d", time.Now().Unix())
	var signed struct {
		Address   string `json:"address"`
		Signature string `json:"signature"`
	}
	mustCall("POST", base+"/wallet/sign", map[string]string{"accountId": "1", "message": msg}, &signed)
	sig, err := hexutil.Decode(signed.Signature)
	if err != nil || !wcrypto.VerifyMessage(common.HexToAddress(signed.Address), []byte(msg), sig) {
		fail("signature does not verify")
	}
	fmt.Printf("  %s signed %q\n", signed.Address, msg)

	fmt.Println("\n[6] Balance...")
	var bal struct {
		Balance string `json:"balance"`
	}
	mustCall("GET", base+"/balance/"+signed.Address, nil, &bal)
	fmt.Printf("  %s ETH\n", bal.Balance)

	fmt.Println("\nSUCCESS: wallet API smoke test passed")
}

func mustCall(method, url string, body interface{}, out interface{}) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		fail(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		fail(fmt.Sprintf("%s %s: %v", method, url, err))
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		fail(fmt.Sprintf("%s %s: bad response %s", method, url, string(raw)))
	}
	if !apiResp.Success {
		fail(fmt.Sprintf("%s %s: %s (%s)", method, url, apiResp.Error, resp.Status))
	}
	if out != nil {
		if err := json.Unmarshal(apiResp.Data, out); err != nil {
			fail(fmt.Sprintf("%s %s: decode data: %v", method, url, err))
		}
	}
}

func fail(msg string) {
	fmt.Println("\nFAILED:", msg)
	os.Exit(1)
}
