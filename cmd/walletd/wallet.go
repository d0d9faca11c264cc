package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/openweb3/wallet-core/common/utils"
	conf "github.com/openweb3/wallet-core/config"
	"github.com/openweb3/wallet-core/rpc"
	"github.com/openweb3/wallet-core/storage"
	"github.com/openweb3/wallet-core/wallet"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

// localWallet is a session opened directly on the store, without the daemon
type localWallet struct {
	cfg     *conf.Config
	store   storage.Store
	client  *rpc.Client
	session *wallet.Session
}

func openLocalWallet(ctx context.Context) (*localWallet, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w (is walletd running? stop it first)", err)
	}

	var opts []wallet.Option
	client, err := rpc.DialConfig(ctx, cfg.RPC)
	if err != nil {
		pterm.Warning.Printfln("RPC unavailable, balances will read 0.0: %v", err)
	}
	if client != nil {
		opts = append(opts, wallet.WithBalanceReader(client))
	}

	session, err := wallet.NewSession(store, wallet.NewCodecFromConfig(cfg.Keystore), opts...)
	if err != nil {
		store.Close()
		return nil, err
	}
	return &localWallet{cfg: cfg, store: store, client: client, session: session}, nil
}

func (l *localWallet) Close() {
	l.session.LockWallet()
	if l.client != nil {
		l.client.Close()
	}
	l.store.Close()
}

func loadConfig() (*conf.Config, error) {
	if configFile == "" {
		return conf.Default(), nil
	}
	return conf.NewConfig(configFile)
}

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet management commands",
		Long:  `Commands that operate on the wallet store directly. Stop the daemon before using them.`,
	}

	cmd.AddCommand(walletStatusCmd())
	cmd.AddCommand(walletCreateCmd())
	cmd.AddCommand(walletImportCmd())
	cmd.AddCommand(walletUnlockCmd())
	cmd.AddCommand(walletAddAccountCmd())
	cmd.AddCommand(walletBalanceCmd())
	cmd.AddCommand(walletReceiveCmd())

	return cmd
}

func walletStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a wallet exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			lw, err := openLocalWallet(cmd.Context())
			if err != nil {
				return err
			}
			defer lw.Close()

			blob, meta, err := lw.store.Load()
			if err != nil {
				return err
			}

			data := pterm.TableData{
				{"State", lw.session.State().String()},
				{"Engine", lw.cfg.DB.Engine},
				{"Path", lw.cfg.DB.Path},
				{"Accounts", strconv.Itoa(meta.Count)},
			}
			if blob != nil {
				if addr, err := wallet.KeystoreAddress(blob); err == nil {
					data = append(data, []string{"Account 1", addr.Hex()})
				}
			}
			return pterm.DefaultTable.WithHasHeader(false).WithData(data).Render()
		},
	}
}

func walletCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new wallet with a fresh recovery phrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			lw, err := openLocalWallet(cmd.Context())
			if err != nil {
				return err
			}
			defer lw.Close()

			password, err := promptNewPassword()
			if err != nil {
				return err
			}

			spinner, _ := pterm.DefaultSpinner.WithText("Encrypting wallet...").Start()
			phrase, err := lw.session.CreateWallet(cmd.Context(), password, name)
			if err != nil {
				spinner.Fail("Failed to create wallet")
				return err
			}
			spinner.Success("Wallet created")

			pterm.DefaultBox.WithTitle("Recovery phrase").WithTitleTopCenter().Println(formatPhrase(phrase))
			pterm.Warning.Println("Write down the recovery phrase and keep it offline. It is shown only once.")
			printAccounts(lw.session)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the first account")
	return cmd
}

func walletImportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a wallet from an existing recovery phrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			lw, err := openLocalWallet(cmd.Context())
			if err != nil {
				return err
			}
			defer lw.Close()

			phrase, err := promptSecret("Recovery phrase")
			if err != nil {
				return err
			}
			if !wallet.ValidateMnemonic(phrase) {
				return wallet.ErrInvalidMnemonic
			}

			password, err := promptNewPassword()
			if err != nil {
				return err
			}

			spinner, _ := pterm.DefaultSpinner.WithText("Encrypting wallet...").Start()
			if err := lw.session.ImportWallet(cmd.Context(), phrase, password, name); err != nil {
				spinner.Fail("Failed to import wallet")
				return err
			}
			spinner.Success("Wallet imported")

			printAccounts(lw.session)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the first account")
	return cmd
}

func walletUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Check the password and list derived accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			lw, err := openLocalWallet(cmd.Context())
			if err != nil {
				return err
			}
			defer lw.Close()

			if err := unlock(cmd.Context(), lw.session); err != nil {
				return err
			}
			printAccounts(lw.session)
			return nil
		},
	}
}

func walletAddAccountCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add-account",
		Short: "Derive and remember the next account",
		RunE: func(cmd *cobra.Command, args []string) error {
			lw, err := openLocalWallet(cmd.Context())
			if err != nil {
				return err
			}
			defer lw.Close()

			if err := unlock(cmd.Context(), lw.session); err != nil {
				return err
			}

			acc, err := lw.session.AddAccount(cmd.Context(), name)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Added %s %s (%s)", acc.Name, acc.Address.Hex(), acc.DerivationPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Account name")
	return cmd
}

func walletBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Show the balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lw, err := openLocalWallet(cmd.Context())
			if err != nil {
				return err
			}
			defer lw.Close()

			if lw.client == nil {
				pterm.Warning.Println("No RPC url configured ([RPC] URL or OPENWEB3_RPC_URL)")
			}
			pterm.Printf("%s ETH\n", lw.session.GetBalance(cmd.Context(), args[0]))
			return nil
		},
	}
}

func walletReceiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receive",
		Short: "Print the first account address as a QR code",
		RunE: func(cmd *cobra.Command, args []string) error {
			lw, err := openLocalWallet(cmd.Context())
			if err != nil {
				return err
			}
			defer lw.Close()

			blob, _, err := lw.store.Load()
			if err != nil {
				return err
			}
			if blob == nil {
				return wallet.ErrNoWalletFound
			}
			addr, err := wallet.KeystoreAddress(blob)
			if err != nil {
				return err
			}

			qr, err := utils.QRCodeText(addr.Hex())
			if err != nil {
				return err
			}
			pterm.Println(qr)
			pterm.Println(addr.Hex())
			return nil
		},
	}
}

func unlock(ctx context.Context, s *wallet.Session) error {
	if !s.IsInitialized() {
		return wallet.ErrNoWalletFound
	}

	password, err := promptSecret("Password")
	if err != nil {
		return err
	}
	ok, err := s.UnlockWallet(ctx, password)
	if err != nil {
		return err
	}
	if !ok {
		return wallet.ErrIncorrectPassword
	}
	return nil
}

func printAccounts(s *wallet.Session) {
	data := pterm.TableData{{"ID", "Name", "Address", "Path"}}
	current := s.CurrentAccount()
	for _, a := range s.Accounts() {
		id := a.ID
		if current != nil && current.ID == a.ID {
			id += " *"
		}
		data = append(data, []string{id, a.Name, a.Address, a.DerivationPath})
	}
	pterm.DefaultTable.WithHasHeader(true).WithData(data).Render()
}

func formatPhrase(phrase string) string {
	words := strings.Fields(phrase)
	var b strings.Builder
	for i, w := range words {
		fmt.Fprintf(&b, "%2d. %-10s", i+1, w)
		if (i+1)%4 == 0 && i+1 < len(words) {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func promptNewPassword() (string, error) {
	password, err := promptSecret("New password")
	if err != nil {
		return "", err
	}

	strength := wallet.CheckPasswordStrength(password)
	if !strength.IsValid {
		for _, hint := range strength.Feedback {
			pterm.Warning.Println(hint)
		}
		return "", errors.New("password is too weak")
	}

	confirm, err := promptSecret("Confirm password")
	if err != nil {
		return "", err
	}
	if confirm != password {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

// promptSecret reads without echo on a terminal and falls back to a plain line for pipes.
// Passwords keep surrounding spaces so they match what the REST API stored.
func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt + ": ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(prompt), err)
		}
		defer clear(raw)
		return string(raw), nil
	}

	line, err := readSecretLine(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(prompt), err)
	}
	return line, nil
}

// readSecretLine strips only the line terminator
func readSecretLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
