package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/amirasaad/bank/pkg/client"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

const usage = `Commands:
  register <username> <first> <last> <national-id> <email>
  login <username>
  logout
  profile
  accounts
  open-account <currency> [balance]
  cards [account-id]
  transactions [account-id] [type]
  pay <from-account-id> <to-account-id> <amount> [type]
  help
  quit`

var (
	okColor    = color.New(color.FgGreen)
	errColor   = color.New(color.FgRed)
	titleColor = color.New(color.FgCyan, color.Bold)
)

type shell struct {
	client       *client.Client
	in           *bufio.Scanner
	out          io.Writer
	readPassword func() (string, error)
}

func newShell(c *client.Client, in io.Reader, out io.Writer) *shell {
	sh := &shell{client: c, in: bufio.NewScanner(in), out: out}
	sh.readPassword = sh.readLine
	return sh
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// terminalPassword reads without echo when stdin is a terminal.
func terminalPassword(fallback func() (string, error)) func() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}
	return func() (string, error) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		return string(raw), err
	}
}

func (s *shell) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *shell) prompt() {
	_, u := s.client.Session().Get()
	name := "guest"
	if u != nil {
		name = u.Username
	}
	fmt.Fprintf(s.out, "%s> ", name)
}

// Run reads commands until quit or end of input.
func (s *shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, usage)
	for {
		s.prompt()
		line, err := s.readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := s.exec(ctx, fields[0], fields[1:]); err != nil {
			errColor.Fprintf(s.out, "error: %v\n", err) //nolint:errcheck
		}
	}
}

func (s *shell) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, usage)
		return nil
	case "register":
		return s.register(ctx, args)
	case "login":
		return s.login(ctx, args)
	case "logout":
		s.client.Logout()
		okColor.Fprintln(s.out, "logged out") //nolint:errcheck
		return nil
	case "profile":
		return s.profile(ctx)
	case "accounts":
		return s.accounts(ctx)
	case "open-account":
		return s.openAccount(ctx, args)
	case "cards":
		return s.cards(ctx, args)
	case "transactions":
		return s.transactions(ctx, args)
	case "pay":
		return s.pay(ctx, args)
	}
	return fmt.Errorf("unknown command %q, try help", cmd)
}

func (s *shell) register(ctx context.Context, args []string) error {
	if len(args) != 5 {
		return errors.New("usage: register <username> <first> <last> <national-id> <email>")
	}
	fmt.Fprint(s.out, "password: ")
	password, err := s.readPassword()
	if err != nil {
		return err
	}
	u, err := s.client.Register(ctx, dto.RegisterRequest{
		Username:   args[0],
		Password:   password,
		FirstName:  args[1],
		LastName:   args[2],
		NationalID: args[3],
		Email:      args[4],
	})
	if err != nil {
		return err
	}
	okColor.Fprintf(s.out, "registered %s (id %d)\n", u.Username, u.ID) //nolint:errcheck
	return nil
}

func (s *shell) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: login <username>")
	}
	fmt.Fprint(s.out, "password: ")
	password, err := s.readPassword()
	if err != nil {
		return err
	}
	u, err := s.client.Login(ctx, args[0], password)
	if err != nil {
		return err
	}
	okColor.Fprintf(s.out, "welcome %s %s\n", u.FirstName, u.LastName) //nolint:errcheck
	return nil
}

func (s *shell) profile(ctx context.Context) error {
	u, err := s.client.Profile(ctx)
	if err != nil {
		return err
	}
	titleColor.Fprintln(s.out, "Profile") //nolint:errcheck
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%d\n", u.ID)
	fmt.Fprintf(w, "username\t%s\n", u.Username)
	fmt.Fprintf(w, "name\t%s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(w, "national id\t%s\n", u.NationalID)
	fmt.Fprintf(w, "email\t%s\n", u.Email)
	fmt.Fprintf(w, "role\t%s\n", u.Role)
	return w.Flush()
}

func (s *shell) myAccounts(ctx context.Context) ([]account.Account, error) {
	_, u := s.client.Session().Get()
	if u == nil {
		return nil, client.ErrNotLoggedIn
	}
	return s.client.UserAccounts(ctx, u.ID)
}

func (s *shell) accounts(ctx context.Context) error {
	accounts, err := s.myAccounts(ctx)
	if err != nil {
		return err
	}
	titleColor.Fprintln(s.out, "Accounts") //nolint:errcheck
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tIBAN\tCURRENCY\tBALANCE")
	for _, a := range accounts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.IBAN, a.Currency, decimal.NewFromFloat(a.Balance).StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for currency, total := range client.TotalsByCurrency(accounts) {
		fmt.Fprintf(s.out, "total %s %s\n", currency, total.StringFixed(2))
	}
	return nil
}

func (s *shell) openAccount(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: open-account <currency> [balance]")
	}
	in := dto.AccountInput{Currency: strings.ToUpper(args[0])}
	if len(args) == 2 {
		balance, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid balance: %w", err)
		}
		in.Balance = balance.InexactFloat64()
	}
	a, err := s.client.CreateAccount(ctx, in)
	if err != nil {
		return err
	}
	okColor.Fprintf(s.out, "opened account %d (%s)\n", a.ID, a.Currency) //nolint:errcheck
	return nil
}

func (s *shell) cards(ctx context.Context, args []string) error {
	accounts, err := s.myAccounts(ctx)
	if err != nil {
		return err
	}
	all, err := s.client.Cards(ctx)
	if err != nil {
		return err
	}
	_, u := s.client.Session().Get()
	cards := client.CardsOf(all, accounts, u.ID)
	var accountID uint
	if len(args) > 0 {
		if accountID, err = parseID(args[0]); err != nil {
			return err
		}
	}
	titleColor.Fprintln(s.out, "Cards") //nolint:errcheck
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tHOLDER\tEXPIRES\tACCOUNT")
	now := time.Now()
	for _, c := range cards {
		if accountID != 0 && c.AccountID != accountID {
			continue
		}
		expires := c.ExpirationDate.Format("2006-01-02")
		if c.Expired(now) {
			expires += " (expired)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", c.ID, c.MaskedNumber(), c.HolderName, expires, c.AccountID)
	}
	return w.Flush()
}

func (s *shell) transactions(ctx context.Context, args []string) error {
	var filter client.TransactionFilter
	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		filter.AccountID = id
	}
	if len(args) > 1 {
		filter.Type = args[1]
	}
	txs, err := s.client.Transactions(ctx)
	if err != nil {
		return err
	}
	txs = client.FilterTransactions(txs, filter)
	titleColor.Fprintln(s.out, "Transactions") //nolint:errcheck
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tIDENTIFIER\tTIME\tTYPE\tFROM\tTO\tAMOUNT")
	for _, tx := range txs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s %s\n",
			tx.ID, tx.Identifier, tx.Time.Format(time.DateTime), tx.Type,
			tx.SenderID, tx.ReceiverID, decimal.NewFromFloat(tx.Amount).StringFixed(2), tx.Currency)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if filter.AccountID != 0 {
		fmt.Fprintf(s.out, "net flow %s\n", client.NetFlow(txs, filter.AccountID).StringFixed(2))
	}
	return nil
}

func (s *shell) pay(ctx context.Context, args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return errors.New("usage: pay <from-account-id> <to-account-id> <amount> [type]")
	}
	from, err := parseID(args[0])
	if err != nil {
		return err
	}
	to, err := parseID(args[1])
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(args[2])
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	sender, err := s.client.Account(ctx, from)
	if err != nil {
		return err
	}
	in := dto.TransactionInput{
		Amount:     amount.InexactFloat64(),
		Currency:   sender.Currency,
		SenderID:   from,
		ReceiverID: to,
		Type:       "payment",
	}
	if len(args) == 4 {
		in.Type = args[3]
	}
	tx, err := s.client.CreateTransaction(ctx, in)
	if err != nil {
		return err
	}
	okColor.Fprintf(s.out, "recorded %s: %s %s from %d to %d\n", //nolint:errcheck
		tx.Identifier, amount.StringFixed(2), tx.Currency, tx.SenderID, tx.ReceiverID)
	return nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
