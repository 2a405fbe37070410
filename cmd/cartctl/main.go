package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/vladislavdragonenkov/markethub/internal/app"
	"github.com/vladislavdragonenkov/markethub/internal/domain"
	"github.com/vladislavdragonenkov/markethub/internal/version"
)

const usage = `usage: cartctl [flags] <command> [args]

commands:
  add <productId> [quantity]     add product (quantity defaults to 1)
  remove <productId>             remove product
  update <productId> <quantity>  set quantity (<= 0 removes)
  clear                          empty the cart
  list                           show cart lines with product details
  summary                        show total and item count
  login <token>                  store session token
  logout                         drop session token
  sync                           replace local cart with the remote one
  version                        print build info
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		_, _ = fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			_, _ = fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("cartctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	app.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: command is required", errUsage)
	}
	command, params := rest[0], rest[1:]
	if command == "version" {
		_, _ = fmt.Fprintln(stdout, version.String())
		return nil
	}

	cfg, err := app.LoadConfig(fs)
	if err != nil {
		return err
	}
	log.SetOutput(stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(cliLevel(cfg.LogLevel))

	deps, err := app.NewDependencies(ctx, cfg, log.WithField("component", "cartctl"))
	if err != nil {
		return err
	}
	defer deps.Close()

	c := &cli{deps: deps, out: stdout, errOut: stderr}
	return c.dispatch(ctx, command, params)
}

// cliLevel по умолчанию глушит info-логи, чтобы не мешать выводу команд.
func cliLevel(level string) log.Level {
	parsed, err := log.ParseLevel(level)
	if err != nil || parsed == log.InfoLevel {
		return log.WarnLevel
	}
	return parsed
}

type cli struct {
	deps   *app.Dependencies
	out    io.Writer
	errOut io.Writer
}

func (c *cli) dispatch(ctx context.Context, command string, params []string) error {
	store := c.deps.Cart

	switch command {
	case "add":
		if len(params) < 1 || len(params) > 2 {
			return fmt.Errorf("%w: add <productId> [quantity]", errUsage)
		}
		quantity := domain.DefaultQuantity
		if len(params) == 2 {
			q, err := parseQuantity(params[1])
			if err != nil {
				return err
			}
			quantity = q
		}
		return c.mutated(store.AddToCart(ctx, params[0], quantity))

	case "remove":
		if len(params) != 1 {
			return fmt.Errorf("%w: remove <productId>", errUsage)
		}
		return c.mutated(store.RemoveFromCart(ctx, params[0]))

	case "update":
		if len(params) != 2 {
			return fmt.Errorf("%w: update <productId> <quantity>", errUsage)
		}
		q, err := parseQuantity(params[1])
		if err != nil {
			return err
		}
		return c.mutated(store.UpdateQuantity(ctx, params[0], q))

	case "clear":
		return c.mutated(store.ClearCart(ctx))

	case "list":
		return c.list()

	case "summary":
		return c.summary()

	case "login":
		if len(params) != 1 {
			return fmt.Errorf("%w: login <token>", errUsage)
		}
		if err := c.deps.Session.Login(ctx, params[0]); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(c.out, "logged in")
		return nil

	case "logout":
		if err := c.deps.Session.Logout(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(c.out, "logged out")
		return nil

	case "sync":
		if _, ok := c.deps.Session.Token(ctx); !ok || c.deps.API == nil {
			return errors.New("sync requires a session and --api-base-url")
		}
		if err := store.Sync(ctx); err != nil {
			return err
		}
		return c.list()

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

// mutated печатает корзину после мутации. Отказ удалённого API или записи
// не отменяет применённое изменение, поэтому это предупреждение, а не ошибка.
func (c *cli) mutated(err error) error {
	if err != nil {
		if !domain.IsRemoteFailure(err) && !errors.Is(err, domain.ErrPersist) {
			return err
		}
		_, _ = fmt.Fprintf(c.errOut, "warning: %v\n", err)
	}
	return c.list()
}

func (c *cli) list() error {
	store := c.deps.Cart
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PRODUCT\tNAME\tQTY\tPRICE\tTOTAL")
	for _, line := range store.CartItemsWithDetails() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			line.ProductID,
			line.Product.Name,
			line.Quantity,
			formatMinor(line.Product.EffectivePriceMinor()),
			formatMinor(line.TotalPriceMinor),
		)
	}
	_, _ = fmt.Fprintf(tw, "\t\t%d\t\t%s\n", store.CartCount(), formatMinor(store.CartTotal()))
	return tw.Flush()
}

func (c *cli) summary() error {
	store := c.deps.Cart
	_, _ = fmt.Fprintf(c.out, "items: %d\ntotal: %s\n", store.CartCount(), formatMinor(store.CartTotal()))
	return nil
}

func parseQuantity(raw string) (int, error) {
	q, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity must be an integer, got %q", errUsage, raw)
	}
	return q, nil
}

// formatMinor печатает сумму в минорных единицах как 12.34.
func formatMinor(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
