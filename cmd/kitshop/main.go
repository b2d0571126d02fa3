// kitshop is an operator tool for the KitShop API: it lists sales and customers, shows a
// single sale, copies a sales window into postgres (run from cron for a nightly sync) and
// reads back what a sync stored.
//
// Usage:
//
//	kitshop [flags] sales [--from T] [--to T]
//	kitshop [flags] sale <id>
//	kitshop [flags] customers
//	kitshop [flags] sync [--from T] [--to T]
//	kitshop [flags] stored [<id>] [--from T] [--to T]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jrsteele09/kitshop-gateway/internal/config"
	"github.com/jrsteele09/kitshop-gateway/internal/database"
	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/internal/logging"
	"github.com/jrsteele09/kitshop-gateway/kitshop"
	"github.com/jrsteele09/kitshop-gateway/sales"
	salespostgres "github.com/jrsteele09/kitshop-gateway/sales/postgres"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type options struct {
	output  string
	timeout time.Duration
	from    string
	to      string
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, errors.ErrGatewayUnavailable) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("kitshop", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.output, "output", "o", "yaml", "output format: yaml or json")
	flagSet.DurationVar(&opts.timeout, "timeout", 30*time.Second, "deadline for the whole command")
	flagSet.StringVar(&opts.from, "from", "", "window start (dd.MM.yyyy HH:mm:ss or RFC3339), default yesterday 00:00:00")
	flagSet.StringVar(&opts.to, "to", "", "window end (dd.MM.yyyy HH:mm:ss or RFC3339), default today 23:59:59")
	flagSet.SetInterspersed(true)

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if opts.output != "yaml" && opts.output != "json" {
		return errors.Wrap(errors.ErrInvalidRequest, "--output must be yaml or json")
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "usage: kitshop [flags] sales|sale <id>|customers|sync|stored [<id>]")
		flagSet.PrintDefaults()
		return errors.Wrap(errors.ErrInvalidRequest, "missing command")
	}

	c := config.New()
	logging.Setup(c)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	if rest[0] == "stored" {
		return readStored(ctx, c, opts, rest[1:], out)
	}

	gateway, err := kitshop.NewGatewayFromConfig(c)
	if err != nil {
		return err
	}

	switch rest[0] {
	case "sales":
		from, to, err := window(opts, time.Now())
		if err != nil {
			return err
		}
		list, err := gateway.ListSales(ctx, from, to)
		if err != nil {
			return err
		}
		return render(out, opts.output, map[string]any{"Sales": list})

	case "sale":
		if len(rest) != 2 {
			return errors.Wrap(errors.ErrInvalidRequest, "sale needs exactly one id")
		}
		saleID, err := strconv.ParseInt(rest[1], 10, 64)
		if err != nil || saleID <= 0 {
			return errors.Wrap(errors.ErrInvalidRequest, "sale id must be a positive integer")
		}
		detail, err := gateway.SaleDetail(ctx, saleID)
		if err != nil {
			return err
		}
		return render(out, opts.output, detail)

	case "customers":
		list, err := gateway.ListCustomers(ctx)
		if err != nil {
			return err
		}
		return render(out, opts.output, map[string]any{"Customers": list})

	case "sync":
		from, to, err := window(opts, time.Now())
		if err != nil {
			return err
		}
		report, err := syncSales(ctx, c, gateway, from, to)
		if err != nil {
			return err
		}
		return render(out, opts.output, report)
	}

	return errors.Wrapf(errors.ErrInvalidRequest, "unknown command %q", rest[0])
}

func syncSales(ctx context.Context, c config.DatabaseConfig, gateway *kitshop.Gateway, from, to time.Time) (sales.Report, error) {
	store, closeDB, err := openSalesStore(ctx, c)
	if err != nil {
		return sales.Report{}, err
	}
	defer closeDB()
	return sales.NewSyncer(gateway, store).Sync(ctx, from, to)
}

// readStored prints one stored sale by id, or every stored sale in the window
func readStored(ctx context.Context, c config.DatabaseConfig, opts options, args []string, out io.Writer) error {
	if len(args) > 1 {
		return errors.Wrap(errors.ErrInvalidRequest, "stored takes at most one id")
	}
	var saleID int64
	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return errors.Wrap(errors.ErrInvalidRequest, "sale id must be a positive integer")
		}
		saleID = id
	}
	from, to, err := window(opts, time.Now())
	if err != nil {
		return err
	}

	store, closeDB, err := openSalesStore(ctx, c)
	if err != nil {
		return err
	}
	defer closeDB()
	return printStored(ctx, store, saleID, from, to, opts.output, out)
}

func printStored(ctx context.Context, repo sales.Repo, saleID int64, from, to time.Time, format string, out io.Writer) error {
	if saleID > 0 {
		sale, err := repo.Get(ctx, saleID)
		if err != nil {
			return errors.Wrapf(err, "stored sale %d", saleID)
		}
		return render(out, format, sale)
	}
	list, err := repo.ListBetween(ctx, from, to)
	if err != nil {
		return err
	}
	return render(out, format, map[string]any{"sales": list})
}

func openSalesStore(ctx context.Context, c config.DatabaseConfig) (*salespostgres.SalesStore, func(), error) {
	databaseURL := c.GetDatabaseURL()
	if databaseURL == "" {
		return nil, nil, errors.Wrap(errors.ErrConfiguration, "stored sales need DB_URL or POSTGRES_HOST")
	}
	db, err := database.Open(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	store := salespostgres.NewSalesStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, func() { _ = db.Close() }, nil
}

func window(opts options, now time.Time) (time.Time, time.Time, error) {
	from, to := kitshop.DefaultSalesWindow(now)
	var err error
	if opts.from != "" {
		if from, err = kitshop.ParseVendorTime(opts.from); err != nil {
			return time.Time{}, time.Time{}, errors.Wrapf(errors.ErrInvalidRequest, "--from: %v", err)
		}
	}
	if opts.to != "" {
		if to, err = kitshop.ParseVendorTime(opts.to); err != nil {
			return time.Time{}, time.Time{}, errors.Wrapf(errors.ErrInvalidRequest, "--to: %v", err)
		}
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, errors.Wrap(errors.ErrInvalidRequest, "--from is after --to")
	}
	return from, to, nil
}

func render(out io.Writer, format string, v any) error {
	if format == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	}
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
