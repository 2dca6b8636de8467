// Command portfolioctl manages projects through the portfolio REST API.
//
//	portfolioctl [-url URL] [-user NAME] [-password PW] <list|get|create|delete|login> [args]
//
// Commands that mutate state log in first; the password may also come from PORTFOLIO_PASSWORD.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/folio-works/portfolio/internal/modules/model"
	"github.com/folio-works/portfolio/internal/webclient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cli struct {
	client   *webclient.Client
	user     string
	password string
	in       io.Reader
	out      io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("portfolioctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	baseURL := fs.String("url", envOr("PORTFOLIO_URL", "http://localhost:8080"), "API base URL")
	user := fs.String("user", envOr("PORTFOLIO_USER", "admin"), "admin username")
	password := fs.String("password", os.Getenv("PORTFOLIO_PASSWORD"), "admin password")
	verbose := fs.Bool("v", false, "Enable verbose logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: portfolioctl [flags] <list|get ID|create FILE|delete ID|login>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	log := newLogger(*verbose, stderr)
	defer func() { _ = log.Sync() }()

	client, err := webclient.New(*baseURL, log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	c := &cli{client: client, user: *user, password: *password, in: stdin, out: stdout}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "list":
		err = c.list(ctx)
	case "get":
		err = c.withID(rest, func(id string) error { return c.get(ctx, id) })
	case "create":
		err = c.create(ctx, rest)
	case "delete":
		err = c.withID(rest, func(id string) error { return c.delete(ctx, id) })
	case "login":
		if err = c.login(ctx); err == nil {
			fmt.Fprintf(stdout, "logged in as %s\n", c.user)
		}
	default:
		fs.Usage()
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
		if errors.Is(err, webclient.ErrNotFound) {
			return 3
		}
		return 1
	}
	return 0
}

func (c *cli) withID(args []string, fn func(id string) error) error {
	if len(args) != 1 || args[0] == "" {
		return errors.New("expected exactly one project id")
	}
	return fn(args[0])
}

func (c *cli) list(ctx context.Context) error {
	projects, err := c.client.ListProjects(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tVIEWS")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.ID, p.Title, p.Category, p.Views)
	}
	return tw.Flush()
}

func (c *cli) get(ctx context.Context, id string) error {
	p, err := c.client.GetProject(ctx, id)
	if err != nil {
		return err
	}
	return c.printJSON(p)
}

// create reads a project document from FILE, or stdin when FILE is "-" or omitted.
func (c *cli) create(ctx context.Context, args []string) error {
	src := c.in
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}
	raw, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var in model.ProjectInput
	if err := sonic.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parse project: %w", err)
	}

	if err := c.login(ctx); err != nil {
		return err
	}
	p, err := c.client.CreateProject(ctx, in)
	if err != nil {
		return err
	}
	return c.printJSON(p)
}

func (c *cli) delete(ctx context.Context, id string) error {
	if err := c.login(ctx); err != nil {
		return err
	}
	if err := c.client.DeleteProject(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted %s\n", id)
	return nil
}

func (c *cli) login(ctx context.Context) error {
	if c.password == "" {
		return errors.New("no password given (use -password or PORTFOLIO_PASSWORD)")
	}
	u, err := c.client.Login(ctx, c.user, c.password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.client.Logger.Debug("logged in", zap.String("username", u.Username))
	return nil
}

func (c *cli) printJSON(v any) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, string(b))
	return err
}

func newLogger(verbose bool, w io.Writer) *zap.Logger {
	lvl := zapcore.WarnLevel
	if verbose {
		lvl = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
