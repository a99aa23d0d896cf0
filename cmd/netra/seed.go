package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Skotchmaster/netra/internal/config"
	"github.com/Skotchmaster/netra/internal/db"
	"github.com/Skotchmaster/netra/internal/hash"
	"github.com/Skotchmaster/netra/internal/logging"
	"github.com/Skotchmaster/netra/internal/repo"
	"github.com/Skotchmaster/netra/internal/search"
	"github.com/Skotchmaster/netra/internal/seed"
)

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "migrate the schema and import users, students and timetable from YAML",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "seed file path",
				Value:   "seed.yaml",
			},
		},
		Action: runSeed,
	}
}

func runSeed(c *cli.Context) error {
	cfg := config.Load()
	if err := cfg.ValidateStorage(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(c.Context, log)

	f, err := seed.ParseFile(c.String("file"))
	if err != nil {
		return err
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DSN())
	cancel()
	if err != nil {
		return fmt.Errorf("db init: %w", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Error("db_close_failed", "error", err)
		}
	}()
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}

	im := &seed.Importer{Repo: repo.New(gdb), Hasher: hash.New(cfg.BcryptCost)}
	if cfg.ESURL != "" {
		client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
		if err != nil {
			return fmt.Errorf("elasticsearch client: %w", err)
		}
		im.Indexer = client
	}

	sum, err := im.Import(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "imported %d users, %d students, %d timetable rows (%d indexed)\n",
		sum.Users, sum.Students, sum.Timetable, sum.Indexed)
	return nil
}

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "print a bcrypt hash for a password read from stdin",
		UsageText: "echo -n 'secret' | netra hash-password [--cost N]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "cost", Value: 10},
		},
		Action: func(c *cli.Context) error {
			password, err := readPassword(c.App.Reader)
			if err != nil {
				return err
			}
			hashed, err := hash.New(c.Int("cost")).HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, hashed)
			return nil
		},
	}
}

// readPassword takes the first line of r without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("read password: empty input on stdin")
	}
	return line, nil
}
