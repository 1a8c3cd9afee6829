// cmd/admin/main.go
//
// admin manages accounts directly against the metadata database.
//
//	admin create-superuser -username alice [-email alice@example.com]
//	admin set-active -username bob -active=false
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Annany2002/bookreader-backend/config"
	"github.com/Annany2002/bookreader-backend/internal/auth"
	"github.com/Annany2002/bookreader-backend/internal/logger"
	"github.com/Annany2002/bookreader-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

var errUsage = errors.New("usage: admin <create-superuser|set-active> [flags]")

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		customLog.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := storage.ConnectMetadataDB(cfg)
	if err != nil {
		customLog.Fatalf("Failed to initialize metadata database: %v", err)
	}
	defer db.Close()

	if err := run(context.Background(), db, cfg, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		db.Close()
		os.Exit(2)
	}
}

func run(ctx context.Context, db *sql.DB, cfg *config.Config, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "create-superuser":
		return createSuperuser(ctx, db, cfg, args[1:], stdin, stdout)
	case "set-active":
		return setActive(ctx, db, args[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q\n%w", args[0], errUsage)
	}
}

func createSuperuser(ctx context.Context, db *sql.DB, cfg *config.Config, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("create-superuser", flag.ContinueOnError)
	fs.SetOutput(stdout)
	username := fs.String("username", "", "login name of the new superuser")
	email := fs.String("email", "", "optional email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("-username is required")
	}

	password, err := promptPassword(stdin, stdout, "Password: ")
	if err != nil {
		return err
	}
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	user, err := auth.RegisterUser(ctx, db, *username, *email, password, cfg.BcryptCost, true)
	if err != nil {
		return fmt.Errorf("create superuser: %w", err)
	}
	customLog.Printf("Created superuser %s (%s)", user.Username, user.ID)
	fmt.Fprintf(stdout, "created superuser %s with id %s\n", user.Username, user.ID)
	return nil
}

func setActive(ctx context.Context, db *sql.DB, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("set-active", flag.ContinueOnError)
	fs.SetOutput(stdout)
	username := fs.String("username", "", "account to update")
	active := fs.Bool("active", true, "whether the account may log in")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("-username is required")
	}

	user, err := storage.FindUserByUsername(ctx, db, *username)
	if err != nil {
		return fmt.Errorf("find user %q: %w", *username, err)
	}
	if err := storage.SetUserActive(ctx, db, user.ID, *active); err != nil {
		return fmt.Errorf("update user %q: %w", *username, err)
	}
	customLog.Printf("Set is_active=%t for user %s", *active, user.Username)
	fmt.Fprintf(stdout, "user %s is_active=%t\n", user.Username, *active)
	return nil
}
