// Command cli bootstraps and maintains accounts from the terminal,
// primarily for creating the first admin user.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/fintrack/fintrack/infra/initializer"
	"github.com/fintrack/fintrack/pkg/config"
	userdomain "github.com/fintrack/fintrack/pkg/domain/user"
	usersvc "github.com/fintrack/fintrack/pkg/service/user"
	"github.com/google/uuid"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  create-admin <username> <email>   create an admin account (password prompted)")
	fmt.Println("  upgrade <user_id> <level>         raise a user's level")
}

func run(cmd string, args []string) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	svc := usersvc.New(deps.Uow, cfg.Auth, deps.Logger)
	ctx := context.Background()

	switch cmd {
	case "create-admin":
		if len(args) < 2 {
			return fmt.Errorf("usage: create-admin <username> <email>")
		}
		password, err := promptPassword()
		if err != nil {
			return err
		}
		u, err := svc.Create(ctx, usersvc.CreateInput{
			Username:  args[0],
			Email:     args[1],
			Password:  password,
			UserLevel: userdomain.AdminLevel,
		})
		if err != nil {
			return err
		}
		color.Green("Admin created: id=%s username=%s level=%d",
			u.ID, u.Username, u.UserLevel)
	case "upgrade":
		if len(args) < 2 {
			return fmt.Errorf("usage: upgrade <user_id> <level>")
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		level, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid level: %w", err)
		}
		u, err := svc.Upgrade(ctx, id, level)
		if err != nil {
			return err
		}
		color.Green("User upgraded: id=%s level=%d", u.ID, u.UserLevel)
	default:
		usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return nil
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// Piped input, e.g. in scripts.
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Print("Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	if len(first) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}
	return string(first), nil
}
