package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/useradmin/user-admin/backend/internal/model/user"
)

func main() {
	base, _ := zap.NewDevelopment()
	defer func() { _ = base.Sync() }()
	logger := base.Sugar()

	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env loaded, using system environment: %v", err)
	}

	mode := flag.String("mode", "list", "operation: list, search, get, create, update, delete")
	baseURL := flag.String("url", envOrDefault("USERS_API_URL", "http://localhost:8080"), "API base URL")
	id := flag.Int("id", 0, "user id for get, update and delete")
	query := flag.String("q", "", "search text")
	fields := flag.String("fields", "", "search fields, e.g. name,email,phone,address")
	name := flag.String("name", "", "Ad Soyad")
	email := flag.String("email", "", "E-posta")
	phone := flag.String("phone", "", "Telefon")
	address := flag.String("address", "", "Adres")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")

	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := NewClient(*baseURL, nil)

	switch *mode {
	case "list":
		users, err := client.List(ctx, "", "")
		if err != nil {
			logger.Fatalf("list failed: %v", err)
		}
		RenderTable(os.Stdout, users)
	case "search":
		users, err := client.List(ctx, *query, *fields)
		if err != nil {
			logger.Fatalf("search failed: %v", err)
		}
		RenderTable(os.Stdout, users)
	case "get":
		u, err := client.Get(ctx, *id)
		if err != nil {
			logger.Fatalf("get failed: %v", err)
		}
		RenderTable(os.Stdout, []user.User{u})
	case "create":
		u, err := client.Create(ctx, user.Fields{Name: *name, Email: *email, Phone: *phone, Address: *address})
		if err != nil {
			logger.Fatalf("create failed: %v", err)
		}
		logger.Infof("created user id=%d", u.ID)
		RenderTable(os.Stdout, []user.User{u})
	case "update":
		u, err := client.Update(ctx, *id, patchFromFlags())
		if err != nil {
			logger.Fatalf("update failed: %v", err)
		}
		RenderTable(os.Stdout, []user.User{u})
	case "delete":
		if err := client.Delete(ctx, *id); err != nil {
			logger.Fatalf("delete failed: %v", err)
		}
		logger.Infof("deleted user id=%d", *id)
	default:
		flag.Usage()
		logger.Fatalf("unknown mode %q", *mode)
	}
}

// patchFromFlags only includes the fields that were set on the command line.
func patchFromFlags() user.Patch {
	var patch user.Patch
	flag.Visit(func(f *flag.Flag) {
		value := f.Value.String()
		switch f.Name {
		case "name":
			patch.Name = &value
		case "email":
			patch.Email = &value
		case "phone":
			patch.Phone = &value
		case "address":
			patch.Address = &value
		}
	})
	return patch
}

func envOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
