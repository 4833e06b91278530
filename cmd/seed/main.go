// Seeds a demo client org, two agencies, and a login per org so a fresh
// database is usable immediately. Safe to re-run; existing rows are kept.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mediaflowhq/mediaflow-backend/internal/app"
	types "github.com/mediaflowhq/mediaflow-backend/internal/domain"
	"github.com/mediaflowhq/mediaflow-backend/internal/pkg/dbctx"
	"github.com/mediaflowhq/mediaflow-backend/internal/platform/apierr"
)

func main() {
	var password string
	flag.StringVar(&password, "password", "Password123", "password for every seeded login")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	client, err := ensureClient(dbc, application, "Meridian Foods")
	if err != nil {
		fmt.Printf("seed client: %v\n", err)
		os.Exit(1)
	}

	agencies := make(map[string]*types.Agency)
	for _, name := range []string{"Brightwave Media", "Atlas & Grey"} {
		agency, err := ensureAgency(dbc, application, name)
		if err != nil {
			fmt.Printf("seed agency %q: %v\n", name, err)
			os.Exit(1)
		}
		agencies[name] = agency
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("hash password: %v\n", err)
		os.Exit(1)
	}

	logins := []*types.User{
		{
			Email:        "admin@meridianfoods.example",
			Name:         "Meridian Admin",
			Role:         types.RoleClientAdmin,
			ClientID:     &client.ID,
			PasswordHash: string(hash),
		},
		{
			Email:        "planner@brightwave.example",
			Name:         "Brightwave Planner",
			Role:         types.RoleAgencyMember,
			AgencyID:     idPtr(agencies["Brightwave Media"].ID),
			PasswordHash: string(hash),
		},
		{
			Email:        "planner@atlasgrey.example",
			Name:         "Atlas & Grey Planner",
			Role:         types.RoleAgencyMember,
			AgencyID:     idPtr(agencies["Atlas & Grey"].ID),
			PasswordHash: string(hash),
		},
	}
	for _, u := range logins {
		if err := ensureUser(dbc, application, u); err != nil {
			fmt.Printf("seed user %q: %v\n", u.Email, err)
			os.Exit(1)
		}
	}

	fmt.Println("seeding complete")
}

func ensureClient(dbc dbctx.Context, application *app.App, name string) (*types.Client, error) {
	existing, err := application.Repos.Client.List(dbc)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.Name == name {
			fmt.Printf("client exists: %s\n", name)
			return c, nil
		}
	}
	created, err := application.Repos.Client.Create(dbc, &types.Client{Name: name})
	if err != nil {
		return nil, err
	}
	fmt.Printf("created client: %s\n", name)
	return created, nil
}

func ensureAgency(dbc dbctx.Context, application *app.App, name string) (*types.Agency, error) {
	existing, err := application.Repos.Agency.List(dbc)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if a.Name == name {
			fmt.Printf("agency exists: %s\n", name)
			return a, nil
		}
	}
	created, err := application.Repos.Agency.Create(dbc, &types.Agency{Name: name})
	if err != nil {
		return nil, err
	}
	fmt.Printf("created agency: %s\n", name)
	return created, nil
}

func ensureUser(dbc dbctx.Context, application *app.App, u *types.User) error {
	_, err := application.Repos.User.GetByEmail(dbc, u.Email)
	if err == nil {
		fmt.Printf("user exists: %s\n", u.Email)
		return nil
	}
	if !apierr.IsKind(err, apierr.KindNotFound) {
		return err
	}
	if _, err := application.Repos.User.Create(dbc, u); err != nil {
		return err
	}
	fmt.Printf("created user: %s (%s)\n", u.Email, u.Role)
	return nil
}

func idPtr(id uuid.UUID) *uuid.UUID { return &id }
