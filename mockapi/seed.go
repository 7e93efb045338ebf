package mockapi

import (
	"time"

	"github.com/jrsteele09/product-console/session"
	"github.com/jrsteele09/product-console/users"
)

var (
	ScreenDashboard = session.ScreenGrant{ScreenURL: "/dashboard", ScreenName: "Dashboard"}
	ScreenProducts  = session.ScreenGrant{ScreenURL: "/products", ScreenName: "Products"}
)

// DemoAccount is a seeded login.
type DemoAccount struct {
	User     users.User
	Password string
}

// DemoAccounts are the users every fresh mock backend starts with.
var DemoAccounts = []DemoAccount{
	{
		User: users.User{
			ID: 1, Username: "emilys", Email: "emily.johnson@example.com",
			FirstName: "Emily", LastName: "Johnson", Gender: "female", UserCode: "EMP-0001",
			Active: true, UserType: session.UserTypeAdmin,
			Screens: []session.ScreenGrant{ScreenDashboard, ScreenProducts},
		},
		Password: "EmilysPass1",
	},
	{
		User: users.User{
			ID: 2, Username: "michaelw", Email: "michael.williams@example.com",
			FirstName: "Michael", LastName: "Williams", Gender: "male", UserCode: "EMP-0002",
			Active: true, UserType: session.UserTypeUser,
			Screens: []session.ScreenGrant{ScreenProducts},
		},
		Password: "MichaelPass1",
	},
	{
		User: users.User{
			ID: 3, Username: "sophiab", Email: "sophia.brown@example.com",
			FirstName: "Sophia", LastName: "Brown", Gender: "female", UserCode: "EMP-0003",
			Active: false, UserType: session.UserTypeManager,
			Screens: []session.ScreenGrant{ScreenDashboard},
		},
		Password: "SophiaPass1",
	},
}

// SeedUsers stores the demo accounts in repo with hashed passwords.
func SeedUsers(repo users.UserRepo, now time.Time) error {
	for _, acct := range DemoAccounts {
		hash, err := users.HashPassword(acct.Password)
		if err != nil {
			return err
		}
		u := acct.User
		u.PasswordHash = hash
		u.DateJoined = now
		if err := repo.Upsert(&u); err != nil {
			return err
		}
	}
	return nil
}
