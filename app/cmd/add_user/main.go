package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/YashwanthPb/vyaparforge-sub001/app/config"
	"github.com/YashwanthPb/vyaparforge-sub001/app/database"
	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
)

func main() {
	email := flag.String("email", "", "email address for the new user")
	password := flag.String("password", "", "initial password")
	firstName := flag.String("first", "", "first name")
	lastName := flag.String("last", "", "last name")
	role := flag.String("role", "accounts", "role name (admin, accounts, stores)")
	flag.Parse()

	if *email == "" || *password == "" || *firstName == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Initialize database connection
	config.InitDB()
	db := config.GetDB()
	if db == nil {
		fmt.Println("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	user := &models.User{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  *password,
	}

	if err := database.CreateUser(db, user, *role); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User created successfully: %s %s (%s) with role %s\n", user.FirstName, user.LastName, user.Email, *role)
}
