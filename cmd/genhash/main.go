// genhash prints a bcrypt hash for a password, for seeding initial accounts
// or resetting one by hand.
//
//	go run ./cmd/genhash [password]
//
// Without an argument the password is read from the terminal without echo.
package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/ecotech-solutions/ecotech/pkg/cryptox"
)

func main() {
	var password string
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "Password: ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading password: %v\n", err)
			os.Exit(1)
		}
		password = string(pw)
	}

	hasher := cryptox.NewHasher(cryptox.DefaultCost)
	hash, err := hasher.Hash(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
