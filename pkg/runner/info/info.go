package info

import (
	"context"
	"fmt"
	"os"

	"tableflip.dev/dumpdash/pkg/store"
)

type Info struct {
	Config      store.Config
	Persistence store.Persistence
}

func (n *Info) Do(ctx context.Context) error {

	if override := os.Getenv("DUMPDASH_CONFIG_PATH"); override != "" {
		fmt.Println("DUMPDASH_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Println("DUMPDASH_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	source := n.Config.Source()
	if source == "" {
		source = "defaults"
	}
	fmt.Println("Config.file: ", source)
	fmt.Println("Config.api:  ", n.Config.APIURL())
	fmt.Println("Config.path: ", n.Config.BasePath())
	if id := n.Config.UserID(); id != "" {
		fmt.Println("Config.user: ", id)
	}

	if n.Persistence == nil {
		return fmt.Errorf("Failed to create persistence object.")
	}

	session, err := n.Persistence.Session()
	if err != nil {
		return err
	}
	if session.Valid() {
		who := session.User.ID
		if session.User.PhoneNumber != "" {
			who = fmt.Sprintf("%s (%s)", who, session.User.PhoneNumber)
		}
		fmt.Println("Logged in as:", who)
	} else {
		fmt.Println("Not logged in, run `dumpdash login`.")
	}

	fmt.Printf("Stored keys:\n")
	found := 0
	for _, k := range n.Persistence.Keys(ctx) {
		fmt.Printf("  %s\n", k)
		found++
	}

	if found == 0 {
		fmt.Printf("  %s\n", "no keys")
	}

	return nil
}
