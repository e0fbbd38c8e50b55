package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/db"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

// run executes the command line and always releases the database connection
func run(args []string) error {
	defer db.CloseDB()

	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}
