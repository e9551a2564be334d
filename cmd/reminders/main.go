package main

import (
	"os"

	"vet-care-reminders/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
