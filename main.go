package main

import (
	"lite2pg/cmd"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	// load the .env file if it exists
	_ = godotenv.Load()

	cmd.Execute()
}
