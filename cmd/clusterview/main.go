package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/balaji-balu/clusterview/cmd/clusterview/cli/cmd"
)

func init() {
	if err := godotenv.Load("./.env"); err != nil {
		log.Println("No .env file found, reading from system environment")
	}
}

func main() {
	cmd.Execute()
}
