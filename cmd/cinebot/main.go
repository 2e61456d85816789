package main

import (
	"log"

	corecmd "github.com/aarthigrand/cinebot/core/cmd"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
	})
	if err != nil {
		log.Fatalf("cinebot: %v", err)
	}
}
