// invite sends WhatsApp sandbox join instructions to a phone number over SMS,
// so a recipient who cannot yet receive WhatsApp messages can opt in.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	coreconfig "github.com/aarthigrand/cinebot/core/config"
	"github.com/aarthigrand/cinebot/core/whatsapp"
)

func main() {
	var (
		cfgPath     = flag.String("config", "config.yaml", "path to the bot configuration file")
		to          = flag.String("to", "", "recipient phone number, e.g. +919876543210")
		sandboxCode = flag.String("code", "", "Twilio WhatsApp sandbox join code")
	)
	flag.Parse()

	if strings.TrimSpace(*to) == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := coreconfig.Load(*cfgPath)
	if err != nil {
		log.Fatalf("invite: load config: %v", err)
	}

	number := strings.TrimPrefix(cfg.Twilio.WhatsAppNumber, "whatsapp:")
	recipient := strings.TrimPrefix(strings.TrimSpace(*to), "whatsapp:")

	body := joinInstructions(cfg.Cinema.Name, number, *sandboxCode)

	client := whatsapp.NewClient(cfg.Twilio)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sid, err := client.SendSMS(ctx, recipient, body)
	if err != nil {
		log.Fatalf("invite: send failed: %v", err)
	}

	fmt.Printf("invitation sent via SMS to %s (sid %s)\n", recipient, sid)
}

func joinInstructions(cinemaName, number, code string) string {
	if code == "" {
		return fmt.Sprintf(
			"To chat with %s on WhatsApp, please:\n\n"+
				"1. Save this number in your contacts: %s\n\n"+
				"2. Open WhatsApp and send the message 'join <sandbox-code>' to this number.\n\n"+
				"Replace <sandbox-code> with the code from your Twilio WhatsApp Sandbox settings.",
			cinemaName, number,
		)
	}
	return fmt.Sprintf(
		"To chat with %s on WhatsApp, please:\n\n"+
			"1. Save this number in your contacts: %s\n\n"+
			"2. Open WhatsApp and send the message 'join %s' to this number.",
		cinemaName, number, code,
	)
}
