package main

import (
	"fmt"
	"log"

	"github.com/sifworld/retreat-booking-backend/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("Secret Generator for Retreat Booking")
	fmt.Println("===========================================")
	fmt.Println()

	adminSecret, webhookSecret, err := utils.GenerateServiceSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}

	fmt.Println("Secrets generated successfully!")
	fmt.Println()
	fmt.Println("Add these to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("ADMIN_SECRET=%s\n", adminSecret)
	fmt.Printf("RAZORPAY_WEBHOOK_SECRET=%s\n", webhookSecret)
	fmt.Println()
	fmt.Println("Register the webhook secret in the Razorpay dashboard as well.")
	fmt.Println("Keep these secrets safe and never commit them to version control!")
	fmt.Println("===========================================")
}
