package main

import (
	_ "telegram-ai-relay/docs" // Swagger docs
)

// @title       Telegram AI Relay API
// @description Telegram bot that relays chat messages to ChatGPT, Claude or DeepSeek.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	Execute()
}
