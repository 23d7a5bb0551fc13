// Command mdp publishes Markdown documents to Telegram channels and Telegraph pages.
package main

var version = "dev"

func main() {
	Execute(version)
}
