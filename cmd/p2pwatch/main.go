// Command p2pwatch forwards DreamBot chat exchanges and quest completions
// to a Discord webhook.
package main

func main() {
	Execute()
}
