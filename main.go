package main

import "github.com/ashwin-phadke/copilot-chat-extractor-vscode/cmd"

func main() {
	cmd.Execute()
}
