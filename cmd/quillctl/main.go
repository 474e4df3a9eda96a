package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"quill/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	cli.Parse()

	args := cli.Args()
	if len(args) == 0 {
		fmt.Println("usage: quillctl [--socket path] <reload|bonk> [args...]")
		os.Exit(2)
	}

	if err := ipc.SendCommand(*socket, args[0], args[1:]...); err != nil {
		fmt.Println("quill not running:", err)
		os.Exit(1)
	}
}
