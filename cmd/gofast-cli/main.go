// Command gofast-cli is a standalone interactive RESP client: point it
// at a running gofast-server and type commands.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/GopeshSingal/gofast-server/internal/replclient"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:6379", "gofast-server address to connect to")
	flag.Parse()

	if err := replclient.Run(*addr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
