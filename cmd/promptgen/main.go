// promptgen - structured LLM prompts for software-engineering tasks.
//
// Pick a task, describe the project, and get a prompt that carries your
// source tree and database schema as reference context.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jxucoder/promptgen/internal/cli"
)

var version = "dev"

func main() {
	log.SetFlags(0)
	log.SetPrefix("promptgen: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], cli.Options{Version: version})
	stop()
	os.Exit(code)
}
