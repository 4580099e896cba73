package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp/server"

	"github.com/lumenvm/lumen/internal/lsp"
)

const lsName = "lumen-lsp"

func main() {
	commonlog.Configure(1, nil)

	handler := lsp.NewHandler()
	s := server.NewServer(handler, lsName, false)

	log.Println("Starting lumen-lsp server...")
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting lumen-lsp server:", err)
		os.Exit(1)
	}
}
