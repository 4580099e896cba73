// Package lsp implements a minimal language server over the textual IR
// form internal/irtext parses: it tracks open .lir documents and answers a
// custom "lumen/ssaDump" request that runs the SSA construction pass over
// a document's functions and returns their rendered post-pass IR. It
// carries over the teacher's glsp wiring style (internal/lsp/handler.go's
// protocol.Handler struct literal, sync.RWMutex-guarded document map,
// uriToPath helper) adapted from a contract-language hover/completion
// server to a pass-development tool with one custom request instead of
// completion or semantic tokens.
package lsp

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/lumenvm/lumen/internal/ir"
	"github.com/lumenvm/lumen/internal/irtext"
	"github.com/lumenvm/lumen/internal/lumenerr"
	"github.com/lumenvm/lumen/internal/pipeline"
)

// ssaDumpMethod is the custom LSP request this server adds beyond the
// standard lifecycle and text-sync methods.
const ssaDumpMethod = "lumen/ssaDump"

// SSADumpParams names the open document to run the pass over.
type SSADumpParams struct {
	URI protocol.DocumentUri `json:"uri"`
}

// FunctionDump is one function's post-pass textual IR.
type FunctionDump struct {
	Name string `json:"name"`
	IR   string `json:"ir"`
}

// SSADumpResult is the lumen/ssaDump response: every function the
// document contains, in source order, after SSA construction.
type SSADumpResult struct {
	Functions []FunctionDump `json:"functions"`
}

// Handler implements the LSP lifecycle methods over protocol.Handler and
// overrides Handle to additionally dispatch ssaDumpMethod; every other
// method falls through to the embedded Handler's generated dispatch.
type Handler struct {
	protocol.Handler

	mu      sync.RWMutex
	sources map[string]string // path -> last-known document text
}

// NewHandler creates a Handler with its standard LSP methods wired and no
// documents open yet.
func NewHandler() *Handler {
	h := &Handler{sources: make(map[string]string)}
	h.Handler = protocol.Handler{
		Initialize:            h.initialize,
		Initialized:           h.initialized,
		Shutdown:              h.shutdown,
		TextDocumentDidOpen:   h.textDocumentDidOpen,
		TextDocumentDidChange: h.textDocumentDidChange,
		TextDocumentDidClose:  h.textDocumentDidClose,
	}
	return h
}

// Handle intercepts ssaDumpMethod and otherwise defers to the embedded
// protocol.Handler's generated dispatch, matching glsp's documented
// pattern for adding a method beyond the standard LSP surface.
func (h *Handler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	if context.Method == ssaDumpMethod {
		result, dumpErr := h.ssaDump(context.Params)
		if dumpErr != nil {
			return nil, true, false, dumpErr
		}
		return result, true, true, nil
	}
	return h.Handler.Handle(context)
}

func (h *Handler) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("lumen-lsp: initialize")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("lumen-lsp: initialized")
	return nil
}

func (h *Handler) shutdown(ctx *glsp.Context) error {
	log.Println("lumen-lsp: shutdown")
	return nil
}

func (h *Handler) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(string(params.TextDocument.URI))
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.sources[path] = params.TextDocument.Text
	h.mu.Unlock()
	return nil
}

func (h *Handler) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(string(params.TextDocument.URI))
	if err != nil {
		return err
	}
	for _, change := range params.ContentChanges {
		if full, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			h.mu.Lock()
			h.sources[path] = full.Text
			h.mu.Unlock()
		}
	}
	return nil
}

func (h *Handler) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(string(params.TextDocument.URI))
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.sources, path)
	h.mu.Unlock()
	return nil
}

// ssaDump parses the named document's functions, runs the SSA pass over
// each, and renders the result. Documents not currently open (or opened
// under a different process) are read from disk, matching the teacher's
// updateAST fallback-to-disk behavior.
func (h *Handler) ssaDump(raw json.RawMessage) (*SSADumpResult, error) {
	var params SSADumpParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("lumen/ssaDump: invalid params: %w", err)
	}

	path, err := uriToPath(string(params.URI))
	if err != nil {
		return nil, err
	}

	h.mu.RLock()
	source, open := h.sources[path]
	h.mu.RUnlock()
	if !open {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("lumen/ssaDump: failed to read %s: %w", path, err)
		}
		source = string(data)
	}

	fns, err := irtext.ParseString(path, source)
	if err != nil {
		return nil, fmt.Errorf("lumen/ssaDump: %w", err)
	}

	result := &SSADumpResult{}
	for _, fn := range fns {
		if err := runSSA(fn); err != nil {
			return nil, fmt.Errorf("lumen/ssaDump: %s: %w", fn.Name, err)
		}
		result.Functions = append(result.Functions, FunctionDump{Name: fn.Name, IR: ir.Print(fn)})
	}
	return result, nil
}

// runSSA runs the pass over fn and converts a lumenerr.InternalError panic
// (the pass's only failure mode) into a regular error the LSP transport
// can report to the client as a request error.
func runSSA(fn *ir.Function) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*lumenerr.InternalError); ok {
				err = ie
				return
			}
			panic(r)
		}
	}()
	pipeline.MakeSSA(fn)
	return nil
}

// uriToPath converts a file:// URI to a platform-local path, carried over
// from the teacher's internal/lsp/handler.go verbatim (Windows drive-letter
// handling included) since URI handling isn't part of this domain's spec.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
