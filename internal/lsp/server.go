package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"trivet/internal/rules"
	"trivet/internal/version"
)

var (
	// ErrExit is returned by Run after "exit" that followed "shutdown".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown is returned for "exit" without "shutdown";
	// the process should exit with status 1.
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// Workspace is what the server needs from the configuration of a root.
type Workspace struct {
	Table *rules.Table
	// Include lists the extensions analysed; other documents are ignored.
	Include []string
}

// WorkspaceFunc loads the workspace for a root. It runs on initialize,
// on configuration changes and when a config file is saved.
type WorkspaceFunc func(root string) (*Workspace, error)

type ServerOptions struct {
	// Debounce delays analysis after an edit; 300ms by default.
	Debounce       time.Duration
	Analyze        AnalyzeFunc
	LoadWorkspace  WorkspaceFunc
	MaxDiagnostics int
	// Log receives server notes; nil means stderr.
	Log io.Writer
}

// Server speaks LSP over stdio. Every open document is analysed on its
// own; there is no cross-file state.
type Server struct {
	in    *bufio.Reader
	conn  *conn
	log   io.Writer
	sched *debouncer

	analyze       AnalyzeFunc
	loadWorkspace WorkspaceFunc

	mu             sync.Mutex
	docs           map[string]*document
	root           string
	workspace      *Workspace
	maxDiagnostics int
	verbose        bool
	shuttingDown   bool
}

type handlerFunc func(s *Server, msg *rpcMessage) error

var handlers = map[string]handlerFunc{
	"initialize":                       (*Server).handleInitialize,
	"initialized":                      func(*Server, *rpcMessage) error { return nil },
	"shutdown":                         (*Server).handleShutdown,
	"exit":                             (*Server).handleExit,
	"workspace/didChangeConfiguration": (*Server).handleDidChangeConfiguration,
	"textDocument/didOpen":             onDocument(openDocument),
	"textDocument/didChange":           onDocument(changeDocument),
	"textDocument/didSave":             onDocument(saveDocument),
	"textDocument/didClose":            onDocument(closeDocument),
	"textDocument/codeAction":          (*Server).handleCodeAction,
	"textDocument/foldingRange":        (*Server).handleFoldingRange,
}

func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	s := &Server{
		in:             bufio.NewReader(in),
		conn:           &conn{out: bufio.NewWriter(out)},
		log:            opts.Log,
		sched:          newDebouncer(opts.Debounce),
		analyze:        opts.Analyze,
		loadWorkspace:  opts.LoadWorkspace,
		docs:           make(map[string]*document),
		maxDiagnostics: opts.MaxDiagnostics,
	}
	if s.sched.delay <= 0 {
		s.sched.delay = 300 * time.Millisecond
	}
	if s.analyze == nil {
		s.analyze = AnalyzeDocument
	}
	if s.loadWorkspace == nil {
		s.loadWorkspace = LoadWorkspace
	}
	if s.maxDiagnostics <= 0 {
		s.maxDiagnostics = 100
	}
	if s.log == nil {
		s.log = os.Stderr
	}
	return s
}

// Run serves messages until "exit" or end of input. Malformed frames end
// the session; malformed JSON in a frame is logged and skipped.
func (s *Server) Run(ctx context.Context) error {
	s.sched.setBase(ctx)
	defer s.sched.stop()
	for {
		payload, err := readMessage(s.in)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	if h, ok := handlers[msg.Method]; ok {
		return h(s, msg)
	}
	if len(msg.ID) > 0 {
		return s.conn.fail(msg.ID, codeMethodNotFound, "method not found")
	}
	return nil
}

// decodeParams unmarshals msg.Params into v; absent params leave v zero.
func decodeParams(msg *rpcMessage, v any) error {
	if len(msg.Params) == 0 {
		return nil
	}
	return json.Unmarshal(msg.Params, v)
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if err := decodeParams(msg, &params); err != nil {
		return s.conn.fail(msg.ID, codeInvalidParams, "invalid params")
	}
	root := params.RootPath
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	s.mu.Lock()
	s.root = root
	s.mu.Unlock()
	s.reloadWorkspace()

	return s.conn.reply(msg.ID, initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2, // incremental
				Save:      saveOptions{IncludeText: true},
			},
			CodeActionProvider:   &codeActionOptions{CodeActionKinds: []string{"quickfix", fixAllKind}},
			FoldingRangeProvider: true,
		},
		ServerInfo: serverInfo{Name: "trivet", Version: version.Version},
	})
}

// reloadWorkspace rebuilds the rule table for the current root. A broken
// config keeps the previous workspace, or the defaults when there is none.
func (s *Server) reloadWorkspace() {
	s.mu.Lock()
	root, have := s.root, s.workspace != nil
	s.mu.Unlock()
	ws, err := s.loadWorkspace(root)
	if err != nil {
		s.logf("config: %v", err)
		if have {
			return
		}
		if ws, err = defaultWorkspace(); err != nil {
			s.logf("default rule table: %v", err)
			return
		}
	}
	s.mu.Lock()
	s.workspace = ws
	s.mu.Unlock()
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shuttingDown = true
	s.mu.Unlock()
	s.sched.stop()
	s.clearPublishedDiagnostics()
	return s.conn.reply(msg.ID, nil)
}

func (s *Server) handleExit(*rpcMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shuttingDown {
		return ErrExit
	}
	return ErrExitWithoutShutdown
}

func (s *Server) publish(uri string, version *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.conn.notify("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: list,
	})
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(s.log, "lsp: "+format+"\n", args...)
}
