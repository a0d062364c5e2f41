package lsp

// document is the editor's view of one open file.
type document struct {
	text    string
	version int
	// snap is the analysis of text at version, nil until the first run.
	snap      *docSnapshot
	published bool
}

// current reports whether snap still describes the document.
func (d *document) current() bool {
	return d.snap != nil && d.snap.version == d.version && string(d.snap.file.Content) == d.text
}

// documentParams are the textDocument/* notifications, all keyed by URI.
type documentParams[P any] interface {
	*P
	documentURI() string
}

func (p *didOpenTextDocumentParams) documentURI() string   { return p.TextDocument.URI }
func (p *didChangeTextDocumentParams) documentURI() string { return p.TextDocument.URI }
func (p *didSaveTextDocumentParams) documentURI() string   { return p.TextDocument.URI }
func (p *didCloseTextDocumentParams) documentURI() string  { return p.TextDocument.URI }

// onDocument decodes a document notification and hands it on with its
// canonical URI. Documents without a file path are ignored.
func onDocument[P any, PP documentParams[P]](fn func(s *Server, uri string, params PP)) handlerFunc {
	return func(s *Server, msg *rpcMessage) error {
		params := PP(new(P))
		if err := decodeParams(msg, params); err != nil {
			return err
		}
		if uri := canonicalURI(params.documentURI()); uri != "" {
			fn(s, uri, params)
		}
		return nil
	}
}

func openDocument(s *Server, uri string, p *didOpenTextDocumentParams) {
	s.mu.Lock()
	s.docs[uri] = &document{text: p.TextDocument.Text, version: p.TextDocument.Version}
	s.mu.Unlock()
	s.scheduleDiagnostics()
}

func changeDocument(s *Server, uri string, p *didChangeTextDocumentParams) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		// изменение без didOpen: начинаем с пустого буфера
		doc = &document{}
		s.docs[uri] = doc
	}
	from, to := doc.version, p.TextDocument.Version
	doc.text = applyChanges(doc.text, p.ContentChanges)
	doc.version = to
	verbose := s.verbose
	s.mu.Unlock()

	if verbose {
		s.logf("didChange %s: version %d -> %d", uri, from, to)
	}
	s.scheduleDiagnostics()
}

// saveDocument also catches saves of trivet.toml, which change the rules
// every open document is checked with.
func saveDocument(s *Server, uri string, p *didSaveTextDocumentParams) {
	if p.Text != nil {
		s.mu.Lock()
		if doc, ok := s.docs[uri]; ok {
			doc.text = *p.Text
		}
		s.mu.Unlock()
	}
	if isConfigPath(uriToPath(uri)) {
		s.reloadWorkspace()
		s.invalidateSnapshots()
	}
	s.scheduleDiagnostics()
}

func closeDocument(s *Server, uri string, _ *didCloseTextDocumentParams) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	delete(s.docs, uri)
	s.mu.Unlock()
	if !ok || !doc.published {
		return
	}
	if err := s.publish(uri, nil, nil); err != nil {
		s.logf("failed to clear diagnostics: %v", err)
	}
}

// invalidateSnapshots forces the next run to re-analyse every document.
func (s *Server) invalidateSnapshots() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		doc.snap = nil
	}
}

func (s *Server) snapshotFor(uri string) *docSnapshot {
	key := canonicalURI(uri)
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[key]; ok {
		return doc.snap
	}
	return nil
}
