package lsp

import "encoding/json"

// handleDidChangeConfiguration applies client settings and re-reads the
// workspace config, which the client may be reporting as changed.
func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	var params didChangeConfigurationParams
	if err := decodeParams(msg, &params); err != nil {
		s.logf("ignoring configuration: %v", err)
		return nil
	}
	s.applySettings(params.Settings)
	s.reloadWorkspace()
	s.invalidateSnapshots()
	s.scheduleDiagnostics()
	return nil
}

func (s *Server) applySettings(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logf("ignoring settings: %v", err)
		return
	}
	opts := settings.Trivet
	s.mu.Lock()
	defer s.mu.Unlock()
	if opts.MaxDiagnostics != nil && *opts.MaxDiagnostics > 0 {
		s.maxDiagnostics = *opts.MaxDiagnostics
	}
	if opts.Trace != nil {
		s.verbose = *opts.Trace
	}
}
