package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// maxMessageSize bounds one message body; a C# file larger than this is
// not something an editor sends.
const maxMessageSize = 64 << 20

var errMissingLength = errors.New("lsp: missing Content-Length header")

// readMessage reads one base-protocol frame: headers, blank line, body.
func readMessage(r *bufio.Reader) ([]byte, error) {
	contentLength := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		length, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || length < 0 {
			return nil, fmt.Errorf("lsp: invalid Content-Length %q", value)
		}
		contentLength = length
	}
	if contentLength < 0 {
		return nil, errMissingLength
	}
	if contentLength > maxMessageSize {
		return nil, fmt.Errorf("lsp: message of %d bytes exceeds the limit", contentLength)
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func writeMessage(w io.Writer, payload []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(payload)); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

type rpcResult struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
}

type rpcFailure struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Error   rpcError        `json:"error"`
}

type rpcNotification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// conn serialises writes of whole frames.
type conn struct {
	mu  sync.Mutex
	out *bufio.Writer
}

func (c *conn) write(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := writeMessage(c.out, payload); err != nil {
		return err
	}
	return c.out.Flush()
}

func (c *conn) reply(id json.RawMessage, result any) error {
	return c.write(rpcResult{JSONRPC: "2.0", ID: id, Result: result})
}

func (c *conn) fail(id json.RawMessage, code int, message string) error {
	return c.write(rpcFailure{JSONRPC: "2.0", ID: id, Error: rpcError{Code: code, Message: message}})
}

func (c *conn) notify(method string, params any) error {
	return c.write(rpcNotification{JSONRPC: "2.0", Method: method, Params: params})
}
