// Package protocol defines the single request/response frame exchanged with
// the compiler server over the connected channel.
package protocol

import (
	"encoding/json"
	"fmt"
	"net"
)

// Language names the compiler the server should dispatch to. Opaque to the
// connection logic; simply forwarded.
type Language string

const (
	LanguageTern       Language = "tern"
	LanguageTernScript Language = "ternscript"
)

// Request is the one message the client writes after connecting.
type Request struct {
	Language  Language `json:"language"`
	Dir       string   `json:"dir"`           // caller working directory
	Args      []string `json:"args"`          // residual command line, verbatim
	LibEnv    *string  `json:"lib,omitempty"` // LIB environment value, when set
	KeepAlive string   `json:"keep_alive,omitempty"`
}

// Response is the one message the server writes back. Payloads are raw
// bytes; the server may have embedded CRLF line endings and the client must
// not rewrite them.
type Response struct {
	ExitCode    int    `json:"exit_code"`
	Output      []byte `json:"output"`
	ErrorOutput []byte `json:"error_output"`
	Utf8Output  bool   `json:"utf8_output"`
}

// Exit codes for client-initiated failures.
const (
	ExitOK          = 0
	ExitClientError = 1
)

// Exchange writes one request frame and reads one response frame. A write
// failure or a malformed response yields an error; payloads are returned
// verbatim, never interpreted.
func Exchange(conn net.Conn, req *Request) (*Response, error) {
	enc := json.NewEncoder(conn)
	if err := enc.Encode(req); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	var resp Response
	dec := json.NewDecoder(conn)
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return &resp, nil
}
