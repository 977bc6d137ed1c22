package protocol

import (
	"encoding/json"
	"net"
	"testing"
)

func TestExchangeRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	lib := `C:\libs`
	req := &Request{
		Language:  LanguageTern,
		Dir:       `C:\work`,
		Args:      []string{"foo.tn", "/out:foo"},
		LibEnv:    &lib,
		KeepAlive: "30",
	}

	done := make(chan error, 1)
	go func() {
		defer server.Close()

		var got Request
		if err := json.NewDecoder(server).Decode(&got); err != nil {
			done <- err
			return
		}
		if got.Language != LanguageTern || got.KeepAlive != "30" {
			t.Errorf("server saw request %+v", got)
		}
		if got.LibEnv == nil || *got.LibEnv != lib {
			t.Errorf("server saw lib %v, want %q", got.LibEnv, lib)
		}
		done <- json.NewEncoder(server).Encode(&Response{
			ExitCode:    2,
			Output:      []byte("warning\n"),
			ErrorOutput: []byte("error\n"),
			Utf8Output:  true,
		})
	}()

	resp, err := Exchange(client, req)
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if serr := <-done; serr != nil {
		t.Fatalf("fake server error = %v", serr)
	}

	if resp.ExitCode != 2 {
		t.Errorf("exit code = %d, want 2", resp.ExitCode)
	}
	if string(resp.Output) != "warning\n" || string(resp.ErrorOutput) != "error\n" {
		t.Errorf("payloads = %q / %q", resp.Output, resp.ErrorOutput)
	}
	if !resp.Utf8Output {
		t.Error("utf8 flag lost in transit")
	}
}

func TestExchangeMalformedResponse(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	go func() {
		defer server.Close()

		var got Request
		if err := json.NewDecoder(server).Decode(&got); err != nil {
			return
		}
		server.Write([]byte("not json\n"))
	}()

	if _, err := Exchange(client, &Request{Language: LanguageTern}); err == nil {
		t.Fatal("Exchange() error = nil, want malformed-response failure")
	}
}

func TestExchangeClosedChannel(t *testing.T) {
	client, server := net.Pipe()
	server.Close()
	defer client.Close()

	if _, err := Exchange(client, &Request{Language: LanguageTern}); err == nil {
		t.Fatal("Exchange() error = nil, want write failure")
	}
}
