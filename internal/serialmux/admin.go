package serialmux

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"tailscale.com/tsweb"
)

//go:embed templates/*
var consoleFS embed.FS

var consoleTemplate = template.Must(template.ParseFS(consoleFS, "templates/send-command.html.tmpl"))

// console serves the probe console on top of any mux implementation.
type console struct {
	mux SerialMuxInterface
}

func attachAdminRoutes(mux *http.ServeMux, s SerialMuxInterface) {
	c := console{mux: s}
	debug := tsweb.Debugger(mux)
	debug.HandleFunc("send-command", "send a command to the probe", c.page)
	debug.HandleSilentFunc("send-command-api", c.send)
	debug.HandleSilentFunc("tail", c.tail)
	debug.HandleSilentFunc("tail.js", c.script)
}

func (c console) page(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := consoleTemplate.Execute(&buf, nil); err != nil {
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// send writes the posted command. With wait set it blocks on Query and
// returns the response line instead.
func (c console) send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	command := strings.TrimSpace(r.FormValue("command"))
	if command == "" {
		http.Error(w, "Missing command", http.StatusBadRequest)
		return
	}

	if r.FormValue("wait") == "" {
		if err := c.mux.SendCommand(command); err != nil {
			http.Error(w, "Failed to write command", http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "Wrote command %q to serial port", command)
		return
	}

	line, err := c.mux.Query(r.Context(), command)
	if err != nil {
		http.Error(w, fmt.Sprintf("Query failed: %v", err), http.StatusGatewayTimeout)
		return
	}
	io.WriteString(w, line)
}

// tail streams every line read from the port as Server-Sent Events.
func (c console) tail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	id, lines := c.mux.Subscribe()
	defer c.mux.Unsubscribe(id)

	io.WriteString(w, ": ping\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", line); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (c console) script(w http.ResponseWriter, r *http.Request) {
	b, err := consoleFS.ReadFile("templates/tail.js")
	if err != nil {
		http.Error(w, "Failed to open tail.js", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(b)
}
