package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ccollicutt/elblog/pkg/parser"
	"github.com/ccollicutt/elblog/pkg/pipeline"
)

func TestExitCode(t *testing.T) {
	_, mismatch := parser.NewParser(parser.ALB).Parse([]byte("garbage"))

	tests := []struct {
		name       string
		err        error
		want       int
		wantStderr string
	}{
		{"success", nil, ExitOK, ""},
		{"mismatch", fmt.Errorf("a.log.gz:3: %w", mismatch), ExitInvalidLine, ""},
		{"encoding", &parser.EncodingError{Field: "user_agent", Offset: 4}, ExitInvalidLine, "Error: field \"user_agent\""},
		{"fault", &pipeline.FaultError{Role: "worker 0", Value: "boom", Stack: []byte("stack\n")}, ExitFault, "internal fault in worker 0: boom\nstack"},
		{"interrupted", fmt.Errorf("walking: %w", context.Canceled), ExitInterrupted, "Interrupted"},
		{"io", errors.New("opening log file: permission denied"), ExitError, "Error: opening log file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if got := ExitCode(tt.err, &stderr); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
			if tt.wantStderr == "" && stderr.Len() != 0 {
				t.Errorf("stderr = %q, want nothing", stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()
	if !root.SilenceUsage || !root.SilenceErrors {
		t.Error("root command must silence usage and errors")
	}
	for _, name := range []string{"detect", "validate", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_ConvertsStdin(t *testing.T) {
	line := `2015-05-13T23:39:43.945958Z my-loadbalancer 192.168.131.39:2817 10.0.0.1:80 0.000073 0.001048 0.000057 200 200 0 29 "GET http://www.example.com:80/ HTTP/1.1" "curl/7.38.0" - -`

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(line + "\n"))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--type", "classic-lb", "-"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), `"user_agent":"curl/7.38.0"`) {
		t.Errorf("stdout = %s", out.String())
	}
}
