package parser

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRecord_EncodingError(t *testing.T) {
	line := strings.Replace(classicCases[0].line, `"curl/7.38.0"`, "\"curl/\xff7.38.0\"", 1)
	rec, err := NewParser(ClassicLB).Parse([]byte(line))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	dst := []byte("prefix")
	got, err := rec.AppendJSON(dst)
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("AppendJSON() error = %v, want *EncodingError", err)
	}
	if encErr.Field != "user_agent" {
		t.Errorf("EncodingError.Field = %q, want %q", encErr.Field, "user_agent")
	}
	if want := strings.IndexByte(line, 0xff); encErr.Offset != want {
		t.Errorf("EncodingError.Offset = %d, want %d", encErr.Offset, want)
	}
	if string(got) != "prefix" {
		t.Errorf("AppendJSON() left %q in dst, want it unchanged", got)
	}
}

func TestRecord_ControlCharacters(t *testing.T) {
	line := strings.Replace(classicCases[0].line, `"curl/7.38.0"`, "\"curl\t\x01/7.38.0\"", 1)
	rec, err := NewParser(ClassicLB).Parse([]byte(line))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	data, err := rec.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"user_agent":"curl\t\u0001/7.38.0"`) {
		t.Errorf("MarshalJSON() = %s, want escaped control characters", data)
	}

	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded["user_agent"] != "curl\t\x01/7.38.0" {
		t.Errorf("user_agent round trip = %q", decoded["user_agent"])
	}
}

func TestRecord_Multibyte(t *testing.T) {
	line := strings.Replace(classicCases[0].line, `"curl/7.38.0"`, `"curl/7.38.0 (日本語)"`, 1)
	rec, err := NewParser(ClassicLB).Parse([]byte(line))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	data, err := rec.AppendJSON(nil)
	if err != nil {
		t.Fatalf("AppendJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"user_agent":"curl/7.38.0 (日本語)"`) {
		t.Errorf("AppendJSON() = %s", data)
	}
}

func TestRecord_Zero(t *testing.T) {
	var rec Record
	if rec.Len() != 0 {
		t.Errorf("Len() = %d, want 0", rec.Len())
	}
	if _, ok := rec.Field("time"); ok {
		t.Error("Field() on zero Record reported a value")
	}
	data, err := rec.AppendJSON(nil)
	if err != nil || string(data) != "{}" {
		t.Errorf("AppendJSON() = %q, %v; want {}", data, err)
	}
}

func TestRecord_UnknownField(t *testing.T) {
	rec, err := NewParser(ClassicLB).Parse([]byte(classicCases[0].line))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, ok := rec.Field("classification"); ok {
		t.Error("Field(classification) found on a classic record")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    *Dialect
		wantErr bool
	}{
		{"alb", ALB, false},
		{"classic-lb", ClassicLB, false},
		{"elb", nil, true},
		{"", nil, true},
	}
	for _, tt := range tests {
		got, err := Lookup(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("Lookup(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDialect_Metadata(t *testing.T) {
	if n := len(ALB.Fields()); n != 32 {
		t.Errorf("len(ALB.Fields()) = %d, want 32", n)
	}
	if n := len(ClassicLB.Fields()); n != 18 {
		t.Errorf("len(ClassicLB.Fields()) = %d, want 18", n)
	}
	if ALB.Ext() != ".log.gz" || !ALB.Compressed() {
		t.Errorf("ALB ext = %q compressed = %v", ALB.Ext(), ALB.Compressed())
	}
	if ClassicLB.Ext() != ".log" || ClassicLB.Compressed() {
		t.Errorf("ClassicLB ext = %q compressed = %v", ClassicLB.Ext(), ClassicLB.Compressed())
	}
}
